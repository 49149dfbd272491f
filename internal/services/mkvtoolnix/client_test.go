package mkvtoolnix_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
	"time"

	"mkvcleaver/internal/services"
	"mkvcleaver/internal/services/mkvtoolnix"
)

type stubExecutor struct {
	lines    []string
	err      error
	calls    int
	binaries []string
	args     [][]string
	deadline bool
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.calls++
	s.binaries = append(s.binaries, binary)
	s.args = append(s.args, append([]string(nil), args...))
	_, s.deadline = ctx.Deadline()
	for _, line := range s.lines {
		onStdout(line)
	}
	return s.err
}

func newClient(t *testing.T, exec mkvtoolnix.Executor, opts ...mkvtoolnix.Option) *mkvtoolnix.Client {
	t.Helper()
	opts = append(opts, mkvtoolnix.WithExecutor(exec))
	client, err := mkvtoolnix.New("/opt/mkvtoolnix/mkvinfo", "/opt/mkvtoolnix/mkvextract", opts...)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	return client
}

func TestNewRequiresBinaries(t *testing.T) {
	if _, err := mkvtoolnix.New("", "mkvextract"); !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestInspectCollectsStdout(t *testing.T) {
	exec := &stubExecutor{lines: []string{"+ EBML head", "|+ Tracks"}}
	client := newClient(t, exec)

	report, err := client.Inspect(context.Background(), "/media/ep01.mkv")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	if report != "+ EBML head\n|+ Tracks\n" {
		t.Fatalf("unexpected report %q", report)
	}
	if exec.binaries[0] != "/opt/mkvtoolnix/mkvinfo" {
		t.Fatalf("unexpected binary %q", exec.binaries[0])
	}
	if !reflect.DeepEqual(exec.args[0], []string{"/media/ep01.mkv"}) {
		t.Fatalf("unexpected args %v", exec.args[0])
	}
	if exec.deadline {
		t.Fatal("no timeout configured but context has a deadline")
	}
}

func TestInspectFailureIsExternalToolError(t *testing.T) {
	client := newClient(t, &stubExecutor{err: &mkvtoolnix.ExitError{Code: 2, Stderr: "no such file"}})
	_, err := client.Inspect(context.Background(), "/missing.mkv")
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
	if !strings.Contains(err.Error(), "no such file") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	exec := &stubExecutor{}
	if _, err := newClient(t, exec).Inspect(context.Background(), " "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if exec.calls != 0 {
		t.Fatal("executor should not run")
	}
}

func TestExtractStreamsLinesAndToleratesWarnings(t *testing.T) {
	exec := &stubExecutor{
		lines: []string{"Progress: 50%", "Progress: 100%"},
		err:   &mkvtoolnix.ExitError{Code: 1},
	}
	client := newClient(t, exec, mkvtoolnix.WithTimeouts(0, time.Minute))

	var got []string
	args := []string{"tracks", "/media/ep01.mkv", "1:/out/a.aac"}
	if err := client.Extract(context.Background(), args, func(line string) { got = append(got, line) }); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 lines, got %v", got)
	}
	if exec.binaries[0] != "/opt/mkvtoolnix/mkvextract" || !reflect.DeepEqual(exec.args[0], args) {
		t.Fatalf("unexpected invocation %s %v", exec.binaries[0], exec.args[0])
	}
	if !exec.deadline {
		t.Fatal("expected extract timeout to apply")
	}
}

func TestExtractErrorClassification(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		marker error
	}{
		{name: "exit 2", err: &mkvtoolnix.ExitError{Code: 2}, marker: services.ErrExternalTool},
		{name: "launch", err: errors.New("start command: exec: not found"), marker: services.ErrExternalTool},
		{name: "canceled", err: context.Canceled, marker: services.ErrCanceled},
		{name: "timeout", err: context.DeadlineExceeded, marker: services.ErrTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, &stubExecutor{err: tt.err})
			err := client.Extract(context.Background(), []string{"tracks", "x.mkv", "0:x.h264"}, nil)
			if !errors.Is(err, tt.marker) {
				t.Fatalf("expected %v, got %v", tt.marker, err)
			}
		})
	}
}

func TestCommandExecutorRunsProcess(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("no /bin/sh")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "mkvextract")
	body := "#!/bin/sh\nprintf 'Progress: 10%%\\rProgress: 80%%\\r\\n'\necho \"locale=$LC_ALL\"\necho 'Warning: odd' >&2\nexit ${EXIT_CODE:-1}\n"
	if err := os.WriteFile(script, []byte(body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}

	client, err := mkvtoolnix.New(script, script, mkvtoolnix.WithForceEnglish(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var lines []string
	if err := client.Extract(context.Background(), []string{"tracks"}, func(line string) { lines = append(lines, line) }); err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := []string{"Progress: 10%", "Progress: 80%", "locale=C"}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}

	t.Setenv("EXIT_CODE", "2")
	err = client.Extract(context.Background(), []string{"tracks"}, nil)
	var exitErr *mkvtoolnix.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 2 || exitErr.Stderr != "Warning: odd" {
		t.Fatalf("expected exit error with stderr tail, got %v", err)
	}
}
