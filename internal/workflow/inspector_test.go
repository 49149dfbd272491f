package workflow_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"mkvcleaver/internal/report"
	"mkvcleaver/internal/services"
	"mkvcleaver/internal/tracks"
	"mkvcleaver/internal/workflow"
)

const episodeReport = `+ EBML head
|+ Segment: size 1004
|+ Tracks
| + Track
|  + Track number: 1 (track ID for mkvmerge & mkvextract: 0)
|  + Track type: video
|  + Codec ID: V_MPEGH/ISO/HEVC
|  + Language: und
| + Track
|  + Track number: 2 (track ID for mkvmerge & mkvextract: 1)
|  + Track type: audio
|  + Codec ID: A_AAC
|  + Language: jpn
| + Track
|  + Track number: 3 (track ID for mkvmerge & mkvextract: 2)
|  + Track type: subtitles
|  + Codec ID: S_TEXT/ASS
|  + Language: eng
|  + Name: Full
`

type stubInspector struct {
	reports map[string]string
	errs    map[string]error
	calls   []string
	onCall  func(path string)
}

func (s *stubInspector) Inspect(ctx context.Context, path string) (string, error) {
	s.calls = append(s.calls, path)
	if s.onCall != nil {
		s.onCall(path)
	}
	if err := ctx.Err(); err != nil {
		return "", services.Wrap(services.ErrCanceled, "inspect", "mkvinfo", "canceled", err)
	}
	if err, ok := s.errs[path]; ok {
		return "", err
	}
	return s.reports[path], nil
}

func TestInspectorParsesFilesInOrder(t *testing.T) {
	stub := &stubInspector{reports: map[string]string{
		"/media/b.mkv": episodeReport,
		"/media/a.mkv": episodeReport,
	}}
	inspector := workflow.NewInspector(stub, report.NewParser(), nil)

	run := inspector.Start(context.Background(), []string{"/media/b.mkv", "/media/a.mkv"})
	var events []workflow.Event
	for ev := range run.Events() {
		events = append(events, ev)
	}
	result := run.Wait()

	if result.Canceled || len(result.Failures) != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
	if len(result.Files) != 2 || result.Files[0].Path != "/media/b.mkv" || result.Files[1].Path != "/media/a.mkv" {
		t.Fatalf("files out of order: %+v", result.Files)
	}
	if got := len(result.Files[0].Tracks); got != 3 {
		t.Fatalf("expected 3 tracks, got %d", got)
	}
	if owner := result.Files[1].Tracks[0].Owner; owner != "/media/a.mkv" {
		t.Fatalf("owner not stamped: %q", owner)
	}
	if len(events) != 2 || events[0].Kind != workflow.EventFileInspected || events[1].Index != 1 || events[1].Total != 2 {
		t.Fatalf("unexpected events: %+v", events)
	}
	if events[0].File == nil || events[0].File.Name != "b.mkv" {
		t.Fatalf("event missing file: %+v", events[0])
	}
}

func TestInspectorReportsFailuresAndContinues(t *testing.T) {
	toolErr := services.Wrap(services.ErrExternalTool, "inspect", "mkvinfo", "", errors.New("exit status 2"))
	stub := &stubInspector{
		reports: map[string]string{
			"/media/ok.mkv":     episodeReport,
			"/media/broken.mkv": "Error: the file could not be opened\n",
			"/media/empty.mkv":  "+ EBML head\n",
		},
		errs: map[string]error{"/media/missing.mkv": toolErr},
	}
	inspector := workflow.NewInspector(stub, nil, nil)

	result := inspector.Start(context.Background(), []string{
		"/media/missing.mkv", "/media/broken.mkv", "/media/ok.mkv", "/media/empty.mkv",
	}).Wait()

	if len(result.Files) != 1 || result.Files[0].Path != "/media/ok.mkv" {
		t.Fatalf("unexpected files: %+v", result.Files)
	}
	if len(result.Failures) != 3 {
		t.Fatalf("expected 3 failures, got %+v", result.Failures)
	}
	want := []services.Status{services.StatusFailed, services.StatusNoTracks, services.StatusNoTracks}
	for i, failure := range result.Failures {
		if failure.Status != want[i] {
			t.Fatalf("failure %d status = %s, want %s", i, failure.Status, want[i])
		}
	}
	if !errors.Is(result.Failures[0], services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", result.Failures[0].Err)
	}
	if !strings.Contains(result.Failures[2].Error(), "no tracks found") {
		t.Fatalf("unexpected message: %v", result.Failures[2])
	}
}

func TestInspectorCancelDiscardsFileInFlight(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stub := &stubInspector{reports: map[string]string{
		"/media/1.mkv": episodeReport,
		"/media/2.mkv": episodeReport,
		"/media/3.mkv": episodeReport,
	}}
	stub.onCall = func(path string) {
		if path == "/media/2.mkv" {
			cancel()
		}
	}
	inspector := workflow.NewInspector(stub, nil, nil)

	result := inspector.Start(ctx, []string{"/media/1.mkv", "/media/2.mkv", "/media/3.mkv"}).Wait()
	if !result.Canceled {
		t.Fatal("expected canceled result")
	}
	if len(result.Files) != 1 || result.Files[0].Path != "/media/1.mkv" {
		t.Fatalf("unexpected files: %+v", result.Files)
	}
	if len(result.Failures) != 0 {
		t.Fatalf("cancellation should not count as failure: %+v", result.Failures)
	}
	if len(stub.calls) != 2 {
		t.Fatalf("expected inspection to stop after cancel, calls=%v", stub.calls)
	}
}

func TestInspectorResultsFeedWorkingSet(t *testing.T) {
	stub := &stubInspector{reports: map[string]string{
		"/media/1.mkv": episodeReport,
		"/media/2.mkv": strings.Replace(episodeReport, "Language: eng", "Language: ger", 1),
	}}
	result := workflow.NewInspector(stub, nil, nil).Start(context.Background(), []string{"/media/1.mkv", "/media/2.mkv"}).Wait()

	ws := tracks.NewWorkingSet()
	ws.Add(result.Files...)
	batch := ws.Batch()
	if len(batch) != 2 {
		t.Fatalf("expected video and audio in common, got %+v", batch)
	}
	if batch[1].Label != "Audio, jpn (Audio Track 1)" {
		t.Fatalf("unexpected label %q", batch[1].Label)
	}
}
