package workflow_test

import (
	"context"
	"errors"
	"testing"

	"mkvcleaver/internal/extract"
	"mkvcleaver/internal/services"
	"mkvcleaver/internal/tracks"
	"mkvcleaver/internal/workflow"
)

type stubExtractor struct {
	lines map[string][]string
	errs  map[string]error
	calls [][]string
	onRun func(source string)
}

func (s *stubExtractor) Extract(ctx context.Context, args []string, onLine func(string)) error {
	s.calls = append(s.calls, append([]string(nil), args...))
	source := args[1]
	if s.onRun != nil {
		s.onRun(source)
	}
	if err := ctx.Err(); err != nil {
		return services.Wrap(services.ErrCanceled, "extract", "mkvextract", "canceled", err)
	}
	for _, line := range s.lines[source] {
		onLine(line)
	}
	return s.errs[source]
}

func job(source string, numbers ...int) extract.Job {
	j := extract.Job{Source: source, Name: source}
	for _, n := range numbers {
		j.Outputs = append(j.Outputs, extract.Output{
			Track: tracks.Track{Number: n, Type: tracks.TypeAudio},
			Path:  source + ".out",
		})
	}
	return j
}

func TestExtractorRunsJobsSequentially(t *testing.T) {
	stub := &stubExtractor{lines: map[string][]string{
		"/media/1.mkv": {"mkvextract v80", "Progress: 10%", "Progress: 55%", "Progress: 100%"},
		"/media/2.mkv": {"Progress: 40%", "garbage", "Progress: 120%"},
	}}
	extractor := workflow.NewExtractor(stub, nil)

	run := extractor.Start(context.Background(), []extract.Job{job("/media/1.mkv", 1, 2), job("/media/2.mkv", 1)})
	var kinds []workflow.EventKind
	var percents []int
	for ev := range run.Events() {
		kinds = append(kinds, ev.Kind)
		if ev.Kind == workflow.EventJobProgress {
			percents = append(percents, ev.Percent)
		}
	}
	summary := run.Wait()

	if summary.RunID == "" || summary.RunID != run.ID() {
		t.Fatalf("unexpected run id %q", summary.RunID)
	}
	if summary.Succeeded() != 2 || summary.Failed() != 0 || summary.Canceled {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if summary.Results[0].Percent != 100 || summary.Results[1].Percent != 40 {
		t.Fatalf("unexpected last percentages: %d %d", summary.Results[0].Percent, summary.Results[1].Percent)
	}
	if len(stub.calls) != 2 || stub.calls[0][0] != "tracks" || stub.calls[0][2] != "1:/media/1.mkv.out" {
		t.Fatalf("unexpected args: %v", stub.calls)
	}
	wantKinds := []workflow.EventKind{
		workflow.EventJobStarted, workflow.EventJobProgress, workflow.EventJobProgress, workflow.EventJobProgress, workflow.EventJobFinished,
		workflow.EventJobStarted, workflow.EventJobProgress, workflow.EventJobFinished,
	}
	if len(kinds) != len(wantKinds) {
		t.Fatalf("events = %v", kinds)
	}
	for i := range wantKinds {
		if kinds[i] != wantKinds[i] {
			t.Fatalf("event %d = %s, want %s", i, kinds[i], wantKinds[i])
		}
	}
	if len(percents) != 4 || percents[3] != 40 {
		t.Fatalf("unexpected progress: %v", percents)
	}
}

func TestExtractorFailureDoesNotStopOtherJobs(t *testing.T) {
	stub := &stubExtractor{errs: map[string]error{
		"/media/1.mkv": services.Wrap(services.ErrExternalTool, "extract", "mkvextract", "", errors.New("exit status 2")),
	}}
	summary := workflow.NewExtractor(stub, nil).Start(context.Background(), []extract.Job{job("/media/1.mkv", 0), job("/media/2.mkv", 0)}).Wait()

	if summary.Failed() != 1 || summary.Succeeded() != 1 {
		t.Fatalf("unexpected summary: %+v", summary.Results)
	}
	first := summary.Results[0]
	if first.Status != services.StatusFailed || !errors.Is(first.Err, services.ErrExternalTool) {
		t.Fatalf("unexpected first result: %+v", first)
	}
	if first.Percent != -1 {
		t.Fatalf("expected no progress, got %d", first.Percent)
	}
}

func TestExtractorCancelMarksRemainingJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	stub := &stubExtractor{}
	stub.onRun = func(source string) {
		if source == "/media/2.mkv" {
			cancel()
		}
	}
	jobs := []extract.Job{job("/media/1.mkv", 0), job("/media/2.mkv", 0), job("/media/3.mkv", 0)}
	summary := workflow.NewExtractor(stub, nil).Start(ctx, jobs).Wait()

	if !summary.Canceled {
		t.Fatal("expected canceled summary")
	}
	want := []services.Status{services.StatusSucceeded, services.StatusCanceled, services.StatusCanceled}
	for i, r := range summary.Results {
		if r.Status != want[i] {
			t.Fatalf("job %d status = %s, want %s", i, r.Status, want[i])
		}
	}
	if len(stub.calls) != 2 {
		t.Fatalf("third job should not launch, calls=%v", stub.calls)
	}
	if summary.Failed() != 0 {
		t.Fatalf("canceled jobs are not failures: %d", summary.Failed())
	}
}

func TestExtractorCustomPrefix(t *testing.T) {
	stub := &stubExtractor{lines: map[string][]string{
		"/media/1.mkv": {"Fortschritt: 30%", "Progress: 90%"},
	}}
	extractor := workflow.NewExtractor(stub, nil, workflow.WithProgressPrefix("Fortschritt: "))
	summary := extractor.Start(context.Background(), []extract.Job{job("/media/1.mkv", 0)}).Wait()
	if got := summary.Results[0].Percent; got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
}

func TestExtractorNilClientFails(t *testing.T) {
	summary := workflow.NewExtractor(nil, nil).Start(context.Background(), []extract.Job{job("/media/1.mkv", 0)}).Wait()
	if !errors.Is(summary.Results[0].Err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", summary.Results[0].Err)
	}
}
