package workflow

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mkvcleaver/internal/extract"
	"mkvcleaver/internal/logging"
	"mkvcleaver/internal/progress"
	"mkvcleaver/internal/services"
	"mkvcleaver/internal/services/mkvtoolnix"
)

// Extractor runs planned mkvextract jobs one at a time.
type Extractor struct {
	client mkvtoolnix.Extractor
	prefix string
	binary string
	logger *slog.Logger
}

// ExtractorOption customizes an Extractor.
type ExtractorOption func(*Extractor)

// WithProgressPrefix overrides the marker that introduces a percentage.
func WithProgressPrefix(prefix string) ExtractorOption {
	return func(e *Extractor) {
		if prefix != "" {
			e.prefix = prefix
		}
	}
}

// WithDisplayBinary sets the binary name used when logging command lines.
func WithDisplayBinary(binary string) ExtractorOption {
	return func(e *Extractor) {
		if binary != "" {
			e.binary = binary
		}
	}
}

// NewExtractor wires an extraction runner.
func NewExtractor(client mkvtoolnix.Extractor, logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client: client,
		prefix: progress.DefaultPrefix,
		binary: "mkvextract",
		logger: logging.NewComponentLogger(logger, "extractor"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	return e
}

// JobResult is the outcome of one job.
type JobResult struct {
	Job      extract.Job
	Status   services.Status
	Err      error
	Duration time.Duration
	// Percent is the last percentage the tool printed, or -1 when it printed
	// none.
	Percent int
}

// RunSummary aggregates every job of a run.
type RunSummary struct {
	RunID    string
	Results  []JobResult
	Canceled bool
	Started  time.Time
	Finished time.Time
}

// Succeeded counts jobs that finished cleanly.
func (s RunSummary) Succeeded() int {
	n := 0
	for _, r := range s.Results {
		if r.Status == services.StatusSucceeded {
			n++
		}
	}
	return n
}

// Failed counts jobs that neither succeeded nor were canceled.
func (s RunSummary) Failed() int {
	n := 0
	for _, r := range s.Results {
		if r.Status != services.StatusSucceeded && r.Status != services.StatusCanceled {
			n++
		}
	}
	return n
}

// Run is an extraction in progress.
type Run struct {
	id      string
	stream  eventStream
	summary RunSummary
}

// ID returns the run id stamped on every log line of the run.
func (r *Run) ID() string { return r.id }

// Events streams job lifecycle and progress events. Progress events are
// dropped while the buffer is full; lifecycle events never are.
func (r *Run) Events() <-chan Event { return r.stream.events }

// Wait blocks until every job has settled, discarding unread events.
func (r *Run) Wait() RunSummary {
	r.stream.wait()
	return r.summary
}

// Start executes jobs sequentially on a worker goroutine. Canceling ctx kills
// the running mkvextract and marks the remaining jobs canceled. Output files
// already written are left in place.
func (e *Extractor) Start(ctx context.Context, jobs []extract.Job) *Run {
	run := &Run{id: uuid.NewString(), stream: newEventStream()}
	jobs = append([]extract.Job(nil), jobs...)
	go func() {
		defer run.stream.close()
		run.summary = e.run(ctx, run.id, jobs, run.stream)
	}()
	return run
}

func (e *Extractor) run(ctx context.Context, runID string, jobs []extract.Job, stream eventStream) RunSummary {
	ctx = services.WithRunID(ctx, runID)
	ctx = services.WithStage(ctx, "extract")
	logger := logging.WithContext(ctx, e.logger)

	summary := RunSummary{
		RunID:   runID,
		Results: make([]JobResult, 0, len(jobs)),
		Started: time.Now(),
	}
	logger.Info("extraction started",
		logging.String(logging.FieldEventType, "extraction_started"),
		logging.Int("job_count", len(jobs)),
	)

	for idx := range jobs {
		job := jobs[idx]
		if ctx.Err() != nil {
			summary.Canceled = true
			summary.Results = append(summary.Results, JobResult{
				Job:     job,
				Status:  services.StatusCanceled,
				Err:     services.Wrap(services.ErrCanceled, "extract", "mkvextract", "run canceled before job started", ctx.Err()),
				Percent: -1,
			})
			continue
		}
		result := e.runJob(services.WithFile(ctx, job.Source), idx, len(jobs), job, stream)
		if result.Status == services.StatusCanceled {
			summary.Canceled = true
		}
		summary.Results = append(summary.Results, result)
		stream.send(Event{
			Kind:    EventJobFinished,
			Index:   idx,
			Total:   len(jobs),
			Path:    job.Source,
			Job:     &summary.Results[len(summary.Results)-1].Job,
			Percent: result.Percent,
			Status:  result.Status,
			Err:     result.Err,
		})
	}

	summary.Finished = time.Now()
	logger.Info("extraction finished",
		logging.String(logging.FieldEventType, "extraction_finished"),
		logging.Int("succeeded", summary.Succeeded()),
		logging.Int("failed", summary.Failed()),
		logging.Bool("canceled", summary.Canceled),
		logging.Duration("elapsed", summary.Finished.Sub(summary.Started)),
	)
	return summary
}

func (e *Extractor) runJob(ctx context.Context, idx, total int, job extract.Job, stream eventStream) JobResult {
	logger := logging.WithContext(ctx, e.logger)
	started := time.Now()
	stream.send(Event{Kind: EventJobStarted, Index: idx, Total: total, Path: job.Source, Job: &job, Percent: 0})
	logger.Info("job started",
		logging.String(logging.FieldEventType, "job_started"),
		logging.Int("output_count", len(job.Outputs)),
		logging.String("command", job.CommandLine(e.binary)),
	)

	monitor := progress.NewMonitor(e.prefix)
	sampler := logging.NewProgressSampler(10)
	onLine := func(line string) {
		percent, ok := monitor.Feed(line)
		if !ok {
			logger.Debug("mkvextract output", logging.String("line", line))
			return
		}
		stream.offer(Event{Kind: EventJobProgress, Index: idx, Total: total, Path: job.Source, Job: &job, Percent: percent})
		if sampler.ShouldLog(percent, job.Name) {
			logger.Info("extraction progress",
				logging.String(logging.FieldEventType, "job_progress"),
				logging.Int("percent", percent),
			)
		}
	}

	var err error
	if e.client == nil {
		err = services.Wrap(services.ErrConfiguration, "extract", "mkvextract", "extractor unavailable", nil)
	} else {
		err = e.client.Extract(ctx, job.Args(), onLine)
	}
	if err != nil && ctx.Err() != nil && !IsCanceled(err) {
		err = services.Wrap(services.ErrCanceled, "extract", "mkvextract", "canceled", err)
	}

	result := JobResult{
		Job:      job,
		Status:   services.FailureStatus(err),
		Err:      err,
		Duration: time.Since(started),
		Percent:  -1,
	}
	if percent, ok := monitor.Current(); ok {
		result.Percent = percent
	}

	if err != nil {
		logging.WarnWithContext(logger, "job failed", "job_failed",
			logging.Error(err),
			logging.String("status", string(result.Status)),
			logging.String(logging.FieldImpact, "tracks of this file were not extracted"),
		)
		return result
	}
	logger.Info("job finished",
		logging.String(logging.FieldEventType, "job_finished"),
		logging.Duration("elapsed", result.Duration),
		logging.Int("percent", result.Percent),
	)
	return result
}
