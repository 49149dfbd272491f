package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mkvcleaver/internal/logging"
	"mkvcleaver/internal/report"
	"mkvcleaver/internal/services"
	"mkvcleaver/internal/services/mkvtoolnix"
	"mkvcleaver/internal/tracks"
)

// Inspector runs mkvinfo over a list of files and parses each report.
type Inspector struct {
	client mkvtoolnix.Inspector
	parser *report.Parser
	logger *slog.Logger
}

// NewInspector wires an inspection runner. A nil parser uses the built-in
// marker profiles.
func NewInspector(client mkvtoolnix.Inspector, parser *report.Parser, logger *slog.Logger) *Inspector {
	if parser == nil {
		parser = report.NewParser()
	}
	return &Inspector{
		client: client,
		parser: parser,
		logger: logging.NewComponentLogger(logger, "inspector"),
	}
}

// FileError is a per-file failure.
type FileError struct {
	Path   string
	Status services.Status
	Err    error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

func (e FileError) Unwrap() error { return e.Err }

// InspectionResult is what an inspection produced.
type InspectionResult struct {
	// Files holds the successfully parsed files in request order.
	Files    []tracks.File
	Failures []FileError
	// Canceled is set when the context ended before every file was read. The
	// file in flight at that moment is neither in Files nor in Failures.
	Canceled bool
}

// Inspection is a running inspection.
type Inspection struct {
	stream eventStream
	result InspectionResult
}

// Events streams EventFileInspected and EventFileFailed as each file settles.
func (i *Inspection) Events() <-chan Event { return i.stream.events }

// Wait blocks until the inspection ends, discarding unread events.
func (i *Inspection) Wait() InspectionResult {
	i.stream.wait()
	return i.result
}

// Start inspects paths sequentially on a worker goroutine.
func (in *Inspector) Start(ctx context.Context, paths []string) *Inspection {
	run := &Inspection{stream: newEventStream()}
	paths = append([]string(nil), paths...)
	go func() {
		defer run.stream.close()
		run.result = in.run(ctx, paths, run.stream)
	}()
	return run
}

func (in *Inspector) run(ctx context.Context, paths []string, stream eventStream) InspectionResult {
	ctx = services.WithRunID(ctx, uuid.NewString())
	ctx = services.WithStage(ctx, "inspect")
	logger := logging.WithContext(ctx, in.logger)
	started := time.Now()

	result := InspectionResult{Files: make([]tracks.File, 0, len(paths))}
	for idx, path := range paths {
		if ctx.Err() != nil {
			result.Canceled = true
			break
		}
		fileCtx := services.WithFile(ctx, path)
		file, err := in.inspect(fileCtx, path)
		if err != nil && ctx.Err() != nil {
			result.Canceled = true
			break
		}
		if err != nil {
			status := services.FailureStatus(err)
			result.Failures = append(result.Failures, FileError{Path: path, Status: status, Err: err})
			logging.WarnWithContext(logging.WithContext(fileCtx, in.logger), "inspection failed", "inspection_failed",
				logging.Error(err),
				logging.String("status", string(status)),
				logging.String(logging.FieldImpact, "file left out of the working set"),
			)
			stream.send(Event{Kind: EventFileFailed, Index: idx, Total: len(paths), Path: path, Status: status, Err: err})
			continue
		}
		result.Files = append(result.Files, file)
		logging.WithContext(fileCtx, in.logger).Info("file inspected",
			logging.String(logging.FieldEventType, "file_inspected"),
			logging.Int("track_count", len(file.Tracks)),
		)
		stream.send(Event{Kind: EventFileInspected, Index: idx, Total: len(paths), Path: path, File: &file, Status: services.StatusSucceeded})
	}

	logger.Info("inspection finished",
		logging.String(logging.FieldEventType, "inspection_finished"),
		logging.Int("inspected", len(result.Files)),
		logging.Int("failed", len(result.Failures)),
		logging.Bool("canceled", result.Canceled),
		logging.Duration("elapsed", time.Since(started)),
	)
	return result
}

func (in *Inspector) inspect(ctx context.Context, path string) (tracks.File, error) {
	if in.client == nil {
		return tracks.File{}, services.Wrap(services.ErrConfiguration, "inspect", "mkvinfo", "inspector unavailable", nil)
	}
	text, err := in.client.Inspect(ctx, path)
	if err != nil {
		return tracks.File{}, err
	}
	if in.parser.Failed(text) {
		return tracks.File{}, services.Wrap(services.ErrNotFound, "inspect", "parse report", "mkvinfo reported an error; no tracks found", nil)
	}
	parsed := in.parser.Parse(text)
	if len(parsed) == 0 {
		return tracks.File{}, services.Wrap(services.ErrNotFound, "inspect", "parse report", "no tracks found", nil)
	}
	return tracks.NewFile(path, parsed), nil
}

// IsCanceled reports whether err came from a canceled context.
func IsCanceled(err error) bool {
	return errors.Is(err, services.ErrCanceled) || errors.Is(err, context.Canceled)
}
