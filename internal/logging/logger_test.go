package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvcleaver/internal/config"
	"mkvcleaver/internal/logging"
	"mkvcleaver/internal/services"
)

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")
	cfg.Logging.Level = "debug"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Debug("debug message", logging.String("file", "ep01.mkv"))

	content, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, logging.LogFileName))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var record map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(content), &record); err != nil {
		t.Fatalf("log file line is not JSON: %v (%q)", err, content)
	}
	if record["msg"] != "debug message" || record["level"] != "debug" || record["file"] != "ep01.mkv" {
		t.Fatalf("unexpected record %v", record)
	}
	if _, ok := record["ts"]; !ok {
		t.Fatalf("expected ts key, got %v", record)
	}
	if src, _ := record["source"].(string); !strings.Contains(src, ".go:") {
		t.Fatalf("expected file:line source, got %v", record["source"])
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger = logging.NewComponentLogger(logger, "extractor")
	logger.Debug("hidden")
	logger.Info("job finished", logging.String("file", "My Show.mkv"), logging.Int("outputs", 2), logging.Error(errors.New("exit status 2")))

	line := buf.String()
	if strings.Contains(line, "hidden") {
		t.Fatalf("debug line leaked at info level: %q", line)
	}
	for _, fragment := range []string{" INFO extractor: job finished", `file="My Show.mkv"`, "outputs=2", `error="exit status 2"`} {
		if !strings.Contains(line, fragment) {
			t.Fatalf("expected %q in %q", fragment, line)
		}
	}
	if strings.Contains(line, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should be rendered as a prefix, got %q", line)
	}
}

func TestUnsupportedFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithFile(ctx, "/m/a.mkv")
	logging.WithContext(ctx, logger).Info("started")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldRunID] != "run-1" || record[logging.FieldFile] != "/m/a.mkv" {
		t.Fatalf("missing context fields: %v", record)
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, _ := logging.New(logging.Options{Format: "json", Writer: &buf})
	logging.WarnWithContext(logger, "track number mismatch", "numbering_mismatch")

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if record[logging.FieldEventType] != "numbering_mismatch" || record[logging.FieldImpact] == nil {
		t.Fatalf("expected defaults injected, got %v", record)
	}
}

func TestTeeHandlerDuplicates(t *testing.T) {
	var a, b bytes.Buffer
	first, _ := logging.New(logging.Options{Format: "json", Writer: &a})
	second, _ := logging.New(logging.Options{Format: "json", Level: "error", Writer: &b})
	tee := logging.TeeHandler(first.Handler(), nil, second.Handler())

	if logging.NewNop().Enabled(context.Background(), slog.LevelError) {
		t.Fatal("nop logger should be disabled")
	}

	teeLogger := logging.NewComponentLogger(slog.New(tee), "tee")
	teeLogger.Info("info only")
	teeLogger.Error("both")
	if strings.Count(a.String(), "\n") != 2 {
		t.Fatalf("first handler expected 2 lines, got %q", a.String())
	}
	if strings.Count(b.String(), "\n") != 1 || !strings.Contains(b.String(), "both") {
		t.Fatalf("second handler expected only the error line, got %q", b.String())
	}
}
