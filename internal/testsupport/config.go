package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"mkvcleaver/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The toolnix directory points at a temp bin dir that holds no executables
// until WithToolnixScripts is applied.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Toolnix.Dir = filepath.Join(base, "bin")
	cfgVal.Logging.Format = "json"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOutputDir sets the default extraction directory.
func WithOutputDir(dir string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Paths.OutputDir = dir
	}
}

// WithNumbering selects the extraction numbering mode.
func WithNumbering(mode string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Extract.Numbering = mode
	}
}

// WithToolnixScripts writes shell scripts named mkvinfo and mkvextract into
// the config's toolnix directory. An empty body writes a script that exits 0.
func WithToolnixScripts(mkvinfo, mkvextract string) ConfigOption {
	return func(b *configBuilder) {
		WriteScript(b.t, filepath.Join(b.cfg.Toolnix.Dir, config.ExecutableName("mkvinfo")), mkvinfo)
		WriteScript(b.t, filepath.Join(b.cfg.Toolnix.Dir, config.ExecutableName("mkvextract")), mkvextract)
	}
}

// WriteScript writes an executable /bin/sh script at path.
func WriteScript(t testing.TB, path, body string) {
	t.Helper()
	if body == "" {
		body = "exit 0\n"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script %s: %v", path, err)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WorkspaceDir)
}
