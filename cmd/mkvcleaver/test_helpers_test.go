package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"mkvcleaver/internal/config"
	"mkvcleaver/internal/testsupport"
)

const fakeMkvinfo = `if [ -f "$1.txt" ]; then
  cat "$1.txt"
else
  echo "Error: could not open $1"
  exit 2
fi
`

const fakeMkvextract = `shift 2
for arg in "$@"; do
  out="${arg#*:}"
  printf 'track' > "$out"
done
echo "Progress: 50%"
echo "Progress: 100%"
`

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	mediaDir   string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithToolnixScripts(fakeMkvinfo, fakeMkvextract))
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv(config.ToolnixDirEnv, "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		configPath: configPath,
		mediaDir:   filepath.Join(base, "media"),
		baseDir:    base,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeEpisode creates name in the media dir plus the report the fake mkvinfo
// prints for it.
func (e *cliTestEnv) writeEpisode(t *testing.T, name, report string) string {
	t.Helper()
	path := testsupport.WriteContainers(t, e.mediaDir, name)[0]
	if err := os.WriteFile(path+".txt", []byte(report), 0o644); err != nil {
		t.Fatalf("write report: %v", err)
	}
	return path
}

func (e *cliTestEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", e.configPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	stdout, stderr, err := e.run(t, args...)
	if err != nil {
		t.Fatalf("mkvcleaver %v: %v\nstdout:\n%s\nstderr:\n%s", args, err, stdout, stderr)
	}
	return stdout
}
