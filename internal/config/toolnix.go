package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	mkvinfoName    = "mkvinfo"
	mkvextractName = "mkvextract"
)

// toolnixSearchDirs are probed in order when no directory is configured.
var toolnixSearchDirs = []string{"/usr/bin", "/usr/local/bin"}

// ExecutableName appends the platform executable suffix to name.
func ExecutableName(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

// DetectToolnixDir returns the first standard directory containing mkvinfo,
// falling back to the directory of mkvinfo on PATH.
func DetectToolnixDir() (string, bool) {
	for _, dir := range toolnixSearchDirs {
		if isFile(filepath.Join(dir, ExecutableName(mkvinfoName))) {
			return dir, true
		}
	}
	if path, err := exec.LookPath(ExecutableName(mkvinfoName)); err == nil {
		if abs, err := filepath.Abs(path); err == nil {
			return filepath.Dir(abs), true
		}
	}
	return "", false
}

// ValidateToolnixDir checks that dir holds both mkvinfo and mkvextract.
func ValidateToolnixDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errors.New("toolnix directory is empty")
	}
	var missing []string
	for _, name := range []string{mkvinfoName, mkvextractName} {
		if !isFile(filepath.Join(dir, ExecutableName(name))) {
			missing = append(missing, ExecutableName(name))
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("toolnix directory %q is missing %s", dir, strings.Join(missing, ", "))
	}
	return nil
}

// MkvinfoBinary returns the mkvinfo executable to invoke.
func (c *Config) MkvinfoBinary() string {
	return c.toolnixBinary(mkvinfoName)
}

// MkvextractBinary returns the mkvextract executable to invoke.
func (c *Config) MkvextractBinary() string {
	return c.toolnixBinary(mkvextractName)
}

func (c *Config) toolnixBinary(name string) string {
	if dir := strings.TrimSpace(c.Toolnix.Dir); dir != "" {
		return filepath.Join(dir, ExecutableName(name))
	}
	return ExecutableName(name)
}

// SaveToolnixDir validates dir and persists it as toolnix.dir in the config
// file at path, creating the file when absent. Other settings already in the
// file are kept; comments are not.
func SaveToolnixDir(path, dir string) (string, error) {
	resolved, err := expandPath(dir)
	if err != nil {
		return "", err
	}
	if err := ValidateToolnixDir(resolved); err != nil {
		return "", err
	}

	cfg := Default()
	if _, err := os.Stat(path); err == nil {
		if err := decodeFile(path, &cfg); err != nil {
			return "", err
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("stat config: %w", err)
	}
	cfg.Toolnix.Dir = resolved

	var buf bytes.Buffer
	encoder := toml.NewEncoder(&buf)
	encoder.SetIndentTables(true)
	if err := encoder.Encode(cfg); err != nil {
		return "", fmt.Errorf("encode config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return resolved, nil
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
