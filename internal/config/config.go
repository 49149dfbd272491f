package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"mkvcleaver/internal/extract"
	"mkvcleaver/internal/report"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	WorkspaceDir string `toml:"workspace_dir"`
	LogDir       string `toml:"log_dir"`
	// OutputDir overrides the per-file output directory when set.
	OutputDir string `toml:"output_dir"`
}

// Toolnix locates the mkvinfo and mkvextract executables.
type Toolnix struct {
	Dir            string `toml:"dir"`
	InspectTimeout int    `toml:"inspect_timeout"`
	ExtractTimeout int    `toml:"extract_timeout"`
	ForceEnglish   bool   `toml:"force_english"`
}

// Markers overrides individual report markers of the selected profile.
type Markers struct {
	Errors      []string `toml:"errors,omitempty"`
	TrackStart  string   `toml:"track_start,omitempty"`
	TrackNumber string   `toml:"track_number,omitempty"`
	Tags        string   `toml:"tags,omitempty"`
	TrackType   string   `toml:"track_type,omitempty"`
	Video       string   `toml:"video,omitempty"`
	Audio       string   `toml:"audio,omitempty"`
	Subtitle    string   `toml:"subtitle,omitempty"`
	CodecID     string   `toml:"codec_id,omitempty"`
	Language    string   `toml:"language,omitempty"`
	Name        string   `toml:"name,omitempty"`
}

// Report selects how mkvinfo output is recognized.
type Report struct {
	Profile string  `toml:"profile"`
	Markers Markers `toml:"markers"`
}

// Extract contains extraction planning settings.
type Extract struct {
	Numbering      string `toml:"numbering"`
	ProgressPrefix string `toml:"progress_prefix"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for mkvcleaver.
//
// Configuration sections:
//   - Paths: workspace, logs, and default output directory
//   - Toolnix: mkvtoolnix install and per-call timeouts
//   - Report: mkvinfo locale profile and marker overrides
//   - Extract: track numbering mode and progress marker
//   - Codecs: extra codec id to file extension entries
//   - Logging: log format and level
type Config struct {
	Paths   Paths             `toml:"paths"`
	Toolnix Toolnix           `toml:"toolnix"`
	Report  Report            `toml:"report"`
	Extract Extract           `toml:"extract"`
	Codecs  map[string]string `toml:"codecs"`
	Logging Logging           `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/mkvcleaver/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("mkvcleaver.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the workspace and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkspaceDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// InspectTimeout returns the per-file mkvinfo limit; zero means none.
func (c *Config) InspectTimeout() time.Duration {
	return time.Duration(c.Toolnix.InspectTimeout) * time.Second
}

// ExtractTimeout returns the per-file mkvextract limit; zero means none.
func (c *Config) ExtractTimeout() time.Duration {
	return time.Duration(c.Toolnix.ExtractTimeout) * time.Second
}

// Numbering returns the configured extraction numbering mode.
func (c *Config) Numbering() extract.Numbering {
	mode, err := extract.ParseNumbering(c.Extract.Numbering)
	if err != nil {
		return extract.NumberingRepresentative
	}
	return mode
}

// CodecTable returns the codec table with configured entries layered on top.
func (c *Config) CodecTable() extract.Codecs {
	return extract.NewCodecs(c.Codecs)
}

// ReportMarkers returns the marker sets the parser should try, with
// [report.markers] overrides applied to each.
func (c *Config) ReportMarkers() ([]report.Markers, error) {
	var base []report.Markers
	if c.Report.Profile == report.ProfileAuto {
		base = report.Profiles()
	} else {
		m, err := report.Profile(c.Report.Profile)
		if err != nil {
			return nil, err
		}
		base = []report.Markers{m}
	}
	overrides := c.Report.Markers.overrides()
	if overrides.IsZero() {
		return base, nil
	}
	out := make([]report.Markers, 0, len(base))
	for _, m := range base {
		applied, err := m.Apply(overrides)
		if err != nil {
			return nil, fmt.Errorf("report.markers: %w", err)
		}
		out = append(out, applied)
	}
	return out, nil
}

func (m Markers) overrides() report.Overrides {
	return report.Overrides{
		Errors:      m.Errors,
		TrackStart:  m.TrackStart,
		TrackNumber: m.TrackNumber,
		Tags:        m.Tags,
		TrackType:   m.TrackType,
		Video:       m.Video,
		Audio:       m.Audio,
		Subtitle:    m.Subtitle,
		CodecID:     m.CodecID,
		Language:    m.Language,
		Name:        m.Name,
	}
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
