package config

import (
	"fmt"
	"os"
	"strings"
)

// ToolnixDirEnv overrides toolnix.dir when the file leaves it empty.
const ToolnixDirEnv = "MKVCLEAVER_TOOLNIX_DIR"

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeToolnix(); err != nil {
		return err
	}
	c.normalizeReport()
	c.normalizeExtract()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.OutputDir = strings.TrimSpace(c.Paths.OutputDir)
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeToolnix() error {
	c.Toolnix.Dir = strings.TrimSpace(c.Toolnix.Dir)
	if c.Toolnix.Dir == "" {
		if value, ok := os.LookupEnv(ToolnixDirEnv); ok {
			c.Toolnix.Dir = strings.TrimSpace(value)
		}
	}
	if c.Toolnix.Dir == "" {
		if dir, ok := DetectToolnixDir(); ok {
			c.Toolnix.Dir = dir
		}
	}
	var err error
	if c.Toolnix.Dir, err = expandPath(c.Toolnix.Dir); err != nil {
		return fmt.Errorf("toolnix.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeReport() {
	c.Report.Profile = strings.ToLower(strings.TrimSpace(c.Report.Profile))
	if c.Report.Profile == "" {
		c.Report.Profile = defaultReportProfile
	}
}

func (c *Config) normalizeExtract() {
	c.Extract.Numbering = strings.ToLower(strings.TrimSpace(c.Extract.Numbering))
	if c.Extract.Numbering == "" {
		c.Extract.Numbering = defaultNumbering
	}
	if strings.TrimSpace(c.Extract.ProgressPrefix) == "" {
		c.Extract.ProgressPrefix = defaultProgressPrefix
	}
	if c.Codecs == nil {
		c.Codecs = map[string]string{}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
