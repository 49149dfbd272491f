package config

import (
	"errors"
	"fmt"
	"strings"

	"mkvcleaver/internal/extract"
)

// Validate ensures the configuration is usable. A missing mkvtoolnix install
// is not an error here; commands that need the tools check for them.
func (c *Config) Validate() error {
	if err := c.validateToolnix(); err != nil {
		return err
	}
	if err := c.validateReport(); err != nil {
		return err
	}
	if err := c.validateExtract(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateToolnix() error {
	if c.Toolnix.InspectTimeout < 0 {
		return errors.New("toolnix.inspect_timeout must not be negative")
	}
	if c.Toolnix.ExtractTimeout < 0 {
		return errors.New("toolnix.extract_timeout must not be negative")
	}
	return nil
}

func (c *Config) validateReport() error {
	if _, err := c.ReportMarkers(); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}

func (c *Config) validateExtract() error {
	if _, err := extract.ParseNumbering(c.Extract.Numbering); err != nil {
		return fmt.Errorf("extract.numbering: %w", err)
	}
	for id, ext := range c.Codecs {
		if strings.TrimSpace(id) == "" {
			return errors.New("codecs: codec id must not be empty")
		}
		if strings.ContainsAny(ext, `/\`) {
			return fmt.Errorf("codecs.%s: extension %q must not contain path separators", id, ext)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
		return nil
	default:
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
}
