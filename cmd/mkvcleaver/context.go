package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"mkvcleaver/internal/config"
	"mkvcleaver/internal/deps"
	"mkvcleaver/internal/logging"
	"mkvcleaver/internal/report"
	"mkvcleaver/internal/services/mkvtoolnix"
	"mkvcleaver/internal/tracks"
	"mkvcleaver/internal/workset"
)

type commandContext struct {
	configFlag    *string
	workspaceFlag *string
	verbose       *bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag, workspaceFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		workspaceFlag: workspaceFlag,
		verbose:       verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.workspaceFlag != nil && strings.TrimSpace(*c.workspaceFlag) != "" {
			dir, err := config.ExpandPath(strings.TrimSpace(*c.workspaceFlag))
			if err != nil {
				c.configErr = fmt.Errorf("resolve workspace: %w", err)
				return
			}
			cfg.Paths.WorkspaceDir = dir
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) isVerbose() bool {
	return c.verbose != nil && *c.verbose
}

// loggerFor returns the session logger. Console output only appears with
// --verbose; the log file always receives JSON records.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg := c.configValue()
		if cfg == nil {
			c.logger = logging.NewNop()
			return
		}
		opts := logging.Options{
			Level:    cfg.Logging.Level,
			Format:   cfg.Logging.Format,
			Writer:   io.Discard,
			FilePath: filepath.Join(cfg.Paths.LogDir, logging.LogFileName),
		}
		if c.isVerbose() {
			opts.Level = "debug"
			opts.Writer = cmd.ErrOrStderr()
		}
		logger, err := logging.New(opts)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "logging disabled: %v\n", err)
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

// toolnixClient verifies both executables before building the client so a
// missing install is reported once, up front.
func (c *commandContext) toolnixClient() (*mkvtoolnix.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if missing := deps.Missing(deps.CheckBinaries(deps.ToolnixRequirements(cfg))); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, m.Name)
		}
		return nil, fmt.Errorf("mkvtoolnix not found (%s missing); set it with `mkvcleaver config toolnix <dir>` or %s", strings.Join(names, ", "), config.ToolnixDirEnv)
	}
	return mkvtoolnix.New(
		cfg.MkvinfoBinary(),
		cfg.MkvextractBinary(),
		mkvtoolnix.WithTimeouts(cfg.InspectTimeout(), cfg.ExtractTimeout()),
		mkvtoolnix.WithForceEnglish(cfg.Toolnix.ForceEnglish),
	)
}

func (c *commandContext) reportParser() (*report.Parser, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	markers, err := cfg.ReportMarkers()
	if err != nil {
		return nil, err
	}
	return report.NewParser(markers...), nil
}

// withWorkset loads the working set under the workspace lock, runs fn, and
// saves the result when save is set.
func (c *commandContext) withWorkset(cmd *cobra.Command, save bool, fn func(*tracks.WorkingSet) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	store, err := workset.Open(ctx, cfg.Paths.WorkspaceDir)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Lock(); err != nil {
		if errors.Is(err, workset.ErrLocked) {
			return fmt.Errorf("workspace %s is in use by another mkvcleaver process", cfg.Paths.WorkspaceDir)
		}
		return err
	}
	defer store.Unlock()

	ws, err := store.Load(ctx)
	if err != nil {
		return err
	}
	logger := c.loggerFor(cmd)
	ws.Observe(func(change tracks.Change) {
		logger.Debug("working set changed",
			logging.String(logging.FieldEventType, string(change.Kind)),
			logging.String("path", change.Path),
			logging.Int("index", change.Index),
			logging.Bool("selected", change.Selected),
		)
	})

	if err := fn(ws); err != nil {
		return err
	}
	if !save {
		return nil
	}
	return store.Save(ctx, ws)
}

// interruptContext cancels on Ctrl-C or SIGTERM so a running mkvinfo or
// mkvextract is killed instead of orphaned.
func interruptContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
