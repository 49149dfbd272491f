package mkvtoolnix

import (
	"context"
	"errors"
	"strings"
	"time"

	"mkvcleaver/internal/services"
)

// Inspector produces the textual track report for a container file.
type Inspector interface {
	Inspect(ctx context.Context, path string) (string, error)
}

// Extractor runs one mkvextract invocation, streaming its output lines.
type Extractor interface {
	Extract(ctx context.Context, args []string, onLine func(string)) error
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// WithTimeouts bounds each inspection and extraction. Zero disables the
// limit.
func WithTimeouts(inspect, extract time.Duration) Option {
	return func(c *Client) {
		c.inspectTimeout = inspect
		c.extractTimeout = extract
	}
}

// WithForceEnglish runs the tools under LC_ALL=C so they print English
// reports.
func WithForceEnglish(enabled bool) Option {
	return func(c *Client) {
		c.forceEnglish = enabled
	}
}

// Client wraps mkvinfo and mkvextract.
type Client struct {
	infoBinary     string
	extractBinary  string
	inspectTimeout time.Duration
	extractTimeout time.Duration
	forceEnglish   bool
	exec           Executor
}

// New constructs a client for the given executables.
func New(infoBinary, extractBinary string, opts ...Option) (*Client, error) {
	infoBinary = strings.TrimSpace(infoBinary)
	extractBinary = strings.TrimSpace(extractBinary)
	if infoBinary == "" || extractBinary == "" {
		return nil, services.Wrap(services.ErrConfiguration, "mkvtoolnix", "init", "mkvinfo and mkvextract binaries required", nil)
	}
	client := &Client{
		infoBinary:    infoBinary,
		extractBinary: extractBinary,
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.exec == nil {
		var env []string
		if client.forceEnglish {
			env = []string{"LC_ALL=C", "LANG=C"}
		}
		client.exec = commandExecutor{env: env}
	}
	return client, nil
}

// InfoBinary returns the mkvinfo path the client invokes.
func (c *Client) InfoBinary() string { return c.infoBinary }

// ExtractBinary returns the mkvextract path the client invokes.
func (c *Client) ExtractBinary() string { return c.extractBinary }

// Inspect runs mkvinfo with path as its only argument and returns stdout.
func (c *Client) Inspect(ctx context.Context, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", services.Wrap(services.ErrValidation, "inspect", "mkvinfo", "file path required", nil)
	}
	runCtx, cancel := withTimeout(ctx, c.inspectTimeout)
	defer cancel()

	var b strings.Builder
	err := c.exec.Run(runCtx, c.infoBinary, []string{path}, func(line string) {
		b.WriteString(line)
		b.WriteByte('\n')
	})
	if err != nil {
		return "", classify("inspect", "mkvinfo", err)
	}
	return b.String(), nil
}

// Extract runs mkvextract with args. Exit status 1 (warnings) counts as
// success.
func (c *Client) Extract(ctx context.Context, args []string, onLine func(string)) error {
	if len(args) == 0 {
		return services.Wrap(services.ErrValidation, "extract", "mkvextract", "arguments required", nil)
	}
	runCtx, cancel := withTimeout(ctx, c.extractTimeout)
	defer cancel()

	err := c.exec.Run(runCtx, c.extractBinary, args, onLine)
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Code == 1 {
		return nil
	}
	if err != nil {
		return classify("extract", "mkvextract", err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

func classify(stage, operation string, err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return services.Wrap(services.ErrCanceled, stage, operation, "canceled", err)
	case errors.Is(err, context.DeadlineExceeded):
		return services.Wrap(services.ErrTimeout, stage, operation, "timed out", err)
	default:
		return services.Wrap(services.ErrExternalTool, stage, operation, "", err)
	}
}
