// Package cli implements the cardforge command-line interface.
//
// Commands mirror the stages of a card build and can be run one at a time
// or all together:
//   - generate: merge a card sheet into per-card template documents
//   - art: generate artwork for each card with an image provider
//   - render: turn documents into bitmaps via the configured renderer
//   - overlay: place artwork into rendered card frames
//   - stitch / sheets: compose cards into grids and paginated deck sheets
//   - build: run the full pipeline
//   - serve: start the HTTP API
//   - preview: show a card or sheet in the terminal
//
// All commands accept --verbose for debug logging and --config to point at
// a settings file other than $XDG_CONFIG_HOME/cardforge/config.toml.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/youruser/cardforge/internal/config"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const (
	loggerKey ctxKey = iota
	configKey
)

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

func withConfig(ctx context.Context, c *config.Config) context.Context {
	return context.WithValue(ctx, configKey, c)
}

// configFromContext returns the loaded settings, or the defaults.
func configFromContext(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey).(*config.Config); ok {
		return c
	}
	return config.Default()
}
