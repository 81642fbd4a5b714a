// Package cli implements the shotgrid command-line interface.
//
// The CLI imports thumbnail folders as edits, computes layouts, renders
// them, browses them interactively and serves them over HTTP. It is built
// using cobra and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - import: Create an edit from a folder of numbered thumbnails
//   - layout: Compute and print the thumbnail layout of an edit
//   - render: Generate SVG, PNG, DOT or JSON outputs
//   - export: Write the shot list as CSV
//   - view: Browse a layout in the terminal, reloading on file changes
//   - serve: Run the HTTP API over the configured edit store
//   - edits: Manage the edit store
//   - cache: Manage the layout and render cache
//
// # Configuration
//
// Settings come from a TOML file (see package config); --config selects a
// file other than the default location.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so long-running steps can report progress.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger writes to w at level with short wall-clock timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times the stages of one command. Each stage is logged at debug
// level as it ends; done logs the total at info level. Not safe for
// concurrent use.
type progress struct {
	logger *log.Logger
	start  time.Time
	mark   time.Time
}

func newProgress(l *log.Logger) *progress {
	now := time.Now()
	return &progress{logger: l, start: now, mark: now}
}

// stage ends the current stage under name.
func (p *progress) stage(name string) {
	now := time.Now()
	p.logger.Debug("stage", "name", name, "took", now.Sub(p.mark).Round(time.Millisecond))
	p.mark = now
}

// done logs msg with the time since newProgress and any extra key/values.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "took", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the command's logger, or log.Default when the
// context carries none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
