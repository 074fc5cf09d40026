// Package logx wires up structured logging. The TUI owns the terminal, so
// logs go to a file or nowhere.
package logx

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"pkt.systems/pslog"
)

// Options controls where and how much is logged.
type Options struct {
	// File is the log destination. Empty discards everything.
	File string
	// Debug lowers the minimum level to debug.
	Debug bool
}

// New builds a structured logger writing to w.
func New(w io.Writer, debug bool) pslog.Logger {
	level := pslog.InfoLevel
	if debug {
		level = pslog.DebugLevel
	}
	return pslog.NewWithOptions(w, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      level,
		VerboseFields: true,
	})
}

// Discard returns a logger that drops every entry.
func Discard() pslog.Logger {
	return pslog.NewWithOptions(io.Discard, pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.ErrorLevel,
	})
}

// Open builds the logger described by opts. The returned closer must be
// called on shutdown.
func Open(opts Options) (pslog.Logger, io.Closer, error) {
	if opts.File == "" {
		return Discard(), io.NopCloser(nil), nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	return New(f, opts.Debug), f, nil
}

// Ctx returns the logger bound to ctx.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithLogger binds log to ctx.
func WithLogger(ctx context.Context, log pslog.Logger) context.Context {
	return pslog.ContextWithLogger(ctx, log)
}

// WithModel annotates the logger with the model name when set.
func WithModel(log pslog.Logger, model string) pslog.Logger {
	if model != "" {
		log = log.With("model", model)
	}
	return log
}
