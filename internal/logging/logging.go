// Package logging sets up the process-wide slog logger: a colored console
// handler on stderr and, optionally, a rotated log file.
package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Disabled is a level above every standard level. A handler set to it
// logs nothing.
const Disabled = slog.Level(100)

// Config selects where log records go.
type Config struct {
	// ConsoleLevel filters records written to Console.
	ConsoleLevel slog.Level
	// Console defaults to os.Stderr.
	Console io.Writer
	NoColor bool

	// FilePath enables a rotated log file when set.
	FilePath  string
	FileLevel slog.Level
}

// Setup installs the logger described by cfg as the slog default and
// redirects the standard log package to it. The returned function closes
// the log file.
func Setup(cfg Config) (func() error, error) {
	console := cfg.Console
	if console == nil {
		console = os.Stderr
	}

	handler := &MultiLevelHandler{}
	if cfg.ConsoleLevel != Disabled {
		handler.consoleHandler = tint.NewHandler(console, &tint.Options{
			Level:      cfg.ConsoleLevel,
			TimeFormat: time.Kitchen,
			NoColor:    cfg.NoColor,
		})
	}

	closer := func() error { return nil }
	if cfg.FilePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return closer, err
		}
		lumber := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
		}
		handler.fileHandler = tint.NewHandler(lumber, &tint.Options{
			Level:      cfg.FileLevel,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		})
		closer = lumber.Close
	}

	slog.SetDefault(slog.New(handler))

	// the standard log package is routed to slog, in case a dependency uses it
	lw := &slogWriter{}
	log.SetFlags(0)
	log.SetOutput(lw)

	return closer, nil
}

// MultiLevelHandler sends each record to the console and file handlers
// whose level enables it. consoleHandler is nil when the console level is
// off and fileHandler is nil when no log file is configured.
type MultiLevelHandler struct {
	consoleHandler slog.Handler
	fileHandler    slog.Handler
}

func (h *MultiLevelHandler) handlers() []slog.Handler {
	var hs []slog.Handler
	if h.consoleHandler != nil {
		hs = append(hs, h.consoleHandler)
	}
	if h.fileHandler != nil {
		hs = append(hs, h.fileHandler)
	}
	return hs
}

func (h *MultiLevelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers() {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *MultiLevelHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, hh := range h.handlers() {
		if !hh.Enabled(ctx, r.Level) {
			continue
		}
		if err := hh.Handle(ctx, r.Clone()); err != nil {
			return err
		}
	}
	return nil
}

// derive applies fn to the handlers that are set.
func (h *MultiLevelHandler) derive(fn func(slog.Handler) slog.Handler) *MultiLevelHandler {
	out := &MultiLevelHandler{}
	if h.consoleHandler != nil {
		out.consoleHandler = fn(h.consoleHandler)
	}
	if h.fileHandler != nil {
		out.fileHandler = fn(h.fileHandler)
	}
	return out
}

func (h *MultiLevelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h.derive(func(hh slog.Handler) slog.Handler { return hh.WithAttrs(attrs) })
}

func (h *MultiLevelHandler) WithGroup(name string) slog.Handler {
	return h.derive(func(hh slog.Handler) slog.Handler { return hh.WithGroup(name) })
}

// ParseLevel maps "debug", "info", "warn", "error" and "off" to a level.
func ParseLevel(s string) (slog.Level, bool) {
	if s == "off" {
		return Disabled, true
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, false
	}
	return l, true
}
