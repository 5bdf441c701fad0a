// Package logging configures the process-wide slog logger used by the
// command line tools.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Off is above every standard level and disables a handler.
const Off = slog.Level(100)

type Config struct {
	ConsoleLevel slog.Level
	// Console defaults to os.Stderr so that command output on stdout stays
	// clean.
	Console io.Writer
	NoColor bool

	// FilePath enables a rotated log file when set.
	FilePath  string
	FileLevel slog.Level
}

// ParseLevel accepts debug, info, warn, error and off.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return Off, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: invalid level %q", s)
	}
	return l, nil
}

// New builds a logger from cfg. The returned closer releases the log file.
func New(cfg Config) (*slog.Logger, io.Closer) {
	var handlers []slog.Handler
	var closer io.Closer = nopCloser{}

	if cfg.ConsoleLevel != Off {
		w := cfg.Console
		if w == nil {
			w = os.Stderr
		}
		handlers = append(handlers, tint.NewHandler(w, &tint.Options{
			Level:      cfg.ConsoleLevel,
			TimeFormat: time.TimeOnly,
			NoColor:    cfg.NoColor,
		}))
	}

	if cfg.FilePath != "" && cfg.FileLevel != Off {
		lumber := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    10,
			MaxBackups: 3,
			Compress:   true,
		}
		closer = lumber
		handlers = append(handlers, tint.NewHandler(lumber, &tint.Options{
			Level:      cfg.FileLevel,
			TimeFormat: time.RFC3339,
			NoColor:    true,
		}))
	}

	return slog.New(&multiHandler{handlers: handlers}), closer
}

// Setup installs the logger built from cfg as the slog default and routes
// the standard log package through it.
func Setup(cfg Config) io.Closer {
	logger, closer := New(cfg)
	slog.SetDefault(logger)

	lw := &slogWriter{}
	log.Default().SetOutput(lw)
	log.SetFlags(0)
	return closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multiHandler fans records out to every handler enabled for their level.
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, r.Level) {
			errs = append(errs, hh.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := &multiHandler{handlers: make([]slog.Handler, len(h.handlers))}
	for i, hh := range h.handlers {
		out.handlers[i] = hh.WithAttrs(attrs)
	}
	return out
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	out := &multiHandler{handlers: make([]slog.Handler, len(h.handlers))}
	for i, hh := range h.handlers {
		out.handlers[i] = hh.WithGroup(name)
	}
	return out
}

// slogWriter forwards the standard logger, mapping a level prefix when the
// message has one.
type slogWriter struct{}

func (w *slogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	switch {
	case strings.HasPrefix(msg, "ERROR "):
		slog.Error(msg[6:])
	case strings.HasPrefix(msg, "WARN "):
		slog.Warn(msg[5:])
	case strings.HasPrefix(msg, "INFO "):
		slog.Info(msg[5:])
	default:
		slog.Debug(msg)
	}
	return len(p), nil
}
