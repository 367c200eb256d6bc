// Package logger configures structured logging for cambi and carries the
// active logger through context.Context.
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

var loggerKey = contextKey{}

// Options selects the log level and output.
type Options struct {
	Debug   bool
	Verbose bool
	Plain   bool
	Writer  io.Writer
}

// Level returns warn by default, info when verbose, debug when debugging.
func (o Options) Level() slog.Level {
	switch {
	case o.Debug:
		return slog.LevelDebug
	case o.Verbose:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

// Initialize installs a PrettyHandler logger as the slog default and returns it.
func Initialize(opts Options) *slog.Logger {
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}

	handler := NewPrettyHandler(w, &slog.HandlerOptions{
		Level:     opts.Level(),
		AddSource: opts.Debug,
	})
	if opts.Plain {
		handler = handler.WithoutColor()
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func With(ctx context.Context, args ...any) context.Context {
	l := FromContext(ctx).With(args...)
	return WithLogger(ctx, l)
}

func Debug(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Debug(msg, args...)
}

func Info(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Info(msg, args...)
}

func Warn(ctx context.Context, msg string, args ...any) {
	FromContext(ctx).Warn(msg, args...)
}

func Error(ctx context.Context, msg string, err error, args ...any) {
	if err != nil {
		args = append(args, slog.Any("error", err))
	}
	FromContext(ctx).Error(msg, args...)
}
