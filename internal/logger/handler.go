package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/fatih/color"
)

// PrettyHandler is a slog.Handler for human-friendly CLI output:
//
//	[WARN]  changelog has duplicate section version=1.2.0
type PrettyHandler struct {
	opts   *slog.HandlerOptions
	w      io.Writer
	mu     *sync.Mutex
	plain  bool
	attrs  []slog.Attr
	groups []string
}

func NewPrettyHandler(w io.Writer, opts *slog.HandlerOptions) *PrettyHandler {
	if opts == nil {
		opts = &slog.HandlerOptions{}
	}
	return &PrettyHandler{
		opts:  opts,
		w:     w,
		mu:    &sync.Mutex{},
		attrs: []slog.Attr{},
	}
}

// WithoutColor returns a copy that never emits ANSI escapes.
func (h *PrettyHandler) WithoutColor() *PrettyHandler {
	clone := *h
	clone.plain = true
	return &clone
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	minLevel := slog.LevelWarn
	if h.opts.Level != nil {
		minLevel = h.opts.Level.Level()
	}
	return level >= minLevel
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	var buf strings.Builder

	buf.WriteString(h.formatLevel(r.Level))
	buf.WriteString(" ")
	buf.WriteString(r.Message)

	attrs := make([]string, 0, r.NumAttrs()+len(h.attrs))
	for _, a := range h.attrs {
		attrs = append(attrs, h.formatAttr(a))
	}
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.formatAttr(h.qualify(a)))
		return true
	})

	if len(attrs) > 0 {
		buf.WriteString(" ")
		buf.WriteString(strings.Join(attrs, " "))
	}

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		if frame.File != "" {
			buf.WriteString(" ")
			buf.WriteString(h.paint(color.FgHiBlack, "(%s:%d)", filepath.Base(frame.File), frame.Line))
		}
	}

	buf.WriteString("\n")

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, buf.String())
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	clone := *h
	clone.attrs = make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	clone.attrs = append(clone.attrs, h.attrs...)
	for _, a := range attrs {
		clone.attrs = append(clone.attrs, h.qualify(a))
	}
	return &clone
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string(nil), h.groups...), name)
	return &clone
}

// qualify prefixes the key with the currently open groups.
func (h *PrettyHandler) qualify(a slog.Attr) slog.Attr {
	if len(h.groups) > 0 {
		a.Key = strings.Join(h.groups, ".") + "." + a.Key
	}
	return a
}

func (h *PrettyHandler) formatLevel(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return h.paint(color.FgHiBlack, "[DEBUG]")
	case slog.LevelInfo:
		return h.paint(color.FgCyan, "[INFO] ")
	case slog.LevelWarn:
		return h.paint(color.FgYellow, "[WARN] ")
	case slog.LevelError:
		return h.paint(color.FgRed, "[ERROR]")
	default:
		return fmt.Sprintf("[%s]", level.String())
	}
}

func (h *PrettyHandler) formatAttr(a slog.Attr) string {
	val := a.Value.Resolve().String()

	switch a.Key {
	case "error", "err":
		return h.paint(color.FgRed, "%s=%s", a.Key, val)
	case "tag", "version":
		return h.paint(color.FgGreen, "%s=%s", a.Key, val)
	case "count", "total":
		return h.paint(color.FgMagenta, "%s=%s", a.Key, val)
	default:
		return h.paint(color.FgHiBlack, "%s=%s", a.Key, val)
	}
}

func (h *PrettyHandler) paint(attr color.Attribute, format string, args ...any) string {
	if h.plain {
		return fmt.Sprintf(format, args...)
	}
	return color.New(attr).Sprintf(format, args...)
}
