// Package logger provides a colored slog-based logger: warnings yellow,
// errors red, and info messages about persistence (add/disable/replace)
// green, so a human watching the CLI or a long migration run can spot the
// operations that touch the graph database at a glance.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
)

// Logger wraps *slog.Logger with the colorizing handler below.
type Logger struct {
	*slog.Logger
}

// NewDefaultLogger returns a Logger writing colored text to stderr at the
// given level.
func NewDefaultLogger(level slog.Leveler) *Logger {
	return New(colorable.NewColorableStderr(), level)
}

// New returns a Logger writing to w. Coloring is disabled automatically
// when w is not a terminal (e.g. when output is piped to a file).
func New(w io.Writer, level slog.Leveler) *Logger {
	colorEnabled := true
	if f, ok := w.(*os.File); ok {
		colorEnabled = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}

	handler := &colorHandler{
		out:     w,
		level:   level,
		colored: colorEnabled,
	}
	return &Logger{Logger: slog.New(handler)}
}

// colorHandler is a minimal slog.Handler: it does not support groups or
// attribute grouping beyond flat key=value pairs, which is all the CLI
// needs.
type colorHandler struct {
	out     io.Writer
	level   slog.Leveler
	colored bool
	attrs   []slog.Attr
}

func (h *colorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *colorHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s [%s] %s", record.Time.Format("15:04:05.000"), record.Level.String(), record.Message)

	for _, a := range h.attrs {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
	}
	record.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
		return true
	})

	line := b.String()
	if h.colored {
		line = colorFor(record) + line + colorReset
	}

	_, err := fmt.Fprintln(h.out, line)
	return err
}

func (h *colorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &colorHandler{out: h.out, level: h.level, colored: h.colored, attrs: append(h.attrs, attrs...)}
}

func (h *colorHandler) WithGroup(_ string) slog.Handler {
	return h
}

func colorFor(record slog.Record) string {
	switch {
	case record.Level >= slog.LevelError:
		return colorRed
	case record.Level >= slog.LevelWarn:
		return colorYellow
	case record.Level == slog.LevelInfo && isPersistenceMessage(record.Message):
		return colorGreen
	default:
		return ""
	}
}

func isPersistenceMessage(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range []string{"persist", "added", "disabled", "replaced"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
