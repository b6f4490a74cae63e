// Package logger provides a colored slog handler for terminal output.
// Warnings render yellow, errors red, and messages about persistence or
// export operations green so they stand out during long runs.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
)

// greenKeywords mark messages worth highlighting: durable side effects
// like exports and checkpoints.
var greenKeywords = []string{
	"persist", "export", "checkpoint", "saved", "written",
}

// Options configures a Logger.
type Options struct {
	Level     slog.Level
	Output    io.Writer
	UseColors bool
	// AddSource includes file:line of the call site.
	AddSource bool
}

// ColorHandler is a slog.Handler that writes human-readable colored
// lines. It is not intended for structured log aggregation; use a JSON
// handler for that.
type ColorHandler struct {
	opts   Options
	attrs  []slog.Attr
	groups []string

	mu  *sync.Mutex
	out io.Writer
}

// NewColorHandler creates a handler writing to opts.Output.
func NewColorHandler(opts Options) *ColorHandler {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	return &ColorHandler{
		opts: opts,
		mu:   &sync.Mutex{},
		out:  opts.Output,
	}
}

// Enabled implements slog.Handler.
func (h *ColorHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level
}

// Handle implements slog.Handler.
func (h *ColorHandler) Handle(_ context.Context, record slog.Record) error {
	var b strings.Builder

	b.WriteString(record.Time.Format(time.RFC3339))
	b.WriteByte(' ')

	color := h.levelColor(record.Level, record.Message)
	if h.opts.UseColors && color != "" {
		b.WriteString(color)
	}
	b.WriteString(record.Level.String())
	b.WriteByte(' ')
	b.WriteString(record.Message)

	prefix := strings.Join(h.groups, ".")
	for _, attr := range h.attrs {
		writeAttr(&b, prefix, attr)
	}
	record.Attrs(func(attr slog.Attr) bool {
		writeAttr(&b, prefix, attr)
		return true
	})

	if h.opts.UseColors && color != "" {
		b.WriteString(colorReset)
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.out, b.String())
	return err
}

func writeAttr(b *strings.Builder, prefix string, attr slog.Attr) {
	key := attr.Key
	if prefix != "" {
		key = prefix + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, attr.Value.Resolve().Any())
}

func (h *ColorHandler) levelColor(level slog.Level, message string) string {
	switch {
	case level >= slog.LevelError:
		return colorRed
	case level >= slog.LevelWarn:
		return colorYellow
	case level < slog.LevelInfo:
		return colorGray
	}
	lowered := strings.ToLower(message)
	for _, kw := range greenKeywords {
		if strings.Contains(lowered, kw) {
			return colorGreen
		}
	}
	return ""
}

// WithAttrs implements slog.Handler.
func (h *ColorHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

// WithGroup implements slog.Handler.
func (h *ColorHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	clone := *h
	clone.groups = append(append([]string{}, h.groups...), name)
	return &clone
}

// NewLogger creates a logger from explicit options.
func NewLogger(opts Options) *slog.Logger {
	return slog.New(NewColorHandler(opts))
}

// NewDefaultLogger creates a colored stderr logger at the given level.
func NewDefaultLogger(level slog.Level) *slog.Logger {
	return NewLogger(Options{
		Level:     level,
		Output:    os.Stderr,
		UseColors: true,
	})
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
