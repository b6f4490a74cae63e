package logger

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"DEBUG", slog.LevelDebug},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestHandlerOutput(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Options{Level: slog.LevelDebug, Output: &buf})

	log.Info("query complete", "node_id", "abc", "results", 4)

	line := buf.String()
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "query complete")
	assert.Contains(t, line, "node_id=abc")
	assert.Contains(t, line, "results=4")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestHandlerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Options{Level: slog.LevelWarn, Output: &buf})

	log.Debug("hidden")
	log.Info("also hidden")
	log.Warn("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestHandlerColors(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Options{Level: slog.LevelDebug, Output: &buf, UseColors: true})

	log.Error("boom")
	assert.Contains(t, buf.String(), colorRed)

	buf.Reset()
	log.Info("checkpoint saved")
	assert.Contains(t, buf.String(), colorGreen)

	buf.Reset()
	log.Info("plain message")
	assert.NotContains(t, buf.String(), colorGreen)
}

func TestHandlerGroupsAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	log := NewLogger(Options{Level: slog.LevelDebug, Output: &buf})

	log.WithGroup("graph").With("layer", "layer_3").Info("node added", "id", "x")

	line := buf.String()
	assert.Contains(t, line, "graph.layer=layer_3")
	assert.Contains(t, line, "graph.id=x")
}
