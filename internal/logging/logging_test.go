package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewFormats(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		format string
		want   string
	}{
		{"text", `level=INFO msg=saved cards=3`},
		{"json", `"msg":"saved","cards":3`},
		{"pretty", `INFO: saved {"cards":3}`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			logger, closeFn, err := New(Options{Level: "info", Format: tt.format, Writer: &buf})
			require.NoError(t, err)
			defer closeFn()

			logger.Debug("hidden")
			logger.Info("saved", "cards", 3)

			assert.Contains(t, buf.String(), tt.want)
			assert.NotContains(t, buf.String(), "hidden")
		})
	}

	_, _, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "procflow.log")

	logger, closeFn, err := New(Options{Level: "debug", File: path})
	require.NoError(t, err)
	logger.Debug("restored", "history", 2)
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=restored history=2")
}

func TestNilWriterDiscards(t *testing.T) {
	logger, _, err := New(Options{})
	require.NoError(t, err)
	logger.Info("nowhere")
}

func TestPrettyHandlerAttrsAndGroups(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	logger := slog.New(NewPrettyHandler(&buf, PrettyHandlerOptions{SlogOpts: slog.HandlerOptions{Level: slog.LevelDebug}}))
	logger.With("component", "store").WithGroup("move").Debug("card moved", "id", "c1")

	out := buf.String()
	assert.Contains(t, out, "DEBUG: card moved")
	assert.Contains(t, out, `"component":"store"`)
	assert.Contains(t, out, `"move.id":"c1"`)
}
