package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/bundlebuilder/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARNING": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"chatty":  slog.LevelInfo,
	}
	for name, want := range tests {
		assert.Equal(t, want, ParseLevel(name), name)
	}
}

func TestMavenHandler_Format(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "info"}).With("system", "engine")

	logger.Info("rebalanced", "collection", "bundle-hair", "total", "$57.00")

	line := buf.String()
	assert.Regexp(t, `^\[INFO\] \[engine\] \[\d{2}:\d{2}:\d{2}\] rebalanced`, line)
	assert.Contains(t, line, "collection=bundle-hair")
	assert.Contains(t, line, "total=$57.00")
	assert.NotContains(t, line, "system=")
}

func TestMavenHandler_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Level: "warn"})

	logger.Info("hidden")
	logger.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "[WARN]")
}

func TestMavenHandler_GroupsAndQuoting(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{}).WithGroup("op")

	logger.Info("swap", "reason", "out of window", slog.Group("item", "id", "p1"))

	line := buf.String()
	assert.Contains(t, line, `op.reason="out of window"`)
	assert.Contains(t, line, "op.item.id=p1")
}

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerTo(&buf, config.LoggingConfig{Format: "json"})

	logger.Info("build", "collections", 9)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "build", rec["msg"])
	assert.EqualValues(t, 9, rec["collections"])
}
