package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/layj/internal/config"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_TextRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, cleanup, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)
	defer cleanup()

	logger.Info("hidden")
	logger.Warn("type changed", "type", "User")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "type changed")
	assert.Contains(t, out, "type=User")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger, _, err := New(Config{Format: "json", Output: &buf})
	require.NoError(t, err)

	logger.Info("generated", "type", "User", "examples", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "generated", record["msg"])
	assert.Equal(t, "User", record["type"])
	assert.Equal(t, float64(3), record["examples"])
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "layj.log")
	logger, cleanup, err := New(Config{FilePath: path, MaxSizeMB: 1})
	require.NoError(t, err)

	logger.Info("to file")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestFromConfig(t *testing.T) {
	cfg := &config.Config{LogLevel: "debug", LogFormat: "json", LogFile: "x.log", LogMaxSizeMB: 5, LogMaxBackups: 2, LogMaxAgeDays: 7, LogCompress: true}
	got := FromConfig(cfg)
	assert.Equal(t, Config{Level: "debug", Format: "json", FilePath: "x.log", MaxSizeMB: 5, MaxBackups: 2, MaxAgeDays: 7, Compress: true}, got)
}
