package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerJSON(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.Info("Analysis completed", "url", "https://google.com", "safety_score", 100, "err", errors.New("boom"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "Analysis completed", entry["message"])
	assert.Equal(t, "https://google.com", entry["url"])
	assert.EqualValues(t, 100, entry["safety_score"])
	assert.Equal(t, "boom", entry["err"])
	assert.Contains(t, entry, "time")
}

func TestLoggerLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown", "kind", "timeout")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"kind":"timeout"`)
}

func TestLoggerOddKeyValues(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: FormatJSON, Output: &buf})
	require.NoError(t, err)

	logger.Error("dangling", "key")
	assert.Contains(t, buf.String(), `"message":"dangling"`)
	assert.NotContains(t, buf.String(), `"key"`)
}

func TestLoggerConsole(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: FormatConsole, Output: &buf})
	require.NoError(t, err)

	logger.Info("Server starting", "port", "8080")
	assert.Contains(t, buf.String(), "Server starting")
	assert.Contains(t, buf.String(), "port=")
}

func TestLoggerFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "linkrisk.log")

	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: FormatConsole, File: logFile, MaxSizeMB: 1, MaxBackups: 1, Output: &buf})
	require.NoError(t, err)

	logger.Debug("written to file", "n", 1)
	require.NoError(t, logger.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"level":"debug"`)
	assert.Contains(t, string(content), `"message":"written to file"`)
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, level)

	level, err = ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, level)
}

func TestNop(t *testing.T) {
	logger := Nop()
	assert.NotPanics(t, func() {
		logger.Info("ignored", "k", "v")
		logger.Error("ignored")
	})
	assert.NoError(t, logger.Close())
}
