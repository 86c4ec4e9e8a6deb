package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewNop(t *testing.T) {
	logger, err := New(Options{})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.ErrorLevel), "no sink means no output")
}

func TestNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "dv.log")
	logger, err := New(Options{File: path, Level: "debug"})
	require.NoError(t, err)

	logger.Debug("slide changed", zap.Int("index", 3))
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "slide changed", entry["msg"])
	assert.Equal(t, float64(3), entry["index"])
}

func TestNewLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dv.log")
	logger, err := New(Options{File: path, Level: "warn"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewDevelopmentFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dv.log")
	logger, err := New(Options{File: path, Level: "info", Development: true})
	require.NoError(t, err)

	logger.Info("deck mounted", zap.String("deck", "Sales"))
	logger.Debug("hidden")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	line := strings.TrimSpace(string(data))
	assert.False(t, json.Valid([]byte(line)), "development logs use the console encoder")
	assert.Contains(t, line, "INFO")
	assert.Contains(t, line, "deck mounted")
	assert.NotContains(t, line, "hidden")
}

func TestNewBadLevel(t *testing.T) {
	_, err := New(Options{Level: "loud"})
	assert.Error(t, err)
}
