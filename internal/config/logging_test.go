package config

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger_TextConsoleJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carbon.log")
	var console bytes.Buffer

	logger, cleanup := SetupLogger(LogConfig{Level: "info", File: path}, &console)
	logger.Info("job queued", "job_id", "abc")
	logger.Debug("hidden")
	require.NoError(t, cleanup())

	assert.Contains(t, console.String(), "job_id=abc")
	assert.NotContains(t, console.String(), "hidden")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, "job queued", entry["msg"])
	assert.Equal(t, "abc", entry["job_id"])
}

func TestSetupLogger_FileAndConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "carbon.log")
	var console bytes.Buffer

	logger, cleanup := SetupLogger(LogConfig{Level: "debug", File: path}, &console)
	logger.Debug("duration read", "duration", "1m0s")
	require.NoError(t, cleanup())

	assert.Contains(t, console.String(), "duration read")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"duration read"`)
}

func TestSetupLogger_NoConsole(t *testing.T) {
	path := filepath.Join(t.TempDir(), "carbon.log")

	logger, cleanup := SetupLogger(LogConfig{Level: "info", File: path}, nil)
	logger.Info("tui mode")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestSetupLogger_ConsoleOnly(t *testing.T) {
	var console bytes.Buffer
	logger, cleanup := SetupLogger(LogConfig{Level: "warn"}, &console)
	defer cleanup()

	logger.Info("skipped")
	logger.Warn("kept")

	assert.NotContains(t, console.String(), "skipped")
	assert.Contains(t, console.String(), "kept")
}
