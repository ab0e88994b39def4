package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexconsult/justice-tools/internal/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log, closer, err := New(config.LogConfig{Level: "debug", Format: "json"}, Options{Out: &buf})
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log.WithField("job_id", "42").Info("Search started")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Search started", entry["msg"])
	assert.Equal(t, "42", entry["job_id"])
	assert.Equal(t, "info", entry["level"])
}

func TestNewUnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	log, _, err := New(config.LogConfig{Level: "chatty", Format: "text"}, Options{Out: &buf})
	require.NoError(t, err)

	assert.Equal(t, logrus.InfoLevel, log.GetLevel())
	log.Debug("hidden")
	assert.Empty(t, buf.String())
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tools.log")

	var buf bytes.Buffer
	log, closer, err := New(config.LogConfig{Level: "info", Format: "text", File: path}, Options{Out: &buf})
	require.NoError(t, err)

	log.Info("both sinks")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "both sinks")
	assert.Contains(t, buf.String(), "both sinks")
}

func TestNewBadFileKeepsConsole(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing", "dir", "tools.log")

	log, closer, err := New(config.LogConfig{Level: "info", File: path}, Options{Out: &buf})
	require.Error(t, err)
	require.NotNil(t, log)
	require.NoError(t, closer.Close())

	log.Info("still logging")
	assert.Contains(t, buf.String(), "still logging")
}
