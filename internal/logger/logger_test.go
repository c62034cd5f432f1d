package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_WithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "checkin.log")

	err := Init(Config{Level: "debug", Format: "text", File: file})
	require.NoError(t, err)
	require.NotNil(t, Logger)

	Info("Test info message", "key", "value")

	_, err = os.Stat(filepath.Dir(file))
	assert.NoError(t, err)
}

func TestInit_UnknownLevelFallsBackToInfo(t *testing.T) {
	require.NoError(t, Init(Config{Level: "loud"}))
	assert.Equal(t, log.InfoLevel, Logger.GetLevel())
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.InfoLevel, "json")

	l.Info("entry toggled", "action", "create")

	assert.Contains(t, buf.String(), `"msg":"entry toggled"`)
	assert.Contains(t, buf.String(), `"action":"create"`)
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, log.WarnLevel, "logfmt")

	l.Info("hidden")
	l.Warn("shown")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	assert.NotNil(t, StandardLog())
}
