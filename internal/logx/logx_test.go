package logx

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input    string
		expected Level
	}{
		"debug":         {input: "debug", expected: LevelDebug},
		"upper case":    {input: "WARN", expected: LevelWarn},
		"warning alias": {input: "warning", expected: LevelWarn},
		"padded":        {input: "  error ", expected: LevelError},
		"unknown":       {input: "loud", expected: LevelInfo},
		"empty":         {input: "", expected: LevelInfo},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseLevel(tt.input, LevelInfo))
		})
	}
}

func TestWriterLoggerFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriter(&buf, "debug").With(String("component", "stopwatch"))
	logger.Info("tick", Int("elapsed", 3), Err(errors.New("boom")), Err(nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "tick", entry["message"])
	assert.Equal(t, "stopwatch", entry["component"])
	assert.EqualValues(t, 3, entry["elapsed"])
	assert.Equal(t, "boom", entry["error"])
	assert.Contains(t, entry["caller"], "logx_test.go")
}

func TestWriterLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWriter(&buf, "warn")
	logger.Debug("hidden")
	logger.Info("hidden")
	assert.Zero(t, buf.Len())

	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestZeroLoggerIsNoop(t *testing.T) {
	t.Parallel()

	var logger Logger
	assert.True(t, logger.IsZero())
	assert.NotPanics(t, func() { logger.Error("ignored", Int("n", 1)) })
	assert.False(t, Nop().IsZero())
}

func TestNewWithFileSink(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "logs", "memo.log")
	logger, closer, err := New(Config{Level: "info", File: path})
	require.NoError(t, err)
	logger.Info("written")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"written"`)
}
