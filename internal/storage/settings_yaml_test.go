package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"memo/internal/ui/preferences"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests touch MEMO_* environment variables, so they do not run in
// parallel.

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "memo", settingsFileName)

	settings := preferences.DefaultSettings()
	settings.Title = "Focus"
	settings.PausedText = "take a breath"
	settings.TickInterval = 500 * time.Millisecond
	settings.Toasts = false
	settings.Log.Level = "debug"
	require.NoError(t, SaveSettings(path, settings))

	loaded, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, settings, loaded)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("paused_text: be right back\n"), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "be right back", settings.PausedText)
	assert.Equal(t, "time running: %s", settings.RunningFormat)
	assert.True(t, settings.Toasts)
}

func TestEnvironmentOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("title: FromFile\nnotification_id: 5\n"), 0o644))
	t.Setenv("MEMO_TITLE", "FromEnv")
	t.Setenv("MEMO_TOASTS", "false")
	t.Setenv("MEMO_TICK_INTERVAL_MS", "250")

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "FromEnv", settings.Title)
	assert.Equal(t, 5, settings.NotificationID)
	assert.False(t, settings.Toasts)
	assert.Equal(t, 250*time.Millisecond, settings.TickInterval)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("title: [unclosed\n"), 0o644))

	settings, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse settings yaml")
	assert.Equal(t, preferences.DefaultSettings(), settings)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), settingsFileName)
	require.NoError(t, os.WriteFile(path, []byte("running_format: no placeholder\n"), 0o644))

	_, err := LoadSettings(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "placeholder")
}

func TestSaveRejectsInvalidSettings(t *testing.T) {
	settings := preferences.DefaultSettings()
	settings.Title = ""

	path := filepath.Join(t.TempDir(), settingsFileName)
	require.Error(t, SaveSettings(path, settings))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestEnvTransform(t *testing.T) {
	assert.Equal(t, "paused_text", envTransform("MEMO_PAUSED_TEXT"))
	assert.Equal(t, "log_level", envTransform("MEMO_LOG_LEVEL"))
}
