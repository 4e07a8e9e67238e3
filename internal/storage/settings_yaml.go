package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"memo/internal/platform"
	"memo/internal/ui/preferences"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"gopkg.in/yaml.v3"
)

const (
	settingsFileName = "settings.yaml"
	envPrefix        = "MEMO_"
)

type yamlSettings struct {
	Title              string `yaml:"title,omitempty" koanf:"title"`
	RunningFormat      string `yaml:"running_format,omitempty" koanf:"running_format"`
	PausedText         string `yaml:"paused_text,omitempty" koanf:"paused_text"`
	TickIntervalMillis int    `yaml:"tick_interval_ms,omitempty" koanf:"tick_interval_ms"`
	NotificationID     int    `yaml:"notification_id,omitempty" koanf:"notification_id"`
	ChannelID          string `yaml:"channel_id,omitempty" koanf:"channel_id"`
	ChannelName        string `yaml:"channel_name,omitempty" koanf:"channel_name"`
	Toasts             *bool  `yaml:"toasts,omitempty" koanf:"toasts"`
	LogLevel           string `yaml:"log_level,omitempty" koanf:"log_level"`
	LogFile            string `yaml:"log_file,omitempty" koanf:"log_file"`
	LogConsole         *bool  `yaml:"log_console,omitempty" koanf:"log_console"`
}

// DefaultPath returns the settings file location under the user config dir.
func DefaultPath(appName string) (string, error) {
	configDir, err := platform.NewService().GetConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(configDir, strings.ToLower(appName), settingsFileName), nil
}

// LoadSettings reads user preferences from the YAML file at path and applies
// MEMO_* environment overrides on top. A missing file yields the defaults.
func LoadSettings(path string) (preferences.Settings, error) {
	settings := preferences.DefaultSettings()

	rawData, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return settings, fmt.Errorf("read settings file: %w", err)
	default:
		var fileData yamlSettings
		if err := yaml.Unmarshal(rawData, &fileData); err != nil {
			return preferences.DefaultSettings(), fmt.Errorf("parse settings yaml: %w", err)
		}
		applyYamlSettings(&settings, fileData)
	}

	overrides, err := loadEnvOverrides()
	if err != nil {
		return settings, err
	}
	applyYamlSettings(&settings, overrides)

	if err := settings.Validate(); err != nil {
		return preferences.DefaultSettings(), err
	}
	return settings, nil
}

// SaveSettings writes user preferences to YAML.
func SaveSettings(path string, settings preferences.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	toasts := settings.Toasts
	console := settings.Log.Console
	fileData := yamlSettings{
		Title:              settings.Title,
		RunningFormat:      settings.RunningFormat,
		PausedText:         settings.PausedText,
		TickIntervalMillis: int(settings.TickInterval / time.Millisecond),
		NotificationID:     settings.NotificationID,
		ChannelID:          settings.ChannelID,
		ChannelName:        settings.ChannelName,
		Toasts:             &toasts,
		LogLevel:           settings.Log.Level,
		LogFile:            settings.Log.File,
		LogConsole:         &console,
	}

	serialized, err := yaml.Marshal(fileData)
	if err != nil {
		return fmt.Errorf("marshal settings yaml: %w", err)
	}
	if err := os.WriteFile(path, serialized, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

func loadEnvOverrides() (yamlSettings, error) {
	var overrides yamlSettings
	k := koanf.New(".")
	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return overrides, fmt.Errorf("load environment overrides: %w", err)
	}
	if err := k.Unmarshal("", &overrides); err != nil {
		return overrides, fmt.Errorf("decode environment overrides: %w", err)
	}
	return overrides, nil
}

// envTransform maps MEMO_PAUSED_TEXT to paused_text.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func applyYamlSettings(settings *preferences.Settings, fileData yamlSettings) {
	if fileData.Title != "" {
		settings.Title = fileData.Title
	}
	if fileData.RunningFormat != "" {
		settings.RunningFormat = fileData.RunningFormat
	}
	if fileData.PausedText != "" {
		settings.PausedText = fileData.PausedText
	}
	if fileData.TickIntervalMillis > 0 {
		settings.TickInterval = time.Duration(fileData.TickIntervalMillis) * time.Millisecond
	}
	if fileData.NotificationID > 0 {
		settings.NotificationID = fileData.NotificationID
	}
	if fileData.ChannelID != "" {
		settings.ChannelID = fileData.ChannelID
	}
	if fileData.ChannelName != "" {
		settings.ChannelName = fileData.ChannelName
	}
	if fileData.Toasts != nil {
		settings.Toasts = *fileData.Toasts
	}
	if fileData.LogLevel != "" {
		settings.Log.Level = fileData.LogLevel
	}
	if fileData.LogFile != "" {
		settings.Log.File = fileData.LogFile
	}
	if fileData.LogConsole != nil {
		settings.Log.Console = *fileData.LogConsole
	}
}
