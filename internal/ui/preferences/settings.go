package preferences

import (
	"fmt"
	"strings"
	"time"

	"memo/internal/core/model"
	"memo/internal/logx"

	"github.com/go-playground/validator/v10"
)

// Settings defines editable user preferences.
type Settings struct {
	Title         string        `validate:"required,max=64"`
	RunningFormat string        `validate:"required"`
	PausedText    string        `validate:"required"`
	TickInterval  time.Duration `validate:"min=100ms,max=1m"`

	NotificationID int    `validate:"min=1"`
	ChannelID      string `validate:"required"`
	ChannelName    string `validate:"required"`
	Toasts         bool

	Log logx.Config
}

// DefaultSettings returns default settings for Memo.
func DefaultSettings() Settings {
	stopwatch := model.DefaultStopwatchConfig()
	notification := model.DefaultNotificationConfig()
	return Settings{
		Title:          notification.Title,
		RunningFormat:  stopwatch.RunningFormat,
		PausedText:     stopwatch.PausedText,
		TickInterval:   stopwatch.TickInterval,
		NotificationID: notification.ID,
		ChannelID:      notification.Channel.ID,
		ChannelName:    notification.Channel.Name,
		Toasts:         true,
		Log:            logx.Config{Level: "info", Console: true},
	}
}

// Validate checks field ranges and the running format verb.
func (settings Settings) Validate() error {
	if err := validator.New().Struct(settings); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}
	if strings.Count(settings.RunningFormat, "%s") != 1 || strings.Count(settings.RunningFormat, "%") != 1 {
		return fmt.Errorf("settings validation failed: running format must contain exactly one %%s placeholder")
	}
	return nil
}

// StopwatchConfig converts settings to the controller configuration.
func (settings Settings) StopwatchConfig() model.StopwatchConfig {
	return model.StopwatchConfig{
		TickInterval:  settings.TickInterval,
		RunningFormat: settings.RunningFormat,
		PausedText:    settings.PausedText,
	}
}

// NotificationConfig converts settings to the presenter configuration.
func (settings Settings) NotificationConfig() model.NotificationConfig {
	config := model.DefaultNotificationConfig()
	config.ID = settings.NotificationID
	config.Title = settings.Title
	config.Channel.ID = settings.ChannelID
	config.Channel.Name = settings.ChannelName
	return config
}
