package model

import "time"

// StopwatchConfig contains runtime settings for the stopwatch controller.
type StopwatchConfig struct {
	TickInterval time.Duration
	// RunningFormat receives the MM:SS clock through a single %s verb.
	RunningFormat string
	PausedText    string
}

// ChannelConfig names the notification channel.
type ChannelConfig struct {
	ID          string
	Name        string
	Description string
}

// NotificationConfig describes the persistent status notification.
type NotificationConfig struct {
	ID            int
	Title         string
	Icon          string
	ContentTarget string
	Channel       ChannelConfig
}

// DefaultStopwatchConfig returns the stopwatch defaults.
func DefaultStopwatchConfig() StopwatchConfig {
	return StopwatchConfig{
		TickInterval:  time.Second,
		RunningFormat: "time running: %s",
		PausedText:    "come back",
	}
}

// DefaultNotificationConfig returns the notification defaults.
func DefaultNotificationConfig() NotificationConfig {
	return NotificationConfig{
		ID:            99,
		Title:         "Memo",
		Icon:          "memo.svg",
		ContentTarget: "main",
		Channel: ChannelConfig{
			ID:          "memo-timer",
			Name:        "Timer",
			Description: "Shows the running timer",
		},
	}
}

// WithDefaults fills zero fields from DefaultStopwatchConfig.
func (config StopwatchConfig) WithDefaults() StopwatchConfig {
	defaults := DefaultStopwatchConfig()
	if config.TickInterval <= 0 {
		config.TickInterval = defaults.TickInterval
	}
	if config.RunningFormat == "" {
		config.RunningFormat = defaults.RunningFormat
	}
	if config.PausedText == "" {
		config.PausedText = defaults.PausedText
	}
	return config
}

// WithDefaults fills zero fields from DefaultNotificationConfig.
func (config NotificationConfig) WithDefaults() NotificationConfig {
	defaults := DefaultNotificationConfig()
	if config.ID == 0 {
		config.ID = defaults.ID
	}
	if config.Title == "" {
		config.Title = defaults.Title
	}
	if config.Icon == "" {
		config.Icon = defaults.Icon
	}
	if config.ContentTarget == "" {
		config.ContentTarget = defaults.ContentTarget
	}
	if config.Channel.ID == "" {
		config.Channel.ID = defaults.Channel.ID
	}
	if config.Channel.Name == "" {
		config.Channel.Name = defaults.Channel.Name
	}
	if config.Channel.Description == "" {
		config.Channel.Description = defaults.Channel.Description
	}
	return config
}
