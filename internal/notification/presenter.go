package notification

import (
	"fmt"
	"sync"

	"memo/internal/core/model"
	"memo/internal/logx"
)

// Presenter keeps one notification up to date on a Surface.
type Presenter struct {
	mu           sync.Mutex
	config       model.NotificationConfig
	surface      Surface
	log          logx.Logger
	current      Notification
	channelReady bool
}

// NewPresenter creates a presenter. Zero config fields fall back to the
// defaults in model.DefaultNotificationConfig.
func NewPresenter(config model.NotificationConfig, surface Surface, log logx.Logger) *Presenter {
	config = config.WithDefaults()
	return &Presenter{
		config:  config,
		surface: surface,
		log:     log,
		current: Notification{
			ID:         config.ID,
			ChannelID:  config.Channel.ID,
			Title:      config.Title,
			Icon:       config.Icon,
			Silent:     true,
			Priority:   PriorityHigh,
			AutoCancel: true,
			ContentAction: Action{
				Target:         config.ContentTarget,
				ReplaceCurrent: true,
			},
		},
	}
}

// ID returns the fixed notification identifier.
func (presenter *Presenter) ID() int {
	return presenter.config.ID
}

// EnsureChannel creates the notification channel once. Surfaces without
// channels make this a no-op.
func (presenter *Presenter) EnsureChannel() error {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	return presenter.ensureChannelLocked()
}

// Build returns the current notification, creating the channel first.
func (presenter *Presenter) Build() (Notification, error) {
	presenter.mu.Lock()
	defer presenter.mu.Unlock()
	if err := presenter.ensureChannelLocked(); err != nil {
		return presenter.current, err
	}
	return presenter.current, nil
}

// UpdateText replaces the body when text is not empty and re-publishes the
// notification under its fixed ID.
func (presenter *Presenter) UpdateText(text string) error {
	presenter.mu.Lock()
	if text != "" {
		presenter.current.Text = text
	}
	current := presenter.current
	if err := presenter.ensureChannelLocked(); err != nil {
		presenter.mu.Unlock()
		return err
	}
	presenter.mu.Unlock()

	if err := presenter.surface.Notify(current); err != nil {
		presenter.log.Warn("notification publish failed", logx.Int("id", current.ID), logx.Err(err))
		return fmt.Errorf("publish notification %d: %w", current.ID, err)
	}
	return nil
}

// Remove takes the notification off the surface.
func (presenter *Presenter) Remove() error {
	if err := presenter.surface.Cancel(presenter.config.ID); err != nil {
		presenter.log.Warn("notification cancel failed", logx.Int("id", presenter.config.ID), logx.Err(err))
		return fmt.Errorf("cancel notification %d: %w", presenter.config.ID, err)
	}
	return nil
}

func (presenter *Presenter) ensureChannelLocked() error {
	if presenter.channelReady {
		return nil
	}
	creator, ok := presenter.surface.(ChannelCreator)
	if !ok {
		presenter.channelReady = true
		return nil
	}
	channel := Channel{
		ID:          presenter.config.Channel.ID,
		Name:        presenter.config.Channel.Name,
		Description: presenter.config.Channel.Description,
		Importance:  ImportanceDefault,
		Silent:      true,
	}
	if err := creator.CreateChannel(channel); err != nil {
		return fmt.Errorf("create notification channel %q: %w", channel.ID, err)
	}
	presenter.channelReady = true
	presenter.log.Debug("notification channel created", logx.String("channel", channel.ID))
	return nil
}
