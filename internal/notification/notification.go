// Package notification owns the single persistent status notification.
//
// A Presenter builds the notification from fixed configuration and
// re-publishes it under the same ID whenever its text changes. Publishing is
// delegated to a Surface: the system tray, a desktop toast, or the console.
package notification

// DefaultID identifies the one live notification of the process.
const DefaultID = 99

// Importance of a notification channel.
type Importance int

const (
	ImportanceLow Importance = iota
	ImportanceDefault
	ImportanceHigh
)

// Priority of a single notification.
type Priority int

const (
	PriorityDefault Priority = iota
	PriorityHigh
)

// Channel groups notifications on platforms that require one.
type Channel struct {
	ID          string
	Name        string
	Description string
	Importance  Importance
	Silent      bool
}

// Action is run when the notification is tapped.
type Action struct {
	// Target names the screen the action opens.
	Target string
	// ReplaceCurrent replaces any prior action with the same target.
	ReplaceCurrent bool
}

// Notification is the content published to a Surface.
type Notification struct {
	ID            int
	ChannelID     string
	Title         string
	Text          string
	Icon          string
	Silent        bool
	Priority      Priority
	AutoCancel    bool
	ContentAction Action
}

// Surface publishes notifications. Notify with an ID that is already shown
// must update it in place.
type Surface interface {
	Notify(n Notification) error
	Cancel(id int) error
}

// ChannelCreator is implemented by surfaces that need an explicit channel
// before anything is published.
type ChannelCreator interface {
	CreateChannel(channel Channel) error
}
