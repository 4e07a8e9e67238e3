package tray

import (
	"fmt"
	"sync"

	"memo/internal/core/stopwatch"
	"memo/internal/notification"

	"fyne.io/fyne/v2"
)

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnOpen        func()
	OnToggle      func()
	OnStop        func()
	OnPreferences func()
	OnQuit        func()
}

// App is the part of desktop.App the tray needs.
type App interface {
	SetSystemTrayMenu(menu *fyne.Menu)
	SetSystemTrayIcon(icon fyne.Resource)
}

// Icons used for the tray states.
type Icons struct {
	Active fyne.Resource
	Idle   fyne.Resource
}

// Manager renders the status notification in the system tray menu and
// tracks the foreground state of the stopwatch.
type Manager struct {
	app       App
	title     string
	icons     Icons
	callbacks Callbacks
	do        func(func())

	mu           sync.Mutex
	statusLabel  string
	toggleLabel  string
	stopDisabled bool
	shownID      int
	text         string
	autoCancel   bool
	state        stopwatch.State
}

// New creates a tray manager with the provided callbacks. Menu updates are
// marshalled onto the UI goroutine with fyne.Do.
func New(app App, title string, icons Icons, callbacks Callbacks) *Manager {
	return newManager(app, title, icons, callbacks, fyne.Do)
}

func newManager(app App, title string, icons Icons, callbacks Callbacks, do func(func())) *Manager {
	manager := &Manager{
		app:       app,
		title:     title,
		icons:     icons,
		callbacks: callbacks,
		do:        do,
		state:     stopwatch.StateInitialized,
	}

	manager.mu.Lock()
	manager.applyLocked()
	manager.mu.Unlock()
	manager.refresh(icons.Idle)
	return manager
}

// Notify shows n in the tray status item, replacing whatever was shown.
func (manager *Manager) Notify(n notification.Notification) error {
	manager.mu.Lock()
	manager.shownID = n.ID
	manager.text = n.Text
	manager.autoCancel = n.AutoCancel
	if n.Title != "" {
		manager.title = n.Title
	}
	manager.applyLocked()
	manager.mu.Unlock()
	manager.refresh(nil)
	return nil
}

// Cancel clears the status item if id is the one shown.
func (manager *Manager) Cancel(id int) error {
	manager.mu.Lock()
	if manager.shownID != id {
		manager.mu.Unlock()
		return nil
	}
	manager.shownID = 0
	manager.text = ""
	manager.applyLocked()
	manager.mu.Unlock()
	manager.refresh(nil)
	return nil
}

// StartForeground marks the stopwatch as running in the tray.
func (manager *Manager) StartForeground(n notification.Notification) error {
	manager.mu.Lock()
	manager.shownID = n.ID
	manager.applyLocked()
	manager.mu.Unlock()
	manager.refresh(manager.icons.Active)
	return nil
}

// StopForeground returns the tray to its idle look.
func (manager *Manager) StopForeground() error {
	manager.refresh(manager.icons.Idle)
	return nil
}

// StopSelf is a no-op: the tray outlives a stopwatch session.
func (manager *Manager) StopSelf() {}

// SetState updates the toggle label and icon for the stopwatch state.
func (manager *Manager) SetState(state stopwatch.State) {
	manager.mu.Lock()
	manager.state = state
	manager.applyLocked()
	manager.mu.Unlock()

	switch state {
	case stopwatch.StateStart:
		manager.refresh(manager.icons.Active)
	default:
		manager.refresh(manager.icons.Idle)
	}
}

// Status returns the current status label.
func (manager *Manager) Status() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.statusLabel
}

// ToggleLabel returns the label of the start/pause item.
func (manager *Manager) ToggleLabel() string {
	manager.mu.Lock()
	defer manager.mu.Unlock()
	return manager.toggleLabel
}

func (manager *Manager) open() {
	manager.mu.Lock()
	dismiss := manager.autoCancel && manager.shownID != 0
	id := manager.shownID
	manager.mu.Unlock()

	if manager.callbacks.OnOpen != nil {
		manager.callbacks.OnOpen()
	}
	if dismiss {
		_ = manager.Cancel(id)
	}
}

func (manager *Manager) applyLocked() {
	status := manager.text
	if status == "" {
		status = "stopped"
	}
	manager.statusLabel = fmt.Sprintf("%s: %s", manager.title, status)

	switch manager.state {
	case stopwatch.StateStart:
		manager.toggleLabel = "Pause"
	case stopwatch.StatePause:
		manager.toggleLabel = "Resume"
	default:
		manager.toggleLabel = "Start"
	}
	manager.stopDisabled = manager.state != stopwatch.StateStart && manager.state != stopwatch.StatePause
}

func (manager *Manager) refresh(icon fyne.Resource) {
	if manager.app == nil {
		return
	}
	manager.mu.Lock()
	statusItem := fyne.NewMenuItem(manager.statusLabel, nil)
	statusItem.Disabled = true
	stopItem := fyne.NewMenuItem("Stop", func() {
		if manager.callbacks.OnStop != nil {
			manager.callbacks.OnStop()
		}
	})
	stopItem.Disabled = manager.stopDisabled
	menu := fyne.NewMenu(manager.title,
		statusItem,
		fyne.NewMenuItem("Open", manager.open),
		fyne.NewMenuItem(manager.toggleLabel, func() {
			if manager.callbacks.OnToggle != nil {
				manager.callbacks.OnToggle()
			}
		}),
		stopItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Preferences", func() {
			if manager.callbacks.OnPreferences != nil {
				manager.callbacks.OnPreferences()
			}
		}),
		fyne.NewMenuItem("Quit", func() {
			if manager.callbacks.OnQuit != nil {
				manager.callbacks.OnQuit()
			}
		}),
	)
	manager.mu.Unlock()

	manager.do(func() {
		manager.app.SetSystemTrayMenu(menu)
		if icon != nil {
			manager.app.SetSystemTrayIcon(icon)
		}
	})
}
