package tray

import (
	"sync"
	"testing"

	"memo/internal/core/stopwatch"
	"memo/internal/notification"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeApp struct {
	mu    sync.Mutex
	menus []*fyne.Menu
	icons []fyne.Resource
}

func (app *fakeApp) SetSystemTrayMenu(menu *fyne.Menu) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.menus = append(app.menus, menu)
}

func (app *fakeApp) SetSystemTrayIcon(icon fyne.Resource) {
	app.mu.Lock()
	defer app.mu.Unlock()
	app.icons = append(app.icons, icon)
}

func (app *fakeApp) lastMenu() *fyne.Menu {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.menus[len(app.menus)-1]
}

func (app *fakeApp) lastIcon() fyne.Resource {
	app.mu.Lock()
	defer app.mu.Unlock()
	return app.icons[len(app.icons)-1]
}

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	t.Fatalf("menu item %q not found", label)
	return nil
}

var (
	activeIcon = fyne.NewStaticResource("active.svg", []byte("<svg/>"))
	idleIcon   = fyne.NewStaticResource("idle.svg", []byte("<svg/>"))
)

func newTestManager(callbacks Callbacks) (*Manager, *fakeApp) {
	app := &fakeApp{}
	manager := newManager(app, "Memo", Icons{Active: activeIcon, Idle: idleIcon}, callbacks, func(f func()) { f() })
	return manager, app
}

func TestNewShowsIdleMenu(t *testing.T) {
	t.Parallel()
	manager, app := newTestManager(Callbacks{})

	assert.Equal(t, "Memo: stopped", manager.Status())
	assert.Equal(t, "Start", manager.ToggleLabel())
	assert.Equal(t, idleIcon, app.lastIcon())

	menu := app.lastMenu()
	assert.True(t, findItem(t, menu, "Memo: stopped").Disabled)
	assert.True(t, findItem(t, menu, "Stop").Disabled)
}

func TestNotifyReplacesStatus(t *testing.T) {
	t.Parallel()
	manager, app := newTestManager(Callbacks{})

	require.NoError(t, manager.Notify(notification.Notification{ID: 99, Title: "Memo", Text: "time running: 00:01"}))
	require.NoError(t, manager.Notify(notification.Notification{ID: 99, Title: "Memo", Text: "time running: 00:02"}))

	assert.Equal(t, "Memo: time running: 00:02", manager.Status())
	findItem(t, app.lastMenu(), "Memo: time running: 00:02")
}

func TestCancelIgnoresOtherIDs(t *testing.T) {
	t.Parallel()
	manager, _ := newTestManager(Callbacks{})

	require.NoError(t, manager.Notify(notification.Notification{ID: 99, Title: "Memo", Text: "come back"}))
	require.NoError(t, manager.Cancel(7))
	assert.Equal(t, "Memo: come back", manager.Status())

	require.NoError(t, manager.Cancel(99))
	assert.Equal(t, "Memo: stopped", manager.Status())
}

func TestSetStateLabels(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		state       stopwatch.State
		wantToggle  string
		wantIcon    fyne.Resource
		wantStopOff bool
	}{
		"initialized": {state: stopwatch.StateInitialized, wantToggle: "Start", wantIcon: idleIcon, wantStopOff: true},
		"running":     {state: stopwatch.StateStart, wantToggle: "Pause", wantIcon: activeIcon},
		"paused":      {state: stopwatch.StatePause, wantToggle: "Resume", wantIcon: idleIcon},
		"stopped":     {state: stopwatch.StateStop, wantToggle: "Start", wantIcon: idleIcon, wantStopOff: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			manager, app := newTestManager(Callbacks{})
			manager.SetState(tt.state)

			assert.Equal(t, tt.wantToggle, manager.ToggleLabel())
			assert.Equal(t, tt.wantIcon, app.lastIcon())
			assert.Equal(t, tt.wantStopOff, findItem(t, app.lastMenu(), "Stop").Disabled)
		})
	}
}

func TestForegroundSwapsIcon(t *testing.T) {
	t.Parallel()
	manager, app := newTestManager(Callbacks{})

	require.NoError(t, manager.StartForeground(notification.Notification{ID: 99}))
	assert.Equal(t, activeIcon, app.lastIcon())

	require.NoError(t, manager.StopForeground())
	assert.Equal(t, idleIcon, app.lastIcon())
}

func TestOpenDismissesAutoCancel(t *testing.T) {
	t.Parallel()
	opened := 0
	manager, app := newTestManager(Callbacks{OnOpen: func() { opened++ }})

	require.NoError(t, manager.Notify(notification.Notification{ID: 99, Title: "Memo", Text: "come back", AutoCancel: true}))
	findItem(t, app.lastMenu(), "Open").Action()

	assert.Equal(t, 1, opened)
	assert.Equal(t, "Memo: stopped", manager.Status())
}

func TestOpenKeepsOngoingNotification(t *testing.T) {
	t.Parallel()
	manager, app := newTestManager(Callbacks{})

	require.NoError(t, manager.Notify(notification.Notification{ID: 99, Title: "Memo", Text: "time running: 00:03"}))
	findItem(t, app.lastMenu(), "Open").Action()

	assert.Equal(t, "Memo: time running: 00:03", manager.Status())
}

func TestMenuCallbacks(t *testing.T) {
	t.Parallel()
	var calls []string
	manager, app := newTestManager(Callbacks{
		OnToggle:      func() { calls = append(calls, "toggle") },
		OnStop:        func() { calls = append(calls, "stop") },
		OnPreferences: func() { calls = append(calls, "preferences") },
		OnQuit:        func() { calls = append(calls, "quit") },
	})
	manager.SetState(stopwatch.StateStart)

	menu := app.lastMenu()
	findItem(t, menu, "Pause").Action()
	findItem(t, menu, "Stop").Action()
	findItem(t, menu, "Preferences").Action()
	findItem(t, menu, "Quit").Action()

	assert.Equal(t, []string{"toggle", "stop", "preferences", "quit"}, calls)
}
