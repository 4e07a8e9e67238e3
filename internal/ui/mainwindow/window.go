// Package mainwindow shows the elapsed time and the stopwatch controls.
package mainwindow

import (
	"context"
	"sync"

	"memo/internal/core/stopwatch"
	"memo/internal/logx"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Dispatcher delivers commands to the stopwatch.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd stopwatch.Command) error
}

// Window is the main stopwatch window. It only learns the elapsed time from
// broadcast events and resumes by sending START with the time it last saw.
type Window struct {
	window     fyne.Window
	dispatcher Dispatcher
	log        logx.Logger
	do         func(func())

	elapsed *widget.Label
	status  *widget.Label
	toggle  *widget.Button
	stop    *widget.Button

	mu   sync.Mutex
	view view
}

// New builds the main window. It is created hidden.
func New(app fyne.App, title string, dispatcher Dispatcher, log logx.Logger) *Window {
	window := app.NewWindow(title)

	win := &Window{
		window:     window,
		dispatcher: dispatcher,
		log:        log.With(logx.String("component", "mainwindow")),
		do:         fyne.Do,
		elapsed:    widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true, Monospace: true}),
		status:     widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		view:       view{state: stopwatch.StateInitialized},
	}
	win.toggle = widget.NewButton("", win.handleToggle)
	win.stop = widget.NewButton("Stop", win.handleStop)
	win.render(win.view)

	buttons := container.NewHBox(layout.NewSpacer(), win.toggle, win.stop, layout.NewSpacer())
	window.SetContent(container.NewVBox(win.elapsed, win.status, buttons))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(280, 160))
	return win
}

// Show brings the window to the front.
func (win *Window) Show() {
	win.window.Show()
	win.window.RequestFocus()
}

// Watch applies events to the window until the channel is closed.
func (win *Window) Watch(events <-chan stopwatch.Event) {
	go func() {
		for event := range events {
			win.mu.Lock()
			win.view = win.view.apply(event)
			current := win.view
			win.mu.Unlock()

			win.do(func() { win.render(current) })
		}
	}()
}

func (win *Window) render(current view) {
	win.elapsed.SetText(current.elapsedText())
	win.status.SetText(current.statusText())
	win.toggle.SetText(current.toggleLabel())
	if current.stopEnabled() {
		win.stop.Enable()
	} else {
		win.stop.Disable()
	}
}

func (win *Window) handleToggle() {
	win.mu.Lock()
	cmd := win.view.toggleCommand()
	win.mu.Unlock()
	win.send(cmd)
}

func (win *Window) handleStop() {
	win.send(stopwatch.Stop())
}

// send keeps the UI goroutine free while the looper runs the command.
func (win *Window) send(cmd stopwatch.Command) {
	go func() {
		if err := win.dispatcher.Dispatch(context.Background(), cmd); err != nil {
			win.log.Warn("dispatch from window", logx.String("action", string(cmd.Action)), logx.Err(err))
		}
	}()
}
