package preferences

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

var logLevels = []string{"trace", "debug", "info", "warn", "error"}

// Window handles the preferences UI.
type Window struct {
	window   fyne.Window
	settings Settings
	onSave   func(Settings) error

	title         *widget.Entry
	runningFormat *widget.Entry
	pausedText    *widget.Entry
	tickInterval  *widget.Entry
	toasts        *widget.Check
	logLevel      *widget.Select
}

// formValues is the raw text of the preferences form.
type formValues struct {
	Title         string
	RunningFormat string
	PausedText    string
	TickMillis    string
	Toasts        bool
	LogLevel      string
}

// New creates a preferences window. onSave receives validated settings; a
// returned error is shown and keeps the window open.
func New(app fyne.App, settings Settings, onSave func(Settings) error) *Window {
	window := app.NewWindow(settings.Title + " Settings")

	prefs := &Window{
		window:        window,
		onSave:        onSave,
		title:         widget.NewEntry(),
		runningFormat: widget.NewEntry(),
		pausedText:    widget.NewEntry(),
		tickInterval:  widget.NewEntry(),
		toasts:        widget.NewCheck("Show desktop toast when the stopwatch starts", nil),
		logLevel:      widget.NewSelect(logLevels, nil),
	}
	prefs.runningFormat.SetPlaceHolder("time running: %s")
	prefs.UpdateSettings(settings)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Notification", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Title", prefs.title),
			widget.NewFormItem("Running text", prefs.runningFormat),
			widget.NewFormItem("Paused text", prefs.pausedText),
		),
		prefs.toasts,
		widget.NewLabelWithStyle("Advanced", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("Tick interval (ms)", prefs.tickInterval),
			widget.NewFormItem("Log level", prefs.logLevel),
		),
	)

	saveButton := widget.NewButton("Save", prefs.handleSave)
	cancelButton := widget.NewButton("Cancel", func() {
		prefs.UpdateSettings(prefs.settings)
		window.Hide()
	})
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	window.SetContent(container.NewBorder(nil, buttons, nil, nil, form))
	window.SetCloseIntercept(window.Hide)
	window.Resize(fyne.NewSize(440, 360))
	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.title.SetText(settings.Title)
	prefs.runningFormat.SetText(settings.RunningFormat)
	prefs.pausedText.SetText(settings.PausedText)
	prefs.tickInterval.SetText(strconv.Itoa(int(settings.TickInterval / time.Millisecond)))
	prefs.toasts.SetChecked(settings.Toasts)
	prefs.logLevel.SetSelected(settings.Log.Level)
}

func (prefs *Window) handleSave() {
	settings, err := formValues{
		Title:         prefs.title.Text,
		RunningFormat: prefs.runningFormat.Text,
		PausedText:    prefs.pausedText.Text,
		TickMillis:    prefs.tickInterval.Text,
		Toasts:        prefs.toasts.Checked,
		LogLevel:      prefs.logLevel.Selected,
	}.apply(prefs.settings)
	if err == nil && prefs.onSave != nil {
		err = prefs.onSave(settings)
	}
	if err != nil {
		dialog.ShowError(err, prefs.window)
		return
	}

	prefs.settings = settings
	prefs.window.Hide()
}

// apply merges the form into base and validates the result.
func (values formValues) apply(base Settings) (Settings, error) {
	settings := base
	settings.Title = strings.TrimSpace(values.Title)
	settings.RunningFormat = values.RunningFormat
	settings.PausedText = strings.TrimSpace(values.PausedText)
	settings.Toasts = values.Toasts
	if values.LogLevel != "" {
		settings.Log.Level = values.LogLevel
	}

	if text := strings.TrimSpace(values.TickMillis); text != "" {
		millis, err := strconv.Atoi(text)
		if err != nil {
			return base, fmt.Errorf("tick interval %q is not a number", text)
		}
		settings.TickInterval = time.Duration(millis) * time.Millisecond
	}

	if err := settings.Validate(); err != nil {
		return base, err
	}
	return settings, nil
}
