// Package app owns the stopwatch session lifecycle for the desktop and
// headless front ends.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"memo/internal/core/looper"
	"memo/internal/core/stopwatch"
	"memo/internal/logx"
	"memo/internal/notification"
	"memo/internal/ui/preferences"
)

// ErrClosed is returned by Dispatch after Close.
var ErrClosed = errors.New("service closed")

// Options configures a Service.
type Options struct {
	Looper   *looper.Looper
	Settings preferences.Settings
	// Surface always receives the status notification.
	Surface notification.Surface
	// Toast is added to Surface while Settings.Toasts is enabled.
	Toast notification.Surface
	Host  stopwatch.Host
	Log   logx.Logger
}

// Service hands commands to the live stopwatch session and starts a new one
// when the previous session stopped. Observers subscribe once and keep
// receiving events across sessions.
type Service struct {
	looper  *looper.Looper
	surface notification.Surface
	toast   notification.Surface
	host    stopwatch.Host
	log     logx.Logger

	mu         sync.Mutex
	settings   preferences.Settings
	controller *stopwatch.Controller
	sessions   int
	closed     bool

	subMu       sync.Mutex
	subscribers []chan stopwatch.Event
	forwarders  sync.WaitGroup
	// lastForward is closed once the newest forwarder has drained.
	lastForward chan struct{}
}

// New creates a service. No session exists until the first command.
func New(opts Options) *Service {
	return &Service{
		looper:   opts.Looper,
		surface:  opts.Surface,
		toast:    opts.Toast,
		host:     opts.Host,
		log:      opts.Log.With(logx.String("component", "app")),
		settings: opts.Settings,
	}
}

// Dispatch delivers cmd to the current session. A STOP without a live
// session is a no-op; any other command starts a new session first.
func (service *Service) Dispatch(ctx context.Context, cmd stopwatch.Command) error {
	service.mu.Lock()
	defer service.mu.Unlock()
	if service.closed {
		return ErrClosed
	}

	if service.controller == nil || service.controller.Terminated() {
		if cmd.Action == stopwatch.ActionStop {
			return nil
		}
		service.openSessionLocked()
	}

	err := service.controller.Handle(ctx, cmd)
	if err != nil && !errors.Is(err, stopwatch.ErrNotHandled) {
		service.log.Warn("command failed", logx.String("action", string(cmd.Action)), logx.Err(err))
	}
	return err
}

// Toggle pauses a running stopwatch and otherwise starts it, resuming from
// the frozen elapsed time when paused.
func (service *Service) Toggle(ctx context.Context) error {
	snapshot, err := service.Snapshot(ctx)
	if err != nil {
		return err
	}
	switch snapshot.State {
	case stopwatch.StateStart:
		return service.Dispatch(ctx, stopwatch.Pause())
	case stopwatch.StatePause:
		return service.Dispatch(ctx, stopwatch.Start(snapshot.Elapsed))
	default:
		return service.Dispatch(ctx, stopwatch.Start(0))
	}
}

// Snapshot reports the current session. Without a session the stopwatch is
// initialized at zero.
func (service *Service) Snapshot(ctx context.Context) (stopwatch.Snapshot, error) {
	service.mu.Lock()
	controller := service.controller
	service.mu.Unlock()

	if controller == nil {
		return stopwatch.Snapshot{State: stopwatch.StateInitialized}, nil
	}
	snapshot, err := controller.Snapshot(ctx)
	if err != nil {
		return stopwatch.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	return snapshot, nil
}

// Sessions returns how many sessions were started.
func (service *Service) Sessions() int {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.sessions
}

// Settings returns the settings the next session will use.
func (service *Service) Settings() preferences.Settings {
	service.mu.Lock()
	defer service.mu.Unlock()
	return service.settings
}

// UpdateSettings replaces the settings. The live session keeps its
// configuration; the next session picks up the new one.
func (service *Service) UpdateSettings(settings preferences.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	service.mu.Lock()
	defer service.mu.Unlock()
	service.settings = settings
	service.log.Info("settings updated", logx.String("title", settings.Title), logx.Bool("toasts", settings.Toasts))
	return nil
}

// Subscribe registers an observer for every session. The channel is closed
// by Close; a full channel drops events.
func (service *Service) Subscribe(buffer int) <-chan stopwatch.Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan stopwatch.Event, buffer)
	service.subMu.Lock()
	defer service.subMu.Unlock()
	service.subscribers = append(service.subscribers, ch)
	return ch
}

// Close tears down the live session and closes all subscriptions.
func (service *Service) Close() error {
	service.mu.Lock()
	if service.closed {
		service.mu.Unlock()
		return nil
	}
	service.closed = true
	controller := service.controller
	service.mu.Unlock()

	var err error
	if controller != nil {
		err = controller.Close()
	}
	service.forwarders.Wait()

	service.subMu.Lock()
	subscribers := service.subscribers
	service.subscribers = nil
	service.subMu.Unlock()
	for _, ch := range subscribers {
		close(ch)
	}
	return err
}

func (service *Service) openSessionLocked() {
	settings := service.settings
	surface := service.surface
	if settings.Toasts && service.toast != nil {
		surface = notification.Fanout(service.surface, service.toast)
	}

	presenter := notification.NewPresenter(settings.NotificationConfig(), surface, service.log)
	if err := presenter.EnsureChannel(); err != nil {
		service.log.Warn("notification channel", logx.Err(err))
	}

	controller := stopwatch.New(settings.StopwatchConfig(), service.looper, presenter, service.host, service.log)
	events := controller.Subscribe(64)
	service.controller = controller
	service.sessions++
	service.log.Debug("session opened", logx.Int("session", service.sessions))

	previous := service.lastForward
	done := make(chan struct{})
	service.lastForward = done
	service.forwarders.Add(1)
	go service.forward(previous, events, done)
}

// forward relays one session's events. It waits for the previous session's
// forwarder so observers see sessions in order.
func (service *Service) forward(previous <-chan struct{}, events <-chan stopwatch.Event, done chan<- struct{}) {
	defer service.forwarders.Done()
	defer close(done)
	if previous != nil {
		<-previous
	}
	for event := range events {
		service.subMu.Lock()
		for _, ch := range service.subscribers {
			select {
			case ch <- event:
			default:
			}
		}
		service.subMu.Unlock()
	}
}
