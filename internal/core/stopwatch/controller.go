package stopwatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"memo/internal/core/looper"
	"memo/internal/core/model"
	"memo/internal/logx"
	"memo/internal/notification"
)

var (
	// ErrNotHandled is returned for commands the controller does not know.
	// The command is ignored.
	ErrNotHandled = errors.New("command not handled")
	// ErrTerminated is returned for commands sent after the controller
	// was torn down.
	ErrTerminated = errors.New("stopwatch terminated")
)

// Presenter keeps the status notification in sync with the stopwatch.
type Presenter interface {
	Build() (notification.Notification, error)
	UpdateText(text string) error
	Remove() error
}

// Host runs the controller as a foreground task.
type Host interface {
	StartForeground(n notification.Notification) error
	StopForeground() error
	// StopSelf tells the host the controller finished on its own.
	StopSelf()
}

// Controller is the stopwatch state machine. Every command and tick runs on
// the looper, so controller state is only touched from one goroutine.
type Controller struct {
	config    model.StopwatchConfig
	looper    *looper.Looper
	presenter Presenter
	host      Host
	log       logx.Logger

	// Owned by the looper goroutine.
	state           State
	currentTick     int
	startedAt       int
	elapsed         int
	tickToken       looper.Token
	ticking         bool
	unhandledLogged bool
	terminated      bool

	ctx    context.Context
	cancel context.CancelFunc

	done atomic.Bool

	mu     sync.Mutex
	events []chan Event
	closed bool
}

// New creates a controller in the initialized state. Nothing is scheduled
// until the first START.
func New(config model.StopwatchConfig, lp *looper.Looper, presenter Presenter, host Host, log logx.Logger) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		config:    config.WithDefaults(),
		looper:    lp,
		presenter: presenter,
		host:      host,
		log:       log.With(logx.String("component", "stopwatch")),
		state:     StateInitialized,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Handle runs cmd on the looper and waits for the transition to complete.
func (controller *Controller) Handle(ctx context.Context, cmd Command) error {
	var result error
	if err := controller.looper.Call(ctx, func() {
		result = controller.handle(cmd)
	}); err != nil {
		return fmt.Errorf("handle %s: %w", cmd.Action, err)
	}
	return result
}

// Snapshot returns the state and elapsed seconds.
func (controller *Controller) Snapshot(ctx context.Context) (Snapshot, error) {
	var snapshot Snapshot
	err := controller.looper.Call(ctx, func() {
		snapshot = Snapshot{State: controller.state, Elapsed: controller.elapsed}
	})
	return snapshot, err
}

// Terminated reports whether the controller was torn down.
func (controller *Controller) Terminated() bool {
	return controller.done.Load()
}

// Subscribe registers a new observer channel. The channel is closed on
// teardown; a full channel drops events.
func (controller *Controller) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	controller.mu.Lock()
	defer controller.mu.Unlock()
	if controller.closed {
		close(ch)
		return ch
	}
	controller.events = append(controller.events, ch)
	return ch
}

// Close tears the controller down without a STOP command, as when the host
// destroys it. It is safe to call more than once.
func (controller *Controller) Close() error {
	err := controller.looper.Call(context.Background(), controller.teardown)
	if errors.Is(err, looper.ErrQuit) {
		// Nothing else can run controller code once the looper is gone.
		controller.teardown()
		return nil
	}
	return err
}

func (controller *Controller) handle(cmd Command) error {
	if controller.terminated {
		if cmd.Action == ActionStop {
			return nil
		}
		return ErrTerminated
	}

	switch cmd.Action {
	case ActionStart:
		controller.start(cmd.ResumeOffset)
	case ActionPause:
		controller.pause()
	case ActionStop:
		controller.stop()
	default:
		if !controller.unhandledLogged {
			controller.unhandledLogged = true
			controller.log.Warn("command ignored", logx.String("action", string(cmd.Action)))
		}
		return fmt.Errorf("%w: %q", ErrNotHandled, cmd.Action)
	}
	return nil
}

func (controller *Controller) start(offset int) {
	if offset < 0 {
		offset = 0
	}
	controller.state = StateStart
	controller.removeTick()
	controller.currentTick = 0
	controller.startedAt = controller.currentTick - offset
	controller.elapsed = offset

	current, err := controller.presenter.Build()
	if err != nil {
		controller.log.Warn("build notification", logx.Err(err))
	}
	if err := controller.host.StartForeground(current); err != nil {
		controller.log.Warn("start foreground", logx.Err(err))
	}

	controller.log.Info("stopwatch started", logx.Int("offset", offset))
	controller.emitStateChange()
	controller.broadcast()
	controller.scheduleFirstTick()
}

func (controller *Controller) pause() {
	controller.state = StatePause
	controller.removeTick()
	controller.log.Info("stopwatch paused", logx.Int("elapsed", controller.elapsed))
	controller.emitStateChange()
	controller.broadcast()
}

func (controller *Controller) stop() {
	controller.state = StateStop
	controller.removeTick()
	controller.cancel()
	controller.log.Info("stopwatch stopped", logx.Int("elapsed", controller.elapsed))
	controller.emitStateChange()
	controller.broadcast()
	controller.teardown()
	controller.host.StopSelf()
}

// scheduleFirstTick hands the first tick registration to the looper. The
// registration is dropped if the controller was paused, stopped or already
// ticking by the time it runs.
func (controller *Controller) scheduleFirstTick() {
	ctx := controller.ctx
	controller.looper.Post(func() {
		if ctx.Err() != nil || controller.state != StateStart || controller.ticking {
			return
		}
		controller.armTick()
	})
}

func (controller *Controller) armTick() {
	token, err := controller.looper.PostDelayed(controller.config.TickInterval, controller.tick)
	if err != nil {
		controller.log.Warn("schedule tick", logx.Err(err))
		return
	}
	controller.tickToken = token
	controller.ticking = true
}

func (controller *Controller) removeTick() {
	if !controller.ticking {
		return
	}
	controller.looper.Remove(controller.tickToken)
	controller.ticking = false
}

func (controller *Controller) tick() {
	controller.ticking = false
	if controller.state != StateStart {
		return
	}
	controller.currentTick++
	controller.elapsed = controller.currentTick - controller.startedAt
	if controller.elapsed < 0 {
		controller.elapsed = 0
	}
	controller.armTick()
	controller.broadcast()
}

func (controller *Controller) broadcast() {
	switch controller.state {
	case StateStart:
		controller.emit(Event{
			Type:    EventElapsed,
			State:   StateStart,
			Elapsed: controller.elapsed,
			At:      time.Now(),
		})
		controller.updateText(fmt.Sprintf(controller.config.RunningFormat, FormatClock(controller.elapsed)))
	case StatePause:
		controller.updateText(controller.config.PausedText)
	}
}

func (controller *Controller) updateText(text string) {
	if err := controller.presenter.UpdateText(text); err != nil {
		controller.log.Warn("update notification", logx.Err(err))
	}
}

func (controller *Controller) teardown() {
	if controller.terminated {
		return
	}
	controller.terminated = true
	controller.removeTick()
	controller.cancel()

	if err := controller.presenter.Remove(); err != nil {
		controller.log.Warn("remove notification", logx.Err(err))
	}
	if err := controller.host.StopForeground(); err != nil {
		controller.log.Warn("stop foreground", logx.Err(err))
	}
	controller.done.Store(true)

	controller.mu.Lock()
	events := controller.events
	controller.events = nil
	controller.closed = true
	controller.mu.Unlock()
	for _, ch := range events {
		close(ch)
	}
}

func (controller *Controller) emitStateChange() {
	controller.emit(Event{
		Type:    EventStateChange,
		State:   controller.state,
		Elapsed: controller.elapsed,
		At:      time.Now(),
	})
}

func (controller *Controller) emit(event Event) {
	controller.mu.Lock()
	defer controller.mu.Unlock()
	for _, ch := range controller.events {
		select {
		case ch <- event:
		default:
		}
	}
}
