// Package looper runs posted messages one at a time on a single goroutine.
//
// Delayed messages are backed by clock timers and identified by a Token, so
// a pending message can be removed before it runs. Removal is synchronous: a
// message whose timer already fired but which has not run yet is dropped.
package looper

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"memo/internal/core/clock"
	"memo/internal/logx"
)

// ErrQuit is returned when a message is posted after Quit.
var ErrQuit = errors.New("looper quit")

// Token identifies a delayed message.
type Token uint64

// Looper is a serial message queue.
type Looper struct {
	clock clock.Clock
	log   logx.Logger

	mu      sync.Mutex
	queue   []func()
	pending map[Token]clock.Timer
	nextID  Token
	quit    bool

	wake chan struct{}
	done chan struct{}
}

// New starts a looper goroutine.
func New(clk clock.Clock, log logx.Logger) *Looper {
	if clk == nil {
		clk = clock.Real()
	}
	looper := &Looper{
		clock:   clk,
		log:     log,
		pending: make(map[Token]clock.Timer),
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go looper.run()
	return looper
}

// Post enqueues fn. It never blocks and reports false after Quit.
func (looper *Looper) Post(fn func()) bool {
	looper.mu.Lock()
	if looper.quit {
		looper.mu.Unlock()
		return false
	}
	looper.queue = append(looper.queue, fn)
	looper.mu.Unlock()

	select {
	case looper.wake <- struct{}{}:
	default:
	}
	return true
}

// PostDelayed enqueues fn once delay has elapsed on the looper's clock.
func (looper *Looper) PostDelayed(delay time.Duration, fn func()) (Token, error) {
	looper.mu.Lock()
	defer looper.mu.Unlock()
	if looper.quit {
		return 0, ErrQuit
	}
	looper.nextID++
	token := looper.nextID
	looper.pending[token] = looper.clock.AfterFunc(delay, func() {
		looper.Post(func() {
			if looper.take(token) {
				fn()
			}
		})
	})
	return token, nil
}

// Remove cancels a delayed message. It reports whether the message was
// still pending.
func (looper *Looper) Remove(token Token) bool {
	looper.mu.Lock()
	timer, ok := looper.pending[token]
	delete(looper.pending, token)
	looper.mu.Unlock()
	if ok && timer != nil {
		timer.Stop()
	}
	return ok
}

// Call runs fn on the looper and waits for it to finish.
func (looper *Looper) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !looper.Post(func() {
		defer close(finished)
		fn()
	}) {
		return ErrQuit
	}
	select {
	case <-finished:
		return nil
	case <-looper.done:
		return ErrQuit
	case <-ctx.Done():
		return fmt.Errorf("looper call: %w", ctx.Err())
	}
}

// Sync waits until every message posted before it has run.
func (looper *Looper) Sync(ctx context.Context) error {
	return looper.Call(ctx, func() {})
}

// Pending reports the number of delayed messages that have not run.
func (looper *Looper) Pending() int {
	looper.mu.Lock()
	defer looper.mu.Unlock()
	return len(looper.pending)
}

// Quit stops accepting messages, cancels delayed ones and waits for the
// messages already queued to run.
func (looper *Looper) Quit() {
	looper.mu.Lock()
	if looper.quit {
		looper.mu.Unlock()
		<-looper.done
		return
	}
	looper.quit = true
	for token, timer := range looper.pending {
		if timer != nil {
			timer.Stop()
		}
		delete(looper.pending, token)
	}
	looper.mu.Unlock()

	select {
	case looper.wake <- struct{}{}:
	default:
	}
	<-looper.done
}

func (looper *Looper) take(token Token) bool {
	looper.mu.Lock()
	defer looper.mu.Unlock()
	_, ok := looper.pending[token]
	delete(looper.pending, token)
	return ok
}

func (looper *Looper) run() {
	defer close(looper.done)
	for {
		looper.mu.Lock()
		batch := looper.queue
		looper.queue = nil
		quit := looper.quit
		looper.mu.Unlock()

		for _, fn := range batch {
			looper.dispatch(fn)
		}
		if len(batch) > 0 {
			continue
		}
		if quit {
			return
		}
		<-looper.wake
	}
}

func (looper *Looper) dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			looper.log.Error("looper message panicked", logx.Any("panic", r), logx.String("stack", string(debug.Stack())))
		}
	}()
	fn()
}
