package clock

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Clock that only moves when Advance is called.
type Manual struct {
	mu     sync.Mutex
	now    time.Time
	seq    uint64
	timers []*manualTimer
}

type manualTimer struct {
	clock   *Manual
	seq     uint64
	due     time.Time
	f       func()
	stopped bool
}

// NewManual creates a Manual clock starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (clock *Manual) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

// AfterFunc registers f to run once the clock has been advanced by d.
func (clock *Manual) AfterFunc(d time.Duration, f func()) Timer {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.seq++
	timer := &manualTimer{
		clock: clock,
		seq:   clock.seq,
		due:   clock.now.Add(d),
		f:     f,
	}
	clock.timers = append(clock.timers, timer)
	return timer
}

// Advance moves the clock forward and runs every callback that became due,
// in due order, on the calling goroutine.
func (clock *Manual) Advance(d time.Duration) {
	clock.mu.Lock()
	clock.now = clock.now.Add(d)
	now := clock.now

	var due []*manualTimer
	kept := clock.timers[:0]
	for _, timer := range clock.timers {
		if !timer.due.After(now) {
			due = append(due, timer)
			continue
		}
		kept = append(kept, timer)
	}
	clock.timers = kept
	clock.mu.Unlock()

	sort.Slice(due, func(i, j int) bool {
		if due[i].due.Equal(due[j].due) {
			return due[i].seq < due[j].seq
		}
		return due[i].due.Before(due[j].due)
	})
	for _, timer := range due {
		timer.f()
	}
}

// Pending reports how many callbacks are waiting to fire.
func (clock *Manual) Pending() int {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return len(clock.timers)
}

func (timer *manualTimer) Stop() bool {
	clock := timer.clock
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if timer.stopped {
		return false
	}
	for i, pending := range clock.timers {
		if pending == timer {
			clock.timers = append(clock.timers[:i], clock.timers[i+1:]...)
			timer.stopped = true
			return true
		}
	}
	return false
}
