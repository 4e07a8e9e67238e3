package stopwatch

import "time"

// State represents the current stopwatch mode.
type State string

const (
	StateInitialized State = "initialized"
	StateStart       State = "start"
	StatePause       State = "pause"
	StateStop        State = "stop"
)

// EventType defines the type of stopwatch event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventElapsed     EventType = "elapsed"
)

// Event is a stopwatch update for observers.
type Event struct {
	Type    EventType
	State   State
	Elapsed int
	At      time.Time
}

// Snapshot is a point-in-time view of the controller.
type Snapshot struct {
	State   State
	Elapsed int
}
