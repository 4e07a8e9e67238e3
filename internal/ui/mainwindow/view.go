package mainwindow

import "memo/internal/core/stopwatch"

// view is what the window knows about the stopwatch.
type view struct {
	state   stopwatch.State
	elapsed int
}

func (current view) apply(event stopwatch.Event) view {
	switch event.Type {
	case stopwatch.EventStateChange:
		current.state = event.State
		if event.State == stopwatch.StateStop {
			current.elapsed = 0
		} else {
			current.elapsed = event.Elapsed
		}
	case stopwatch.EventElapsed:
		current.elapsed = event.Elapsed
	}
	return current
}

func (current view) elapsedText() string {
	return stopwatch.FormatClock(current.elapsed)
}

func (current view) statusText() string {
	switch current.state {
	case stopwatch.StateStart:
		return "running"
	case stopwatch.StatePause:
		return "paused"
	default:
		return "stopped"
	}
}

func (current view) toggleLabel() string {
	switch current.state {
	case stopwatch.StateStart:
		return "Pause"
	case stopwatch.StatePause:
		return "Resume"
	default:
		return "Start"
	}
}

func (current view) stopEnabled() bool {
	return current.state == stopwatch.StateStart || current.state == stopwatch.StatePause
}

// toggleCommand pauses a running stopwatch, resumes a paused one from the
// last elapsed time seen, and starts from zero otherwise.
func (current view) toggleCommand() stopwatch.Command {
	switch current.state {
	case stopwatch.StateStart:
		return stopwatch.Pause()
	case stopwatch.StatePause:
		return stopwatch.Start(current.elapsed)
	default:
		return stopwatch.Start(0)
	}
}
