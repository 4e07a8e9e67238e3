package stopwatch

import (
	"strconv"
	"strings"
)

// Action is the verb of a Command.
type Action string

const (
	ActionStart Action = "start"
	ActionPause Action = "pause"
	ActionStop  Action = "stop"
)

// Command is a request delivered to the controller.
type Command struct {
	Action Action
	// ResumeOffset is the elapsed time, in seconds, a START resumes from.
	ResumeOffset int
}

// Start returns a START command resuming from offset seconds.
func Start(offset int) Command {
	return Command{Action: ActionStart, ResumeOffset: offset}
}

// Pause returns a PAUSE command.
func Pause() Command {
	return Command{Action: ActionPause}
}

// Stop returns a STOP command.
func Stop() Command {
	return Command{Action: ActionStop}
}

// ParseCommand decodes a textual command such as "start 42", "pause" or
// "stop". Unrecognised input yields a Command the controller will not handle.
func ParseCommand(raw string) Command {
	fields := strings.Fields(strings.ToLower(raw))
	if len(fields) == 0 {
		return Command{}
	}
	switch Action(fields[0]) {
	case ActionStart:
		if len(fields) > 2 {
			return Command{Action: Action(raw)}
		}
		if len(fields) == 2 {
			offset, err := strconv.Atoi(fields[1])
			if err != nil {
				return Command{Action: Action(raw)}
			}
			return Start(offset)
		}
		return Start(0)
	case ActionPause, ActionStop:
		if len(fields) != 1 {
			return Command{Action: Action(raw)}
		}
		return Command{Action: Action(fields[0])}
	default:
		return Command{Action: Action(fields[0])}
	}
}
