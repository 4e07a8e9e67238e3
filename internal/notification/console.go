package notification

import (
	"fmt"
	"io"
	"sync"
)

// Console writes the notification as a status line. It is the surface used
// when no desktop is available.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	last map[int]string
}

// NewConsole creates a console surface writing to out.
func NewConsole(out io.Writer) *Console {
	return &Console{out: out, last: make(map[int]string)}
}

// Notify prints the notification unless the same line is already shown.
func (console *Console) Notify(n Notification) error {
	line := fmt.Sprintf("[%s] %s", n.Title, n.Text)
	console.mu.Lock()
	defer console.mu.Unlock()
	if console.last[n.ID] == line {
		return nil
	}
	console.last[n.ID] = line
	_, err := fmt.Fprintln(console.out, line)
	return err
}

func (console *Console) Cancel(id int) error {
	console.mu.Lock()
	defer console.mu.Unlock()
	if _, ok := console.last[id]; !ok {
		return nil
	}
	delete(console.last, id)
	_, err := fmt.Fprintln(console.out, "[notification removed]")
	return err
}
