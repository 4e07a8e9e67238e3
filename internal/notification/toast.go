package notification

import (
	"fmt"
	"sync"

	"github.com/gen2brain/beeep"
)

// Toast shows a desktop notification through beeep. Desktop toasts cannot be
// edited once shown, so only the first publish of an ID pops a toast; later
// publishes under the same ID are in-place updates and stay quiet until the
// ID is cancelled.
type Toast struct {
	mu     sync.Mutex
	shown  map[int]bool
	notify func(title, message, icon string) error
}

// NewToast creates a beeep-backed toast surface.
func NewToast() *Toast {
	return &Toast{
		shown: make(map[int]bool),
		notify: func(title, message, icon string) error {
			return beeep.Notify(title, message, icon)
		},
	}
}

func (toast *Toast) Notify(n Notification) error {
	toast.mu.Lock()
	if toast.shown[n.ID] {
		toast.mu.Unlock()
		return nil
	}
	toast.shown[n.ID] = true
	toast.mu.Unlock()

	if err := toast.notify(n.Title, n.Text, n.Icon); err != nil {
		return fmt.Errorf("desktop toast: %w", err)
	}
	return nil
}

func (toast *Toast) Cancel(id int) error {
	toast.mu.Lock()
	delete(toast.shown, id)
	toast.mu.Unlock()
	return nil
}
