package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/colonyops/pixelfeed/internal/core/toast"
)

const (
	defaultToastTTL   = 5 * time.Second
	toastTickInterval = 100 * time.Millisecond
	toastWidth        = 50
)

// toastsUpdatedMsg carries a store snapshot into the Update loop.
type toastsUpdatedMsg struct {
	toasts []toast.Toast
}

// ToastController mirrors a toast.Store inside the Bubble Tea loop. Store
// snapshots arrive on a channel; open toasts count down a TTL and are
// dismissed through the store when it runs out, which leaves them closed
// until the store removes them.
//
// Everything except the store observer runs on the Update goroutine.
type ToastController struct {
	store       *toast.Store
	ttl         time.Duration
	updates     chan []toast.Toast
	unsubscribe func()

	toasts    []toast.Toast
	remaining map[string]time.Duration
	ticking   bool
}

// NewToastController subscribes to store. A zero ttl uses defaultToastTTL;
// toasts with their own Duration use that instead.
func NewToastController(store *toast.Store, ttl time.Duration) *ToastController {
	if ttl <= 0 {
		ttl = defaultToastTTL
	}

	c := &ToastController{
		store:     store,
		ttl:       ttl,
		updates:   make(chan []toast.Toast, 1),
		remaining: make(map[string]time.Duration),
	}
	c.unsubscribe = store.Subscribe(c.observe)
	return c
}

// observe keeps only the latest snapshot in the channel. The store never
// calls it concurrently, so the drain and send do not race.
func (c *ToastController) observe(toasts []toast.Toast) {
	select {
	case c.updates <- toasts:
		return
	default:
	}

	select {
	case <-c.updates:
	default:
	}
	c.updates <- toasts
}

// Listen returns a command that waits for the next store snapshot.
func (c *ToastController) Listen() tea.Cmd {
	return func() tea.Msg {
		toasts, ok := <-c.updates
		if !ok {
			return nil
		}
		return toastsUpdatedMsg{toasts: toasts}
	}
}

// Apply replaces the mirrored queue with a snapshot. New open toasts start
// their countdown; countdowns for closed or removed toasts are dropped.
func (c *ToastController) Apply(toasts []toast.Toast) {
	c.toasts = toasts

	seen := make(map[string]struct{}, len(toasts))
	for _, t := range toasts {
		if !t.Open {
			continue
		}
		seen[t.ID] = struct{}{}
		if _, ok := c.remaining[t.ID]; !ok {
			c.remaining[t.ID] = c.ttlFor(t)
		}
	}

	for id := range c.remaining {
		if _, ok := seen[id]; !ok {
			delete(c.remaining, id)
		}
	}
}

func (c *ToastController) ttlFor(t toast.Toast) time.Duration {
	if t.Duration > 0 {
		return t.Duration
	}
	return c.ttl
}

// Tick decrements the remaining TTL on all open toasts by d and dismisses
// any that have expired.
func (c *ToastController) Tick(d time.Duration) {
	for id, left := range c.remaining {
		left -= d
		if left > 0 {
			c.remaining[id] = left
			continue
		}
		delete(c.remaining, id)
		c.store.Dismiss(id)
	}
}

// Dismiss closes the newest open toast.
func (c *ToastController) Dismiss() {
	for _, t := range c.toasts {
		if t.Open {
			c.store.Dismiss(t.ID)
			return
		}
	}
}

// DismissAll closes every toast.
func (c *ToastController) DismissAll() {
	c.store.DismissAll()
}

// HasToasts returns true if any toast is visible, open or closed.
func (c *ToastController) HasToasts() bool {
	return len(c.toasts) > 0
}

// Counting returns true while an open toast is counting down.
func (c *ToastController) Counting() bool {
	return len(c.remaining) > 0
}

// Toasts returns the mirrored queue, newest first.
func (c *ToastController) Toasts() []toast.Toast {
	return c.toasts
}

// Remaining returns the time left before the toast is dismissed.
func (c *ToastController) Remaining(id string) (time.Duration, bool) {
	d, ok := c.remaining[id]
	return d, ok
}

// Ticking returns whether the tick timer is currently running.
func (c *ToastController) Ticking() bool {
	return c.ticking
}

// SetTicking sets the tick timer state.
func (c *ToastController) SetTicking(v bool) {
	c.ticking = v
}

// Close stops receiving store updates.
func (c *ToastController) Close() {
	c.unsubscribe()
}
