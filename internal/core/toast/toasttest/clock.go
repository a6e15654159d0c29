// Package toasttest provides a manually driven clock for testing code that
// depends on toast removal timers.
package toasttest

import (
	"sort"
	"sync"
	"time"

	"github.com/colonyops/pixelfeed/internal/core/toast"
)

// Clock is a toast.Clock whose timers only fire when Advance is called.
type Clock struct {
	mu        sync.Mutex
	now       time.Duration
	timers    []*timer
	scheduled int
}

var _ toast.Clock = (*Clock)(nil)

// NewClock returns a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

type timer struct {
	clock   *Clock
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *timer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// AfterFunc schedules fn to run once the clock has advanced by d.
func (c *Clock) AfterFunc(d time.Duration, fn func()) toast.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := &timer{clock: c, at: c.now + d, fn: fn}
	c.timers = append(c.timers, t)
	c.scheduled++
	return t
}

// Advance moves the clock forward by d and runs every timer that became
// due, in deadline order, on the calling goroutine.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now += d

	var due []*timer
	live := c.timers[:0]
	for _, t := range c.timers {
		switch {
		case t.stopped:
		case t.at <= c.now:
			t.fired = true
			due = append(due, t)
		default:
			live = append(live, t)
		}
	}
	c.timers = live
	c.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}
}

// Scheduled returns how many timers have been created since the clock was
// built, including ones that already fired or were stopped.
func (c *Clock) Scheduled() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scheduled
}

// Pending returns how many timers are armed and not yet due.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for _, t := range c.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}
