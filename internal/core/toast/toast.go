// Package toast implements the in-process notification queue that backs
// every user-facing toast.
//
// A Store holds a bounded, newest-first queue of toasts. Producers enqueue,
// update and dismiss toasts; observers receive a copy of the queue after
// every transition. Dismissed toasts stay in the queue in a closed state
// until their removal timer fires.
package toast

import (
	"math"
	"strconv"
	"time"
)

// Variant is the severity of a toast.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// State is the visible state of a queued toast. A toast that has been
// removed is no longer in the queue and has no state.
type State string

const (
	StateActive State = "active"
	StateClosed State = "closed"
)

// Toast is a single notification. Title and Description are rendered by
// the caller; the store copies them as-is.
type Toast struct {
	ID          string        `json:"id"`
	Title       string        `json:"title,omitempty"`
	Description string        `json:"description,omitempty"`
	Variant     Variant       `json:"variant"`
	Duration    time.Duration `json:"duration,omitempty"` // zero means the renderer's default
	Open        bool          `json:"open"`
}

// State reports whether the toast is active or closed.
func (t Toast) State() State {
	if t.Open {
		return StateActive
	}
	return StateClosed
}

// Patch lists the fields to overwrite on an existing toast. Nil fields are
// left untouched. There is no way to reopen a closed toast.
type Patch struct {
	Title       *string
	Description *string
	Variant     *Variant
	Duration    *time.Duration
}

func (p Patch) apply(t Toast) Toast {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Variant != nil {
		t.Variant = *p.Variant
	}
	if p.Duration != nil {
		t.Duration = *p.Duration
	}
	return t
}

// Ptr returns a pointer to v, for building a Patch inline.
func Ptr[T any](v T) *T {
	return &v
}

// idGen hands out identities from a counter that wraps at max.
type idGen struct {
	count uint64
	max   uint64
}

func newIDGen(max uint64) idGen {
	if max == 0 {
		max = math.MaxUint64
	}
	return idGen{max: max}
}

func (g *idGen) next() string {
	g.count = (g.count + 1) % g.max
	return strconv.FormatUint(g.count, 10)
}
