package toast

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const (
	// DefaultLimit is the number of toasts kept in the queue.
	DefaultLimit = 1
	// DefaultRemoveDelay is how long a dismissed toast stays in the queue
	// in the closed state before it is removed.
	DefaultRemoveDelay = 1000000 * time.Millisecond
)

// Observer receives a copy of the queue, newest first, after every
// transition.
type Observer func([]Toast)

// Options configures a Store.
type Options struct {
	Limit       int
	RemoveDelay time.Duration
	Clock       Clock
	Logger      zerolog.Logger

	// maxID bounds the identity counter; zero means math.MaxUint64.
	maxID uint64
}

// DefaultOptions returns Options with the package defaults.
func DefaultOptions() Options {
	return Options{
		Limit:       DefaultLimit,
		RemoveDelay: DefaultRemoveDelay,
		Clock:       SystemClock{},
		Logger:      zerolog.Nop(),
	}
}

type listener struct {
	fn      Observer
	joined  uint64 // sequence number of the join delivery
	removed atomic.Bool
}

// delivery is a snapshot waiting to be handed to observers. A non-nil
// target restricts it to a single listener.
type delivery struct {
	seq    uint64
	toasts []Toast
	target *listener
}

// Store is the single source of truth for which toasts are visible.
// It is safe for concurrent use. Observers are never called concurrently
// and always see transitions in the order they were applied.
type Store struct {
	limit  int
	logger zerolog.Logger
	timers *scheduler

	mu        sync.Mutex
	toasts    []Toast
	ids       idGen
	listeners []*listener
	pending   []delivery
	seq       uint64
	draining  bool
	closed    bool
}

// New creates a Store. Zero-valued fields in opts fall back to the defaults.
func New(opts Options) *Store {
	defaults := DefaultOptions()
	if opts.Limit <= 0 {
		opts.Limit = defaults.Limit
	}
	if opts.RemoveDelay <= 0 {
		opts.RemoveDelay = defaults.RemoveDelay
	}
	if opts.Clock == nil {
		opts.Clock = defaults.Clock
	}

	s := &Store{
		limit:  opts.Limit,
		logger: opts.Logger,
		ids:    newIDGen(opts.maxID),
	}
	s.timers = newScheduler(opts.Clock, opts.RemoveDelay, s.Remove)
	return s
}

// Enqueue adds t to the front of the queue and returns its identity. The
// oldest toasts are dropped when the queue grows past the limit. Enqueue
// returns an empty string once the store is closed.
func (s *Store) Enqueue(t Toast) string {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ""
	}

	t.ID = s.nextIDLocked()
	t.Open = true
	if t.Variant == "" {
		t.Variant = VariantDefault
	}

	s.toasts = slices.Insert(s.toasts, 0, t)
	if len(s.toasts) > s.limit {
		for _, dropped := range s.toasts[s.limit:] {
			s.logger.Debug().Str("toast_id", dropped.ID).Msg("toast evicted")
		}
		s.toasts = s.toasts[:s.limit]
	}

	s.logger.Debug().Str("toast_id", t.ID).Str("variant", string(t.Variant)).Msg("toast enqueued")
	s.commit(nil)
	return t.ID
}

// Update merges p into the toast with the given identity. Unknown
// identities leave the queue unchanged.
func (s *Store) Update(id string, p Patch) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	if i := s.indexLocked(id); i >= 0 {
		s.toasts[i] = p.apply(s.toasts[i])
	}
	s.commit(nil)
}

// Dismiss closes the toast with the given identity and schedules its
// removal. Dismissing the same toast again does not schedule a second
// timer. Unknown identities are ignored.
func (s *Store) Dismiss(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	s.toasts[i].Open = false
	if s.timers.schedule(id) {
		s.logger.Debug().Str("toast_id", id).Msg("toast removal scheduled")
	}
	s.commit(nil)
}

// DismissAll closes every queued toast and schedules their removal.
func (s *Store) DismissAll() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	for i := range s.toasts {
		s.toasts[i].Open = false
		s.timers.schedule(s.toasts[i].ID)
	}
	s.commit(nil)
}

// Remove drops the toast with the given identity from the queue. Removing
// an identity that is not queued is a no-op and notifies nobody.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	i := s.indexLocked(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}

	s.toasts = slices.Delete(s.toasts, i, i+1)
	s.logger.Debug().Str("toast_id", id).Msg("toast removed")
	s.commit(nil)
}

// RemoveAll empties the queue.
func (s *Store) RemoveAll() {
	s.mu.Lock()
	if s.closed || len(s.toasts) == 0 {
		s.mu.Unlock()
		return
	}

	s.toasts = s.toasts[:0]
	s.commit(nil)
}

// Subscribe registers fn. It is called once with the current queue before
// Subscribe returns, then after every transition. The returned function
// stops delivery; calling it more than once is harmless.
//
// When Subscribe is called from inside an observer, the initial call is
// queued behind the delivery in progress.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return func() {}
	}

	l := &listener{fn: fn, joined: s.seq + 1}
	s.listeners = append(s.listeners, l)
	s.commit(l)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(l) })
	}
}

// Snapshot returns a copy of the queue, newest first.
func (s *Store) Snapshot() []Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.toasts)
}

// Len returns the number of queued toasts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.toasts)
}

// PendingRemovals returns the number of armed removal timers.
func (s *Store) PendingRemovals() int {
	return s.timers.pending()
}

// Close stops every pending removal timer and drops all observers. The
// store ignores all operations afterwards.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	for _, l := range s.listeners {
		l.removed.Store(true)
	}
	s.listeners = nil
	s.pending = nil
	s.mu.Unlock()

	s.timers.stopAll()
}

func (s *Store) unsubscribe(l *listener) {
	l.removed.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = slices.DeleteFunc(s.listeners, func(x *listener) bool { return x == l })
}

// nextIDLocked returns an identity that no surviving toast holds. Only the
// first limit-1 toasts survive the insertion that follows.
func (s *Store) nextIDLocked() string {
	survivors := s.toasts[:min(len(s.toasts), s.limit-1)]

	id := s.ids.next()
	for range len(survivors) {
		if !slices.ContainsFunc(survivors, func(t Toast) bool { return t.ID == id }) {
			break
		}
		id = s.ids.next()
	}
	return id
}

func (s *Store) indexLocked(id string) int {
	return slices.IndexFunc(s.toasts, func(t Toast) bool { return t.ID == id })
}

// commit queues the current queue for delivery and drains the delivery
// queue unless another call is already draining it. It must be called with
// s.mu held and returns with s.mu released.
func (s *Store) commit(target *listener) {
	s.seq++
	s.pending = append(s.pending, delivery{
		seq:    s.seq,
		toasts: slices.Clone(s.toasts),
		target: target,
	})

	if s.draining {
		s.mu.Unlock()
		return
	}

	s.draining = true
	for len(s.pending) > 0 {
		d := s.pending[0]
		s.pending = s.pending[1:]
		recipients := s.recipientsLocked(d)

		s.mu.Unlock()
		for _, l := range recipients {
			s.deliver(l, d.toasts)
		}
		s.mu.Lock()
	}
	s.draining = false
	s.mu.Unlock()
}

func (s *Store) recipientsLocked(d delivery) []*listener {
	if d.target != nil {
		return []*listener{d.target}
	}

	out := make([]*listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		// Listeners only see transitions after their join delivery.
		if l.joined < d.seq {
			out = append(out, l)
		}
	}
	return out
}

func (s *Store) deliver(l *listener, toasts []Toast) {
	if l.removed.Load() {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().Str("panic", fmt.Sprint(r)).Msg("toast observer panicked")
		}
	}()

	l.fn(slices.Clone(toasts))
}
