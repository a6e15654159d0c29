package toast

import (
	"sync"
	"time"
)

// scheduler keeps at most one pending removal timer per toast identity.
type scheduler struct {
	clock Clock
	delay time.Duration
	fire  func(id string)

	mu      sync.Mutex
	timers  map[string]Timer
	stopped bool
}

func newScheduler(clock Clock, delay time.Duration, fire func(id string)) *scheduler {
	return &scheduler{
		clock:  clock,
		delay:  delay,
		fire:   fire,
		timers: make(map[string]Timer),
	}
}

// schedule arms a removal timer for id. It reports false when id already
// has a pending timer or the scheduler has been stopped.
func (s *scheduler) schedule(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if _, ok := s.timers[id]; ok {
		return false
	}

	s.timers[id] = s.clock.AfterFunc(s.delay, func() {
		s.mu.Lock()
		delete(s.timers, id)
		stopped := s.stopped
		s.mu.Unlock()

		if !stopped {
			s.fire(id)
		}
	})
	return true
}

func (s *scheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// stopAll cancels every pending timer. Nothing can be scheduled afterwards.
func (s *scheduler) stopAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
}
