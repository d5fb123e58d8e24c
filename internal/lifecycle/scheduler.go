package lifecycle

import (
	"sync"
	"time"
)

// Timer is the part of *time.Timer the scheduler relies on.
type Timer interface {
	Stop() bool
}

// AfterFunc arms fn to run once after d has elapsed.
type AfterFunc func(d time.Duration, fn func()) Timer

func realAfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Scheduler runs at most one delayed callback per key. Timers can be
// cancelled individually or all at once.
type Scheduler struct {
	mu        sync.Mutex
	delay     time.Duration
	afterFunc AfterFunc
	timers    map[string]Timer
}

// NewScheduler returns a scheduler firing callbacks delay after Schedule.
// A nil afterFunc uses time.AfterFunc.
func NewScheduler(delay time.Duration, afterFunc AfterFunc) *Scheduler {
	if afterFunc == nil {
		afterFunc = realAfterFunc
	}

	return &Scheduler{
		delay:     delay,
		afterFunc: afterFunc,
		timers:    make(map[string]Timer),
	}
}

// Schedule arms fn for key, replacing any timer already armed for it.
func (s *Scheduler) Schedule(key string, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.timers[key]; ok {
		existing.Stop()
	}

	var timer Timer
	timer = s.afterFunc(s.delay, func() {
		s.mu.Lock()
		current, ok := s.timers[key]
		if !ok || current != timer {
			// cancelled or replaced after the timer had already fired
			s.mu.Unlock()
			return
		}
		delete(s.timers, key)
		s.mu.Unlock()

		fn()
	})
	s.timers[key] = timer
}

// Cancel stops the timer armed for key. It reports whether one was armed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[key]
	if !ok {
		return false
	}

	timer.Stop()
	delete(s.timers, key)
	return true
}

// CancelAll stops every armed timer and returns how many there were.
func (s *Scheduler) CancelAll() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.timers)
	for key, timer := range s.timers {
		timer.Stop()
		delete(s.timers, key)
	}

	return n
}

func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.timers)
}
