// Package lifecycletest provides a manually driven timer source for tests.
package lifecycletest

import (
	"sort"
	"sync"
	"time"

	"servenet/internal/lifecycle"
)

// ManualTimers hands out timers that only fire when Advance moves the clock
// past their deadline. Callbacks run on the goroutine calling Advance.
type ManualTimers struct {
	mu     sync.Mutex
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	owner   *ManualTimers
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func New() *ManualTimers {
	return &ManualTimers{}
}

func (m *ManualTimers) AfterFunc(d time.Duration, fn func()) lifecycle.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()

	t := &manualTimer{owner: m, at: m.now + d, fn: fn}
	m.timers = append(m.timers, t)
	return t
}

// Advance moves the clock forward by d and fires every timer that came due,
// in deadline order. It returns the number of callbacks run.
func (m *ManualTimers) Advance(d time.Duration) int {
	m.mu.Lock()
	m.now += d

	due := make([]*manualTimer, 0)
	remaining := m.timers[:0]
	for _, t := range m.timers {
		switch {
		case t.stopped:
		case t.at <= m.now:
			t.fired = true
			due = append(due, t)
		default:
			remaining = append(remaining, t)
		}
	}
	m.timers = remaining
	m.mu.Unlock()

	sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
	for _, t := range due {
		t.fn()
	}

	return len(due)
}

// Armed reports timers that are neither stopped nor fired.
func (m *ManualTimers) Armed() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()

	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
