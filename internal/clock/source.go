// Package clock provides the time sources, frame delta clock and one-shot
// timers that drive the simulation from a single loop goroutine.
package clock

import (
	"sync"
	"time"
)

// Source reports the current time. Implementations must be monotonic.
type Source interface {
	Now() time.Time
}

// System is a Source backed by the wall clock's monotonic reading.
type System struct{}

// Now returns time.Now().
func (System) Now() time.Time {
	return time.Now()
}

// Manual is a controllable Source for tests and replays.
type Manual struct {
	mu  sync.RWMutex
	now time.Time
}

// NewManual creates a Manual source starting at start.
func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

// Now returns the current manual time.
func (m *Manual) Now() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.now
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = t
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = m.now.Add(d)
}
