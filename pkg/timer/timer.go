// Package timer provides elapsed-time measurement over an injectable clock.
package timer

import (
	"sync"
	"time"
)

// Clock is a source of monotonic time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// System is the wall clock. time.Now carries a monotonic reading, so
// durations measured against it are unaffected by clock adjustments.
var System Clock = systemClock{}

// Timer measures time elapsed since it was created or last reset.
type Timer struct {
	clock Clock
	start time.Time
}

// New creates a timer that starts counting immediately.
func New(clock Clock) *Timer {
	if clock == nil {
		clock = System
	}
	return &Timer{clock: clock, start: clock.Now()}
}

// Reset restarts the timer from zero.
func (t *Timer) Reset() {
	t.start = t.clock.Now()
}

// Elapsed returns the time since the last reset.
func (t *Timer) Elapsed() time.Duration {
	return t.clock.Now().Sub(t.start)
}

// ManualClock is a clock that only moves when advanced. Used by tests and
// by the simulation when stepping faster than real time.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock returns a clock set to an arbitrary fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the clock's current time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}
