package testutil

import (
	"sync"
	"time"
)

// FixedClock is a settable wall clock for tests.
//
// Unlike register.SystemClock, FixedClock only moves when told to. This lets
// day-rollover tests reopen components "tomorrow" without sleeping.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FixedClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixedClock creates a clock frozen at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{now: t}
}

// At creates a clock frozen at the given UTC wall time.
func At(year int, month time.Month, day, hour, min, sec int) *FixedClock {
	return NewFixedClock(time.Date(year, month, day, hour, min, sec, 0, time.UTC))
}

// Now returns the frozen time.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// NextDay moves the clock forward by 24 hours.
func (c *FixedClock) NextDay() {
	c.Advance(24 * time.Hour)
}
