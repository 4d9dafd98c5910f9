package testfixtures

import (
	"sync/atomic"
	"time"
)

// Clock is a manually advanced time source for tests. It starts at a fixed
// instant and only moves when Advance is called.
type Clock struct {
	base   time.Time
	offset atomic.Int64
}

// NewClock returns a clock pinned to start, or to ReferenceTime when start is
// the zero value.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{base: start}
}

// Now returns the clock's current instant.
func (c *Clock) Now() time.Time {
	return c.base.Add(time.Duration(c.offset.Load()))
}

// Advance moves the clock forward by d and returns the updated instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	return c.base.Add(time.Duration(c.offset.Add(int64(d))))
}

// NowFunc exposes Now as a function suitable for dependency injection.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}
