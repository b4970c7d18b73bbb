package testfixtures

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a controllable time source shared by the services of one test.
type Clock struct {
	mu      sync.Mutex
	current time.Time
}

// NewClock returns a clock at start, or at ReferenceTime when start is zero.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{current: start}
}

// Now returns the current instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// NowFunc exposes Now for injection into services.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Advance moves the clock forward by d and returns the new instant.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current = c.current.Add(d)
	return c.current
}

// At moves the clock to the wall time clock ("15:04") of the current day,
// keeping its location. It panics on a malformed clock so fixtures fail loudly.
func (c *Clock) At(clock string) time.Time {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		panic(fmt.Sprintf("testfixtures: invalid clock %q: %v", clock, err))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.current.Date()
	c.current = time.Date(y, m, d, parsed.Hour(), parsed.Minute(), 0, 0, c.current.Location())
	return c.current
}

// NextWorkday moves the clock to 08:00 of the next Monday to Friday date.
func (c *Clock) NextWorkday() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	y, m, d := c.current.Date()
	next := time.Date(y, m, d+1, 8, 0, 0, 0, c.current.Location())
	for next.Weekday() == time.Saturday || next.Weekday() == time.Sunday {
		next = next.AddDate(0, 0, 1)
	}
	c.current = next
	return c.current
}
