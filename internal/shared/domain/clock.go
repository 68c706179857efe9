package domain

import "time"

// Clock supplies the current time. Services take one so tests can pin dates.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now().UTC() }

// FixedClock always returns the same instant.
type FixedClock struct {
	At time.Time
}

func (c *FixedClock) Now() time.Time { return c.At }

// Advance moves the clock forward.
func (c *FixedClock) Advance(d time.Duration) {
	c.At = c.At.Add(d)
}
