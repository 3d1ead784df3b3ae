package clock

import "time"

// Clock supplies nanosecond timestamps for stamping orders and trades.
// Implementations must be monotonically non-decreasing.
type Clock interface {
	Now() uint64
}

// WallClock reads the system clock. Successive calls never go
// backwards: if the wall clock is adjusted, the previous value plus one
// is returned instead.
type WallClock struct {
	last uint64
}

// NewWallClock creates a WallClock.
func NewWallClock() *WallClock {
	return &WallClock{}
}

func (c *WallClock) Now() uint64 {
	now := uint64(time.Now().UnixNano())
	if now <= c.last {
		c.last++
		return c.last
	}
	c.last = now
	return now
}

// Manual is a clock for tests that only moves when advanced.
type Manual struct {
	now uint64
}

// NewManual creates a Manual clock starting at the given timestamp.
func NewManual(start uint64) *Manual {
	return &Manual{now: start}
}

func (c *Manual) Now() uint64 {
	return c.now
}

// Advance moves the clock forward by d nanoseconds.
func (c *Manual) Advance(d uint64) {
	c.now += d
}
