package fmcsim

import (
	"sync"
	"time"
)

// A Clock is virtual time. It implements fmc.Delay by advancing instead of
// sleeping, so a power-up sequence finishes instantly but still carries the
// times at which each command was issued.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	delays []time.Duration
}

// NewClock creates a clock at time zero.
func NewClock() *Clock {
	return &Clock{}
}

// Delay advances the clock by d.
func (c *Clock) Delay(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now += d
	c.delays = append(c.delays, d)
}

// Now returns the time elapsed since the clock was created.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

// Delays returns every delay requested so far, in order.
func (c *Clock) Delays() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]time.Duration(nil), c.delays...)
}
