package pacer

import "time"

// Clock is the time source used by a Pacer.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock uses the monotonic wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// Sleep blocks for d.
func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// ManualClock only moves when told to. Sleep advances it instantly, which
// makes headless runs and tests deterministic.
type ManualClock struct {
	now    time.Time
	Sleeps []time.Duration
}

// NewManualClock creates a clock set to start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Sleep records d and advances the clock by it.
func (c *ManualClock) Sleep(d time.Duration) {
	c.Sleeps = append(c.Sleeps, d)
	c.now = c.now.Add(d)
}

// Advance moves the clock forward without recording a sleep.
func (c *ManualClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}
