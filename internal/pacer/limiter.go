package pacer

import (
	"time"
)

// Pacer holds a target frame rate for one render loop.
type Pacer struct {
	clock          Clock
	fps            uint32
	wakeBuffer     time.Duration
	driftThreshold float64
}

// Option configures a Pacer.
type Option func(*Pacer)

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(p *Pacer) { p.clock = c }
}

// WithWakeBuffer sets the margin subtracted from each sleep.
func WithWakeBuffer(d time.Duration) Option {
	return func(p *Pacer) { p.wakeBuffer = d }
}

// WithDriftThreshold sets the fps difference that counts as drift.
func WithDriftThreshold(fps float64) Option {
	return func(p *Pacer) { p.driftThreshold = fps }
}

// New creates a pacer for fps. A zero fps falls back to DefaultFPS.
func New(fps uint32, opts ...Option) *Pacer {
	if fps == 0 {
		fps = DefaultFPS
	}
	p := &Pacer{
		clock:          SystemClock{},
		fps:            fps,
		wakeBuffer:     DefaultWakeBuffer,
		driftThreshold: DefaultDriftThreshold,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// FPS returns the target frame rate.
func (p *Pacer) FPS() uint32 { return p.fps }

// Period returns the target frame period.
func (p *Pacer) Period() time.Duration { return FramePeriod(p.fps) }

// Now reads the pacer's clock.
func (p *Pacer) Now() time.Time { return p.clock.Now() }

// Wait blocks until shortly before the frame after lastPresent is due. It
// cannot be cancelled. The returned duration is the time slept.
func (p *Pacer) Wait(lastPresent time.Time) time.Duration {
	if lastPresent.IsZero() {
		return 0
	}
	wait := ComputeWait(p.clock.Now(), lastPresent, p.fps, p.wakeBuffer)
	if wait <= 0 {
		return 0
	}
	p.clock.Sleep(wait)
	return wait
}

// Drift reports drift between two consecutive presents.
func (p *Pacer) Drift(lastPresent, previousPresent time.Time) (Drift, bool) {
	if previousPresent.IsZero() {
		return Drift{}, false
	}
	return reportDrift(lastPresent, previousPresent, p.fps, p.driftThreshold)
}
