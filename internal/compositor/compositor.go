// Package compositor draws one frame at a time: it clears the backbuffer,
// accepts background, tile and sprite draws in call order, then paces and
// presents the frame when it is closed.
package compositor

import (
	"image"
	"time"

	log "github.com/sirupsen/logrus"

	"chosenoffset.com/electricsheep/internal/pacer"
	"chosenoffset.com/electricsheep/internal/render"
	"chosenoffset.com/electricsheep/internal/texture"
)

// Compositor holds the state that outlives a single frame.
type Compositor struct {
	backend  render.Backend
	registry *texture.Registry
	pacer    *pacer.Pacer
	logger   log.FieldLogger

	numBlocks image.Point

	open            bool
	frames          uint64
	lastPresent     time.Time
	previousPresent time.Time
	lastDrift       *pacer.Drift
}

// Option configures a Compositor.
type Option func(*Compositor)

// WithLogger sets the logger for backend failures and drift reports.
func WithLogger(logger log.FieldLogger) Option {
	return func(c *Compositor) { c.logger = logger }
}

// WithNumBlocks sets the logical grid every new frame starts with.
func WithNumBlocks(cols, rows int) Option {
	return func(c *Compositor) { c.numBlocks = image.Pt(cols, rows) }
}

// New creates a compositor drawing to backend with textures from registry.
func New(backend render.Backend, registry *texture.Registry, p *pacer.Pacer, opts ...Option) *Compositor {
	c := &Compositor{
		backend:  backend,
		registry: registry,
		pacer:    p,
		logger:   log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetNumBlocks changes the logical grid for frames opened afterwards.
func (c *Compositor) SetNumBlocks(cols, rows int) {
	c.numBlocks = image.Pt(cols, rows)
}

// LastPresent returns when the most recent frame was presented.
func (c *Compositor) LastPresent() time.Time {
	return c.lastPresent
}

// FrameDelta returns the time between the last two presents, or the target
// period before two frames have been presented.
func (c *Compositor) FrameDelta() time.Duration {
	if c.previousPresent.IsZero() || c.lastPresent.IsZero() {
		return c.pacer.Period()
	}
	return c.lastPresent.Sub(c.previousPresent)
}

// Frames returns the number of presented frames.
func (c *Compositor) Frames() uint64 {
	return c.frames
}

// LastDrift returns the drift measured at the last present, if any.
func (c *Compositor) LastDrift() (pacer.Drift, bool) {
	if c.lastDrift == nil {
		return pacer.Drift{}, false
	}
	return *c.lastDrift, true
}

// Open starts a frame by clearing the backbuffer. Only one frame may be open
// at a time, and it must be closed exactly once.
func (c *Compositor) Open() *Frame {
	if c.open {
		panic("compositor: Open called while a frame is still open")
	}
	c.open = true

	f := &Frame{c: c, numBlocks: c.numBlocks}
	c.report("clear", c.backend.Clear())
	return f
}

// Render opens a frame, passes it to draw and closes it on every exit path,
// including errors and panics. A frame draw has already closed is not closed
// again. The error from draw is returned.
func (c *Compositor) Render(draw func(f *Frame) error) error {
	f := c.Open()
	defer func() {
		if !f.closed {
			f.Close()
		}
	}()
	return draw(f)
}

// report logs a recoverable backend failure; the frame goes on.
func (c *Compositor) report(op string, err error) {
	if err == nil {
		return
	}
	c.logger.WithError(render.Recoverable(op, err)).WithField("op", op).Warn("Backend call failed")
}

func (c *Compositor) present() {
	c.pacer.Wait(c.lastPresent)
	c.report("present", c.backend.Present())

	c.previousPresent = c.lastPresent
	c.lastPresent = c.pacer.Now()
	c.frames++
	c.open = false

	c.lastDrift = nil
	if d, ok := c.pacer.Drift(c.lastPresent, c.previousPresent); ok {
		c.lastDrift = &d
		c.logger.WithFields(log.Fields{
			"expected_fps": d.ExpectedFPS,
			"actual_fps":   d.ActualFPS,
			"drift_fps":    d.Magnitude(),
			"direction":    d.Direction.String(),
		}).Warn("Frame rate drift")
	}
}
