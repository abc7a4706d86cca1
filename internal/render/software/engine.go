package software

import (
	"context"
	"errors"

	"chosenoffset.com/electricsheep/internal/render"
)

// Engine runs frames back to back without a window. It stops after
// MaxFrames frames (0 means no limit) or when its context is cancelled.
type Engine struct {
	ctx       context.Context
	MaxFrames int
	title     string
}

// NewEngine creates a headless engine bound to ctx.
func NewEngine(ctx context.Context, maxFrames int) *Engine {
	return &Engine{ctx: ctx, MaxFrames: maxFrames}
}

// SetWindowSize is a no-op; the framebuffer size is fixed by the backend.
func (e *Engine) SetWindowSize(width, height int) {}

// SetWindowTitle records the title.
func (e *Engine) SetWindowTitle(title string) { e.title = title }

// SetWindowResizable is a no-op.
func (e *Engine) SetWindowResizable(resizable bool) {}

// Title returns the last title set.
func (e *Engine) Title() string { return e.title }

// Run calls frame until it fails, returns render.ErrStop, the frame limit is
// reached or the context is done.
func (e *Engine) Run(frame func() error) error {
	for n := 0; e.MaxFrames == 0 || n < e.MaxFrames; n++ {
		if err := e.ctx.Err(); err != nil {
			return nil
		}
		if err := frame(); err != nil {
			if errors.Is(err, render.ErrStop) {
				return nil
			}
			return err
		}
	}
	return nil
}

// Input holds a fixed set of keys for the whole run.
type Input map[render.Key]bool

// NewInput creates an input with keys held down.
func NewInput(keys ...render.Key) Input {
	in := make(Input, len(keys))
	for _, k := range keys {
		in[k] = true
	}
	return in
}

// IsKeyPressed reports whether key is held.
func (in Input) IsKeyPressed(key render.Key) bool {
	return in[key]
}
