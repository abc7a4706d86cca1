// Package rendertest provides in-memory render backends for tests.
package rendertest

import (
	"errors"
	"image"

	"chosenoffset.com/electricsheep/internal/render"
)

// Texture is a fake texture created by Backend.
type Texture struct {
	ID       int
	Width    int
	Height   int
	Disposed bool
}

// Size returns the dimensions of the source image.
func (t *Texture) Size() (int, int) {
	return t.Width, t.Height
}

// Dispose marks the texture as released.
func (t *Texture) Dispose() {
	t.Disposed = true
}

// Call is one recorded backend operation.
type Call struct {
	Op      string // "clear", "copy" or "present"
	Texture *Texture
	Src     *image.Rectangle
	Dst     *image.Rectangle
}

// Backend records every call made against it.
type Backend struct {
	Width, Height int

	Calls    []Call
	Textures []*Texture

	// Failure injection
	FailClear   bool
	FailCopy    bool
	FailPresent bool
	FailCreate  bool

	// OnPresent runs at the start of every Present.
	OnPresent func()
}

var errInjected = errors.New("injected failure")

// NewBackend creates a recording backend with the given window size.
func NewBackend(width, height int) *Backend {
	return &Backend{Width: width, Height: height}
}

// WindowSize returns the configured size.
func (b *Backend) WindowSize() (int, int) {
	return b.Width, b.Height
}

// Clear records a clear.
func (b *Backend) Clear() error {
	b.Calls = append(b.Calls, Call{Op: "clear"})
	if b.FailClear {
		return errInjected
	}
	return nil
}

// Present records a present.
func (b *Backend) Present() error {
	if b.OnPresent != nil {
		b.OnPresent()
	}
	b.Calls = append(b.Calls, Call{Op: "present"})
	if b.FailPresent {
		return errInjected
	}
	return nil
}

// Copy records a copy. The rectangles are copied so callers may reuse them.
func (b *Backend) Copy(tex render.Texture, src, dst *image.Rectangle) error {
	call := Call{Op: "copy", Texture: tex.(*Texture)}
	if src != nil {
		r := *src
		call.Src = &r
	}
	if dst != nil {
		r := *dst
		call.Dst = &r
	}
	b.Calls = append(b.Calls, call)
	if b.FailCopy {
		return errInjected
	}
	return nil
}

// CreateTexture returns a new fake texture for img.
func (b *Backend) CreateTexture(img *image.RGBA) (render.Texture, error) {
	if b.FailCreate {
		return nil, errInjected
	}
	tex := &Texture{
		ID:     len(b.Textures) + 1,
		Width:  img.Bounds().Dx(),
		Height: img.Bounds().Dy(),
	}
	b.Textures = append(b.Textures, tex)
	return tex, nil
}

// Ops returns the recorded operation names in order.
func (b *Backend) Ops() []string {
	ops := make([]string, len(b.Calls))
	for i, c := range b.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Copies returns only the recorded copy calls.
func (b *Backend) Copies() []Call {
	var copies []Call
	for _, c := range b.Calls {
		if c.Op == "copy" {
			copies = append(copies, c)
		}
	}
	return copies
}

// Reset forgets recorded calls but keeps textures.
func (b *Backend) Reset() {
	b.Calls = nil
}

// Input is a fake keyboard whose state is set directly.
type Input map[render.Key]bool

// IsKeyPressed reports whether key was set to pressed.
func (in Input) IsKeyPressed(key render.Key) bool {
	return in[key]
}
