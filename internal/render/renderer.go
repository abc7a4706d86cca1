package render

import (
	"image"
)

// Backend is the display backend the compositor draws through. It abstracts
// the underlying graphics engine so frames can be produced by a window
// (ebiten) or by a headless software framebuffer.
//
// Clear, Copy and Present failures are recoverable: the caller logs them and
// keeps going. CreateTexture failures are fatal.
type Backend interface {
	// WindowSize returns the current drawable size in pixels.
	WindowSize() (width, height int)

	// Clear resets the backbuffer for a new frame.
	Clear() error

	// Present makes the backbuffer visible.
	Present() error

	// Copy draws tex into the backbuffer. A nil src selects the whole texture,
	// a nil dst stretches over the whole backbuffer.
	Copy(tex Texture, src, dst *image.Rectangle) error

	// CreateTexture uploads a decoded image and returns a handle owned by the caller.
	CreateTexture(img *image.RGBA) (Texture, error)
}

// Texture is a backend-owned image that can be copied into the backbuffer.
type Texture interface {
	Size() (width, height int)

	// Dispose releases the backend resource.
	Dispose()
}

// InputSource reports the current keyboard state. It is polled once per frame.
type InputSource interface {
	IsKeyPressed(key Key) bool
}

// Key represents a platform-independent keyboard key.
type Key int

// Key constants for common keys
const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
)

var keyNames = map[Key]string{
	KeyW:      "w",
	KeyA:      "a",
	KeyS:      "s",
	KeyD:      "d",
	KeyUp:     "up",
	KeyDown:   "down",
	KeyLeft:   "left",
	KeyRight:  "right",
	KeySpace:  "space",
	KeyEscape: "escape",
}

// String returns the name used for the key in scene bindings.
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKey returns the key with the given binding name.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return KeyUnknown, false
}

// Keys returns every named key.
func Keys() []Key {
	keys := make([]Key, 0, len(keyNames))
	for k := KeyW; k <= KeyEscape; k++ {
		keys = append(keys, k)
	}
	return keys
}

// Engine drives the render loop and owns the window lifecycle.
type Engine interface {
	// SetWindowSize sets the window size in pixels.
	SetWindowSize(width, height int)

	// SetWindowTitle sets the window title.
	SetWindowTitle(title string)

	// SetWindowResizable enables or disables window resizing.
	SetWindowResizable(resizable bool)

	// Run calls frame once per loop iteration until frame returns an error
	// or the engine is shut down. ErrStop ends the loop without an error.
	Run(frame func() error) error
}
