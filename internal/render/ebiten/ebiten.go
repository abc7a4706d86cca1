package ebiten

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"chosenoffset.com/electricsheep/internal/render"
)

// Texture wraps an ebiten.Image to implement the render.Texture interface.
type Texture struct {
	img *ebiten.Image
}

// Size returns the width and height of the texture.
func (t *Texture) Size() (width, height int) {
	return t.img.Bounds().Dx(), t.img.Bounds().Dy()
}

// Dispose releases the GPU image.
func (t *Texture) Dispose() {
	if t.img != nil {
		t.img.Deallocate()
	}
}

// GetEbitenImage returns the underlying ebiten.Image.
func (t *Texture) GetEbitenImage() *ebiten.Image {
	return t.img
}

// Backend implements render.Backend with an offscreen backbuffer. Present
// copies it to a front buffer that the engine draws to the screen.
type Backend struct {
	back  *ebiten.Image
	front *ebiten.Image
}

// NewBackend creates a backend whose buffers start at width x height. The
// engine resizes them to the window's layout.
func NewBackend(width, height int) (*Backend, error) {
	if width <= 0 || height <= 0 {
		return nil, render.Fatal("create window buffers", errors.New("window size must be positive"))
	}
	b := &Backend{}
	b.resize(width, height)
	return b, nil
}

func (b *Backend) resize(width, height int) {
	if b.back != nil && b.back.Bounds().Dx() == width && b.back.Bounds().Dy() == height {
		return
	}
	if b.back != nil {
		b.back.Deallocate()
		b.front.Deallocate()
	}
	b.back = ebiten.NewImage(width, height)
	b.front = ebiten.NewImage(width, height)
}

// WindowSize returns the backbuffer size.
func (b *Backend) WindowSize() (int, int) {
	return b.back.Bounds().Dx(), b.back.Bounds().Dy()
}

// Clear clears the backbuffer to transparent.
func (b *Backend) Clear() error {
	b.back.Clear()
	return nil
}

// Present publishes the backbuffer.
func (b *Backend) Present() error {
	b.front.Clear()
	b.front.DrawImage(b.back, nil)
	return nil
}

// Copy draws the src part of tex scaled into dst.
func (b *Backend) Copy(tex render.Texture, src, dst *image.Rectangle) error {
	t, ok := tex.(*Texture)
	if !ok {
		return errors.New("texture does not belong to the ebiten backend")
	}

	img := t.img
	if src != nil {
		img = t.img.SubImage(*src).(*ebiten.Image)
	}
	srcBounds := img.Bounds()
	if srcBounds.Empty() {
		return errors.New("empty source rectangle")
	}

	target := b.back.Bounds()
	if dst != nil {
		target = *dst
	}

	opts := &ebiten.DrawImageOptions{}
	opts.GeoM.Scale(
		float64(target.Dx())/float64(srcBounds.Dx()),
		float64(target.Dy())/float64(srcBounds.Dy()),
	)
	opts.GeoM.Translate(float64(target.Min.X), float64(target.Min.Y))
	b.back.DrawImage(img, opts)
	return nil
}

// CreateTexture uploads img to the GPU.
func (b *Backend) CreateTexture(img *image.RGBA) (render.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	return &Texture{img: ebiten.NewImageFromImage(img)}, nil
}

// InputManager implements render.InputSource using Ebiten.
type InputManager struct{}

// NewInputManager creates a new Ebiten-based input manager.
func NewInputManager() *InputManager {
	return &InputManager{}
}

// IsKeyPressed returns whether the specified key is currently pressed.
func (m *InputManager) IsKeyPressed(key render.Key) bool {
	ek, ok := keyToEbitenKey(key)
	return ok && ebiten.IsKeyPressed(ek)
}

// keyToEbitenKey converts a render.Key to an ebiten.Key.
func keyToEbitenKey(key render.Key) (ebiten.Key, bool) {
	switch key {
	case render.KeyW:
		return ebiten.KeyW, true
	case render.KeyA:
		return ebiten.KeyA, true
	case render.KeyS:
		return ebiten.KeyS, true
	case render.KeyD:
		return ebiten.KeyD, true
	case render.KeyUp:
		return ebiten.KeyArrowUp, true
	case render.KeyDown:
		return ebiten.KeyArrowDown, true
	case render.KeyLeft:
		return ebiten.KeyArrowLeft, true
	case render.KeyRight:
		return ebiten.KeyArrowRight, true
	case render.KeySpace:
		return ebiten.KeySpace, true
	case render.KeyEscape:
		return ebiten.KeyEscape, true
	default:
		return 0, false
	}
}

// Engine implements render.Engine using Ebiten.
type Engine struct {
	backend *Backend
}

// NewEngine creates an engine that shows backend's presented frames.
func NewEngine(backend *Backend) *Engine {
	return &Engine{backend: backend}
}

// SetWindowSize sets the window size in pixels.
func (e *Engine) SetWindowSize(width, height int) {
	ebiten.SetWindowSize(width, height)
}

// SetWindowTitle sets the window title.
func (e *Engine) SetWindowTitle(title string) {
	ebiten.SetWindowTitle(title)
}

// SetWindowResizable enables or disables window resizing.
func (e *Engine) SetWindowResizable(resizable bool) {
	if resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	} else {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeDisabled)
	}
}

// Run hands pacing to the frame function: vsync is off and ebiten ticks once
// per drawn frame, so frame decides when each one is presented.
func (e *Engine) Run(frame func() error) error {
	ebiten.SetVsyncEnabled(false)
	ebiten.SetTPS(ebiten.SyncWithFPS)

	err := ebiten.RunGame(&gameAdapter{backend: e.backend, frame: frame})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

// gameAdapter adapts a frame function to the ebiten.Game interface.
type gameAdapter struct {
	backend *Backend
	frame   func() error
}

// Update implements ebiten.Game.
func (a *gameAdapter) Update() error {
	if err := a.frame(); err != nil {
		if errors.Is(err, render.ErrStop) {
			return ebiten.Termination
		}
		return err
	}
	return nil
}

// Draw implements ebiten.Game.
func (a *gameAdapter) Draw(screen *ebiten.Image) {
	screen.DrawImage(a.backend.front, nil)
}

// Layout implements ebiten.Game. The backbuffer follows the window size.
func (a *gameAdapter) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		a.backend.resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
