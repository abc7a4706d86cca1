// Package software implements a headless display backend on top of image.RGBA
// buffers. Frames are composed in a backbuffer and copied to a front buffer
// on present, which can be saved as a PNG snapshot.
package software

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"chosenoffset.com/electricsheep/internal/render"
)

// ClearColor is the color of a cleared backbuffer
var ClearColor = color.RGBA{0, 0, 0, 255}

// Texture is an RGBA image owned by the software backend.
type Texture struct {
	img *image.RGBA
}

// Size returns the width and height of the texture.
func (t *Texture) Size() (int, int) {
	if t.img == nil {
		return 0, 0
	}
	return t.img.Bounds().Dx(), t.img.Bounds().Dy()
}

// Dispose releases the pixel buffer.
func (t *Texture) Dispose() {
	t.img = nil
}

// Backend renders into memory.
type Backend struct {
	back   *image.RGBA
	front  *image.RGBA
	scaler draw.Scaler

	presented int
}

// NewBackend creates a backend with a width x height framebuffer.
func NewBackend(width, height int) (*Backend, error) {
	if width <= 0 || height <= 0 {
		return nil, render.Fatal("create framebuffer", fmt.Errorf("invalid size %dx%d", width, height))
	}
	bounds := image.Rect(0, 0, width, height)
	return &Backend{
		back:   image.NewRGBA(bounds),
		front:  image.NewRGBA(bounds),
		scaler: draw.NearestNeighbor,
	}, nil
}

// SetScaler replaces the nearest-neighbor scaler, e.g. with draw.BiLinear.
func (b *Backend) SetScaler(s draw.Scaler) {
	b.scaler = s
}

// WindowSize returns the framebuffer size.
func (b *Backend) WindowSize() (int, int) {
	return b.back.Bounds().Dx(), b.back.Bounds().Dy()
}

// Clear fills the backbuffer with ClearColor.
func (b *Backend) Clear() error {
	draw.Draw(b.back, b.back.Bounds(), &image.Uniform{ClearColor}, image.Point{}, draw.Src)
	return nil
}

// Present copies the backbuffer to the front buffer.
func (b *Backend) Present() error {
	copy(b.front.Pix, b.back.Pix)
	b.presented++
	return nil
}

// Copy scales the src region of tex into dst, blending over what is there.
func (b *Backend) Copy(tex render.Texture, src, dst *image.Rectangle) error {
	t, ok := tex.(*Texture)
	if !ok {
		return fmt.Errorf("texture %T does not belong to the software backend", tex)
	}
	if t.img == nil {
		return errors.New("texture was disposed")
	}

	srcRect := t.img.Bounds()
	if src != nil {
		srcRect = src.Intersect(srcRect)
	}
	dstRect := b.back.Bounds()
	if dst != nil {
		dstRect = *dst
	}
	if srcRect.Empty() || dstRect.Empty() {
		return nil
	}

	b.scaler.Scale(b.back, dstRect, t.img, srcRect, draw.Over, nil)
	return nil
}

// CreateTexture copies img into a new texture.
func (b *Backend) CreateTexture(img *image.RGBA) (render.Texture, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, errors.New("empty image")
	}
	own := image.NewRGBA(image.Rect(0, 0, img.Bounds().Dx(), img.Bounds().Dy()))
	draw.Draw(own, own.Bounds(), img, img.Bounds().Min, draw.Src)
	return &Texture{img: own}, nil
}

// Frame returns the last presented frame.
func (b *Backend) Frame() *image.RGBA {
	return b.front
}

// Presented returns the number of presents so far.
func (b *Backend) Presented() int {
	return b.presented
}

// Snapshot writes the last presented frame to path as a PNG.
func (b *Backend) Snapshot(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, b.front); err != nil {
		return fmt.Errorf("failed to encode snapshot %s: %w", path, err)
	}
	return nil
}
