// Package asset decodes images from disk into the RGBA format every backend
// accepts, and generates placeholder textures for scenes without art.
package asset

import (
	"fmt"
	"image"
	_ "image/png"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// Load decodes a PNG or BMP file into an RGBA image with its origin at (0, 0).
func Load(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", path, err)
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image %s: %w", path, err)
	}

	rgba := ToRGBA(img)
	if rgba.Bounds().Empty() {
		return nil, fmt.Errorf("image %s (%s) is empty", path, format)
	}
	return rgba, nil
}

// ToRGBA converts img to RGBA with its origin at (0, 0). An image that is
// already in that form is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}
