package asset

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"strconv"
	"strings"

	"golang.org/x/image/draw"
)

// TileSize is the default edge length of a placeholder texture
const TileSize = 32

// Placeholder describes a generated texture
type Placeholder struct {
	Color   string `json:"color"`   // "#rrggbb" or "#rrggbbaa"
	Pattern string `json:"pattern"` // solid, border, grid, dots, cross, diagonal, circle
	Size    int    `json:"size"`    // Edge length in pixels, TileSize when zero
}

// Generate renders the placeholder. The pattern is drawn in a darker shade
// of the fill color.
func (p Placeholder) Generate() (*image.RGBA, error) {
	fill, err := ParseHexColor(p.Color)
	if err != nil {
		return nil, err
	}
	size := p.Size
	if size == 0 {
		size = TileSize
	}
	if size < 4 {
		return nil, fmt.Errorf("placeholder size %d is too small", size)
	}

	accent := Darken(fill, 0.6)
	switch p.Pattern {
	case "", "solid":
		return CreateSolidTile(fill, size), nil
	case "border":
		return CreateBorderedTile(fill, accent, size, 2), nil
	case "circle":
		return CreateCircle(fill, accent, size), nil
	case "grid", "dots", "cross", "diagonal":
		return CreatePatternedTile(fill, accent, size, p.Pattern), nil
	default:
		return nil, fmt.Errorf("unknown placeholder pattern: %s", p.Pattern)
	}
}

// ParseHexColor parses "#rrggbb" or "#rrggbbaa".
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// CreateSolidTile creates a simple solid-colored tile
func CreateSolidTile(col color.RGBA, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{col}, image.Point{}, draw.Src)
	return img
}

// CreateBorderedTile creates a tile with a border
func CreateBorderedTile(fillColor, borderColor color.RGBA, size, borderWidth int) *image.RGBA {
	img := CreateSolidTile(fillColor, size)
	for i := 0; i < borderWidth; i++ {
		for x := 0; x < size; x++ {
			img.SetRGBA(x, i, borderColor)
			img.SetRGBA(x, size-1-i, borderColor)
			img.SetRGBA(i, x, borderColor)
			img.SetRGBA(size-1-i, x, borderColor)
		}
	}
	return img
}

// CreatePatternedTile creates a tile with a simple pattern
func CreatePatternedTile(baseColor, patternColor color.RGBA, size int, pattern string) *image.RGBA {
	img := CreateSolidTile(baseColor, size)

	switch pattern {
	case "grid":
		for i := 0; i < size; i += 4 {
			for x := 0; x < size; x++ {
				img.SetRGBA(x, i, patternColor)
				img.SetRGBA(i, x, patternColor)
			}
		}
	case "dots":
		quarter, threeQuarter := size/4, 3*size/4
		for _, p := range []image.Point{{quarter, quarter}, {threeQuarter, quarter}, {quarter, threeQuarter}, {threeQuarter, threeQuarter}} {
			for dy := 0; dy < 2; dy++ {
				for dx := 0; dx < 2; dx++ {
					img.SetRGBA(p.X+dx, p.Y+dy, patternColor)
				}
			}
		}
	case "cross":
		mid := size / 2
		for i := 2; i < size-2; i++ {
			img.SetRGBA(mid, i, patternColor)
			img.SetRGBA(i, mid, patternColor)
		}
	case "diagonal":
		for i := 0; i < size; i++ {
			img.SetRGBA(i, i, patternColor)
			img.SetRGBA(i, size-1-i, patternColor)
		}
	}

	return img
}

// CreateCircle creates a circular sprite on a transparent background
func CreateCircle(fillColor, outlineColor color.RGBA, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	center := size / 2
	radius := size/2 - 2
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-center, y-center
			distSq := dx*dx + dy*dy
			if distSq <= radius*radius {
				img.SetRGBA(x, y, fillColor)
			} else if distSq <= (radius+1)*(radius+1) {
				img.SetRGBA(x, y, outlineColor)
			}
		}
	}
	return img
}

// SavePNG saves an image to a PNG file
func SavePNG(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	if err := png.Encode(file, img); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return nil
}

// Darken returns a darker version of a color
func Darken(c color.RGBA, factor float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(c.R) * factor),
		G: uint8(float64(c.G) * factor),
		B: uint8(float64(c.B) * factor),
		A: c.A,
	}
}
