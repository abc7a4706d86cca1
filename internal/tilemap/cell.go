// Package tilemap defines the packed cell format of a tile grid and decodes
// a grid into positioned draw rectangles.
package tilemap

// Cell packs a visual id in the high 32 bits and a physical id in the low 32 bits.
// A zero visual id means there is nothing to draw; a zero physical id means
// the cell does not take part in collisions.
type Cell int64

// Empty is the cell with no visual and no physical class.
const Empty Cell = 0

// Encode packs visual and physical ids into a cell.
func Encode(visual, physical uint32) Cell {
	return Cell(int64(visual)<<32 | int64(physical))
}

// Decode unpacks a cell into its visual and physical ids.
func Decode(c Cell) (visual, physical uint32) {
	return uint32(c >> 32), uint32(c & 0xFFFFFFFF)
}

// Visual returns the visual id of the cell.
func (c Cell) Visual() uint32 {
	return uint32(c >> 32)
}

// Physical returns the physical id of the cell.
func (c Cell) Physical() uint32 {
	return uint32(c & 0xFFFFFFFF)
}

// IsVisible reports whether the cell has something to draw.
func (c Cell) IsVisible() bool {
	return c.Visual() != 0
}
