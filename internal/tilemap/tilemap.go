package tilemap

import (
	"errors"
	"fmt"
	"image"
	"iter"
)

// ErrDimensions is returned when a map is built with invalid dimensions.
var ErrDimensions = errors.New("tilemap: invalid dimensions")

// Map is a fixed-size grid of cells stored row-major with the origin at the
// top-left. A Map is not modified once the scene is running.
type Map struct {
	rows, cols int
	cells      []Cell
}

// Placement is a destination rectangle for one visible cell.
type Placement struct {
	Row, Col int
	Rect     image.Rectangle
	Visual   uint32
}

// New creates a map of empty cells.
func New(rows, cols int) (*Map, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, rows, cols)
	}
	return &Map{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}, nil
}

// FromRows builds a map from a rectangular slice of rows.
func FromRows(rows [][]Cell) (*Map, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrDimensions)
	}
	m, err := New(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != m.cols {
			return nil, fmt.Errorf("%w: row %d has %d cells, expected %d", ErrDimensions, r, len(row), m.cols)
		}
		copy(m.cells[r*m.cols:], row)
	}
	return m, nil
}

// Rows returns the number of rows.
func (m *Map) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Map) Cols() int { return m.cols }

// InBounds reports whether (row, col) lies inside the map.
func (m *Map) InBounds(row, col int) bool {
	return row >= 0 && row < m.rows && col >= 0 && col < m.cols
}

// At returns the cell at (row, col). Out of bounds coordinates return Empty.
func (m *Map) At(row, col int) Cell {
	if !m.InBounds(row, col) {
		return Empty
	}
	return m.cells[row*m.cols+col]
}

// Set stores a cell. It is meant for building maps before a scene starts.
func (m *Map) Set(row, col int, c Cell) error {
	if !m.InBounds(row, col) {
		return fmt.Errorf("coordinates out of bounds: (%d, %d)", row, col)
	}
	m.cells[row*m.cols+col] = c
	return nil
}

// Physical returns the physical class at (row, col), 0 when out of bounds.
func (m *Map) Physical(row, col int) uint32 {
	return m.At(row, col).Physical()
}

// UnitSize returns the pixel size of one cell when a rows x cols grid covers
// the viewport. Integer division: residual pixels on the right and bottom
// edges are left uncovered.
func UnitSize(viewport image.Point, rows, cols int) image.Point {
	if rows <= 0 || cols <= 0 {
		return image.Point{}
	}
	return image.Pt(viewport.X/cols, viewport.Y/rows)
}

// VisibleCells yields a placement for every cell with a non-zero visual id,
// row-major from the top-left. The sequence is pure and can be ranged over
// any number of times.
func (m *Map) VisibleCells(viewport image.Point) iter.Seq[Placement] {
	return func(yield func(Placement) bool) {
		unit := UnitSize(viewport, m.rows, m.cols)
		if unit.X <= 0 || unit.Y <= 0 {
			return
		}
		for row := 0; row < m.rows; row++ {
			for col := 0; col < m.cols; col++ {
				visual := m.cells[row*m.cols+col].Visual()
				if visual == 0 {
					continue
				}
				x, y := col*unit.X, row*unit.Y
				p := Placement{
					Row:    row,
					Col:    col,
					Rect:   image.Rect(x, y, x+unit.X, y+unit.Y),
					Visual: visual,
				}
				if !yield(p) {
					return
				}
			}
		}
	}
}
