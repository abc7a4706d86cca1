package tilemap

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxCells bounds the grid size accepted by ReadFrom.
const maxCells = 1 << 24

// WriteTo serializes the map as a little-endian header (rows, cols as uint32)
// followed by every cell as (visual uint32, physical uint32), row-major.
func (m *Map) WriteTo(w io.Writer) (int64, error) {
	buf := make([]byte, 8+8*len(m.cells))
	binary.LittleEndian.PutUint32(buf[0:], uint32(m.rows))
	binary.LittleEndian.PutUint32(buf[4:], uint32(m.cols))
	for i, c := range m.cells {
		off := 8 + 8*i
		visual, physical := Decode(c)
		binary.LittleEndian.PutUint32(buf[off:], visual)
		binary.LittleEndian.PutUint32(buf[off+4:], physical)
	}
	n, err := w.Write(buf)
	return int64(n), err
}

// ReadFrom decodes a map written by WriteTo.
func ReadFrom(r io.Reader) (*Map, error) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("failed to read tile map header: %w", err)
	}
	rows := int(binary.LittleEndian.Uint32(header[0:]))
	cols := int(binary.LittleEndian.Uint32(header[4:]))
	if rows <= 0 || cols <= 0 || uint64(rows)*uint64(cols) > maxCells {
		return nil, fmt.Errorf("%w: %dx%d", ErrDimensions, rows, cols)
	}

	m, err := New(rows, cols)
	if err != nil {
		return nil, err
	}

	body := make([]byte, 8*rows*cols)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("failed to read %dx%d tile map cells: %w", rows, cols, err)
	}
	for i := range m.cells {
		off := 8 * i
		m.cells[i] = Encode(
			binary.LittleEndian.Uint32(body[off:]),
			binary.LittleEndian.Uint32(body[off+4:]),
		)
	}
	return m, nil
}
