package tilemap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// LegendEntry defines the cell a legend symbol stands for
type LegendEntry struct {
	Visual   uint32 `json:"visual"`
	Physical uint32 `json:"physical"`
}

// MapData is the JSON form of a tile map. Each string in Tiles is one row;
// each rune is looked up in Legend. Runes missing from the legend are empty.
type MapData struct {
	Name   string                 `json:"name"`
	Legend map[string]LegendEntry `json:"legend"`
	Tiles  []string               `json:"tiles"`
}

// Load reads a tile map from disk. Files ending in .json use the legend
// format, anything else the binary format written by WriteTo.
func Load(path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read map file %s: %w", path, err)
	}

	if strings.EqualFold(filepath.Ext(path), ".json") {
		var mapData MapData
		if err := json.Unmarshal(data, &mapData); err != nil {
			return nil, fmt.Errorf("failed to parse map file %s: %w", path, err)
		}
		m, err := mapData.Build()
		if err != nil {
			return nil, fmt.Errorf("invalid map data in %s: %w", path, err)
		}
		return m, nil
	}

	m, err := ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("invalid map data in %s: %w", path, err)
	}
	return m, nil
}

// Save writes the map in the binary format.
func Save(path string, m *Map) error {
	var buf bytes.Buffer
	if _, err := m.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode map: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write map file %s: %w", path, err)
	}
	return nil
}

// Build converts the legend form into a Map.
func (d *MapData) Build() (*Map, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}

	cols := utf8.RuneCountInString(d.Tiles[0])
	m, err := New(len(d.Tiles), cols)
	if err != nil {
		return nil, err
	}

	for row, line := range d.Tiles {
		col := 0
		for _, symbol := range line {
			if entry, ok := d.Legend[string(symbol)]; ok {
				m.cells[row*cols+col] = Encode(entry.Visual, entry.Physical)
			}
			col++
		}
	}
	return m, nil
}

// validate checks the rows are present and rectangular
func (d *MapData) validate() error {
	if len(d.Tiles) == 0 {
		return fmt.Errorf("%w: tiles array is empty", ErrDimensions)
	}

	width := utf8.RuneCountInString(d.Tiles[0])
	if width == 0 {
		return fmt.Errorf("%w: first row is empty", ErrDimensions)
	}

	for y, row := range d.Tiles {
		if n := utf8.RuneCountInString(row); n != width {
			return fmt.Errorf("%w: tiles array width mismatch at row %d: expected %d, got %d", ErrDimensions, y, width, n)
		}
	}

	for symbol := range d.Legend {
		if utf8.RuneCountInString(symbol) != 1 {
			return fmt.Errorf("legend symbol %q must be a single character", symbol)
		}
	}
	return nil
}
