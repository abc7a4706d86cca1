package compositor

import (
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"chosenoffset.com/electricsheep/internal/entity"
	"chosenoffset.com/electricsheep/internal/render"
	"chosenoffset.com/electricsheep/internal/tilemap"
)

// Frame is a single open frame. Draws are issued to the backend immediately,
// in call order. A Frame is not reusable once closed.
type Frame struct {
	c         *Compositor
	numBlocks image.Point
	closed    bool
}

func (f *Frame) mustBeOpen(op string) {
	if f.closed {
		panic(fmt.Sprintf("compositor: %s on a closed frame", op))
	}
}

// SetNumBlocks sets the logical grid used by AddEntity for this frame.
func (f *Frame) SetNumBlocks(cols, rows int) {
	f.mustBeOpen("SetNumBlocks")
	f.numBlocks = image.Pt(cols, rows)
}

// Viewport returns the backend size in pixels.
func (f *Frame) Viewport() image.Point {
	w, h := f.c.backend.WindowSize()
	return image.Pt(w, h)
}

// AddBackground stretches texture id over the whole window.
func (f *Frame) AddBackground(id uint32) {
	f.mustBeOpen("AddBackground")
	dst := image.Rectangle{Max: f.Viewport()}
	f.copy(id, nil, &dst)
}

// AddRegion copies the src part of texture id into dst. A nil src copies the
// whole texture and a nil dst covers the whole window.
func (f *Frame) AddRegion(id uint32, src, dst *image.Rectangle) {
	f.mustBeOpen("AddRegion")
	f.copy(id, src, dst)
}

// AddTileLayer draws every visible cell of m scaled to the window.
func (f *Frame) AddTileLayer(m *tilemap.Map) {
	f.mustBeOpen("AddTileLayer")
	for p := range m.VisibleCells(f.Viewport()) {
		dst := p.Rect
		f.copy(p.Visual, nil, &dst)
	}
}

// AddEntity draws s at its block position. The frame must know the logical
// grid size; drawing an entity without it panics.
func (f *Frame) AddEntity(s *entity.Sprite) {
	f.mustBeOpen("AddEntity")
	if f.numBlocks.X <= 0 || f.numBlocks.Y <= 0 {
		panic("compositor: AddEntity before the number of blocks was set")
	}

	unit := tilemap.UnitSize(f.Viewport(), f.numBlocks.Y, f.numBlocks.X)
	x := int(s.Position.X() * float64(unit.X))
	y := int(s.Position.Y() * float64(unit.Y))
	w := int(s.Size.X() * float64(unit.X))
	h := int(s.Size.Y() * float64(unit.Y))
	dst := image.Rect(x, y, x+w, y+h)
	f.copy(s.Visual, nil, &dst)
}

// Close waits for the frame slot, presents and records the present time.
// Closing twice panics.
func (f *Frame) Close() {
	f.mustBeOpen("Close")
	f.closed = true
	f.c.present()
}

func (f *Frame) copy(id uint32, src, dst *image.Rectangle) {
	tex := f.c.registry.Resolve(id)
	if err := f.c.backend.Copy(tex, src, dst); err != nil {
		f.c.logger.WithError(render.Recoverable("copy", err)).WithFields(log.Fields{
			"op":         "copy",
			"texture_id": id,
		}).Warn("Backend call failed")
	}
}
