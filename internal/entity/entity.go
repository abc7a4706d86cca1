// Package entity holds the state of moveable objects measured in blocks and
// the keyboard mapping that moves them.
package entity

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Entity is a moveable object. All vectors are in blocks.
type Entity struct {
	Position     mgl64.Vec2
	Velocity     mgl64.Vec2
	Acceleration mgl64.Vec2
	Size         mgl64.Vec2
}

// New creates an entity at position with the default size of one block.
func New(position mgl64.Vec2) Entity {
	return Entity{
		Position: position,
		Size:     mgl64.Vec2{1, 1},
	}
}

// Advance integrates acceleration into velocity and velocity into position
// over dt frames.
func (e *Entity) Advance(dt float64) {
	e.Velocity = e.Velocity.Add(e.Acceleration.Mul(dt))
	e.Position = e.Position.Add(e.Velocity.Mul(dt))
}

// Bounds returns the min and max corners of the entity.
func (e *Entity) Bounds() (min, max mgl64.Vec2) {
	return e.Position, e.Position.Add(e.Size)
}

// Sprite is an entity with a texture and a physics class.
type Sprite struct {
	Entity
	Visual   uint32
	Physical uint32
}

// NewSprite creates a one-block sprite.
func NewSprite(visual, physical uint32, position mgl64.Vec2) *Sprite {
	return &Sprite{
		Entity:   New(position),
		Visual:   visual,
		Physical: physical,
	}
}

// ApplyInput returns e moved by step along each pressed axis. Up and left are
// negative. Simultaneous actions add up, so up and right together move
// diagonally. The step is per frame, independent of elapsed time.
func ApplyInput(e Entity, pressed Actions, step float64) Entity {
	var delta mgl64.Vec2
	if pressed.Has(MoveLeft) {
		delta[0] -= step
	}
	if pressed.Has(MoveRight) {
		delta[0] += step
	}
	if pressed.Has(MoveUp) {
		delta[1] -= step
	}
	if pressed.Has(MoveDown) {
		delta[1] += step
	}
	e.Position = e.Position.Add(delta)
	return e
}
