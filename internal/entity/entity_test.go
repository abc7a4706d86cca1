package entity

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/electricsheep/internal/render"
	"chosenoffset.com/electricsheep/internal/render/rendertest"
)

func TestDiagonalMovement(t *testing.T) {
	e := New(mgl64.Vec2{0, 0})
	pressed := Actions(0).With(MoveUp).With(MoveRight)

	moved := ApplyInput(e, pressed, 0.1)

	expected := mgl64.Vec2{0.1, -0.1}
	if !moved.Position.ApproxEqual(expected) {
		t.Errorf("Expected position %v, got %v", expected, moved.Position)
	}
	if e.Position != (mgl64.Vec2{0, 0}) {
		t.Errorf("Expected original entity to be unchanged, got %v", e.Position)
	}
}

func TestApplyInputAxes(t *testing.T) {
	tests := []struct {
		name     string
		pressed  Actions
		expected mgl64.Vec2
	}{
		{"none", 0, mgl64.Vec2{1, 1}},
		{"left", Actions(MoveLeft), mgl64.Vec2{0.5, 1}},
		{"right", Actions(MoveRight), mgl64.Vec2{1.5, 1}},
		{"up", Actions(MoveUp), mgl64.Vec2{1, 0.5}},
		{"down", Actions(MoveDown), mgl64.Vec2{1, 1.5}},
		{"left and right cancel", Actions(MoveLeft).With(MoveRight), mgl64.Vec2{1, 1}},
		{"down left", Actions(MoveDown).With(MoveLeft), mgl64.Vec2{0.5, 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyInput(New(mgl64.Vec2{1, 1}), tt.pressed, 0.5)
			if !got.Position.ApproxEqual(tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, got.Position)
			}
		})
	}
}

func TestDefaultSize(t *testing.T) {
	s := NewSprite(3, 1, mgl64.Vec2{2, 4})
	if s.Size != (mgl64.Vec2{1, 1}) {
		t.Errorf("Expected size {1,1}, got %v", s.Size)
	}
	if s.Visual != 3 || s.Physical != 1 {
		t.Errorf("Expected ids (3, 1), got (%d, %d)", s.Visual, s.Physical)
	}

	min, max := s.Bounds()
	if min != (mgl64.Vec2{2, 4}) || max != (mgl64.Vec2{3, 5}) {
		t.Errorf("Expected bounds {2,4}-{3,5}, got %v-%v", min, max)
	}
}

func TestAdvance(t *testing.T) {
	e := New(mgl64.Vec2{0, 0})
	e.Velocity = mgl64.Vec2{1, 0}
	e.Acceleration = mgl64.Vec2{0, 2}

	e.Advance(0.5)

	if !e.Velocity.ApproxEqual(mgl64.Vec2{1, 1}) {
		t.Errorf("Expected velocity {1,1}, got %v", e.Velocity)
	}
	if !e.Position.ApproxEqual(mgl64.Vec2{0.5, 0.5}) {
		t.Errorf("Expected position {0.5,0.5}, got %v", e.Position)
	}
}

func TestKeyMapPoll(t *testing.T) {
	km := DefaultKeyMap()

	in := rendertest.Input{render.KeyW: true, render.KeyRight: true}
	pressed := km.Poll(in)

	if !pressed.Has(MoveUp) || !pressed.Has(MoveRight) {
		t.Errorf("Expected up and right, got %v", pressed)
	}
	if pressed.Has(MoveLeft) || pressed.Has(MoveDown) {
		t.Errorf("Expected only up and right, got %v", pressed)
	}

	if km.Poll(rendertest.Input{}) != 0 {
		t.Error("Expected no actions with no keys held")
	}
}

func TestParseKeyMap(t *testing.T) {
	km, err := ParseKeyMap(map[string]string{
		"a":     "move_left",
		"space": "move_up",
	})
	if err != nil {
		t.Fatalf("Failed to parse bindings: %v", err)
	}
	if km[render.KeySpace] != MoveUp {
		t.Errorf("Expected space bound to move_up, got %v", km[render.KeySpace])
	}

	if _, err := ParseKeyMap(map[string]string{"q": "move_left"}); err == nil {
		t.Error("Expected error for unknown key")
	}
	if _, err := ParseKeyMap(map[string]string{"a": "jump"}); err == nil {
		t.Error("Expected error for unknown action")
	}
	if _, err := ParseKeyMap(map[string]string{"escape": "move_left"}); err == nil {
		t.Error("Expected error for binding escape")
	}
}

func TestActionsString(t *testing.T) {
	s := Actions(MoveLeft).With(MoveDown)
	if s.String() != "[move_left move_down]" {
		t.Errorf("Expected '[move_left move_down]', got '%s'", s.String())
	}
	if MoveUp.String() != "move_up" {
		t.Errorf("Expected 'move_up', got '%s'", MoveUp.String())
	}
}
