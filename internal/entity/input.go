package entity

import (
	"fmt"
	"strings"

	"chosenoffset.com/electricsheep/internal/render"
)

// Action is a movement action.
type Action uint8

const (
	MoveLeft Action = 1 << iota
	MoveRight
	MoveUp
	MoveDown
)

var actionNames = []struct {
	action Action
	name   string
}{
	{MoveLeft, "move_left"},
	{MoveRight, "move_right"},
	{MoveUp, "move_up"},
	{MoveDown, "move_down"},
}

func (a Action) String() string {
	for _, n := range actionNames {
		if n.action == a {
			return n.name
		}
	}
	return fmt.Sprintf("action(%d)", uint8(a))
}

// ParseAction returns the action with the given name (e.g. "move_left").
func ParseAction(name string) (Action, error) {
	for _, n := range actionNames {
		if n.name == name {
			return n.action, nil
		}
	}
	return 0, fmt.Errorf("unknown action: %s", name)
}

// Actions is the set of actions pressed in a frame.
type Actions uint8

// Has reports whether a is in the set.
func (s Actions) Has(a Action) bool {
	return s&Actions(a) != 0
}

// With returns the set with a added.
func (s Actions) With(a Action) Actions {
	return s | Actions(a)
}

func (s Actions) String() string {
	var names []string
	for _, n := range actionNames {
		if s.Has(n.action) {
			names = append(names, n.name)
		}
	}
	return "[" + strings.Join(names, " ") + "]"
}

// KeyMap maps keys to movement actions.
type KeyMap map[render.Key]Action

// DefaultKeyMap binds WASD and the arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		render.KeyA:     MoveLeft,
		render.KeyD:     MoveRight,
		render.KeyW:     MoveUp,
		render.KeyS:     MoveDown,
		render.KeyLeft:  MoveLeft,
		render.KeyRight: MoveRight,
		render.KeyUp:    MoveUp,
		render.KeyDown:  MoveDown,
	}
}

// ParseKeyMap builds a KeyMap from key name to action name bindings. Escape
// cannot be bound.
func ParseKeyMap(bindings map[string]string) (KeyMap, error) {
	km := make(KeyMap, len(bindings))
	for keyName, actionName := range bindings {
		key, ok := render.ParseKey(keyName)
		if !ok {
			return nil, fmt.Errorf("unknown key in bindings: %s", keyName)
		}
		if key == render.KeyEscape {
			return nil, fmt.Errorf("key %s is reserved for quitting", keyName)
		}
		action, err := ParseAction(actionName)
		if err != nil {
			return nil, err
		}
		km[key] = action
	}
	return km, nil
}

// Poll returns the actions whose keys are currently held.
func (km KeyMap) Poll(in render.InputSource) Actions {
	var pressed Actions
	for key, action := range km {
		if in.IsKeyPressed(key) {
			pressed = pressed.With(action)
		}
	}
	return pressed
}
