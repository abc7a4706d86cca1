// Package scene loads a scene description from data files and runs it: it
// registers the scene's textures, loads its tile map, moves its sprites from
// keyboard input and composites one frame per call.
package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"chosenoffset.com/electricsheep/internal/asset"
	"chosenoffset.com/electricsheep/internal/entity"
	"chosenoffset.com/electricsheep/internal/pacer"
)

// Config holds everything needed to build a scene
type Config struct {
	Name string `json:"name"`

	Window   WindowConfig   `json:"window"`
	Timing   TimingConfig   `json:"timing"`
	Grid     GridConfig     `json:"grid"`
	Movement MovementConfig `json:"movement"`

	Background uint32 `json:"background"` // Texture id stretched over the window, 0 for none
	Map        string `json:"map"`        // .json legend map or binary tile file

	Textures []TextureConfig   `json:"textures"`
	Sprites  []SpriteConfig    `json:"sprites"`
	Bindings map[string]string `json:"bindings"` // Key name to action name, defaults to WASD + arrows

	// dir is the directory relative paths resolve against
	dir string
}

// WindowConfig describes the output window
type WindowConfig struct {
	Title     string `json:"title"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Resizable bool   `json:"resizable"`
}

// TimingConfig controls frame pacing
type TimingConfig struct {
	TargetFPS         uint32  `json:"target_fps"`
	WakeBufferUS      int64   `json:"wake_buffer_us"`      // Wake this many microseconds before the deadline
	DriftThresholdFPS float64 `json:"drift_threshold_fps"` // Report drift beyond this many fps
}

// GridConfig is the logical grid sprites are positioned on
type GridConfig struct {
	Cols int `json:"cols"` // 0 uses the map's columns
	Rows int `json:"rows"` // 0 uses the map's rows
}

// MovementConfig controls how far controlled sprites move per frame
type MovementConfig struct {
	Step         float64 `json:"step"`           // Blocks per frame per held direction
	ScaleByDelta bool    `json:"scale_by_delta"` // Scale the step by the measured frame time
}

// TextureConfig registers one texture, either from an image file or a
// generated placeholder.
type TextureConfig struct {
	ID          uint32             `json:"id"`
	Path        string             `json:"path,omitempty"`
	Placeholder *asset.Placeholder `json:"placeholder,omitempty"`
}

// SpriteConfig places one sprite in the scene
type SpriteConfig struct {
	Visual       uint32     `json:"visual"`
	Physical     uint32     `json:"physical"`
	Position     mgl64.Vec2 `json:"position"`
	Size         mgl64.Vec2 `json:"size"` // Defaults to one block
	Velocity     mgl64.Vec2 `json:"velocity"`
	Acceleration mgl64.Vec2 `json:"acceleration"`
	Controlled   bool       `json:"controlled"` // Moved by keyboard input
}

// DefaultConfig returns a 1280x720 window at 60 fps with a 0.1 block step
func DefaultConfig() *Config {
	return &Config{
		Name: "untitled",
		Window: WindowConfig{
			Title:  "electric sheep",
			Width:  1280,
			Height: 720,
		},
		Timing: TimingConfig{
			TargetFPS:         pacer.DefaultFPS,
			WakeBufferUS:      pacer.DefaultWakeBuffer.Microseconds(),
			DriftThresholdFPS: pacer.DefaultDriftThreshold,
		},
		Movement: MovementConfig{
			Step: 0.1,
		},
	}
}

// LoadConfig loads a scene config from a JSON file. Missing fields keep
// their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene config: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse scene config %s: %w", path, err)
	}
	config.dir = filepath.Dir(path)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config %s: %w", path, err)
	}
	return config, nil
}

// SetDir sets the directory relative texture and map paths resolve against.
func (c *Config) SetDir(dir string) {
	c.dir = dir
}

// Resolve returns path joined to the config directory unless it is absolute.
func (c *Config) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.dir, path)
}

// WakeBuffer returns the pacer wake buffer as a duration.
func (c *Config) WakeBuffer() time.Duration {
	return time.Duration(c.Timing.WakeBufferUS) * time.Microsecond
}

// KeyMap returns the configured bindings, or the default key map when none
// are set.
func (c *Config) KeyMap() (entity.KeyMap, error) {
	if len(c.Bindings) == 0 {
		return entity.DefaultKeyMap(), nil
	}
	return entity.ParseKeyMap(c.Bindings)
}

// Validate checks the config for values the scene cannot run with.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	if c.Timing.TargetFPS == 0 {
		return errors.New("target_fps must be positive")
	}
	if c.Timing.WakeBufferUS < 0 {
		return errors.New("wake_buffer_us must not be negative")
	}
	if c.Grid.Cols < 0 || c.Grid.Rows < 0 {
		return fmt.Errorf("grid must not be negative, got %dx%d", c.Grid.Cols, c.Grid.Rows)
	}
	if c.Movement.Step < 0 {
		return errors.New("movement step must not be negative")
	}

	ids := make(map[uint32]bool, len(c.Textures))
	for i, tex := range c.Textures {
		if tex.ID == 0 {
			return fmt.Errorf("texture %d: id 0 is reserved for empty cells", i)
		}
		if (tex.Path == "") == (tex.Placeholder == nil) {
			return fmt.Errorf("texture %d: exactly one of path or placeholder is required", tex.ID)
		}
		ids[tex.ID] = true
	}

	if c.Background != 0 && !ids[c.Background] {
		return fmt.Errorf("background texture %d is not defined", c.Background)
	}
	for i, s := range c.Sprites {
		if !ids[s.Visual] {
			return fmt.Errorf("sprite %d: texture %d is not defined", i, s.Visual)
		}
		if s.Size[0] < 0 || s.Size[1] < 0 {
			return fmt.Errorf("sprite %d: size must not be negative", i)
		}
	}
	if len(c.Sprites) > 0 && c.Map == "" && (c.Grid.Cols == 0 || c.Grid.Rows == 0) {
		return errors.New("sprites need a grid or a map to be positioned on")
	}

	if _, err := c.KeyMap(); err != nil {
		return err
	}
	return nil
}

// sprite builds the sprite described by s.
func (s SpriteConfig) sprite() *entity.Sprite {
	sp := entity.NewSprite(s.Visual, s.Physical, s.Position)
	if s.Size != (mgl64.Vec2{}) {
		sp.Size = s.Size
	}
	sp.Velocity = s.Velocity
	sp.Acceleration = s.Acceleration
	return sp
}
