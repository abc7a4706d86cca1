package scene

import (
	"fmt"
	"image"

	log "github.com/sirupsen/logrus"

	"chosenoffset.com/electricsheep/internal/asset"
	"chosenoffset.com/electricsheep/internal/compositor"
	"chosenoffset.com/electricsheep/internal/entity"
	"chosenoffset.com/electricsheep/internal/pacer"
	"chosenoffset.com/electricsheep/internal/render"
	"chosenoffset.com/electricsheep/internal/texture"
	"chosenoffset.com/electricsheep/internal/tilemap"
)

// Scene is a running scene: textures, tile map, sprites and the compositor
// that draws them.
type Scene struct {
	config *Config

	registry   *texture.Registry
	pacer      *pacer.Pacer
	compositor *compositor.Compositor
	input      render.InputSource
	keys       entity.KeyMap
	logger     log.FieldLogger

	tiles      *tilemap.Map
	sprites    []*entity.Sprite
	controlled []*entity.Sprite
}

// Option configures a Scene.
type Option func(*options)

type options struct {
	logger log.FieldLogger
	clock  pacer.Clock
}

// WithLogger sets the logger used by the scene and its compositor.
func WithLogger(logger log.FieldLogger) Option {
	return func(o *options) { o.logger = logger }
}

// WithClock sets the clock frames are paced with.
func WithClock(clock pacer.Clock) Option {
	return func(o *options) { o.clock = clock }
}

// New builds the scene described by config on backend. Texture registration
// failures from the backend are fatal render failures.
func New(config *Config, backend render.Backend, input render.InputSource, opts ...Option) (*Scene, error) {
	o := options{logger: log.StandardLogger(), clock: pacer.SystemClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scene config: %w", err)
	}
	keys, err := config.KeyMap()
	if err != nil {
		return nil, err
	}

	s := &Scene{
		config: config,
		input:  input,
		keys:   keys,
		logger: o.logger.WithField("scene", config.Name),
	}

	s.registry = texture.NewRegistry(backend)
	s.registry.SetLogger(s.logger)
	if err := s.loadTextures(); err != nil {
		s.registry.Close()
		return nil, err
	}

	if config.Map != "" {
		m, err := tilemap.Load(config.Resolve(config.Map))
		if err != nil {
			s.registry.Close()
			return nil, err
		}
		if err := s.checkMapTextures(m); err != nil {
			s.registry.Close()
			return nil, err
		}
		s.tiles = m
	}

	for _, sc := range config.Sprites {
		sp := sc.sprite()
		s.sprites = append(s.sprites, sp)
		if sc.Controlled {
			s.controlled = append(s.controlled, sp)
		}
	}

	s.pacer = pacer.New(config.Timing.TargetFPS,
		pacer.WithClock(o.clock),
		pacer.WithWakeBuffer(config.WakeBuffer()),
		pacer.WithDriftThreshold(config.Timing.DriftThresholdFPS),
	)
	grid := s.Grid()
	s.compositor = compositor.New(backend, s.registry, s.pacer,
		compositor.WithLogger(s.logger),
		compositor.WithNumBlocks(grid.X, grid.Y),
	)

	s.logger.WithFields(log.Fields{
		"textures": s.registry.Len(),
		"sprites":  len(s.sprites),
		"grid":     fmt.Sprintf("%dx%d", grid.X, grid.Y),
	}).Info("Scene loaded")
	return s, nil
}

// loadTextures registers every configured texture.
func (s *Scene) loadTextures() error {
	for _, tc := range s.config.Textures {
		var (
			img *image.RGBA
			err error
		)
		if tc.Placeholder != nil {
			img, err = tc.Placeholder.Generate()
		} else {
			img, err = asset.Load(s.config.Resolve(tc.Path))
		}
		if err != nil {
			return fmt.Errorf("failed to load texture %d: %w", tc.ID, err)
		}
		if err := s.registry.Register(tc.ID, img); err != nil {
			return err
		}
	}
	return nil
}

// checkMapTextures rejects maps that draw textures the scene never registers.
func (s *Scene) checkMapTextures(m *tilemap.Map) error {
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Cols(); col++ {
			v := m.At(row, col).Visual()
			if v == 0 {
				continue
			}
			if _, ok := s.registry.Lookup(v); !ok {
				return fmt.Errorf("map cell (%d,%d) uses undefined texture %d", row, col, v)
			}
		}
	}
	return nil
}

// Grid returns the logical grid as (cols, rows). Unset dimensions follow the
// tile map.
func (s *Scene) Grid() image.Point {
	grid := image.Pt(s.config.Grid.Cols, s.config.Grid.Rows)
	if s.tiles != nil {
		if grid.X == 0 {
			grid.X = s.tiles.Cols()
		}
		if grid.Y == 0 {
			grid.Y = s.tiles.Rows()
		}
	}
	return grid
}

// Frame runs one frame: it polls input, moves the sprites and composites
// background, tiles and sprites in that order. Escape ends the run with
// render.ErrStop.
func (s *Scene) Frame() error {
	if s.input != nil && s.input.IsKeyPressed(render.KeyEscape) {
		return render.ErrStop
	}

	dt := 1.0
	if s.config.Movement.ScaleByDelta {
		dt = float64(s.compositor.FrameDelta()) / float64(s.pacer.Period())
	}

	if s.input != nil && len(s.controlled) > 0 {
		pressed := s.keys.Poll(s.input)
		if pressed != 0 {
			for _, sp := range s.controlled {
				sp.Entity = entity.ApplyInput(sp.Entity, pressed, s.config.Movement.Step*dt)
			}
		}
	}
	for _, sp := range s.sprites {
		sp.Advance(dt)
	}

	return s.compositor.Render(func(f *compositor.Frame) error {
		if s.config.Background != 0 {
			f.AddBackground(s.config.Background)
		}
		if s.tiles != nil {
			f.AddTileLayer(s.tiles)
		}
		for _, sp := range s.sprites {
			f.AddEntity(sp)
		}
		return nil
	})
}

// Sprites returns the scene's sprites in draw order.
func (s *Scene) Sprites() []*entity.Sprite {
	return s.sprites
}

// Tiles returns the tile map, or nil when the scene has none.
func (s *Scene) Tiles() *tilemap.Map {
	return s.tiles
}

// Compositor returns the compositor drawing the scene.
func (s *Scene) Compositor() *compositor.Compositor {
	return s.compositor
}

// Config returns the scene's config.
func (s *Scene) Config() *Config {
	return s.config
}

// Close releases the scene's textures.
func (s *Scene) Close() {
	s.registry.Close()
	s.logger.WithField("frames", s.compositor.Frames()).Info("Scene closed")
}
