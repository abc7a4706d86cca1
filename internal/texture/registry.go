// Package texture owns the backend textures of a scene, keyed by ids chosen
// by the scene when it registers them.
package texture

import (
	"errors"
	"fmt"
	"image"
	"slices"

	log "github.com/sirupsen/logrus"

	"chosenoffset.com/electricsheep/internal/render"
)

// ErrDuplicateID is returned when an id is registered twice.
var ErrDuplicateID = errors.New("texture id already registered")

// Registry maps ids to the textures it created. It is used from the render
// goroutine only.
type Registry struct {
	backend  render.Backend
	textures map[uint32]render.Texture
	logger   log.FieldLogger
}

// NewRegistry creates an empty registry that creates textures on backend.
func NewRegistry(backend render.Backend) *Registry {
	return &Registry{
		backend:  backend,
		textures: make(map[uint32]render.Texture),
		logger:   log.StandardLogger(),
	}
}

// SetLogger replaces the logger used for registration messages.
func (r *Registry) SetLogger(logger log.FieldLogger) {
	r.logger = logger
}

// Register uploads img and stores the texture under id. Registering an id
// that is already present fails with ErrDuplicateID and leaves the existing
// texture in place. A backend that cannot create the texture yields a fatal
// render.Failure.
func (r *Registry) Register(id uint32, img *image.RGBA) error {
	if existing, exists := r.textures[id]; exists {
		w, h := existing.Size()
		return fmt.Errorf("%w: %d (%dx%d)", ErrDuplicateID, id, w, h)
	}
	if img == nil {
		return fmt.Errorf("texture %d: image is nil", id)
	}

	tex, err := r.backend.CreateTexture(img)
	if err == nil && tex == nil {
		err = errors.New("backend returned no texture")
	}
	if err != nil {
		return render.Fatal(fmt.Sprintf("create texture %d", id), err)
	}

	r.textures[id] = tex
	r.logger.WithFields(log.Fields{
		"texture_id": id,
		"width":      img.Bounds().Dx(),
		"height":     img.Bounds().Dy(),
	}).Debug("Registered texture")
	return nil
}

// Resolve returns the texture for id. Every id is expected to be registered
// during scene setup, so an unknown id panics.
func (r *Registry) Resolve(id uint32) render.Texture {
	tex, ok := r.textures[id]
	if !ok {
		panic(fmt.Sprintf("texture: id %d was never registered", id))
	}
	return tex
}

// Lookup returns the texture for id and whether it exists.
func (r *Registry) Lookup(id uint32) (render.Texture, bool) {
	tex, ok := r.textures[id]
	return tex, ok
}

// Len returns the number of registered textures.
func (r *Registry) Len() int {
	return len(r.textures)
}

// IDs returns the registered ids in ascending order.
func (r *Registry) IDs() []uint32 {
	ids := make([]uint32, 0, len(r.textures))
	for id := range r.textures {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Close disposes every texture. The registry is empty afterwards.
func (r *Registry) Close() {
	for _, id := range r.IDs() {
		r.textures[id].Dispose()
		delete(r.textures, id)
	}
}
