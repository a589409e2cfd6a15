package dsl

import (
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/registry"
)

// Builder assembles a tour scene by scene. Scenes keep the order in which
// they were first declared; position-based navigation derives from it.
//
// The zero value is not usable; call New.
type Builder struct {
	entry  string
	order  []string
	scenes map[string]*SceneBuilder
}

// New creates an empty tour builder.
func New() *Builder {
	return &Builder{scenes: make(map[string]*SceneBuilder)}
}

// Entry selects the scene a fresh session starts on. Unset, the first
// declared scene is the entry.
func (b *Builder) Entry(id string) *Builder {
	b.entry = id
	return b
}

// Scene returns the builder for the scene with the given ID, creating it on
// first use. Repeated calls with the same ID return the existing builder, so
// a scene can be named by an exit first and filled in later.
func (b *Builder) Scene(id string) *SceneBuilder {
	if sb, ok := b.scenes[id]; ok {
		return sb
	}
	sb := &SceneBuilder{scene: domain.Scene{ID: id}}
	b.scenes[id] = sb
	b.order = append(b.order, id)
	return sb
}

// EntryID returns the configured entry scene ID. Empty means the first
// declared scene, matching what Build will select.
func (b *Builder) EntryID() string {
	return b.entry
}

// Scenes returns the declared scenes in declaration order.
func (b *Builder) Scenes() []domain.Scene {
	out := make([]domain.Scene, 0, len(b.order))
	for _, id := range b.order {
		out = append(out, b.scenes[id].Build())
	}
	return out
}

// Build assembles the declared scenes into a registry. It fails the way
// registry.New fails: on an empty tour, an unknown entry scene, or, with
// *registry.GraphError, when any exit targets a scene that was never
// declared.
func (b *Builder) Build() (*registry.Registry, error) {
	return registry.New(b.entry, b.Scenes()...)
}
