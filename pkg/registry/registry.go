// Package registry holds the ordered scene catalog of a tour.
package registry

import (
	"fmt"
	"strings"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// DanglingEdge is a hotspot whose target scene is not part of the tour.
type DanglingEdge struct {
	From   string // scene declaring the hotspot
	Target string // the missing scene ID
}

func (e DanglingEdge) String() string {
	return fmt.Sprintf("%s -> %s", e.From, e.Target)
}

// GraphError reports every hotspot edge that points outside the tour. The
// registry refuses to build a graph that is not closed, so a bad link is a
// startup failure rather than a dead click during a visit.
type GraphError struct {
	Dangling []DanglingEdge
}

func (e *GraphError) Error() string {
	edges := make([]string, len(e.Dangling))
	for i, d := range e.Dangling {
		edges[i] = d.String()
	}
	return fmt.Sprintf("tour graph is not closed: %d dangling hotspot target(s): %s",
		len(e.Dangling), strings.Join(edges, ", "))
}

// Registry is the scene catalog of one tour, fixed at construction time.
// Declaration order is preserved; the position counter and index jumps
// derive from it.
type Registry struct {
	scenes  []domain.Scene
	index   map[string]int
	entryID string
}

// New builds a registry from scenes in declaration order. entryID selects
// the scene a fresh session starts on; empty means the first scene.
//
// Construction fails on an empty tour, a duplicate or missing scene ID, an
// unknown entry scene, and, with *GraphError, when any hotspot targets a
// scene outside the tour.
func New(entryID string, scenes ...domain.Scene) (*Registry, error) {
	if len(scenes) == 0 {
		return nil, fmt.Errorf("tour has no scenes")
	}

	index := make(map[string]int, len(scenes))
	for i, s := range scenes {
		if s.ID == "" {
			return nil, fmt.Errorf("scene at position %d has no id", i)
		}
		if prev, ok := index[s.ID]; ok {
			return nil, fmt.Errorf("duplicate scene id %q (positions %d and %d)", s.ID, prev, i)
		}
		index[s.ID] = i
	}

	var dangling []DanglingEdge
	for _, s := range scenes {
		for _, h := range s.Hotspots {
			if _, ok := index[h.Target]; !ok {
				dangling = append(dangling, DanglingEdge{From: s.ID, Target: h.Target})
			}
		}
	}
	if len(dangling) > 0 {
		return nil, &GraphError{Dangling: dangling}
	}

	if entryID == "" {
		entryID = scenes[0].ID
	}
	if _, ok := index[entryID]; !ok {
		return nil, fmt.Errorf("entry scene %q: %w", entryID, domain.ErrSceneNotFound)
	}

	r := &Registry{
		scenes:  make([]domain.Scene, len(scenes)),
		index:   index,
		entryID: entryID,
	}
	copy(r.scenes, scenes)
	return r, nil
}

// Get returns the scene with the given ID.
func (r *Registry) Get(id string) (domain.Scene, error) {
	i, ok := r.index[id]
	if !ok {
		return domain.Scene{}, fmt.Errorf("%w: %q", domain.ErrSceneNotFound, id)
	}
	return r.scenes[i], nil
}

// Has reports whether a scene with the given ID exists.
func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// At returns the scene at position i in declaration order.
func (r *Registry) At(i int) (domain.Scene, error) {
	if i < 0 || i >= len(r.scenes) {
		return domain.Scene{}, fmt.Errorf("%w: position %d of %d", domain.ErrSceneNotFound, i, len(r.scenes))
	}
	return r.scenes[i], nil
}

// IndexOf returns the declaration-order position of a scene ID.
func (r *Registry) IndexOf(id string) (int, bool) {
	i, ok := r.index[id]
	return i, ok
}

// List returns the scenes in declaration order. The slice is a copy; the
// scene values themselves are shared and treated as read-only.
func (r *Registry) List() []domain.Scene {
	out := make([]domain.Scene, len(r.scenes))
	copy(out, r.scenes)
	return out
}

// Len returns the number of scenes in the tour.
func (r *Registry) Len() int {
	return len(r.scenes)
}

// EntryID returns the ID of the scene a fresh session starts on.
func (r *Registry) EntryID() string {
	return r.entryID
}

// Entry returns the entry scene.
func (r *Registry) Entry() domain.Scene {
	return r.scenes[r.index[r.entryID]]
}
