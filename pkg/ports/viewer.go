package ports

import (
	"context"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// ViewerEventKind tags the one terminal signal a viewer emits.
type ViewerEventKind string

const (
	// ViewerLoaded: the panorama content finished loading.
	ViewerLoaded ViewerEventKind = "loaded"
	// ViewerError: the content failed to load or render.
	ViewerError ViewerEventKind = "error"
)

// ViewerEvent is the asynchronous load/error signal of a viewer instance.
type ViewerEvent struct {
	Kind ViewerEventKind
	Err  error // set for ViewerError
}

// Viewer is one live rendering instance bound to a single scene. The
// controller owns at most one at a time and always destroys the previous
// instance before constructing the next, so implementations never need to
// handle two coexisting instances.
type Viewer interface {
	// Events delivers the instance's terminal load/error signal. The channel
	// receives at most one event; implementations may close it afterwards.
	Events() <-chan ViewerEvent

	// Destroy releases the rendering context. It must be idempotent and safe
	// to call whether or not an event ever fired.
	Destroy() error

	// HFov reports the current horizontal field of view in degrees.
	HFov() float64

	// SetHFov adjusts zoom at runtime. Implementations clamp to the limits
	// the instance was constructed with.
	SetHFov(fov float64)
}

// ViewerFactory constructs viewer instances. The controller calls it once per
// scene swap with a freshly assembled, already-clamped ViewerConfig; the
// global camera limits ride along in the config because a new instance
// inherits nothing from its predecessor.
type ViewerFactory interface {
	New(ctx context.Context, cfg domain.ViewerConfig) (Viewer, error)
}

// ViewerFactoryFunc adapts a function to the ViewerFactory interface.
type ViewerFactoryFunc func(ctx context.Context, cfg domain.ViewerConfig) (Viewer, error)

// New implements ViewerFactory.
func (f ViewerFactoryFunc) New(ctx context.Context, cfg domain.ViewerConfig) (Viewer, error) {
	return f(ctx, cfg)
}
