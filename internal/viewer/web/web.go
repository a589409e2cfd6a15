// Package web bridges the navigation controller to a browser-rendered
// panorama viewer. The Go side never renders anything: Factory.New pushes a
// scene directive onto the visitor's event stream, the browser builds the
// Pannellum viewer and posts its load result back, and HandleEvent routes
// that callback to the viewer instance still waiting on it.
package web

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/devsanthoshmk/home360/internal/logging"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
)

// Directive kinds understood by the browser shim.
const (
	DirectiveScene   = "scene"
	DirectiveHFov    = "hfov"
	DirectiveDestroy = "destroy"
)

// Directive is one instruction for the browser: build a scene, adjust the
// field of view, or tear the viewer down.
type Directive struct {
	Kind     string               `json:"kind"`
	Instance string               `json:"instance"`
	Config   *domain.ViewerConfig `json:"config,omitempty"`
	HFov     float64              `json:"hfov,omitempty"`
}

// Publisher delivers directives to one visitor's browser. The HTTP adapter
// implements it on top of its event stream.
type Publisher interface {
	PublishDirective(sessionID string, d Directive)
}

// Factory creates browser-backed viewers for a single visitor session and
// routes viewer callbacks to the instance that is still waiting.
type Factory struct {
	sessionID string
	publisher Publisher
	logger    *slog.Logger

	mu      sync.Mutex
	pending map[string]*Viewer
}

// Option configures a Factory.
type Option func(*Factory)

// WithLogger sets the factory's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewFactory creates the bridge for one visitor session.
func NewFactory(sessionID string, publisher Publisher, opts ...Option) *Factory {
	f := &Factory{
		sessionID: sessionID,
		publisher: publisher,
		logger:    logging.NewNop(),
		pending:   make(map[string]*Viewer),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// New registers a fresh instance, tells the browser to build it, and returns
// a viewer whose event channel settles when the browser reports back.
func (f *Factory) New(ctx context.Context, cfg domain.ViewerConfig) (ports.Viewer, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	instance, err := newInstanceID()
	if err != nil {
		return nil, fmt.Errorf("mint viewer instance id: %w", err)
	}

	v := &Viewer{
		factory:  f,
		instance: instance,
		sceneID:  cfg.SceneID,
		limits:   cfg.Limits,
		hfov:     cfg.InitialView.HFov,
		events:   make(chan ports.ViewerEvent, 1),
	}

	f.mu.Lock()
	f.pending[instance] = v
	f.mu.Unlock()

	f.publisher.PublishDirective(f.sessionID, Directive{
		Kind:     DirectiveScene,
		Instance: instance,
		Config:   &cfg,
	})
	f.logger.Debug("scene directive published",
		"session_id", f.sessionID, "instance", instance, "scene_id", cfg.SceneID)
	return v, nil
}

// HandleEvent resolves a browser callback. Callbacks for instances that are
// no longer pending (already settled, destroyed, or from a previous page
// load) are dropped. The returned bool reports whether a viewer was waiting.
func (f *Factory) HandleEvent(instance string, kind ports.ViewerEventKind, message string) bool {
	f.mu.Lock()
	v, ok := f.pending[instance]
	if ok {
		delete(f.pending, instance)
	}
	f.mu.Unlock()

	if !ok {
		f.logger.Debug("stale viewer callback dropped",
			"session_id", f.sessionID, "instance", instance, "event", string(kind))
		return false
	}

	event := ports.ViewerEvent{Kind: kind}
	if kind == ports.ViewerError {
		if message == "" {
			message = "viewer reported an error"
		}
		event.Err = errors.New(message)
	}
	v.deliver(event)
	return true
}

// Pending reports how many instances still await a browser callback.
func (f *Factory) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

func (f *Factory) forget(instance string) {
	f.mu.Lock()
	delete(f.pending, instance)
	f.mu.Unlock()
}

func newInstanceID() (string, error) {
	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

// Viewer is the Go-side handle for one browser viewer instance. The camera
// state it reports is the last value commanded from this side; the browser
// remains the source of truth for what the visitor actually sees.
type Viewer struct {
	factory  *Factory
	instance string
	sceneID  string
	limits   domain.CameraLimits
	events   chan ports.ViewerEvent

	mu        sync.Mutex
	hfov      float64
	destroyed bool
}

// Events returns the channel carrying the instance's terminal load result.
func (v *Viewer) Events() <-chan ports.ViewerEvent {
	return v.events
}

// Destroy tears the browser viewer down and drops any pending callback
// routing. Safe to call more than once.
func (v *Viewer) Destroy() error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return nil
	}
	v.destroyed = true
	v.mu.Unlock()

	v.factory.forget(v.instance)
	v.factory.publisher.PublishDirective(v.factory.sessionID, Directive{
		Kind:     DirectiveDestroy,
		Instance: v.instance,
	})
	return nil
}

// HFov returns the last commanded horizontal field of view.
func (v *Viewer) HFov() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hfov
}

// SetHFov clamps the value against the camera limits and forwards it to the
// browser.
func (v *Viewer) SetHFov(hfov float64) {
	clamped := v.limits.Clamp(domain.View{HFov: hfov}).HFov

	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return
	}
	v.hfov = clamped
	v.mu.Unlock()

	v.factory.publisher.PublishDirective(v.factory.sessionID, Directive{
		Kind:     DirectiveHFov,
		Instance: v.instance,
		HFov:     clamped,
	})
}

// SceneID returns the scene this instance renders.
func (v *Viewer) SceneID() string {
	return v.sceneID
}

// Instance returns the callback routing ID shared with the browser.
func (v *Viewer) Instance() string {
	return v.instance
}

func (v *Viewer) deliver(event ports.ViewerEvent) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	select {
	case v.events <- event:
	default:
	}
}
