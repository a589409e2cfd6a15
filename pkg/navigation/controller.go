// Package navigation implements the tour's transition state machine: the
// controller that owns navigation state, drives viewer swaps, and guards
// against re-entrant scene changes.
package navigation

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/devsanthoshmk/home360/internal/logging"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
	"github.com/devsanthoshmk/home360/pkg/registry"
)

const (
	// DefaultExitDuration matches the fade-out the web viewer plays before
	// the scene swap.
	DefaultExitDuration = 400 * time.Millisecond

	// DefaultLoadTimeout bounds the wait for a viewer's load signal so a
	// hung asset can never leave the controller stuck in-flight.
	DefaultLoadTimeout = 30 * time.Second
)

// Controller drives navigation for one session. All mutation of the session's
// State happens here; adapters and reflectors only read snapshots.
//
// NavigateTo and friends are safe for concurrent use. A transition runs
// inline on the calling goroutine; competing calls that arrive while one is
// in flight are dropped with a skipped result, never queued.
type Controller struct {
	registry  *registry.Registry
	factory   ports.ViewerFactory
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	limits    domain.CameraLimits
	exitWait  time.Duration
	loadWait  time.Duration
	sessionID string

	mu     sync.Mutex
	state  *domain.State
	viewer ports.Viewer
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithHooks sets the lifecycle callbacks.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(c *Controller) { c.hooks = h }
}

// WithCameraLimits overrides the default camera policy.
func WithCameraLimits(l domain.CameraLimits) Option {
	return func(c *Controller) { c.limits = l }
}

// WithExitDuration sets how long the controller waits after announcing a
// transition before swapping viewers, mirroring the reflectors' fade-out.
func WithExitDuration(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.exitWait = d
		}
	}
}

// WithLoadTimeout bounds the wait for a viewer's load or error signal.
func WithLoadTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.loadWait = d
		}
	}
}

// WithSessionID tags emitted events with a session identity.
func WithSessionID(id string) Option {
	return func(c *Controller) { c.sessionID = id }
}

// WithState resumes from persisted state instead of the entry scene. The
// in-flight flag never survives a restart, so it is forced clear.
func WithState(s *domain.State) Option {
	return func(c *Controller) {
		if s == nil {
			return
		}
		resumed := s.Clone()
		resumed.Transitioning = false
		c.state = resumed
	}
}

// New creates a controller positioned at the registry's entry scene (or at
// the state given via WithState). No viewer exists yet; Start or the first
// navigation constructs one.
func New(reg *registry.Registry, factory ports.ViewerFactory, opts ...Option) (*Controller, error) {
	if reg == nil {
		return nil, fmt.Errorf("navigation: registry is required")
	}
	if factory == nil {
		return nil, fmt.Errorf("navigation: viewer factory is required")
	}

	c := &Controller{
		registry: reg,
		factory:  factory,
		logger:   logging.NewNop(),
		limits:   domain.DefaultCameraLimits(),
		exitWait: DefaultExitDuration,
		loadWait: DefaultLoadTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state == nil {
		c.state = domain.NewState(reg.EntryID())
	}
	if !reg.Has(c.state.CurrentSceneID) {
		return nil, fmt.Errorf("resume scene %q: %w", c.state.CurrentSceneID, domain.ErrSceneNotFound)
	}
	return c, nil
}

// Registry exposes the scene catalog for reflectors.
func (c *Controller) Registry() *registry.Registry {
	return c.registry
}

// CurrentSceneID returns the committed scene.
func (c *Controller) CurrentSceneID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.CurrentSceneID
}

// CurrentScene returns the committed scene's full definition.
func (c *Controller) CurrentScene() (domain.Scene, error) {
	return c.registry.Get(c.CurrentSceneID())
}

// Transitioning reports whether a scene change is in flight.
func (c *Controller) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Transitioning
}

// Index returns the 1-based position of the current scene in declaration
// order, for "room n of total" counters.
func (c *Controller) Index() int {
	i, ok := c.registry.IndexOf(c.CurrentSceneID())
	if !ok {
		return 0
	}
	return i + 1
}

// State returns an independent snapshot of the session state.
func (c *Controller) State() *domain.State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Limits returns the active camera policy.
func (c *Controller) Limits() domain.CameraLimits {
	return c.limits
}

// HFov reports the live viewer's field of view, or zero without a viewer.
func (c *Controller) HFov() float64 {
	c.mu.Lock()
	v := c.viewer
	c.mu.Unlock()
	if v == nil {
		return 0
	}
	return v.HFov()
}

// SetHFov adjusts zoom on the live viewer. A no-op without one.
func (c *Controller) SetHFov(fov float64) {
	c.mu.Lock()
	v := c.viewer
	c.mu.Unlock()
	if v != nil {
		v.SetHFov(fov)
	}
}

// Close destroys the live viewer, if any. The controller remains usable; a
// later navigation simply constructs a fresh instance.
func (c *Controller) Close() error {
	c.mu.Lock()
	v := c.viewer
	c.viewer = nil
	c.mu.Unlock()
	if v == nil {
		return nil
	}
	return v.Destroy()
}
