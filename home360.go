package home360

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devsanthoshmk/home360/internal/config"
	"github.com/devsanthoshmk/home360/internal/viewer/headless"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/navigation"
	"github.com/devsanthoshmk/home360/pkg/ports"
	"github.com/devsanthoshmk/home360/pkg/registry"
)

// Tour is the high-level entry point for the home360 library: one loaded
// tour plus one visitor session over it. It wraps the scene registry and the
// navigation controller and provides a simplified API for consumers.
//
// A Tour is a single session. Hosts that serve many visitors (the HTTP
// adapter) build controllers per session from the registry instead.
type Tour struct {
	title       string
	description string
	registry    *registry.Registry
	controller  *navigation.Controller

	// collected before construction
	factory   ports.ViewerFactory
	logger    *slog.Logger
	hooks     domain.LifecycleHooks
	limits    *domain.CameraLimits
	exitWait  *time.Duration
	loadWait  *time.Duration
	sessionID string
}

// Option defines a functional option for configuring the Tour.
type Option func(*Tour)

// WithLifecycleHooks registers observability hooks on the session.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(t *Tour) {
		t.hooks = hooks
	}
}

// WithViewerFactory injects the viewer backend. The default is a headless
// factory whose instances settle instantly, which suits tests and hosts that
// only need the state machine.
func WithViewerFactory(f ports.ViewerFactory) Option {
	return func(t *Tour) {
		if f != nil {
			t.factory = f
		}
	}
}

// WithLogger sets a custom structured logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Tour) {
		t.logger = logger
	}
}

// WithCameraLimits overrides the camera policy, taking precedence over a
// camera section in the tour file.
func WithCameraLimits(l domain.CameraLimits) Option {
	return func(t *Tour) {
		t.limits = &l
	}
}

// WithExitDuration sets the pause between announcing a transition and
// swapping viewers, matching the frontend's exit fade.
func WithExitDuration(d time.Duration) Option {
	return func(t *Tour) {
		t.exitWait = &d
	}
}

// WithLoadTimeout bounds the wait for a scene's load signal.
func WithLoadTimeout(d time.Duration) Option {
	return func(t *Tour) {
		t.loadWait = &d
	}
}

// WithSessionID tags lifecycle events with a session identity.
func WithSessionID(id string) Option {
	return func(t *Tour) {
		t.sessionID = id
	}
}

// Open loads a tour file and builds a session positioned at its entry scene.
// The file's camera section, if any, becomes the session's camera policy
// unless WithCameraLimits overrides it.
func Open(path string, opts ...Option) (*Tour, error) {
	cfg, err := config.LoadTour(path)
	if err != nil {
		return nil, err
	}
	t, err := fromConfig(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("tour %s: %w", path, err)
	}
	return t, nil
}

// Parse builds a session from tour YAML already in memory, for embedded
// tours shipped inside the host binary.
func Parse(data []byte, opts ...Option) (*Tour, error) {
	cfg, err := config.ParseTour(data)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg, opts...)
}

// New builds a session directly from scene values, bypassing YAML. entryID
// selects the starting scene; empty means the first. Construction fails like
// the registry does: empty tour, duplicate IDs, or, with *registry.GraphError,
// hotspots targeting scenes outside the tour.
func New(entryID string, scenes []domain.Scene, opts ...Option) (*Tour, error) {
	reg, err := registry.New(entryID, scenes...)
	if err != nil {
		return nil, err
	}
	return fromRegistry(reg, "", "", nil, opts...)
}

func fromConfig(cfg *config.Tour, opts ...Option) (*Tour, error) {
	reg, err := cfg.BuildRegistry()
	if err != nil {
		return nil, err
	}
	limits := cfg.Limits()
	return fromRegistry(reg, cfg.Title, cfg.Description, &limits, opts...)
}

func fromRegistry(reg *registry.Registry, title, description string, fileLimits *domain.CameraLimits, opts ...Option) (*Tour, error) {
	t := &Tour{
		title:       title,
		description: description,
		registry:    reg,
		limits:      fileLimits,
	}
	for _, opt := range opts {
		opt(t)
	}

	if t.factory == nil {
		t.factory = headless.New(0)
	}

	navOpts := []navigation.Option{
		navigation.WithHooks(t.hooks),
		navigation.WithSessionID(t.sessionID),
	}
	if t.logger != nil {
		navOpts = append(navOpts, navigation.WithLogger(t.logger))
	}
	if t.limits != nil {
		navOpts = append(navOpts, navigation.WithCameraLimits(*t.limits))
	}
	if t.exitWait != nil {
		navOpts = append(navOpts, navigation.WithExitDuration(*t.exitWait))
	}
	if t.loadWait != nil {
		navOpts = append(navOpts, navigation.WithLoadTimeout(*t.loadWait))
	}

	ctrl, err := navigation.New(reg, t.factory, navOpts...)
	if err != nil {
		return nil, err
	}
	t.controller = ctrl
	return t, nil
}

// Title returns the tour's display title, empty when built from scenes.
func (t *Tour) Title() string {
	return t.title
}

// Description returns the tour's description text.
func (t *Tour) Description() string {
	return t.description
}

// Registry exposes the scene catalog.
func (t *Tour) Registry() *registry.Registry {
	return t.registry
}

// Controller exposes the session's navigation controller, for hosts that
// wire it into their own adapters.
func (t *Tour) Controller() *navigation.Controller {
	return t.controller
}

// Start materializes a viewer for the entry scene and waits for it to load.
// Optional: the first navigation works without it.
func (t *Tour) Start(ctx context.Context) error {
	return t.controller.Start(ctx)
}

// NavigateTo moves the session to the target scene. See
// navigation.Controller.NavigateTo for the result contract.
func (t *Tour) NavigateTo(ctx context.Context, sceneID string) (*domain.Result, error) {
	return t.controller.NavigateTo(ctx, sceneID)
}

// NavigateNext moves to the next scene in declaration order, wrapping at the
// end of the tour.
func (t *Tour) NavigateNext(ctx context.Context) (*domain.Result, error) {
	return t.controller.NavigateNext(ctx)
}

// NavigatePrev moves to the previous scene in declaration order, wrapping at
// the start.
func (t *Tour) NavigatePrev(ctx context.Context) (*domain.Result, error) {
	return t.controller.NavigatePrev(ctx)
}

// CurrentScene returns the committed scene's definition.
func (t *Tour) CurrentScene() (domain.Scene, error) {
	return t.controller.CurrentScene()
}

// CurrentSceneID returns the committed scene's ID.
func (t *Tour) CurrentSceneID() string {
	return t.controller.CurrentSceneID()
}

// State returns an independent snapshot of the session state.
func (t *Tour) State() *domain.State {
	return t.controller.State()
}

// Close releases the live viewer, if any.
func (t *Tour) Close() error {
	return t.controller.Close()
}
