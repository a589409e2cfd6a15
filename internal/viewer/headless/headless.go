// Package headless provides a viewer that settles without rendering anything.
// It is the default factory for library use, the walk mode backend, and the
// test double for the transition protocol.
package headless

import (
	"context"
	"sync"
	"time"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
)

// Factory builds headless viewers. Zero value is usable: instances report
// loaded immediately. Scenes can be scripted to fail, hang or reject
// construction, and the factory keeps counters for instance accounting.
type Factory struct {
	mu       sync.Mutex
	latency  time.Duration
	failOn   map[string]error
	hangOn   map[string]bool
	rejectOn map[string]error

	constructed []string
	live        int
	maxLive     int
}

// New creates a factory whose viewers load after the given latency.
func New(latency time.Duration) *Factory {
	return &Factory{latency: latency}
}

// FailScene scripts the viewer for sceneID to report a load error.
func (f *Factory) FailScene(sceneID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn == nil {
		f.failOn = make(map[string]error)
	}
	f.failOn[sceneID] = err
}

// HangScene scripts the viewer for sceneID to never settle.
func (f *Factory) HangScene(sceneID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.hangOn == nil {
		f.hangOn = make(map[string]bool)
	}
	f.hangOn[sceneID] = true
}

// RejectScene scripts construction itself to fail for sceneID.
func (f *Factory) RejectScene(sceneID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rejectOn == nil {
		f.rejectOn = make(map[string]error)
	}
	f.rejectOn[sceneID] = err
}

// Constructed returns the scene IDs instances were built for, in order.
func (f *Factory) Constructed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.constructed...)
}

// Live returns the number of instances not yet destroyed.
func (f *Factory) Live() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

// MaxLive returns the high-water mark of coexisting instances.
func (f *Factory) MaxLive() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxLive
}

// New implements ports.ViewerFactory.
func (f *Factory) New(ctx context.Context, cfg domain.ViewerConfig) (ports.Viewer, error) {
	f.mu.Lock()
	if err, ok := f.rejectOn[cfg.SceneID]; ok {
		f.mu.Unlock()
		return nil, err
	}
	f.constructed = append(f.constructed, cfg.SceneID)
	f.live++
	if f.live > f.maxLive {
		f.maxLive = f.live
	}
	failErr, failing := f.failOn[cfg.SceneID]
	hanging := f.hangOn[cfg.SceneID]
	latency := f.latency
	f.mu.Unlock()

	v := &Viewer{
		factory: f,
		cfg:     cfg,
		hfov:    cfg.InitialView.HFov,
		events:  make(chan ports.ViewerEvent, 1),
	}

	if hanging {
		return v, nil
	}

	ev := ports.ViewerEvent{Kind: ports.ViewerLoaded}
	if failing {
		ev = ports.ViewerEvent{Kind: ports.ViewerError, Err: failErr}
	}

	if latency == 0 {
		v.events <- ev
		return v, nil
	}
	v.timer = time.AfterFunc(latency, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.destroyed {
			return
		}
		v.events <- ev
	})
	return v, nil
}

// Viewer is one headless instance. It holds no rendering state beyond the
// current field of view.
type Viewer struct {
	factory *Factory
	cfg     domain.ViewerConfig
	events  chan ports.ViewerEvent
	timer   *time.Timer

	mu        sync.Mutex
	hfov      float64
	destroyed bool
}

// Events implements ports.Viewer.
func (v *Viewer) Events() <-chan ports.ViewerEvent {
	return v.events
}

// Destroy implements ports.Viewer.
func (v *Viewer) Destroy() error {
	v.mu.Lock()
	if v.destroyed {
		v.mu.Unlock()
		return nil
	}
	v.destroyed = true
	if v.timer != nil {
		v.timer.Stop()
	}
	v.mu.Unlock()

	v.factory.mu.Lock()
	v.factory.live--
	v.factory.mu.Unlock()
	return nil
}

// HFov implements ports.Viewer.
func (v *Viewer) HFov() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hfov
}

// SetHFov implements ports.Viewer. Values are clamped to the limits the
// instance was constructed with.
func (v *Viewer) SetHFov(fov float64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.destroyed {
		return
	}
	v.hfov = v.cfg.Limits.Clamp(domain.View{HFov: fov}).HFov
}

// SceneID returns the scene this instance was constructed for.
func (v *Viewer) SceneID() string {
	return v.cfg.SceneID
}

// View returns the initial pose the instance was constructed with.
func (v *Viewer) View() domain.View {
	return v.cfg.InitialView
}
