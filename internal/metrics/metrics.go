// Package metrics exposes Prometheus collectors for tour navigation, fed
// through the controller's lifecycle hooks.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devsanthoshmk/home360/pkg/domain"
)

// Metrics bundles the navigation collectors on a private registry so serve
// instances and tests never collide on global state.
type Metrics struct {
	registry *prometheus.Registry

	sceneVisits        *prometheus.CounterVec
	transitions        *prometheus.CounterVec
	transitionDuration prometheus.Histogram
	activeTransitions  prometheus.Gauge
}

// New creates and registers the collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		sceneVisits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "home360_scene_visits_total",
				Help: "Completed arrivals per scene",
			},
			[]string{"scene"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "home360_transitions_total",
				Help: "Settled transition attempts by outcome",
			},
			[]string{"outcome"},
		),
		transitionDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name: "home360_transition_duration_seconds",
				Help: "Wall time of the whole swap protocol, exit fade included",
			},
		),
		activeTransitions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "home360_active_transitions",
				Help: "Transitions currently between start and settle",
			},
		),
	}
	m.registry.MustRegister(m.sceneVisits, m.transitions, m.transitionDuration, m.activeTransitions)
	return m
}

// Handler serves the collectors for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle callbacks that feed the collectors. Merge them
// with any user hooks.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	settle := func(_ context.Context, e *domain.TransitionEvent) {
		m.activeTransitions.Dec()
		m.transitions.WithLabelValues(string(e.Outcome)).Inc()
		m.transitionDuration.Observe(e.Elapsed.Seconds())
	}
	return domain.LifecycleHooks{
		OnTransitionStart: func(_ context.Context, _ *domain.TransitionEvent) {
			m.activeTransitions.Inc()
		},
		OnSceneEnter: func(_ context.Context, e *domain.SceneEvent) {
			m.sceneVisits.WithLabelValues(e.SceneID).Inc()
		},
		OnTransitionEnd:    settle,
		OnTransitionFailed: settle,
	}
}
