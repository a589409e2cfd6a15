package domain

import (
	"context"
	"time"
)

// EventType defines the category of a navigation event.
type EventType string

const (
	EventTransitionStart  EventType = "transition_start"
	EventSceneLeave       EventType = "scene_leave"
	EventSceneEnter       EventType = "scene_enter"
	EventTransitionEnd    EventType = "transition_end"
	EventTransitionFailed EventType = "transition_failed"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id,omitempty"`
}

// SceneEvent marks entering or leaving a scene (committed transitions only).
type SceneEvent struct {
	EventBase
	SceneID string `json:"scene_id"`
	Title   string `json:"title,omitempty"`
}

// TransitionEvent brackets a transition attempt. Start fires after the guards
// pass (the UI begins its fade-out on it); End/Failed fire once the tagged
// result is known, with interactivity already restored.
type TransitionEvent struct {
	EventBase
	From    string        `json:"from,omitempty"`
	To      string        `json:"to"`
	Outcome Outcome       `json:"outcome,omitempty"` // empty on Start
	Elapsed time.Duration `json:"-"`
}

// LifecycleHooks defines the controller's observability callbacks. All fields
// are optional; hooks run synchronously on the navigating goroutine and must
// return quickly.
type LifecycleHooks struct {
	OnTransitionStart  func(context.Context, *TransitionEvent)
	OnSceneLeave       func(context.Context, *SceneEvent)
	OnSceneEnter       func(context.Context, *SceneEvent)
	OnTransitionEnd    func(context.Context, *TransitionEvent)
	OnTransitionFailed func(context.Context, *TransitionEvent)
}

// Merge layers other on top of h: both callbacks run, h's first. Used by the
// facade to combine user hooks with internal reflector notification.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnTransitionStart:  chainTransition(h.OnTransitionStart, other.OnTransitionStart),
		OnSceneLeave:       chainScene(h.OnSceneLeave, other.OnSceneLeave),
		OnSceneEnter:       chainScene(h.OnSceneEnter, other.OnSceneEnter),
		OnTransitionEnd:    chainTransition(h.OnTransitionEnd, other.OnTransitionEnd),
		OnTransitionFailed: chainTransition(h.OnTransitionFailed, other.OnTransitionFailed),
	}
}

func chainTransition(a, b func(context.Context, *TransitionEvent)) func(context.Context, *TransitionEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *TransitionEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainScene(a, b func(context.Context, *SceneEvent)) func(context.Context, *SceneEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *SceneEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
