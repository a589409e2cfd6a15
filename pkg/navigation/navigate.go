package navigation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/ports"
)

// NavigateTo moves the session to the target scene, running the full swap
// protocol inline: announce, exit fade, destroy old viewer, construct new,
// await its load signal, commit.
//
// The returned Result is always non-nil and carries the tagged outcome.
// Requests rejected by a guard (unknown target, target already current, a
// transition in flight) come back skipped with a reason and are not errors.
// The error return is reserved for ctx: it is the context's error when the
// call was canceled, with the Result describing the cleanup that ran.
func (c *Controller) NavigateTo(ctx context.Context, targetID string) (*domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	began := time.Now()

	target, err := c.registry.Get(targetID)
	if err != nil {
		// A click on a bad link is dropped, not raised. The config
		// validation at startup makes this unreachable for hotspots; direct
		// API calls can still get here.
		c.logger.Warn("navigation target not found", "target", targetID)
		return c.skip(c.CurrentSceneID(), targetID, domain.SkipUnknownScene, began), nil
	}

	c.mu.Lock()
	from := c.state.CurrentSceneID
	if targetID == from {
		c.mu.Unlock()
		c.logger.Debug("navigation skipped", "target", targetID, "reason", domain.SkipAlreadyCurrent)
		return c.skip(from, targetID, domain.SkipAlreadyCurrent, began), nil
	}
	if c.state.Transitioning {
		c.mu.Unlock()
		c.logger.Debug("navigation skipped", "target", targetID, "reason", domain.SkipInFlight)
		return c.skip(from, targetID, domain.SkipInFlight, began), nil
	}
	c.state.Transitioning = true
	prev := c.viewer
	c.mu.Unlock()

	return c.transition(ctx, began, from, target, prev)
}

// NavigateNext moves to the next scene in declaration order, wrapping at the
// end of the tour.
func (c *Controller) NavigateNext(ctx context.Context) (*domain.Result, error) {
	return c.navigateStep(ctx, +1)
}

// NavigatePrev moves to the previous scene in declaration order, wrapping at
// the start of the tour.
func (c *Controller) NavigatePrev(ctx context.Context) (*domain.Result, error) {
	return c.navigateStep(ctx, -1)
}

func (c *Controller) navigateStep(ctx context.Context, step int) (*domain.Result, error) {
	cur := c.CurrentSceneID()
	i, _ := c.registry.IndexOf(cur)
	n := c.registry.Len()
	next, err := c.registry.At(((i+step)%n + n) % n)
	if err != nil {
		return nil, err
	}
	return c.NavigateTo(ctx, next.ID)
}

// NavigateAt jumps to the scene at position i in declaration order. An
// out-of-range index is treated like an unknown target.
func (c *Controller) NavigateAt(ctx context.Context, i int) (*domain.Result, error) {
	scene, err := c.registry.At(i)
	if err != nil {
		c.logger.Warn("navigation index out of range", "index", i)
		return c.skip(c.CurrentSceneID(), "", domain.SkipUnknownScene, time.Now()), nil
	}
	return c.NavigateTo(ctx, scene.ID)
}

// Start materializes a viewer for the current scene and waits for it to
// settle, without running the transition protocol or its events. It claims
// the in-flight flag, so navigation arriving during the initial load is
// dropped like any other competing transition. Start is optional: the first
// NavigateTo works without it, and calling it with a live viewer is a no-op.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.viewer != nil || c.state.Transitioning {
		c.mu.Unlock()
		return nil
	}
	c.state.Transitioning = true
	sceneID := c.state.CurrentSceneID
	c.mu.Unlock()

	scene, err := c.registry.Get(sceneID)
	if err != nil {
		c.clearFlag()
		return err
	}

	v, err := c.factory.New(ctx, c.viewerConfig(scene))
	if err != nil {
		c.clearFlag()
		return fmt.Errorf("start scene %s: %w", sceneID, err)
	}

	outcome, cause := c.awaitSettle(ctx, v)
	if outcome != domain.OutcomeCompleted {
		_ = v.Destroy()
		c.clearFlag()
		if cause == nil {
			cause = fmt.Errorf("viewer reported %s", outcome)
		}
		return fmt.Errorf("start scene %s: %w", sceneID, cause)
	}

	c.mu.Lock()
	c.viewer = v
	c.state.Transitioning = false
	c.mu.Unlock()

	c.emitSceneEnter(ctx, scene)
	c.logger.Debug("viewer started", "scene", sceneID)
	return nil
}

// transition runs the swap protocol. The caller has already claimed the
// in-flight flag; every path out of here releases it.
func (c *Controller) transition(ctx context.Context, began time.Time, from string, target domain.Scene, prev ports.Viewer) (*domain.Result, error) {
	c.emitTransitionStart(ctx, from, target.ID)
	c.logger.Debug("transition started", "from", from, "to", target.ID)

	// Reflectors play their exit fade inside this window; the old viewer
	// stays live until it closes.
	if err := c.sleep(ctx, c.exitWait); err != nil {
		return c.conclude(ctx, began, from, target.ID, domain.OutcomeFailed, err), err
	}

	// Exactly one instance: release the old viewer before constructing the
	// replacement.
	if prev != nil {
		if err := prev.Destroy(); err != nil && !errors.Is(err, domain.ErrViewerClosed) {
			c.logger.Warn("destroying previous viewer", "scene", from, "error", err)
		}
		c.mu.Lock()
		c.viewer = nil
		c.mu.Unlock()
	}

	next, err := c.factory.New(ctx, c.viewerConfig(target))
	if err != nil {
		c.logger.Warn("viewer construction failed", "scene", target.ID, "error", err)
		return c.conclude(ctx, began, from, target.ID, domain.OutcomeFailed, err), nil
	}

	outcome, cause := c.awaitSettle(ctx, next)
	switch outcome {
	case domain.OutcomeCompleted:
		return c.commit(ctx, began, from, target, next), nil

	case domain.OutcomeTimedOut:
		c.logger.Warn("scene load timed out", "scene", target.ID, "timeout", c.loadWait)
		_ = next.Destroy()
		return c.conclude(ctx, began, from, target.ID, domain.OutcomeTimedOut, cause), nil

	default:
		_ = next.Destroy()
		if ctxErr := ctx.Err(); ctxErr != nil {
			return c.conclude(ctx, began, from, target.ID, domain.OutcomeFailed, cause), ctxErr
		}
		c.logger.Warn("scene load failed", "scene", target.ID, "error", cause)
		return c.conclude(ctx, began, from, target.ID, domain.OutcomeFailed, cause), nil
	}
}

// commit advances identity, installs the new viewer, and releases the flag,
// all in one critical section so reflectors never observe a half-committed
// state. The arrival events fire after, with interactivity already restored.
func (c *Controller) commit(ctx context.Context, began time.Time, from string, target domain.Scene, next ports.Viewer) *domain.Result {
	c.mu.Lock()
	c.viewer = next
	c.state.CurrentSceneID = target.ID
	c.state.History = append(c.state.History, target.ID)
	c.state.Visits++
	c.state.Transitioning = false
	c.mu.Unlock()

	res := &domain.Result{
		Outcome: domain.OutcomeCompleted,
		From:    from,
		To:      target.ID,
		Elapsed: time.Since(began),
	}

	if fromScene, err := c.registry.Get(from); err == nil {
		c.emitSceneLeave(ctx, fromScene)
	}
	c.emitSceneEnter(ctx, target)
	c.emitTransitionEnd(ctx, res)
	c.logger.Info("scene changed", "from", from, "to", target.ID, "elapsed", res.Elapsed)
	return res
}

// conclude ends an uncommitted transition: the flag clears, identity stays on
// the origin scene, and the failure hook observes interactivity already
// restored.
func (c *Controller) conclude(ctx context.Context, began time.Time, from, to string, outcome domain.Outcome, cause error) *domain.Result {
	c.clearFlag()

	res := &domain.Result{
		Outcome: outcome,
		From:    from,
		To:      to,
		Err:     cause,
		Elapsed: time.Since(began),
	}
	c.emitTransitionFailed(ctx, res)
	return res
}

func (c *Controller) skip(from, to string, reason domain.SkipReason, began time.Time) *domain.Result {
	return &domain.Result{
		Outcome: domain.OutcomeSkipped,
		From:    from,
		To:      to,
		Reason:  reason,
		Elapsed: time.Since(began),
	}
}

func (c *Controller) clearFlag() {
	c.mu.Lock()
	c.state.Transitioning = false
	c.mu.Unlock()
}

// awaitSettle waits for the viewer's one terminal event, bounded by the load
// timeout and the caller's context.
func (c *Controller) awaitSettle(ctx context.Context, v ports.Viewer) (domain.Outcome, error) {
	timer := time.NewTimer(c.loadWait)
	defer timer.Stop()

	select {
	case ev, ok := <-v.Events():
		if !ok {
			return domain.OutcomeFailed, domain.ErrViewerClosed
		}
		if ev.Kind == ports.ViewerLoaded {
			return domain.OutcomeCompleted, nil
		}
		return domain.OutcomeFailed, ev.Err
	case <-timer.C:
		return domain.OutcomeTimedOut, fmt.Errorf("no load signal within %s", c.loadWait)
	case <-ctx.Done():
		return domain.OutcomeFailed, ctx.Err()
	}
}

// viewerConfig assembles a fresh construction config for one scene. The
// camera limits ride along on every swap because a new instance inherits
// nothing from its predecessor.
func (c *Controller) viewerConfig(scene domain.Scene) domain.ViewerConfig {
	return domain.ViewerConfig{
		SceneID:     scene.ID,
		Image:       scene.Image,
		InitialView: c.limits.Clamp(scene.InitialView),
		Limits:      c.limits,
		AccentColor: scene.AccentColor,
		Hotspots:    scene.Hotspots,
		Options:     scene.ViewerOptions,
	}
}

func (c *Controller) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Controller) emitTransitionStart(ctx context.Context, from, to string) {
	if c.hooks.OnTransitionStart == nil {
		return
	}
	c.hooks.OnTransitionStart(ctx, &domain.TransitionEvent{
		EventBase: c.eventBase(domain.EventTransitionStart),
		From:      from,
		To:        to,
	})
}

func (c *Controller) emitTransitionEnd(ctx context.Context, res *domain.Result) {
	if c.hooks.OnTransitionEnd == nil {
		return
	}
	c.hooks.OnTransitionEnd(ctx, &domain.TransitionEvent{
		EventBase: c.eventBase(domain.EventTransitionEnd),
		From:      res.From,
		To:        res.To,
		Outcome:   res.Outcome,
		Elapsed:   res.Elapsed,
	})
}

func (c *Controller) emitTransitionFailed(ctx context.Context, res *domain.Result) {
	if c.hooks.OnTransitionFailed == nil {
		return
	}
	c.hooks.OnTransitionFailed(ctx, &domain.TransitionEvent{
		EventBase: c.eventBase(domain.EventTransitionFailed),
		From:      res.From,
		To:        res.To,
		Outcome:   res.Outcome,
		Elapsed:   res.Elapsed,
	})
}

func (c *Controller) emitSceneLeave(ctx context.Context, scene domain.Scene) {
	if c.hooks.OnSceneLeave == nil {
		return
	}
	c.hooks.OnSceneLeave(ctx, &domain.SceneEvent{
		EventBase: c.eventBase(domain.EventSceneLeave),
		SceneID:   scene.ID,
		Title:     scene.Title,
	})
}

func (c *Controller) emitSceneEnter(ctx context.Context, scene domain.Scene) {
	if c.hooks.OnSceneEnter == nil {
		return
	}
	c.hooks.OnSceneEnter(ctx, &domain.SceneEvent{
		EventBase: c.eventBase(domain.EventSceneEnter),
		SceneID:   scene.ID,
		Title:     scene.Title,
	})
}

func (c *Controller) eventBase(t domain.EventType) domain.EventBase {
	return domain.EventBase{
		Timestamp: time.Now(),
		Type:      t,
		SessionID: c.sessionID,
	}
}
