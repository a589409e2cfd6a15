package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devsanthoshmk/home360/internal/viewer/web"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/navigation"
	"github.com/devsanthoshmk/home360/pkg/ports"
)

// liveSession is one visitor's in-memory half: the controller driving their
// navigation and, when the browser bridge is in use, the factory that routes
// their viewer callbacks.
type liveSession struct {
	id         string
	controller *navigation.Controller
	bridge     *web.Factory
	lastSeen   atomic.Int64
}

func (ls *liveSession) touch() {
	ls.lastSeen.Store(time.Now().UnixNano())
}

func (ls *liveSession) idle(now time.Time) time.Duration {
	return now.Sub(time.Unix(0, ls.lastSeen.Load()))
}

// peekLive returns the live session if one is materialized, without creating
// it.
func (s *Server) peekLive(sessionID string) *liveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live[sessionID]
}

// getLive returns the visitor's live session, materializing it from the
// store on first touch. On failure it returns a nil session plus the HTTP
// status and message to answer with.
func (s *Server) getLive(ctx context.Context, sessionID string) (*liveSession, int, string) {
	if ls := s.peekLive(sessionID); ls != nil {
		return ls, 0, ""
	}

	state, err := s.sessions.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, http.StatusNotFound, "unknown session"
		}
		s.logger.Error("session load failed", "session_id", sessionID, "err", err)
		return nil, http.StatusInternalServerError, "failed to load session"
	}

	var bridge *web.Factory
	var factory ports.ViewerFactory
	if s.factoryFor != nil {
		factory = s.factoryFor(sessionID)
	} else {
		bridge = web.NewFactory(sessionID, s, web.WithLogger(s.logger))
		factory = bridge
	}

	ctrl, err := navigation.New(s.registry, factory,
		navigation.WithState(&state),
		navigation.WithSessionID(sessionID),
		navigation.WithLogger(s.logger),
		navigation.WithHooks(s.streamHooks(sessionID).Merge(s.hooks)),
		navigation.WithCameraLimits(s.limits),
		navigation.WithExitDuration(s.exitWait),
		navigation.WithLoadTimeout(s.loadWait),
	)
	if err != nil {
		if errors.Is(err, domain.ErrSceneNotFound) {
			// The tour file changed underneath a stored session.
			return nil, http.StatusConflict, "session state references a scene missing from this tour"
		}
		s.logger.Error("controller construction failed", "session_id", sessionID, "err", err)
		return nil, http.StatusInternalServerError, "failed to resume session"
	}

	s.mu.Lock()
	if existing, ok := s.live[sessionID]; ok {
		s.mu.Unlock()
		return existing, 0, ""
	}
	ls := &liveSession{id: sessionID, controller: ctrl, bridge: bridge}
	ls.touch()
	s.live[sessionID] = ls
	s.mu.Unlock()

	s.logger.Debug("live session materialized", "session_id", sessionID)
	return ls, 0, ""
}

// EvictIdle closes live sessions without traffic for at least maxIdle and
// returns how many were dropped. In-flight sessions are left alone; their
// durable state is already in the store, so a dropped visitor resumes where
// they were.
func (s *Server) EvictIdle(maxIdle time.Duration) int {
	now := time.Now()

	var victims []*liveSession
	s.mu.Lock()
	for id, ls := range s.live {
		if ls.idle(now) >= maxIdle && !ls.controller.Transitioning() {
			delete(s.live, id)
			victims = append(victims, ls)
		}
	}
	s.mu.Unlock()

	for _, ls := range victims {
		if err := ls.controller.Close(); err != nil {
			s.logger.Warn("viewer release failed during eviction", "session_id", ls.id, "err", err)
		}
		s.logger.Debug("idle session evicted", "session_id", ls.id)
	}
	return len(victims)
}

// streamHooks forwards every lifecycle event onto the session's SSE stream.
// The browser plays its fade on transition_start and restores interactivity
// on transition_end or transition_failed.
func (s *Server) streamHooks(sessionID string) domain.LifecycleHooks {
	transition := func(_ context.Context, e *domain.TransitionEvent) { s.publish(sessionID, e) }
	scene := func(_ context.Context, e *domain.SceneEvent) { s.publish(sessionID, e) }
	return domain.LifecycleHooks{
		OnTransitionStart:  transition,
		OnSceneLeave:       scene,
		OnSceneEnter:       scene,
		OnTransitionEnd:    transition,
		OnTransitionFailed: transition,
	}
}

func (s *Server) publish(sessionID string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("event payload marshal failed", "session_id", sessionID, "err", err)
		return
	}
	s.streams.Broadcast(sessionID, string(data))
}

// PublishDirective implements web.Publisher: viewer directives ride the same
// per-session stream as navigation events.
func (s *Server) PublishDirective(sessionID string, d web.Directive) {
	s.publish(sessionID, directiveEnvelope{Type: "directive", Directive: d})
}

func (s *Server) publishState(sessionID string, state *domain.State) {
	s.publish(sessionID, stateEnvelope{Type: "state", SessionID: sessionID, State: state})
}

type directiveEnvelope struct {
	Type      string        `json:"type"`
	Directive web.Directive `json:"directive"`
}

type stateEnvelope struct {
	Type      string        `json:"type"`
	SessionID string        `json:"session_id"`
	State     *domain.State `json:"state"`
}

type sessionResponse struct {
	SessionID string        `json:"session_id"`
	State     *domain.State `json:"state"`
}

type navigateRequest struct {
	Target string `json:"target"`
}

type navigateResponse struct {
	Outcome   string        `json:"outcome"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to"`
	Reason    string        `json:"reason,omitempty"`
	ElapsedMS int64         `json:"elapsed_ms"`
	State     *domain.State `json:"state"`
}

type viewerEventRequest struct {
	Instance string `json:"instance"`
	Event    string `json:"event"`
	Message  string `json:"message,omitempty"`
}

// handleCreateSession mints a visitor session positioned at the entry scene.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	sessionID, err := newSessionID()
	if err != nil {
		s.logger.Error("session id mint failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	state, err := s.sessions.LoadOrStart(r.Context(), sessionID, s.registry.EntryID())
	if err != nil {
		s.logger.Error("session seed failed", "session_id", sessionID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to create session")
		return
	}

	s.logger.Info("session created", "session_id", sessionID)
	s.writeJSON(w, http.StatusCreated, sessionResponse{SessionID: sessionID, State: &state})
}

func (s *Server) handleSessionState(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	if ls := s.peekLive(sessionID); ls != nil {
		s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: ls.controller.State()})
		return
	}

	state, err := s.sessions.Load(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			s.writeError(w, http.StatusNotFound, "unknown session")
			return
		}
		s.logger.Error("session load failed", "session_id", sessionID, "err", err)
		s.writeError(w, http.StatusInternalServerError, "failed to load session")
		return
	}
	s.writeJSON(w, http.StatusOK, sessionResponse{SessionID: sessionID, State: &state})
}

// handleNavigate runs one transition for the visitor and answers with its
// tagged result. The call blocks until the viewer settles, so with the
// browser bridge the response arrives after the page confirmed the load.
func (s *Server) handleNavigate(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body navigateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Target == "" {
		s.writeError(w, http.StatusBadRequest, "target is required")
		return
	}

	ls, status, msg := s.getLive(r.Context(), sessionID)
	if ls == nil {
		s.writeError(w, status, msg)
		return
	}
	ls.touch()

	result, err := ls.controller.NavigateTo(r.Context(), body.Target)
	if err != nil {
		s.logger.Warn("navigation aborted", "session_id", sessionID, "target", body.Target, "err", err)
		s.writeError(w, http.StatusServiceUnavailable, fmt.Sprintf("navigation aborted: %v", err))
		return
	}

	state := ls.controller.State()
	if result.Committed() {
		if err := s.sessions.Save(r.Context(), sessionID, *state); err != nil {
			s.logger.Error("state persist failed", "session_id", sessionID, "err", err)
		}
		s.publishState(sessionID, state)
	}

	s.writeJSON(w, http.StatusOK, navigateResponse{
		Outcome:   string(result.Outcome),
		From:      result.From,
		To:        result.To,
		Reason:    string(result.Reason),
		ElapsedMS: result.Elapsed.Milliseconds(),
		State:     state,
	})
}

// handleViewerEvent receives the browser's load-result callback and routes it
// to the viewer instance still waiting on it. Stale callbacks are dropped;
// the response is 202 either way.
func (s *Server) handleViewerEvent(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var body viewerEventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if body.Instance == "" {
		s.writeError(w, http.StatusBadRequest, "instance is required")
		return
	}

	var kind ports.ViewerEventKind
	switch body.Event {
	case string(ports.ViewerLoaded):
		kind = ports.ViewerLoaded
	case string(ports.ViewerError):
		kind = ports.ViewerError
	default:
		s.writeError(w, http.StatusBadRequest, "event must be loaded or error")
		return
	}

	ls := s.peekLive(sessionID)
	if ls == nil || ls.bridge == nil {
		s.logger.Debug("viewer callback without live bridge",
			"session_id", sessionID, "instance", body.Instance)
		w.WriteHeader(http.StatusAccepted)
		return
	}

	ls.touch()
	ls.bridge.HandleEvent(body.Instance, kind, body.Message)
	w.WriteHeader(http.StatusAccepted)
}

// handleEvents streams the session's events: a ping, the current state
// snapshot, then every navigation event and viewer directive as they happen.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")

	var state *domain.State
	if ls := s.peekLive(sessionID); ls != nil {
		ls.touch()
		state = ls.controller.State()
	} else {
		loaded, err := s.sessions.Load(r.Context(), sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				s.writeError(w, http.StatusNotFound, "unknown session")
				return
			}
			s.logger.Error("session load failed", "session_id", sessionID, "err", err)
			s.writeError(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		state = &loaded
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.streams.Subscribe(sessionID)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	if snapshot, err := json.Marshal(stateEnvelope{Type: "state", SessionID: sessionID, State: state}); err == nil {
		fmt.Fprintf(w, "data: %s\n\n", snapshot)
		flusher.Flush()
	}

	s.logger.Debug("sse subscribed", "session_id", sessionID)
	for {
		select {
		case <-r.Context().Done():
			// Drain whatever the broadcaster already queued so a client
			// disconnecting right after a navigate still receives the
			// transition's tail events.
			for {
				select {
				case msg, ok := <-ch:
					if !ok {
						return
					}
					fmt.Fprintf(w, "data: %s\n\n", msg)
					flusher.Flush()
				default:
					s.logger.Debug("sse client disconnected", "session_id", sessionID)
					return
				}
			}
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
