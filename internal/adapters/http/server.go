// Package http serves a tour over a JSON API: scene catalog, server-minted
// visitor sessions, navigation, the browser viewer bridge, and a per-session
// SSE event stream. It also hosts the embedded viewer page.
package http

import (
	"crypto/rand"
	_ "embed"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/devsanthoshmk/home360/api"
	"github.com/devsanthoshmk/home360/internal/logging"
	"github.com/devsanthoshmk/home360/internal/metrics"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/navigation"
	"github.com/devsanthoshmk/home360/pkg/ports"
	"github.com/devsanthoshmk/home360/pkg/registry"
	"github.com/devsanthoshmk/home360/pkg/session"
)

//go:embed web/index.html
var indexHTML []byte

// TourInfo carries the display metadata of the served tour.
type TourInfo struct {
	Title       string
	Description string
}

// Server exposes one tour to any number of visitor sessions. Each session
// gets its own navigation controller, materialized on first use and evicted
// after idling; durable state lives in the session manager's store.
type Server struct {
	registry *registry.Registry
	info     TourInfo
	sessions *session.Manager
	streams  *StreamManager
	logger   *slog.Logger
	metrics  *metrics.Metrics
	hooks    domain.LifecycleHooks
	limits   domain.CameraLimits
	exitWait time.Duration
	loadWait time.Duration
	idleMax  time.Duration

	// factoryFor overrides the default browser bridge, for embedding the
	// server against a different viewer implementation.
	factoryFor func(sessionID string) ports.ViewerFactory

	mu   sync.Mutex
	live map[string]*liveSession

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithMetrics mounts /metrics and feeds the collectors from every session's
// lifecycle hooks.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithHooks adds lifecycle callbacks merged into every session's controller.
func WithHooks(h domain.LifecycleHooks) Option {
	return func(s *Server) { s.hooks = h }
}

// WithCameraLimits sets the camera policy passed to each controller.
func WithCameraLimits(l domain.CameraLimits) Option {
	return func(s *Server) { s.limits = l }
}

// WithExitDuration sets the controllers' exit fade wait.
func WithExitDuration(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.exitWait = d
		}
	}
}

// WithLoadTimeout sets the controllers' viewer load timeout.
func WithLoadTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.loadWait = d
		}
	}
}

// WithIdleTimeout sets how long a live controller survives without traffic.
// Zero disables background eviction.
func WithIdleTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.idleMax = d
		}
	}
}

// WithViewerFactory replaces the browser bridge with a custom per-session
// viewer factory. Viewer-event callbacks become no-ops under a custom
// factory; whatever it builds settles on its own.
func WithViewerFactory(fn func(sessionID string) ports.ViewerFactory) Option {
	return func(s *Server) { s.factoryFor = fn }
}

// New creates the server. Call Close to stop the idle janitor and release
// every live viewer.
func New(reg *registry.Registry, info TourInfo, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		info:     info,
		sessions: sessions,
		logger:   logging.NewNop(),
		limits:   domain.DefaultCameraLimits(),
		exitWait: navigation.DefaultExitDuration,
		loadWait: navigation.DefaultLoadTimeout,
		idleMax:  30 * time.Minute,
		live:     make(map[string]*liveSession),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.streams = NewStreamManager(s.logger)
	if s.idleMax > 0 {
		go s.janitor()
	}
	return s
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/", s.handleIndex)
	r.Get("/openapi.yaml", s.handleOpenAPI)
	r.Get("/swagger", s.handleSwagger)
	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/tour", s.handleTour)
		r.Get("/scenes/{sceneID}", s.handleScene)
		r.Post("/sessions", s.handleCreateSession)
		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleSessionState)
			r.Post("/navigate", s.handleNavigate)
			r.Post("/viewer-events", s.handleViewerEvent)
			r.Get("/events", s.handleEvents)
		})
	})

	return enableCORS(r)
}

// Close stops background eviction and releases every live session's viewer.
func (s *Server) Close() error {
	s.closeOnce.Do(func() { close(s.done) })

	s.mu.Lock()
	live := s.live
	s.live = make(map[string]*liveSession)
	s.mu.Unlock()

	for _, ls := range live {
		if err := ls.controller.Close(); err != nil {
			s.logger.Warn("viewer release failed on shutdown", "session_id", ls.id, "err", err)
		}
	}
	return nil
}

func (s *Server) janitor() {
	interval := s.idleMax / 4
	if interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.EvictIdle(s.idleMax)
		}
	}
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func (s *Server) handleOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/yaml")
	w.Write(api.Spec)
}

func (s *Server) handleSwagger(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(swaggerHTML))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type tourResponse struct {
	Title       string              `json:"title,omitempty"`
	Description string              `json:"description,omitempty"`
	Entry       string              `json:"entry"`
	Camera      domain.CameraLimits `json:"camera"`
	Scenes      []domain.Scene      `json:"scenes"`
}

func (s *Server) handleTour(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, tourResponse{
		Title:       s.info.Title,
		Description: s.info.Description,
		Entry:       s.registry.EntryID(),
		Camera:      s.limits,
		Scenes:      s.registry.List(),
	})
}

func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	scene, err := s.registry.Get(chi.URLParam(r, "sceneID"))
	if err != nil {
		if errors.Is(err, domain.ErrSceneNotFound) {
			s.writeError(w, http.StatusNotFound, err.Error())
			return
		}
		s.writeError(w, http.StatusInternalServerError, "scene lookup failed")
		return
	}
	s.writeJSON(w, http.StatusOK, scene)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func newSessionID() (string, error) {
	var raw [16]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw[:]), nil
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>home360 API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`
