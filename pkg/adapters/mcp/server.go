// Package mcp exposes one tour session over the Model Context Protocol, so
// an AI agent can walk the home with the same guarded transition semantics
// as any other frontend.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/devsanthoshmk/home360"
	"github.com/devsanthoshmk/home360/pkg/domain"
	"github.com/devsanthoshmk/home360/pkg/navigation"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NavigateResponse aligns with the HTTP adapter's navigation result and gives
// structured-output clients the same tagged outcome.
type NavigateResponse struct {
	Outcome   string        `json:"outcome" jsonschema_description:"Terminal status of the attempt: completed, failed, timed_out or skipped"`
	From      string        `json:"from,omitempty" jsonschema_description:"Scene the attempt started from"`
	To        string        `json:"to" jsonschema_description:"Requested target scene"`
	Reason    string        `json:"reason,omitempty" jsonschema_description:"Guard that rejected a skipped attempt"`
	Error     string        `json:"error,omitempty" jsonschema_description:"Viewer failure for a failed or timed out attempt"`
	ElapsedMS int64         `json:"elapsed_ms" jsonschema_description:"Wall time of the whole transition in milliseconds"`
	State     *domain.State `json:"state" jsonschema_description:"Session state after the attempt"`
}

// SceneResponse describes the committed scene plus the visitor's position in
// the tour.
type SceneResponse struct {
	Scene domain.Scene  `json:"scene" jsonschema_description:"Full scene definition, hotspot exits included"`
	Index int           `json:"index" jsonschema_description:"1-based position in declaration order"`
	Total int           `json:"total" jsonschema_description:"Number of scenes in the tour"`
	State *domain.State `json:"state" jsonschema_description:"Current session state"`
}

// Server wraps a navigation controller and exposes it as an MCP Server. The
// controller is the session: every connected client shares the one visitor
// position, exactly like a shared screen.
type Server struct {
	controller *navigation.Controller
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP Server instance around the given session.
func NewServer(ctrl *navigation.Controller) *Server {
	s := &Server{
		controller: ctrl,
		mcpServer:  server.NewMCPServer("home360-mcp", strings.TrimSpace(home360.Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		// Create a timeout context for the graceful shutdown
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		slog.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("CORS middleware", "method", r.Method, "path", r.URL.Path)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: navigate
	navigateTool := mcp.NewTool("navigate",
		mcp.WithDescription("Move the tour to the target scene and wait for its panorama to settle. A second attempt while one is in flight is dropped with a skipped outcome, never queued."),
		mcp.WithString("target", mcp.Required(), mcp.Description("ID of the scene to move to")),
		mcp.WithOutputSchema[NavigateResponse](),
	)
	s.mcpServer.AddTool(navigateTool, mcp.NewStructuredToolHandler(s.handleNavigate))

	// TOOL: step
	stepTool := mcp.NewTool("step",
		mcp.WithDescription("Move one scene forward or back in declaration order, wrapping at the ends of the tour."),
		mcp.WithString("direction", mcp.Required(), mcp.Description("Either \"next\" or \"prev\"")),
		mcp.WithOutputSchema[NavigateResponse](),
	)
	s.mcpServer.AddTool(stepTool, mcp.NewStructuredToolHandler(s.handleStep))

	// TOOL: current_scene
	sceneTool := mcp.NewTool("current_scene",
		mcp.WithDescription("Describe the scene the session is currently on, with the hotspot exits available from it."),
		mcp.WithOutputSchema[SceneResponse](),
	)
	s.mcpServer.AddTool(sceneTool, mcp.NewStructuredToolHandler(s.handleCurrentScene))

	// TOOL: get_tour
	s.mcpServer.AddTool(mcp.NewTool("get_tour",
		mcp.WithDescription("Get the full scene catalog in declaration order, for planning a route."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonBytes, err := json.Marshal(s.tourDocument())
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encode tour: %v", err)), nil
		}
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleNavigate(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NavigateResponse, error) {
	target, _ := args["target"].(string)
	if target == "" {
		return NavigateResponse{}, fmt.Errorf("target is required")
	}

	res, err := s.controller.NavigateTo(ctx, target)
	if err != nil {
		return NavigateResponse{}, fmt.Errorf("navigation aborted: %w", err)
	}
	return s.navigateResponse(res), nil
}

func (s *Server) handleStep(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (NavigateResponse, error) {
	direction, _ := args["direction"].(string)

	var res *domain.Result
	var err error
	switch direction {
	case "next":
		res, err = s.controller.NavigateNext(ctx)
	case "prev":
		res, err = s.controller.NavigatePrev(ctx)
	default:
		return NavigateResponse{}, fmt.Errorf("direction must be \"next\" or \"prev\", got %q", direction)
	}
	if err != nil {
		return NavigateResponse{}, fmt.Errorf("navigation aborted: %w", err)
	}
	return s.navigateResponse(res), nil
}

func (s *Server) handleCurrentScene(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (SceneResponse, error) {
	scene, err := s.controller.CurrentScene()
	if err != nil {
		return SceneResponse{}, fmt.Errorf("current scene: %w", err)
	}
	return SceneResponse{
		Scene: scene,
		Index: s.controller.Index(),
		Total: s.controller.Registry().Len(),
		State: s.controller.State(),
	}, nil
}

func (s *Server) navigateResponse(res *domain.Result) NavigateResponse {
	out := NavigateResponse{
		Outcome:   string(res.Outcome),
		From:      res.From,
		To:        res.To,
		Reason:    string(res.Reason),
		ElapsedMS: res.Elapsed.Milliseconds(),
		State:     s.controller.State(),
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}
	return out
}

// tourDocument is the introspection payload shared by the get_tour tool and
// the home360://tour resource.
func (s *Server) tourDocument() map[string]interface{} {
	reg := s.controller.Registry()
	return map[string]interface{}{
		"entry":  reg.EntryID(),
		"scenes": reg.List(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: home360://tour
	s.mcpServer.AddResource(mcp.NewResource("home360://tour", "Tour Scene Catalog",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.tourDocument())
		if err != nil {
			return nil, fmt.Errorf("failed to encode tour: %w", err)
		}

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "home360://tour",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
