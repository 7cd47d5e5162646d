package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs.
const (
	GalleryURI     = "lattice://gallery"
	DiagramURIBase = "lattice://diagrams/"
)

// RenderResponse is the structured result of render_diagram.
type RenderResponse struct {
	Name       string  `json:"name" jsonschema_description:"Script that was built"`
	SVG        string  `json:"svg" jsonschema_description:"The interactive SVG element"`
	Energy     float64 `json:"energy" jsonschema_description:"Final penalty energy of the layout"`
	Iterations int     `json:"iterations" jsonschema_description:"Optimizer iterations spent"`
}

// Server exposes the gallery as an MCP server.
type Server struct {
	registry  *gallery.Registry
	engine    ports.Engine
	defaults  gallery.Params
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithDefaults sets the parameters tool arguments are applied to.
func WithDefaults(p gallery.Params) Option {
	return func(s *Server) {
		s.defaults = p
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(registry *gallery.Registry, engine ports.Engine, version string, opts ...Option) *Server {
	s := &Server{
		registry:  registry,
		engine:    engine,
		defaults:  gallery.DefaultParams(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer exposes the underlying server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on the given port using SSE until ctx is done.
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

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
	s.mcpServer.AddTool(mcp.NewTool("list_diagrams",
		mcp.WithDescription("List the diagram scripts that can be rendered."),
	), s.handleList)

	renderTool := mcp.NewTool("render_diagram",
		mcp.WithDescription("Build a diagram script and return its SVG."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Script name, see list_diagrams")),
		mcp.WithNumber("seed", mcp.Description("Seed for the initial layout")),
		mcp.WithNumber("width", mcp.Description("Canvas width in pixels")),
		mcp.WithNumber("height", mcp.Description("Canvas height in pixels")),
		mcp.WithNumber("satellites", mcp.Description("Satellite count for the circle script")),
		mcp.WithOutputSchema[RenderResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRender))
}

func (s *Server) handleList(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(s.registry.List())
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleRender(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (RenderResponse, error) {
	name, _ := args["name"].(string)
	p := s.defaults
	if v, ok := args["seed"].(float64); ok && v >= 0 {
		p.Canvas.Seed = uint64(v)
	}
	if v, ok := args["width"].(float64); ok {
		p.Canvas.Width = v
	}
	if v, ok := args["height"].(float64); ok {
		p.Canvas.Height = v
	}
	if v, ok := args["satellites"].(float64); ok {
		p.Satellites = int(v)
	}

	d, err := s.registry.Build(ctx, s.engine, name, p)
	if err != nil {
		s.logger.Warn("MCP render failed", "diagram", name, "err", err)
		return RenderResponse{}, fmt.Errorf("render failed: %w", err)
	}
	return RenderResponse{
		Name:       d.Name,
		SVG:        string(d.Element()),
		Energy:     d.Energy,
		Iterations: d.Iterations,
	}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GalleryURI, "Diagram Gallery",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.registry.List())
		if err != nil {
			return nil, fmt.Errorf("failed to list scripts: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GalleryURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResourceTemplate(mcp.NewResourceTemplate(DiagramURIBase+"{name}", "Rendered Diagram",
		mcp.WithTemplateMIMEType("image/svg+xml"),
	), s.readDiagram)
}

func (s *Server) readDiagram(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := request.Params.URI
	name := strings.TrimPrefix(uri, DiagramURIBase)
	d, err := s.registry.Build(ctx, s.engine, name, s.defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to build %q: %w", name, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "image/svg+xml",
			Text:     string(d.Element()),
		},
	}, nil
}
