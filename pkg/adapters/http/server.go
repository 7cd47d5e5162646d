package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/singleflight"
)

// DefaultBuildTimeout bounds a single build started by a request.
const DefaultBuildTimeout = 30 * time.Second

// CacheHeader reports whether the markup came from the cache.
const CacheHeader = "X-Lattice-Cache"

// Server implements ServerInterface over a script registry.
type Server struct {
	registry *gallery.Registry
	engine   ports.Engine
	cache    ports.DiagramCache
	metrics  *observability.Metrics
	logger   *slog.Logger
	defaults gallery.Params
	timeout  time.Duration
	version  string
	flight   singleflight.Group
}

// Ensure Server implements ServerInterface
var _ ServerInterface = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithCache stores rendered markup keyed by script and parameters.
func WithCache(c ports.DiagramCache) Option {
	return func(s *Server) {
		s.cache = c
	}
}

// WithMetrics mounts /metrics and counts cache lookups.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
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

// WithDefaults sets the parameters query overrides are applied to.
func WithDefaults(p gallery.Params) Option {
	return func(s *Server) {
		s.defaults = p
	}
}

// WithBuildTimeout bounds builds started by requests.
func WithBuildTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithVersion is reported by /health.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// NewServer creates a server for the scripts in registry.
func NewServer(registry *gallery.Registry, engine ports.Engine, opts ...Option) *Server {
	s := &Server{
		registry: registry,
		engine:   engine,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
		defaults: gallery.DefaultParams(),
		timeout:  DefaultBuildTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewHandler creates a new HTTP handler for the gallery.
func NewHandler(registry *gallery.Registry, engine ports.Engine, opts ...Option) http.Handler {
	return NewServer(registry, engine, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		if _, err := GetSwagger(); err != nil {
			http.Error(w, "Failed to load spec", http.StatusInternalServerError)
			s.logger.Error("Failed to load OpenAPI spec", "err", err)
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(specYAML)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/gallery", http.StatusFound)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics.Handler())
	}

	handler := HandlerWithOptions(s, r, func(w http.ResponseWriter, r *http.Request, err error) {
		s.writeError(w, http.StatusBadRequest, err)
	})
	return enableCORS(handler)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>Lattice API Documentation</title>
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

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, Health{Status: "ok", Version: s.version, APIVersion: apiVersion})
}

// ListDiagrams handles GET /diagrams.
func (s *Server) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.registry.List())
}

// GetDiagram handles GET /diagrams/{name}. Markup is served from the cache
// when present.
func (s *Server) GetDiagram(w http.ResponseWriter, r *http.Request, name string, params GetDiagramParams) {
	p := params.apply(s.defaults)
	if err := s.check(name, p); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}

	key := p.Key(name)
	if markup, ok := s.cached(r.Context(), key); ok {
		w.Header().Set(CacheHeader, "hit")
		writeSVG(w, markup)
		return
	}

	d, err := s.build(r.Context(), name, p)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	if s.cache != nil {
		if err := s.cache.Put(r.Context(), key, d.Element()); err != nil {
			s.logger.Warn("cache write failed", "key", key, "err", err)
		}
	}
	w.Header().Set(CacheHeader, "miss")
	writeSVG(w, d.Element())
}

// GetDiagramLayout handles GET /diagrams/{name}/layout.
func (s *Server) GetDiagramLayout(w http.ResponseWriter, r *http.Request, name string, params GetDiagramParams) {
	p := params.apply(s.defaults)
	if err := s.check(name, p); err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	d, err := s.build(r.Context(), name, p)
	if err != nil {
		s.writeError(w, statusFor(err), err)
		return
	}
	s.writeJSON(w, http.StatusOK, NewLayout(d))
}

// GetGallery handles GET /gallery.
func (s *Server) GetGallery(w http.ResponseWriter, r *http.Request, params GetGalleryParams) {
	scripts := s.registry.List()
	p := s.defaults
	if params.Seed != nil {
		p.Canvas.Seed = *params.Seed
	}

	page := galleryPage{Scripts: scripts}
	switch {
	case params.Selected != nil && *params.Selected != "":
		page.Selected = *params.Selected
	case len(scripts) > 0:
		page.Selected = scripts[0].Name
	}
	if page.Selected != "" {
		if _, err := s.registry.Lookup(page.Selected); err != nil {
			s.writeError(w, http.StatusNotFound, err)
			return
		}
		d, err := s.build(r.Context(), page.Selected, p)
		if err != nil {
			s.logger.Warn("gallery build failed", "diagram", page.Selected, "err", err)
			page.Error = err.Error()
		}
		var stage bytes.Buffer
		renderer := runner.NewRenderer(&stage, runner.WithRendererLogger(s.logger))
		renderer.Render(d)
		renderer.Close()
		page.Stage = stage.String()
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, page); err != nil {
		s.logger.Error("gallery template failed", "err", err)
		http.Error(w, "Failed to render gallery", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) check(name string, p gallery.Params) error {
	if _, err := s.registry.Lookup(name); err != nil {
		return err
	}
	return p.Validate()
}

func (s *Server) cached(ctx context.Context, key string) ([]byte, bool) {
	if s.cache == nil {
		return nil, false
	}
	markup, err := s.cache.Get(ctx, key)
	if err != nil && !errors.Is(err, domain.ErrCacheMiss) {
		s.logger.Warn("cache read failed", "key", key, "err", err)
	}
	hit := err == nil
	if s.metrics != nil {
		s.metrics.ObserveCache(hit)
	}
	return markup, hit
}

// build coalesces concurrent requests for the same script and parameters.
// The build outlives a single caller's cancellation so that the other
// waiters still get a result.
func (s *Server) build(ctx context.Context, name string, p gallery.Params) (*domain.Diagram, error) {
	key := p.Key(name)
	v, err, shared := s.flight.Do(key, func() (any, error) {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()
		return s.registry.Build(ctx, s.engine, name, p)
	})
	if shared {
		s.logger.Debug("build shared", "key", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*domain.Diagram), nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownDiagram):
		return http.StatusNotFound
	case errors.Is(err, gallery.ErrInvalidParams):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrBuildFailed):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeSVG(w http.ResponseWriter, markup []byte) {
	w.Header().Set("Content-Type", "image/svg+xml")
	_, _ = w.Write(markup)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "err", err)
	} else {
		s.logger.Debug("request rejected", "status", status, "err", err)
	}
	s.writeJSON(w, status, Error{Error: err.Error()})
}
