package lattice

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
)

// SolverSettings tune the optimizer behind every build.
type SolverSettings = runtime.SolverSettings

// DefaultSolverSettings returns the settings used when none are given.
func DefaultSolverSettings() SolverSettings { return runtime.DefaultSolverSettings() }

// Engine is the high-level entry point for the Lattice library.
// It wraps the layout engine together with a registry of diagram scripts.
type Engine struct {
	runtime  *runtime.Engine
	registry *gallery.Registry
	params   gallery.Params
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	solver   *SolverSettings
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSolver overrides the optimizer settings. Zero fields keep defaults.
func WithSolver(s SolverSettings) Option {
	return func(e *Engine) {
		e.solver = &s
	}
}

// WithRegistry replaces the built-in gallery of scripts.
func WithRegistry(r *gallery.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// WithParams sets the parameters Build uses.
func WithParams(p gallery.Params) Option {
	return func(e *Engine) {
		e.params = p
	}
}

// New creates an engine. Without options it serves the four built-in
// scripts with their default parameters.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: gallery.Default(),
		params:   gallery.DefaultParams(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithLogger(e.logger),
		runtime.WithLifecycleHooks(e.hooks),
	}
	if e.solver != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithSolver(*e.solver))
	}
	e.runtime = runtime.NewEngine(runtimeOpts...)
	return e
}

var _ ports.Engine = (*Engine)(nil)

// NewSession starts the declaration of a custom diagram.
func (e *Engine) NewSession(name string, canvas domain.Canvas) ports.Session {
	return e.runtime.NewSession(name, canvas)
}

// Registry returns the script registry.
func (e *Engine) Registry() *gallery.Registry { return e.registry }

// Params returns the parameters Build uses.
func (e *Engine) Params() gallery.Params { return e.params }

// Scripts lists the registered scripts.
func (e *Engine) Scripts() []gallery.Script { return e.registry.List() }

// Build runs the named script with the engine's parameters.
func (e *Engine) Build(ctx context.Context, name string) (*domain.Diagram, error) {
	return e.BuildWith(ctx, name, e.params)
}

// BuildWith runs the named script with p.
func (e *Engine) BuildWith(ctx context.Context, name string, p gallery.Params) (*domain.Diagram, error) {
	return e.registry.Build(ctx, e, name, p)
}

// NewGallery wires a gallery over loader, starting from the engine's
// parameters. Call Select to load a diagram.
func (e *Engine) NewGallery(loader *runner.Loader) *gallery.Gallery {
	return gallery.New(e.registry, e, loader, e.params)
}
