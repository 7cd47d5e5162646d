package runtime

import (
	"io"
	"log/slog"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/google/uuid"
)

// Engine is the layout engine adapter. It owns no state between builds;
// every diagram is declared into its own session.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	solver SolverSettings
	newID  func() string
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger used for build diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers build observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithSolver overrides the optimizer settings. Zero fields keep their defaults.
func WithSolver(s SolverSettings) EngineOption {
	return func(e *Engine) {
		e.solver = s.withDefaults()
	}
}

// WithIDGenerator replaces the build ID source (uuid by default).
func WithIDGenerator(fn func() string) EngineOption {
	return func(e *Engine) {
		if fn != nil {
			e.newID = fn
		}
	}
}

// NewEngine creates an engine with the given options.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		solver: DefaultSolverSettings(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewSession starts the declaration of one diagram.
func (e *Engine) NewSession(name string, canvas domain.Canvas) ports.Session {
	return newSession(e, name, canvas.Normalize())
}

var _ ports.Engine = (*Engine)(nil)
