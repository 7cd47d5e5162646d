package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/logging"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/observability"
)

// App bundles what every command needs.
type App struct {
	Config  *config.Config
	Logger  *slog.Logger
	Engine  *lattice.Engine
	Metrics *observability.Metrics
}

// NewApp loads the configuration at path and builds the engine.
// debug forces debug logging and adds build audit hooks.
func NewApp(path string, debug bool) (*App, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalid, err)
	}
	if debug {
		level = slog.LevelDebug
	}
	logger := logging.New(level)
	return newApp(cfg, logger, debug), nil
}

func newApp(cfg *config.Config, logger *slog.Logger, debug bool) *App {
	metrics := observability.NewMetrics()
	hooks := []domain.LifecycleHooks{metrics.Hooks()}
	if debug {
		hooks = append(hooks, createDebugHooks(logger))
	}
	engine := lattice.New(
		lattice.WithLogger(logger),
		lattice.WithLifecycleHooks(observability.Chain(hooks...)),
		lattice.WithSolver(cfg.Solver),
		lattice.WithParams(cfg.Params()),
	)
	return &App{Config: cfg, Logger: logger, Engine: engine, Metrics: metrics}
}

// createDebugHooks logs every build event.
func createDebugHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnBuildStart: func(ctx context.Context, e *domain.BuildEvent) {
			logger.Debug("build_start", "diagram", e.Diagram, "build_id", e.BuildID)
		},
		OnBuildFinish: func(ctx context.Context, e *domain.BuildEvent) {
			logger.Debug("build_finish",
				"diagram", e.Diagram,
				"build_id", e.BuildID,
				"duration", e.Duration,
				"iterations", e.Iterations,
				"outcome", observability.Outcome(e.Err),
			)
		},
	}
}
