package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/config"
	httpAdapter "github.com/aretw0/lattice/pkg/adapters/http"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/adapters/redis"
	"github.com/aretw0/lattice/pkg/ports"
)

// NewCache creates the cache the configuration selects, or nil for "none".
// The returned close function is never nil.
func NewCache(ctx context.Context, cfg config.Cache) (ports.DiagramCache, func() error, error) {
	noop := func() error { return nil }
	switch strings.ToLower(cfg.Backend) {
	case config.CacheNone:
		return nil, noop, nil
	case config.CacheMemory, "":
		return memory.NewCache(), noop, nil
	case config.CacheRedis:
		c := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithTTL(cfg.TTL), redis.WithPrefix(cfg.Prefix))
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			return nil, noop, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return c, c.Close, nil
	default:
		return nil, noop, fmt.Errorf("%w: unknown cache backend %q", config.ErrInvalid, cfg.Backend)
	}
}

// NewHandler wires the HTTP adapter for app.
func NewHandler(app *App, cache ports.DiagramCache) http.Handler {
	opts := []httpAdapter.Option{
		httpAdapter.WithLogger(app.Logger),
		httpAdapter.WithMetrics(app.Metrics),
		httpAdapter.WithDefaults(app.Engine.Params()),
		httpAdapter.WithBuildTimeout(app.Config.Server.BuildTimeout),
		httpAdapter.WithVersion(strings.TrimSpace(lattice.Version)),
	}
	if cache != nil {
		opts = append(opts, httpAdapter.WithCache(cache))
	}
	return httpAdapter.NewHandler(app.Engine.Registry(), app.Engine, opts...)
}

// Serve runs the HTTP server until ctx is done, then shuts it down within
// the configured timeout.
func Serve(ctx context.Context, app *App, addr string) error {
	if addr == "" {
		addr = app.Config.Server.Addr
	}
	cache, closeCache, err := NewCache(ctx, app.Config.Cache)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeCache(); err != nil {
			app.Logger.Warn("cache close failed", "err", err)
		}
	}()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return serveListener(ctx, app, ln, cache)
}

func serveListener(ctx context.Context, app *App, ln net.Listener, cache ports.DiagramCache) error {
	srv := &http.Server{
		Handler:  NewHandler(app, cache),
		ErrorLog: slog.NewLogLogger(app.Logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.Logger.Info("Starting Lattice Server", "address", ln.Addr().String(), "cache", app.Config.Cache.Backend)
		serverErrors <- srv.Serve(ln)
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		app.Logger.Info("Start shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), app.Config.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			_ = srv.Close()
			return fmt.Errorf("graceful shutdown did not complete in %v: %w", app.Config.Server.ShutdownTimeout, err)
		}
		app.Logger.Info("Lattice Server stopped gracefully")
		return nil
	}
}
