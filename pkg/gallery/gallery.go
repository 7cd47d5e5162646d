package gallery

import (
	"context"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
)

// Gallery holds the selected script and drives a loader with it. Changing
// the selection, or the parameters, starts a new build; the loader discards
// whatever the previous build produces.
type Gallery struct {
	registry *Registry
	engine   ports.Engine
	loader   *runner.Loader

	mu       sync.Mutex
	selected string
	params   Params
}

// New creates a gallery over registry. Nothing is built until Select.
func New(registry *Registry, engine ports.Engine, loader *runner.Loader, params Params) *Gallery {
	return &Gallery{
		registry: registry,
		engine:   engine,
		loader:   loader,
		params:   params.WithDefaults(),
	}
}

// Scripts lists the selectable scripts.
func (g *Gallery) Scripts() []Script { return g.registry.List() }

// Selected returns the name of the selected script, or "".
func (g *Gallery) Selected() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected
}

// Params returns the parameters builds run with.
func (g *Gallery) Params() Params {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.params
}

// Select makes name the current script and hands its build to the loader.
func (g *Gallery) Select(name string) error {
	if _, err := g.registry.Lookup(name); err != nil {
		return err
	}
	g.mu.Lock()
	g.selected = name
	p := g.params
	g.mu.Unlock()
	g.use(name, p)
	return nil
}

// SetParams replaces the build parameters and rebuilds the selection.
// It is how a drag on a diagram handle is applied.
func (g *Gallery) SetParams(p Params) error {
	if err := p.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	g.params = p.WithDefaults()
	name, params := g.selected, g.params
	g.mu.Unlock()
	if name != "" {
		g.use(name, params)
	}
	return nil
}

func (g *Gallery) use(name string, p Params) {
	g.loader.Use(p.Key(name), func(ctx context.Context) (*domain.Diagram, error) {
		return g.registry.Build(ctx, g.engine, name, p)
	})
}
