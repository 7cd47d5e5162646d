package gallery

import (
	"context"
	"fmt"
	"sync"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// BuildFunc declares a diagram against engine and builds it.
type BuildFunc func(ctx context.Context, engine ports.Engine, p Params) (*domain.Diagram, error)

// Script is a named, buildable diagram.
type Script struct {
	Name        string    `json:"name"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Build       BuildFunc `json:"-"`
}

// Registry manages the available scripts in registration order.
type Registry struct {
	mu      sync.RWMutex
	scripts map[string]Script
	order   []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{scripts: make(map[string]Script)}
}

// Default returns a registry holding the four built-in scripts.
func Default() *Registry {
	r := NewRegistry()
	r.Register(Arrow())
	r.Register(Circle())
	r.Register(Eigen())
	r.Register(Geometry())
	return r
}

// Register adds a script. A script with the same name is replaced in place.
func (r *Registry) Register(s Script) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.scripts[s.Name]; !ok {
		r.order = append(r.order, s.Name)
	}
	r.scripts[s.Name] = s
}

// Lookup finds a script by name.
func (r *Registry) Lookup(name string) (Script, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scripts[name]
	if !ok {
		return Script{}, fmt.Errorf("%w: %q", domain.ErrUnknownDiagram, name)
	}
	return s, nil
}

// List returns every script in registration order.
func (r *Registry) List() []Script {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Script, len(r.order))
	for i, name := range r.order {
		out[i] = r.scripts[name]
	}
	return out
}

// Build validates p and runs the named script.
func (r *Registry) Build(ctx context.Context, engine ports.Engine, name string, p Params) (*domain.Diagram, error) {
	s, err := r.Lookup(name)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return s.Build(ctx, engine, p.WithDefaults())
}
