package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// Engine mints independent build sessions. One session builds one diagram;
// nothing carries over between sessions.
type Engine interface {
	NewSession(name string, canvas domain.Canvas) Session
}

// Session is the three-phase protocol a diagram script drives.
type Session interface {
	// DeclareType registers an opaque entity category.
	DeclareType(name string) error

	// DeclarePredicate registers a named relation over the given parameter types.
	DeclarePredicate(name string, params ...string) error

	// NewInstance mints a handle of a declared type.
	NewInstance(typeName, id, label string) (domain.Instance, error)

	// Assert records that a predicate holds for the given instance tuple.
	Assert(predicate string, args ...domain.Instance) error

	// DeclareRule adds a style rule. Rules run in declaration order.
	DeclareRule(rule domain.Rule) error

	// Build resolves every constraint into concrete coordinates and
	// returns the renderable result. Failures wrap domain.ErrBuildFailed.
	Build(ctx context.Context) (*domain.Diagram, error)
}
