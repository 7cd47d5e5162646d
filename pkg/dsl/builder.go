package dsl

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

// Builder manages the declaration of one diagram against an engine session.
type Builder struct {
	session ports.Session
	err     error
	rules   int
}

// New creates a builder over a fresh engine session.
func New(session ports.Session) *Builder {
	return &Builder{session: session}
}

// Err returns the first declaration error, if any.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) {
	if b.err == nil && err != nil {
		b.err = err
	}
}

// Type declares an opaque entity type.
func (b *Builder) Type(name string) *TypeBuilder {
	b.fail(b.session.DeclareType(name))
	return &TypeBuilder{b: b, name: name}
}

// Predicate declares a named relation over the given parameter types.
func (b *Builder) Predicate(name string, params ...string) *PredicateBuilder {
	b.fail(b.session.DeclarePredicate(name, params...))
	return &PredicateBuilder{b: b, name: name}
}

func (b *Builder) rule(r domain.Rule) {
	b.rules++
	if r.Name == "" {
		r.Name = fmt.Sprintf("rule-%d", b.rules)
	}
	b.fail(b.session.DeclareRule(r))
}

// Build runs the engine's asynchronous build step, unless a declaration
// already failed.
func (b *Builder) Build(ctx context.Context) (*domain.Diagram, error) {
	if b.err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBuildFailed, b.err)
	}
	return b.session.Build(ctx)
}

// TypeBuilder mints instances of a type and declares rules over them.
type TypeBuilder struct {
	b    *Builder
	name string
}

// Name returns the declared type name.
func (t *TypeBuilder) Name() string { return t.name }

// New mints an unlabeled instance.
func (t *TypeBuilder) New(id string) domain.Instance {
	return t.NewLabeled(id, "")
}

// NewLabeled mints an instance carrying a text label.
func (t *TypeBuilder) NewLabeled(id, label string) domain.Instance {
	in, err := t.b.session.NewInstance(t.name, id, label)
	t.b.fail(err)
	return in
}

// NewN mints count instances named prefix0..prefix{count-1}.
func (t *TypeBuilder) NewN(prefix string, count int) []domain.Instance {
	out := make([]domain.Instance, count)
	for i := range out {
		out[i] = t.New(fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

// ForAll declares a rule run once per instance of the type.
func (t *TypeBuilder) ForAll(fn func(s domain.Style, in domain.Instance) error) {
	t.b.rule(domain.Rule{
		Name: "forall " + t.name,
		Type: t.name,
		Body: func(s domain.Style, m domain.Match) error { return fn(s, m.One()) },
	})
}

// PredicateBuilder asserts facts and declares rules over them.
type PredicateBuilder struct {
	b    *Builder
	name string
}

// Name returns the declared predicate name.
func (p *PredicateBuilder) Name() string { return p.name }

// Assert records that the predicate holds for args.
func (p *PredicateBuilder) Assert(args ...domain.Instance) {
	p.b.fail(p.b.session.Assert(p.name, args...))
}

// ForAllWhere declares a rule run once per tuple the predicate holds for.
func (p *PredicateBuilder) ForAllWhere(fn func(s domain.Style, m domain.Match) error) {
	p.b.rule(domain.Rule{
		Name:      "forall where " + p.name,
		Predicate: p.name,
		Body:      fn,
	})
}
