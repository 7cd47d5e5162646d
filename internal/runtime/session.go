package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/lattice/internal/presentation/svg"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
)

type session struct {
	engine *Engine
	name   string
	canvas domain.Canvas

	types      map[string]bool
	predicates map[string]domain.Predicate
	instances  []domain.Instance
	byID       map[string]domain.Instance
	facts      []domain.Fact
	rules      []domain.Rule
}

func newSession(e *Engine, name string, canvas domain.Canvas) *session {
	return &session{
		engine:     e,
		name:       name,
		canvas:     canvas,
		types:      make(map[string]bool),
		predicates: make(map[string]domain.Predicate),
		byID:       make(map[string]domain.Instance),
	}
}

var _ ports.Session = (*session)(nil)

func (s *session) DeclareType(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty type name", domain.ErrUnknownType)
	}
	if s.types[name] {
		return fmt.Errorf("%w: type %q", domain.ErrDuplicate, name)
	}
	s.types[name] = true
	return nil
}

func (s *session) DeclarePredicate(name string, params ...string) error {
	if name == "" {
		return fmt.Errorf("%w: empty predicate name", domain.ErrUnknownPredicate)
	}
	if _, ok := s.predicates[name]; ok {
		return fmt.Errorf("%w: predicate %q", domain.ErrDuplicate, name)
	}
	for _, p := range params {
		if !s.types[p] {
			return fmt.Errorf("%w: %q in predicate %q", domain.ErrUnknownType, p, name)
		}
	}
	s.predicates[name] = domain.Predicate{Name: name, Params: append([]string(nil), params...)}
	return nil
}

func (s *session) NewInstance(typeName, id, label string) (domain.Instance, error) {
	if !s.types[typeName] {
		return domain.Instance{}, fmt.Errorf("%w: %q for instance %q", domain.ErrUnknownType, typeName, id)
	}
	if id == "" {
		return domain.Instance{}, fmt.Errorf("empty instance id of type %q", typeName)
	}
	if _, ok := s.byID[id]; ok {
		return domain.Instance{}, fmt.Errorf("%w %q", domain.ErrDuplicateInstance, id)
	}
	in := domain.Instance{ID: id, Type: typeName, Label: label}
	s.instances = append(s.instances, in)
	s.byID[id] = in
	return in, nil
}

// Assert validates the tuple against the predicate signature. Asserting a
// fact that already holds is a no-op.
func (s *session) Assert(predicate string, args ...domain.Instance) error {
	p, ok := s.predicates[predicate]
	if !ok {
		return fmt.Errorf("%w: %q", domain.ErrUnknownPredicate, predicate)
	}
	if len(args) != p.Arity() {
		return fmt.Errorf("%w: %s given %d arguments", domain.ErrArity, p, len(args))
	}
	ids := make([]string, len(args))
	for i, a := range args {
		known, ok := s.byID[a.ID]
		if !ok || known.Type != a.Type {
			return fmt.Errorf("%w: %q is not an instance of this session", domain.ErrTypeMismatch, a.ID)
		}
		if a.Type != p.Params[i] {
			return fmt.Errorf("%w: %s argument %d is %s %q", domain.ErrTypeMismatch, p, i, a.Type, a.ID)
		}
		ids[i] = a.ID
	}
	for _, f := range s.facts {
		if f.Holds(predicate, ids...) {
			return nil
		}
	}
	s.facts = append(s.facts, domain.Fact{Predicate: predicate, Args: ids})
	return nil
}

func (s *session) DeclareRule(rule domain.Rule) error {
	if err := rule.Validate(); err != nil {
		return err
	}
	if rule.Type != "" && !s.types[rule.Type] {
		return fmt.Errorf("%w: %q in rule %q", domain.ErrUnknownType, rule.Type, rule.Name)
	}
	if rule.Predicate != "" {
		if _, ok := s.predicates[rule.Predicate]; !ok {
			return fmt.Errorf("%w: %q in rule %q", domain.ErrUnknownPredicate, rule.Predicate, rule.Name)
		}
	}
	s.rules = append(s.rules, rule)
	return nil
}

// Build runs every rule, solves the layout and renders the result.
// It can be called more than once; each call starts from the seeded layout.
func (s *session) Build(ctx context.Context) (*domain.Diagram, error) {
	e := s.engine
	id := e.newID()
	start := time.Now()
	log := e.logger.With("diagram", s.name, "build_id", id)

	if e.hooks.OnBuildStart != nil {
		e.hooks.OnBuildStart(ctx, &domain.BuildEvent{
			Timestamp: start,
			Type:      domain.EventBuildStart,
			BuildID:   id,
			Diagram:   s.name,
		})
	}
	log.Debug("build started", "instances", len(s.instances), "facts", len(s.facts), "rules", len(s.rules))

	d, err := s.build(ctx, id)
	duration := time.Since(start)

	finish := &domain.BuildEvent{
		Timestamp: time.Now(),
		Type:      domain.EventBuildFinish,
		BuildID:   id,
		Diagram:   s.name,
		Duration:  duration,
	}
	if err != nil {
		err = fmt.Errorf("%w: %s: %w", domain.ErrBuildFailed, s.name, err)
		finish.Err = err
		log.Warn("build failed", "err", err, "duration", duration)
	} else {
		d.Duration = duration
		finish.Iterations = d.Iterations
		log.Info("build finished", "shapes", len(d.Shapes), "iterations", d.Iterations, "energy", d.Energy, "duration", duration)
	}
	if e.hooks.OnBuildFinish != nil {
		e.hooks.OnBuildFinish(ctx, finish)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *session) build(ctx context.Context, id string) (*domain.Diagram, error) {
	st := newStyle(s.canvas)
	if err := s.runRules(ctx, st); err != nil {
		return nil, err
	}

	sol, err := solve(ctx, s.engine.solver, st, s.engine.logger)
	if err != nil {
		return nil, err
	}

	shapes := make([]domain.Rendered, len(st.shapes))
	for i, sh := range st.shapes {
		r, err := evalShape(sh, sol.x)
		if err != nil {
			return nil, fmt.Errorf("shape %d (%s/%s): %w", i, sh.Owner, sh.Role, err)
		}
		shapes[i] = r
	}

	markup, err := svg.Render(s.canvas, shapes)
	if err != nil {
		return nil, err
	}

	values := make(map[string]float64, len(st.names))
	for i, name := range st.names {
		values[name] = sol.x[i]
	}

	return &domain.Diagram{
		ID:         id,
		Name:       s.name,
		Canvas:     s.canvas,
		Instances:  append([]domain.Instance(nil), s.instances...),
		Facts:      append([]domain.Fact(nil), s.facts...),
		Shapes:     shapes,
		Values:     values,
		Energy:     sol.energy,
		Iterations: sol.iterations,
		Markup:     markup,
	}, nil
}

// runRules applies rules in declaration order. Type rules visit instances in
// creation order and predicate rules visit facts in assertion order.
func (s *session) runRules(ctx context.Context, st *style) error {
	for _, r := range s.rules {
		if err := ctx.Err(); err != nil {
			return err
		}
		var matches []domain.Match
		if r.Type != "" {
			for _, in := range s.instances {
				if in.Type == r.Type {
					matches = append(matches, domain.Match{Instances: []domain.Instance{in}})
				}
			}
		} else {
			for i := range s.facts {
				f := &s.facts[i]
				if f.Predicate != r.Predicate {
					continue
				}
				args := make([]domain.Instance, len(f.Args))
				for j, a := range f.Args {
					args[j] = s.byID[a]
				}
				matches = append(matches, domain.Match{Instances: args, Fact: f})
			}
		}
		for _, m := range matches {
			if err := st.run(r.Body, m); err != nil {
				return fmt.Errorf("rule %q on %s: %w", r.Name, m.Key(), err)
			}
		}
	}
	return nil
}

var errNoRadius = errors.New("circle without radius")
