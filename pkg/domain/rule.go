package domain

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/expr"
)

// Style is the scope a rule body declares into. It is implemented by the
// layout engine and only valid while the engine runs the rule.
type Style interface {
	// Canvas returns the canvas the diagram is being built for.
	Canvas() Canvas
	// Var declares a free optimization variable starting at init.
	Var(name string, init float64) *expr.Expr
	// VarIn declares a free variable seeded uniformly in [lo, hi].
	VarIn(name string, lo, hi float64) *expr.Expr
	// Point declares two seeded variables inside the canvas, margin from its edges.
	Point(name string, margin float64) expr.Vec
	// Draw appends a shape to the diagram, in paint order.
	Draw(s Shape)
	// Ensure declares hard constraints.
	Ensure(cs ...Constraint)
	// Encourage adds weight·objective to the energy being minimized.
	Encourage(objective *expr.Expr, weight float64)
}

// Match carries the instances a rule fires for: one for a type rule, the
// predicate tuple for a predicate rule.
type Match struct {
	Instances []Instance
	Fact      *Fact
}

// One returns the single instance of a type-rule match.
func (m Match) One() Instance { return m.Instances[0] }

// At returns the i-th tuple member.
func (m Match) At(i int) Instance { return m.Instances[i] }

// Key identifies the match, e.g. "Connects(e, p, q)" or "p".
func (m Match) Key() string {
	if m.Fact != nil {
		return m.Fact.String()
	}
	return m.Instances[0].ID
}

// RuleBody is the code run for each match.
type RuleBody func(s Style, m Match) error

// Rule selects instances of Type, or tuples satisfying Predicate, and runs
// Body for each of them. Exactly one of Type and Predicate is set.
type Rule struct {
	Name      string
	Type      string
	Predicate string
	Body      RuleBody
}

// Validate checks the selector is well formed.
func (r Rule) Validate() error {
	switch {
	case r.Body == nil:
		return fmt.Errorf("rule %q: nil body", r.Name)
	case r.Type == "" && r.Predicate == "":
		return fmt.Errorf("rule %q: needs a type or a predicate", r.Name)
	case r.Type != "" && r.Predicate != "":
		return fmt.Errorf("rule %q: has both type %q and predicate %q", r.Name, r.Type, r.Predicate)
	}
	return nil
}
