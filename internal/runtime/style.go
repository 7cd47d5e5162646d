package runtime

import (
	"fmt"
	"math/rand/v2"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/expr"
)

// seedStream keeps the second PCG word fixed so a canvas seed alone decides
// the initial layout.
const seedStream = 0x9e3779b97f4a7c15

type objective struct {
	expr   *expr.Expr
	weight float64
}

// style collects what rule bodies declare for one build.
type style struct {
	canvas      domain.Canvas
	rng         *rand.Rand
	names       []string
	init        []float64
	taken       map[string]int
	shapes      []domain.Shape
	constraints []domain.Constraint
	objectives  []objective
}

func newStyle(c domain.Canvas) *style {
	return &style{
		canvas: c,
		rng:    rand.New(rand.NewPCG(c.Seed, seedStream)),
		taken:  make(map[string]int),
	}
}

var _ domain.Style = (*style)(nil)

func (s *style) Canvas() domain.Canvas { return s.canvas }

// Var registers a free variable. Repeated names get a "#n" suffix so the
// value map stays one to one.
func (s *style) Var(name string, init float64) *expr.Expr {
	if n := s.taken[name]; n > 0 {
		s.taken[name] = n + 1
		name = fmt.Sprintf("%s#%d", name, n+1)
	} else {
		s.taken[name] = 1
	}
	idx := len(s.names)
	s.names = append(s.names, name)
	s.init = append(s.init, init)
	return expr.Variable(name, idx)
}

func (s *style) VarIn(name string, lo, hi float64) *expr.Expr {
	v := lo
	if hi > lo {
		v = lo + s.rng.Float64()*(hi-lo)
	}
	return s.Var(name, v)
}

// Point seeds a position inside the canvas and keeps it there.
func (s *style) Point(name string, margin float64) expr.Vec {
	hw, hh := s.canvas.HalfWidth()-margin, s.canvas.HalfHeight()-margin
	if hw < 0 {
		hw = 0
	}
	if hh < 0 {
		hh = 0
	}
	p := expr.V(s.VarIn(name+".x", -hw, hw), s.VarIn(name+".y", -hh, hh))
	s.Ensure(domain.InCanvas(name, p, s.canvas, margin)...)
	return p
}

func (s *style) Draw(sh domain.Shape) { s.shapes = append(s.shapes, sh) }

func (s *style) Ensure(cs ...domain.Constraint) {
	s.constraints = append(s.constraints, cs...)
}

func (s *style) Encourage(obj *expr.Expr, weight float64) {
	s.objectives = append(s.objectives, objective{expr: obj, weight: weight})
}

// run calls a rule body, turning expression builder panics (such as vector
// length mismatches) into errors.
func (s *style) run(body domain.RuleBody, m domain.Match) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rule panicked: %v", r)
		}
	}()
	return body(s, m)
}
