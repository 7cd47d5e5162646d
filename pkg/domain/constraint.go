package domain

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/expr"
)

// Relation is how a constraint residual is compared with zero.
type Relation string

const (
	// RelationEq requires Residual == 0.
	RelationEq Relation = "eq"
	// RelationLe requires Residual <= 0.
	RelationLe Relation = "le"
)

// Constraint is a requirement the optimizer must satisfy when computing
// positions. Every constructor reduces to a residual compared with zero.
type Constraint struct {
	Name     string
	Relation Relation
	Residual *expr.Expr
}

func (c Constraint) String() string {
	op := "="
	if c.Relation == RelationLe {
		op = "<="
	}
	return fmt.Sprintf("%s: %s %s 0", c.Name, c.Residual, op)
}

// Satisfied reports whether residual value v meets the relation within tol.
func (c Constraint) Satisfied(v, tol float64) bool {
	if c.Relation == RelationEq {
		return v <= tol && v >= -tol
	}
	return v <= tol
}

// Equal requires a == b.
func Equal(name string, a, b *expr.Expr) Constraint {
	return Constraint{Name: name, Relation: RelationEq, Residual: expr.Sub(a, b)}
}

// LessEq requires a <= b.
func LessEq(name string, a, b *expr.Expr) Constraint {
	return Constraint{Name: name, Relation: RelationLe, Residual: expr.Sub(a, b)}
}

// GreaterEq requires a >= b.
func GreaterEq(name string, a, b *expr.Expr) Constraint {
	return Constraint{Name: name, Relation: RelationLe, Residual: expr.Sub(b, a)}
}

// Orthogonal requires u·v == 0.
func Orthogonal(name string, u, v expr.Vec) Constraint {
	return Constraint{Name: name, Relation: RelationEq, Residual: expr.VDot(u, v)}
}

// MinSeparation requires |p−q| >= d.
func MinSeparation(name string, p, q expr.Vec, d *expr.Expr) Constraint {
	return GreaterEq(name, expr.VDist(p, q), d)
}

// Contains requires point p to lie inside the circle (center, r) with padding.
func Contains(name string, center expr.Vec, r *expr.Expr, p expr.Vec, padding float64) Constraint {
	return LessEq(name, expr.Add(expr.VDist(center, p), expr.Const(padding)), r)
}

// Disjoint requires two circles to be separated by at least padding.
func Disjoint(name string, c1 expr.Vec, r1 *expr.Expr, c2 expr.Vec, r2 *expr.Expr, padding float64) Constraint {
	return GreaterEq(name, expr.VDist(c1, c2), expr.Sum(r1, r2, expr.Const(padding)))
}

// InCanvas keeps p at least margin away from every canvas edge.
func InCanvas(name string, p expr.Vec, c Canvas, margin float64) []Constraint {
	hw := expr.Const(c.HalfWidth() - margin)
	hh := expr.Const(c.HalfHeight() - margin)
	return []Constraint{
		LessEq(name+".right", p.X(), hw),
		GreaterEq(name+".left", p.X(), expr.Neg(hw)),
		LessEq(name+".top", p.Y(), hh),
		GreaterEq(name+".bottom", p.Y(), expr.Neg(hh)),
	}
}
