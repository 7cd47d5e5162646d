// Package formula holds the closed-form geometry used by the diagrams,
// expressed with the symbolic builder in package expr so the layout engine can
// differentiate through it.
//
// None of the expression builders guard against degenerate input. Collinear
// points passed to Circumcenter, or a map with c = 0 passed to EigenLines,
// produce expressions that evaluate to NaN or ±Inf. Callers that need a
// defined error kind evaluate the result and run CheckFinite.
package formula

import (
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/lattice/pkg/expr"
)

// ErrDegenerate reports a formula evaluated to a non-finite value.
var ErrDegenerate = errors.New("formula: degenerate input (non-finite result)")

// Circumcenter returns the center and radius of the circle through p1, p2, p3.
//
//	D  = 2·(x1(y2−y3) + x2(y3−y1) + x3(y1−y2))
//	ux = ((x1²+y1²)(y2−y3) + (x2²+y2²)(y3−y1) + (x3²+y3²)(y1−y2)) / D
//	uy = ((x1²+y1²)(x3−x2) + (x2²+y2²)(x1−x3) + (x3²+y3²)(x2−x1)) / D
func Circumcenter(p1, p2, p3 expr.Vec) (center expr.Vec, radius *expr.Expr) {
	x1, y1 := p1.X(), p1.Y()
	x2, y2 := p2.X(), p2.Y()
	x3, y3 := p3.X(), p3.Y()

	d := expr.Mul(expr.Two(), expr.Sum(
		expr.Mul(x1, expr.Sub(y2, y3)),
		expr.Mul(x2, expr.Sub(y3, y1)),
		expr.Mul(x3, expr.Sub(y1, y2)),
	))

	s1 := expr.VNormSq(p1)
	s2 := expr.VNormSq(p2)
	s3 := expr.VNormSq(p3)

	ux := expr.Div(expr.Sum(
		expr.Mul(s1, expr.Sub(y2, y3)),
		expr.Mul(s2, expr.Sub(y3, y1)),
		expr.Mul(s3, expr.Sub(y1, y2)),
	), d)
	uy := expr.Div(expr.Sum(
		expr.Mul(s1, expr.Sub(x3, x2)),
		expr.Mul(s2, expr.Sub(x1, x3)),
		expr.Mul(s3, expr.Sub(x2, x1)),
	), d)

	center = expr.V(ux, uy)
	return center, expr.VDist(center, p1)
}

// EigenLines returns unit directions of the two eigenvector lines of the 2x2
// map sending (1,0) to col1 = (a,c) and (0,1) to col2 = (b,d).
//
// Each direction is parameterized with its second component fixed at 1 and
// the first solved from the characteristic equation λ² − (a+d)λ + (ad−bc) = 0:
//
//	x± = (a − d ± √((a−d)² + 4bc)) / (2c)
//	dir± = normalize([x±, 1])
//
// The first result uses + before the square root, the second uses −.
func EigenLines(col1, col2 expr.Vec) (dir1, dir2 expr.Vec) {
	a, c := col1.X(), col1.Y()
	b, d := col2.X(), col2.Y()

	disc := expr.Sqrt(expr.Add(
		expr.Square(expr.Sub(a, d)),
		expr.Mul(expr.Const(4), expr.Mul(b, c)),
	))
	den := expr.Mul(expr.Two(), c)
	amd := expr.Sub(a, d)

	xPlus := expr.Div(expr.Add(amd, disc), den)
	xMinus := expr.Div(expr.Sub(amd, disc), den)

	dir1 = expr.VNormalize(expr.V(xPlus, expr.One()))
	dir2 = expr.VNormalize(expr.V(xMinus, expr.One()))
	return dir1, dir2
}

// Point is a numeric 2D point.
type Point struct{ X, Y float64 }

func (p Point) vec() expr.Vec { return expr.VConst(p.X, p.Y) }

// CircumcenterAt evaluates Circumcenter on concrete points.
func CircumcenterAt(p1, p2, p3 Point) (Point, float64) {
	c, r := Circumcenter(p1.vec(), p2.vec(), p3.vec())
	xy := c.Eval(nil)
	return Point{xy[0], xy[1]}, r.Eval(nil)
}

// EigenLinesAt evaluates EigenLines on concrete columns.
func EigenLinesAt(col1, col2 Point) (Point, Point) {
	d1, d2 := EigenLines(col1.vec(), col2.vec())
	u, v := d1.Eval(nil), d2.Eval(nil)
	return Point{u[0], u[1]}, Point{v[0], v[1]}
}

// CheckFinite returns ErrDegenerate, annotated with the first offending
// index, if any value is NaN or infinite.
func CheckFinite(values ...float64) error {
	for i, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("value %d is %v: %w", i, v, ErrDegenerate)
		}
	}
	return nil
}
