package expr

import "fmt"

// Vec is a vector of scalar expressions.
type Vec []*Expr

// V builds a vector from expressions.
func V(xs ...*Expr) Vec { return Vec(xs) }

// VConst builds a vector of literals.
func VConst(xs ...float64) Vec {
	v := make(Vec, len(xs))
	for i, x := range xs {
		v[i] = Const(x)
	}
	return v
}

// X and Y are shorthands for the first two components.
func (v Vec) X() *Expr { return v[0] }
func (v Vec) Y() *Expr { return v[1] }

// Eval evaluates every component.
func (v Vec) Eval(env []float64) []float64 {
	out := make([]float64, len(v))
	for i, c := range v {
		out[i] = c.Eval(env)
	}
	return out
}

func sameLen(op string, a, b Vec) {
	if len(a) != len(b) {
		panic(fmt.Sprintf("expr: %s on vectors of length %d and %d", op, len(a), len(b)))
	}
}

func VAdd(a, b Vec) Vec {
	sameLen("vadd", a, b)
	out := make(Vec, len(a))
	for i := range a {
		out[i] = Add(a[i], b[i])
	}
	return out
}

func VSub(a, b Vec) Vec {
	sameLen("vsub", a, b)
	out := make(Vec, len(a))
	for i := range a {
		out[i] = Sub(a[i], b[i])
	}
	return out
}

// VMul scales v by the scalar k.
func VMul(k *Expr, v Vec) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = Mul(k, v[i])
	}
	return out
}

func VNeg(v Vec) Vec {
	out := make(Vec, len(v))
	for i := range v {
		out[i] = Neg(v[i])
	}
	return out
}

func VDot(a, b Vec) *Expr {
	sameLen("vdot", a, b)
	terms := make([]*Expr, len(a))
	for i := range a {
		terms[i] = Mul(a[i], b[i])
	}
	return Sum(terms...)
}

// VNormSq is the squared euclidean length.
func VNormSq(v Vec) *Expr {
	terms := make([]*Expr, len(v))
	for i := range v {
		terms[i] = Square(v[i])
	}
	return Sum(terms...)
}

func VNorm(v Vec) *Expr { return Sqrt(VNormSq(v)) }

func VDist(a, b Vec) *Expr { return VNorm(VSub(a, b)) }

// VNormalize divides v by its length. The zero vector yields NaN components.
func VNormalize(v Vec) Vec {
	n := VNorm(v)
	out := make(Vec, len(v))
	for i := range v {
		out[i] = Div(v[i], n)
	}
	return out
}

// VCross2 is the z component of the 2D cross product.
func VCross2(a, b Vec) *Expr {
	return Sub(Mul(a[0], b[1]), Mul(a[1], b[0]))
}

// VLerp returns a + t(b-a).
func VLerp(a, b Vec, t *Expr) Vec { return VAdd(a, VMul(t, VSub(b, a))) }

// VRot90 rotates a 2D vector a quarter turn counter-clockwise.
func VRot90(v Vec) Vec { return Vec{Neg(v[1]), v[0]} }
