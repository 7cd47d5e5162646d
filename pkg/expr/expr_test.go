package expr

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEval_Arithmetic(t *testing.T) {
	x := Variable("x", 0)
	y := Variable("y", 1)
	env := []float64{3, 4}

	assert.Equal(t, 7.0, Add(x, y).Eval(env))
	assert.Equal(t, -1.0, Sub(x, y).Eval(env))
	assert.Equal(t, 12.0, Mul(x, y).Eval(env))
	assert.Equal(t, 0.75, Div(x, y).Eval(env))
	assert.Equal(t, 5.0, VNorm(V(x, y)).Eval(env))
	assert.Equal(t, 4.0, Max(x, y).Eval(env))
	assert.Equal(t, 3.0, Min(x, y).Eval(env))
	assert.Equal(t, 3.0, Abs(Neg(x)).Eval(env))
	assert.Equal(t, 0.0, Sum().Eval(env))
}

func TestEval_DegenerateFollowsIEEE(t *testing.T) {
	x := Variable("x", 0)
	assert.True(t, math.IsInf(Div(One(), x).Eval([]float64{0}), 1))
	assert.True(t, math.IsNaN(Div(x, x).Eval([]float64{0})))
	assert.True(t, math.IsNaN(Sqrt(x).Eval([]float64{-1})))
	assert.True(t, math.IsNaN(x.Eval(nil)), "unbound variable evaluates to NaN")
}

func TestString(t *testing.T) {
	x := Variable("p.x", 0)
	e := Add(Mul(Const(2), x), Sqrt(x))
	assert.Equal(t, "((2 * p.x) + sqrt(p.x))", e.String())
	assert.Equal(t, "max(p.x, 0)", Max(x, Zero()).String())
}

func TestVars_DedupAndOrder(t *testing.T) {
	x := Variable("x", 0)
	y := Variable("y", 1)
	e := Add(Mul(x, y), Square(x))

	vars := Vars(e)
	require.Len(t, vars, 2)
	assert.Equal(t, "x", vars[0].Name())
	assert.Equal(t, "y", vars[1].Name())
}

func TestProgram_SharedSubtreesEvaluatedOnce(t *testing.T) {
	x := Variable("x", 0)
	shared := Square(x)
	e := Add(shared, shared)

	p := Compile(e)
	assert.Equal(t, 3, p.Len(), "x, x², and the sum")
	assert.Equal(t, 1, p.NumParams())
	assert.Equal(t, 18.0, p.Value([]float64{3}, 0))
}

func TestProgram_GradientMatchesFiniteDifferences(t *testing.T) {
	x := Variable("x", 0)
	y := Variable("y", 1)
	z := Variable("z", 2)
	tests := []struct {
		name string
		e    *Expr
		at   []float64
	}{
		{"polynomial", Add(Mul(x, Square(y)), Neg(z)), []float64{1.5, -2, 0.3}},
		{"quotient", Div(Add(x, z), Sub(y, Const(5))), []float64{2, 1, 4}},
		{"distance", VDist(V(x, y), V(z, Const(1))), []float64{4, 5, 1}},
		{"normalize", VNormalize(V(x, y))[0], []float64{3, 4, 0}},
		{"hinge", Square(Max(Zero(), Sub(Const(10), VNorm(V(x, y))))), []float64{1, 2, 0}},
		{"abs-min", Min(Abs(Sub(x, y)), z), []float64{1, 4, 7}},
	}

	const h = 1e-6
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Compile(tt.e)
			grad := make([]float64, 3)
			v := p.Gradient(tt.at, 0, grad)
			assert.InDelta(t, tt.e.Eval(tt.at), v, 1e-12)

			for i := range tt.at {
				plus := append([]float64(nil), tt.at...)
				minus := append([]float64(nil), tt.at...)
				plus[i] += h
				minus[i] -= h
				fd := (tt.e.Eval(plus) - tt.e.Eval(minus)) / (2 * h)
				assert.InDelta(t, fd, grad[i], 1e-5, "d/dx%d", i)
			}
		})
	}
}

func TestProgram_GradientAtSqrtKinkIsFinite(t *testing.T) {
	a := V(Variable("ax", 0), Variable("ay", 1))
	b := V(Variable("bx", 2), Variable("by", 3))
	p := Compile(VDist(a, b))

	grad := make([]float64, 4)
	v := p.Gradient([]float64{1, 1, 1, 1}, 0, grad)
	assert.Equal(t, 0.0, v)
	for _, g := range grad {
		assert.False(t, math.IsNaN(g))
	}
}

func TestMat_OpsOn2x2(t *testing.T) {
	m := FromColumns(VConst(2, 1), VConst(1, 3))
	assert.Equal(t, 5.0, Det2(m).Eval(nil))
	assert.Equal(t, 5.0, Trace(m).Eval(nil))

	out := MatVec(m, VConst(1, 1)).Eval(nil)
	assert.Equal(t, []float64{3, 4}, out)

	tr := m.Transpose()
	assert.Equal(t, []float64{2, 1}, tr[0].Eval(nil))
}

func TestVec_LengthMismatchPanics(t *testing.T) {
	assert.Panics(t, func() { VAdd(VConst(1, 2), VConst(1)) })
}
