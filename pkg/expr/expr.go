package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Op identifies the operator of an expression node.
type Op uint8

const (
	OpConst Op = iota
	OpVar
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpNeg
	OpSqrt
	OpSquare
	OpAbs
	OpMax
	OpMin
)

var opNames = [...]string{
	OpConst:  "const",
	OpVar:    "var",
	OpAdd:    "+",
	OpSub:    "-",
	OpMul:    "*",
	OpDiv:    "/",
	OpNeg:    "neg",
	OpSqrt:   "sqrt",
	OpSquare: "sq",
	OpAbs:    "abs",
	OpMax:    "max",
	OpMin:    "min",
}

func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return "op(" + strconv.Itoa(int(o)) + ")"
}

// Arity returns the number of operands the operator takes.
func (o Op) Arity() int {
	switch o {
	case OpConst, OpVar:
		return 0
	case OpNeg, OpSqrt, OpSquare, OpAbs:
		return 1
	default:
		return 2
	}
}

// Expr is an immutable node of a scalar expression tree.
// Nodes are shared freely between trees; identity is pointer identity.
type Expr struct {
	op    Op
	value float64 // OpConst
	index int     // OpVar: position in the parameter vector
	name  string  // OpVar
	a, b  *Expr
}

// Op returns the node operator.
func (e *Expr) Op() Op { return e.op }

// Operands returns the children of the node (nil for leaves).
func (e *Expr) Operands() []*Expr {
	switch e.op.Arity() {
	case 1:
		return []*Expr{e.a}
	case 2:
		return []*Expr{e.a, e.b}
	}
	return nil
}

// Value returns the constant value of an OpConst node and false otherwise.
func (e *Expr) Value() (float64, bool) {
	if e.op != OpConst {
		return 0, false
	}
	return e.value, true
}

// Index returns the parameter index of an OpVar node, or -1.
func (e *Expr) Index() int {
	if e.op != OpVar {
		return -1
	}
	return e.index
}

// Name returns the variable name of an OpVar node.
func (e *Expr) Name() string { return e.name }

// Const wraps a literal.
func Const(v float64) *Expr { return &Expr{op: OpConst, value: v} }

// Variable creates a free variable bound to position index of a parameter vector.
func Variable(name string, index int) *Expr {
	if index < 0 {
		panic(fmt.Sprintf("expr: negative variable index %d for %q", index, name))
	}
	return &Expr{op: OpVar, name: name, index: index}
}

var (
	zero = Const(0)
	one  = Const(1)
	two  = Const(2)
)

// Zero, One and Two are shared constants.
func Zero() *Expr { return zero }
func One() *Expr  { return one }
func Two() *Expr  { return two }

func binary(op Op, a, b *Expr) *Expr {
	if a == nil || b == nil {
		panic("expr: nil operand to " + op.String())
	}
	return &Expr{op: op, a: a, b: b}
}

func unary(op Op, a *Expr) *Expr {
	if a == nil {
		panic("expr: nil operand to " + op.String())
	}
	return &Expr{op: op, a: a}
}

func Add(a, b *Expr) *Expr { return binary(OpAdd, a, b) }
func Sub(a, b *Expr) *Expr { return binary(OpSub, a, b) }
func Mul(a, b *Expr) *Expr { return binary(OpMul, a, b) }

// Div does not guard against a zero denominator; evaluation follows IEEE-754.
func Div(a, b *Expr) *Expr { return binary(OpDiv, a, b) }
func Max(a, b *Expr) *Expr { return binary(OpMax, a, b) }
func Min(a, b *Expr) *Expr { return binary(OpMin, a, b) }

func Neg(a *Expr) *Expr    { return unary(OpNeg, a) }
func Sqrt(a *Expr) *Expr   { return unary(OpSqrt, a) }
func Square(a *Expr) *Expr { return unary(OpSquare, a) }
func Abs(a *Expr) *Expr    { return unary(OpAbs, a) }

// Sum folds terms with Add. An empty sum is zero.
func Sum(terms ...*Expr) *Expr {
	if len(terms) == 0 {
		return zero
	}
	acc := terms[0]
	for _, t := range terms[1:] {
		acc = Add(acc, t)
	}
	return acc
}

// Scale multiplies e by a literal.
func Scale(k float64, e *Expr) *Expr { return Mul(Const(k), e) }

// Eval evaluates e against a parameter vector. Shared subtrees are
// re-evaluated; use Compile for repeated evaluation.
func (e *Expr) Eval(env []float64) float64 {
	switch e.op {
	case OpConst:
		return e.value
	case OpVar:
		if e.index >= len(env) {
			return math.NaN()
		}
		return env[e.index]
	}
	x := e.a.Eval(env)
	var y float64
	if e.op.Arity() == 2 {
		y = e.b.Eval(env)
	}
	return apply(e.op, x, y)
}

func apply(op Op, x, y float64) float64 {
	switch op {
	case OpAdd:
		return x + y
	case OpSub:
		return x - y
	case OpMul:
		return x * y
	case OpDiv:
		return x / y
	case OpNeg:
		return -x
	case OpSqrt:
		return math.Sqrt(x)
	case OpSquare:
		return x * x
	case OpAbs:
		return math.Abs(x)
	case OpMax:
		return math.Max(x, y)
	case OpMin:
		return math.Min(x, y)
	}
	panic("expr: apply on leaf op " + op.String())
}

// String renders an infix form, e.g. "(p.x + 2)".
func (e *Expr) String() string {
	switch e.op {
	case OpConst:
		return strconv.FormatFloat(e.value, 'g', -1, 64)
	case OpVar:
		return e.name
	case OpAdd, OpSub, OpMul, OpDiv:
		return "(" + e.a.String() + " " + e.op.String() + " " + e.b.String() + ")"
	case OpNeg:
		return "-" + e.a.String()
	case OpMax, OpMin:
		return e.op.String() + "(" + e.a.String() + ", " + e.b.String() + ")"
	}
	return e.op.String() + "(" + e.a.String() + ")"
}

// Vars returns the distinct variables reachable from roots, in first-seen order.
func Vars(roots ...*Expr) []*Expr {
	seen := make(map[*Expr]bool)
	var out []*Expr
	var walk func(*Expr)
	walk = func(e *Expr) {
		if e == nil || seen[e] {
			return
		}
		seen[e] = true
		if e.op == OpVar {
			out = append(out, e)
			return
		}
		walk(e.a)
		walk(e.b)
	}
	for _, r := range roots {
		walk(r)
	}
	return out
}
