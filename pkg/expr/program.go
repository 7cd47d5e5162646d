package expr

import "math"

// Program is a compiled, topologically ordered form of one or more
// expression trees. Shared subtrees are evaluated once per call.
// A Program is not safe for concurrent use; compile one per goroutine.
type Program struct {
	nodes   []*Expr
	slot    map[*Expr]int
	operand [][2]int
	roots   []int
	nParams int
	vals    []float64
	adj     []float64
}

// Compile flattens roots into a Program. nParams is derived from the largest
// variable index found.
func Compile(roots ...*Expr) *Program {
	p := &Program{slot: make(map[*Expr]int)}
	var visit func(*Expr) int
	visit = func(e *Expr) int {
		if i, ok := p.slot[e]; ok {
			return i
		}
		ops := [2]int{-1, -1}
		switch e.op.Arity() {
		case 1:
			ops[0] = visit(e.a)
		case 2:
			ops[0] = visit(e.a)
			ops[1] = visit(e.b)
		}
		if e.op == OpVar && e.index+1 > p.nParams {
			p.nParams = e.index + 1
		}
		i := len(p.nodes)
		p.nodes = append(p.nodes, e)
		p.operand = append(p.operand, ops)
		p.slot[e] = i
		return i
	}
	for _, r := range roots {
		p.roots = append(p.roots, visit(r))
	}
	p.vals = make([]float64, len(p.nodes))
	p.adj = make([]float64, len(p.nodes))
	return p
}

// NumParams is one past the largest variable index referenced.
func (p *Program) NumParams() int { return p.nParams }

// Len is the number of distinct nodes.
func (p *Program) Len() int { return len(p.nodes) }

func (p *Program) forward(x []float64) {
	for i, n := range p.nodes {
		switch n.op {
		case OpConst:
			p.vals[i] = n.value
		case OpVar:
			if n.index < len(x) {
				p.vals[i] = x[n.index]
			} else {
				p.vals[i] = math.NaN()
			}
		default:
			ops := p.operand[i]
			a := p.vals[ops[0]]
			var b float64
			if ops[1] >= 0 {
				b = p.vals[ops[1]]
			}
			p.vals[i] = apply(n.op, a, b)
		}
	}
}

// Values evaluates every root against x.
func (p *Program) Values(x []float64) []float64 {
	p.forward(x)
	out := make([]float64, len(p.roots))
	for i, r := range p.roots {
		out[i] = p.vals[r]
	}
	return out
}

// Value evaluates root k against x.
func (p *Program) Value(x []float64, k int) float64 {
	p.forward(x)
	return p.vals[p.roots[k]]
}

// Gradient evaluates root k and accumulates its partial derivatives with
// respect to every parameter into grad, which is overwritten.
//
// At the kinks of sqrt (0), abs (0) and max/min (ties) the subgradient 0 or
// the first operand is used so that coincident points do not poison the
// gradient with NaN.
func (p *Program) Gradient(x []float64, k int, grad []float64) float64 {
	p.forward(x)
	for i := range p.adj {
		p.adj[i] = 0
	}
	for i := range grad {
		grad[i] = 0
	}
	root := p.roots[k]
	p.adj[root] = 1
	for i := root; i >= 0; i-- {
		g := p.adj[i]
		if g == 0 {
			continue
		}
		n := p.nodes[i]
		ops := p.operand[i]
		switch n.op {
		case OpConst:
		case OpVar:
			if n.index < len(grad) {
				grad[n.index] += g
			}
		case OpAdd:
			p.adj[ops[0]] += g
			p.adj[ops[1]] += g
		case OpSub:
			p.adj[ops[0]] += g
			p.adj[ops[1]] -= g
		case OpMul:
			p.adj[ops[0]] += g * p.vals[ops[1]]
			p.adj[ops[1]] += g * p.vals[ops[0]]
		case OpDiv:
			b := p.vals[ops[1]]
			p.adj[ops[0]] += g / b
			p.adj[ops[1]] -= g * p.vals[ops[0]] / (b * b)
		case OpNeg:
			p.adj[ops[0]] -= g
		case OpSqrt:
			if v := p.vals[i]; v > 0 {
				p.adj[ops[0]] += g * 0.5 / v
			}
		case OpSquare:
			p.adj[ops[0]] += 2 * g * p.vals[ops[0]]
		case OpAbs:
			switch a := p.vals[ops[0]]; {
			case a > 0:
				p.adj[ops[0]] += g
			case a < 0:
				p.adj[ops[0]] -= g
			}
		case OpMax:
			if p.vals[ops[0]] >= p.vals[ops[1]] {
				p.adj[ops[0]] += g
			} else {
				p.adj[ops[1]] += g
			}
		case OpMin:
			if p.vals[ops[0]] <= p.vals[ops[1]] {
				p.adj[ops[0]] += g
			} else {
				p.adj[ops[1]] += g
			}
		}
	}
	return p.vals[root]
}
