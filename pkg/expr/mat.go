package expr

import "fmt"

// Mat is a row-major matrix of expressions.
type Mat []Vec

// FromColumns assembles a matrix whose j-th column is cols[j].
func FromColumns(cols ...Vec) Mat {
	if len(cols) == 0 {
		return nil
	}
	rows := len(cols[0])
	m := make(Mat, rows)
	for i := range m {
		m[i] = make(Vec, len(cols))
		for j, c := range cols {
			if len(c) != rows {
				panic(fmt.Sprintf("expr: column %d has length %d, want %d", j, len(c), rows))
			}
			m[i][j] = c[i]
		}
	}
	return m
}

// Column returns column j.
func (m Mat) Column(j int) Vec {
	out := make(Vec, len(m))
	for i := range m {
		out[i] = m[i][j]
	}
	return out
}

func (m Mat) Transpose() Mat {
	if len(m) == 0 {
		return nil
	}
	t := make(Mat, len(m[0]))
	for j := range t {
		t[j] = m.Column(j)
	}
	return t
}

// MatVec computes m·v.
func MatVec(m Mat, v Vec) Vec {
	out := make(Vec, len(m))
	for i, row := range m {
		out[i] = VDot(row, v)
	}
	return out
}

// Det2 is the determinant of a 2x2 matrix.
func Det2(m Mat) *Expr {
	if len(m) != 2 || len(m[0]) != 2 {
		panic("expr: det2 on non 2x2 matrix")
	}
	return Sub(Mul(m[0][0], m[1][1]), Mul(m[0][1], m[1][0]))
}

// Trace sums the diagonal.
func Trace(m Mat) *Expr {
	terms := make([]*Expr, len(m))
	for i := range m {
		terms[i] = m[i][i]
	}
	return Sum(terms...)
}
