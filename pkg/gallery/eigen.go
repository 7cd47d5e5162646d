package gallery

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/expr"
	"github.com/aretw0/lattice/pkg/formula"
	"github.com/aretw0/lattice/pkg/ports"
)

// Eigen layout constants, in pixels.
const (
	Unit         = 60.0
	TickLength   = 6.0
	SampleCount  = 8
	SampleRadius = 4.0
)

// Eigen returns the linear map and eigenspace script.
func Eigen() Script {
	return Script{
		Name:  "eigen",
		Title: "Eigenvectors",
		Description: "A 2x2 linear map drawn as the images of the basis vectors, a ring of sample points and their images, " +
			"and the two eigenspace lines. Drag the column tips (query `a,b,c,d`) to change the map.",
		Build: buildEigen,
	}
}

func buildEigen(ctx context.Context, engine ports.Engine, p Params) (*domain.Diagram, error) {
	b := dsl.New(engine.NewSession("eigen", p.Canvas))
	m := *p.Matrix

	axis := b.Type("Axis")
	tick := b.Type("TickMark")
	basis := b.Type("BasisVector")
	mapped := b.Type("MappedPoint")
	eigenLine := b.Type("EigenspaceLine")
	horizontal := b.Predicate("Horizontal", "Axis")
	vertical := b.Predicate("Vertical", "Axis")
	on := b.Predicate("On", "TickMark", "Axis")

	xAxis := axis.NewLabeled("x", "x")
	yAxis := axis.NewLabeled("y", "y")
	horizontal.Assert(xAxis)
	vertical.Assert(yAxis)

	cw, ch := p.Canvas.HalfWidth(), p.Canvas.HalfHeight()
	ticks := dsl.NewRecords[float64]()
	for _, ax := range []struct {
		in   domain.Instance
		half float64
	}{{xAxis, cw}, {yAxis, ch}} {
		n := int(math.Floor((ax.half - 10) / Unit))
		for k := -n; k <= n; k++ {
			if k == 0 {
				continue
			}
			t := tick.New(fmt.Sprintf("%s%+d", ax.in.ID, k))
			*ticks.Of(t) = float64(k) * Unit
			on.Assert(t, ax.in)
		}
	}

	e1 := basis.NewLabeled("e1", "e₁")
	e2 := basis.NewLabeled("e2", "e₂")
	samples := mapped.NewN("m", SampleCount)
	lines := []domain.Instance{eigenLine.NewLabeled("v1", "λ₁"), eigenLine.NewLabeled("v2", "λ₂")}

	// The map's columns are constants; dragging a column tip re-runs the
	// script with new matrix entries.
	col1 := expr.VConst(m.A, m.C)
	col2 := expr.VConst(m.B, m.D)
	A := expr.FromColumns(col1, col2)
	origin := expr.VConst(0, 0)

	horizontal.ForAllWhere(func(s domain.Style, mt domain.Match) error {
		line := domain.Line(mt.One().ID, "axis", expr.VConst(-cw, 0), expr.VConst(cw, 0))
		line.Stroke, line.StrokeWidth = colorMuted, 1
		s.Draw(line)
		return nil
	})
	vertical.ForAllWhere(func(s domain.Style, mt domain.Match) error {
		line := domain.Line(mt.One().ID, "axis", expr.VConst(0, -ch), expr.VConst(0, ch))
		line.Stroke, line.StrokeWidth = colorMuted, 1
		s.Draw(line)
		return nil
	})
	on.ForAllWhere(func(s domain.Style, mt domain.Match) error {
		at := *ticks.Of(mt.At(0))
		var start, end expr.Vec
		if mt.At(1).ID == xAxis.ID {
			start, end = expr.VConst(at, -TickLength), expr.VConst(at, TickLength)
		} else {
			start, end = expr.VConst(-TickLength, at), expr.VConst(TickLength, at)
		}
		line := domain.Line(mt.At(0).ID, "tick", start, end)
		line.Stroke, line.StrokeWidth = colorMuted, 1
		s.Draw(line)
		return nil
	})

	d1, d2 := formula.EigenLines(col1, col2)
	dirs := map[string]expr.Vec{lines[0].ID: d1, lines[1].ID: d2}
	reach := math.Hypot(cw, ch)
	eigenLine.ForAll(func(s domain.Style, l domain.Instance) error {
		dir := dirs[l.ID]
		far := expr.VMul(expr.Const(reach), dir)
		line := domain.Line(l.ID, "eigenspace", expr.VNeg(far), far)
		line.Stroke, line.Dashed, line.StrokeWidth = colorWarm, true, 1.5
		s.Draw(line)
		s.Draw(domain.Text(l.ID, "label", expr.VMul(expr.Const(Unit*3.5), dir), l.Label))
		return nil
	})

	// e1 is fixed and e2 is solved for: unit length, orthogonal to e1 and
	// pointing up.
	vectors := dsl.NewRecords[expr.Vec]()
	basis.ForAll(func(s domain.Style, in domain.Instance) error {
		var v expr.Vec
		switch in.ID {
		case e1.ID:
			v = expr.VConst(Unit, 0)
		case e2.ID:
			v = expr.V(s.VarIn(in.ID+".x", -Unit, Unit), s.VarIn(in.ID+".y", 0, Unit))
			first := *vectors.Of(e1)
			s.Ensure(
				domain.Orthogonal(in.ID+".orthogonal", first, v),
				domain.Equal(in.ID+".unit", expr.VNorm(v), expr.Const(Unit)),
				domain.GreaterEq(in.ID+".up", v.Y(), expr.Const(Unit/2)),
			)
		default:
			return fmt.Errorf("%w: unexpected basis vector %q", domain.ErrTypeMismatch, in.ID)
		}
		*vectors.Of(in) = v

		arrow := domain.Line(in.ID, "basis", origin, v)
		arrow.Stroke, arrow.Arrow = colorInk, true
		s.Draw(arrow)

		image := expr.MatVec(A, expr.VMul(expr.Const(1/Unit), v))
		tip := expr.VMul(expr.Const(Unit), image)
		mappedArrow := domain.Line(in.ID, "image", origin, tip)
		mappedArrow.Stroke, mappedArrow.Arrow, mappedArrow.StrokeWidth = colorAccent, true, 3
		s.Draw(mappedArrow)

		handle := domain.Circle(in.ID, "handle", tip, expr.Const(SampleRadius+2))
		handle.Fill, handle.Stroke, handle.Draggable = colorAccent, colorInk, true
		s.Draw(handle)
		s.Draw(domain.Text(in.ID, "label", expr.VAdd(tip, expr.VConst(12, 12)), in.Label))
		return nil
	})

	index := make(map[string]int, len(samples))
	for i, sm := range samples {
		index[sm.ID] = i
	}
	mapped.ForAll(func(s domain.Style, in domain.Instance) error {
		theta := 2 * math.Pi * float64(index[in.ID]) / SampleCount
		src := expr.VConst(Unit*math.Cos(theta), Unit*math.Sin(theta))
		dst := expr.MatVec(A, src)

		trail := domain.Line(in.ID, "trail", src, dst)
		trail.Stroke, trail.StrokeWidth = colorMuted, 1
		s.Draw(trail)

		from := domain.Circle(in.ID, "source", src, expr.Const(SampleRadius))
		from.Fill, from.Stroke = colorSurface, colorMuted
		s.Draw(from)

		to := domain.Circle(in.ID, "icon", dst, expr.Const(SampleRadius))
		to.Fill, to.Stroke = colorMint, colorInk
		s.Draw(to)
		return nil
	})

	return b.Build(ctx)
}
