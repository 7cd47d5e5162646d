package gallery

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/expr"
	"github.com/aretw0/lattice/pkg/ports"
)

// Arrow layout constants, in pixels.
const (
	PointRadius = 12.0
	Margin      = 18.0
	// ArrowClearance is added to both point footprints when spacing the
	// endpoints of an arrow.
	ArrowClearance = 20.0
)

// ArrowMinDistance is the smallest distance allowed between connected points.
const ArrowMinDistance = 2*(PointRadius+Margin) + ArrowClearance

// Arrow returns the two-point arrow script.
func Arrow() Script {
	return Script{
		Name:        "arrow",
		Title:       "Arrow",
		Description: "Two labelled points joined by an arrow. The points are kept at least `2(r+m)+20` px apart.",
		Build:       buildArrow,
	}
}

func buildArrow(ctx context.Context, engine ports.Engine, p Params) (*domain.Diagram, error) {
	b := dsl.New(engine.NewSession("arrow", p.Canvas))

	point := b.Type("Point")
	edge := b.Type("Edge")
	connects := b.Predicate("Connects", "Edge", "Point", "Point")
	label := b.Predicate("Label", "Point")

	from := point.NewLabeled("p", "p")
	to := point.NewLabeled("q", "q")
	e := edge.New("e")
	connects.Assert(e, from, to)
	label.Assert(from)
	label.Assert(to)

	centers := dsl.NewRecords[expr.Vec]()

	point.ForAll(func(s domain.Style, in domain.Instance) error {
		c := s.Point(in.ID, PointRadius+Margin)
		*centers.Of(in) = c
		icon := domain.Circle(in.ID, "icon", c, expr.Const(PointRadius))
		icon.Fill, icon.Stroke, icon.Draggable = colorAccent, colorInk, true
		s.Draw(icon)
		return nil
	})

	connects.ForAllWhere(func(s domain.Style, m domain.Match) error {
		p, q := *centers.Of(m.At(1)), *centers.Of(m.At(2))
		s.Ensure(domain.MinSeparation(m.Key(), p, q, expr.Const(ArrowMinDistance)))

		u := expr.VNormalize(expr.VSub(q, p))
		gap := expr.Const(PointRadius + 4)
		line := domain.Line(m.At(0).ID, "arrow", expr.VAdd(p, expr.VMul(gap, u)), expr.VSub(q, expr.VMul(gap, u)))
		line.Stroke, line.Arrow = colorInk, true
		s.Draw(line)
		return nil
	})

	label.ForAllWhere(func(s domain.Style, m domain.Match) error {
		in := m.One()
		c := *centers.Of(in)
		at := expr.VAdd(c, expr.VConst(0, PointRadius+Margin/2))
		s.Draw(domain.Text(in.ID, "label", at, in.Label))
		return nil
	})

	return b.Build(ctx)
}
