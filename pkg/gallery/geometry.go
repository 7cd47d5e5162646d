package gallery

import (
	"context"
	"math"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/expr"
	"github.com/aretw0/lattice/pkg/formula"
	"github.com/aretw0/lattice/pkg/ports"
)

// Geometry layout constants, in pixels.
const (
	VertexRadius   = 7.0
	MidpointRadius = 4.0
	MinSide        = 150.0
	// MinHeight keeps the triangle away from collinear, where the
	// circumcenter is undefined.
	MinHeight     = 80.0
	CompassRadius = 36.0
	LabelOffset   = 20.0
	CanvasPadding = 10.0
	SeedRadius    = 150.0
	SeedJitter    = 40.0
)

// Geometry returns the triangle circumcircle script.
func Geometry() Script {
	return Script{
		Name:  "geometry",
		Title: "Circumcircle",
		Description: "A triangle with its circumcircle, edge midpoints and perpendicular bisectors. " +
			"The circumcenter comes from the closed-form formula, so the bisectors meet on it.",
		Build: buildGeometry,
	}
}

func buildGeometry(ctx context.Context, engine ports.Engine, p Params) (*domain.Diagram, error) {
	b := dsl.New(engine.NewSession("geometry", p.Canvas))

	point := b.Type("Point")
	edge := b.Type("Edge")
	circle := b.Type("Circle")
	connects := b.Predicate("Connects", "Edge", "Point", "Point")
	on := b.Predicate("On", "Point", "Edge")
	perpendicular := b.Predicate("Perpendicular", "Point", "Edge")
	label := b.Predicate("Label", "Point")
	circumcircle := b.Predicate("DrawCircumcircle", "Circle", "Point", "Point", "Point")
	compass := b.Predicate("DrawCircleWithRadius", "Circle", "Point")

	a := point.NewLabeled("A", "A")
	bb := point.NewLabeled("B", "B")
	c := point.NewLabeled("C", "C")
	vertices := []domain.Instance{a, bb, c}
	for _, v := range vertices {
		label.Assert(v)
	}

	sides := []struct{ id, mid string }{{"AB", "Mab"}, {"BC", "Mbc"}, {"CA", "Mca"}}
	for i, sd := range sides {
		e := edge.New(sd.id)
		connects.Assert(e, vertices[i], vertices[(i+1)%3])
		m := point.New(sd.mid)
		on.Assert(m, e)
		perpendicular.Assert(m, e)
	}

	circ := circle.New("circumcircle")
	circumcircle.Assert(circ, a, bb, c)
	halo := circle.New("compass")
	compass.Assert(halo, a)

	pos := dsl.NewRecords[expr.Vec]()
	ends := dsl.NewRecords[[2]expr.Vec]()
	centers := dsl.NewRecords[expr.Vec]()
	isVertex := map[string]int{a.ID: 0, bb.ID: 1, c.ID: 2}

	point.ForAll(func(s domain.Style, in domain.Instance) error {
		if i, ok := isVertex[in.ID]; ok {
			// Seed near an equilateral triangle so the first layout already
			// has a well defined circumcenter.
			theta := math.Pi/2 + 2*math.Pi*float64(i)/3
			cx, cy := SeedRadius*math.Cos(theta), SeedRadius*math.Sin(theta)
			v := expr.V(
				s.VarIn(in.ID+".x", cx-SeedJitter, cx+SeedJitter),
				s.VarIn(in.ID+".y", cy-SeedJitter, cy+SeedJitter),
			)
			s.Ensure(domain.InCanvas(in.ID, v, s.Canvas(), VertexRadius+LabelOffset)...)
			*pos.Of(in) = v
			return nil
		}
		*pos.Of(in) = expr.V(s.Var(in.ID+".x", 0), s.Var(in.ID+".y", 0))
		return nil
	})

	connects.ForAllWhere(func(s domain.Style, m domain.Match) error {
		p, q := *pos.Of(m.At(1)), *pos.Of(m.At(2))
		*ends.Of(m.At(0)) = [2]expr.Vec{p, q}
		s.Ensure(domain.MinSeparation(m.Key(), p, q, expr.Const(MinSide)))
		line := domain.Line(m.At(0).ID, "side", p, q)
		line.Stroke = colorInk
		s.Draw(line)
		return nil
	})

	circumcircle.ForAllWhere(func(s domain.Style, m domain.Match) error {
		p1, p2, p3 := *pos.Of(m.At(1)), *pos.Of(m.At(2)), *pos.Of(m.At(3))

		// Height of p3 over p1p2.
		height := expr.Div(expr.Abs(expr.VCross2(expr.VSub(p2, p1), expr.VSub(p3, p1))), expr.VDist(p1, p2))
		s.Ensure(domain.GreaterEq(m.Key()+".height", height, expr.Const(MinHeight)))

		o, r := formula.Circumcenter(p1, p2, p3)
		*centers.Of(m.At(0)) = o
		cv := s.Canvas()
		s.Ensure(
			domain.LessEq(m.Key()+".fit.x", expr.Add(expr.Abs(o.X()), r), expr.Const(cv.HalfWidth()-CanvasPadding)),
			domain.LessEq(m.Key()+".fit.y", expr.Add(expr.Abs(o.Y()), r), expr.Const(cv.HalfHeight()-CanvasPadding)),
		)

		ring := domain.Circle(m.At(0).ID, "circumcircle", o, r)
		ring.Stroke, ring.StrokeWidth = colorAccent, 2
		s.Draw(ring)
		dot := domain.Circle(m.At(0).ID, "center", o, expr.Const(MidpointRadius))
		dot.Fill, dot.Stroke = colorAccent, colorAccent
		s.Draw(dot)
		return nil
	})

	on.ForAllWhere(func(s domain.Style, m domain.Match) error {
		mid := *pos.Of(m.At(0))
		e := *ends.Of(m.At(1))
		want := expr.VMul(expr.Const(0.5), expr.VAdd(e[0], e[1]))
		s.Ensure(
			domain.Equal(m.Key()+".x", mid.X(), want.X()),
			domain.Equal(m.Key()+".y", mid.Y(), want.Y()),
		)
		return nil
	})

	perpendicular.ForAllWhere(func(s domain.Style, m domain.Match) error {
		mid := *pos.Of(m.At(0))
		e := *ends.Of(m.At(1))
		center := *centers.Of(circ)
		s.Ensure(domain.Orthogonal(m.Key(), expr.VSub(center, mid), expr.VNormalize(expr.VSub(e[1], e[0]))))
		line := domain.Line(m.At(0).ID, "bisector", mid, center)
		line.Stroke, line.Dashed, line.StrokeWidth = colorWarm, true, 1.5
		s.Draw(line)
		dot := domain.Circle(m.At(0).ID, "icon", mid, expr.Const(MidpointRadius))
		dot.Fill, dot.Stroke = colorWarm, colorInk
		s.Draw(dot)
		return nil
	})

	compass.ForAllWhere(func(s domain.Style, m domain.Match) error {
		halo := domain.Circle(m.At(0).ID, "compass", *pos.Of(m.At(1)), expr.Const(CompassRadius))
		halo.Stroke, halo.Dashed = colorMint, true
		s.Draw(halo)
		return nil
	})

	// Vertices and labels are painted over every construction line.
	point.ForAll(func(s domain.Style, in domain.Instance) error {
		if _, ok := isVertex[in.ID]; !ok {
			return nil
		}
		icon := domain.Circle(in.ID, "icon", *pos.Of(in), expr.Const(VertexRadius))
		icon.Fill, icon.Stroke, icon.Draggable = colorGold, colorInk, true
		s.Draw(icon)
		return nil
	})

	label.ForAllWhere(func(s domain.Style, m domain.Match) error {
		in := m.One()
		centroid := expr.VMul(expr.Const(1.0/3), expr.VAdd(expr.VAdd(*pos.Of(a), *pos.Of(bb)), *pos.Of(c)))
		out := expr.VNormalize(expr.VSub(*pos.Of(in), centroid))
		at := expr.VAdd(*pos.Of(in), expr.VMul(expr.Const(LabelOffset), out))
		s.Draw(domain.Text(in.ID, "label", at, in.Label))
		return nil
	})

	return b.Build(ctx)
}
