package gallery

import (
	"context"
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/dsl"
	"github.com/aretw0/lattice/pkg/expr"
	"github.com/aretw0/lattice/pkg/ports"
)

// Circle layout constants, in pixels.
const (
	CenterRadius    = 40.0
	SatelliteRadius = 20.0
	OrbitRadius     = 150.0
	SatelliteGap    = 30.0
)

// SatelliteMinDistance is the smallest distance allowed between two satellite centers.
const SatelliteMinDistance = 2*SatelliteRadius + SatelliteGap

// Circle returns the orbiting satellites script.
func Circle() Script {
	return Script{
		Name:        "circle",
		Title:       "Orbit",
		Description: "A center circle with satellites held on a fixed orbit. Every pair of satellites stays `2r+30` px apart and neighbours are joined by connections.",
		Build:       buildCircle,
	}
}

func buildCircle(ctx context.Context, engine ports.Engine, p Params) (*domain.Diagram, error) {
	b := dsl.New(engine.NewSession("circle", p.Canvas))

	center := b.Type("CenterCircle")
	satellite := b.Type("SatelliteCircle")
	connection := b.Type("Connection")
	orbits := b.Predicate("OrbitAround", "SatelliteCircle", "CenterCircle")
	connects := b.Predicate("Connects", "Connection", "SatelliteCircle", "SatelliteCircle")

	hub := center.NewLabeled("sun", "sun")
	sats := satellite.NewN("s", p.Satellites)
	for i, s := range sats {
		orbits.Assert(s, hub)
		if len(sats) > 1 && (i+1 < len(sats) || len(sats) > 2) {
			next := sats[(i+1)%len(sats)]
			connects.Assert(connection.New(fmt.Sprintf("c%d", i)), s, next)
		}
	}

	centers := dsl.NewRecords[expr.Vec]()
	order := make(map[string]int, len(sats))
	for i, sat := range sats {
		order[sat.ID] = i
	}

	center.ForAll(func(s domain.Style, in domain.Instance) error {
		c := s.Point(in.ID, OrbitRadius+SatelliteRadius+10)
		*centers.Of(in) = c

		orbit := domain.Circle(in.ID, "orbit", c, expr.Const(OrbitRadius))
		orbit.Stroke, orbit.Dashed = colorMuted, true
		s.Draw(orbit)

		body := domain.Circle(in.ID, "icon", c, expr.Const(CenterRadius))
		body.Fill, body.Stroke, body.Draggable = colorGold, colorInk, true
		s.Draw(body)
		s.Draw(domain.Text(in.ID, "label", c, in.Label))
		return nil
	})

	satellite.ForAll(func(s domain.Style, in domain.Instance) error {
		c := s.Point(in.ID, SatelliteRadius)
		*centers.Of(in) = c
		// Earlier satellites were placed by this same rule in this build.
		for _, other := range sats[:order[in.ID]] {
			s.Ensure(domain.MinSeparation(in.ID+".apart."+other.ID, c, *centers.Of(other), expr.Const(SatelliteMinDistance)))
		}
		return nil
	})

	orbits.ForAllWhere(func(s domain.Style, m domain.Match) error {
		sat, hubC := *centers.Of(m.At(0)), *centers.Of(m.At(1))
		s.Ensure(domain.Equal(m.Key(), expr.VDist(sat, hubC), expr.Const(OrbitRadius)))
		return nil
	})

	connects.ForAllWhere(func(s domain.Style, m domain.Match) error {
		line := domain.Line(m.At(0).ID, "connection", *centers.Of(m.At(1)), *centers.Of(m.At(2)))
		line.Stroke, line.Dashed, line.StrokeWidth = colorAccent, true, 1.5
		s.Draw(line)
		return nil
	})

	// Satellites are painted last so they sit above the connections.
	satellite.ForAll(func(s domain.Style, in domain.Instance) error {
		icon := domain.Circle(in.ID, "icon", *centers.Of(in), expr.Const(SatelliteRadius))
		icon.Fill, icon.Stroke, icon.Draggable = colorSurface, colorAccent, true
		s.Draw(icon)
		return nil
	})

	return b.Build(ctx)
}
