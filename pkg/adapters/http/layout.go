package http

import (
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
)

// Layout is the JSON form of a built diagram.
type Layout struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Canvas     domain.Canvas      `json:"canvas"`
	Shapes     []domain.Rendered  `json:"shapes"`
	Values     map[string]float64 `json:"values,omitempty"`
	Energy     float64            `json:"energy"`
	Iterations int                `json:"iterations"`
	DurationMS float64            `json:"duration_ms"`
}

// NewLayout converts d.
func NewLayout(d *domain.Diagram) Layout {
	return Layout{
		ID:         d.ID,
		Name:       d.Name,
		Canvas:     d.Canvas,
		Shapes:     d.Shapes,
		Values:     d.Values,
		Energy:     d.Energy,
		Iterations: d.Iterations,
		DurationMS: float64(d.Duration.Microseconds()) / 1000,
	}
}

// apply overlays the query overrides on base.
func (q GetDiagramParams) apply(base gallery.Params) gallery.Params {
	p := base
	if q.Seed != nil {
		p.Canvas.Seed = *q.Seed
	}
	if q.Width != nil {
		p.Canvas.Width = *q.Width
	}
	if q.Height != nil {
		p.Canvas.Height = *q.Height
	}
	if q.Satellites != nil {
		p.Satellites = *q.Satellites
	}
	if q.A != nil || q.B != nil || q.C != nil || q.D != nil {
		m := gallery.DefaultMatrix
		if base.Matrix != nil {
			m = *base.Matrix
		}
		for dst, src := range map[*float64]*float64{&m.A: q.A, &m.B: q.B, &m.C: q.C, &m.D: q.D} {
			if src != nil {
				*dst = *src
			}
		}
		p.Matrix = &m
	}
	return p
}
