package runtime

import (
	"fmt"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/expr"
	"github.com/aretw0/lattice/pkg/formula"
)

// evalShape evaluates the symbolic geometry of sh at the solved layout x.
func evalShape(sh domain.Shape, x []float64) (domain.Rendered, error) {
	var roots []*expr.Expr
	push := func(field string, v expr.Vec) error {
		if len(v) != 2 {
			return fmt.Errorf("%s has %d components, want 2", field, len(v))
		}
		roots = append(roots, v...)
		return nil
	}

	switch sh.Kind {
	case domain.ShapeCircle:
		if sh.Radius == nil {
			return domain.Rendered{}, errNoRadius
		}
		if err := push("center", sh.Center); err != nil {
			return domain.Rendered{}, err
		}
		roots = append(roots, sh.Radius)
	case domain.ShapeText:
		if err := push("anchor", sh.Center); err != nil {
			return domain.Rendered{}, err
		}
	case domain.ShapeLine:
		if err := push("start", sh.Start); err != nil {
			return domain.Rendered{}, err
		}
		if err := push("end", sh.End); err != nil {
			return domain.Rendered{}, err
		}
	case domain.ShapePolyline, domain.ShapePolygon:
		if len(sh.Points) < 2 {
			return domain.Rendered{}, fmt.Errorf("%s needs at least 2 points", sh.Kind)
		}
		for i, p := range sh.Points {
			if err := push(fmt.Sprintf("point %d", i), p); err != nil {
				return domain.Rendered{}, err
			}
		}
	default:
		return domain.Rendered{}, fmt.Errorf("unknown shape kind %q", sh.Kind)
	}

	v := expr.Compile(roots...).Values(x)
	if err := formula.CheckFinite(v...); err != nil {
		return domain.Rendered{}, err
	}

	r := domain.Rendered{
		Kind:        sh.Kind,
		Owner:       sh.Owner,
		Role:        sh.Role,
		Text:        sh.Text,
		FontSize:    sh.FontSize,
		Fill:        sh.Fill,
		Stroke:      sh.Stroke,
		StrokeWidth: sh.StrokeWidth,
		Dashed:      sh.Dashed,
		Arrow:       sh.Arrow,
		Draggable:   sh.Draggable,
	}
	pt := func(i int) domain.Point { return domain.Point{X: v[i], Y: v[i+1]} }
	switch sh.Kind {
	case domain.ShapeCircle:
		r.Center, r.Radius = pt(0), v[2]
	case domain.ShapeText:
		r.Center = pt(0)
	case domain.ShapeLine:
		r.Start, r.End = pt(0), pt(2)
	default:
		r.Points = make([]domain.Point, len(sh.Points))
		for i := range sh.Points {
			r.Points[i] = pt(2 * i)
		}
	}
	return r, nil
}
