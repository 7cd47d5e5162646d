package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"

	"github.com/aretw0/lattice/pkg/domain"
)

const (
	defaultStroke = "#1f2937"
	defaultFill   = "none"
	arrowMarkerID = "lattice-arrow"
)

// Render writes a standalone SVG document for shapes laid out on canvas.
// Scene coordinates are converted to SVG user space with canvas.ToScreen.
// Every shape carries data-owner and data-role attributes so a host page can
// find the element a diagram instance was drawn with.
func Render(canvas domain.Canvas, shapes []domain.Rendered) ([]byte, error) {
	canvas = canvas.Normalize()
	var buf bytes.Buffer

	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(canvas.Width), num(canvas.Height), num(canvas.Width), num(canvas.Height))
	buf.WriteString("\n")

	if hasArrow(shapes) {
		fmt.Fprintf(&buf, `  <defs><marker id="%s" viewBox="0 0 10 10" refX="9" refY="5" markerWidth="8" markerHeight="8" orient="auto-start-reverse"><path d="M 0 0 L 10 5 L 0 10 z" fill="context-stroke"/></marker></defs>`, arrowMarkerID)
		buf.WriteString("\n")
	}

	for i, s := range shapes {
		if err := writeShape(&buf, canvas, s); err != nil {
			return nil, fmt.Errorf("%w: shape %d (%s/%s): %w", domain.ErrRenderFailed, i, s.Owner, s.Role, err)
		}
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func hasArrow(shapes []domain.Rendered) bool {
	for _, s := range shapes {
		if s.Arrow {
			return true
		}
	}
	return false
}

func writeShape(buf *bytes.Buffer, c domain.Canvas, s domain.Rendered) error {
	switch s.Kind {
	case domain.ShapeCircle:
		p := c.ToScreen(s.Center)
		if err := finite(p.X, p.Y, s.Radius); err != nil {
			return err
		}
		if s.Radius < 0 {
			return fmt.Errorf("negative radius %g", s.Radius)
		}
		fmt.Fprintf(buf, `  <circle cx="%s" cy="%s" r="%s"`, num(p.X), num(p.Y), num(s.Radius))
	case domain.ShapeLine:
		a, b := c.ToScreen(s.Start), c.ToScreen(s.End)
		if err := finite(a.X, a.Y, b.X, b.Y); err != nil {
			return err
		}
		fmt.Fprintf(buf, `  <line x1="%s" y1="%s" x2="%s" y2="%s"`, num(a.X), num(a.Y), num(b.X), num(b.Y))
	case domain.ShapePolyline, domain.ShapePolygon:
		pts, err := points(c, s.Points)
		if err != nil {
			return err
		}
		fmt.Fprintf(buf, `  <%s points="%s"`, s.Kind, pts)
	case domain.ShapeText:
		p := c.ToScreen(s.Center)
		if err := finite(p.X, p.Y); err != nil {
			return err
		}
		size := s.FontSize
		if size <= 0 {
			size = 16
		}
		fmt.Fprintf(buf, `  <text x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="middle"`,
			num(p.X), num(p.Y), num(size))
	default:
		return fmt.Errorf("unknown shape kind %q", s.Kind)
	}

	writePaint(buf, s)
	fmt.Fprintf(buf, ` data-owner="%s" data-role="%s"`, html.EscapeString(s.Owner), html.EscapeString(s.Role))
	if s.Draggable {
		buf.WriteString(` data-draggable="true" style="cursor:grab"`)
	}

	if s.Kind == domain.ShapeText {
		fmt.Fprintf(buf, ">%s</text>\n", html.EscapeString(s.Text))
		return nil
	}
	buf.WriteString("/>\n")
	return nil
}

func writePaint(buf *bytes.Buffer, s domain.Rendered) {
	fill, stroke := s.Fill, s.Stroke
	switch s.Kind {
	case domain.ShapeText:
		if fill == "" {
			fill = defaultStroke
		}
		fmt.Fprintf(buf, ` fill="%s"`, html.EscapeString(fill))
		return
	case domain.ShapeLine, domain.ShapePolyline:
		fill = defaultFill
	}
	if fill == "" {
		fill = defaultFill
	}
	if stroke == "" {
		stroke = defaultStroke
	}
	width := s.StrokeWidth
	if width <= 0 {
		width = 1
	}
	fmt.Fprintf(buf, ` fill="%s" stroke="%s" stroke-width="%s"`,
		html.EscapeString(fill), html.EscapeString(stroke), num(width))
	if s.Dashed {
		buf.WriteString(` stroke-dasharray="6 4"`)
	}
	if s.Arrow && s.Kind != domain.ShapeCircle {
		fmt.Fprintf(buf, ` marker-end="url(#%s)"`, arrowMarkerID)
	}
}

func points(c domain.Canvas, ps []domain.Point) (string, error) {
	var b bytes.Buffer
	for i, p := range ps {
		q := c.ToScreen(p)
		if err := finite(q.X, q.Y); err != nil {
			return "", fmt.Errorf("point %d: %w", i, err)
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(num(q.X))
		b.WriteByte(',')
		b.WriteString(num(q.Y))
	}
	return b.String(), nil
}

func finite(vs ...float64) error {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("non-finite coordinate %g", v)
		}
	}
	return nil
}

// num prints coordinates with two decimals and no trailing zeros.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
