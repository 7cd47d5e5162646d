package domain

import "github.com/aretw0/lattice/pkg/expr"

// ShapeKind tells the renderer which primitive to draw.
type ShapeKind string

const (
	ShapeCircle   ShapeKind = "circle"
	ShapeLine     ShapeKind = "line"
	ShapePolyline ShapeKind = "polyline"
	ShapePolygon  ShapeKind = "polygon"
	ShapeText     ShapeKind = "text"
)

// Shape is the per-instance visual record produced during the style phase.
// Geometry is symbolic; the engine evaluates it once the layout is solved.
// Only the fields relevant to Kind are read.
type Shape struct {
	Kind  ShapeKind
	Owner string // instance ID, or a fact key for relation shapes
	Role  string // e.g. "icon", "label", "bisector"

	Center expr.Vec   // circle, text anchor
	Radius *expr.Expr // circle
	Start  expr.Vec   // line
	End    expr.Vec   // line
	Points []expr.Vec // polyline, polygon

	Text     string
	FontSize float64

	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool
	Arrow       bool // arrowhead at End
	Draggable   bool
}

// Circle, Line, Text and Polygon are constructors for the common primitives.
func Circle(owner, role string, center expr.Vec, radius *expr.Expr) Shape {
	return Shape{Kind: ShapeCircle, Owner: owner, Role: role, Center: center, Radius: radius}
}

func Line(owner, role string, start, end expr.Vec) Shape {
	return Shape{Kind: ShapeLine, Owner: owner, Role: role, Start: start, End: end, StrokeWidth: 2}
}

func Text(owner, role string, at expr.Vec, text string) Shape {
	return Shape{Kind: ShapeText, Owner: owner, Role: role, Center: at, Text: text, FontSize: 16}
}

func Polygon(owner, role string, points ...expr.Vec) Shape {
	return Shape{Kind: ShapePolygon, Owner: owner, Role: role, Points: points}
}

func Polyline(owner, role string, points ...expr.Vec) Shape {
	return Shape{Kind: ShapePolyline, Owner: owner, Role: role, Points: points}
}

// Point is a concrete scene coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rendered is a Shape with every expression evaluated.
type Rendered struct {
	Kind        ShapeKind `json:"kind"`
	Owner       string    `json:"owner"`
	Role        string    `json:"role"`
	Center      Point     `json:"center"`
	Radius      float64   `json:"radius,omitempty"`
	Start       Point     `json:"start"`
	End         Point     `json:"end"`
	Points      []Point   `json:"points,omitempty"`
	Text        string    `json:"text,omitempty"`
	FontSize    float64   `json:"font_size,omitempty"`
	Fill        string    `json:"fill,omitempty"`
	Stroke      string    `json:"stroke,omitempty"`
	StrokeWidth float64   `json:"stroke_width,omitempty"`
	Dashed      bool      `json:"dashed,omitempty"`
	Arrow       bool      `json:"arrow,omitempty"`
	Draggable   bool      `json:"draggable,omitempty"`
}
