package domain

// Canvas describes the drawing area and the seed used for initial layouts.
// Scene coordinates are centered on the canvas with y pointing up.
type Canvas struct {
	Width  float64 `json:"width" yaml:"width" mapstructure:"width"`
	Height float64 `json:"height" yaml:"height" mapstructure:"height"`
	Seed   uint64  `json:"seed" yaml:"seed" mapstructure:"seed"`
}

// DefaultCanvas is used when a caller leaves the canvas zero-valued.
var DefaultCanvas = Canvas{Width: 800, Height: 600, Seed: 1}

// Normalize fills zero dimensions from DefaultCanvas.
func (c Canvas) Normalize() Canvas {
	if c.Width <= 0 {
		c.Width = DefaultCanvas.Width
	}
	if c.Height <= 0 {
		c.Height = DefaultCanvas.Height
	}
	return c
}

// HalfWidth and HalfHeight bound scene coordinates.
func (c Canvas) HalfWidth() float64  { return c.Width / 2 }
func (c Canvas) HalfHeight() float64 { return c.Height / 2 }

// ToScreen converts a scene point to SVG user space (origin top-left, y down).
func (c Canvas) ToScreen(p Point) Point {
	return Point{X: p.X + c.Width/2, Y: c.Height/2 - p.Y}
}
