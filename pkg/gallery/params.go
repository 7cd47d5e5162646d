package gallery

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/aretw0/lattice/pkg/domain"
)

// ErrInvalidParams is returned when overrides fall outside what the scripts
// can lay out.
var ErrInvalidParams = errors.New("invalid diagram parameters")

const (
	DefaultSatellites = 6
	MaxSatellites     = 12
	MinCanvasSide     = 400
	MaxCanvasSide     = 4000
)

// Matrix is the 2x2 linear map drawn by the eigen script, [[A B] [C D]].
type Matrix struct {
	A float64 `json:"a" yaml:"a" mapstructure:"a"`
	B float64 `json:"b" yaml:"b" mapstructure:"b"`
	C float64 `json:"c" yaml:"c" mapstructure:"c"`
	D float64 `json:"d" yaml:"d" mapstructure:"d"`
}

// DefaultMatrix has eigenvalues 2.5 and 1.
var DefaultMatrix = Matrix{A: 2, B: 1, C: 0.5, D: 1.5}

// Params are the per-build overrides a caller can pass to any script.
// Scripts ignore fields that do not apply to them.
type Params struct {
	Canvas     domain.Canvas `json:"canvas"`
	Satellites int           `json:"satellites,omitempty"`
	Matrix     *Matrix       `json:"matrix,omitempty"`
}

// DefaultParams returns the parameters the gallery starts with.
func DefaultParams() Params {
	m := DefaultMatrix
	return Params{Canvas: domain.DefaultCanvas, Satellites: DefaultSatellites, Matrix: &m}
}

// WithDefaults fills zero fields.
func (p Params) WithDefaults() Params {
	p.Canvas = p.Canvas.Normalize()
	if p.Satellites == 0 {
		p.Satellites = DefaultSatellites
	}
	if p.Matrix == nil {
		m := DefaultMatrix
		p.Matrix = &m
	}
	return p
}

// Validate checks the parameters after defaults are applied.
func (p Params) Validate() error {
	p = p.WithDefaults()
	for _, side := range []float64{p.Canvas.Width, p.Canvas.Height} {
		if !(side >= MinCanvasSide && side <= MaxCanvasSide) {
			return fmt.Errorf("%w: canvas side %g outside [%d, %d]", ErrInvalidParams, side, MinCanvasSide, MaxCanvasSide)
		}
	}
	if p.Satellites < 1 || p.Satellites > MaxSatellites {
		return fmt.Errorf("%w: satellites %d outside [1, %d]", ErrInvalidParams, p.Satellites, MaxSatellites)
	}
	m := p.Matrix
	for _, v := range []float64{m.A, m.B, m.C, m.D} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: matrix entry %g is not finite", ErrInvalidParams, v)
		}
	}
	return nil
}

// Key identifies a (script, params) build for caching and loader keys.
func (p Params) Key(script string) string {
	p = p.WithDefaults()
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
	return fmt.Sprintf("%s?w=%s&h=%s&seed=%d&n=%d&m=%s,%s,%s,%s", script,
		f(p.Canvas.Width), f(p.Canvas.Height), p.Canvas.Seed, p.Satellites,
		f(p.Matrix.A), f(p.Matrix.B), f(p.Matrix.C), f(p.Matrix.D))
}
