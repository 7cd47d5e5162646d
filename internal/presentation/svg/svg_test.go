package svg_test

import (
	"math"
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/presentation/svg"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var canvas = domain.Canvas{Width: 200, Height: 100}

func TestRender_Shapes(t *testing.T) {
	tests := []struct {
		name     string
		shape    domain.Rendered
		contains []string
	}{
		{
			name:  "circle is flipped into screen space",
			shape: domain.Rendered{Kind: domain.ShapeCircle, Owner: "p", Role: "icon", Center: domain.Point{X: 10, Y: 20}, Radius: 5, Draggable: true},
			contains: []string{
				`<circle cx="110" cy="30" r="5"`,
				`data-owner="p" data-role="icon"`,
				`data-draggable="true"`,
			},
		},
		{
			name:  "line with arrow",
			shape: domain.Rendered{Kind: domain.ShapeLine, Owner: "e", Role: "arrow", Start: domain.Point{X: -100, Y: 50}, End: domain.Point{X: 0, Y: 0}, Arrow: true, StrokeWidth: 2},
			contains: []string{
				`<line x1="0" y1="0" x2="100" y2="50"`,
				`marker-end="url(#lattice-arrow)"`,
				`<marker id="lattice-arrow"`,
				`stroke-width="2"`,
			},
		},
		{
			name:  "dashed polygon",
			shape: domain.Rendered{Kind: domain.ShapePolygon, Owner: "t", Role: "area", Points: []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}}, Dashed: true, Fill: "#eee"},
			contains: []string{
				`<polygon points="100,50 110,50 100,40"`,
				`stroke-dasharray="6 4"`,
				`fill="#eee"`,
			},
		},
		{
			name:  "text is escaped",
			shape: domain.Rendered{Kind: domain.ShapeText, Owner: "a", Role: "label", Center: domain.Point{X: 0, Y: 0}, Text: "a<b & c"},
			contains: []string{
				`<text x="100" y="50" font-size="16"`,
				`>a&lt;b &amp; c</text>`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := svg.Render(canvas, []domain.Rendered{tt.shape})
			require.NoError(t, err)
			doc := string(out)
			assert.True(t, strings.HasPrefix(doc, `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100"`))
			for _, want := range tt.contains {
				assert.Contains(t, doc, want)
			}
		})
	}
}

func TestRender_NoMarkerWithoutArrows(t *testing.T) {
	out, err := svg.Render(canvas, []domain.Rendered{{Kind: domain.ShapeCircle, Radius: 1}})
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<defs>")
}

func TestRender_Errors(t *testing.T) {
	tests := []struct {
		name  string
		shape domain.Rendered
	}{
		{"nan center", domain.Rendered{Kind: domain.ShapeCircle, Center: domain.Point{X: math.NaN()}, Radius: 1}},
		{"inf end", domain.Rendered{Kind: domain.ShapeLine, End: domain.Point{Y: math.Inf(1)}}},
		{"negative radius", domain.Rendered{Kind: domain.ShapeCircle, Radius: -1}},
		{"unknown kind", domain.Rendered{Kind: "blob"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svg.Render(canvas, []domain.Rendered{tt.shape})
			assert.ErrorIs(t, err, domain.ErrRenderFailed)
		})
	}
}
