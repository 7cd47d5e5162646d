package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/adapters/memory"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/observability"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", target, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func stubRegistry(calls *atomic.Int32) *gallery.Registry {
	r := gallery.NewRegistry()
	r.Register(gallery.Script{
		Name:  "stub",
		Title: "Stub",
		Build: func(ctx context.Context, _ ports.Engine, p gallery.Params) (*domain.Diagram, error) {
			calls.Add(1)
			return &domain.Diagram{Name: "stub", Canvas: p.Canvas, Markup: []byte(`<svg id="stub"></svg>`)}, nil
		},
	})
	return r
}

func TestGetSwagger(t *testing.T) {
	doc, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, "Lattice API", doc.Info.Title)
	assert.NotNil(t, doc.Paths.Find("/diagrams/{name}"))
}

func TestHealth(t *testing.T) {
	h := NewHandler(gallery.NewRegistry(), runtime.NewEngine(), WithVersion("v1.2.3"))
	w := serve(t, h, "/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body Health
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	swagger, err := GetSwagger()
	require.NoError(t, err)
	assert.Equal(t, Health{Status: "ok", Version: "v1.2.3", APIVersion: swagger.Info.Version}, body)
	assert.Equal(t, "0.1.0", body.APIVersion)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestListDiagrams(t *testing.T) {
	h := NewHandler(gallery.Default(), runtime.NewEngine())
	w := serve(t, h, "/diagrams")
	require.Equal(t, http.StatusOK, w.Code)

	var scripts []gallery.Script
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scripts))
	var names []string
	for _, s := range scripts {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"arrow", "circle", "eigen", "geometry"}, names)
}

func TestGetDiagram_RealScript(t *testing.T) {
	h := NewHandler(gallery.Default(), runtime.NewEngine())
	w := serve(t, h, "/diagrams/circle?seed=3&satellites=4")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/svg+xml", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "<svg"))
	assert.Contains(t, w.Body.String(), `data-owner="s3"`)
	assert.NotContains(t, w.Body.String(), `data-owner="s4"`)
}

func TestGetDiagram_Cache(t *testing.T) {
	var calls atomic.Int32
	cache := memory.NewCache()
	metrics := observability.NewMetrics()
	h := NewHandler(stubRegistry(&calls), runtime.NewEngine(), WithCache(cache), WithMetrics(metrics))

	first := serve(t, h, "/diagrams/stub?seed=7")
	require.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "miss", first.Header().Get(CacheHeader))

	second := serve(t, h, "/diagrams/stub?seed=7")
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "hit", second.Header().Get(CacheHeader))
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), calls.Load())

	serve(t, h, "/diagrams/stub?seed=8")
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 2, cache.Len())

	m := serve(t, h, "/metrics")
	require.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), `lattice_cache_lookups_total{result="hit"} 1`)
}

func TestGetDiagram_Errors(t *testing.T) {
	h := NewHandler(gallery.Default(), runtime.NewEngine())
	tests := []struct {
		name   string
		target string
		status int
	}{
		{"unknown diagram", "/diagrams/nope", http.StatusNotFound},
		{"malformed seed", "/diagrams/arrow?seed=abc", http.StatusBadRequest},
		{"too many satellites", "/diagrams/circle?satellites=99", http.StatusBadRequest},
		{"canvas too small", "/diagrams/arrow?width=10", http.StatusBadRequest},
		{"nan width", "/diagrams/arrow?width=NaN", http.StatusBadRequest},
		{"nan height", "/diagrams/circle?height=NaN", http.StatusBadRequest},
		{"infinite matrix entry", "/diagrams/eigen?a=Inf", http.StatusBadRequest},
		{"degenerate matrix", "/diagrams/eigen?c=0", http.StatusUnprocessableEntity},
		{"unknown layout", "/diagrams/nope/layout", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, h, tt.target)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			var body Error
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestGetDiagramLayout(t *testing.T) {
	h := NewHandler(gallery.Default(), runtime.NewEngine())
	w := serve(t, h, "/diagrams/arrow/layout?seed=2")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var layout Layout
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &layout))
	assert.Equal(t, "arrow", layout.Name)
	assert.Equal(t, uint64(2), layout.Canvas.Seed)
	assert.NotEmpty(t, layout.Shapes)
	assert.NotEmpty(t, layout.ID)
}

func TestGetGallery(t *testing.T) {
	var calls atomic.Int32
	h := NewHandler(stubRegistry(&calls), runtime.NewEngine())

	w := serve(t, h, "/gallery")
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<svg id="stub"></svg>`)
	assert.Contains(t, body, `class="selected"`)
	assert.Contains(t, body, "Copy SVG")

	assert.Equal(t, http.StatusNotFound, serve(t, h, "/gallery?selected=nope").Code)
}

func TestParamsApply(t *testing.T) {
	seed, width, c := uint64(9), 900.0, 3.0
	base := gallery.DefaultParams()
	p := GetDiagramParams{Seed: &seed, Width: &width, C: &c}.apply(base)

	assert.Equal(t, uint64(9), p.Canvas.Seed)
	assert.Equal(t, 900.0, p.Canvas.Width)
	assert.Equal(t, base.Canvas.Height, p.Canvas.Height)
	assert.Equal(t, gallery.Matrix{A: 2, B: 1, C: 3, D: 1.5}, *p.Matrix)
	assert.Equal(t, 0.5, base.Matrix.C, "base matrix must not be modified")
}

func TestSwaggerAndSpecRoutes(t *testing.T) {
	h := NewHandler(gallery.NewRegistry(), runtime.NewEngine())
	spec := serve(t, h, "/openapi.yaml")
	require.Equal(t, http.StatusOK, spec.Code)
	assert.Contains(t, spec.Body.String(), "openapi: 3.0.3")
	assert.Equal(t, http.StatusOK, serve(t, h, "/swagger").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, h, "/metrics").Code)
}
