package http

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// GetDiagramParams are the query overrides accepted by the diagram routes.
type GetDiagramParams struct {
	Seed       *uint64  `form:"seed,omitempty" json:"seed,omitempty"`
	Width      *float64 `form:"width,omitempty" json:"width,omitempty"`
	Height     *float64 `form:"height,omitempty" json:"height,omitempty"`
	Satellites *int     `form:"satellites,omitempty" json:"satellites,omitempty"`
	A          *float64 `form:"a,omitempty" json:"a,omitempty"`
	B          *float64 `form:"b,omitempty" json:"b,omitempty"`
	C          *float64 `form:"c,omitempty" json:"c,omitempty"`
	D          *float64 `form:"d,omitempty" json:"d,omitempty"`
}

// GetGalleryParams are the query parameters of the gallery page.
type GetGalleryParams struct {
	Selected *string `form:"selected,omitempty" json:"selected,omitempty"`
	Seed     *uint64 `form:"seed,omitempty" json:"seed,omitempty"`
}

// Health is the liveness payload.
type Health struct {
	Status     string `json:"status"`
	Version    string `json:"version,omitempty"`
	APIVersion string `json:"api_version"`
}

// Error is the JSON error payload.
type Error struct {
	Error string `json:"error"`
}

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (GET /health)
	GetHealth(w http.ResponseWriter, r *http.Request)
	// (GET /diagrams)
	ListDiagrams(w http.ResponseWriter, r *http.Request)
	// (GET /diagrams/{name})
	GetDiagram(w http.ResponseWriter, r *http.Request, name string, params GetDiagramParams)
	// (GET /diagrams/{name}/layout)
	GetDiagramLayout(w http.ResponseWriter, r *http.Request, name string, params GetDiagramParams)
	// (GET /gallery)
	GetGallery(w http.ResponseWriter, r *http.Request, params GetGalleryParams)
}

// InvalidParamFormatError reports a query parameter that could not be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ServerInterfaceWrapper converts requests to typed parameters.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

func (siw *ServerInterfaceWrapper) GetHealth(w http.ResponseWriter, r *http.Request) {
	siw.Handler.GetHealth(w, r)
}

func (siw *ServerInterfaceWrapper) ListDiagrams(w http.ResponseWriter, r *http.Request) {
	siw.Handler.ListDiagrams(w, r)
}

func (siw *ServerInterfaceWrapper) GetDiagram(w http.ResponseWriter, r *http.Request) {
	params, ok := siw.bindDiagramParams(w, r)
	if !ok {
		return
	}
	siw.Handler.GetDiagram(w, r, chi.URLParam(r, "name"), params)
}

func (siw *ServerInterfaceWrapper) GetDiagramLayout(w http.ResponseWriter, r *http.Request) {
	params, ok := siw.bindDiagramParams(w, r)
	if !ok {
		return
	}
	siw.Handler.GetDiagramLayout(w, r, chi.URLParam(r, "name"), params)
}

func (siw *ServerInterfaceWrapper) GetGallery(w http.ResponseWriter, r *http.Request) {
	var params GetGalleryParams
	q := r.URL.Query()
	if err := runtime.BindQueryParameter("form", true, false, "selected", q, &params.Selected); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "selected", Err: err})
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "seed", q, &params.Seed); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "seed", Err: err})
		return
	}
	siw.Handler.GetGallery(w, r, params)
}

func (siw *ServerInterfaceWrapper) bindDiagramParams(w http.ResponseWriter, r *http.Request) (GetDiagramParams, bool) {
	var params GetDiagramParams
	q := r.URL.Query()
	bindings := []struct {
		name string
		dest any
	}{
		{"seed", &params.Seed},
		{"width", &params.Width},
		{"height", &params.Height},
		{"satellites", &params.Satellites},
		{"a", &params.A},
		{"b", &params.B},
		{"c", &params.C},
		{"d", &params.D},
	}
	for _, b := range bindings {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: b.name, Err: err})
			return params, false
		}
	}
	return params, true
}

// HandlerFromMux creates http.Handler with routing matching the OpenAPI spec
// based on the provided mux.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, r, func(w http.ResponseWriter, r *http.Request, err error) {
		http.Error(w, err.Error(), http.StatusBadRequest)
	})
}

// HandlerWithOptions is HandlerFromMux with a custom parameter error handler.
func HandlerWithOptions(si ServerInterface, r chi.Router, errorHandler func(w http.ResponseWriter, r *http.Request, err error)) http.Handler {
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: errorHandler,
	}
	r.Group(func(r chi.Router) {
		r.Get("/health", wrapper.GetHealth)
		r.Get("/diagrams", wrapper.ListDiagrams)
		r.Get("/diagrams/{name}", wrapper.GetDiagram)
		r.Get("/diagrams/{name}/layout", wrapper.GetDiagramLayout)
		r.Get("/gallery", wrapper.GetGallery)
	})
	return r
}
