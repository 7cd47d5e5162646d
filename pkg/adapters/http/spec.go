package http

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var specYAML []byte

var (
	specOnce sync.Once
	specDoc  *openapi3.T
	specErr  error
)

func rawSpec() ([]byte, error) {
	if len(specYAML) == 0 {
		return nil, fmt.Errorf("embedded OpenAPI spec is empty")
	}
	return specYAML, nil
}

// GetSwagger parses and validates the embedded OpenAPI document.
// The result is computed once.
func GetSwagger() (*openapi3.T, error) {
	specOnce.Do(func() {
		raw, err := rawSpec()
		if err != nil {
			specErr = err
			return
		}
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(raw)
		if err != nil {
			specErr = fmt.Errorf("error loading OpenAPI spec: %w", err)
			return
		}
		if err := doc.Validate(context.Background()); err != nil {
			specErr = fmt.Errorf("invalid OpenAPI spec: %w", err)
			return
		}
		specDoc = doc
	})
	return specDoc, specErr
}
