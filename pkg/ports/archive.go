package ports

import (
	"context"

	"github.com/aretw0/lattice/pkg/domain"
)

// Archive persists built diagrams for later inspection.
type Archive interface {
	Save(ctx context.Context, d *domain.Diagram) error
	// Load returns the stored markup and layout for a diagram ID.
	Load(ctx context.Context, id string) (*domain.Diagram, error)
}

// Clipboard receives exported text (SVG markup).
type Clipboard interface {
	WriteAll(text string) error
}
