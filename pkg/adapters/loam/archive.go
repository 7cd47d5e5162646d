package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/loam"
)

// DiagramMetadata is the frontmatter stored next to a diagram's markup.
type DiagramMetadata struct {
	BuildID    string             `json:"build_id" mapstructure:"build_id"`
	Name       string             `json:"name" mapstructure:"name"`
	Width      float64            `json:"width" mapstructure:"width"`
	Height     float64            `json:"height" mapstructure:"height"`
	Seed       uint64             `json:"seed" mapstructure:"seed"`
	Energy     float64            `json:"energy" mapstructure:"energy"`
	Iterations int                `json:"iterations" mapstructure:"iterations"`
	DurationMS int64              `json:"duration_ms" mapstructure:"duration_ms"`
	Values     map[string]float64 `json:"values" mapstructure:"values"`
	ArchivedAt string             `json:"archived_at" mapstructure:"archived_at"`
}

// Archive adapts a Loam repository to ports.Archive. Each diagram is one
// document keyed by its name: the layout goes in the frontmatter and the SVG
// markup is the body.
type Archive struct {
	Repo *loam.TypedRepository[DiagramMetadata]
	now  func() time.Time
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[DiagramMetadata]) *Archive {
	return &Archive{Repo: repo, now: time.Now}
}

// Open initializes a Loam repository at dir without versioning.
func Open(dir string) (*Archive, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath, loam.WithVersioning(false), loam.WithForceTemp(false))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[DiagramMetadata](repo)), nil
}

var _ ports.Archive = (*Archive)(nil)

// Save stores d under its name, replacing earlier exports.
func (a *Archive) Save(ctx context.Context, d *domain.Diagram) error {
	if d.Name == "" {
		return fmt.Errorf("cannot archive a diagram without a name")
	}
	meta := DiagramMetadata{
		BuildID:    d.ID,
		Name:       d.Name,
		Width:      d.Canvas.Width,
		Height:     d.Canvas.Height,
		Seed:       d.Canvas.Seed,
		Energy:     d.Energy,
		Iterations: d.Iterations,
		DurationMS: d.Duration.Milliseconds(),
		Values:     d.Values,
		ArchivedAt: a.now().UTC().Format(time.RFC3339),
	}
	err := a.Repo.Save(ctx, &loam.DocumentModel[DiagramMetadata]{
		ID:      d.Name,
		Content: string(d.Markup),
		Data:    meta,
	})
	if err != nil {
		return fmt.Errorf("loam save failed for %s: %w", d.Name, err)
	}
	return nil
}

// Load restores the canvas, layout values and markup of an archived diagram.
// Shapes are not archived; the markup carries them.
func (a *Archive) Load(ctx context.Context, id string) (*domain.Diagram, error) {
	doc, err := a.Repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loam get failed for %s: %w", id, err)
	}
	meta := doc.Data
	name := meta.Name
	if name == "" {
		name = id
	}
	return &domain.Diagram{
		ID:   meta.BuildID,
		Name: name,
		Canvas: domain.Canvas{
			Width:  meta.Width,
			Height: meta.Height,
			Seed:   meta.Seed,
		},
		Values:     meta.Values,
		Energy:     meta.Energy,
		Iterations: meta.Iterations,
		Duration:   time.Duration(meta.DurationMS) * time.Millisecond,
		Markup:     []byte(strings.TrimSpace(doc.Content)),
	}, nil
}
