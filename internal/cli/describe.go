package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
)

// ContentRenderer transforms markdown before it is printed, e.g. glamour.
type ContentRenderer func(string) (string, error)

// Describe builds name and prints a markdown summary: what the script
// declares, how the solve went and a Mermaid graph of instances and facts.
func Describe(ctx context.Context, eng Builder, name string, p gallery.Params, out io.Writer, render ContentRenderer) error {
	var script gallery.Script
	for _, s := range eng.Scripts() {
		if s.Name == name {
			script = s
		}
	}
	if script.Name == "" {
		return fmt.Errorf("%w: %q", domain.ErrUnknownDiagram, name)
	}
	d, err := eng.BuildWith(ctx, name, p)
	if err != nil {
		return err
	}

	md := DescribeMarkdown(script, d)
	if render != nil {
		if md, err = render(md); err != nil {
			return fmt.Errorf("failed to render description: %w", err)
		}
	}
	_, err = io.WriteString(out, md)
	return err
}

// DescribeMarkdown formats the summary of a built diagram.
func DescribeMarkdown(script gallery.Script, d *domain.Diagram) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", script.Title)
	if script.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", script.Description)
	}

	types := map[string]int{}
	for _, in := range d.Instances {
		types[in.Type]++
	}
	names := make([]string, 0, len(types))
	for t := range types {
		names = append(names, t)
	}
	sort.Strings(names)

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Canvas | %g x %g, seed %d |\n", d.Canvas.Width, d.Canvas.Height, d.Canvas.Seed)
	for _, t := range names {
		fmt.Fprintf(&b, "| %s | %d |\n", t, types[t])
	}
	fmt.Fprintf(&b, "| Facts | %d |\n", len(d.Facts))
	fmt.Fprintf(&b, "| Shapes | %d |\n", len(d.Shapes))
	fmt.Fprintf(&b, "| Variables | %d |\n", len(d.Values))
	fmt.Fprintf(&b, "| Energy | %.4g |\n", d.Energy)
	fmt.Fprintf(&b, "| Iterations | %d |\n", d.Iterations)
	fmt.Fprintf(&b, "| Duration | %s |\n", d.Duration.Round(time.Millisecond))

	overlay := &graph.Overlay{Draggable: graph.DraggableOwners(d)}
	b.WriteString("\n## Structure\n\n```mermaid\n")
	b.WriteString(graph.GenerateMermaid(d, overlay))
	b.WriteString("```\n")
	return b.String()
}
