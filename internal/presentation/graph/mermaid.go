package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// Overlay marks instances to highlight on the graph.
type Overlay struct {
	Draggable []string
}

// GenerateMermaid produces a Mermaid flowchart of a diagram's instance graph.
// Instances become nodes and facts become relations:
// - Binary facts: a labelled edge between the two arguments
// - Any other arity: a [[Subroutine]] node linked to each argument in order
func GenerateMermaid(d *domain.Diagram, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph LR\n")

	for _, in := range d.Instances {
		text := in.ID + ": " + in.Type
		if in.Label != "" {
			text = fmt.Sprintf("%s <br/> %s", text, in.Label)
		}
		fmt.Fprintf(&sb, "    %s[\"%s\"]\n", sanitizeMermaidID(in.ID), escape(text))
	}

	for i, f := range d.Facts {
		if len(f.Args) == 2 {
			fmt.Fprintf(&sb, "    %s -- \"%s\" --> %s\n",
				sanitizeMermaidID(f.Args[0]), escape(f.Predicate), sanitizeMermaidID(f.Args[1]))
			continue
		}
		factID := fmt.Sprintf("fact_%d", i)
		fmt.Fprintf(&sb, "    %s[[\"%s\"]]\n", factID, escape(f.Predicate))
		for j, arg := range f.Args {
			fmt.Fprintf(&sb, "    %s -. \"%d\" .-> %s\n", factID, j, sanitizeMermaidID(arg))
		}
	}

	if overlay != nil && len(overlay.Draggable) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef draggable fill:#ffeb3b,stroke:#fbc02d,stroke-width:2px,color:#000;\n")
		seen := make(map[string]bool)
		for _, id := range overlay.Draggable {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s draggable;\n", safeID)
			}
		}
	}

	return sb.String()
}

// DraggableOwners lists the owners of draggable shapes, for use as an overlay.
func DraggableOwners(d *domain.Diagram) []string {
	var out []string
	for _, s := range d.Shapes {
		if s.Draggable {
			out = append(out, s.Owner)
		}
	}
	return out
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_", "(", "_", ")", "_", ",", "_")
	return r.Replace(id)
}
