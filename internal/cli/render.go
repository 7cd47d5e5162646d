package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/ports"
	"github.com/aretw0/lattice/pkg/runner"
	"golang.org/x/sync/errgroup"
)

// RenderOptions select what the render command builds and where it goes.
type RenderOptions struct {
	Names []string
	All   bool
	// OutDir receives one <name>.svg per diagram. Empty writes to Out.
	OutDir string
	// Copy puts the markup of a single diagram on the clipboard.
	Copy bool
	// Parallel bounds concurrent builds with All.
	Parallel int
	Params   gallery.Params
}

// Builder is the part of the engine the commands drive.
type Builder interface {
	Scripts() []gallery.Script
	BuildWith(ctx context.Context, name string, p gallery.Params) (*domain.Diagram, error)
}

// Render builds the selected diagrams. Builds run concurrently and outputs
// are written in the order the names were given. Markup goes to out, status
// messages to msgs.
func Render(ctx context.Context, eng Builder, opts RenderOptions, out, msgs io.Writer, clip ports.Clipboard) error {
	names := opts.Names
	if opts.All {
		names = names[:0:0]
		for _, s := range eng.Scripts() {
			names = append(names, s.Name)
		}
	}
	if len(names) == 0 {
		return errors.New("no diagram selected")
	}
	if len(names) > 1 && opts.OutDir == "" {
		return errors.New("rendering several diagrams needs an output directory")
	}
	if opts.Copy && len(names) != 1 {
		return errors.New("--copy works with a single diagram")
	}

	diagrams := make([]*domain.Diagram, len(names))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		g.SetLimit(opts.Parallel)
	}
	for i, name := range names {
		g.Go(func() error {
			d, err := eng.BuildWith(gctx, name, opts.Params)
			if err != nil {
				return err
			}
			diagrams[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		for _, d := range diagrams {
			path := filepath.Join(opts.OutDir, d.Name+".svg")
			if err := os.WriteFile(path, d.Element(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			printSystemMessage(msgs, "wrote %s", path)
		}
	} else if _, err := out.Write(diagrams[0].Element()); err != nil {
		return err
	}

	if opts.Copy {
		return copyToClipboard(diagrams[0], clip, msgs)
	}
	return nil
}

// copyToClipboard mounts d in an off-screen container and copies it the way
// the gallery's copy button does.
func copyToClipboard(d *domain.Diagram, clip ports.Clipboard, out io.Writer) error {
	if clip == nil {
		return errors.New("no clipboard available")
	}
	var stage bytes.Buffer
	r := runner.NewRenderer(&stage, runner.WithClipboard(clip))
	defer r.Close()
	r.Render(d)
	err := r.CopySVG()
	printSystemMessage(out, "%s", r.Feedback())
	return err
}

// printSystemMessage prints a standardized system message.
func printSystemMessage(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "[lattice] "+format+"\n", args...)
}
