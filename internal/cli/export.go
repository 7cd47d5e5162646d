package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/aretw0/lattice/pkg/ports"
)

// Export builds each named diagram and saves it to archive. With no names
// every registered script is exported.
func Export(ctx context.Context, eng Builder, archive ports.Archive, names []string, p gallery.Params, msgs io.Writer) error {
	if len(names) == 0 {
		for _, s := range eng.Scripts() {
			names = append(names, s.Name)
		}
	}
	for _, name := range names {
		d, err := eng.BuildWith(ctx, name, p)
		if err != nil {
			return err
		}
		if err := archive.Save(ctx, d); err != nil {
			return err
		}
		printSystemMessage(msgs, "archived %s (energy %.3g, %d iterations)", d.Name, d.Energy, d.Iterations)
	}
	return nil
}

// Restore prints the markup of an archived diagram.
func Restore(ctx context.Context, archive ports.Archive, id string, out io.Writer) error {
	d, err := archive.Load(ctx, id)
	if err != nil {
		return err
	}
	if len(d.Element()) == 0 {
		return fmt.Errorf("archived diagram %s has no markup", id)
	}
	_, err = out.Write(append(d.Element(), '\n'))
	return err
}
