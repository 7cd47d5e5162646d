// Package clipboard adapts the system clipboard to ports.Clipboard.
package clipboard

import (
	"errors"

	"github.com/aretw0/lattice/pkg/ports"
	backend "github.com/atotto/clipboard"
)

// ErrUnsupported is returned on systems without a clipboard utility.
var ErrUnsupported = errors.New("clipboard not supported on this system")

// System writes to the OS clipboard.
type System struct{}

var _ ports.Clipboard = System{}

// WriteAll replaces the clipboard contents with text.
func (System) WriteAll(text string) error {
	if backend.Unsupported {
		return ErrUnsupported
	}
	return backend.WriteAll(text)
}

// Available reports whether a clipboard utility was found.
func Available() bool { return !backend.Unsupported }
