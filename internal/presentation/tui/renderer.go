package tui

import (
	"os"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

// DefaultWrap is the word wrap width used when the terminal size is unknown.
const DefaultWrap = 80

// NewRenderer returns a function that renders markdown using glamour.
// When out is not a terminal the markdown is passed through unchanged.
func NewRenderer(out *os.File) func(string) (string, error) {
	if !IsTerminal(out) {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	wrap := DefaultWrap
	if w, _, err := term.GetSize(int(out.Fd())); err == nil && w > 0 {
		wrap = w
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, err }
	}
	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return f != nil && term.IsTerminal(int(f.Fd()))
}

// RenderMarkdown renders markdown with glamour's dark style regardless of
// the output, for callers that already know they want styled text.
func RenderMarkdown(markdown string, wrap int) (string, error) {
	if wrap <= 0 {
		wrap = DefaultWrap
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}
