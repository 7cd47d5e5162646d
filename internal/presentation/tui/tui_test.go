package tui

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	lines := strings.Split(strings.Trim(buf.String(), "\n"), "\n")
	assert.Len(t, lines, 5)
}

func TestNewRenderer_PassThroughForFiles(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.md"))
	require.NoError(t, err)
	defer f.Close()

	render := NewRenderer(f)
	out, err := render("# Arrow\n")
	require.NoError(t, err)
	assert.Equal(t, "# Arrow\n", out)
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown("# Circle\n\nSatellites orbit the sun.", 40)
	require.NoError(t, err)
	assert.Contains(t, out, "Circle")
	assert.Contains(t, out, "Satellites")
}
