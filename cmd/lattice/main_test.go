package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "lattice version "))
}

func TestListCommand(t *testing.T) {
	t.Setenv("LATTICE_CONFIG", "")
	out, err := run(t, "list")
	require.NoError(t, err)
	for _, name := range []string{"arrow", "circle", "eigen", "geometry"} {
		assert.Contains(t, out, name)
	}
}

func TestRenderCommand(t *testing.T) {
	t.Setenv("LATTICE_CONFIG", "")
	out, err := run(t, "render", "circle", "--satellites", "3", "--seed", "5")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "<svg"))
	assert.Contains(t, out, `data-owner="s2"`)
	assert.NotContains(t, out, `data-owner="s3"`)
}

func TestDescribeCommand_UnknownDiagram(t *testing.T) {
	t.Setenv("LATTICE_CONFIG", "")
	_, err := run(t, "describe", "spiral")
	assert.Error(t, err)
}
