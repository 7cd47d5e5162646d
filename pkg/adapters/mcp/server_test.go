package mcp

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(gallery.Default(), runtime.NewEngine(), " v0.0.1\n")
}

func TestHandleList(t *testing.T) {
	s := newTestServer()
	res, err := s.handleList(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Len(t, res.Content, 1)

	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok)
	var scripts []gallery.Script
	require.NoError(t, json.Unmarshal([]byte(text.Text), &scripts))
	assert.Len(t, scripts, 4)
}

func TestHandleRender(t *testing.T) {
	s := newTestServer()
	resp, err := s.handleRender(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{
		"name":       "circle",
		"seed":       float64(2),
		"satellites": float64(3),
	})
	require.NoError(t, err)
	assert.Equal(t, "circle", resp.Name)
	assert.True(t, strings.HasPrefix(resp.SVG, "<svg"))
	assert.Contains(t, resp.SVG, `data-owner="s2"`)
	assert.NotContains(t, resp.SVG, `data-owner="s3"`)

	_, err = s.handleRender(context.Background(), mcp.CallToolRequest{}, map[string]interface{}{"name": "nope"})
	assert.ErrorIs(t, err, domain.ErrUnknownDiagram)
}

func TestReadDiagram(t *testing.T) {
	s := newTestServer()
	var req mcp.ReadResourceRequest
	req.Params.URI = DiagramURIBase + "arrow"

	contents, err := s.readDiagram(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, "image/svg+xml", text.MIMEType)
	assert.Contains(t, text.Text, "<svg")

	req.Params.URI = DiagramURIBase + "missing"
	_, err = s.readDiagram(context.Background(), req)
	assert.ErrorIs(t, err, domain.ErrUnknownDiagram)
}
