package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, CacheMemory, cfg.Cache.Backend)
	assert.Equal(t, gallery.DefaultParams(), cfg.Params())
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
canvas:
  width: 1024
  seed: "42"
gallery:
  satellites: 8
  matrix: {a: 3, b: 1, c: 1, d: 3}
solver:
  weights: [1, 100]
  tolerance: 0.01
server:
  addr: ":9090"
  build_timeout: 45s
cache:
  backend: redis
  ttl: 10m
  redis:
    addr: "redis:6379"
    db: 2
log_level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, 1024.0, cfg.Canvas.Width)
	assert.Equal(t, 600.0, cfg.Canvas.Height, "unset keys keep defaults")
	assert.Equal(t, uint64(42), cfg.Canvas.Seed, "weakly typed")
	assert.Equal(t, 8, cfg.Gallery.Satellites)
	assert.Equal(t, gallery.Matrix{A: 3, B: 1, C: 1, D: 3}, *cfg.Gallery.Matrix)
	assert.Equal(t, []float64{1, 100}, cfg.Solver.Weights)
	assert.Equal(t, 0.01, cfg.Solver.Tolerance)
	assert.Equal(t, 0.5, cfg.Solver.Slack)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 45*time.Second, cfg.Server.BuildTimeout)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, CacheRedis, cfg.Cache.Backend)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, Redis{Addr: "redis:6379", DB: 2}, cfg.Cache.Redis)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":      "colour: red\n",
		"unknown backend":  "cache: {backend: memcached}\n",
		"bad duration":     "server: {build_timeout: soon}\n",
		"decreasing":       "solver: {weights: [10, 1]}\n",
		"tiny canvas":      "canvas: {width: 10}\n",
		"too many":         "gallery: {satellites: 50}\n",
		"malformed yaml":   "canvas: [\n",
		"redis needs addr": "cache: {backend: redis, redis: {addr: \"\"}}\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.ErrorIs(t, err, ErrInvalid)
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lattice.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas: {seed: 7}\nlog_level: warn\n"), 0o644))

	t.Run("explicit path", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, uint64(7), cfg.Canvas.Seed)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvPath, path)
		t.Setenv(EnvLogLevel, "error")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, uint64(7), cfg.Canvas.Seed)
		assert.Equal(t, "error", cfg.LogLevel)
	})

	t.Run("no file", func(t *testing.T) {
		t.Setenv(EnvPath, "")
		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"))
		assert.Error(t, err)
	})
}
