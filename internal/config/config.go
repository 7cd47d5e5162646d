// Package config loads the lattice configuration file.
//
// The file is YAML. It is decoded into a generic map first and then into
// Config with mapstructure, so durations may be written as "30s" and numbers
// may be quoted. Keys that do not belong to Config are rejected.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/aretw0/lattice/internal/runtime"
	"github.com/aretw0/lattice/pkg/domain"
	"github.com/aretw0/lattice/pkg/gallery"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Environment variables consulted by Load.
const (
	EnvPath     = "LATTICE_CONFIG"
	EnvLogLevel = "LATTICE_LOG_LEVEL"
)

// Cache backends.
const (
	CacheNone   = "none"
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// ErrInvalid is returned when a loaded configuration cannot be used.
var ErrInvalid = errors.New("invalid configuration")

// Config is the full application configuration.
type Config struct {
	Canvas   domain.Canvas          `yaml:"canvas" mapstructure:"canvas"`
	Gallery  Gallery                `yaml:"gallery" mapstructure:"gallery"`
	Solver   runtime.SolverSettings `yaml:"solver" mapstructure:"solver"`
	Server   Server                 `yaml:"server" mapstructure:"server"`
	Cache    Cache                  `yaml:"cache" mapstructure:"cache"`
	Archive  Archive                `yaml:"archive" mapstructure:"archive"`
	LogLevel string                 `yaml:"log_level" mapstructure:"log_level"`
}

// Gallery holds the script parameter defaults.
type Gallery struct {
	Satellites int             `yaml:"satellites" mapstructure:"satellites"`
	Matrix     *gallery.Matrix `yaml:"matrix" mapstructure:"matrix"`
}

// Server configures the HTTP adapter.
type Server struct {
	Addr            string        `yaml:"addr" mapstructure:"addr"`
	BuildTimeout    time.Duration `yaml:"build_timeout" mapstructure:"build_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// Cache selects where rendered markup is kept.
type Cache struct {
	Backend string        `yaml:"backend" mapstructure:"backend"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
	Prefix  string        `yaml:"prefix" mapstructure:"prefix"`
	Redis   Redis         `yaml:"redis" mapstructure:"redis"`
}

// Redis connection settings.
type Redis struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// Archive is where exported diagrams are written.
type Archive struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	m := gallery.DefaultMatrix
	return &Config{
		Canvas:  domain.DefaultCanvas,
		Gallery: Gallery{Satellites: gallery.DefaultSatellites, Matrix: &m},
		Solver:  runtime.DefaultSolverSettings(),
		Server: Server{
			Addr:            ":8080",
			BuildTimeout:    30 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Cache: Cache{
			Backend: CacheMemory,
			TTL:     time.Hour,
			Prefix:  "lattice:svg:",
			Redis:   Redis{Addr: "localhost:6379"},
		},
		Archive:  Archive{Dir: ".lattice"},
		LogLevel: "info",
	}
}

// Load reads path, or the file named by LATTICE_CONFIG when path is empty.
// With neither, the defaults are returned. LATTICE_LOG_LEVEL overrides the
// file's log level.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalid, path, err)
		}
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML data over the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return nil
	}
	// Slices decode element-wise over existing values; a schedule in the
	// file replaces the default one.
	if solver, ok := raw["solver"].(map[string]any); ok {
		if _, ok := solver["weights"]; ok {
			c.Solver.Weights = nil
		}
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           c,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// Validate checks the values a service cannot start with.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Cache.Backend) {
	case CacheNone, CacheMemory:
	case CacheRedis:
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("%w: cache.redis.addr is required", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown cache backend %q", ErrInvalid, c.Cache.Backend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("%w: negative cache.ttl", ErrInvalid)
	}
	for i := 1; i < len(c.Solver.Weights); i++ {
		if c.Solver.Weights[i] < c.Solver.Weights[i-1] {
			return fmt.Errorf("%w: solver.weights must not decrease", ErrInvalid)
		}
	}
	if err := c.Params().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// Params returns the gallery parameters the configuration describes.
func (c *Config) Params() gallery.Params {
	p := gallery.Params{Canvas: c.Canvas, Satellites: c.Gallery.Satellites}
	if c.Gallery.Matrix != nil {
		m := *c.Gallery.Matrix
		p.Matrix = &m
	}
	return p.WithDefaults()
}
