// Package config loads lodgrid settings from files and the environment.
//
// Settings are layered: built-in defaults, then a TOML or YAML file chosen
// by extension, then LODGRID_* environment variables. A .env file in the
// working directory is loaded into the environment first when present.
//
//	# lodgrid.toml
//	[map]
//	counts = [9, 4]
//	map_size = 2.0
//	colorize = true
//
//	[render]
//	formats = ["svg", "json"]
//
//	[cache]
//	backend = "redis"
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "lodgrid:"
package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/lodgrid/pkg/cache"
	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/pipeline"
)

// Cache backends.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Config is the complete lodgrid configuration.
type Config struct {
	Map    MapConfig    `toml:"map" yaml:"map"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Server ServerConfig `toml:"server" yaml:"server"`
}

// MapConfig holds generation settings.
type MapConfig struct {
	Counts     []int     `toml:"counts" yaml:"counts"`
	Thresholds []float64 `toml:"thresholds" yaml:"thresholds"`
	MapSize    float64   `toml:"map_size" yaml:"map_size"`
	TileSize   float64   `toml:"tile_size" yaml:"tile_size"`
	Colorize   bool      `toml:"colorize" yaml:"colorize"`
	MaxCells   int       `toml:"max_cells" yaml:"max_cells"`
}

// RenderConfig holds output settings.
type RenderConfig struct {
	Formats []string `toml:"formats" yaml:"formats"`
	Band    int      `toml:"band" yaml:"band"`
	Size    int      `toml:"size" yaml:"size"`
	Outline bool     `toml:"outline" yaml:"outline"`
}

// CacheConfig selects and configures the artifact cache.
type CacheConfig struct {
	Backend string            `toml:"backend" yaml:"backend"`
	Dir     string            `toml:"dir" yaml:"dir"`
	Redis   cache.RedisConfig `toml:"redis" yaml:"redis"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr              string        `toml:"addr" yaml:"addr"`
	AllowedOrigins    []string      `toml:"allowed_origins" yaml:"allowed_origins"`
	RequestsPerSecond float64       `toml:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `toml:"burst" yaml:"burst"`
	TrustProxy        bool          `toml:"trust_proxy" yaml:"trust_proxy"`
	ReadTimeout       time.Duration `toml:"read_timeout" yaml:"read_timeout"`
	WriteTimeout      time.Duration `toml:"write_timeout" yaml:"write_timeout"`
	MaxCells          int           `toml:"max_cells" yaml:"max_cells"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Map: MapConfig{
			MapSize:  pipeline.DefaultMapSize,
			TileSize: pipeline.DefaultTileSize,
		},
		Render: RenderConfig{
			Formats: []string{pipeline.FormatSVG},
			Size:    pipeline.DefaultImageSize,
		},
		Cache: CacheConfig{Backend: BackendFile},
		Server: ServerConfig{
			Addr:              ":8080",
			AllowedOrigins:    []string{"*"},
			RequestsPerSecond: 5,
			Burst:             10,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      60 * time.Second,
			MaxCells:          50_000,
		},
	}
}

// Load reads path on top of the defaults. The format is chosen by
// extension: .toml, .yaml or .yml.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %s not found", path)
	}
	if err != nil {
		return cfg, err
	}
	if err := Decode(&cfg, data, filepath.Ext(path)); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfiguration, err, "read %s", path)
	}
	return cfg, nil
}

// Decode merges data in the format named by ext into cfg.
func Decode(cfg *Config, data []byte, ext string) error {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "toml":
		_, err := toml.NewDecoder(bytes.NewReader(data)).Decode(cfg)
		return err
	case "yaml", "yml":
		if len(bytes.TrimSpace(data)) == 0 {
			return nil
		}
		return yaml.Unmarshal(data, cfg)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported config format %q (use .toml, .yaml or .yml)", ext)
	}
}

// LoadEnv loads .env files into the process environment. Variables that
// are already set win. With no arguments it loads ./.env; a missing file
// is not an error.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Validate checks values that the pipeline does not check itself.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			return errors.New(errors.ErrCodeInvalidConfiguration, "cache.redis.addr is required for the redis backend")
		}
	default:
		return errors.New(errors.ErrCodeInvalidConfiguration,
			"unknown cache backend %q (must be one of: none, file, redis)", c.Cache.Backend)
	}
	if c.Server.RequestsPerSecond < 0 || c.Server.Burst < 0 {
		return errors.New(errors.ErrCodeInvalidConfiguration, "rate limit values cannot be negative")
	}
	return pipeline.ValidateFormats(c.Render.Formats)
}

// PipelineOptions converts the map and render sections to pipeline options.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		Counts:     c.Map.Counts,
		Thresholds: c.Map.Thresholds,
		MapSize:    c.Map.MapSize,
		TileSize:   c.Map.TileSize,
		Colorize:   c.Map.Colorize,
		MaxCells:   c.Map.MaxCells,
		Formats:    c.Render.Formats,
		Band:       c.Render.Band,
		Size:       c.Render.Size,
		Outline:    c.Render.Outline,
	}
}
