package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/matzehuels/lodgrid/pkg/errors"
)

// EnvPrefix prefixes every environment variable read by ApplyEnv.
const EnvPrefix = "LODGRID_"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// FromEnv loads ./.env, reads the optional file at path and applies the
// process environment on top.
func FromEnv(path string) (Config, error) {
	if err := LoadEnv(); err != nil {
		return Default(), err
	}
	cfg := Default()
	if path == "" {
		path = os.Getenv(EnvPrefix + "CONFIG")
	}
	if path != "" {
		var err error
		if cfg, err = Load(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from LODGRID_* variables. List values are
// comma separated.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	e := envReader{lookup: lookup}

	e.setInts("COUNTS", &c.Map.Counts)
	e.setFloats("THRESHOLDS", &c.Map.Thresholds)
	e.setFloat("MAP_SIZE", &c.Map.MapSize)
	e.setFloat("TILE_SIZE", &c.Map.TileSize)
	e.setBool("COLORIZE", &c.Map.Colorize)
	e.setInt("MAX_CELLS", &c.Map.MaxCells)

	e.setStrings("FORMATS", &c.Render.Formats)
	e.setInt("BAND", &c.Render.Band)
	e.setInt("SIZE", &c.Render.Size)
	e.setBool("OUTLINE", &c.Render.Outline)

	e.setString("CACHE_BACKEND", &c.Cache.Backend)
	e.setString("CACHE_DIR", &c.Cache.Dir)
	e.setString("REDIS_ADDR", &c.Cache.Redis.Addr)
	e.setString("REDIS_PASSWORD", &c.Cache.Redis.Password)
	e.setInt("REDIS_DB", &c.Cache.Redis.DB)
	e.setString("REDIS_PREFIX", &c.Cache.Redis.Prefix)

	e.setString("ADDR", &c.Server.Addr)
	e.setStrings("CORS_ORIGINS", &c.Server.AllowedOrigins)
	e.setFloat("RATE_LIMIT", &c.Server.RequestsPerSecond)
	e.setInt("RATE_BURST", &c.Server.Burst)
	e.setBool("TRUST_PROXY", &c.Server.TrustProxy)
	e.setDuration("READ_TIMEOUT", &c.Server.ReadTimeout)
	e.setDuration("WRITE_TIMEOUT", &c.Server.WriteTimeout)
	e.setInt("SERVER_MAX_CELLS", &c.Server.MaxCells)

	return e.err
}

// envReader stops at the first malformed value.
type envReader struct {
	lookup LookupFunc
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if e.err != nil {
		return "", false
	}
	v, ok := e.lookup(EnvPrefix + name)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (e *envReader) fail(name, v string, cause error) {
	e.err = errors.Wrap(errors.ErrCodeInvalidConfiguration, cause, "%s%s=%q", EnvPrefix, name, v)
}

func (e *envReader) setString(name string, dst *string) {
	if v, ok := e.get(name); ok {
		*dst = v
	}
}

func (e *envReader) setStrings(name string, dst *[]string) {
	if v, ok := e.get(name); ok {
		*dst = splitList(v)
	}
}

func (e *envReader) setInt(name string, dst *int) {
	if v, ok := e.get(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) setFloat(name string, dst *float64) {
	if v, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) setBool(name string, dst *bool) {
	if v, ok := e.get(name); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = b
	}
}

func (e *envReader) setDuration(name string, dst *time.Duration) {
	if v, ok := e.get(name); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = d
	}
}

func (e *envReader) setInts(name string, dst *[]int) {
	if v, ok := e.get(name); ok {
		out, err := ParseInts(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = out
	}
}

func (e *envReader) setFloats(name string, dst *[]float64) {
	if v, ok := e.get(name); ok {
		out, err := ParseFloats(v)
		if err != nil {
			e.fail(name, v, err)
			return
		}
		*dst = out
	}
}

// ParseInts parses a comma-separated list of integers.
func ParseInts(s string) ([]int, error) {
	parts := splitList(s)
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

// ParseFloats parses a comma-separated list of numbers.
func ParseFloats(s string) ([]float64, error) {
	parts := splitList(s)
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
