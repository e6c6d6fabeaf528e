package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/pipeline"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Map.MapSize != pipeline.DefaultMapSize || cfg.Cache.Backend != BackendFile {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "lodgrid.toml", `
[map]
counts = [9, 4]
thresholds = [0.4, 0.1]
colorize = true

[render]
formats = ["svg", "json"]
outline = true

[cache]
backend = "redis"
[cache.redis]
addr = "localhost:6379"
prefix = "lodgrid:"

[server]
read_timeout = "5s"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := Default()
	want.Map.Counts = []int{9, 4}
	want.Map.Thresholds = []float64{0.4, 0.1}
	want.Map.Colorize = true
	want.Render.Formats = []string{"svg", "json"}
	want.Render.Outline = true
	want.Cache.Backend = BackendRedis
	want.Cache.Redis.Addr = "localhost:6379"
	want.Cache.Redis.Prefix = "lodgrid:"
	want.Server.ReadTimeout = 5 * time.Second
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "lodgrid.yaml", `
map:
  counts: [17]
  map_size: 4
render:
  band: 0
  size: 400
server:
  allowed_origins: ["https://example.com"]
  write_timeout: 2m
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff([]int{17}, cfg.Map.Counts); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
	if cfg.Map.MapSize != 4 || cfg.Render.Size != 400 || cfg.Map.TileSize != pipeline.DefaultTileSize {
		t.Errorf("map/render = %+v %+v", cfg.Map, cfg.Render)
	}
	if cfg.Server.WriteTimeout != 2*time.Minute || cfg.Server.AllowedOrigins[0] != "https://example.com" {
		t.Errorf("server = %+v", cfg.Server)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		code errors.Code
	}{
		{"missing", filepath.Join(t.TempDir(), "nope.toml"), errors.ErrCodeFileNotFound},
		{"bad extension", writeFile(t, "cfg.ini", "x=1"), errors.ErrCodeInvalidFormat},
		{"bad toml", writeFile(t, "cfg.toml", "[map\ncounts ="), errors.ErrCodeInvalidConfiguration},
		{"bad yaml", writeFile(t, "cfg.yml", "map: [unclosed"), errors.ErrCodeInvalidConfiguration},
		{"empty path", "", errors.ErrCodeInvalidPath},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			if !errors.Is(err, tt.code) {
				t.Errorf("Load(%q) err = %v, want %s", tt.path, err, tt.code)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"LODGRID_COUNTS":        "4, 9 ,16",
		"LODGRID_THRESHOLDS":    "0.5,0.2,0.1",
		"LODGRID_COLORIZE":      "true",
		"LODGRID_FORMATS":       "json",
		"LODGRID_REDIS_DB":      "3",
		"LODGRID_RATE_LIMIT":    "2.5",
		"LODGRID_READ_TIMEOUT":  "1s",
		"LODGRID_CACHE_BACKEND": "",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv() error: %v", err)
	}
	if diff := cmp.Diff([]int{4, 9, 16}, cfg.Map.Counts); diff != "" {
		t.Errorf("counts (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{0.5, 0.2, 0.1}, cfg.Map.Thresholds); diff != "" {
		t.Errorf("thresholds (-want +got):\n%s", diff)
	}
	if !cfg.Map.Colorize || cfg.Render.Formats[0] != "json" || cfg.Cache.Redis.DB != 3 {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Server.RequestsPerSecond != 2.5 || cfg.Server.ReadTimeout != time.Second {
		t.Errorf("server overrides not applied: %+v", cfg.Server)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("empty variable overrode backend: %q", cfg.Cache.Backend)
	}
}

func TestApplyEnvErrors(t *testing.T) {
	for _, kv := range [][2]string{
		{"LODGRID_COUNTS", "4,x"},
		{"LODGRID_MAP_SIZE", "big"},
		{"LODGRID_COLORIZE", "maybe"},
		{"LODGRID_READ_TIMEOUT", "5"},
	} {
		cfg := Default()
		err := cfg.ApplyEnv(func(k string) (string, bool) {
			if k == kv[0] {
				return kv[1], true
			}
			return "", false
		})
		if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
			t.Errorf("%s=%s: err = %v", kv[0], kv[1], err)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = BackendRedis }},
		{"negative rate", func(c *Config) { c.Server.RequestsPerSecond = -1 }},
		{"bad format", func(c *Config) { c.Render.Formats = []string{"gif"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() succeeded")
			}
		})
	}
}

func TestLoadEnv(t *testing.T) {
	const key = "LODGRID_TEST_DOTENV"
	path := writeFile(t, ".env", key+"=from-file\n")
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv() error: %v", err)
	}
	if got := os.Getenv(key); got != "from-file" {
		t.Errorf("%s = %q", key, got)
	}
	if err := LoadEnv(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing .env should be ignored: %v", err)
	}
}

func TestPipelineOptions(t *testing.T) {
	cfg := Default()
	cfg.Map.Counts = []int{4}
	cfg.Render.Outline = true

	opts := cfg.PipelineOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("options invalid: %v", err)
	}
	if !opts.Outline || opts.MapSize != pipeline.DefaultMapSize || len(opts.Thresholds) != 1 {
		t.Errorf("PipelineOptions() = %+v", opts)
	}
}

func TestParseLists(t *testing.T) {
	ints, err := ParseInts(" 1,4 , 9,")
	if err != nil || !cmp.Equal(ints, []int{1, 4, 9}) {
		t.Errorf("ParseInts = %v, %v", ints, err)
	}
	if _, err := ParseFloats("0.5,abc"); err == nil {
		t.Error("ParseFloats accepted garbage")
	}
}
