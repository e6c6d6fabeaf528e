package pipeline

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/lodgrid/pkg/cache"
	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/observability"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"dot", false},
		{"tree", false},
		{"invalid", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "json"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestFormatNames(t *testing.T) {
	want := []string{"dot", "json", "pdf", "png", "svg", "tree"}
	if diff := cmp.Diff(want, FormatNames()); diff != "" {
		t.Errorf("FormatNames() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{Counts: []int{4, 9}}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.MapSize != DefaultMapSize || opts.TileSize != DefaultTileSize || opts.Size != DefaultImageSize {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if diff := cmp.Diff([]float64{1, 0.5}, opts.Thresholds); diff != "" {
		t.Errorf("default thresholds (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{FormatSVG}, opts.Formats); diff != "" {
		t.Errorf("default formats (-want +got):\n%s", diff)
	}
	if opts.Logger == nil {
		t.Error("logger not defaulted")
	}

	// Idempotent: a second call after mutation does not re-validate.
	opts.Formats = []string{"bogus"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second call re-validated: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"no counts", Options{}, errors.ErrCodeInvalidConfiguration},
		{"zero count", Options{Counts: []int{4, 0}}, errors.ErrCodeInvalidConfiguration},
		{"negative map size", Options{Counts: []int{4}, MapSize: -1}, errors.ErrCodeInvalidConfiguration},
		{"negative tile size", Options{Counts: []int{4}, TileSize: -2}, errors.ErrCodeInvalidConfiguration},
		{"threshold mismatch", Options{Counts: []int{4, 9}, Thresholds: []float64{0.5}}, errors.ErrCodeListSizeMismatch},
		{"bad format", Options{Counts: []int{4}, Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"band too high", Options{Counts: []int{4}, Band: 1}, errors.ErrCodeInvalidInput},
		{"negative band", Options{Counts: []int{4}, Band: -1}, errors.ErrCodeInvalidInput},
		{"negative size", Options{Counts: []int{4}, Size: -5}, errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestOptionsKeys(t *testing.T) {
	a := Options{Counts: []int{4}, MapSize: 2, Band: 0, Size: 800}
	b := a
	b.Colorize = true
	if cmp.Equal(a.MapKeyOpts(), b.MapKeyOpts()) {
		t.Error("Colorize should change map key options")
	}
	if cmp.Equal(a.ArtifactKeyOpts("svg"), a.ArtifactKeyOpts("json")) {
		t.Error("format should change artifact key options")
	}
}

func TestPrototype(t *testing.T) {
	opts := Options{TileSize: 3}
	p := opts.Prototype()
	if p.Size.X != 3 || p.Size.Z != 3 || p.Scale.X != 1 {
		t.Errorf("Prototype() = %+v", p)
	}
	if p.NewRenderable == nil {
		t.Error("Prototype() has no renderable")
	}
}

type recordingCache struct {
	mu                sync.Mutex
	hits, misses, set int
}

func (r *recordingCache) OnCacheHit(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hits++
}

func (r *recordingCache) OnCacheMiss(context.Context, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.misses++
}

func (r *recordingCache) OnCacheSet(context.Context, string, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.set++
}

func TestRunnerExecute(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	counter := observability.NewTileCounter()
	rec := &recordingCache{}
	runner := NewRunner(fc, nil, nil)
	runner.Hooks = observability.Hooks{Generation: counter, Cache: rec}
	defer runner.Close()

	opts := Options{
		Counts:   []int{4, 9},
		Colorize: true,
		Formats:  []string{FormatSVG, FormatJSON, FormatDOT},
	}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if first.CacheHit {
		t.Error("first run should not hit the cache")
	}
	if first.Stats.Layers != 2 || first.Stats.Cells != 40 {
		t.Errorf("stats = %+v, want 2 layers and 40 cells", first.Stats)
	}
	if counter.Count() != 40 || counter.Layer(0) != 4 || counter.Layer(1) != 36 {
		t.Errorf("tile counter = %d (%d, %d)", counter.Count(), counter.Layer(0), counter.Layer(1))
	}
	if first.Root == nil || first.Root.Name != RootName || first.Root.ChildCount() != 2 {
		t.Fatalf("root = %+v", first.Root)
	}
	if first.Layers[0].Name != "MapLayer1" || len(first.LODs) != 2 {
		t.Errorf("layers not finest first: %s, %d entries", first.Layers[0].Name, len(first.LODs))
	}
	for _, f := range opts.Formats {
		if len(first.Artifacts[f]) == 0 {
			t.Errorf("artifact %s is empty", f)
		}
	}
	if rec.misses != 3 || rec.set != 3 || rec.hits != 0 {
		t.Errorf("first run cache events = %+v", rec)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if !second.CacheHit {
		t.Error("second run should be served from the cache")
	}
	if second.RunID == first.RunID {
		t.Error("run IDs should differ between runs")
	}
	if second.MapHash != first.MapHash {
		t.Error("map hash should be stable")
	}
	if !bytes.Equal(first.Artifacts[FormatJSON], second.Artifacts[FormatJSON]) {
		t.Error("cached JSON differs from rendered JSON")
	}
	if rec.hits != 3 {
		t.Errorf("second run hits = %d, want 3", rec.hits)
	}
}

func TestRunnerExecuteErrors(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Execute(context.Background(), Options{Counts: []int{8}})
	if !errors.Is(err, errors.ErrCodeGenerationNotPossible) || !errors.Is(err, errors.ErrCodeSubdivisionImpossible) {
		t.Errorf("count 8: err = %v", err)
	}
	if !strings.HasPrefix(err.Error(), "generate: ") {
		t.Errorf("error not wrapped by stage: %v", err)
	}

	_, err = runner.Execute(context.Background(), Options{Counts: []int{100, 100, 100}})
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("cell limit: err = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Execute(ctx, Options{Counts: []int{4}}); err == nil {
		t.Error("cancelled context should fail")
	}
}

func TestRunnerGenerate(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	m, err := runner.Generate(context.Background(), Options{Counts: []int{17}})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if m.Cells() != 17 || len(m.LODs) != 1 || len(m.LODs[0].Renderables) != 17 {
		t.Errorf("map = %d cells, %d entries", m.Cells(), len(m.LODs))
	}
}

func TestRenderFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := Options{Counts: []int{4}, TileSize: 1, Size: 100}
	m, err := runner.Generate(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	svg, err := RenderFormat(context.Background(), m, opts, FormatSVG)
	if err != nil {
		t.Fatalf("RenderFormat(svg) error: %v", err)
	}
	if !bytes.Contains(svg, []byte(`width="100" height="100"`)) {
		t.Errorf("size option not applied:\n%s", svg)
	}

	dot, err := RenderFormat(context.Background(), m, opts, FormatDOT)
	if err != nil || !bytes.HasPrefix(dot, []byte("digraph G")) {
		t.Errorf("RenderFormat(dot) = %q, %v", dot, err)
	}

	if _, err := RenderFormat(context.Background(), m, opts, "gif"); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format err = %v", err)
	}
}

func TestFormatExtension(t *testing.T) {
	if FormatExtension(FormatTree) != "tree.svg" || FormatExtension(FormatPNG) != "png" {
		t.Error("unexpected extensions")
	}
}
