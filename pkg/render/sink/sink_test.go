package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/layers"
	"github.com/matzehuels/lodgrid/pkg/lod"
	"github.com/matzehuels/lodgrid/pkg/paint"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

func buildEntries(t *testing.T, colorize bool, counts ...int) []lod.Entry {
	t.Helper()
	gen := layers.New(layers.Options{Prototype: scene.UnitTile(), MapSize: 2, Colorize: colorize})
	built, err := gen.Generate(context.Background(), scene.NewNode("root"), counts)
	if err != nil {
		t.Fatalf("Generate(%v): %v", counts, err)
	}
	entries, err := lod.Build(built, lod.DefaultThresholds(len(built)))
	if err != nil {
		t.Fatalf("lod.Build: %v", err)
	}
	return entries
}

func TestRenderSVG(t *testing.T) {
	entries := buildEntries(t, false, 4)

	svg, err := RenderSVG(entries)
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if got := bytes.Count(svg, []byte("<rect ")); got != 4 {
		t.Errorf("rect count = %d, want 4", got)
	}
	if !bytes.Contains(svg, []byte(`width="800" height="800"`)) {
		t.Errorf("missing default frame size:\n%s", svg)
	}
	// Four 1x1 tiles over a 2x2 map at 800px: 400px each, top-left at origin.
	if !bytes.Contains(svg, []byte(`x="0.00" y="0.00" width="400.00" height="400.00"`)) {
		t.Errorf("missing top-left tile:\n%s", svg)
	}
	if got := bytes.Count(svg, []byte(`fill="`+Unpainted+`"`)); got != 4 {
		t.Errorf("unpainted tiles = %d, want 4", got)
	}
	if !bytes.Contains(svg, []byte(`stroke="none"`)) {
		t.Error("tiles should not be outlined by default")
	}
}

func TestRenderSVGOptions(t *testing.T) {
	entries := buildEntries(t, true, 4, 9)

	tests := []struct {
		name  string
		opts  []SVGOption
		rects int
		want  string
	}{
		{"finest band", nil, 36, `data-band="0"`},
		{"coarse band", []SVGOption{WithBand(1)}, 4, `data-band="1"`},
		{"size", []SVGOption{WithBand(1), WithSize(200)}, 4, `width="200" height="200"`},
		{"outline", []SVGOption{WithBand(1), WithOutline()}, 4, `stroke="#202020"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svg, err := RenderSVG(entries, tt.opts...)
			if err != nil {
				t.Fatalf("RenderSVG() error: %v", err)
			}
			if got := bytes.Count(svg, []byte("<rect ")); got != tt.rects {
				t.Errorf("rect count = %d, want %d", got, tt.rects)
			}
			if !bytes.Contains(svg, []byte(tt.want)) {
				t.Errorf("missing %q", tt.want)
			}
			if bytes.Contains(svg, []byte(`fill="`+Unpainted+`"`)) {
				t.Error("colorized map has unpainted tiles")
			}
		})
	}
}

func TestRenderSVGBandOutOfRange(t *testing.T) {
	entries := buildEntries(t, false, 4)
	for _, band := range []int{-1, 1, 5} {
		_, err := RenderSVG(entries, WithBand(band))
		if !errors.Is(err, errors.ErrCodeInvalidInput) {
			t.Errorf("band %d: err = %v, want INVALID_INPUT", band, err)
		}
	}
}

func TestRenderSVGSkipsBareChildren(t *testing.T) {
	layer := scene.NewNode("MapLayer0")
	layer.AddChild(scene.NewNode("bare"))
	svg, err := RenderSVG([]lod.Entry{{Threshold: 1, Layer: layer}})
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if bytes.Contains(svg, []byte("<rect ")) {
		t.Error("bare transform was drawn")
	}
}

func TestRenderJSON(t *testing.T) {
	entries := buildEntries(t, true, 4, 9)

	data, err := RenderJSON(entries, WithJSONMap([]int{4, 9}, 2))
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}

	var out Output
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error: %v", err)
	}
	if out.MapSize != 2 || out.TileSize != 1 || len(out.Counts) != 2 {
		t.Errorf("header = %+v", out)
	}
	if len(out.Bands) != 2 {
		t.Fatalf("bands = %d, want 2", len(out.Bands))
	}
	if b := out.Bands[0]; b.Layer != "MapLayer1" || len(b.Tiles) != 36 || b.Renderables != 36 || b.Threshold != 1 {
		t.Errorf("band 0 = %s, %d tiles, %d renderables, threshold %v", b.Layer, len(b.Tiles), b.Renderables, b.Threshold)
	}
	if b := out.Bands[1]; b.Layer != "MapLayer0" || len(b.Tiles) != 4 || b.Threshold != 0.5 {
		t.Errorf("band 1 = %s, %d tiles, threshold %v", b.Layer, len(b.Tiles), b.Threshold)
	}
	for _, tile := range out.Bands[1].Tiles {
		if tile.Color == nil {
			t.Errorf("tile %s has no color", tile.ID)
		}
		if tile.Model != scene.DefaultTileName {
			t.Errorf("tile %s model = %q", tile.ID, tile.Model)
		}
	}
}

func TestRenderJSONEmpty(t *testing.T) {
	data, err := RenderJSON(nil)
	if err != nil {
		t.Fatalf("RenderJSON() error: %v", err)
	}
	if !strings.Contains(string(data), `"bands": []`) {
		t.Errorf("empty export = %s", data)
	}
}

func TestRenderPNG(t *testing.T) {
	entries := buildEntries(t, true, 4)
	data, err := RenderPNG(context.Background(), entries, WithScale(1))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("\x89PNG")) {
		t.Error("output is not a PNG")
	}
}

func TestRenderPNGNative(t *testing.T) {
	entries := buildEntries(t, true, 4)
	data, err := RenderPNG(context.Background(), entries,
		WithNativeRaster(), WithScale(2), WithPNGSVGOptions(WithSize(100)))
	if err != nil {
		t.Fatalf("RenderPNG() error: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 200, 200+captionHeight); got != want {
		t.Errorf("bounds = %v, want %v", got, want)
	}
}

func TestRenderRaster(t *testing.T) {
	entries := buildEntries(t, true, 4)
	img, err := RenderRaster(entries, 1, WithSize(100))
	if err != nil {
		t.Fatalf("RenderRaster() error: %v", err)
	}

	// Prism order runs row-major from the -z edge, which is the bottom row.
	tests := []struct {
		name string
		x, y int
		want paint.RGB
	}{
		{"bottom left", 25, 75, paint.Red},
		{"bottom right", 75, 75, paint.Green},
		{"top left", 25, 25, paint.Blue},
		{"top right", 75, 25, paint.White},
	}
	for _, tt := range tests {
		if got, want := img.RGBAAt(tt.x, tt.y), color.RGBAModel.Convert(tt.want); got != want {
			t.Errorf("%s pixel = %v, want %v", tt.name, got, want)
		}
	}

	if _, err := RenderRaster(entries, 1, WithBand(3)); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("band 3: err = %v, want INVALID_INPUT", err)
	}
}

func TestRenderRasterUnpainted(t *testing.T) {
	entries := buildEntries(t, false, 1)
	img, err := RenderRaster(entries, 1, WithSize(10), WithOutline())
	if err != nil {
		t.Fatalf("RenderRaster() error: %v", err)
	}
	grey := color.RGBAModel.Convert(tileColor(Unpainted))
	if got := img.RGBAAt(5, 5); got != grey {
		t.Errorf("center pixel = %v, want %v", got, grey)
	}
	if got := img.RGBAAt(0, 0); got == grey {
		t.Error("outline not drawn at the corner")
	}
}
