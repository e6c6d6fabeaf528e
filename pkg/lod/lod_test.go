package lod

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/matzehuels/lodgrid/pkg/errors"
	"github.com/matzehuels/lodgrid/pkg/layers"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

func layerWith(name string, renderable, bare int) *scene.Node {
	layer := scene.NewNode(name)
	proto := scene.UnitTile()
	for i := 0; i < renderable; i++ {
		layer.AddChild(proto.Instantiate(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}))
	}
	for i := 0; i < bare; i++ {
		layer.AddChild(scene.NewNode("bare"))
	}
	return layer
}

func TestBuild(t *testing.T) {
	fine := layerWith("fine", 9, 0)
	coarse := layerWith("coarse", 1, 0)

	got, err := Build([]*scene.Node{fine, coarse}, []float64{0.5, 0.1})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Layer != fine || got[0].Threshold != 0.5 || len(got[0].Renderables) != 9 {
		t.Errorf("entry 0 = %s/%v/%d", got[0].Layer.Name, got[0].Threshold, len(got[0].Renderables))
	}
	if got[1].Layer != coarse || got[1].Threshold != 0.1 || len(got[1].Renderables) != 1 {
		t.Errorf("entry 1 = %s/%v/%d", got[1].Layer.Name, got[1].Threshold, len(got[1].Renderables))
	}
	for i, r := range got[0].Renderables {
		if r != fine.Child(i).Renderable() {
			t.Errorf("renderable %d out of order", i)
		}
	}
}

func TestBuildSkipsBareChildren(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewWithOptions(&buf, log.Options{})

	mixed := layerWith("mixed", 2, 3)
	empty := layerWith("empty", 0, 2)
	got, err := Build([]*scene.Node{mixed, empty}, []float64{0.5, 0.25}, WithLogger(logger))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got[0].Renderables) != 2 {
		t.Errorf("mixed renderables = %d, want 2", len(got[0].Renderables))
	}
	if len(got[1].Renderables) != 0 {
		t.Errorf("empty renderables = %d, want 0", len(got[1].Renderables))
	}
	out := buf.String()
	if !strings.Contains(out, "no renderables") || !strings.Contains(out, "empty") {
		t.Errorf("warning not logged for empty layer, log = %q", out)
	}
	if strings.Contains(out, "mixed") {
		t.Errorf("warning logged for layer with renderables, log = %q", out)
	}
}

func TestBuildListSizeMismatch(t *testing.T) {
	tests := []struct {
		name       string
		layers     []*scene.Node
		thresholds []float64
	}{
		{"more layers", []*scene.Node{layerWith("a", 1, 0), layerWith("b", 1, 0)}, []float64{0.5}},
		{"more thresholds", []*scene.Node{layerWith("a", 1, 0)}, []float64{0.5, 0.1}},
		{"no thresholds", []*scene.Node{layerWith("a", 1, 0)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Build(tt.layers, tt.thresholds)
			if !errors.Is(err, errors.ErrCodeListSizeMismatch) {
				t.Errorf("error = %v, want LIST_SIZE_MISMATCH", err)
			}
			if got != nil {
				t.Error("entries returned alongside error")
			}
		})
	}
}

func TestBuildEmpty(t *testing.T) {
	got, err := Build(nil, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}

func TestBuildNilLayer(t *testing.T) {
	_, err := Build([]*scene.Node{nil}, []float64{1})
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("error = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestBuildThresholdsUnvalidated(t *testing.T) {
	got, err := Build([]*scene.Node{layerWith("a", 1, 0), layerWith("b", 1, 0)}, []float64{0.1, 0.9})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if got[0].Threshold != 0.1 || got[1].Threshold != 0.9 {
		t.Error("thresholds reordered")
	}
}

func TestBuildCallback(t *testing.T) {
	var bands []int
	_, err := Build(
		[]*scene.Node{layerWith("a", 4, 0), layerWith("b", 1, 0)},
		[]float64{0.5, 0.1},
		WithBandCallback(func(band, n int) { bands = append(bands, n) }),
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if diff := cmp.Diff([]int{4, 1}, bands); diff != "" {
		t.Errorf("callback mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildFromGeneratedLayers(t *testing.T) {
	g := layers.New(layers.Options{Prototype: scene.UnitTile()})
	built, err := g.Generate(context.Background(), scene.NewNode("map"), []int{1, 4, 9})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	got, err := Build(built, DefaultThresholds(len(built)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	var sizes []int
	for _, e := range got {
		sizes = append(sizes, len(e.Renderables))
	}
	if diff := cmp.Diff([]int{36, 4, 1}, sizes); diff != "" {
		t.Errorf("band sizes mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultThresholds(t *testing.T) {
	if diff := cmp.Diff([]float64{1, 0.5, 1.0 / 3.0}, DefaultThresholds(3)); diff != "" {
		t.Errorf("DefaultThresholds(3) mismatch (-want +got):\n%s", diff)
	}
	if DefaultThresholds(0) != nil {
		t.Error("DefaultThresholds(0) != nil")
	}
}
