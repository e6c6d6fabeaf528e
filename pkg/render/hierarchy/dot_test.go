package hierarchy

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lodgrid/pkg/layers"
	"github.com/matzehuels/lodgrid/pkg/scene"
)

func generated(t *testing.T, counts ...int) *scene.Node {
	t.Helper()
	root := scene.NewNode("Map")
	gen := layers.New(layers.Options{Prototype: scene.UnitTile(), Colorize: true})
	if _, err := gen.Generate(context.Background(), root, counts); err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return root
}

func TestToDOT_Basic(t *testing.T) {
	root := scene.NewNode("root")
	child := scene.NewNode("child")
	root.AddChild(child)

	dot := ToDOT(root, Options{})

	if !strings.Contains(dot, "digraph G") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	if !strings.Contains(dot, `label="root"`) || !strings.Contains(dot, `label="child"`) {
		t.Error("ToDOT() output missing node labels")
	}
	if !strings.Contains(dot, `"`+root.ID+`" -> "`+child.ID+`"`) {
		t.Error("ToDOT() output missing edge")
	}
}

func TestToDOT_Nil(t *testing.T) {
	dot := ToDOT(nil, Options{})
	if strings.Contains(dot, "->") {
		t.Errorf("nil root produced edges:\n%s", dot)
	}
}

func TestToDOT_Elides(t *testing.T) {
	root := generated(t, 9)

	dot := ToDOT(root, Options{MaxChildren: 4})
	if !strings.Contains(dot, `label="+5 more"`) {
		t.Errorf("missing elision node:\n%s", dot)
	}
	if got := strings.Count(dot, `label="SquareTile"`); got != 4 {
		t.Errorf("drawn tiles = %d, want 4", got)
	}

	all := ToDOT(root, Options{MaxChildren: -1})
	if strings.Contains(all, "more") {
		t.Error("MaxChildren -1 should draw every child")
	}
	if got := strings.Count(all, `label="SquareTile"`); got != 9 {
		t.Errorf("drawn tiles = %d, want 9", got)
	}
}

func TestToDOT_Styles(t *testing.T) {
	root := generated(t, 4)
	dot := ToDOT(root, Options{Detailed: true})

	if !strings.Contains(dot, "shape=folder") {
		t.Error("layer container not drawn as folder")
	}
	if !strings.Contains(dot, "pos (") {
		t.Error("detailed labels missing positions")
	}
	c, _ := root.Child(0).Child(0).Color()
	if !strings.Contains(dot, `fillcolor="`+c.Hex()+`"`) {
		t.Errorf("tile tint %s missing", c.Hex())
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := normalizeViewBox(in)
	if !bytes.Contains(out, []byte(`viewBox="0 0 100.00 50.00" width="100" height="50"`)) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); !bytes.Equal(got, plain) {
		t.Errorf("svg without viewBox changed: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(generated(t, 4), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("output is not SVG")
	}
}
