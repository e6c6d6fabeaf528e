package hierarchy

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lodgrid/pkg/scene"
)

// DefaultMaxChildren is used when Options.MaxChildren is zero.
const DefaultMaxChildren = 8

// Options configures diagram generation.
type Options struct {
	// MaxChildren limits how many children of each node are drawn.
	// Negative draws all of them.
	MaxChildren int
	// Detailed adds positions and scales to labels.
	Detailed bool
}

// ToDOT converts the tree under root to Graphviz DOT.
func ToDOT(root *scene.Node, opts Options) string {
	if opts.MaxChildren == 0 {
		opts.MaxChildren = DefaultMaxChildren
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if root != nil {
		w := dotWriter{buf: &buf, opts: opts}
		w.node(root)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf    *bytes.Buffer
	opts   Options
	elided int
}

func (w *dotWriter) node(n *scene.Node) {
	fmt.Fprintf(w.buf, "  %q [%s];\n", n.ID, strings.Join(attrs(n, w.opts.Detailed), ", "))

	children := n.Children()
	shown := children
	if w.opts.MaxChildren > 0 && len(children) > w.opts.MaxChildren {
		shown = children[:w.opts.MaxChildren]
	}
	for _, c := range shown {
		w.node(c)
		fmt.Fprintf(w.buf, "  %q -> %q;\n", n.ID, c.ID)
	}
	if rest := len(children) - len(shown); rest > 0 {
		id := "elided-" + strconv.Itoa(w.elided)
		w.elided++
		fmt.Fprintf(w.buf, "  %q [label=%q, style=\"rounded,dashed\"];\n", id, fmt.Sprintf("+%d more", rest))
		fmt.Fprintf(w.buf, "  %q -> %q [style=dashed];\n", n.ID, id)
	}
}

func attrs(n *scene.Node, detailed bool) []string {
	label := n.Name
	if detailed {
		label += fmt.Sprintf("\npos (%.3g, %.3g, %.3g)\nscale %.3g", n.Position.X, n.Position.Y, n.Position.Z, n.Scale.X)
	}
	out := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Renderable() == nil && n.ChildCount() > 0:
		out = append(out, "shape=folder", "fillcolor=lightgrey")
	case n.Renderable() == nil:
		out = append(out, "style=\"rounded,dashed\"")
	}
	if c, ok := n.Color(); ok {
		out = append(out, fmt.Sprintf("fillcolor=%q", c.Hex()))
	}
	return out
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's pt-sized root element with a plain
// pixel frame.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
