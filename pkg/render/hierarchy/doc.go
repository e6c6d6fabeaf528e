// Package hierarchy draws the scene graph of a generated map as a
// node-link diagram.
//
// Maps grow quickly (a 3-layer map of 9 cells per subdivision already holds
// 819 tiles), so [ToDOT] elides children past [Options.MaxChildren] and
// replaces them with a single summary node:
//
//	dot := hierarchy.ToDOT(root, hierarchy.Options{MaxChildren: 4})
//	svg, err := hierarchy.RenderSVG(ctx, dot)
//
// Layer containers are drawn as folders, painted tiles are filled with their
// tint.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package hierarchy
