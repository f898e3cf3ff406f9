// Package render draws the symmetry structure of a model.
//
// # Overview
//
// The diagram shows one cluster per component of the symmetry group. Inside
// a cluster every moved variable is a node, and every generator contributes
// the edges of its cycles, colored per generator. Blocked components (those
// handled by an orbitope) are drawn with a dashed outline.
//
// # Usage
//
// Build DOT source from a report, then render it to SVG:
//
//	dot := render.ToDOT(report, render.Options{})
//	svg, err := render.RenderSVG(dot)
//
// For PDF or PNG output:
//
//	pdf, err := render.RenderPDF(dot)
//	png, err := render.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Generators: draw one node per generator connected to the variables it
//     moves, instead of cycle edges
//   - Constraints: annotate cluster labels with the synthesized constraints
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package render
