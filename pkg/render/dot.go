package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	symio "github.com/matzehuels/symtower/pkg/io"
)

// Options configures diagram generation.
type Options struct {
	// Generators draws generators as nodes linked to the variables they
	// move. When false, the cycles of each generator are drawn as edges.
	Generators bool
	// Constraints lists the synthesized constraints in cluster labels.
	Constraints bool
}

var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ToDOT converts a report to Graphviz DOT source. Variables outside every
// component are not drawn.
func ToDOT(r *symio.Report, opts Options) string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "graph %q {\n", r.Model)
	buf.WriteString("  layout=fdp;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("  edge [penwidth=1.5];\n")
	buf.WriteString("\n")

	conss := constraintsByComponent(r)
	for _, c := range r.Components {
		fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", c.Index)
		label := fmt.Sprintf("component %d", c.Index)
		if opts.Constraints && len(conss[c.Index]) > 0 {
			label += "\n" + strings.Join(conss[c.Index], "\n")
		}
		fmt.Fprintf(&buf, "    label=%q;\n", label)
		if c.Blocked {
			buf.WriteString("    style=dashed;\n")
		}
		for _, v := range c.Vars {
			fmt.Fprintf(&buf, "    %q;\n", v)
		}
		if opts.Generators {
			for _, p := range c.Generators {
				fmt.Fprintf(&buf, "    %q [shape=box, label=%q, fillcolor=%q];\n", genID(p), fmt.Sprintf("g%d", p), color(p))
			}
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for p, cycles := range r.Generators {
		for _, cyc := range cycles {
			if opts.Generators {
				for _, v := range cyc {
					fmt.Fprintf(&buf, "  %q -- %q [color=%q];\n", genID(p), v, color(p))
				}
				continue
			}
			writeCycle(&buf, cyc, p)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// writeCycle draws a 2-cycle as one edge and longer cycles as closed paths.
func writeCycle(buf *bytes.Buffer, cyc []string, p int) {
	n := len(cyc)
	if n == 2 {
		n = 1
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(buf, "  %q -- %q [color=%q, tooltip=%q];\n", cyc[i], cyc[(i+1)%len(cyc)], color(p), fmt.Sprintf("g%d", p))
	}
}

func genID(p int) string { return fmt.Sprintf("g%d", p) }

func color(p int) string { return palette[p%len(palette)] }

func constraintsByComponent(r *symio.Report) map[int][]string {
	out := make(map[int][]string)
	for _, c := range r.Constraints {
		out[c.Component] = append(out[c.Component], fmt.Sprintf("%s %s", c.Kind, c.Name))
	}
	return out
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
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

	gv.SetLayout(graphviz.FDP)
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

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return ToPDF(svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return ToPNG(svg, scale)
}
