package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/coarsen/pkg/graph"
	"github.com/matzehuels/coarsen/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds cluster size and degree to node labels and the weight
	// to edge labels. When false, only the cluster label is shown.
	Detailed bool
}

// Edge widths are scaled linearly into [minPenWidth, maxPenWidth] by the
// absolute edge weight relative to the heaviest edge.
const (
	minPenWidth = 1.0
	maxPenWidth = 5.0
)

// ToDOT converts a weighted graph, usually a quotient graph, to Graphviz DOT.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Nodes are named n0..nK-1 and labelled with [graph.Graph.ClusterLabel];
// nodes standing for more than one original node are drawn larger.
func ToDOT(g *graph.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=white, fontsize=14];\n")
	buf.WriteString("\n")

	for i := 0; i < g.NodeCount(); i++ {
		attrs := fmtNodeAttrs(g, i, opts.Detailed)
		fmt.Fprintf(&buf, "  n%d [%s];\n", i, strings.Join(attrs, ", "))
	}

	edges := g.Edges()
	heaviest := 0.0
	for _, e := range edges {
		heaviest = max(heaviest, math.Abs(e.Weight))
	}

	buf.WriteString("\n")
	for _, e := range edges {
		attrs := []string{fmt.Sprintf("penwidth=%.2f", penWidth(e.Weight, heaviest))}
		if opts.Detailed {
			attrs = append(attrs, fmt.Sprintf("label=%q", strconv.FormatFloat(e.Weight, 'g', -1, 64)))
		}
		fmt.Fprintf(&buf, "  n%d -- n%d [%s];\n", e.A, e.B, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(g *graph.Graph, i int, detailed bool) string {
	label := g.ClusterLabel(i)
	if !detailed {
		return label
	}
	return fmt.Sprintf("%s\nsize: %d\ndegree: %d", label, g.Size(i), g.Degree(i))
}

func fmtNodeAttrs(g *graph.Graph, i int, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(g, i, detailed))}
	if size := g.Size(i); size > 1 {
		attrs = append(attrs, fmt.Sprintf("width=%.2f", 0.5+0.25*math.Sqrt(float64(size))), "fillcolor=lightblue")
	}
	return attrs
}

func penWidth(w, heaviest float64) float64 {
	if heaviest == 0 {
		return minPenWidth
	}
	return minPenWidth + (maxPenWidth-minPenWidth)*math.Abs(w)/heaviest
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
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

// normalizeViewBox rewrites the root tag so the drawing starts at the
// origin and scales with its container.
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

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
