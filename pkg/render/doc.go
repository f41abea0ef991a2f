// Package render turns contraction results into pictures.
//
// # Format Conversion
//
// The [ToPDF] and [ToPNG] functions convert any SVG to other formats using
// the external rsvg-convert tool (from librsvg).
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// # Node-Link Diagrams
//
// The [nodelink] subpackage draws a quotient graph with Graphviz: one node
// per cluster, one edge per pair of adjacent clusters.
//
// [nodelink]: github.com/matzehuels/coarsen/pkg/render/nodelink
package render
