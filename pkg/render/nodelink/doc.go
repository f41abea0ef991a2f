// Package nodelink renders weighted graphs as node-link diagrams.
//
// # Overview
//
// The usual input is a quotient graph built from a contraction mapping:
// every node is a cluster, every edge the summed weight between two
// clusters. Heavier edges are drawn thicker and larger clusters as larger
// circles, so the structure the contraction found is visible at a glance.
//
// # Usage
//
//	q, err := g.Quotient(mapping)
//	dot := nodelink.ToDOT(q, nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # DOT Format
//
// [ToDOT] produces an undirected graph laid out left to right. Nodes are named
// n0, n1, ... after their cluster index; labels come from
// [graph.Graph.ClusterLabel].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
