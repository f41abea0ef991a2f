// Package pkg provides the core libraries for coarsen, a heavy-edge graph
// contraction toolkit.
//
// # Overview
//
// Coarsen shrinks a weighted undirected graph by repeatedly merging every node
// with its heaviest neighbour. Each round halves the graph or better on
// typical inputs, producing a hierarchy of ever coarser cluster mappings.
//
// The data flow:
//
//	JSON document / edge list
//	         ↓
//	    [graph] (weighted graph, quotient, mapping format)
//	         ↓
//	    [contract] (union-find heavy-edge contraction)
//	         ↓
//	    [pipeline] (caching, hooks, rendering)
//	         ↓
//	    mapping JSON, SVG/DOT/PDF/PNG, HTTP responses
//
// # Quick Start
//
//	g, _ := graph.ReadFile("graph.json")
//	mapping, _ := contract.Contract(g, 2)
//	q, _ := g.Quotient(mapping)
//	svg, _ := nodelink.RenderSVG(ctx, nodelink.ToDOT(q, nodelink.Options{}))
//
// # Main Packages
//
// [contract] - The contraction engine: adjacency tables, union-find, rounds,
// and level hierarchies. Has no dependencies outside the standard library.
//
// [graph] - The weighted graph type, its JSON document and edge-list formats,
// batched weight updates, quotient graphs, modularity and the mapping format.
//
// [pipeline] - Contract and render with result caching and observability
// hooks. Shared by the CLI and the HTTP server.
//
// [cache] - Result cache backends: file, Badger, Redis, MongoDB and null.
//
// [render/nodelink] - Quotient graph drawings via Graphviz.
//
// [server] - The HTTP API.
//
// [config] - TOML configuration file.
//
// [errors] - Coded errors shared by every package.
//
// [observability] - Hooks for metrics and tracing.
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test -run Example ./... # Examples only
//
// [contract]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/contract
// [graph]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/cache
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/render/nodelink
// [server]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/coarsen/pkg/observability
package pkg
