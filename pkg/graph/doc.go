// Package graph provides the weighted, undirected graph that coarsen
// contracts, together with its serialization formats.
//
// # Architecture
//
// The package sits at the boundary between the contraction engine and the
// outside world:
//
//   - [Graph]: thread-safe in-memory graph; satisfies contract.Source
//   - [Document]: JSON/BSON wire format for graphs
//   - [Mapping]: JSON/BSON wire format for contraction results
//
// Use [ToDocument]/[FromDocument] to convert between them.
//
// # Graph Serialization
//
// Graphs use a compact JSON format. Nodes are only listed when they carry a
// label or a cluster size:
//
//	{
//	  "node_count": 4,
//	  "nodes": [{"id": 0, "label": "x1"}],
//	  "edges": [{"a": 0, "b": 1, "weight": 5}, {"a": 2, "b": 3, "weight": 5}]
//	}
//
// Plain edge lists (one "a b [weight]" per line) are read by [ReadEdgeList];
// [ReadFile] picks the format from the file extension.
//
// # Coarse Graphs
//
// [Graph.Quotient] turns a cluster mapping into the coarse graph: one node
// per cluster, parallel edges summed, intra-cluster edges dropped. Node
// sizes record how many original nodes each coarse node stands for, so
// quotients of quotients keep counting original nodes.
//
// # Weight Updates
//
// [WeightUpdate] batches edge weight changes. [Graph.ApplyWeightUpdate]
// validates the whole batch before touching the graph.
package graph
