// Package contract coarsens weighted, undirected graphs by iterated
// heavy-edge contraction.
//
// # Overview
//
// Each round, every active cluster representative (a "participant") picks
// the neighbour it shares the heaviest edge with, and the two are united in
// a disjoint-set. Because unions compose transitively, chains of choices
// (a picks b, b picks c) collapse into one cluster within a single round.
// The adjacency lists of absorbed nodes are then merged into their
// representative's list, parallel edges summed and edges that now point
// inside the cluster dropped.
//
// After the requested number of rounds, representatives are renumbered
// densely so that cluster ids ascend with each cluster's smallest member:
// the cluster containing node 0 is always cluster 0.
//
// # Usage
//
// Any type with a node count and an edge enumeration can be contracted:
//
//	mapping, err := contract.Contract(g, 3)
//	// mapping[i] is the cluster id of node i
//
// For unit tests or callers that already hold adjacency lists:
//
//	table := contract.Table{
//	    {{Index: 1, Weight: 5}},
//	    {{Index: 0, Weight: 5}},
//	}
//	mapping, err := contract.ContractTable(2, table, 1)
//
// [Hierarchy] returns the mapping after every round in one pass, and [Run]
// exposes per-round statistics.
//
// # Errors
//
// Negative node or iteration counts, out-of-range indices and non-finite
// weights are rejected with codes from [github.com/matzehuels/coarsen/pkg/errors]
// before any work is done. There are no partial results.
//
// # Concurrency
//
// Every call owns its tables exclusively. Calls on independent inputs may
// run concurrently; the source graph must not change while it is extracted.
package contract
