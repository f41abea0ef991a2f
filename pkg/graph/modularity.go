package graph

import (
	gonum "gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/community"
	"gonum.org/v1/gonum/graph/simple"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Modularity returns the Newman modularity Q of the partition given by a
// dense cluster mapping, with resolution 1. Higher is better; a single
// cluster scores 0, as does a graph without edge weight.
//
// Modularity is undefined for negative weights, which are rejected with
// INVALID_WEIGHT.
func (g *Graph) Modularity(mapping []int) (float64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := len(g.labels)
	if len(mapping) != n {
		return 0, errs.New(errs.ErrCodeInvalidMapping, "mapping has %d entries, graph has %d nodes", len(mapping), n)
	}
	k, err := denseCount(mapping)
	if err != nil {
		return 0, err
	}
	wg := simple.NewWeightedUndirectedGraph(0, 0)
	for v := 0; v < n; v++ {
		wg.AddNode(simple.Node(v))
	}
	total := 0.0
	for _, p := range g.sortedPairs() {
		w := g.weights[p]
		if w < 0 {
			return 0, errs.New(errs.ErrCodeInvalidWeight, "modularity needs non-negative weights, edge %d-%d has %v", p.a, p.b, w)
		}
		wg.SetWeightedEdge(wg.NewWeightedEdge(simple.Node(p.a), simple.Node(p.b), w))
		total += w
	}
	if total == 0 {
		return 0, nil
	}

	communities := make([][]gonum.Node, k)
	for v, c := range mapping {
		communities[c] = append(communities[c], simple.Node(v))
	}
	return community.Q(wg, communities, 1), nil
}
