package graph

import (
	"fmt"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Quotient builds the coarse graph induced by a dense cluster mapping.
// Cluster c becomes node c; its size is the summed size of its members and
// its label that of its lowest-indexed labelled member. Edge weights
// between clusters are summed in ascending pair order, so the result is
// reproducible bit for bit; edges inside a cluster are dropped, as are
// cluster pairs whose weights cancel to zero.
//
// mapping must have one entry per node with values forming [0, K).
func (g *Graph) Quotient(mapping []int) (*Graph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	n := len(g.labels)
	if len(mapping) != n {
		return nil, errs.New(errs.ErrCodeInvalidMapping, "mapping has %d entries, graph has %d nodes", len(mapping), n)
	}
	k, err := denseCount(mapping)
	if err != nil {
		return nil, err
	}

	q := New(k)
	for i := range q.sizes {
		q.sizes[i] = 0
	}
	for v, c := range mapping {
		q.sizes[c] += g.sizes[v]
		if q.labels[c] == "" {
			q.labels[c] = g.labels[v]
		}
	}
	for _, p := range g.sortedPairs() {
		ca, cb := mapping[p.a], mapping[p.b]
		if ca == cb {
			continue
		}
		q.weights[newPair(ca, cb)] += g.weights[p]
	}
	for p, w := range q.weights {
		if w == 0 {
			delete(q.weights, p)
		}
	}
	return q, nil
}

// denseCount checks that mapping's values form exactly [0, K) and returns K.
func denseCount(mapping []int) (int, error) {
	k := 0
	for v, c := range mapping {
		if c < 0 {
			return 0, errs.New(errs.ErrCodeInvalidMapping, "node %d has negative cluster %d", v, c)
		}
		k = max(k, c+1)
	}
	seen := make([]bool, k)
	for _, c := range mapping {
		seen[c] = true
	}
	for c, ok := range seen {
		if !ok {
			return 0, errs.New(errs.ErrCodeInvalidMapping, "cluster %d has no members", c)
		}
	}
	return k, nil
}

// ClusterLabel formats the display label of quotient node c.
func (g *Graph) ClusterLabel(c int) string {
	label := g.Label(c)
	if label == "" {
		label = fmt.Sprintf("c%d", c)
	}
	if size := g.Size(c); size > 1 {
		return fmt.Sprintf("%s (%d)", label, size)
	}
	return label
}
