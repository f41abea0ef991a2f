package graph

import (
	"fmt"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// WeightChange sets the weight of one edge.
type WeightChange struct {
	A      int     `json:"a"`
	B      int     `json:"b"`
	Weight float64 `json:"weight"`
}

// WeightUpdate is a batch of edge weight changes applied atomically.
type WeightUpdate struct {
	Values []WeightChange `json:"values"`
}

// Add appends a change to the batch.
func (u *WeightUpdate) Add(a, b int, w float64) {
	u.Values = append(u.Values, WeightChange{A: a, B: b, Weight: w})
}

// ApplyWeightUpdate applies every change in u: each edge's weight is set,
// the edge created if missing, and removed when the new weight is zero.
// Later changes to the same edge win. The batch is validated first; an
// invalid change leaves the graph untouched.
func (g *Graph) ApplyWeightUpdate(u WeightUpdate) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i, c := range u.Values {
		if err := g.validateEdge(c.A, c.B, c.Weight); err != nil {
			return fmt.Errorf("change %d: %w", i, err)
		}
	}
	for _, c := range u.Values {
		g.setWeight(c.A, c.B, c.Weight)
	}
	return nil
}

// Resize grows the graph to n nodes. Shrinking is not supported.
func (g *Graph) Resize(n int) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n < len(g.labels) {
		return errs.New(errs.ErrCodeInvalidNodeCount, "cannot shrink graph from %d to %d nodes", len(g.labels), n)
	}
	if err := errs.ValidateNodeCount(n); err != nil {
		return err
	}
	for len(g.labels) < n {
		g.labels = append(g.labels, "")
		g.sizes = append(g.sizes, 1)
	}
	return nil
}
