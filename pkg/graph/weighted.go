package graph

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Graph is an in-memory weighted, undirected graph over dense node indices
// [0, NodeCount()). It holds at most one edge per unordered node pair and
// no self-loops; adding an edge that already exists accumulates its weight.
//
// Graph satisfies contract.Source. All methods are safe for concurrent use;
// EachEdge holds a read lock for its whole duration, so a contraction sees a
// consistent snapshot and callbacks must not mutate the graph.
type Graph struct {
	mu      sync.RWMutex
	labels  []string
	sizes   []int
	weights map[pair]float64
}

// pair is an unordered node pair stored with a < b.
type pair struct{ a, b int }

func newPair(a, b int) pair {
	if a > b {
		a, b = b, a
	}
	return pair{a, b}
}

// New creates a graph with n unlabelled nodes and no edges.
func New(n int) *Graph {
	g := &Graph{
		labels:  make([]string, n),
		sizes:   make([]int, n),
		weights: make(map[pair]float64),
	}
	for i := range g.sizes {
		g.sizes[i] = 1
	}
	return g
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.labels)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.weights)
}

// AddNode appends a node and returns its index.
func (g *Graph) AddNode(label string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.labels = append(g.labels, label)
	g.sizes = append(g.sizes, 1)
	return len(g.labels) - 1
}

// Label returns the label of node i, or "" if it has none.
func (g *Graph) Label(i int) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.labels) {
		return ""
	}
	return g.labels[i]
}

// SetLabel sets the display label of node i.
func (g *Graph) SetLabel(i int, label string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := errs.ValidateIndex(i, len(g.labels)); err != nil {
		return err
	}
	g.labels[i] = label
	return nil
}

// Size returns how many original nodes node i stands for. It is 1 for every
// node of a freshly built graph and the member count for quotient graphs.
func (g *Graph) Size(i int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if i < 0 || i >= len(g.sizes) {
		return 0
	}
	return g.sizes[i]
}

// AddEdge adds weight w to the edge {a, b}, creating it if needed.
// Like [Graph.SetWeight], an edge whose weight ends up zero is removed.
func (g *Graph) AddEdge(a, b int, w float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.validateEdge(a, b, w); err != nil {
		return err
	}
	g.setWeight(a, b, g.weights[newPair(a, b)]+w)
	return nil
}

// SetWeight sets the weight of edge {a, b}, creating it if needed.
// A zero weight removes the edge.
func (g *Graph) SetWeight(a, b int, w float64) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.validateEdge(a, b, w); err != nil {
		return err
	}
	g.setWeight(a, b, w)
	return nil
}

// RemoveEdge deletes edge {a, b}. Removing a missing edge is a no-op.
func (g *Graph) RemoveEdge(a, b int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.weights, newPair(a, b))
}

// EdgeWeight returns the weight of edge {a, b} and whether it exists.
func (g *Graph) EdgeWeight(a, b int) (float64, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	w, ok := g.weights[newPair(a, b)]
	return w, ok
}

// Edges returns all edges ordered by (A, B) with A < B.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	keys := g.sortedPairs()
	out := make([]Edge, len(keys))
	for i, p := range keys {
		out[i] = Edge{A: p.a, B: p.b, Weight: g.weights[p]}
	}
	return out
}

// EachEdge calls fn once per edge in the same order as [Graph.Edges].
func (g *Graph) EachEdge(fn func(a, b int, weight float64)) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, p := range g.sortedPairs() {
		fn(p.a, p.b, g.weights[p])
	}
}

// Degree returns the number of edges incident to node i.
func (g *Graph) Degree(i int) int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	d := 0
	for p := range g.weights {
		if p.a == i || p.b == i {
			d++
		}
	}
	return d
}

// Clone returns a deep copy of g.
func (g *Graph) Clone() *Graph {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return &Graph{
		labels:  slices.Clone(g.labels),
		sizes:   slices.Clone(g.sizes),
		weights: maps.Clone(g.weights),
	}
}

// =============================================================================
// Internal Helpers
// =============================================================================

func (g *Graph) validateEdge(a, b int, w float64) error {
	n := len(g.labels)
	if err := errs.ValidateIndex(a, n); err != nil {
		return err
	}
	if err := errs.ValidateIndex(b, n); err != nil {
		return err
	}
	if a == b {
		return errs.New(errs.ErrCodeInvalidIndex, "self-loop on node %d", a)
	}
	return errs.ValidateWeight(w)
}

func (g *Graph) setWeight(a, b int, w float64) {
	if w == 0 {
		delete(g.weights, newPair(a, b))
		return
	}
	g.weights[newPair(a, b)] = w
}

func (g *Graph) sortedPairs() []pair {
	keys := slices.Collect(maps.Keys(g.weights))
	slices.SortFunc(keys, func(x, y pair) int {
		if c := cmp.Compare(x.a, y.a); c != 0 {
			return c
		}
		return cmp.Compare(x.b, y.b)
	})
	return keys
}
