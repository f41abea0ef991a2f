package contract

import (
	"cmp"
	"slices"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Conn is one endpoint's view of an undirected edge: the neighbour's index
// and the edge weight.
type Conn struct {
	Index  int
	Weight float64
}

// Table holds one adjacency list per node, each sorted ascending by
// [Conn.Index]. Before contraction it is symmetric: if a's list holds
// Conn{b, w} then b's list holds Conn{a, w}.
type Table [][]Conn

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for i, adj := range t {
		out[i] = slices.Clone(adj)
	}
	return out
}

// Source is the read-only view of a graph the extractor consumes.
// EachEdge must report every undirected edge exactly once with endpoints in
// [0, NodeCount()). The graph must not be mutated while EachEdge runs.
type Source interface {
	NodeCount() int
	EachEdge(fn func(a, b int, weight float64))
}

// Extract builds the sorted adjacency table of g. Each edge is appended to
// both endpoints' lists; duplicate edges stay separate entries. Nodes without
// edges get an empty list.
//
// Edge endpoints outside [0, NodeCount()) and non-finite weights are
// rejected.
func Extract(g Source) (Table, error) {
	n := g.NodeCount()
	if err := errs.ValidateNodeCount(n); err != nil {
		return nil, err
	}

	table := make(Table, n)
	var bad error
	g.EachEdge(func(a, b int, w float64) {
		if bad != nil {
			return
		}
		if err := errs.ValidateIndex(a, n); err != nil {
			bad = err
			return
		}
		if err := errs.ValidateIndex(b, n); err != nil {
			bad = err
			return
		}
		if err := errs.ValidateWeight(w); err != nil {
			bad = err
			return
		}
		table[a] = append(table[a], Conn{Index: b, Weight: w})
		table[b] = append(table[b], Conn{Index: a, Weight: w})
	})
	if bad != nil {
		return nil, bad
	}

	for i := range table {
		sortConns(table[i])
	}
	return table, nil
}

// Merge merges two adjacency lists sorted ascending by index into one.
// Entries for the same neighbour are combined into a single entry whose
// weight is the sum of both.
func Merge(a, b []Conn) []Conn {
	out := make([]Conn, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b):
			out = append(out, a[i])
			i++
		case i == len(a):
			out = append(out, b[j])
			j++
		case a[i].Index < b[j].Index:
			out = append(out, a[i])
			i++
		case a[i].Index > b[j].Index:
			out = append(out, b[j])
			j++
		default:
			out = append(out, Conn{Index: a[i].Index, Weight: a[i].Weight + b[j].Weight})
			i++
			j++
		}
	}
	return out
}

// RemoveSelfLoops returns the entries of adj whose neighbour is not in the
// same set as repr under uf's current state. It must run after a round's
// unions so that freshly absorbed neighbours are dropped.
func RemoveSelfLoops(repr int, adj []Conn, uf *UnionFind) []Conn {
	root := uf.Find(repr)
	out := make([]Conn, 0, len(adj))
	for _, c := range adj {
		if uf.Find(c.Index) != root {
			out = append(out, c)
		}
	}
	return out
}

// heaviest returns the neighbour of v with the strictly greatest weight.
// Ties go to the first entry, i.e. the lowest neighbour index. With no
// positive-weight neighbour v selects itself.
func heaviest(v int, adj []Conn) int {
	best := Conn{Index: v, Weight: 0}
	for _, c := range adj {
		if c.Weight > best.Weight {
			best = c
		}
	}
	return best.Index
}

func sortConns(adj []Conn) {
	slices.SortStableFunc(adj, func(a, b Conn) int {
		return cmp.Compare(a.Index, b.Index)
	})
}
