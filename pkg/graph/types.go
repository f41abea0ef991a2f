package graph

import (
	"encoding/json"
	"fmt"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// =============================================================================
// Document - Graph Serialization
// =============================================================================

// Document is the canonical serialization format for weighted graphs.
// Used for files, API requests, caching and the Mongo store.
//
// Nodes may be omitted when they carry no label. NodeCount fixes the index
// space; when it is zero the space is inferred from the node and edge IDs.
type Document struct {
	NodeCount int    `json:"node_count,omitempty" bson:"node_count,omitempty"`
	Nodes     []Node `json:"nodes,omitempty" bson:"nodes,omitempty"`
	Edges     []Edge `json:"edges" bson:"edges"`
}

// Node carries the optional attributes of one node.
type Node struct {
	ID    int    `json:"id" bson:"id"`
	Label string `json:"label,omitempty" bson:"label,omitempty"`
	Size  int    `json:"size,omitempty" bson:"size,omitempty"` // member count for quotient graphs
}

// Edge is one undirected weighted edge.
type Edge struct {
	A      int     `json:"a" bson:"a"`
	B      int     `json:"b" bson:"b"`
	Weight float64 `json:"weight" bson:"weight"`
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// ToDocument converts a Graph to its serialization format.
// Nodes are only listed when they have a label or a size other than 1.
// Edges are sorted by (A, B).
func ToDocument(g *Graph) Document {
	g.mu.RLock()
	n := len(g.labels)
	var nodes []Node
	for i := 0; i < n; i++ {
		if g.labels[i] == "" && g.sizes[i] == 1 {
			continue
		}
		node := Node{ID: i, Label: g.labels[i]}
		if g.sizes[i] != 1 {
			node.Size = g.sizes[i]
		}
		nodes = append(nodes, node)
	}
	g.mu.RUnlock()

	edges := g.Edges()
	if edges == nil {
		edges = []Edge{}
	}
	return Document{NodeCount: n, Nodes: nodes, Edges: edges}
}

// FromDocument converts a Document to a Graph.
// A zero NodeCount is inferred from the largest node or edge index. Either
// way the count is limited to [errs.MaxNodeCount].
// Returns an error for out-of-range IDs, self-loops or non-finite weights.
// Repeated edges between the same pair accumulate.
func FromDocument(doc Document) (*Graph, error) {
	n := doc.NodeCount
	if err := errs.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if n == 0 {
		for _, nd := range doc.Nodes {
			n = max(n, nd.ID+1)
		}
		for _, e := range doc.Edges {
			n = max(n, e.A+1, e.B+1)
		}
		if err := errs.ValidateNodeCount(n); err != nil {
			return nil, fmt.Errorf("inferred from ids: %w", err)
		}
	}

	g := New(n)
	for _, nd := range doc.Nodes {
		if err := errs.ValidateIndex(nd.ID, n); err != nil {
			return nil, fmt.Errorf("node %d: %w", nd.ID, err)
		}
		g.labels[nd.ID] = nd.Label
		if nd.Size > 0 {
			g.sizes[nd.ID] = nd.Size
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.A, e.B, e.Weight); err != nil {
			return nil, fmt.Errorf("add edge %d-%d: %w", e.A, e.B, err)
		}
	}
	return g, nil
}

// UnmarshalDocument deserializes JSON bytes to a Document.
func UnmarshalDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return doc, nil
}
