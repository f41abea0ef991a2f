package graph

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// File formats understood by [ReadFile].
const (
	FormatJSON     = "json"
	FormatEdgeList = "edgelist"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// MarshalGraph converts a Graph to JSON bytes.
// Edges are sorted for deterministic output, so equal graphs hash equally.
func MarshalGraph(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeGraphTo(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraphFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteGraphFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeGraphTo(g, f)
}

// WriteGraph writes a Graph as JSON to an io.Writer.
func WriteGraph(g *Graph, w io.Writer) error {
	return writeGraphTo(g, w)
}

// ReadGraph decodes a JSON graph from an io.Reader.
func ReadGraph(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode graph")
	}
	return FromDocument(doc)
}

// ReadGraphFile reads a JSON graph file.
func ReadGraphFile(path string) (*Graph, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadGraph(f)
}

// ReadFile reads a graph file, picking the format from the extension:
// ".json" is decoded as a [Document], anything else as an edge list.
func ReadFile(path string) (*Graph, error) {
	if DetectFormat(path) == FormatJSON {
		return ReadGraphFile(path)
	}
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadEdgeList(f)
}

// DetectFormat returns the graph format implied by path's extension.
func DetectFormat(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatEdgeList
}

// ReadEdgeList parses a whitespace-separated edge list:
//
//	# comment
//	nodes 5      (optional, fixes the node count)
//	0 1 2.5
//	1 2          (weight defaults to 1)
//
// Without a "nodes" line the node count is the largest index plus one.
func ReadEdgeList(r io.Reader) (*Graph, error) {
	var (
		edges []Edge
		n     = -1
		line  int
	)

	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") || strings.HasPrefix(text, "%") {
			continue
		}
		fields := strings.Fields(text)

		if fields[0] == "nodes" {
			if len(fields) != 2 {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: want \"nodes <count>\"", line)
			}
			v, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: node count", line)
			}
			if err := errs.ValidateNodeCount(v); err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			n = v
			continue
		}

		if len(fields) < 2 || len(fields) > 3 {
			return nil, errs.New(errs.ErrCodeInvalidFormat, "line %d: want \"a b [weight]\", got %q", line, text)
		}
		a, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: endpoint", line)
		}
		b, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: endpoint", line)
		}
		w := 1.0
		if len(fields) == 3 {
			if w, err = strconv.ParseFloat(fields[2], 64); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "line %d: weight", line)
			}
		}
		edges = append(edges, Edge{A: a, B: b, Weight: w})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read edge list: %w", err)
	}

	if n < 0 {
		n = 0
		for _, e := range edges {
			n = max(n, e.A+1, e.B+1)
		}
		if err := errs.ValidateNodeCount(n); err != nil {
			return nil, fmt.Errorf("inferred from endpoints: %w", err)
		}
	}
	g := New(n)
	for _, e := range edges {
		if err := g.AddEdge(e.A, e.B, e.Weight); err != nil {
			return nil, fmt.Errorf("add edge %d-%d: %w", e.A, e.B, err)
		}
	}
	return g, nil
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeGraphTo(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ToDocument(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}
