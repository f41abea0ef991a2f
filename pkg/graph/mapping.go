package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Mapping is the serialization format for a contraction result.
// Mapping[i] is the cluster of node i; Levels, when present, holds the
// mapping after every round from 0 to Iterations. Rounds counts the rounds
// actually executed, which is less than Iterations when the contraction
// reached a fixpoint early.
type Mapping struct {
	NodeCount  int     `json:"node_count" bson:"node_count"`
	Iterations int     `json:"iterations" bson:"iterations"`
	Rounds     int     `json:"rounds" bson:"rounds"`
	Clusters   int     `json:"clusters" bson:"clusters"`
	Mapping    []int   `json:"mapping" bson:"mapping"`
	Levels     [][]int `json:"levels,omitempty" bson:"levels,omitempty"`
}

// Validate checks the mapping's internal consistency.
func (m *Mapping) Validate() error {
	if len(m.Mapping) != m.NodeCount {
		return errs.New(errs.ErrCodeInvalidMapping, "mapping has %d entries, want %d", len(m.Mapping), m.NodeCount)
	}
	k, err := denseCount(m.Mapping)
	if err != nil {
		return err
	}
	if k != m.Clusters {
		return errs.New(errs.ErrCodeInvalidMapping, "mapping has %d clusters, header says %d", k, m.Clusters)
	}
	if m.Rounds < 0 || m.Rounds > m.Iterations {
		return errs.New(errs.ErrCodeInvalidMapping, "rounds %d outside [0, %d]", m.Rounds, m.Iterations)
	}
	if m.Levels == nil {
		return nil
	}
	if len(m.Levels) != m.Iterations+1 {
		return errs.New(errs.ErrCodeInvalidMapping, "have %d levels, want %d", len(m.Levels), m.Iterations+1)
	}
	for i, level := range m.Levels {
		if len(level) != m.NodeCount {
			return errs.New(errs.ErrCodeInvalidMapping, "level %d has %d entries, want %d", i, len(level), m.NodeCount)
		}
		if _, err := denseCount(level); err != nil {
			return fmt.Errorf("level %d: %w", i, err)
		}
	}
	if last := m.Levels[len(m.Levels)-1]; !slices.Equal(last, m.Mapping) {
		return errs.New(errs.ErrCodeInvalidMapping, "last level differs from the mapping")
	}
	return nil
}

// MarshalMapping converts a Mapping to JSON bytes.
func MarshalMapping(m *Mapping) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteMapping(m, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteMapping writes a Mapping as indented JSON.
func WriteMapping(m *Mapping, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteMappingFile writes a Mapping to a JSON file.
func WriteMappingFile(m *Mapping, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteMapping(m, f)
}

// ReadMapping decodes and validates a Mapping.
func ReadMapping(r io.Reader) (*Mapping, error) {
	var m Mapping
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode mapping")
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// ReadMappingFile reads a Mapping from a JSON file.
func ReadMappingFile(path string) (*Mapping, error) {
	f, err := openFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadMapping(f)
}
