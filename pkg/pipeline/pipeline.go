// Package pipeline provides the contract → render pipeline shared by the
// CLI and the HTTP API.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Contract: run heavy-edge contraction on a weighted graph
//  2. Render: draw the quotient graph of a mapping (SVG, DOT, PDF, PNG)
//
// Both stages are cached. Contraction is deterministic, so the cache key is
// the graph's content hash plus the options that affect the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Contract(ctx, g, pipeline.Options{Iterations: 3})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg, err := runner.Render(ctx, g, res.Mapping, pipeline.RenderOptions{Format: pipeline.FormatSVG})
package pipeline

import (
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/coarsen/pkg/cache"
	"github.com/matzehuels/coarsen/pkg/contract"
	errs "github.com/matzehuels/coarsen/pkg/errors"
	"github.com/matzehuels/coarsen/pkg/graph"
)

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultIterations is the number of contraction rounds when none is given.
	DefaultIterations = 1

	// DefaultScale is the PNG resolution multiplier.
	DefaultScale = 2.0
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
	FormatPDF = "pdf"
	FormatPNG = "png"
)

// Formats lists the supported render formats.
var Formats = []string{FormatSVG, FormatDOT, FormatPDF, FormatPNG}

// =============================================================================
// Options
// =============================================================================

// Options configures the contract stage.
type Options struct {
	// Iterations is the number of contraction rounds. Must be >= 0.
	Iterations int

	// Levels records the mapping after every round.
	Levels bool

	// Refresh bypasses the cache read; the fresh result is still stored.
	Refresh bool

	// TTL overrides cache.TTLContraction when positive.
	TTL time.Duration

	// Logger receives progress messages. Defaults to the runner's logger.
	Logger *log.Logger
}

// Validate checks option values. Negative iterations are rejected, never
// clamped, and level runs are limited to [contract.MaxLevels] rounds.
func (o Options) Validate() error {
	if err := errs.ValidateIterations(o.Iterations); err != nil {
		return err
	}
	if o.Levels && o.Iterations > contract.MaxLevels {
		return errs.New(errs.ErrCodeInvalidIterations, "levels must be <= %d, got %d", contract.MaxLevels, o.Iterations)
	}
	if o.TTL < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "ttl must not be negative, got %s", o.TTL)
	}
	return nil
}

// KeyOpts returns the options that identify a cached contraction.
func (o Options) KeyOpts() cache.ContractionKeyOpts {
	return cache.ContractionKeyOpts{Iterations: o.Iterations, Levels: o.Levels}
}

func (o Options) ttl() time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return cache.TTLContraction
}

// RenderOptions configures the render stage.
type RenderOptions struct {
	Format   string
	Detailed bool
	Scale    float64 // PNG only; defaults to DefaultScale
}

// ValidateAndSetDefaults fills defaults and checks the format.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if !slices.Contains(Formats, o.Format) {
		return errs.New(errs.ErrCodeUnsupported, "unsupported format %q (want one of %v)", o.Format, Formats)
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Scale < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "scale must be positive, got %v", o.Scale)
	}
	return nil
}

// KeyOpts returns the options that identify a cached rendering.
func (o RenderOptions) KeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{Format: o.Format, Detailed: o.Detailed}
}

// =============================================================================
// Result
// =============================================================================

// Result is the outcome of the contract stage.
type Result struct {
	// Mapping is the serializable contraction result.
	Mapping *graph.Mapping

	// GraphHash is the SHA-256 of the canonical graph JSON.
	GraphHash string

	// Rounds holds per-round statistics. Empty on cache hits.
	Rounds []contract.RoundStats

	Stats Stats
}

// Stats summarizes a contraction.
type Stats struct {
	NodeCount int
	EdgeCount int
	Clusters  int
	Duration  time.Duration
	Cached    bool
}

// Ratio returns nodes per cluster, or 0 for an empty graph.
func (s Stats) Ratio() float64 {
	if s.Clusters == 0 {
		return 0
	}
	return float64(s.NodeCount) / float64(s.Clusters)
}

// newMapping converts an engine result into its serialization format.
func newMapping(n int, opts Options, res *contract.Result) *graph.Mapping {
	return &graph.Mapping{
		NodeCount:  n,
		Iterations: opts.Iterations,
		Rounds:     len(res.Rounds),
		Clusters:   res.Clusters,
		Mapping:    res.Mapping,
		Levels:     res.Levels,
	}
}

// checkMapping guards against cache entries that do not fit the graph.
func checkMapping(m *graph.Mapping, n int, opts Options) error {
	if m.NodeCount != n || m.Iterations != opts.Iterations {
		return fmt.Errorf("cached mapping for %d nodes/%d iterations, want %d/%d",
			m.NodeCount, m.Iterations, n, opts.Iterations)
	}
	if opts.Levels && m.Levels == nil {
		return fmt.Errorf("cached mapping has no levels")
	}
	return nil
}
