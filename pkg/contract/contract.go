package contract

import (
	"slices"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

// Bounds for runs that record every level. Each round at least halves the
// number of clusters that still have a positive-weight neighbour, so real
// hierarchies converge well within MaxLevels.
const (
	// MaxLevels is the largest Iterations accepted together with Levels.
	MaxLevels = 64

	// MaxLevelEntries caps (Iterations+1) * node count for level runs.
	MaxLevelEntries = 1 << 26
)

// Options configures a contraction run.
type Options struct {
	// Iterations is the number of match/union/merge rounds. Must be >= 0.
	// Zero yields the identity partition.
	Iterations int

	// Levels records the mapping after every round in [Result.Levels].
	// Iterations is then limited to [MaxLevels] and the recorded entries
	// to [MaxLevelEntries].
	Levels bool

	// Observer, if set, is called after every executed round.
	Observer func(RoundStats)
}

// RoundStats describes one executed round.
type RoundStats struct {
	Round        int `json:"round"`        // 1-based round number
	Participants int `json:"participants"` // representatives entering the round
	Unions       int `json:"unions"`       // successful merges during the round
	Clusters     int `json:"clusters"`     // clusters after the round
}

// Result is the outcome of a contraction run.
type Result struct {
	// Mapping[i] is the dense cluster id of node i, in [0, Clusters).
	Mapping []int

	// Clusters is the number of clusters in Mapping.
	Clusters int

	// Rounds holds one entry per executed round. Rounds stop early once a
	// round merges nothing, since every later round would be identical.
	Rounds []RoundStats

	// Levels[i] is the mapping after i rounds, for i in [0, Iterations].
	// Only set when Options.Levels is true.
	Levels [][]int
}

// Contract coarsens g for the given number of rounds and returns the dense
// cluster id of every node.
func Contract(g Source, iterations int) ([]int, error) {
	res, err := Run(g, Options{Iterations: iterations})
	if err != nil {
		return nil, err
	}
	return res.Mapping, nil
}

// ContractTable is [Contract] over a precomputed adjacency table with one
// entry per node. The table is copied, never mutated, and need not be
// sorted.
func ContractTable(n int, table Table, iterations int) ([]int, error) {
	res, err := RunTable(n, table, Options{Iterations: iterations})
	if err != nil {
		return nil, err
	}
	return res.Mapping, nil
}

// Hierarchy returns levels+1 mappings where entry i equals Contract(g, i).
// All levels are computed in a single pass.
func Hierarchy(g Source, levels int) ([][]int, error) {
	res, err := Run(g, Options{Iterations: levels, Levels: true})
	if err != nil {
		return nil, err
	}
	return res.Levels, nil
}

// Run extracts g's adjacency table and contracts it.
func Run(g Source, opts Options) (*Result, error) {
	if err := errs.ValidateIterations(opts.Iterations); err != nil {
		return nil, err
	}
	if err := ValidateLevels(opts, g.NodeCount()); err != nil {
		return nil, err
	}
	table, err := Extract(g)
	if err != nil {
		return nil, err
	}
	return run(table, opts), nil
}

// RunTable validates and copies table, then contracts it.
func RunTable(n int, table Table, opts Options) (*Result, error) {
	if err := errs.ValidateNodeCount(n); err != nil {
		return nil, err
	}
	if err := errs.ValidateIterations(opts.Iterations); err != nil {
		return nil, err
	}
	if len(table) != n {
		return nil, errs.New(errs.ErrCodeInvalidNodeCount, "table has %d entries, want %d", len(table), n)
	}
	if err := ValidateLevels(opts, n); err != nil {
		return nil, err
	}
	for v, adj := range table {
		for _, c := range adj {
			if err := errs.ValidateIndex(c.Index, n); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidIndex, err, "adjacency of node %d", v)
			}
			if err := errs.ValidateWeight(c.Weight); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidWeight, err, "adjacency of node %d", v)
			}
		}
	}

	own := table.Clone()
	for i := range own {
		sortConns(own[i])
	}
	return run(own, opts), nil
}

// ValidateLevels checks the level bounds of opts for a graph of n nodes.
// Runs without Levels are always accepted.
func ValidateLevels(opts Options, n int) error {
	if !opts.Levels {
		return nil
	}
	if opts.Iterations > MaxLevels {
		return errs.New(errs.ErrCodeInvalidIterations, "levels must be <= %d, got %d", MaxLevels, opts.Iterations)
	}
	if n > 0 && opts.Iterations+1 > MaxLevelEntries/n {
		return errs.New(errs.ErrCodeInvalidIterations, "%d levels of %d nodes exceed the limit of %d mapping entries", opts.Iterations+1, n, MaxLevelEntries)
	}
	return nil
}

// ClusterCount returns the number of clusters in a dense mapping.
func ClusterCount(mapping []int) int {
	if len(mapping) == 0 {
		return 0
	}
	return slices.Max(mapping) + 1
}

// Groups inverts a dense mapping: Groups(m)[c] lists the nodes of cluster c
// in ascending order.
func Groups(mapping []int) [][]int {
	groups := make([][]int, ClusterCount(mapping))
	for v, c := range mapping {
		groups[c] = append(groups[c], v)
	}
	return groups
}

// =============================================================================
// Driver
// =============================================================================

// driver owns the mutable state of one contraction: the disjoint-set, the
// per-node adjacency arena and the current participants.
type driver struct {
	uf           *UnionFind
	adj          Table
	participants []int
}

func newDriver(adj Table) *driver {
	n := len(adj)
	participants := make([]int, n)
	for i := range participants {
		participants[i] = i
	}
	return &driver{uf: NewUnionFind(n), adj: adj, participants: participants}
}

// round runs one match, union and consolidate cycle and returns the number
// of successful unions.
func (d *driver) round() int {
	before := d.uf.Sets()

	for _, v := range d.participants {
		d.uf.Unite(v, heaviest(v, d.adj[v]))
	}

	reprs := make([]int, 0, len(d.participants))
	for _, v := range d.participants {
		repr := d.uf.Find(v)
		if v == repr {
			reprs = append(reprs, v)
			continue
		}
		d.adj[repr] = RemoveSelfLoops(repr, Merge(d.adj[repr], d.adj[v]), d.uf)
		d.adj[v] = nil
	}
	d.participants = reprs

	return before - d.uf.Sets()
}

// renumber assigns dense ids to representatives in ascending index order.
func (d *driver) renumber() []int {
	n := d.uf.Len()
	dense := make([]int, n)
	next := 0
	for i := 0; i < n; i++ {
		if d.uf.Find(i) == i {
			dense[i] = next
			next++
		}
	}
	mapping := make([]int, n)
	for i := 0; i < n; i++ {
		mapping[i] = dense[d.uf.Find(i)]
	}
	return mapping
}

func run(table Table, opts Options) *Result {
	d := newDriver(table)
	res := &Result{}
	if opts.Levels {
		res.Levels = append(res.Levels, d.renumber())
	}

	converged := false
	for r := 1; r <= opts.Iterations; r++ {
		if !converged {
			stats := RoundStats{Round: r, Participants: len(d.participants)}
			stats.Unions = d.round()
			stats.Clusters = d.uf.Sets()
			res.Rounds = append(res.Rounds, stats)
			if opts.Observer != nil {
				opts.Observer(stats)
			}
			converged = stats.Unions == 0
		}
		if opts.Levels {
			if converged {
				res.Levels = append(res.Levels, slices.Clone(res.Levels[len(res.Levels)-1]))
			} else {
				res.Levels = append(res.Levels, d.renumber())
			}
		}
		if converged && !opts.Levels {
			break
		}
	}

	res.Mapping = d.renumber()
	res.Clusters = d.uf.Sets()
	return res
}
