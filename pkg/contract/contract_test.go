package contract

import (
	"math"
	"math/rand/v2"
	"reflect"
	"slices"
	"testing"

	errs "github.com/matzehuels/coarsen/pkg/errors"
)

func TestContract_MutualPairs(t *testing.T) {
	g := testGraph{n: 4, edges: []testEdge{
		{0, 1, 5}, {1, 2, 1}, {2, 3, 5},
	}}

	got, err := Contract(g, 1)
	if err != nil {
		t.Fatalf("Contract() error: %v", err)
	}
	want := []int{0, 0, 1, 1}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Contract() = %v, want %v", got, want)
	}
}

func TestContract_ChainCollapse(t *testing.T) {
	g := testGraph{n: 3, edges: []testEdge{
		{0, 1, 1}, {1, 2, 5},
	}}

	got, err := Contract(g, 1)
	if err != nil {
		t.Fatalf("Contract() error: %v", err)
	}
	want := []int{0, 0, 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Contract() = %v, want %v", got, want)
	}
}

func TestContract_ZeroIterationsIsIdentity(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		g := randomGraph(seed, 25, 60)
		got, err := Contract(g, 0)
		if err != nil {
			t.Fatalf("seed %d: Contract() error: %v", seed, err)
		}
		for i, c := range got {
			if c != i {
				t.Fatalf("seed %d: Contract(g, 0)[%d] = %d, want %d", seed, i, c, i)
			}
		}
	}
}

func TestContract_EmptyGraph(t *testing.T) {
	got, err := Contract(testGraph{}, 3)
	if err != nil {
		t.Fatalf("Contract() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Contract() = %v, want empty mapping", got)
	}
}

func TestContract_DenseRangeAndOrdering(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g := randomGraph(seed, 40, 70)
		for it := 0; it <= 4; it++ {
			m, err := Contract(g, it)
			if err != nil {
				t.Fatalf("seed %d it %d: Contract() error: %v", seed, it, err)
			}
			checkDense(t, m)
			checkMinMemberOrdering(t, m)
		}
	}
}

func TestContract_ClusterCountNonIncreasing(t *testing.T) {
	for seed := uint64(1); seed <= 20; seed++ {
		g := randomGraph(seed, 50, 80)
		prev := g.n + 1
		for it := 0; it <= 8; it++ {
			m, err := Contract(g, it)
			if err != nil {
				t.Fatalf("Contract() error: %v", err)
			}
			k := ClusterCount(m)
			if k > prev {
				t.Fatalf("seed %d: clusters went from %d to %d at iteration %d", seed, prev, k, it)
			}
			prev = k
		}
	}
}

func TestContract_IsolatedNodesStaySingletons(t *testing.T) {
	// Nodes 2 and 5 have no edges.
	g := testGraph{n: 6, edges: []testEdge{
		{0, 1, 1}, {1, 3, 2}, {3, 4, 1}, {4, 0, 3},
	}}

	for it := 0; it <= 5; it++ {
		m, err := Contract(g, it)
		if err != nil {
			t.Fatalf("Contract() error: %v", err)
		}
		for _, iso := range []int{2, 5} {
			for v := range m {
				if v != iso && m[v] == m[iso] {
					t.Errorf("iteration %d: isolated node %d shares cluster with %d", it, iso, v)
				}
			}
		}
	}
}

func TestContract_StableAfterSingleCluster(t *testing.T) {
	g := testGraph{n: 4, edges: []testEdge{
		{0, 1, 1}, {1, 2, 1}, {2, 3, 1},
	}}

	first, err := Contract(g, 1)
	if err != nil {
		t.Fatalf("Contract() error: %v", err)
	}
	if ClusterCount(first) != 1 {
		t.Fatalf("ClusterCount() = %d, want 1 after one round", ClusterCount(first))
	}
	for _, it := range []int{2, 10, 1000} {
		m, err := Contract(g, it)
		if err != nil {
			t.Fatalf("Contract() error: %v", err)
		}
		if !reflect.DeepEqual(m, first) {
			t.Errorf("Contract(g, %d) = %v, want %v", it, m, first)
		}
	}
}

func TestContract_MultiRound(t *testing.T) {
	// Round 1 pairs {0,1}, {2,3} and {4,5}. In round 2 the surviving
	// cross-pair edges (weights 1, 4 and 2) decide the next merges.
	g := testGraph{n: 6, edges: []testEdge{
		{0, 1, 10}, {2, 3, 10}, {4, 5, 10},
		{1, 2, 1}, {0, 3, 4}, {3, 4, 2},
	}}

	r1, err := Contract(g, 1)
	if err != nil {
		t.Fatalf("Contract() error: %v", err)
	}
	if want := []int{0, 0, 1, 1, 2, 2}; !reflect.DeepEqual(r1, want) {
		t.Errorf("Contract(g, 1) = %v, want %v", r1, want)
	}

	r2, err := Contract(g, 2)
	if err != nil {
		t.Fatalf("Contract() error: %v", err)
	}
	// Chain contraction: {4,5} picks {2,3}, which picks {0,1}.
	if want := []int{0, 0, 0, 0, 0, 0}; !reflect.DeepEqual(r2, want) {
		t.Errorf("Contract(g, 2) = %v, want %v", r2, want)
	}
}

func TestContract_Rejects(t *testing.T) {
	g := testGraph{n: 2, edges: []testEdge{{0, 1, 1}}}

	if _, err := Contract(g, -1); !errs.Is(err, errs.ErrCodeInvalidIterations) {
		t.Errorf("Contract(g, -1) error = %v, want %v", err, errs.ErrCodeInvalidIterations)
	}
	bad := testGraph{n: 2, edges: []testEdge{{0, 5, 1}}}
	if _, err := Contract(bad, 1); !errs.Is(err, errs.ErrCodeInvalidIndex) {
		t.Errorf("Contract(bad, 1) error = %v, want %v", err, errs.ErrCodeInvalidIndex)
	}
}

func TestContractTable_MatchesContract(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		g := randomGraph(seed, 30, 50)
		table, err := Extract(g)
		if err != nil {
			t.Fatalf("Extract() error: %v", err)
		}
		for it := 0; it <= 3; it++ {
			want, err := Contract(g, it)
			if err != nil {
				t.Fatalf("Contract() error: %v", err)
			}
			got, err := ContractTable(g.n, table, it)
			if err != nil {
				t.Fatalf("ContractTable() error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("seed %d it %d: ContractTable() = %v, want %v", seed, it, got, want)
			}
		}
	}
}

func TestContractTable_DoesNotMutateInput(t *testing.T) {
	table := Table{
		{{1, 5}},
		{{0, 5}, {2, 1}},
		{{1, 1}},
	}
	before := table.Clone()

	if _, err := ContractTable(3, table, 2); err != nil {
		t.Fatalf("ContractTable() error: %v", err)
	}
	if !reflect.DeepEqual(table, before) {
		t.Errorf("ContractTable mutated its input: %v, want %v", table, before)
	}
}

func TestContractTable_SortsUnsortedLists(t *testing.T) {
	sorted := Table{
		{{1, 2}, {2, 2}},
		{{0, 2}},
		{{0, 2}},
	}
	unsorted := Table{
		{{2, 2}, {1, 2}},
		{{0, 2}},
		{{0, 2}},
	}
	a, err := ContractTable(3, sorted, 1)
	if err != nil {
		t.Fatalf("ContractTable() error: %v", err)
	}
	b, err := ContractTable(3, unsorted, 1)
	if err != nil {
		t.Fatalf("ContractTable() error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("unsorted input gave %v, sorted gave %v", b, a)
	}
}

func TestContractTable_Rejects(t *testing.T) {
	tests := []struct {
		name       string
		n          int
		table      Table
		iterations int
		code       errs.Code
	}{
		{"negative node count", -1, nil, 1, errs.ErrCodeInvalidNodeCount},
		{"negative iterations", 1, Table{nil}, -5, errs.ErrCodeInvalidIterations},
		{"short table", 3, Table{nil, nil}, 1, errs.ErrCodeInvalidNodeCount},
		{"index too large", 2, Table{{{2, 1}}, nil}, 1, errs.ErrCodeInvalidIndex},
		{"negative index", 2, Table{nil, {{-1, 1}}}, 1, errs.ErrCodeInvalidIndex},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ContractTable(tt.n, tt.table, tt.iterations)
			if !errs.Is(err, tt.code) {
				t.Errorf("ContractTable() error = %v, want code %v", err, tt.code)
			}
			if m != nil {
				t.Errorf("ContractTable() returned partial mapping %v", m)
			}
		})
	}
}

func TestHierarchy_MatchesPerLevelContract(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		g := randomGraph(seed, 35, 45)
		levels, err := Hierarchy(g, 6)
		if err != nil {
			t.Fatalf("Hierarchy() error: %v", err)
		}
		if len(levels) != 7 {
			t.Fatalf("len(levels) = %d, want 7", len(levels))
		}
		for it, got := range levels {
			want, err := Contract(g, it)
			if err != nil {
				t.Fatalf("Contract() error: %v", err)
			}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("seed %d: level %d = %v, want %v", seed, it, got, want)
			}
		}
	}
}

func TestHierarchy_LevelBounds(t *testing.T) {
	g := testGraph{n: 2, edges: []testEdge{{0, 1, 1}}}

	levels, err := Hierarchy(g, MaxLevels)
	if err != nil {
		t.Fatalf("Hierarchy(g, MaxLevels) error: %v", err)
	}
	if len(levels) != MaxLevels+1 {
		t.Errorf("len(levels) = %d, want %d", len(levels), MaxLevels+1)
	}

	tests := []struct {
		name   string
		g      Source
		levels int
	}{
		{"one past the limit", g, MaxLevels + 1},
		{"huge", g, 1 << 40},
		{"max int", g, math.MaxInt},
		{"entry budget", testGraph{n: MaxLevelEntries / 2}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Hierarchy(tt.g, tt.levels)
			if !errs.Is(err, errs.ErrCodeInvalidIterations) {
				t.Errorf("Hierarchy() error = %v, want %v", err, errs.ErrCodeInvalidIterations)
			}
			if got != nil {
				t.Errorf("Hierarchy() returned %d levels on error", len(got))
			}
		})
	}

	// Plain runs converge early and need no bound.
	if _, err := Contract(g, math.MaxInt); err != nil {
		t.Errorf("Contract(g, MaxInt) error: %v", err)
	}
}

func TestRun_Stats(t *testing.T) {
	g := testGraph{n: 4, edges: []testEdge{
		{0, 1, 5}, {1, 2, 1}, {2, 3, 5},
	}}

	var observed []RoundStats
	res, err := Run(g, Options{Iterations: 5, Observer: func(s RoundStats) {
		observed = append(observed, s)
	}})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if res.Clusters != 1 {
		t.Errorf("Clusters = %d, want 1", res.Clusters)
	}
	// Round 3 merges nothing, so rounds 4 and 5 are skipped.
	want := []RoundStats{
		{Round: 1, Participants: 4, Unions: 2, Clusters: 2},
		{Round: 2, Participants: 2, Unions: 1, Clusters: 1},
		{Round: 3, Participants: 1, Unions: 0, Clusters: 1},
	}
	if !reflect.DeepEqual(res.Rounds, want) {
		t.Errorf("Rounds = %+v, want %+v", res.Rounds, want)
	}
	if !reflect.DeepEqual(observed, want) {
		t.Errorf("observed = %+v, want %+v", observed, want)
	}
}

func TestGroups(t *testing.T) {
	got := Groups([]int{0, 1, 0, 2, 1})
	want := [][]int{{0, 2}, {1, 4}, {3}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Groups() = %v, want %v", got, want)
	}
	if g := Groups(nil); len(g) != 0 {
		t.Errorf("Groups(nil) = %v, want empty", g)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func randomGraph(seed uint64, n, m int) testGraph {
	r := rand.New(rand.NewPCG(seed, 42))
	g := testGraph{n: n}
	for i := 0; i < m; i++ {
		a, b := r.IntN(n), r.IntN(n)
		if a == b {
			continue
		}
		// Small integer weights force plenty of ties.
		g.edges = append(g.edges, testEdge{a, b, float64(1 + r.IntN(4))})
	}
	return g
}

func checkDense(t *testing.T, m []int) {
	t.Helper()
	seen := make([]bool, ClusterCount(m))
	for _, c := range m {
		if c < 0 || c >= len(seen) {
			t.Fatalf("cluster id %d out of range [0, %d)", c, len(seen))
		}
		seen[c] = true
	}
	if i := slices.Index(seen, false); i >= 0 {
		t.Fatalf("cluster id %d unused in mapping %v", i, m)
	}
}

func checkMinMemberOrdering(t *testing.T, m []int) {
	t.Helper()
	next := 0
	for _, c := range m {
		if c > next {
			t.Fatalf("cluster %d appears before cluster %d in %v", c, next, m)
		}
		if c == next {
			next++
		}
	}
}
