package contract

// UnionFind is a disjoint-set over the fixed index space [0, n) with path
// compression and union by size. Representatives are always original
// indices.
//
// The zero value is not usable; create one with [NewUnionFind].
// UnionFind is not safe for concurrent use.
type UnionFind struct {
	parent []int
	size   []int
	sets   int
}

// NewUnionFind creates a UnionFind with every index in its own set.
func NewUnionFind(n int) *UnionFind {
	parent := make([]int, n)
	size := make([]int, n)
	for i := range parent {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{parent: parent, size: size, sets: n}
}

// Len returns the size of the index space.
func (uf *UnionFind) Len() int { return len(uf.parent) }

// Sets returns the number of disjoint sets.
func (uf *UnionFind) Sets() int { return uf.sets }

// Find returns the representative of x's set, compressing the path.
func (uf *UnionFind) Find(x int) int {
	root := x
	for uf.parent[root] != root {
		root = uf.parent[root]
	}
	for uf.parent[x] != root {
		x, uf.parent[x] = uf.parent[x], root
	}
	return root
}

// Unite merges the sets containing a and b and returns the surviving
// representative. The larger set's root survives; on equal sizes the lower
// index does. Uniting two members of the same set is a no-op.
func (uf *UnionFind) Unite(a, b int) int {
	ra, rb := uf.Find(a), uf.Find(b)
	if ra == rb {
		return ra
	}
	if uf.size[ra] < uf.size[rb] || (uf.size[ra] == uf.size[rb] && rb < ra) {
		ra, rb = rb, ra
	}
	uf.parent[rb] = ra
	uf.size[ra] += uf.size[rb]
	uf.sets--
	return ra
}

// Same reports whether a and b are in the same set.
func (uf *UnionFind) Same(a, b int) bool { return uf.Find(a) == uf.Find(b) }

// SizeOf returns the number of members in x's set.
func (uf *UnionFind) SizeOf(x int) int { return uf.size[uf.Find(x)] }
