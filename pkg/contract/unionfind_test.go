package contract

import "testing"

func TestNewUnionFind(t *testing.T) {
	uf := NewUnionFind(5)

	for i := 0; i < 5; i++ {
		if root := uf.Find(i); root != i {
			t.Errorf("Find(%d) = %d, want %d", i, root, i)
		}
		if size := uf.SizeOf(i); size != 1 {
			t.Errorf("SizeOf(%d) = %d, want 1", i, size)
		}
	}
	if uf.Sets() != 5 {
		t.Errorf("Sets() = %d, want 5", uf.Sets())
	}
}

func TestUnionFind_Empty(t *testing.T) {
	uf := NewUnionFind(0)
	if uf.Len() != 0 || uf.Sets() != 0 {
		t.Errorf("empty UnionFind: Len() = %d, Sets() = %d, want 0, 0", uf.Len(), uf.Sets())
	}
}

func TestUnionFind_Unite(t *testing.T) {
	uf := NewUnionFind(5)
	root := uf.Unite(1, 3)

	if !uf.Same(1, 3) {
		t.Error("after Unite(1,3), 1 and 3 should be in the same set")
	}
	if root != uf.Find(3) {
		t.Errorf("Unite returned %d, but Find(3) = %d", root, uf.Find(3))
	}
	// Equal sizes keep the lower index.
	if root != 1 {
		t.Errorf("Unite(1,3) root = %d, want 1", root)
	}
	if uf.Sets() != 4 {
		t.Errorf("Sets() = %d, want 4", uf.Sets())
	}
}

func TestUnionFind_UniteSelfIsNoop(t *testing.T) {
	uf := NewUnionFind(3)
	uf.Unite(2, 2)
	uf.Unite(0, 1)
	uf.Unite(1, 0)

	if uf.Sets() != 2 {
		t.Errorf("Sets() = %d, want 2", uf.Sets())
	}
	if uf.SizeOf(0) != 2 {
		t.Errorf("SizeOf(0) = %d, want 2", uf.SizeOf(0))
	}
}

func TestUnionFind_UnionBySize(t *testing.T) {
	uf := NewUnionFind(5)
	uf.Unite(3, 4)
	uf.Unite(3, 2)
	big := uf.Find(3)

	// A singleton with a lower index still attaches below the bigger set.
	if got := uf.Unite(0, 4); got != big {
		t.Errorf("Unite(0,4) = %d, want big root %d", got, big)
	}
}

func TestUnionFind_PathCompression(t *testing.T) {
	uf := NewUnionFind(4)
	// Build a chain by hand to force a long path.
	uf.parent[3] = 2
	uf.parent[2] = 1
	uf.parent[1] = 0

	if root := uf.Find(3); root != 0 {
		t.Fatalf("Find(3) = %d, want 0", root)
	}
	for _, v := range []int{1, 2, 3} {
		if uf.parent[v] != 0 {
			t.Errorf("after Find(3), parent[%d] = %d, want 0", v, uf.parent[v])
		}
	}
}

func TestUnionFind_Transitive(t *testing.T) {
	uf := NewUnionFind(6)
	uf.Unite(0, 1)
	uf.Unite(1, 2)
	uf.Unite(3, 4)

	if !uf.Same(0, 2) {
		t.Error("0 and 2 should be in the same set")
	}
	if uf.Same(0, 3) {
		t.Error("0 and 3 should be in different sets")
	}
	if !uf.Same(5, 5) {
		t.Error("5 should be in its own set")
	}
	if uf.Sets() != 3 {
		t.Errorf("Sets() = %d, want 3", uf.Sets())
	}
}
