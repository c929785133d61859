// Package unionfind implements a disjoint-set forest over dense integer
// indices with path compression and union by rank.
//
// Elements are 0..n-1. Callers keep their entities in a slice and use the
// slice index as the element, so the forest never allocates per node.
package unionfind

// Forest is a disjoint-set forest. It is not safe for concurrent mutation.
type Forest struct {
	parent []int
	rank   []uint8
	sets   int
}

// New returns a forest of n singleton sets.
func New(n int) *Forest {
	f := &Forest{
		parent: make([]int, n),
		rank:   make([]uint8, n),
		sets:   n,
	}
	for i := range f.parent {
		f.parent[i] = i
	}
	return f
}

// Len returns the number of elements.
func (f *Forest) Len() int { return len(f.parent) }

// Sets returns the current number of disjoint sets.
func (f *Forest) Sets() int { return f.sets }

// Find returns the representative of x's set.
func (f *Forest) Find(x int) int {
	// Iterative path halving keeps deep chains off the stack.
	for f.parent[x] != x {
		f.parent[x] = f.parent[f.parent[x]]
		x = f.parent[x]
	}
	return x
}

// Union merges the sets containing a and b and reports whether they were
// previously disjoint.
func (f *Forest) Union(a, b int) bool {
	ra, rb := f.Find(a), f.Find(b)
	if ra == rb {
		return false
	}
	switch {
	case f.rank[ra] < f.rank[rb]:
		f.parent[ra] = rb
	case f.rank[ra] > f.rank[rb]:
		f.parent[rb] = ra
	default:
		f.parent[rb] = ra
		f.rank[ra]++
	}
	f.sets--
	return true
}

// Connected reports whether a and b share a set.
func (f *Forest) Connected(a, b int) bool {
	return f.Find(a) == f.Find(b)
}

// AllConnected reports whether every element in members is in one set.
// An empty or single-element list is trivially connected.
func (f *Forest) AllConnected(members []int) bool {
	if len(members) < 2 {
		return true
	}
	root := f.Find(members[0])
	for _, m := range members[1:] {
		if f.Find(m) != root {
			return false
		}
	}
	return true
}

// Groups returns the sets restricted to the given members, keyed by root.
// Member order inside each group follows the input order.
func (f *Forest) Groups(members []int) map[int][]int {
	out := make(map[int][]int)
	for _, m := range members {
		r := f.Find(m)
		out[r] = append(out[r], m)
	}
	return out
}
