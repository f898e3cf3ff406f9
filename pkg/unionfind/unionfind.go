// Package unionfind provides a disjoint-set forest over the integers 0..n-1.
//
// The structure uses path compression on Find and union by rank on Union,
// giving near-constant amortized cost per operation. It is the single
// union-find used across symtower: generator components, variable orbits,
// block and color tracking in subgroup detection.
//
// Representatives are deterministic: for a fixed sequence of Union calls the
// same elements end up as roots, which downstream code relies on when it
// numbers components in first-seen order.
package unionfind

// UnionFind is a disjoint-set forest. The zero value is an empty forest;
// use [New] to create one with elements.
type UnionFind struct {
	parent []int
	rank   []int8
	sets   int
}

// New creates a forest of n singleton sets.
func New(n int) *UnionFind {
	u := &UnionFind{}
	u.Reset(n)
	return u
}

// Reset reinitializes the forest to n singleton sets, reusing storage where
// possible.
func (u *UnionFind) Reset(n int) {
	if cap(u.parent) >= n {
		u.parent = u.parent[:n]
		u.rank = u.rank[:n]
	} else {
		u.parent = make([]int, n)
		u.rank = make([]int8, n)
	}
	for i := range u.parent {
		u.parent[i] = i
		u.rank[i] = 0
	}
	u.sets = n
}

// Len returns the number of elements.
func (u *UnionFind) Len() int { return len(u.parent) }

// Sets returns the current number of disjoint sets.
func (u *UnionFind) Sets() int { return u.sets }

// Find returns the representative of x's set.
func (u *UnionFind) Find(x int) int {
	root := x
	for u.parent[root] != root {
		root = u.parent[root]
	}
	for u.parent[x] != root {
		next := u.parent[x]
		u.parent[x] = root
		x = next
	}
	return root
}

// Union merges the sets containing a and b. It returns the new
// representative and whether a merge happened (false if a and b were
// already in the same set).
//
// On equal rank the representative of a wins, so callers that need
// a particular element as root should pass it first.
func (u *UnionFind) Union(a, b int) (int, bool) {
	ra, rb := u.Find(a), u.Find(b)
	if ra == rb {
		return ra, false
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
	u.sets--
	return ra, true
}

// Same reports whether a and b are in the same set.
func (u *UnionFind) Same(a, b int) bool {
	return u.Find(a) == u.Find(b)
}

// Groups returns the members of every set with at least minSize elements,
// or nil if there are none. Sets are ordered by their smallest member and
// members are ascending, so the output is independent of the internal tree
// shape.
func (u *UnionFind) Groups(minSize int) [][]int {
	index := make(map[int]int)
	var groups [][]int
	for x := range u.parent {
		r := u.Find(x)
		i, ok := index[r]
		if !ok {
			i = len(groups)
			index[r] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], x)
	}
	if minSize <= 1 {
		return groups
	}
	out := groups[:0]
	for _, g := range groups {
		if len(g) >= minSize {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
