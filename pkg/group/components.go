package group

import (
	"slices"

	"github.com/bits-and-blooms/bitset"

	"github.com/matzehuels/symtower/pkg/unionfind"
)

// Components is the decomposition of a group's generators into
// independent components.
type Components struct {
	// Perms lists generator indices grouped by component; component c
	// owns Perms[Begins[c]:Begins[c+1]].
	Perms  []int
	Begins []int
	// VarToComponent maps each position to its component, or -1 if no
	// generator moves it.
	VarToComponent []int
	// PermToComponent maps each generator to its component.
	PermToComponent []int

	blocked *bitset.BitSet
}

// ComputeComponents builds the components of g. Two generators share a
// component when they move a common position. Components are numbered by
// the smallest position they move and list their generators in ascending
// order, so identical inputs always yield identical numbering.
func ComputeComponents(g *Group) *Components {
	n, np := g.Len(), g.NumGenerators()
	c := &Components{
		VarToComponent:  make([]int, n),
		PermToComponent: make([]int, np),
		blocked:         bitset.New(0),
	}
	for v := range c.VarToComponent {
		c.VarToComponent[v] = -1
	}
	if np == 0 {
		c.Begins = []int{0}
		return c
	}

	uf := unionfind.New(np)
	first := make([]int, n)
	for v := 0; v < n; v++ {
		first[v] = -1
		for p, perm := range g.Perms {
			if perm[v] == v {
				continue
			}
			if first[v] < 0 {
				first[v] = p
			} else {
				uf.Union(first[v], p)
			}
		}
	}

	// number components by their smallest moved position
	compOfRoot := make(map[int]int)
	for v := 0; v < n; v++ {
		if first[v] < 0 {
			continue
		}
		root := uf.Find(first[v])
		if _, ok := compOfRoot[root]; !ok {
			compOfRoot[root] = len(compOfRoot)
		}
		c.VarToComponent[v] = compOfRoot[root]
	}

	ncomp := len(compOfRoot)
	c.Begins = make([]int, ncomp+1)
	for p := 0; p < np; p++ {
		comp := compOfRoot[uf.Find(p)]
		c.PermToComponent[p] = comp
		c.Begins[comp+1]++
	}
	for i := 1; i <= ncomp; i++ {
		c.Begins[i] += c.Begins[i-1]
	}
	c.Perms = make([]int, 0, np)
	for comp := 0; comp < ncomp; comp++ {
		for p := 0; p < np; p++ {
			if c.PermToComponent[p] == comp {
				c.Perms = append(c.Perms, p)
			}
		}
	}
	c.blocked = bitset.New(uint(ncomp))
	return c
}

// Len returns the number of components.
func (c *Components) Len() int { return len(c.Begins) - 1 }

// Generators returns the generator indices of component i.
func (c *Components) Generators(i int) []int {
	return c.Perms[c.Begins[i]:c.Begins[i+1]]
}

// Vars returns the positions moved by component i in ascending order.
func (c *Components) Vars(i int) []int {
	var out []int
	for v, comp := range c.VarToComponent {
		if comp == i {
			out = append(out, v)
		}
	}
	return out
}

// Block marks component i as handled by symmetry-breaking constraints.
func (c *Components) Block(i int) { c.blocked.Set(uint(i)) }

// IsBlocked reports whether component i is blocked.
func (c *Components) IsBlocked(i int) bool { return c.blocked.Test(uint(i)) }

// NumBlocked returns the number of blocked components.
func (c *Components) NumBlocked() int { return int(c.blocked.Count()) }

// Blocked returns the blocked flag of every component.
func (c *Components) Blocked() []bool {
	out := make([]bool, c.Len())
	for i := range out {
		out[i] = c.IsBlocked(i)
	}
	return out
}

// Sizes returns the number of generators per component.
func (c *Components) Sizes() []int {
	out := make([]int, c.Len())
	for i := range out {
		out[i] = c.Begins[i+1] - c.Begins[i]
	}
	return out
}

// Clone returns a deep copy, including blocked flags.
func (c *Components) Clone() *Components {
	return &Components{
		Perms:           slices.Clone(c.Perms),
		Begins:          slices.Clone(c.Begins),
		VarToComponent:  slices.Clone(c.VarToComponent),
		PermToComponent: slices.Clone(c.PermToComponent),
		blocked:         c.blocked.Clone(),
	}
}
