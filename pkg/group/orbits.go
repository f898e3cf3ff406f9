package group

import "github.com/matzehuels/symtower/pkg/unionfind"

// Orbits is a set of disjoint non-trivial orbits stored contiguously:
// orbit i is Vars[Begins[i]:Begins[i+1]].
type Orbits struct {
	Vars   []int
	Begins []int
}

// Len returns the number of orbits.
func (o *Orbits) Len() int { return len(o.Begins) - 1 }

// Orbit returns the positions of orbit i.
func (o *Orbits) Orbit(i int) []int { return o.Vars[o.Begins[i]:o.Begins[i+1]] }

// ComputeOrbits partitions the positions accepted by filter into orbits
// under the generators p with inactive[p] false. A nil inactive slice
// means all generators are active; a nil filter accepts every position.
// Only orbits with at least two members are returned; every accepted
// position not listed is a singleton orbit.
func ComputeOrbits(g *Group, inactive []bool, filter func(v int) bool) *Orbits {
	return computeOrbits(unionfind.New(g.Len()), g, inactive, filter)
}

func computeOrbits(uf *unionfind.UnionFind, g *Group, inactive []bool, filter func(v int) bool) *Orbits {
	accept := func(v int) bool { return filter == nil || filter(v) }
	for p, perm := range g.Perms {
		if inactive != nil && inactive[p] {
			continue
		}
		for v, img := range perm {
			if img == v || !accept(v) || !accept(img) {
				continue
			}
			uf.Union(v, img)
		}
	}

	o := &Orbits{Begins: []int{0}}
	for _, members := range uf.Groups(2) {
		o.Vars = append(o.Vars, members...)
		o.Begins = append(o.Begins, len(o.Vars))
	}
	return o
}

// OrbitWorkspace reuses union-find storage across repeated orbit
// computations on the same group.
type OrbitWorkspace struct {
	uf unionfind.UnionFind
}

// Compute is ComputeOrbits with reused storage.
func (w *OrbitWorkspace) Compute(g *Group, inactive []bool, filter func(v int) bool) *Orbits {
	w.uf.Reset(g.Len())
	return computeOrbits(&w.uf, g, inactive, filter)
}
