package automorphism

import (
	"context"
	"math"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/encode"
	"github.com/matzehuels/symtower/pkg/unionfind"
)

// DefaultNodeLimit bounds the number of search-tree nodes Search explores.
const DefaultNodeLimit = 1_000_000

// Search is the built-in individualization-refinement oracle.
// The zero value is ready to use.
type Search struct {
	// NodeLimit bounds explored search-tree nodes; 0 means DefaultNodeLimit.
	// Exceeding it fails the computation.
	NodeLimit int
}

var _ Oracle = (*Search)(nil)

type searchState struct {
	ctx   context.Context
	g     *graph
	limit int
	nodes int

	// first path: partitions[k] is the partition at depth k, chosen[k]
	// the vertex individualized there.
	partitions []partition
	chosen     []int
	leaf       []int
}

// ComputeAutomorphisms implements Oracle.
func (s *Search) ComputeAutomorphisms(ctx context.Context, mat *encode.Matrix, maxGenerators int) (*Result, error) {
	st := &searchState{ctx: ctx, g: newGraph(mat), limit: s.NodeLimit}
	if st.limit <= 0 {
		st.limit = DefaultNodeLimit
	}

	root := st.g.refine(st.g.initialPartition())
	p := root
	for !p.discrete() {
		t := p.target()
		v := p.cells[t][0]
		st.partitions = append(st.partitions, p)
		st.chosen = append(st.chosen, v)
		p = st.g.individualize(p, v)
	}
	st.leaf = p.order()

	res := &Result{}
	orbits := unionfind.New(st.g.n())
	var all [][]int

	for k := len(st.partitions) - 1; k >= 0; k-- {
		pk := st.partitions[k]
		vk := st.chosen[k]
		for _, w := range pk.cells[pk.target()] {
			if w == vk || orbits.Same(w, vk) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, symerr.Wrap(symerr.ErrCodeOracle, err, "automorphism search interrupted")
			}
			perm, err := st.find(st.g.individualize(pk, w), k+1)
			if err != nil {
				return nil, err
			}
			if perm == nil {
				continue
			}
			all = append(all, perm)
			for v, img := range perm {
				orbits.Union(v, img)
			}

			if cols := st.restrict(perm); cols != nil {
				res.Generators = append(res.Generators, cols)
				if maxGenerators > 0 && len(res.Generators) >= maxGenerators {
					res.LimitReached = true
					res.Log10GroupSize = columnLog10Order(st, all)
					return res, nil
				}
			}
		}
	}
	res.Log10GroupSize = columnLog10Order(st, all)
	return res, nil
}

// find searches the subtree below p (at depth d of the first path) for a
// leaf equivalent to the first leaf and returns the vertex permutation
// mapping the first leaf onto it.
func (st *searchState) find(p partition, d int) ([]int, error) {
	st.nodes++
	if st.nodes > st.limit {
		return nil, symerr.New(symerr.ErrCodeOracle, "search node limit %d exceeded", st.limit)
	}
	if d < len(st.partitions) {
		if !p.sameShape(st.partitions[d]) {
			return nil, nil
		}
	} else if !p.discrete() {
		return nil, nil
	}

	if p.discrete() {
		perm := make([]int, st.g.n())
		for i, v := range p.order() {
			perm[st.leaf[i]] = v
		}
		if st.g.isAutomorphism(perm) {
			return perm, nil
		}
		return nil, nil
	}

	if d%64 == 0 {
		if err := st.ctx.Err(); err != nil {
			return nil, symerr.Wrap(symerr.ErrCodeOracle, err, "automorphism search interrupted")
		}
	}
	for _, u := range p.cells[p.target()] {
		perm, err := st.find(st.g.individualize(p, u), d+1)
		if err != nil || perm != nil {
			return perm, err
		}
	}
	return nil, nil
}

// restrict returns the column part of a vertex permutation, or nil if it
// fixes every column.
func (st *searchState) restrict(perm []int) []int {
	cols := make([]int, st.g.ncols)
	moved := false
	for c := range cols {
		cols[c] = perm[c]
		if perm[c] != c {
			moved = true
		}
	}
	if !moved {
		return nil
	}
	return cols
}

// log10Order multiplies the orbit lengths of the first-path vertices under
// the stabilizer chain spanned by the found generators.
func log10Order(st *searchState, gens [][]int) float64 {
	total := 0.0
	uf := unionfind.New(st.g.n())
	// Generators were found deepest level first; replaying them in that
	// order rebuilds each stabilizer before its base point is measured.
	next := 0
	for k := len(st.chosen) - 1; k >= 0; k-- {
		vk := st.chosen[k]
		for next < len(gens) && fixesPrefix(gens[next], st.chosen[:k]) {
			for v, img := range gens[next] {
				uf.Union(v, img)
			}
			next++
		}
		size := 0
		root := uf.Find(vk)
		for v := 0; v < st.g.n(); v++ {
			if uf.Find(v) == root {
				size++
			}
		}
		total += math.Log10(float64(size))
	}
	return total
}

// columnLog10Order returns the log10 order of the group the generators
// induce on the columns. Vertex automorphisms that fix every column only
// permute identical rows, so their subgroup is a direct product of
// symmetric groups over the classes of identical rows and is divided out.
func columnLog10Order(st *searchState, gens [][]int) float64 {
	order := log10Order(st, gens) - st.g.rowTwinLog10()
	if order < 1e-9 {
		return 0
	}
	return order
}

func fixesPrefix(perm []int, prefix []int) bool {
	for _, v := range prefix {
		if perm[v] != v {
			return false
		}
	}
	return true
}
