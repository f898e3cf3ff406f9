package symbreak

import (
	"slices"

	"github.com/matzehuels/symtower/pkg/group"
)

// permShape describes the cycle structure of a generator.
type permShape struct {
	twoCycles int
	// other counts moved positions in cycles longer than two.
	other  int
	binary bool
}

func (s permShape) involution() bool { return s.other == 0 && s.twoCycles > 0 }

func shapeOf(g *group.Group, perm []int) permShape {
	s := permShape{binary: true}
	for v, img := range perm {
		if img == v {
			continue
		}
		if !g.IsBinary(v) {
			s.binary = false
		}
		switch {
		case perm[img] != v:
			s.other++
		case img > v:
			s.twoCycles++
		}
	}
	return s
}

type extension int

const (
	extNone extension = iota
	extOK
	extInfeasible
)

// extendColumn tries to use perm as the swap of col with a new column. It
// succeeds when perm maps every entry of col to an unused position, and is
// infeasible when it does so for some rows only.
func extendColumn(col, perm []int, used []bool) ([]int, extension) {
	next := make([]int, len(col))
	mapped := 0
	for r, e := range col {
		if img := perm[e]; img != e && !used[img] {
			next[r] = img
			mapped++
		}
	}
	switch mapped {
	case 0:
		return nil, extNone
	case len(col):
		return next, extOK
	}
	return nil, extInfeasible
}

// detectOrbitope checks whether the generators gens form a full orbitope
// and returns it without name or component set, or nil.
//
// The 2-cycles of the first generator fill the first two columns. Further
// generators are then attached to the left of column 0 and to the right of
// column 1, each one swapping the outermost column with a new one.
func detectOrbitope(g *group.Group, gens []int) *Orbitope {
	if len(gens) == 0 {
		return nil
	}
	nrows := 0
	for i, p := range gens {
		s := shapeOf(g, g.Perms[p])
		if !s.involution() || !s.binary || (i > 0 && s.twoCycles != nrows) {
			return nil
		}
		nrows = s.twoCycles
	}

	used := make([]bool, g.Len())
	first := g.Perms[gens[0]]
	col0 := make([]int, 0, nrows)
	col1 := make([]int, 0, nrows)
	for v, img := range first {
		if img > v {
			col0 = append(col0, v)
			col1 = append(col1, img)
			used[v], used[img] = true, true
		}
	}

	taken := make([]bool, len(gens))
	taken[0] = true
	ntaken := 1

	grow := func(start []int) ([][]int, bool) {
		var cols [][]int
		col := start
		for j := 0; j < len(gens) && ntaken < len(gens); j++ {
			if taken[j] {
				continue
			}
			next, ext := extendColumn(col, g.Perms[gens[j]], used)
			switch ext {
			case extInfeasible:
				return nil, false
			case extOK:
				for _, e := range next {
					used[e] = true
				}
				taken[j] = true
				ntaken++
				cols = append(cols, next)
				col = next
				// earlier generators may fit the new column
				j = -1
			}
		}
		return cols, true
	}

	left, ok := grow(col0)
	if !ok {
		return nil
	}
	right, ok := grow(col1)
	if !ok || ntaken < len(gens) {
		return nil
	}

	cols := make([][]int, 0, len(left)+2+len(right))
	for i := len(left) - 1; i >= 0; i-- {
		cols = append(cols, left[i])
	}
	cols = append(cols, col0, col1)
	cols = append(cols, right...)

	return &Orbitope{
		Vars:       transposeToVars(g, cols),
		Generators: slices.Clone(gens),
	}
}

// transposeToVars turns a column-major table of positions into row-major
// model variables.
func transposeToVars(g *group.Group, cols [][]int) [][]int {
	nrows := len(cols[0])
	vars := make([][]int, nrows)
	for r := range vars {
		vars[r] = make([]int, len(cols))
		for c, col := range cols {
			vars[r][c] = g.Vars[col[r]]
		}
	}
	return vars
}
