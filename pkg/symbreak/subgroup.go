package symbreak

import (
	"cmp"
	"slices"

	"github.com/matzehuels/symtower/pkg/group"
	"github.com/matzehuels/symtower/pkg/unionfind"
)

// detectSubgroups looks for subgroups of the component generated by gens
// that act like full orbitopes on disjoint variable sets.
//
// Generators made only of 2-cycles on binaries are visited with the ones
// moving the most positions first. Each 2-cycle is an edge joining two
// blocks of variables; all blocks touched by a generator receive one
// color. A generator is rejected as a whole if one of its edges would
// close a cycle, join two blocks of the same color, or touch a block
// another of its edges touches. Every color class of blocks then yields
// one orbitope whose rows are the blocks, provided the generators of the
// class act as the same column swap in every row.
func detectSubgroups(g *group.Group, gens []int) []*Orbitope {
	type candidate struct {
		perm  int
		shape permShape
	}
	var cands []candidate
	for _, p := range gens {
		s := shapeOf(g, g.Perms[p])
		if s.involution() && s.binary {
			cands = append(cands, candidate{perm: p, shape: s})
		}
	}
	slices.SortStableFunc(cands, func(a, b candidate) int {
		return cmp.Compare(b.shape.twoCycles, a.shape.twoCycles)
	})

	n := g.Len()
	blocks := unionfind.New(n)
	colors := unionfind.New(n)
	var accepted []int
	for _, c := range cands {
		if mergeGenerator(g.Perms[c.perm], blocks, colors) {
			accepted = append(accepted, c.perm)
		}
	}
	if len(accepted) == 0 {
		return nil
	}

	// color class -> generators, keyed by color representative
	classGens := make(map[int][]int)
	var classOrder []int
	for _, p := range accepted {
		perm := g.Perms[p]
		for v, img := range perm {
			if img != v {
				root := colors.Find(v)
				if _, ok := classGens[root]; !ok {
					classOrder = append(classOrder, root)
				}
				classGens[root] = append(classGens[root], p)
				break
			}
		}
	}

	rowsOf := make(map[int][][]int)
	for _, members := range blocks.Groups(2) {
		root := colors.Find(members[0])
		rowsOf[root] = append(rowsOf[root], members)
	}

	slices.SortFunc(classOrder, func(a, b int) int {
		return cmp.Compare(rowsOf[a][0][0], rowsOf[b][0][0])
	})

	var out []*Orbitope
	for _, root := range classOrder {
		gs := slices.Clone(classGens[root])
		slices.Sort(gs)
		if o := subgroupOrbitope(g, rowsOf[root], gs); o != nil {
			out = append(out, o)
		}
	}
	return out
}

// mergeGenerator adds the 2-cycles of perm as edges if none of them is
// rejected, and reports whether it did.
func mergeGenerator(perm []int, blocks, colors *unionfind.UnionFind) bool {
	seen := make(map[int]bool)
	for v, img := range perm {
		if img <= v {
			continue
		}
		bv, bi := blocks.Find(v), blocks.Find(img)
		if bv == bi || colors.Same(v, img) || seen[bv] || seen[bi] {
			return false
		}
		seen[bv], seen[bi] = true, true
	}

	anchor := -1
	for v, img := range perm {
		if img <= v {
			continue
		}
		blocks.Union(v, img)
		colors.Union(v, img)
		if anchor < 0 {
			anchor = v
		} else {
			colors.Union(anchor, v)
		}
	}
	return anchor >= 0
}

// subgroupOrbitope arranges the rows of one color class into an orbitope.
// Rows are sorted blocks of positions. It returns nil when the generators
// do not act as column swaps shared by all rows.
func subgroupOrbitope(g *group.Group, rows [][]int, gens []int) *Orbitope {
	k := len(rows[0])
	if len(gens) != k-1 {
		return nil
	}
	rowOf := make(map[int]int)
	for r, row := range rows {
		if len(row) != k {
			return nil
		}
		for _, v := range row {
			rowOf[v] = r
		}
	}
	for _, p := range gens {
		perRow := make([]int, len(rows))
		for v, img := range g.Perms[p] {
			if img > v {
				perRow[rowOf[v]]++
			}
		}
		for _, cnt := range perRow {
			if cnt != 1 {
				return nil
			}
		}
	}

	// columns of the first row, by breadth-first search from its smallest
	// position
	var steps []swapStep
	colOf := map[int]int{rows[0][0]: 0}
	queue := []int{rows[0][0]}
	for len(queue) > 0 {
		e := queue[0]
		queue = queue[1:]
		for _, p := range gens {
			img := g.Perms[p][e]
			if _, ok := colOf[img]; ok || img == e {
				continue
			}
			colOf[img] = len(colOf)
			steps = append(steps, swapStep{from: colOf[e], gen: p, to: colOf[img]})
			queue = append(queue, img)
		}
	}
	if len(colOf) != k {
		return nil
	}

	table := make([][]int, len(rows))
	table[0] = make([]int, k)
	for e, c := range colOf {
		table[0][c] = e
	}
	for r := 1; r < len(rows); r++ {
		table[r] = alignRow(g, rows[r], r, rowOf, steps)
		if table[r] == nil {
			return nil
		}
	}

	cols := make([][]int, k)
	for c := range cols {
		cols[c] = make([]int, len(rows))
		for r := range rows {
			cols[c][r] = table[r][c]
		}
	}
	return &Orbitope{
		Vars:       transposeToVars(g, cols),
		Generators: gens,
		Subgroup:   true,
	}
}

// swapStep records that generator gen swaps columns from and to.
type swapStep struct{ from, gen, to int }

// alignRow finds the column order of row r that replays the steps of the
// first row, trying every member as the column 0 anchor.
func alignRow(g *group.Group, row []int, r int, rowOf map[int]int, steps []swapStep) []int {
	k := len(row)
next:
	for _, anchor := range row {
		out := make([]int, k)
		filled := make([]bool, k)
		out[0], filled[0] = anchor, true
		assigned := map[int]bool{anchor: true}
		for _, s := range steps {
			e := out[s.from]
			img := g.Perms[s.gen][e]
			if img == e || rowOf[img] != r || assigned[img] || filled[s.to] {
				continue next
			}
			out[s.to], filled[s.to] = img, true
			assigned[img] = true
		}
		return out
	}
	return nil
}

// weakInequality ties the first entry of o to the rest of its orbit under
// the whole component, when that orbit reaches beyond the orbitope's
// first row.
func weakInequality(g *group.Group, gens []int, o *Orbitope) *WeakInequality {
	rep, ok := g.Position(o.Vars[0][0])
	if !ok {
		return nil
	}
	inactive := make([]bool, g.NumGenerators())
	for p := range inactive {
		inactive[p] = true
	}
	for _, p := range gens {
		inactive[p] = false
	}
	orbits := group.ComputeOrbits(g, inactive, nil)
	for i := 0; i < orbits.Len(); i++ {
		orbit := orbits.Orbit(i)
		if !slices.Contains(orbit, rep) {
			continue
		}
		if len(orbit) <= o.Cols() {
			return nil
		}
		w := &WeakInequality{Rep: g.Vars[rep]}
		for _, v := range orbit {
			if v != rep {
				w.Others = append(w.Others, g.Vars[v])
			}
		}
		return w
	}
	return nil
}
