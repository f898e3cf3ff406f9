package automorphism

import (
	"math"
	"slices"

	"github.com/matzehuels/symtower/pkg/encode"
)

type arc struct {
	to    int
	color int
}

// graph is the vertex- and edge-colored bipartite view of a matrix.
// Vertices 0..ncols-1 are columns, the rest are rows.
type graph struct {
	ncols  int
	colors []int
	adj    [][]arc
	edges  map[int64]int
	// ecolors bounds edge colors for signature packing.
	ecolors int
}

func newGraph(mat *encode.Matrix) *graph {
	ncols := mat.NumCols()
	n := ncols + len(mat.Rows)
	g := &graph{
		ncols:   ncols,
		colors:  make([]int, n),
		adj:     make([][]arc, n),
		edges:   make(map[int64]int, 2*len(mat.Entries)),
		ecolors: mat.NumCoefColors + 1,
	}
	copy(g.colors, mat.VarColors)
	for r, row := range mat.Rows {
		rv := ncols + r
		g.colors[rv] = mat.NumVarColors + row.Color
		for _, e := range mat.RowEntries(r) {
			g.adj[rv] = append(g.adj[rv], arc{to: e.Col, color: e.Color})
			g.adj[e.Col] = append(g.adj[e.Col], arc{to: rv, color: e.Color})
			g.edges[g.key(rv, e.Col)] = e.Color
			g.edges[g.key(e.Col, rv)] = e.Color
		}
	}
	return g
}

func (g *graph) n() int { return len(g.colors) }

func (g *graph) key(u, v int) int64 {
	return int64(u)*int64(g.n()) + int64(v)
}

// isAutomorphism reports whether perm preserves vertex colors and every
// colored edge.
func (g *graph) isAutomorphism(perm []int) bool {
	for v, img := range perm {
		if g.colors[v] != g.colors[img] {
			return false
		}
		if len(g.adj[v]) != len(g.adj[img]) {
			return false
		}
	}
	for v, arcs := range g.adj {
		for _, a := range arcs {
			c, ok := g.edges[g.key(perm[v], perm[a.to])]
			if !ok || c != a.color {
				return false
			}
		}
	}
	return true
}

// rowTwinLog10 returns the log10 order of the automorphisms that fix every
// column: the sum of log10(k!) over classes of k rows sharing a color and
// the same colored neighborhood.
func (g *graph) rowTwinLog10() float64 {
	n := g.n() - g.ncols
	if n < 2 {
		return 0
	}
	sigs := make([][]int64, n)
	rows := make([]int, n)
	for r := range rows {
		rv := g.ncols + r
		sig := make([]int64, 0, len(g.adj[rv])+1)
		for _, a := range g.adj[rv] {
			sig = append(sig, int64(a.to)*int64(g.ecolors)+int64(a.color))
		}
		slices.Sort(sig)
		sigs[r] = append([]int64{int64(g.colors[rv])}, sig...)
		rows[r] = r
	}
	slices.SortFunc(rows, func(a, b int) int { return slices.Compare(sigs[a], sigs[b]) })

	total := 0.0
	run := 1
	for i := 1; i < n; i++ {
		if slices.Equal(sigs[rows[i-1]], sigs[rows[i]]) {
			run++
			total += math.Log10(float64(run))
			continue
		}
		run = 1
	}
	return total
}

// partition is an ordered partition of the vertices.
type partition struct {
	cells [][]int
}

func (p partition) clone() partition {
	cells := make([][]int, len(p.cells))
	for i, c := range p.cells {
		cells[i] = append([]int(nil), c...)
	}
	return partition{cells: cells}
}

func (p partition) discrete() bool {
	for _, c := range p.cells {
		if len(c) > 1 {
			return false
		}
	}
	return true
}

// target returns the index of the first non-singleton cell, or -1.
func (p partition) target() int {
	for i, c := range p.cells {
		if len(c) > 1 {
			return i
		}
	}
	return -1
}

// sameShape reports whether both partitions have identical cell sizes in
// the same order.
func (p partition) sameShape(q partition) bool {
	if len(p.cells) != len(q.cells) {
		return false
	}
	for i := range p.cells {
		if len(p.cells[i]) != len(q.cells[i]) {
			return false
		}
	}
	return true
}

// order returns the vertex sequence of a discrete partition.
func (p partition) order() []int {
	out := make([]int, 0, len(p.cells))
	for _, c := range p.cells {
		out = append(out, c[0])
	}
	return out
}

// initialPartition groups vertices by color, cells in ascending color.
func (g *graph) initialPartition() partition {
	byColor := make(map[int][]int)
	var colors []int
	for v, c := range g.colors {
		if _, ok := byColor[c]; !ok {
			colors = append(colors, c)
		}
		byColor[c] = append(byColor[c], v)
	}
	slices.Sort(colors)
	p := partition{cells: make([][]int, 0, len(colors))}
	for _, c := range colors {
		p.cells = append(p.cells, byColor[c])
	}
	return p
}

// refine splits cells until the partition is equitable: within a cell all
// vertices see the same multiset of (neighbor cell, edge color) pairs.
// Sub-cells are ordered by signature, so the result depends only on the
// isomorphism class of the input.
func (g *graph) refine(p partition) partition {
	cellOf := make([]int, g.n())
	for {
		for i, c := range p.cells {
			for _, v := range c {
				cellOf[v] = i
			}
		}

		changed := false
		next := make([][]int, 0, len(p.cells))
		for _, cell := range p.cells {
			if len(cell) == 1 {
				next = append(next, cell)
				continue
			}
			sigs := make(map[int][]int64, len(cell))
			for _, v := range cell {
				sig := make([]int64, len(g.adj[v]))
				for i, a := range g.adj[v] {
					sig[i] = int64(cellOf[a.to])*int64(g.ecolors) + int64(a.color)
				}
				slices.Sort(sig)
				sigs[v] = sig
			}
			sorted := append([]int(nil), cell...)
			slices.SortStableFunc(sorted, func(a, b int) int { return slices.Compare(sigs[a], sigs[b]) })

			start := 0
			for i := 1; i <= len(sorted); i++ {
				if i == len(sorted) || slices.Compare(sigs[sorted[i-1]], sigs[sorted[i]]) != 0 {
					next = append(next, sorted[start:i])
					start = i
				}
			}
			if len(next) > 0 && len(next[len(next)-1]) != len(cell) {
				changed = true
			}
		}
		p.cells = next
		if !changed {
			return p
		}
	}
}

// individualize moves v into a singleton cell placed directly before the
// rest of its cell, then refines.
func (g *graph) individualize(p partition, v int) partition {
	q := p.clone()
	for i, c := range q.cells {
		j := slices.Index(c, v)
		if j < 0 {
			continue
		}
		rest := make([]int, 0, len(c)-1)
		rest = append(rest, c[:j]...)
		rest = append(rest, c[j+1:]...)
		cells := make([][]int, 0, len(q.cells)+1)
		cells = append(cells, q.cells[:i]...)
		cells = append(cells, []int{v}, rest)
		cells = append(cells, q.cells[i+1:]...)
		q.cells = cells
		break
	}
	return g.refine(q)
}
