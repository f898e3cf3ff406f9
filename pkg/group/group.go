package group

import (
	"github.com/matzehuels/symtower/pkg/encode"
	symerr "github.com/matzehuels/symtower/pkg/errors"
)

// Default compression settings.
const (
	DefaultCompressThreshold = 0.5
	DefaultCompressMinVars   = 25000
)

// Domain is the set of variables a group acts on. Vars maps position to
// model variable index; positions below NBin are binaries.
type Domain struct {
	Vars []int
	NBin int
}

// DomainOf returns the column domain of a colored matrix.
func DomainOf(mat *encode.Matrix) Domain {
	return Domain{Vars: append([]int(nil), mat.Vars...), NBin: mat.NBin}
}

// Options controls Build.
type Options struct {
	// Matrix, if set together with CheckSymmetries, is used to verify every
	// generator.
	Matrix          *encode.Matrix
	CheckSymmetries bool

	// Compress drops positions no generator moves when at most
	// CompressThreshold of the domain is moved and the domain has at least
	// CompressMinVars positions.
	Compress          bool
	CompressThreshold float64
	CompressMinVars   int

	// Log10Size is the group order estimate reported by the oracle.
	Log10Size float64
}

// Group is a permutation group given by generators. It is read-only once
// built.
type Group struct {
	// Vars maps position to model variable index.
	Vars []int
	// NBin is the number of leading binary positions.
	NBin int
	// Perms are the generators over positions.
	Perms [][]int
	// Transposed[v][p] = Perms[p][v] for binary positions v.
	Transposed [][]int
	// Log10Size estimates log10 of the group order.
	Log10Size float64
	// BinaryAffected reports whether some generator moves a binary.
	BinaryAffected bool
	// Compressed reports whether unmoved positions were dropped.
	Compressed bool

	pos map[int]int
}

// Build validates the generators, optionally verifies and compresses them,
// and derives the lookup tables. Identity permutations are dropped.
// A generator that is not a permutation of the domain, or that fails
// verification, is an internal error.
func Build(gens [][]int, dom Domain, opts Options) (*Group, error) {
	n := len(dom.Vars)
	if dom.NBin < 0 || dom.NBin > n {
		return nil, symerr.New(symerr.ErrCodeInternal, "binary prefix %d outside domain of %d", dom.NBin, n)
	}

	perms := make([][]int, 0, len(gens))
	for i, g := range gens {
		if err := checkPermutation(g, n); err != nil {
			return nil, symerr.Wrap(symerr.ErrCodeInternal, err, "generator %d", i)
		}
		if isIdentity(g) {
			continue
		}
		perms = append(perms, append([]int(nil), g...))
	}

	if opts.CheckSymmetries && opts.Matrix != nil {
		if err := Verify(opts.Matrix, perms); err != nil {
			return nil, err
		}
	}

	g := &Group{
		Vars:      append([]int(nil), dom.Vars...),
		NBin:      dom.NBin,
		Perms:     perms,
		Log10Size: opts.Log10Size,
	}
	if opts.Compress {
		g.compress(opts.CompressThreshold, opts.CompressMinVars)
	}
	g.index()
	return g, nil
}

func checkPermutation(p []int, n int) error {
	if len(p) != n {
		return symerr.New(symerr.ErrCodeInternal, "length %d, want %d", len(p), n)
	}
	seen := make([]bool, n)
	for i, img := range p {
		if img < 0 || img >= n || seen[img] {
			return symerr.New(symerr.ErrCodeInternal, "not a bijection at position %d", i)
		}
		seen[img] = true
	}
	return nil
}

func isIdentity(p []int) bool {
	for i, img := range p {
		if i != img {
			return false
		}
	}
	return true
}

// compress relabels the group onto the moved positions when few enough
// positions move. Relative order is kept, so binaries stay in front.
func (g *Group) compress(threshold float64, minVars int) {
	n := len(g.Vars)
	if len(g.Perms) == 0 || n == 0 || n < minVars {
		return
	}
	moved := g.movedMask()
	nmoved := 0
	for _, m := range moved {
		if m {
			nmoved++
		}
	}
	if float64(nmoved)/float64(n) > threshold {
		return
	}

	relabel := make([]int, n)
	vars := make([]int, 0, nmoved)
	nbin := 0
	for v := 0; v < n; v++ {
		relabel[v] = -1
		if !moved[v] {
			continue
		}
		relabel[v] = len(vars)
		vars = append(vars, g.Vars[v])
		if v < g.NBin {
			nbin++
		}
	}
	for i, p := range g.Perms {
		q := make([]int, nmoved)
		for v, img := range p {
			if relabel[v] >= 0 {
				q[relabel[v]] = relabel[img]
			}
		}
		g.Perms[i] = q
	}
	g.Vars = vars
	g.NBin = nbin
	g.Compressed = true
}

func (g *Group) movedMask() []bool {
	moved := make([]bool, len(g.Vars))
	for _, p := range g.Perms {
		for v, img := range p {
			if img != v {
				moved[v] = true
			}
		}
	}
	return moved
}

func (g *Group) index() {
	g.pos = make(map[int]int, len(g.Vars))
	for i, v := range g.Vars {
		g.pos[v] = i
	}

	g.Transposed = make([][]int, g.NBin)
	for v := 0; v < g.NBin; v++ {
		row := make([]int, len(g.Perms))
		for p, perm := range g.Perms {
			row[p] = perm[v]
			if perm[v] != v {
				g.BinaryAffected = true
			}
		}
		g.Transposed[v] = row
	}
}

// Len returns the size of the domain.
func (g *Group) Len() int { return len(g.Vars) }

// NumGenerators returns the number of generators.
func (g *Group) NumGenerators() int { return len(g.Perms) }

// Position returns the position of a model variable, or false if the group
// does not act on it.
func (g *Group) Position(modelVar int) (int, bool) {
	p, ok := g.pos[modelVar]
	return p, ok
}

// IsBinary reports whether position v is binary.
func (g *Group) IsBinary(v int) bool { return v >= 0 && v < g.NBin }

// NumMoved returns the number of positions moved by at least one
// generator.
func (g *Group) NumMoved() int {
	n := 0
	for _, m := range g.movedMask() {
		if m {
			n++
		}
	}
	return n
}

// Cycles returns the non-trivial cycles of generator p, each starting at
// its smallest position, in order of that position.
func (g *Group) Cycles(p int) [][]int {
	perm := g.Perms[p]
	seen := make([]bool, len(perm))
	var cycles [][]int
	for v := range perm {
		if seen[v] || perm[v] == v {
			continue
		}
		var c []int
		for w := v; !seen[w]; w = perm[w] {
			seen[w] = true
			c = append(c, w)
		}
		cycles = append(cycles, c)
	}
	return cycles
}
