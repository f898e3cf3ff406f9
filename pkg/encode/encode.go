package encode

import (
	"cmp"
	"math"
	"slices"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/model"
)

// Options controls the encoder.
type Options struct {
	// FixedTypes lists variable types that must not be moved by any
	// symmetry. Columns of these types get a color of their own.
	FixedTypes model.TypeMask
	// UseColumnCounts adds the number of rows a column appears in to its
	// color key.
	UseColumnCounts bool
}

// Encode builds the colored matrix of m. The model is not modified.
func Encode(m *model.Model, opts Options) (*Matrix, error) {
	if m.Pricers > 0 {
		return nil, symerr.New(symerr.ErrCodeUnsupportedModel, "%d active pricers", m.Pricers)
	}
	if m.Reoptimization {
		return nil, symerr.New(symerr.ErrCodeUnsupportedModel, "reoptimization enabled")
	}

	conss := m.ActiveConstraints()
	if len(conss) == 0 {
		return nil, symerr.New(symerr.ErrCodeUnsupportedModel, "no active constraints")
	}

	vars, nbin := m.ActiveVars()
	mat := &Matrix{
		Vars:  vars,
		NBin:  nbin,
		ColOf: make([]int, m.NumVars()),
	}
	for i := range mat.ColOf {
		mat.ColOf[i] = -1
	}
	for col, v := range vars {
		mat.ColOf[v] = col
	}

	b := builder{model: m, mat: mat}
	for ci, c := range m.Constraints {
		if c.IsDisabled() {
			continue
		}
		b.cons = ci
		if err := b.add(c); err != nil {
			return nil, err
		}
	}
	if len(mat.Rows) == 0 {
		return nil, symerr.New(symerr.ErrCodeUnsupportedModel, "no active constraint contains active variables")
	}

	colorEntries(mat)
	colorRows(mat)
	colorVars(m, mat, opts)
	return mat, nil
}

type builder struct {
	model *model.Model
	mat   *Matrix
	cons  int
}

func (b *builder) add(c model.Constraint) error {
	inf := model.Infinity
	switch c := c.(type) {
	case *model.Linear:
		return b.rows(c.Vars, c.Coefs, nil, c.Lhs, c.Rhs, SenseUnknown)
	case *model.Linking:
		vars := append(append([]int(nil), c.Bins...), c.Link)
		coefs := append(append([]float64(nil), c.Vals...), -1)
		if err := b.rows(vars, coefs, nil, 0, 0, SenseUnknown); err != nil {
			return err
		}
		return b.rows(c.Bins, nil, nil, 1, 1, SenseUnknown)
	case *model.SetPPC:
		switch c.Type {
		case model.Partitioning:
			return b.rows(c.Vars, nil, nil, 1, 1, SenseEquation)
		case model.Packing:
			return b.rows(c.Vars, nil, nil, -inf, 1, SenseInequality)
		default:
			return b.rows(c.Vars, nil, nil, 1, inf, SenseInequality)
		}
	case *model.LogicOr:
		return b.rows(c.Vars, nil, nil, 1, inf, SenseInequality)
	case *model.Knapsack:
		coefs := make([]float64, len(c.Weights))
		for i, w := range c.Weights {
			coefs[i] = float64(w)
		}
		return b.rows(c.Vars, coefs, nil, -inf, float64(c.Capacity), SenseInequality)
	case *model.VarBound:
		return b.rows([]int{c.X, c.Y}, []float64{1, c.Coef}, nil, c.Lhs, c.Rhs, SenseInequality)
	case *model.XOR:
		vars := append([]int(nil), c.Vars...)
		coefs := make([]float64, len(vars), len(vars)+1)
		for i := range coefs {
			coefs[i] = 1
		}
		if c.IntVar >= 0 {
			vars = append(vars, c.IntVar)
			coefs = append(coefs, 2)
		}
		parity := 0.0
		if c.Parity {
			parity = 1
		}
		return b.rows(vars, coefs, nil, parity, parity, SenseXOR)
	case *model.And:
		return b.logical(c.Operands, c.Resultant, SenseAnd)
	case *model.Or:
		return b.logical(c.Operands, c.Resultant, SenseOr)
	case *model.BoundDisjunction:
		return b.disjunction(c)
	case *model.Opaque:
		return symerr.New(symerr.ErrCodeUnsupportedModel, "constraint %q of handler %q has no color encoding", c.Name, c.Handler)
	}
	return symerr.New(symerr.ErrCodeUnsupportedModel, "constraint kind %s has no color encoding", c.Kind())
}

func (b *builder) logical(operands []int, resultant int, sense Sense) error {
	vars := append(append([]int(nil), operands...), resultant)
	coefs := make([]float64, len(vars))
	for i := range coefs {
		coefs[i] = 1
	}
	coefs[len(coefs)-1] = 2
	return b.rows(vars, coefs, nil, 0, 0, sense)
}

// disjunction encodes a bound disjunction. Without repeated variables
// (type 1) it becomes the homogeneous row sum(b_i * x_i) = 0 with literal
// directions carried in the entry tags. Two literals on one variable
// (type 2) become min(b) <= x <= max(b). Anything else has no encoding.
func (b *builder) disjunction(c *model.BoundDisjunction) error {
	lits := make([]model.Literal, 0, len(c.Literals))
	for _, l := range c.Literals {
		nl, ok, err := b.normalizeLiteral(l)
		if err != nil {
			return symerr.Wrap(symerr.ErrCodeInvalidModel, err, "constraint %q", c.Name)
		}
		if ok {
			lits = append(lits, nl)
		}
	}
	if len(lits) == 0 {
		return nil
	}

	seen := make(map[int]bool, len(lits))
	repeated := false
	for _, l := range lits {
		if seen[l.Var] {
			repeated = true
		}
		seen[l.Var] = true
	}

	if !repeated {
		vars := make([]int, len(lits))
		coefs := make([]float64, len(lits))
		tags := make([]Tag, len(lits))
		for i, l := range lits {
			vars[i] = l.Var
			coefs[i] = l.Bound
			tags[i] = literalTag(l.Type)
		}
		return b.rawRows(vars, coefs, tags, 0, 0, SenseBDisjType1)
	}

	if len(lits) == 2 {
		lo, hi := lits[0], lits[1]
		if hi.Bound < lo.Bound {
			lo, hi = hi, lo
		}
		tag := literalTag(lo.Type)
		return b.rawRows([]int{lo.Var}, []float64{1}, []Tag{tag}, lo.Bound, hi.Bound, SenseBDisjType2)
	}
	return symerr.New(symerr.ErrCodeUnsupportedModel, "bound disjunction %q repeats a variable across more than two literals", c.Name)
}

// normalizeLiteral rewrites a literal on an aggregated variable into a
// literal on the active variable. ok is false for literals that collapse to
// a constant.
func (b *builder) normalizeLiteral(l model.Literal) (model.Literal, bool, error) {
	vars, coefs, constant, err := b.model.Resolve([]int{l.Var}, nil)
	if err != nil {
		return l, false, err
	}
	if len(vars) == 0 {
		return l, false, nil
	}
	a := coefs[0]
	out := model.Literal{Var: vars[0], Type: l.Type, Bound: (l.Bound - constant) / a}
	if a < 0 {
		if l.Type == model.LowerBound {
			out.Type = model.UpperBound
		} else {
			out.Type = model.LowerBound
		}
	}
	return out, true, nil
}

func literalTag(t model.BoundType) Tag {
	if t == model.LowerBound {
		return TagLowerLiteral
	}
	return TagUpperLiteral
}

// rows resolves the linear form onto active variables and appends its rows.
func (b *builder) rows(vars []int, coefs []float64, tags []Tag, lhs, rhs float64, sense Sense) error {
	rv, rc, constant, err := b.model.Resolve(vars, coefs)
	if err != nil {
		return symerr.Wrap(symerr.ErrCodeInvalidModel, err, "constraint #%d", b.cons)
	}
	if !model.IsInfinite(lhs) {
		lhs -= constant
	}
	if !model.IsInfinite(rhs) {
		rhs -= constant
	}
	return b.rawRows(rv, rc, tags, lhs, rhs, sense)
}

// rawRows appends the rows for lhs <= sum(coefs*vars) <= rhs over active
// variables. Equalities give one row; ranged rows give up to two rows in
// <= form, the lower one negated.
func (b *builder) rawRows(vars []int, coefs []float64, tags []Tag, lhs, rhs float64, sense Sense) error {
	if len(vars) == 0 {
		return nil
	}
	if model.IsInfinite(lhs) && model.IsInfinite(rhs) {
		return nil
	}

	if model.EQ(lhs, rhs) {
		s := SenseEquation
		if sense >= SenseXOR {
			s = sense
		}
		b.appendRow(vars, coefs, tags, 1, rhs, s)
		return nil
	}

	s := SenseInequality
	if sense == SenseBDisjType2 {
		s = sense
	}
	if !model.IsInfinite(lhs) {
		b.appendRow(vars, coefs, tags, -1, -lhs, s)
	}
	if !model.IsInfinite(rhs) {
		b.appendRow(vars, coefs, tags, 1, rhs, s)
	}
	return nil
}

func (b *builder) appendRow(vars []int, coefs []float64, tags []Tag, sign, rhs float64, sense Sense) {
	mat := b.mat
	begin := len(mat.Entries)
	for i, v := range vars {
		e := Entry{Col: mat.ColOf[v], Coef: sign * coefs[i]}
		if tags != nil {
			e.Tag = tags[i]
		}
		mat.Entries = append(mat.Entries, e)
	}
	mat.Rows = append(mat.Rows, Row{
		Sense: sense,
		Rhs:   rhs,
		Begin: begin,
		End:   len(mat.Entries),
		Cons:  b.cons,
	})
}

// cmpFloat orders floats with Epsilon ties.
func cmpFloat(a, b float64) int {
	if model.EQ(a, b) {
		return 0
	}
	if a < b {
		return -1
	}
	return 1
}

func colorEntries(mat *Matrix) {
	order := make([]int, len(mat.Entries))
	for i := range order {
		order[i] = i
	}
	keyCmp := func(a, b int) int {
		ea, eb := mat.Entries[a], mat.Entries[b]
		return cmp.Or(cmp.Compare(ea.Tag, eb.Tag), cmpFloat(ea.Coef, eb.Coef))
	}
	slices.SortStableFunc(order, keyCmp)

	color := -1
	for i, idx := range order {
		if i == 0 || keyCmp(order[i-1], idx) != 0 {
			color++
		}
		mat.Entries[idx].Color = color
	}
	mat.NumCoefColors = color + 1
}

func colorRows(mat *Matrix) {
	order := make([]int, len(mat.Rows))
	for i := range order {
		order[i] = i
	}
	keyCmp := func(a, b int) int {
		ra, rb := mat.Rows[a], mat.Rows[b]
		return cmp.Or(cmp.Compare(ra.Sense, rb.Sense), cmpFloat(ra.Rhs, rb.Rhs))
	}
	slices.SortStableFunc(order, keyCmp)

	color := -1
	for i, idx := range order {
		if i == 0 || keyCmp(order[i-1], idx) != 0 {
			color++
		}
		mat.Rows[idx].Color = color
	}
	mat.NumRowColors = color + 1
}

type varKey struct {
	obj, lb, ub float64
	typ         model.VarType
	ncons       int
}

func compareVarKeys(a, b varKey) int {
	return cmp.Or(
		cmpFloat(a.obj, b.obj),
		cmpFloat(a.lb, b.lb),
		cmpFloat(a.ub, b.ub),
		cmp.Compare(a.typ, b.typ),
		cmp.Compare(a.ncons, b.ncons),
	)
}

// colorVars assigns column colors. Columns whose type is fixed, and
// columns whose bounds coincide, get a color of their own after all shared
// colors.
func colorVars(m *model.Model, mat *Matrix, opts Options) {
	n := len(mat.Vars)
	mat.VarColors = make([]int, n)

	var counts []int
	if opts.UseColumnCounts {
		counts = mat.ColumnCounts()
	}

	keys := make([]varKey, n)
	var free, fixed []int
	for col, v := range mat.Vars {
		mv := m.Vars[v]
		typ := mv.Type
		if mv.IsBinary() {
			typ = model.Binary
		}
		if opts.FixedTypes.Has(typ) || mv.IsFixed() {
			fixed = append(fixed, col)
			continue
		}
		keys[col] = varKey{obj: mv.Obj, lb: clampInf(mv.Lower), ub: clampInf(mv.Upper), typ: typ}
		if counts != nil {
			keys[col].ncons = counts[col]
		}
		free = append(free, col)
	}

	slices.SortStableFunc(free, func(a, b int) int { return compareVarKeys(keys[a], keys[b]) })
	color := -1
	for i, col := range free {
		if i == 0 || compareVarKeys(keys[free[i-1]], keys[col]) != 0 {
			color++
		}
		mat.VarColors[col] = color
	}
	for _, col := range fixed {
		color++
		mat.VarColors[col] = color
	}
	mat.NumVarColors = color + 1
}

func clampInf(v float64) float64 {
	if model.IsInfinite(v) {
		return math.Copysign(model.Infinity, v)
	}
	return v
}
