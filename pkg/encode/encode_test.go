package encode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/model"
)

func threeBinaries() (*model.Model, []int) {
	m := model.New("triple")
	x := []int{m.AddBinary("x1", 1), m.AddBinary("x2", 1), m.AddBinary("x3", 1)}
	return m, x
}

func TestEncodeSymmetricRow(t *testing.T) {
	m, x := threeBinaries()
	m.AddConstraint(&model.Linear{Vars: x, Coefs: []float64{1, 1, 1}, Lhs: -model.Infinity, Rhs: 2})

	mat, err := Encode(m, Options{})
	require.NoError(t, err)

	assert.Equal(t, 3, mat.NumCols())
	assert.Equal(t, 3, mat.NBin)
	assert.Equal(t, []int{0, 0, 0}, mat.VarColors)
	assert.Equal(t, 1, mat.NumVarColors)
	require.Len(t, mat.Rows, 1)
	assert.Equal(t, SenseInequality, mat.Rows[0].Sense)
	assert.InDelta(t, 2.0, mat.Rows[0].Rhs, 1e-12)
	assert.Equal(t, 1, mat.NumCoefColors)
}

func TestEncodeRangedRow(t *testing.T) {
	m, x := threeBinaries()
	m.AddConstraint(&model.Linear{Vars: x[:2], Coefs: []float64{2, 3}, Lhs: 1, Rhs: 4})

	mat, err := Encode(m, Options{})
	require.NoError(t, err)
	require.Len(t, mat.Rows, 2)

	lower := mat.RowEntries(0)
	assert.InDelta(t, -2.0, lower[0].Coef, 1e-12)
	assert.InDelta(t, -3.0, lower[1].Coef, 1e-12)
	assert.InDelta(t, -1.0, mat.Rows[0].Rhs, 1e-12)
	assert.InDelta(t, 4.0, mat.Rows[1].Rhs, 1e-12)

	// colors follow sorted coefficient values: -3 < -2 < 2 < 3
	assert.Equal(t, 1, lower[0].Color)
	assert.Equal(t, 0, lower[1].Color)
	assert.Equal(t, 4, mat.NumCoefColors)
}

func TestEncodeColorsIgnoreConstraintOrder(t *testing.T) {
	build := func(reverse bool) *Matrix {
		m, x := threeBinaries()
		rows := []model.Constraint{
			&model.Linear{Vars: x[:2], Coefs: []float64{5, 5}, Lhs: -model.Infinity, Rhs: 7},
			&model.SetPPC{Type: model.Partitioning, Vars: x},
		}
		if reverse {
			rows[0], rows[1] = rows[1], rows[0]
		}
		for _, r := range rows {
			m.AddConstraint(r)
		}
		mat, err := Encode(m, Options{})
		require.NoError(t, err)
		return mat
	}

	a, b := build(false), build(true)
	colorOf := func(mat *Matrix, sense Sense) int {
		for _, r := range mat.Rows {
			if r.Sense == sense {
				return r.Color
			}
		}
		return -1
	}
	assert.Equal(t, colorOf(a, SenseEquation), colorOf(b, SenseEquation))
	assert.Equal(t, colorOf(a, SenseInequality), colorOf(b, SenseInequality))
}

func TestEncodeVarColors(t *testing.T) {
	m := model.New("colors")
	a := m.AddBinary("a", 1)
	b := m.AddBinary("b", 2)
	c := m.AddBinary("c", 1)
	y := m.AddVar(model.Var{Name: "y", Type: model.Continuous, Upper: 5})
	z := m.AddVar(model.Var{Name: "z", Type: model.Continuous, Upper: 5})
	f := m.AddVar(model.Var{Name: "f", Type: model.Integer, Lower: 3, Upper: 3})
	m.AddConstraint(&model.Linear{Vars: []int{a, b, c, y, z, f}, Coefs: []float64{1, 1, 1, 1, 1, 1}, Lhs: -model.Infinity, Rhs: 10})

	t.Run("by key", func(t *testing.T) {
		mat, err := Encode(m, Options{})
		require.NoError(t, err)
		col := func(v int) int { return mat.VarColors[mat.ColOf[v]] }
		assert.Equal(t, col(a), col(c))
		assert.NotEqual(t, col(a), col(b))
		assert.Equal(t, col(y), col(z))
		assert.NotEqual(t, col(f), col(y), "fixed variables get their own color")
	})

	t.Run("fixed types", func(t *testing.T) {
		mat, err := Encode(m, Options{FixedTypes: model.MaskContinuous})
		require.NoError(t, err)
		col := func(v int) int { return mat.VarColors[mat.ColOf[v]] }
		assert.NotEqual(t, col(y), col(z))
		assert.Equal(t, col(a), col(c))
	})
}

func TestEncodeColumnCounts(t *testing.T) {
	m, x := threeBinaries()
	m.AddConstraint(&model.LogicOr{Vars: x})
	m.AddConstraint(&model.LogicOr{Vars: x[:2]})

	mat, err := Encode(m, Options{UseColumnCounts: true})
	require.NoError(t, err)
	assert.Equal(t, mat.VarColors[0], mat.VarColors[1])
	assert.NotEqual(t, mat.VarColors[0], mat.VarColors[2])
}

func TestEncodeLogicalSenses(t *testing.T) {
	m := model.New("logic")
	x := []int{m.AddBinary("x1", 0), m.AddBinary("x2", 0), m.AddBinary("r", 0)}
	m.AddConstraint(&model.XOR{Vars: x[:2], Parity: true, IntVar: -1})
	m.AddConstraint(&model.And{Resultant: x[2], Operands: x[:2]})
	m.AddConstraint(&model.Or{Resultant: x[2], Operands: x[:2]})

	mat, err := Encode(m, Options{})
	require.NoError(t, err)
	require.Len(t, mat.Rows, 3)
	assert.Equal(t, SenseXOR, mat.Rows[0].Sense)
	assert.InDelta(t, 1.0, mat.Rows[0].Rhs, 1e-12)
	assert.Equal(t, SenseAnd, mat.Rows[1].Sense)
	assert.Equal(t, SenseOr, mat.Rows[2].Sense)

	and := mat.RowEntries(1)
	assert.InDelta(t, 2.0, and[len(and)-1].Coef, 1e-12, "resultant is weighted 2")
	assert.Equal(t, 3, mat.NumRowColors)
}

func TestEncodeBoundDisjunction(t *testing.T) {
	m := model.New("bdisj")
	x := m.AddVar(model.Var{Name: "x", Type: model.Integer, Upper: 10})
	y := m.AddVar(model.Var{Name: "y", Type: model.Integer, Upper: 10})

	t.Run("type 1", func(t *testing.T) {
		mm := *m
		mm.Constraints = []model.Constraint{&model.BoundDisjunction{Literals: []model.Literal{
			{Var: x, Type: model.LowerBound, Bound: 4},
			{Var: y, Type: model.UpperBound, Bound: 4},
		}}}
		mat, err := Encode(&mm, Options{})
		require.NoError(t, err)
		require.Len(t, mat.Rows, 1)
		assert.Equal(t, SenseBDisjType1, mat.Rows[0].Sense)
		e := mat.RowEntries(0)
		assert.Equal(t, TagLowerLiteral, e[0].Tag)
		assert.Equal(t, TagUpperLiteral, e[1].Tag)
		assert.NotEqual(t, e[0].Color, e[1].Color, "literal direction separates equal bounds")
	})

	t.Run("type 2", func(t *testing.T) {
		mm := *m
		mm.Constraints = []model.Constraint{&model.BoundDisjunction{Literals: []model.Literal{
			{Var: x, Type: model.LowerBound, Bound: 7},
			{Var: x, Type: model.UpperBound, Bound: 2},
		}}}
		mat, err := Encode(&mm, Options{})
		require.NoError(t, err)
		require.Len(t, mat.Rows, 2)
		assert.Equal(t, SenseBDisjType2, mat.Rows[0].Sense)
		assert.InDelta(t, -2.0, mat.Rows[0].Rhs, 1e-12)
		assert.InDelta(t, 7.0, mat.Rows[1].Rhs, 1e-12)
	})

	t.Run("repeated beyond pair", func(t *testing.T) {
		mm := *m
		mm.Constraints = []model.Constraint{&model.BoundDisjunction{Literals: []model.Literal{
			{Var: x, Type: model.LowerBound, Bound: 7},
			{Var: x, Type: model.UpperBound, Bound: 2},
			{Var: y, Type: model.UpperBound, Bound: 2},
		}}}
		_, err := Encode(&mm, Options{})
		assert.True(t, symerr.Is(err, symerr.ErrCodeUnsupportedModel))
	})
}

func TestEncodeRefuses(t *testing.T) {
	tests := []struct {
		name  string
		setup func(m *model.Model, x []int)
	}{
		{"no constraints", func(m *model.Model, x []int) {}},
		{"pricers", func(m *model.Model, x []int) {
			m.AddConstraint(&model.LogicOr{Vars: x})
			m.Pricers = 1
		}},
		{"reoptimization", func(m *model.Model, x []int) {
			m.AddConstraint(&model.LogicOr{Vars: x})
			m.Reoptimization = true
		}},
		{"opaque constraint", func(m *model.Model, x []int) {
			m.AddConstraint(&model.LogicOr{Vars: x})
			m.AddConstraint(&model.Opaque{Base: model.Base{Name: "sos"}, Handler: "sos1", Vars: x})
		}},
		{"disabled only", func(m *model.Model, x []int) {
			m.AddConstraint(&model.LogicOr{Base: model.Base{Disabled: true}, Vars: x})
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, x := threeBinaries()
			tt.setup(m, x)
			mat, err := Encode(m, Options{})
			assert.Nil(t, mat)
			require.Error(t, err)
			assert.True(t, symerr.IsSoftDisable(err))
		})
	}
}

func TestEncodeAggregatedVariables(t *testing.T) {
	m, x := threeBinaries()
	// w = 1 - x1
	w := m.AddVar(model.Var{Name: "w", Type: model.Binary, Lower: 0, Upper: 1, Aggr: &model.Aggregation{Of: x[0], Scalar: -1, Constant: 1}})
	m.AddConstraint(&model.Linear{Vars: []int{w, x[1]}, Coefs: []float64{1, 1}, Lhs: -model.Infinity, Rhs: 1})

	mat, err := Encode(m, Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, mat.NumCols(), "aggregated variable is not a column")
	assert.Equal(t, -1, mat.ColOf[w])

	e := mat.RowEntries(0)
	require.Len(t, e, 2)
	assert.InDelta(t, -1.0, e[0].Coef, 1e-12)
	assert.InDelta(t, 0.0, mat.Rows[0].Rhs, 1e-12)
}
