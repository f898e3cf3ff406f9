package encode

import "fmt"

// Sense is the relation of a matrix row. Senses from SenseXOR on mark rows
// derived from logical constraints so they never collide with plain linear
// rows.
type Sense int

const (
	SenseUnknown Sense = iota
	SenseEquation
	SenseInequality
	SenseXOR
	SenseAnd
	SenseOr
	SenseBDisjType1
	SenseBDisjType2
)

var senseNames = [...]string{"unknown", "=", "<=", "xor", "and", "or", "bdisj1", "bdisj2"}

// String returns a short symbol for the sense.
func (s Sense) String() string {
	if s >= 0 && int(s) < len(senseNames) {
		return senseNames[s]
	}
	return fmt.Sprintf("sense(%d)", int(s))
}

// Tag distinguishes nonzeros that carry more than a coefficient.
type Tag uint8

const (
	TagNone Tag = iota
	TagLowerLiteral
	TagUpperLiteral
)

// Entry is one nonzero of the matrix.
type Entry struct {
	Col   int
	Coef  float64
	Tag   Tag
	Color int
}

// Row is one matrix row. Its nonzeros are Entries[Begin:End].
type Row struct {
	Sense Sense
	Rhs   float64
	Color int
	Begin int
	End   int
	// Cons is the index of the originating constraint in the model.
	Cons int
}

// Matrix is the colored representation of a model. Rows and nonzeros are
// stored in flat arrays and reference columns by position.
type Matrix struct {
	// Vars maps column position to model variable index. Binary columns
	// come first.
	Vars []int
	// NBin is the number of leading binary columns.
	NBin int
	// ColOf maps model variable index to column position, or -1 for
	// variables outside the active problem.
	ColOf []int

	VarColors    []int
	NumVarColors int

	Rows         []Row
	Entries      []Entry
	NumRowColors int

	NumCoefColors int
}

// NumCols returns the number of columns.
func (m *Matrix) NumCols() int { return len(m.Vars) }

// RowEntries returns the nonzeros of row i.
func (m *Matrix) RowEntries(i int) []Entry {
	r := m.Rows[i]
	return m.Entries[r.Begin:r.End]
}

// ColumnCounts returns, per column, the number of rows it appears in.
func (m *Matrix) ColumnCounts() []int {
	counts := make([]int, len(m.Vars))
	for _, e := range m.Entries {
		counts[e.Col]++
	}
	return counts
}
