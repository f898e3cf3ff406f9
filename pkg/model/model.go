package model

import (
	"errors"
	"fmt"
	"math"

	symerr "github.com/matzehuels/symtower/pkg/errors"
)

// Infinity is the magnitude at which a bound or side is considered infinite.
const Infinity = 1e20

// Epsilon is the absolute tolerance for comparing coefficients and bounds.
const Epsilon = 1e-9

var (
	// ErrUnknownVar is returned when a constraint references a variable index
	// outside the model.
	ErrUnknownVar = errors.New("unknown variable")

	// ErrAggregationCycle is returned when aggregated variables form a cycle.
	ErrAggregationCycle = errors.New("aggregation cycle")

	// ErrDuplicateName is returned when two variables share a name.
	ErrDuplicateName = errors.New("duplicate variable name")
)

// IsInfinite reports whether v is at or beyond +/-Infinity.
func IsInfinite(v float64) bool {
	return math.Abs(v) >= Infinity
}

// EQ reports whether a and b are equal within Epsilon. Infinite values are
// equal when they have the same sign.
func EQ(a, b float64) bool {
	if IsInfinite(a) || IsInfinite(b) {
		return IsInfinite(a) && IsInfinite(b) && (a > 0) == (b > 0)
	}
	return math.Abs(a-b) <= Epsilon
}

// VarType is the integrality type of a variable.
type VarType int

const (
	Binary VarType = iota
	Integer
	Implicit
	Continuous
)

// String returns the lowercase name used in model files.
func (t VarType) String() string {
	switch t {
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	case Implicit:
		return "implicit"
	case Continuous:
		return "continuous"
	}
	return fmt.Sprintf("vartype(%d)", int(t))
}

// ParseVarType parses the names produced by VarType.String. The empty
// string parses as Continuous.
func ParseVarType(s string) (VarType, error) {
	switch s {
	case "binary", "bin", "b":
		return Binary, nil
	case "integer", "int", "i":
		return Integer, nil
	case "implicit", "implint":
		return Implicit, nil
	case "continuous", "cont", "c", "":
		return Continuous, nil
	}
	return 0, symerr.New(symerr.ErrCodeInvalidModel, "unknown variable type %q", s)
}

// TypeMask is a set of variable types.
type TypeMask uint8

const (
	MaskBinary     TypeMask = 1 << Binary
	MaskInteger    TypeMask = 1 << Integer
	MaskImplicit   TypeMask = 1 << Implicit
	MaskContinuous TypeMask = 1 << Continuous
)

// Has reports whether t is in the mask.
func (m TypeMask) Has(t VarType) bool { return m&(1<<t) != 0 }

// Aggregation expresses a variable as Scalar*Vars[Of] + Constant.
type Aggregation struct {
	Of       int
	Scalar   float64
	Constant float64
}

// Var is a single problem variable. Bounds are global bounds.
type Var struct {
	Name  string
	Type  VarType
	Lower float64
	Upper float64
	Obj   float64

	// Aggr is non-nil for variables that were aggregated away.
	Aggr *Aggregation
}

// IsBinary reports whether v is a binary variable. Integer variables with
// bounds [0,1] count as binary.
func (v Var) IsBinary() bool {
	if v.Type == Binary {
		return true
	}
	return v.Type != Continuous && EQ(v.Lower, 0) && EQ(v.Upper, 1)
}

// IsFixed reports whether the bounds of v coincide.
func (v Var) IsFixed() bool {
	return EQ(v.Lower, v.Upper)
}

// Model is a mixed-integer program. The zero value is an empty model ready
// for AddVar and AddConstraint.
type Model struct {
	Name        string
	Vars        []Var
	Constraints []Constraint

	// Pricers is the number of active variable pricers. Column generation
	// invalidates symmetries computed on the current variable set.
	Pricers int

	// Reoptimization marks a model solved repeatedly with changing
	// objectives.
	Reoptimization bool

	byName map[string]int
}

// New creates an empty model.
func New(name string) *Model {
	return &Model{Name: name}
}

// AddVar appends a variable and returns its index.
func (m *Model) AddVar(v Var) int {
	if m.byName == nil {
		m.byName = make(map[string]int)
	}
	if v.Name == "" {
		v.Name = fmt.Sprintf("x%d", len(m.Vars))
	}
	if v.Type == Binary {
		v.Lower = math.Max(v.Lower, 0)
		v.Upper = math.Min(v.Upper, 1)
	}
	m.byName[v.Name] = len(m.Vars)
	m.Vars = append(m.Vars, v)
	return len(m.Vars) - 1
}

// AddBinary is shorthand for AddVar with a [0,1] binary.
func (m *Model) AddBinary(name string, obj float64) int {
	return m.AddVar(Var{Name: name, Type: Binary, Lower: 0, Upper: 1, Obj: obj})
}

// AddConstraint appends a constraint and returns its index.
func (m *Model) AddConstraint(c Constraint) int {
	m.Constraints = append(m.Constraints, c)
	return len(m.Constraints) - 1
}

// VarIndex looks up a variable by name.
func (m *Model) VarIndex(name string) (int, bool) {
	if m.byName == nil || len(m.byName) != len(m.Vars) {
		m.reindex()
	}
	i, ok := m.byName[name]
	return i, ok
}

func (m *Model) reindex() {
	m.byName = make(map[string]int, len(m.Vars))
	for i, v := range m.Vars {
		m.byName[v.Name] = i
	}
}

// NumVars returns the number of variables, active or not.
func (m *Model) NumVars() int { return len(m.Vars) }

// IsActive reports whether variable i is part of the active problem.
func (m *Model) IsActive(i int) bool {
	return i >= 0 && i < len(m.Vars) && m.Vars[i].Aggr == nil
}

// ActiveVars returns the indices of all active variables with binaries
// first. Within each group the model order is kept.
func (m *Model) ActiveVars() (vars []int, nbin int) {
	for i, v := range m.Vars {
		if v.Aggr == nil && v.IsBinary() {
			vars = append(vars, i)
		}
	}
	nbin = len(vars)
	for i, v := range m.Vars {
		if v.Aggr == nil && !v.IsBinary() {
			vars = append(vars, i)
		}
	}
	return vars, nbin
}

// ActiveConstraints returns the constraints that are not disabled.
func (m *Model) ActiveConstraints() []Constraint {
	out := make([]Constraint, 0, len(m.Constraints))
	for _, c := range m.Constraints {
		if !c.IsDisabled() {
			out = append(out, c)
		}
	}
	return out
}

// Resolve rewrites the linear form sum(coefs[i]*vars[i]) in terms of active
// variables. Coefficients of repeated variables are merged and zero
// coefficients dropped; the accumulated constant is returned separately.
// A nil coefs slice means all coefficients are one.
func (m *Model) Resolve(vars []int, coefs []float64) (outVars []int, outCoefs []float64, constant float64, err error) {
	pos := make(map[int]int, len(vars))
	for i, v := range vars {
		c := 1.0
		if coefs != nil {
			c = coefs[i]
		}
		av, scalar, off, err := m.resolveVar(v)
		if err != nil {
			return nil, nil, 0, err
		}
		constant += c * off
		if av < 0 || scalar == 0 {
			continue
		}
		if p, ok := pos[av]; ok {
			outCoefs[p] += c * scalar
			continue
		}
		pos[av] = len(outVars)
		outVars = append(outVars, av)
		outCoefs = append(outCoefs, c*scalar)
	}

	n := 0
	for i := range outVars {
		if math.Abs(outCoefs[i]) > Epsilon {
			outVars[n] = outVars[i]
			outCoefs[n] = outCoefs[i]
			n++
		}
	}
	return outVars[:n], outCoefs[:n], constant, nil
}

// resolveVar follows the aggregation chain of v. It returns -1 as the
// active variable if v collapses to a constant.
func (m *Model) resolveVar(v int) (active int, scalar, constant float64, err error) {
	scalar = 1
	for steps := 0; ; steps++ {
		if v < 0 || v >= len(m.Vars) {
			return 0, 0, 0, fmt.Errorf("%w: %d", ErrUnknownVar, v)
		}
		if steps > len(m.Vars) {
			return 0, 0, 0, fmt.Errorf("%w at %q", ErrAggregationCycle, m.Vars[v].Name)
		}
		a := m.Vars[v].Aggr
		if a == nil {
			return v, scalar, constant, nil
		}
		constant += scalar * a.Constant
		scalar *= a.Scalar
		if a.Scalar == 0 {
			return -1, 0, constant, nil
		}
		v = a.Of
	}
}

// Validate checks structural consistency: names are unique, bounds are
// ordered, aggregations resolve and every constraint references existing
// variables with matching slice lengths.
func (m *Model) Validate() error {
	seen := make(map[string]bool, len(m.Vars))
	for i, v := range m.Vars {
		if seen[v.Name] {
			return symerr.Wrap(symerr.ErrCodeInvalidModel, ErrDuplicateName, "variable %q", v.Name)
		}
		seen[v.Name] = true
		if v.Lower > v.Upper+Epsilon {
			return symerr.New(symerr.ErrCodeInvalidModel, "variable %q has lower bound %g above upper bound %g", v.Name, v.Lower, v.Upper)
		}
		if _, _, _, err := m.resolveVar(i); err != nil {
			return symerr.Wrap(symerr.ErrCodeInvalidModel, err, "variable %q", v.Name)
		}
	}
	for i, c := range m.Constraints {
		if err := c.validate(len(m.Vars)); err != nil {
			name := c.ConsName()
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return symerr.Wrap(symerr.ErrCodeInvalidModel, err, "constraint %s (%s)", name, c.Kind())
		}
	}
	return nil
}
