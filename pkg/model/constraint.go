package model

import (
	"fmt"
)

// Kind identifies a constraint variant.
type Kind int

const (
	KindLinear Kind = iota
	KindLinking
	KindSetPPC
	KindLogicOr
	KindKnapsack
	KindVarBound
	KindXOR
	KindAnd
	KindOr
	KindBoundDisjunction
	KindOpaque
)

var kindNames = [...]string{
	KindLinear:           "linear",
	KindLinking:          "linking",
	KindSetPPC:           "setppc",
	KindLogicOr:          "logicor",
	KindKnapsack:         "knapsack",
	KindVarBound:         "varbound",
	KindXOR:              "xor",
	KindAnd:              "and",
	KindOr:               "or",
	KindBoundDisjunction: "bounddisjunction",
	KindOpaque:           "opaque",
}

// String returns the constraint handler name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind maps a constraint handler name to its Kind. Unknown names map
// to KindOpaque.
func ParseKind(s string) Kind {
	for k, name := range kindNames {
		if name == s {
			return Kind(k)
		}
	}
	return KindOpaque
}

// Base holds the fields shared by every constraint.
type Base struct {
	Name string
	// Disabled constraints are skipped by ActiveConstraints.
	Disabled bool
}

// ConsName returns the constraint name.
func (b Base) ConsName() string { return b.Name }

// IsDisabled reports whether the constraint is switched off.
func (b Base) IsDisabled() bool { return b.Disabled }

// Constraint is the closed set of constraint variants. Only types in this
// package implement it.
type Constraint interface {
	Kind() Kind
	ConsName() string
	IsDisabled() bool
	validate(nvars int) error
}

// Linear is lhs <= sum(Coefs[i]*Vars[i]) <= rhs. Infinite sides are
// represented with +/-Infinity.
type Linear struct {
	Base
	Vars  []int
	Coefs []float64
	Lhs   float64
	Rhs   float64
}

// Linking ties an integer variable to a unary encoding:
// Link = sum(Vals[i]*Bins[i]) and sum(Bins) = 1.
type Linking struct {
	Base
	Link int
	Bins []int
	Vals []float64
}

// SetPPCType distinguishes set partitioning, packing and covering rows.
type SetPPCType int

const (
	Partitioning SetPPCType = iota // sum = 1
	Packing                        // sum <= 1
	Covering                       // sum >= 1
)

// String returns the lowercase name of the set type.
func (t SetPPCType) String() string {
	switch t {
	case Partitioning:
		return "partitioning"
	case Packing:
		return "packing"
	case Covering:
		return "covering"
	}
	return fmt.Sprintf("setppc(%d)", int(t))
}

// SetPPC is a set partitioning, packing or covering row over binaries.
type SetPPC struct {
	Base
	Type SetPPCType
	Vars []int
}

// LogicOr is the clause sum(Vars) >= 1.
type LogicOr struct {
	Base
	Vars []int
}

// Knapsack is sum(Weights[i]*Vars[i]) <= Capacity over binaries.
type Knapsack struct {
	Base
	Vars     []int
	Weights  []int64
	Capacity int64
}

// VarBound is lhs <= X + Coef*Y <= rhs.
type VarBound struct {
	Base
	X, Y     int
	Coef     float64
	Lhs, Rhs float64
}

// XOR is Vars[0] xor ... xor Vars[n-1] = Parity. IntVar, if not -1, is the
// auxiliary integer used by the linear relaxation
// sum(Vars) - 2*IntVar = Parity.
type XOR struct {
	Base
	Vars   []int
	Parity bool
	IntVar int
}

// And is Resultant = Operands[0] and ... and Operands[n-1].
type And struct {
	Base
	Resultant int
	Operands  []int
}

// Or is Resultant = Operands[0] or ... or Operands[n-1].
type Or struct {
	Base
	Resultant int
	Operands  []int
}

// BoundType selects the direction of a bound literal.
type BoundType int

const (
	LowerBound BoundType = iota // x >= bound
	UpperBound                  // x <= bound
)

// Literal is a single bound literal of a disjunction.
type Literal struct {
	Var   int
	Type  BoundType
	Bound float64
}

// BoundDisjunction is Literals[0] or ... or Literals[n-1].
type BoundDisjunction struct {
	Base
	Literals []Literal
}

// Opaque stands for a constraint of a handler symtower cannot encode.
type Opaque struct {
	Base
	Handler string
	Vars    []int
}

func (c *Linear) Kind() Kind           { return KindLinear }
func (c *Linking) Kind() Kind          { return KindLinking }
func (c *SetPPC) Kind() Kind           { return KindSetPPC }
func (c *LogicOr) Kind() Kind          { return KindLogicOr }
func (c *Knapsack) Kind() Kind         { return KindKnapsack }
func (c *VarBound) Kind() Kind         { return KindVarBound }
func (c *XOR) Kind() Kind              { return KindXOR }
func (c *And) Kind() Kind              { return KindAnd }
func (c *Or) Kind() Kind               { return KindOr }
func (c *BoundDisjunction) Kind() Kind { return KindBoundDisjunction }
func (c *Opaque) Kind() Kind           { return KindOpaque }
