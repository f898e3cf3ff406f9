package symbreak

import "fmt"

// Kind identifies a symmetry-breaking constraint type.
type Kind int

const (
	KindOrbitope Kind = iota
	KindSymresack
	KindWeakInequality
)

func (k Kind) String() string {
	switch k {
	case KindOrbitope:
		return "orbitope"
	case KindSymresack:
		return "symresack"
	case KindWeakInequality:
		return "weak"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Constraint is a synthesized constraint. Variables are model variable
// indices.
type Constraint interface {
	Kind() Kind
	ConsName() string
}

// Orbitope requires the columns of Vars to be sorted lexicographically
// non-increasing. Vars is row-major.
type Orbitope struct {
	Name       string
	Component  int
	Vars       [][]int
	Generators []int
	// Subgroup is set when the orbitope covers a subgroup of its
	// component found by subgroup detection.
	Subgroup bool
}

func (o *Orbitope) Kind() Kind       { return KindOrbitope }
func (o *Orbitope) ConsName() string { return o.Name }

// Rows returns the number of rows.
func (o *Orbitope) Rows() int { return len(o.Vars) }

// Cols returns the number of columns.
func (o *Orbitope) Cols() int {
	if len(o.Vars) == 0 {
		return 0
	}
	return len(o.Vars[0])
}

// Symresack requires x to be lexicographically not smaller than its image
// under one generator. Support lists the moved variables in position
// order and Images their images.
type Symresack struct {
	Name      string
	Component int
	Generator int
	Support   []int
	Images    []int
}

func (s *Symresack) Kind() Kind       { return KindSymresack }
func (s *Symresack) ConsName() string { return s.Name }

// WeakInequality states x[Rep] >= x[o] for every o in Others.
type WeakInequality struct {
	Name      string
	Component int
	Rep       int
	Others    []int
}

func (w *WeakInequality) Kind() Kind       { return KindWeakInequality }
func (w *WeakInequality) ConsName() string { return w.Name }

// Emitter receives synthesized constraints.
type Emitter interface {
	EmitConstraint(c Constraint) error
}

// EmitterFunc adapts a function to Emitter.
type EmitterFunc func(c Constraint) error

func (f EmitterFunc) EmitConstraint(c Constraint) error { return f(c) }
