package model

import (
	"fmt"
)

func checkVars(vars []int, nvars int) error {
	for _, v := range vars {
		if v < 0 || v >= nvars {
			return fmt.Errorf("%w: %d", ErrUnknownVar, v)
		}
	}
	return nil
}

func checkLen(what string, got, want int) error {
	if got != want {
		return fmt.Errorf("%s has %d entries, want %d", what, got, want)
	}
	return nil
}

func (c *Linear) validate(nvars int) error {
	if err := checkLen("coefficients", len(c.Coefs), len(c.Vars)); err != nil {
		return err
	}
	if c.Lhs > c.Rhs+Epsilon {
		return fmt.Errorf("lhs %g exceeds rhs %g", c.Lhs, c.Rhs)
	}
	return checkVars(c.Vars, nvars)
}

func (c *Linking) validate(nvars int) error {
	if err := checkLen("values", len(c.Vals), len(c.Bins)); err != nil {
		return err
	}
	if err := checkVars([]int{c.Link}, nvars); err != nil {
		return err
	}
	return checkVars(c.Bins, nvars)
}

func (c *SetPPC) validate(nvars int) error {
	if c.Type < Partitioning || c.Type > Covering {
		return fmt.Errorf("unknown set type %d", int(c.Type))
	}
	return checkVars(c.Vars, nvars)
}

func (c *LogicOr) validate(nvars int) error { return checkVars(c.Vars, nvars) }

func (c *Knapsack) validate(nvars int) error {
	if err := checkLen("weights", len(c.Weights), len(c.Vars)); err != nil {
		return err
	}
	return checkVars(c.Vars, nvars)
}

func (c *VarBound) validate(nvars int) error {
	if c.Lhs > c.Rhs+Epsilon {
		return fmt.Errorf("lhs %g exceeds rhs %g", c.Lhs, c.Rhs)
	}
	return checkVars([]int{c.X, c.Y}, nvars)
}

func (c *XOR) validate(nvars int) error {
	if c.IntVar >= 0 {
		if err := checkVars([]int{c.IntVar}, nvars); err != nil {
			return err
		}
	}
	return checkVars(c.Vars, nvars)
}

func (c *And) validate(nvars int) error {
	if err := checkVars([]int{c.Resultant}, nvars); err != nil {
		return err
	}
	return checkVars(c.Operands, nvars)
}

func (c *Or) validate(nvars int) error {
	if err := checkVars([]int{c.Resultant}, nvars); err != nil {
		return err
	}
	return checkVars(c.Operands, nvars)
}

func (c *BoundDisjunction) validate(nvars int) error {
	for _, l := range c.Literals {
		if l.Type != LowerBound && l.Type != UpperBound {
			return fmt.Errorf("unknown bound type %d", int(l.Type))
		}
		if err := checkVars([]int{l.Var}, nvars); err != nil {
			return err
		}
	}
	return nil
}

func (c *Opaque) validate(nvars int) error { return checkVars(c.Vars, nvars) }

// Vars returns the variable indices a constraint references, including
// resultants and auxiliary variables. The slice is freshly allocated.
func Vars(c Constraint) []int {
	switch c := c.(type) {
	case *Linear:
		return append([]int(nil), c.Vars...)
	case *Linking:
		return append([]int{c.Link}, c.Bins...)
	case *SetPPC:
		return append([]int(nil), c.Vars...)
	case *LogicOr:
		return append([]int(nil), c.Vars...)
	case *Knapsack:
		return append([]int(nil), c.Vars...)
	case *VarBound:
		return []int{c.X, c.Y}
	case *XOR:
		out := append([]int(nil), c.Vars...)
		if c.IntVar >= 0 {
			out = append(out, c.IntVar)
		}
		return out
	case *And:
		return append([]int{c.Resultant}, c.Operands...)
	case *Or:
		return append([]int{c.Resultant}, c.Operands...)
	case *BoundDisjunction:
		out := make([]int, len(c.Literals))
		for i, l := range c.Literals {
			out[i] = l.Var
		}
		return out
	case *Opaque:
		return append([]int(nil), c.Vars...)
	}
	return nil
}
