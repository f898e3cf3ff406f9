package io

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/matzehuels/symtower/pkg/model"
)

var senseNames = map[model.BoundType]string{
	model.LowerBound: "ge",
	model.UpperBound: "le",
}

// WriteModel encodes m in format f. Infinite bounds and sides are left
// out, so the output can be read back with [ReadModel] in every format.
func WriteModel(m *model.Model, w io.Writer, f Format) error {
	out := modelFile{
		Name:           m.Name,
		Pricers:        m.Pricers,
		Reoptimization: m.Reoptimization,
		Vars:           make([]varRecord, len(m.Vars)),
		Constraints:    make([]consRecord, len(m.Constraints)),
	}
	names := func(idx []int) []string {
		s := make([]string, len(idx))
		for i, v := range idx {
			s[i] = m.Vars[v].Name
		}
		return s
	}

	for i, v := range m.Vars {
		rec := varRecord{Name: v.Name, Type: v.Type.String(), Obj: v.Obj}
		if v.Lower != 0 {
			rec.Lower = ptr(v.Lower)
		}
		switch {
		case v.Type == model.Binary && v.Upper == 1:
		case v.Type != model.Binary && v.Upper >= model.Infinity:
		default:
			rec.Upper = ptr(v.Upper)
		}
		if a := v.Aggr; a != nil {
			rec.Aggr = &aggrRecord{Of: m.Vars[a.Of].Name, Scalar: a.Scalar, Constant: a.Constant}
		}
		out.Vars[i] = rec
	}

	for i, c := range m.Constraints {
		rec := consRecord{Kind: c.Kind().String(), Name: c.ConsName(), Disabled: c.IsDisabled()}
		switch c := c.(type) {
		case *model.Linear:
			rec.Vars, rec.Coefs = names(c.Vars), c.Coefs
			rec.Lhs, rec.Rhs = finite(c.Lhs), finite(c.Rhs)
		case *model.Linking:
			rec.Link, rec.Vars, rec.Vals = m.Vars[c.Link].Name, names(c.Bins), c.Vals
		case *model.SetPPC:
			rec.Set, rec.Vars = c.Type.String(), names(c.Vars)
		case *model.LogicOr:
			rec.Vars = names(c.Vars)
		case *model.Knapsack:
			rec.Vars, rec.Weights, rec.Capacity = names(c.Vars), c.Weights, c.Capacity
		case *model.VarBound:
			rec.X, rec.Y, rec.Coef = m.Vars[c.X].Name, m.Vars[c.Y].Name, c.Coef
			rec.Lhs, rec.Rhs = finite(c.Lhs), finite(c.Rhs)
		case *model.XOR:
			rec.Vars, rec.Parity = names(c.Vars), c.Parity
			if c.IntVar >= 0 {
				rec.IntVar = m.Vars[c.IntVar].Name
			}
		case *model.And:
			rec.Resultant, rec.Vars = m.Vars[c.Resultant].Name, names(c.Operands)
		case *model.Or:
			rec.Resultant, rec.Vars = m.Vars[c.Resultant].Name, names(c.Operands)
		case *model.BoundDisjunction:
			rec.Literals = make([]literalRecord, len(c.Literals))
			for j, l := range c.Literals {
				rec.Literals[j] = literalRecord{Var: m.Vars[l.Var].Name, Sense: senseNames[l.Type], Bound: l.Bound}
			}
		case *model.Opaque:
			rec.Handler, rec.Vars = c.Handler, names(c.Vars)
		}
		out.Constraints[i] = rec
	}

	if err := encode(w, f, out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportModel writes m to path in the format given by its extension.
func ExportModel(m *model.Model, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return WriteModel(m, file, f)
}

// ptr clamps infinite values to +/-model.Infinity, which every format can
// represent.
func ptr(v float64) *float64 {
	if model.IsInfinite(v) {
		v = math.Copysign(model.Infinity, v)
	}
	return &v
}

// finite returns nil for infinite values.
func finite(v float64) *float64 {
	if model.IsInfinite(v) {
		return nil
	}
	return &v
}
