package io

import (
	"fmt"
	"io"
	"os"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/model"
)

var setTypes = map[string]model.SetPPCType{
	"partitioning": model.Partitioning,
	"packing":      model.Packing,
	"covering":     model.Covering,
}

var senses = map[string]model.BoundType{
	"ge": model.LowerBound,
	"le": model.UpperBound,
}

// ReadModel decodes a model in format f from r.
//
// Variable and constraint names are validated, every name reference must
// resolve, and the finished model must pass [model.Model.Validate].
// Decoding failures are INVALID_FORMAT errors; everything else is
// INVALID_MODEL. ReadModel does not close r.
func ReadModel(r io.Reader, f Format) (*model.Model, error) {
	var data modelFile
	if err := decode(r, f, &data); err != nil {
		return nil, symerr.Wrap(symerr.ErrCodeInvalidFormat, err, "decode %s model", f)
	}
	m, err := data.build()
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ImportModel reads the model file at path. The format follows the file
// extension.
func ImportModel(path string) (*model.Model, error) {
	if err := symerr.ValidateModelPath(path); err != nil {
		return nil, err
	}
	f, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, symerr.Wrap(symerr.ErrCodeFileNotFound, err, "model %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()
	return ReadModel(file, f)
}

func (d *modelFile) build() (*model.Model, error) {
	m := model.New(d.Name)
	m.Pricers = d.Pricers
	m.Reoptimization = d.Reoptimization

	for _, rec := range d.Vars {
		if err := symerr.ValidateName(rec.Name); err != nil {
			return nil, err
		}
		if _, dup := m.VarIndex(rec.Name); dup {
			return nil, symerr.Wrap(symerr.ErrCodeInvalidModel, model.ErrDuplicateName, "variable %q", rec.Name)
		}
		t, err := model.ParseVarType(rec.Type)
		if err != nil {
			return nil, err
		}
		v := model.Var{Name: rec.Name, Type: t, Upper: model.Infinity, Obj: rec.Obj}
		if t == model.Binary {
			v.Upper = 1
		}
		if rec.Lower != nil {
			v.Lower = *rec.Lower
		}
		if rec.Upper != nil {
			v.Upper = *rec.Upper
		}
		m.AddVar(v)
	}

	// aggregations may point forward
	for i, rec := range d.Vars {
		if rec.Aggr == nil {
			continue
		}
		of, ok := m.VarIndex(rec.Aggr.Of)
		if !ok {
			return nil, symerr.New(symerr.ErrCodeInvalidModel, "variable %q is aggregated to unknown variable %q", rec.Name, rec.Aggr.Of)
		}
		m.Vars[i].Aggr = &model.Aggregation{Of: of, Scalar: rec.Aggr.Scalar, Constant: rec.Aggr.Constant}
	}

	for i, rec := range d.Constraints {
		c, err := rec.build(m)
		if err != nil {
			name := rec.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			return nil, symerr.Wrap(symerr.ErrCodeInvalidModel, err, "constraint %s", name)
		}
		m.AddConstraint(c)
	}
	return m, nil
}

// resolver turns names into variable indices and remembers the first
// unknown name.
type resolver struct {
	m   *model.Model
	err error
}

func (r *resolver) one(name string) int {
	i, ok := r.m.VarIndex(name)
	if !ok && r.err == nil {
		r.err = symerr.New(symerr.ErrCodeInvalidModel, "unknown variable %q", name)
	}
	return i
}

func (r *resolver) many(names []string) []int {
	out := make([]int, len(names))
	for i, n := range names {
		out[i] = r.one(n)
	}
	return out
}

func side(p *float64, inf float64) float64 {
	if p == nil {
		return inf
	}
	return *p
}

func (rec *consRecord) build(m *model.Model) (model.Constraint, error) {
	if rec.Name != "" {
		if err := symerr.ValidateName(rec.Name); err != nil {
			return nil, err
		}
	}
	base := model.Base{Name: rec.Name, Disabled: rec.Disabled}
	r := &resolver{m: m}
	lhs, rhs := side(rec.Lhs, -model.Infinity), side(rec.Rhs, model.Infinity)

	var c model.Constraint
	switch model.ParseKind(rec.Kind) {
	case model.KindLinear:
		c = &model.Linear{Base: base, Vars: r.many(rec.Vars), Coefs: rec.Coefs, Lhs: lhs, Rhs: rhs}
	case model.KindLinking:
		c = &model.Linking{Base: base, Link: r.one(rec.Link), Bins: r.many(rec.Vars), Vals: rec.Vals}
	case model.KindSetPPC:
		t, ok := setTypes[rec.Set]
		if !ok {
			return nil, symerr.New(symerr.ErrCodeInvalidModel, "unknown set type %q", rec.Set)
		}
		c = &model.SetPPC{Base: base, Type: t, Vars: r.many(rec.Vars)}
	case model.KindLogicOr:
		c = &model.LogicOr{Base: base, Vars: r.many(rec.Vars)}
	case model.KindKnapsack:
		c = &model.Knapsack{Base: base, Vars: r.many(rec.Vars), Weights: rec.Weights, Capacity: rec.Capacity}
	case model.KindVarBound:
		c = &model.VarBound{Base: base, X: r.one(rec.X), Y: r.one(rec.Y), Coef: rec.Coef, Lhs: lhs, Rhs: rhs}
	case model.KindXOR:
		intVar := -1
		if rec.IntVar != "" {
			intVar = r.one(rec.IntVar)
		}
		c = &model.XOR{Base: base, Vars: r.many(rec.Vars), Parity: rec.Parity, IntVar: intVar}
	case model.KindAnd:
		c = &model.And{Base: base, Resultant: r.one(rec.Resultant), Operands: r.many(rec.Vars)}
	case model.KindOr:
		c = &model.Or{Base: base, Resultant: r.one(rec.Resultant), Operands: r.many(rec.Vars)}
	case model.KindBoundDisjunction:
		lits := make([]model.Literal, len(rec.Literals))
		for i, l := range rec.Literals {
			t, ok := senses[l.Sense]
			if !ok {
				return nil, symerr.New(symerr.ErrCodeInvalidModel, "unknown literal sense %q (want ge or le)", l.Sense)
			}
			lits[i] = model.Literal{Var: r.one(l.Var), Type: t, Bound: l.Bound}
		}
		c = &model.BoundDisjunction{Base: base, Literals: lits}
	default:
		handler := rec.Handler
		if handler == "" {
			handler = rec.Kind
		}
		c = &model.Opaque{Base: base, Handler: handler, Vars: r.many(rec.Vars)}
	}
	if r.err != nil {
		return nil, r.err
	}
	return c, nil
}
