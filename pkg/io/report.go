package io

import (
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/symbreak"
	"github.com/matzehuels/symtower/pkg/symmetry"
)

// Report is the serializable outcome of a symmetry session. Variables are
// given by name.
type Report struct {
	Model    string `json:"model" toml:"model" yaml:"model"`
	Disabled string `json:"disabled,omitempty" toml:"disabled,omitempty" yaml:"disabled,omitempty"`

	// Generators holds each generator in cycle notation.
	Generators  [][][]string       `json:"generators,omitempty" toml:"generators,omitempty" yaml:"generators,omitempty"`
	Orbits      [][]string         `json:"orbits,omitempty" toml:"orbits,omitempty" yaml:"orbits,omitempty"`
	Components  []ComponentRecord  `json:"components,omitempty" toml:"components,omitempty" yaml:"components,omitempty"`
	Constraints []ConstraintRecord `json:"constraints,omitempty" toml:"constraints,omitempty" yaml:"constraints,omitempty"`

	FixedZero []string `json:"fixed_zero,omitempty" toml:"fixed_zero,omitempty" yaml:"fixed_zero,omitempty"`
	FixedOne  []string `json:"fixed_one,omitempty" toml:"fixed_one,omitempty" yaml:"fixed_one,omitempty"`

	Stats symmetry.Stats `json:"stats" toml:"stats" yaml:"stats"`
}

// ComponentRecord describes one component of the group.
type ComponentRecord struct {
	Index      int      `json:"index" toml:"index" yaml:"index"`
	Vars       []string `json:"vars" toml:"vars" yaml:"vars"`
	Generators []int    `json:"generators" toml:"generators" yaml:"generators"`
	Blocked    bool     `json:"blocked,omitempty" toml:"blocked,omitempty" yaml:"blocked,omitempty"`
}

// ConstraintRecord describes one synthesized constraint. Only the fields
// of its kind are set.
type ConstraintRecord struct {
	Kind      string `json:"kind" toml:"kind" yaml:"kind"`
	Name      string `json:"name" toml:"name" yaml:"name"`
	Component int    `json:"component" toml:"component" yaml:"component"`

	// orbitope
	Rows     [][]string `json:"rows,omitempty" toml:"rows,omitempty" yaml:"rows,omitempty"`
	Subgroup bool       `json:"subgroup,omitempty" toml:"subgroup,omitempty" yaml:"subgroup,omitempty"`

	// symresack
	Generator *int     `json:"generator,omitempty" toml:"generator,omitempty" yaml:"generator,omitempty"`
	Support   []string `json:"support,omitempty" toml:"support,omitempty" yaml:"support,omitempty"`
	Images    []string `json:"images,omitempty" toml:"images,omitempty" yaml:"images,omitempty"`

	// weak inequality
	Rep    string   `json:"rep,omitempty" toml:"rep,omitempty" yaml:"rep,omitempty"`
	Others []string `json:"others,omitempty" toml:"others,omitempty" yaml:"others,omitempty"`
}

// NewReport collects the state of s. conss are the constraints the session
// emitted, usually the content of a tree.Store.
func NewReport(m *model.Model, s *symmetry.Session, conss []symbreak.Constraint) *Report {
	names := func(idx []int) []string {
		out := make([]string, len(idx))
		for i, v := range idx {
			out[i] = m.Vars[v].Name
		}
		return out
	}

	r := &Report{Model: m.Name, Stats: s.Stats()}
	if err := s.Disabled(); err != nil {
		r.Disabled = err.Error()
	}

	if g := s.Group(); g != nil {
		for p := range g.Perms {
			var cycles [][]string
			for _, c := range g.Cycles(p) {
				vars := make([]int, len(c))
				for i, pos := range c {
					vars[i] = g.Vars[pos]
				}
				cycles = append(cycles, names(vars))
			}
			r.Generators = append(r.Generators, cycles)
		}
		for _, orbit := range s.Orbits() {
			r.Orbits = append(r.Orbits, names(orbit))
		}
		comps := s.Components()
		for c := 0; c < comps.Len(); c++ {
			vars := make([]int, 0)
			for _, pos := range comps.Vars(c) {
				vars = append(vars, g.Vars[pos])
			}
			r.Components = append(r.Components, ComponentRecord{
				Index:      c,
				Vars:       names(vars),
				Generators: append([]int(nil), comps.Generators(c)...),
				Blocked:    comps.IsBlocked(c),
			})
		}
	}

	for _, c := range conss {
		rec := ConstraintRecord{Kind: c.Kind().String(), Name: c.ConsName()}
		switch c := c.(type) {
		case *symbreak.Orbitope:
			rec.Component, rec.Subgroup = c.Component, c.Subgroup
			for _, row := range c.Vars {
				rec.Rows = append(rec.Rows, names(row))
			}
		case *symbreak.Symresack:
			gen := c.Generator
			rec.Component, rec.Generator = c.Component, &gen
			rec.Support, rec.Images = names(c.Support), names(c.Images)
		case *symbreak.WeakInequality:
			rec.Component = c.Component
			rec.Rep, rec.Others = m.Vars[c.Rep].Name, names(c.Others)
		}
		r.Constraints = append(r.Constraints, rec)
	}

	zeros, ones := s.GloballyFixedVars()
	if len(zeros) > 0 {
		r.FixedZero = names(zeros)
	}
	if len(ones) > 0 {
		r.FixedOne = names(ones)
	}
	return r
}

// WriteReport encodes r in format f.
func WriteReport(r *Report, w io.Writer, f Format) error {
	if err := encode(w, f, r); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// ExportReport writes r to path in the format given by its extension.
func ExportReport(r *Report, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()
	return WriteReport(r, file, f)
}
