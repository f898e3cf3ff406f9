// Package pipeline runs a complete symmetry session against the in-memory
// search host.
//
// This package drives the load → detect → presolve → branch → report
// sequence that the CLI and the HTTP API share. By centralizing this logic,
// both entry points see identical timings and identical reports.
//
// # Stages
//
// A run walks the host through the stages a real search would:
//
//  1. Init: the session's pre-presolve hooks fire (constraints and
//     symmetry computation at timing 0).
//  2. Presolving: global fixings are applied to the host, then the
//     session presolves and finally adds any pending constraints.
//  3. Solving: each branching decision creates a child of the previous
//     node, and orbital fixing runs at every new node.
//
// Global fixings are only seen by orbital fixing when symmetry has been
// computed before they are made, i.e. with of_timing 0.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	res, err := runner.Execute(ctx, m, pipeline.Options{
//	    Symmetry:   symmetry.DefaultOptions(),
//	    Branchings: []pipeline.Assignment{{Var: "x1", Value: 0}},
//	    Formats:    []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := res.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"strconv"
	"strings"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	symio "github.com/matzehuels/symtower/pkg/io"
	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/orbital"
	"github.com/matzehuels/symtower/pkg/render"
	"github.com/matzehuels/symtower/pkg/symmetry"
	"github.com/matzehuels/symtower/pkg/tree"
)

// Format constants for output artifacts.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// DefaultPNGScale is the scale factor for PNG artifacts.
const DefaultPNGScale = 2.0

// ValidFormats is the set of supported artifact formats.
var ValidFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
	FormatTOML: true,
	FormatYAML: true,
}

// ValidateFormat checks that format is a supported artifact format.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return symerr.New(symerr.ErrCodeInvalidInput, "invalid format: %s (must be dot, svg, png, pdf, json, toml or yaml)", format)
	}
	return nil
}

// ValidateFormats checks every entry of formats.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Assignment sets a binary variable, given by name, to 0 or 1.
type Assignment struct {
	Var   string `json:"var" toml:"var" yaml:"var"`
	Value int    `json:"value" toml:"value" yaml:"value"`
}

// String returns the assignment as "name=value".
func (a Assignment) String() string { return fmt.Sprintf("%s=%d", a.Var, a.Value) }

// ParseAssignment parses "name=0" or "name=1".
func ParseAssignment(s string) (Assignment, error) {
	name, val, ok := strings.Cut(s, "=")
	if !ok {
		return Assignment{}, symerr.New(symerr.ErrCodeInvalidInput, "assignment %q must have the form name=0 or name=1", s)
	}
	name = strings.TrimSpace(name)
	if err := symerr.ValidateName(name); err != nil {
		return Assignment{}, err
	}
	v, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil || (v != 0 && v != 1) {
		return Assignment{}, symerr.New(symerr.ErrCodeInvalidInput, "assignment %q: value must be 0 or 1", s)
	}
	return Assignment{Var: name, Value: v}, nil
}

// ParseAssignments parses every entry of list.
func ParseAssignments(list []string) ([]Assignment, error) {
	out := make([]Assignment, 0, len(list))
	for _, s := range list {
		a, err := ParseAssignment(s)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

// resolve returns the model variable and bound change of a.
func (a Assignment) resolve(m *model.Model) (int, model.BoundType, float64, error) {
	v, ok := m.VarIndex(a.Var)
	if !ok {
		return 0, 0, 0, symerr.New(symerr.ErrCodeNotFound, "unknown variable %q", a.Var)
	}
	if !m.Vars[v].IsBinary() {
		return 0, 0, 0, symerr.New(symerr.ErrCodeInvalidInput, "variable %q is not binary", a.Var)
	}
	if a.Value == 0 {
		return v, model.UpperBound, 0, nil
	}
	return v, model.LowerBound, 1, nil
}

// Options contains all configuration for one run.
type Options struct {
	Symmetry symmetry.Options `json:"symmetry"`

	// Fixings are applied globally while presolving.
	Fixings []Assignment `json:"fixings,omitempty"`
	// Branchings are replayed as a path of child nodes.
	Branchings []Assignment `json:"branchings,omitempty"`

	// Formats lists the artifacts to produce. Report formats (json, toml,
	// yaml) encode the report; the others draw it.
	Formats []string       `json:"formats,omitempty"`
	Render  render.Options `json:"render"`
}

// Validate checks the options.
func (o *Options) Validate() error {
	if err := o.Symmetry.Validate(); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// Step is the outcome of one replayed branching decision.
type Step struct {
	Assignment Assignment     `json:"assignment"`
	Node       int64          `json:"node"`
	Result     orbital.Result `json:"result"`
}

// Result holds everything a run produced.
type Result struct {
	Model    *model.Model      `json:"-"`
	Session  *symmetry.Session `json:"-"`
	Tree     *tree.Tree        `json:"-"`
	Store    *tree.Store       `json:"-"`
	Presolve orbital.Result    `json:"presolve"`
	Steps    []Step            `json:"steps,omitempty"`
	Report   *symio.Report     `json:"report"`

	// Artifacts maps a format to its encoded output.
	Artifacts map[string][]byte `json:"-"`
}
