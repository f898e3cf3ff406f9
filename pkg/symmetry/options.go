package symmetry

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symtower/pkg/automorphism"
	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/group"
	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/orbital"
)

// Usage selects the symmetry handling methods.
type Usage int

const (
	// UsageConstraints adds symmetry-breaking constraints.
	UsageConstraints Usage = 1 << iota
	// UsageOrbitalFixing runs orbital fixing.
	UsageOrbitalFixing

	UsageNone Usage = 0
	UsageBoth       = UsageConstraints | UsageOrbitalFixing
)

// Has reports whether u includes x.
func (u Usage) Has(x Usage) bool { return u&x != 0 }

var usageNames = map[string]Usage{
	"none":        UsageNone,
	"constraints": UsageConstraints,
	"of":          UsageOrbitalFixing,
	"both":        UsageBoth,
}

// ParseUsage parses one of none, constraints, of or both, ignoring case.
func ParseUsage(s string) (Usage, error) {
	u, ok := usageNames[strings.ToLower(s)]
	if !ok {
		return 0, symerr.New(symerr.ErrCodeInvalidInput, "invalid usage %q (want none, constraints, of or both)", s)
	}
	return u, nil
}

// Timings for AddConssTiming and OrbitalFixingTiming.
const (
	TimingBeforePresolve = 0
	TimingDuringPresolve = 1
	// TimingAfterPresolve adds constraints when presolving ends.
	TimingAfterPresolve = 2
	// TimingFirstCall computes symmetry at the first propagation call.
	TimingFirstCall = 2
)

// AllTypes allows symmetries to move variables of every type.
const AllTypes = model.MaskBinary | model.MaskInteger | model.MaskImplicit | model.MaskContinuous

// =============================================================================
// Default Values
// =============================================================================

const (
	// DefaultMaxGenerators caps the generators requested from the oracle.
	DefaultMaxGenerators = 1500

	// DefaultCompressThreshold is the largest moved fraction at which the
	// group is compressed.
	DefaultCompressThreshold = group.DefaultCompressThreshold

	// DefaultCompressMinVars is the smallest domain that is compressed.
	DefaultCompressMinVars = group.DefaultCompressMinVars

	// DefaultAddConssTiming adds constraints after presolving.
	DefaultAddConssTiming = TimingAfterPresolve

	// DefaultOrbitalFixingTiming computes symmetry at the first node.
	DefaultOrbitalFixingTiming = TimingFirstCall

	// DefaultUsage enables constraints and orbital fixing.
	DefaultUsage = UsageBoth
)

// =============================================================================
// Options
// =============================================================================

// Options configures a Session. Use DefaultOptions for a complete set of
// defaults; SetDefaults only fills the type mask and runtime fields.
type Options struct {
	// MaxGenerators caps the number of generators; 0 means no cap.
	MaxGenerators int `json:"max_generators" toml:"max_generators" yaml:"max_generators"`
	// CheckSymmetries verifies every generator against the matrix.
	CheckSymmetries bool `json:"check_symmetries" toml:"check_symmetries" yaml:"check_symmetries"`

	DetectOrbitopes bool `json:"detect_orbitopes" toml:"detect_orbitopes" yaml:"detect_orbitopes"`
	DetectSubgroups bool `json:"detect_subgroups" toml:"detect_subgroups" yaml:"detect_subgroups"`
	AddWeakConss    bool `json:"add_weak_conss" toml:"add_weak_conss" yaml:"add_weak_conss"`
	AddSymresacks   bool `json:"add_symresacks" toml:"add_symresacks" yaml:"add_symresacks"`

	// CompressThreshold and CompressMinVars are taken as given, zero
	// included; DefaultOptions sets them.
	Compress          bool    `json:"compress" toml:"compress" yaml:"compress"`
	CompressThreshold float64 `json:"compress_threshold" toml:"compress_threshold" yaml:"compress_threshold"`
	CompressMinVars   int     `json:"compress_min_vars" toml:"compress_min_vars" yaml:"compress_min_vars"`

	// AddConssTiming: 0 before presolving, 1 during, 2 after.
	AddConssTiming int `json:"add_conss_timing" toml:"add_conss_timing" yaml:"add_conss_timing"`
	// OrbitalFixingTiming: 0 before presolving, 1 during, 2 at the first
	// propagation call.
	OrbitalFixingTiming int   `json:"of_timing" toml:"of_timing" yaml:"of_timing"`
	Usage               Usage `json:"usage" toml:"usage" yaml:"usage"`

	RecomputeRestart  bool `json:"recompute_restart" toml:"recompute_restart" yaml:"recompute_restart"`
	PerformPresolving bool `json:"perform_presolving" toml:"perform_presolving" yaml:"perform_presolving"`
	// StrictFixings declares that global fixings made by the host respect
	// the symmetries of the model.
	StrictFixings bool `json:"strict_fixings" toml:"strict_fixings" yaml:"strict_fixings"`

	// SymTypes lists the variable types symmetries may move.
	SymTypes        model.TypeMask `json:"sym_types,omitempty" toml:"sym_types" yaml:"sym_types"`
	UseColumnCounts bool           `json:"use_column_counts" toml:"use_column_counts" yaml:"use_column_counts"`

	// DisplayNormOrbitVars logs the number of variables in non-trivial
	// orbits after detection.
	DisplayNormOrbitVars bool `json:"display_norbit_vars" toml:"display_norbit_vars" yaml:"display_norbit_vars"`

	// Runtime options (not serialized)
	Logger   *log.Logger         `json:"-" toml:"-" yaml:"-"`
	Oracle   automorphism.Oracle `json:"-" toml:"-" yaml:"-"`
	Notifier orbital.Notifier    `json:"-" toml:"-" yaml:"-"`
}

// DefaultOptions returns the default configuration.
func DefaultOptions() Options {
	o := Options{
		MaxGenerators:       DefaultMaxGenerators,
		DetectOrbitopes:     true,
		DetectSubgroups:     true,
		AddWeakConss:        true,
		AddSymresacks:       true,
		Compress:            true,
		CompressThreshold:   DefaultCompressThreshold,
		CompressMinVars:     DefaultCompressMinVars,
		AddConssTiming:      DefaultAddConssTiming,
		OrbitalFixingTiming: DefaultOrbitalFixingTiming,
		Usage:               DefaultUsage,
		RecomputeRestart:    true,
		StrictFixings:       true,
	}
	o.SetDefaults()
	return o
}

// SetDefaults fills an empty type mask and the runtime fields.
func (o *Options) SetDefaults() {
	if o.SymTypes == 0 {
		o.SymTypes = AllTypes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.Oracle == nil {
		o.Oracle = &automorphism.Search{}
	}
}

// Validate checks value ranges.
func (o *Options) Validate() error {
	if o.MaxGenerators < 0 {
		return symerr.New(symerr.ErrCodeInvalidInput, "max_generators must be >= 0, got %d", o.MaxGenerators)
	}
	if o.CompressThreshold < 0 || o.CompressThreshold > 1 {
		return symerr.New(symerr.ErrCodeInvalidInput, "compress_threshold must be in [0,1], got %g", o.CompressThreshold)
	}
	if o.CompressMinVars < 0 {
		return symerr.New(symerr.ErrCodeInvalidInput, "compress_min_vars must be >= 0, got %d", o.CompressMinVars)
	}
	if o.AddConssTiming < TimingBeforePresolve || o.AddConssTiming > TimingAfterPresolve {
		return symerr.New(symerr.ErrCodeInvalidInput, "add_conss_timing must be 0, 1 or 2, got %d", o.AddConssTiming)
	}
	if o.OrbitalFixingTiming < TimingBeforePresolve || o.OrbitalFixingTiming > TimingFirstCall {
		return symerr.New(symerr.ErrCodeInvalidInput, "of_timing must be 0, 1 or 2, got %d", o.OrbitalFixingTiming)
	}
	if o.Usage < UsageNone || o.Usage > UsageBoth {
		return symerr.New(symerr.ErrCodeInvalidInput, "usage must be between 0 and 3, got %d", o.Usage)
	}
	if o.SymTypes&^AllTypes != 0 {
		return symerr.New(symerr.ErrCodeInvalidInput, "sym_types has unknown bits: %d", o.SymTypes)
	}
	return nil
}
