package symmetry

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/symtower/pkg/encode"
	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/group"
	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/observability"
	"github.com/matzehuels/symtower/pkg/orbital"
	"github.com/matzehuels/symtower/pkg/symbreak"
)

// Session holds the symmetry state of one solve. It is driven by a single
// search and is not safe for concurrent use.
type Session struct {
	model *model.Model
	opts  Options
	log   *log.Logger

	computed bool
	disabled error

	mat   *encode.Matrix
	grp   *group.Group
	comps *group.Components
	prop  *orbital.Propagator

	report     *symbreak.Report
	addedConss bool
	ofEnabled  bool
	restarts   int

	computeTime time.Duration
	orbitVars   int
}

// NewSession validates opts and creates a session for m. The group is not
// computed until a call needs it.
func NewSession(m *model.Model, opts Options) (*Session, error) {
	if m == nil {
		return nil, symerr.New(symerr.ErrCodeInvalidInput, "model is nil")
	}
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		model:     m,
		opts:      opts,
		log:       opts.Logger,
		ofEnabled: opts.Usage.Has(UsageOrbitalFixing),
		orbitVars: -1,
	}, nil
}

// Options returns the effective options.
func (s *Session) Options() Options { return s.opts }

// Disabled returns the reason symmetry handling was switched off, or nil.
func (s *Session) Disabled() error { return s.disabled }

// Computed reports whether a group is available.
func (s *Session) Computed() bool { return s.computed }

// Group returns the computed group, or nil.
func (s *Session) Group() *group.Group { return s.grp }

// Components returns the components of the computed group, or nil.
func (s *Session) Components() *group.Components { return s.comps }

// Matrix returns the colored matrix the group was computed on, or nil.
func (s *Session) Matrix() *encode.Matrix { return s.mat }

// Report returns the result of constraint synthesis, or nil if no
// constraints were added.
func (s *Session) Report() *symbreak.Report { return s.report }

// OrbitalFixingEnabled reports whether Propagate can tighten bounds.
func (s *Session) OrbitalFixingEnabled() bool {
	return s.prop != nil && s.prop.Enabled()
}

// Compute detects the symmetry group if it has not been computed yet.
// Unsupported models and oracle failures disable the session and return
// nil. Errors are returned for cancellation and internal inconsistencies.
func (s *Session) Compute(ctx context.Context) error {
	if s.computed || s.disabled != nil {
		return nil
	}
	hooks := observability.Symmetry()
	hooks.OnComputeStart(ctx, s.model.Name, s.model.NumVars())

	start := time.Now()
	err := s.compute(ctx)
	s.computeTime += time.Since(start)

	ngens, log10 := 0, 0.0
	if s.grp != nil {
		ngens, log10 = s.grp.NumGenerators(), s.grp.Log10Size
	}
	reported := err
	if reported == nil {
		reported = s.disabled
	}
	hooks.OnComputeComplete(ctx, s.model.Name, ngens, log10, time.Since(start), reported)
	return err
}

func (s *Session) compute(ctx context.Context) error {
	if s.opts.Usage == UsageNone {
		s.disable(symerr.New(symerr.ErrCodeUnsupported, "symmetry handling switched off"))
		return nil
	}
	if _, nbin := s.model.ActiveVars(); nbin == 0 {
		s.disable(symerr.New(symerr.ErrCodeUnsupportedModel, "no active binary variables"))
		return nil
	}

	mat, err := encode.Encode(s.model, encode.Options{
		FixedTypes:      AllTypes &^ s.opts.SymTypes,
		UseColumnCounts: s.opts.UseColumnCounts,
	})
	if err != nil {
		if symerr.IsSoftDisable(err) {
			s.disable(err)
			return nil
		}
		return err
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := s.opts.Oracle.ComputeAutomorphisms(ctx, mat, s.opts.MaxGenerators)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if !symerr.Is(err, symerr.ErrCodeOracle) {
			err = symerr.Wrap(symerr.ErrCodeOracle, err, "automorphism computation failed")
		}
		s.disable(err)
		return nil
	}
	if res.LimitReached {
		if len(res.Generators) == 0 {
			limit := &symerr.LimitError{Limit: s.opts.MaxGenerators}
			s.disable(symerr.Wrap(symerr.ErrCodeGeneratorLimit, limit, "no generators within limit"))
			return nil
		}
		s.log.Warn("generator limit reached, continuing with partial group",
			"limit", s.opts.MaxGenerators, "generators", len(res.Generators))
	}

	g, err := group.Build(res.Generators, group.DomainOf(mat), group.Options{
		Matrix:            mat,
		CheckSymmetries:   s.opts.CheckSymmetries,
		Compress:          s.opts.Compress,
		CompressThreshold: s.opts.CompressThreshold,
		CompressMinVars:   s.opts.CompressMinVars,
		Log10Size:         res.Log10GroupSize,
	})
	if err != nil {
		return err
	}

	s.mat, s.grp = mat, g
	s.comps = group.ComputeComponents(g)
	s.computed = true

	s.log.Info("symmetry detected",
		"model", s.model.Name,
		"generators", g.NumGenerators(),
		"log10_size", g.Log10Size,
		"components", s.comps.Len(),
		"binary_affected", g.BinaryAffected)

	if s.opts.DisplayNormOrbitVars {
		orbits := group.ComputeOrbits(g, nil, nil)
		s.orbitVars = len(orbits.Vars)
		s.log.Info("variables in non-trivial orbits", "count", s.orbitVars)
	}

	if s.opts.Usage.Has(UsageOrbitalFixing) {
		s.prop = orbital.New(g, s.comps, orbital.Options{
			StrictFixings: s.opts.StrictFixings,
			Logger:        s.log,
		})
		s.prop.SetEnabled(s.ofEnabled)
		if s.opts.Notifier != nil && s.prop.Enabled() {
			s.prop.Watch(s.opts.Notifier)
		}
	}
	return nil
}

func (s *Session) disable(reason error) {
	s.disabled = reason
	s.log.Debug("symmetry handling disabled", "model", s.model.Name, "reason", reason)
}

// handlesConstraints reports whether constraints may still be added.
func (s *Session) handlesConstraints() bool {
	return s.opts.Usage.Has(UsageConstraints) && !s.addedConss
}

// AddConstraints synthesizes symmetry-breaking constraints into em, once
// per solve. It computes the group if needed. A nil report means nothing
// was synthesized.
func (s *Session) AddConstraints(ctx context.Context, em symbreak.Emitter) (*symbreak.Report, error) {
	if !s.handlesConstraints() {
		return s.report, nil
	}
	if err := s.Compute(ctx); err != nil {
		return nil, err
	}
	if s.disabled != nil || s.grp.NumGenerators() == 0 || !s.grp.BinaryAffected {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := symbreak.Synthesize(s.grp, s.comps, em, symbreak.Options{
		DetectOrbitopes: s.opts.DetectOrbitopes,
		DetectSubgroups: s.opts.DetectSubgroups,
		AddWeakConss:    s.opts.AddWeakConss,
		AddSymresacks:   s.opts.AddSymresacks,
		Logger:          s.log,
	})
	if err != nil {
		return r, err
	}
	s.report = r
	s.addedConss = true

	hooks := observability.Symmetry()
	for _, kc := range []struct {
		kind  symbreak.Kind
		count int
	}{
		{symbreak.KindOrbitope, r.Orbitopes + r.SubgroupOrbitopes},
		{symbreak.KindSymresack, r.Symresacks},
		{symbreak.KindWeakInequality, r.WeakInequalities},
	} {
		if kc.count > 0 {
			hooks.OnSynthesize(ctx, kc.kind.String(), kc.count)
		}
	}
	return r, nil
}

// InitPresolve handles timing 0: constraints and the group for orbital
// fixing are set up before presolving.
func (s *Session) InitPresolve(ctx context.Context, em symbreak.Emitter) error {
	if s.handlesConstraints() && s.opts.AddConssTiming == TimingBeforePresolve {
		if _, err := s.AddConstraints(ctx, em); err != nil {
			return err
		}
	}
	if s.opts.Usage.Has(UsageOrbitalFixing) && s.opts.OrbitalFixingTiming == TimingBeforePresolve {
		return s.Compute(ctx)
	}
	return nil
}

// Presolve handles timing 1 and, with PerformPresolving, runs orbital
// fixing on the global fixings.
func (s *Session) Presolve(ctx context.Context, h orbital.Host, em symbreak.Emitter) (orbital.Result, error) {
	if s.handlesConstraints() && s.opts.AddConssTiming == TimingDuringPresolve {
		if _, err := s.AddConstraints(ctx, em); err != nil {
			return orbital.Result{}, err
		}
	}
	if !s.opts.Usage.Has(UsageOrbitalFixing) || s.opts.OrbitalFixingTiming > TimingDuringPresolve {
		return orbital.Result{}, nil
	}
	if err := s.Compute(ctx); err != nil {
		return orbital.Result{}, err
	}
	if !s.opts.PerformPresolving || s.prop == nil {
		return orbital.Result{}, nil
	}
	return s.observe(ctx, func() orbital.Result { return s.prop.Presolve(h) }), nil
}

// ExitPresolve adds the constraints if no earlier call did.
func (s *Session) ExitPresolve(ctx context.Context, em symbreak.Emitter) error {
	if !s.handlesConstraints() {
		return nil
	}
	_, err := s.AddConstraints(ctx, em)
	return err
}

// Propagate runs orbital fixing at the current node of h. The group is
// computed on the first call that passes the node checks.
func (s *Session) Propagate(ctx context.Context, h orbital.Host) (orbital.Result, error) {
	if !s.ofEnabled || s.disabled != nil || !s.opts.Usage.Has(UsageOrbitalFixing) {
		return orbital.Result{}, nil
	}
	node := h.CurrentNode()
	if node.IsRoot() || h.Stage() != orbital.StageSolving || node.Probing || node.Repropagation {
		return orbital.Result{}, nil
	}
	if err := s.Compute(ctx); err != nil {
		return orbital.Result{}, err
	}
	if s.prop == nil {
		return orbital.Result{}, nil
	}
	return s.observe(ctx, func() orbital.Result { return s.prop.Propagate(h) }), nil
}

func (s *Session) observe(ctx context.Context, run func() orbital.Result) orbital.Result {
	start := time.Now()
	res := run()
	if res.Ran {
		observability.Symmetry().OnPropagate(ctx, res.NFixedZero, res.NFixedOne, res.Cutoff, time.Since(start))
	}
	return res
}

// Restart prepares the session for a restart of the search. With
// RecomputeRestart the group is dropped and recomputed lazily, and a soft
// disable is lifted. Orbital fixing stays off after a restart when
// symmetry-breaking constraints are in use.
func (s *Session) Restart() {
	s.restarts++
	if !s.opts.RecomputeRestart {
		return
	}
	if s.opts.Usage.Has(UsageConstraints) && s.ofEnabled {
		s.ofEnabled = false
		s.log.Debug("orbital fixing disabled after restart", "model", s.model.Name)
	}
	s.release()
	s.disabled = nil
	s.log.Debug("symmetry will be recomputed", "model", s.model.Name, "restarts", s.restarts)
}

// Free releases all state. The session can be reused for a new solve.
func (s *Session) Free() {
	s.release()
	s.disabled = nil
	s.report = nil
	s.addedConss = false
	s.ofEnabled = s.opts.Usage.Has(UsageOrbitalFixing)
	s.restarts = 0
	s.computeTime = 0
}

func (s *Session) release() {
	if s.prop != nil && s.opts.Notifier != nil {
		s.prop.Unwatch(s.opts.Notifier)
	}
	s.mat, s.grp, s.comps, s.prop = nil, nil, nil, nil
	s.computed = false
	s.orbitVars = -1
}

// GloballyFixedVars returns the model variables orbital fixing has seen
// globally fixed to 0 and to 1.
func (s *Session) GloballyFixedVars() (zeros, ones []int) {
	if s.prop == nil {
		return nil, nil
	}
	return s.prop.GloballyFixed()
}

// Orbits returns the non-trivial orbits of the full group as model
// variable indices, or nil before computation.
func (s *Session) Orbits() [][]int {
	if s.grp == nil {
		return nil
	}
	o := group.ComputeOrbits(s.grp, nil, nil)
	out := make([][]int, o.Len())
	for i := range out {
		for _, p := range o.Orbit(i) {
			out[i] = append(out[i], s.grp.Vars[p])
		}
	}
	return out
}
