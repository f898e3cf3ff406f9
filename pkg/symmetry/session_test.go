package symmetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/symtower/pkg/automorphism"
	"github.com/matzehuels/symtower/pkg/encode"
	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/observability"
	"github.com/matzehuels/symtower/pkg/orbital"
	"github.com/matzehuels/symtower/pkg/symbreak"
	"github.com/matzehuels/symtower/pkg/tree"
)

// cardinality returns n binaries with sum(x) <= 2.
func cardinality(n int) *model.Model {
	m := model.New("cardinality")
	vars := make([]int, n)
	coefs := make([]float64, n)
	for i := range vars {
		vars[i] = m.AddBinary("", 1)
		coefs[i] = 1
	}
	m.AddConstraint(&model.Linear{Vars: vars, Coefs: coefs, Lhs: -model.Infinity, Rhs: 2})
	return m
}

func fixedOptions(usage Usage, gens ...[]int) Options {
	opts := DefaultOptions()
	opts.Usage = usage
	opts.Oracle = automorphism.Fixed(gens, 0)
	return opts
}

func newSession(t *testing.T, m *model.Model, opts Options) *Session {
	t.Helper()
	s, err := NewSession(m, opts)
	require.NoError(t, err)
	return s
}

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()

	assert.Equal(t, DefaultMaxGenerators, o.MaxGenerators)
	assert.Equal(t, UsageBoth, o.Usage)
	assert.Equal(t, TimingAfterPresolve, o.AddConssTiming)
	assert.Equal(t, TimingFirstCall, o.OrbitalFixingTiming)
	assert.True(t, o.RecomputeRestart)
	assert.True(t, o.Compress)
	assert.False(t, o.PerformPresolving)
	assert.False(t, o.CheckSymmetries)
	assert.Equal(t, AllTypes, o.SymTypes)
	assert.NotNil(t, o.Logger)
	assert.NotNil(t, o.Oracle)
	assert.NoError(t, o.Validate())
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(o *Options)
	}{
		{"negative generators", func(o *Options) { o.MaxGenerators = -1 }},
		{"threshold above one", func(o *Options) { o.CompressThreshold = 1.5 }},
		{"negative min vars", func(o *Options) { o.CompressMinVars = -3 }},
		{"conss timing", func(o *Options) { o.AddConssTiming = 3 }},
		{"of timing", func(o *Options) { o.OrbitalFixingTiming = -1 }},
		{"usage", func(o *Options) { o.Usage = 4 }},
		{"sym types", func(o *Options) { o.SymTypes = 1 << 6 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := DefaultOptions()
			tt.mutate(&o)
			err := o.Validate()
			require.Error(t, err)
			assert.True(t, symerr.Is(err, symerr.ErrCodeInvalidInput))

			_, err = NewSession(cardinality(2), o)
			assert.Error(t, err)
		})
	}
}

func TestOptionsExplicitZero(t *testing.T) {
	o := DefaultOptions()
	o.CompressThreshold = 0
	o.CompressMinVars = 0
	o.SetDefaults()

	assert.Zero(t, o.CompressThreshold)
	assert.Zero(t, o.CompressMinVars)
	assert.NoError(t, o.Validate())
}

func TestParseUsage(t *testing.T) {
	tests := []struct {
		input string
		want  Usage
		ok    bool
	}{
		{"none", UsageNone, true},
		{"constraints", UsageConstraints, true},
		{"OF", UsageOrbitalFixing, true},
		{"both", UsageBoth, true},
		{"", 0, false},
		{"all", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseUsage(tt.input)
		if !tt.ok {
			assert.True(t, symerr.Is(err, symerr.ErrCodeInvalidInput), tt.input)
			continue
		}
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}

func TestNewSessionNilModel(t *testing.T) {
	_, err := NewSession(nil, DefaultOptions())
	assert.True(t, symerr.Is(err, symerr.ErrCodeInvalidInput))
}

func TestComputeWithSearch(t *testing.T) {
	opts := DefaultOptions()
	opts.DisplayNormOrbitVars = true
	opts.CheckSymmetries = true
	s := newSession(t, cardinality(4), opts)

	require.NoError(t, s.Compute(context.Background()))
	require.True(t, s.Computed())
	assert.Nil(t, s.Disabled())

	assert.Equal(t, [][]int{{0, 1, 2, 3}}, s.Orbits())

	info, ok := s.Info()
	require.True(t, ok)
	assert.True(t, info.BinaryAffected)
	assert.Equal(t, 4, info.NBin)
	assert.Equal(t, []int{0, 1, 2, 3}, info.Domain)
	assert.InDelta(t, 1.38, info.Log10GroupSize, 0.01) // log10(4!)
	assert.Len(t, info.ComponentBegins, 2)
	assert.Equal(t, []int{0, 0, 0, 0}, info.VarToComponent)

	st := s.Stats()
	assert.Equal(t, 4, st.OrbitVars)
	assert.Equal(t, 4, st.MovedVars)
	assert.Equal(t, 1, st.Components)
	assert.Positive(t, st.Generators)
}

func TestComputeIsLazyAndOnce(t *testing.T) {
	calls := 0
	opts := DefaultOptions()
	opts.Oracle = automorphism.Func(func(ctx context.Context, mat *encode.Matrix, max int) (*automorphism.Result, error) {
		calls++
		return &automorphism.Result{Generators: [][]int{{1, 0, 2}}}, nil
	})
	s := newSession(t, cardinality(3), opts)
	assert.False(t, s.Computed())

	require.NoError(t, s.Compute(context.Background()))
	require.NoError(t, s.Compute(context.Background()))
	assert.Equal(t, 1, calls)
}

func TestComputeSoftDisable(t *testing.T) {
	failing := automorphism.Func(func(ctx context.Context, mat *encode.Matrix, max int) (*automorphism.Result, error) {
		return nil, errors.New("out of memory")
	})
	capped := automorphism.Func(func(ctx context.Context, mat *encode.Matrix, max int) (*automorphism.Result, error) {
		return &automorphism.Result{LimitReached: true}, nil
	})

	tests := []struct {
		name   string
		model  func() *model.Model
		mutate func(o *Options)
		code   symerr.Code
	}{
		{
			name:   "usage off",
			model:  func() *model.Model { return cardinality(3) },
			mutate: func(o *Options) { o.Usage = UsageNone },
			code:   symerr.ErrCodeUnsupported,
		},
		{
			name: "no binaries",
			model: func() *model.Model {
				m := model.New("int")
				x := m.AddVar(model.Var{Type: model.Integer, Upper: 5})
				y := m.AddVar(model.Var{Type: model.Integer, Upper: 5})
				m.AddConstraint(&model.Linear{Vars: []int{x, y}, Coefs: []float64{1, 1}, Lhs: -model.Infinity, Rhs: 6})
				return m
			},
			code: symerr.ErrCodeUnsupportedModel,
		},
		{
			name: "pricers",
			model: func() *model.Model {
				m := cardinality(3)
				m.Pricers = 1
				return m
			},
			code: symerr.ErrCodeUnsupportedModel,
		},
		{
			name:   "oracle failure",
			model:  func() *model.Model { return cardinality(3) },
			mutate: func(o *Options) { o.Oracle = failing },
			code:   symerr.ErrCodeOracle,
		},
		{
			name:   "limit without generators",
			model:  func() *model.Model { return cardinality(3) },
			mutate: func(o *Options) { o.Oracle = capped },
			code:   symerr.ErrCodeGeneratorLimit,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.mutate != nil {
				tt.mutate(&opts)
			}
			s := newSession(t, tt.model(), opts)
			ctx := context.Background()

			require.NoError(t, s.Compute(ctx))
			require.Error(t, s.Disabled())
			assert.True(t, symerr.Is(s.Disabled(), tt.code), "got %v", s.Disabled())
			assert.False(t, s.Computed())

			_, ok := s.Info()
			assert.False(t, ok)

			var store tree.Store
			r, err := s.AddConstraints(ctx, &store)
			assert.NoError(t, err)
			assert.Nil(t, r)
			assert.Equal(t, 0, store.Len())

			h := tree.New(s.model)
			h.SetStage(orbital.StageSolving)
			_, err = h.Branch(0, model.LowerBound, 1)
			require.NoError(t, err)
			res, err := s.Propagate(ctx, h)
			assert.NoError(t, err)
			assert.False(t, res.Ran)

			assert.NotEmpty(t, s.Stats().DisableReason)
		})
	}
}

func TestComputeLimitWithGenerators(t *testing.T) {
	opts := fixedOptions(UsageBoth, []int{1, 0, 2}, []int{0, 2, 1})
	opts.MaxGenerators = 1
	s := newSession(t, cardinality(3), opts)

	require.NoError(t, s.Compute(context.Background()))
	assert.Nil(t, s.Disabled())
	assert.Equal(t, 1, s.Group().NumGenerators())
}

func TestComputeInternalError(t *testing.T) {
	s := newSession(t, cardinality(3), fixedOptions(UsageBoth, []int{0, 0, 1}))

	err := s.Compute(context.Background())
	require.Error(t, err)
	assert.True(t, symerr.Is(err, symerr.ErrCodeInternal))
	assert.Nil(t, s.Disabled())
}

func TestComputeCheckSymmetries(t *testing.T) {
	// x0 + x1 + 2 x2 <= 2 is not symmetric in x1 and x2
	m := model.New("asym")
	for i := 0; i < 3; i++ {
		m.AddBinary("", 1)
	}
	m.AddConstraint(&model.Linear{Vars: []int{0, 1, 2}, Coefs: []float64{1, 1, 2}, Lhs: -model.Infinity, Rhs: 2})
	opts := fixedOptions(UsageBoth, []int{0, 2, 1})
	opts.CheckSymmetries = true
	s := newSession(t, m, opts)

	err := s.Compute(context.Background())
	assert.True(t, symerr.Is(err, symerr.ErrCodeInternal))
}

func TestComputeCancelled(t *testing.T) {
	s := newSession(t, cardinality(3), DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.Compute(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, s.Disabled())
	assert.False(t, s.Computed())
}

func TestAddConstraints(t *testing.T) {
	// (x0 x1)(x2 x3) is handled by a 2x2 orbitope
	s := newSession(t, cardinality(4), fixedOptions(UsageBoth, []int{1, 0, 3, 2}))
	var store tree.Store
	ctx := context.Background()

	r, err := s.AddConstraints(ctx, &store)
	require.NoError(t, err)
	require.NotNil(t, r)
	assert.Equal(t, 1, r.Orbitopes)
	assert.Equal(t, []symbreak.Coverage{symbreak.CoveredOrbitope}, r.Generators)

	orbitopes := store.ByKind(symbreak.KindOrbitope)
	require.Len(t, orbitopes, 1)
	assert.Equal(t, "orbitope_component0", orbitopes[0].ConsName())

	// once per solve
	again, err := s.AddConstraints(ctx, &store)
	require.NoError(t, err)
	assert.Same(t, r, again)
	assert.Equal(t, 1, store.Len())

	st := s.Stats()
	assert.Equal(t, 1, st.Orbitopes)
	assert.Equal(t, 1, st.Blocked)
	assert.Equal(t, 0, st.Propagation.NAffected)
}

func TestAddConstraintsWithoutConstraintUsage(t *testing.T) {
	s := newSession(t, cardinality(4), fixedOptions(UsageOrbitalFixing, []int{1, 0, 3, 2}))
	var store tree.Store

	r, err := s.AddConstraints(context.Background(), &store)
	require.NoError(t, err)
	assert.Nil(t, r)
	assert.False(t, s.Computed())
	assert.Equal(t, 0, store.Len())
}

func TestAddConstraintsEmitError(t *testing.T) {
	s := newSession(t, cardinality(4), fixedOptions(UsageBoth, []int{1, 0, 3, 2}))
	em := symbreak.EmitterFunc(func(symbreak.Constraint) error { return errors.New("store full") })

	_, err := s.AddConstraints(context.Background(), em)
	assert.Error(t, err)
	assert.Nil(t, s.Report())
}

func TestConstraintTimings(t *testing.T) {
	tests := []struct {
		name   string
		timing int
		// stage after which the constraint is present
		want string
	}{
		{"before presolve", TimingBeforePresolve, "init"},
		{"during presolve", TimingDuringPresolve, "presolve"},
		{"after presolve", TimingAfterPresolve, "exit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := fixedOptions(UsageConstraints, []int{1, 0, 3, 2})
			opts.AddConssTiming = tt.timing
			s := newSession(t, cardinality(4), opts)
			h := tree.New(s.model)
			var store tree.Store
			ctx := context.Background()

			got := ""
			require.NoError(t, s.InitPresolve(ctx, &store))
			if got == "" && store.Len() > 0 {
				got = "init"
			}
			h.SetStage(orbital.StagePresolving)
			_, err := s.Presolve(ctx, h, &store)
			require.NoError(t, err)
			if got == "" && store.Len() > 0 {
				got = "presolve"
			}
			require.NoError(t, s.ExitPresolve(ctx, &store))
			if got == "" && store.Len() > 0 {
				got = "exit"
			}

			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, store.Len())
		})
	}
}

func TestPropagate(t *testing.T) {
	m := cardinality(3)
	h := tree.New(m)
	opts := fixedOptions(UsageOrbitalFixing, []int{1, 2, 0})
	opts.Notifier = h
	s := newSession(t, m, opts)
	ctx := context.Background()

	h.SetStage(orbital.StageSolving)
	res, err := s.Propagate(ctx, h)
	require.NoError(t, err)
	assert.False(t, res.Ran, "root is skipped")
	assert.False(t, s.Computed(), "skipped calls do not compute")

	// x0 = 0 keeps the whole group active; its orbit follows
	_, err = h.Branch(0, model.UpperBound, 0)
	require.NoError(t, err)
	res, err = s.Propagate(ctx, h)
	require.NoError(t, err)
	assert.True(t, res.Ran)
	assert.Equal(t, 2, res.NFixedZero)
	assert.Equal(t, 0.0, h.UpperBound(1))
	assert.Equal(t, 0.0, h.UpperBound(2))
	assert.Equal(t, 1.0, h.GlobalUpperBound(1), "fixings below the root are local")
	assert.True(t, s.OrbitalFixingEnabled())

	res, err = s.Propagate(ctx, h)
	require.NoError(t, err)
	assert.False(t, res.Ran, "node already processed")

	h.SetProbing(true)
	res, err = s.Propagate(ctx, h)
	require.NoError(t, err)
	assert.False(t, res.Ran)

	assert.Equal(t, 1, s.Stats().Propagation.Calls)
	assert.Equal(t, 2, s.Stats().Propagation.NFixedZero)
}

func TestPropagateOutsideSolving(t *testing.T) {
	m := cardinality(3)
	h := tree.New(m)
	s := newSession(t, m, fixedOptions(UsageOrbitalFixing, []int{1, 2, 0}))
	_, err := h.Branch(0, model.LowerBound, 1)
	require.NoError(t, err)

	h.SetStage(orbital.StagePresolving)
	res, err := s.Propagate(context.Background(), h)
	require.NoError(t, err)
	assert.False(t, res.Ran)
	assert.False(t, s.Computed())
}

func TestPresolveFixings(t *testing.T) {
	m := cardinality(3)
	h := tree.New(m)
	opts := fixedOptions(UsageOrbitalFixing, []int{1, 2, 0})
	opts.Notifier = h
	opts.OrbitalFixingTiming = TimingBeforePresolve
	opts.PerformPresolving = true
	s := newSession(t, m, opts)
	ctx := context.Background()

	require.NoError(t, s.InitPresolve(ctx, nil))
	require.True(t, s.Computed())

	require.NoError(t, h.Fix(0, 0))
	h.SetStage(orbital.StagePresolving)
	res, err := s.Presolve(ctx, h, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.NFixedZero)
	zeros, ones := s.GloballyFixedVars()
	assert.Equal(t, []int{0, 1, 2}, zeros)
	assert.Empty(t, ones)
}

func TestPresolveWithoutPerformPresolving(t *testing.T) {
	m := cardinality(3)
	h := tree.New(m)
	opts := fixedOptions(UsageOrbitalFixing, []int{1, 2, 0})
	opts.OrbitalFixingTiming = TimingDuringPresolve
	s := newSession(t, m, opts)

	res, err := s.Presolve(context.Background(), h, nil)
	require.NoError(t, err)
	assert.False(t, res.Ran)
	assert.True(t, s.Computed())
}

func TestRestart(t *testing.T) {
	t.Run("recompute", func(t *testing.T) {
		m := cardinality(4)
		h := tree.New(m)
		opts := fixedOptions(UsageBoth, []int{1, 0, 3, 2})
		opts.Notifier = h
		s := newSession(t, m, opts)
		var store tree.Store
		ctx := context.Background()

		_, err := s.AddConstraints(ctx, &store)
		require.NoError(t, err)
		require.True(t, s.OrbitalFixingEnabled())
		require.Positive(t, h.NumListeners())

		s.Restart()
		assert.False(t, s.Computed())
		assert.Equal(t, 0, h.NumListeners())

		require.NoError(t, s.Compute(ctx))
		assert.True(t, s.Computed())
		assert.False(t, s.OrbitalFixingEnabled(), "orbital fixing stays off next to constraints")

		_, err = s.AddConstraints(ctx, &store)
		require.NoError(t, err)
		assert.Equal(t, 1, store.Len(), "constraints are not added twice")
		assert.Equal(t, 1, s.Stats().Restarts)
	})

	t.Run("keep", func(t *testing.T) {
		opts := fixedOptions(UsageOrbitalFixing, []int{1, 0, 2})
		opts.RecomputeRestart = false
		s := newSession(t, cardinality(3), opts)
		require.NoError(t, s.Compute(context.Background()))

		s.Restart()
		assert.True(t, s.Computed())
		assert.True(t, s.OrbitalFixingEnabled())
	})

	t.Run("lifts soft disable", func(t *testing.T) {
		fail := true
		opts := DefaultOptions()
		opts.Oracle = automorphism.Func(func(ctx context.Context, mat *encode.Matrix, max int) (*automorphism.Result, error) {
			if fail {
				return nil, errors.New("boom")
			}
			return &automorphism.Result{Generators: [][]int{{1, 0, 2}}}, nil
		})
		s := newSession(t, cardinality(3), opts)
		require.NoError(t, s.Compute(context.Background()))
		require.Error(t, s.Disabled())

		fail = false
		s.Restart()
		require.NoError(t, s.Compute(context.Background()))
		assert.Nil(t, s.Disabled())
		assert.True(t, s.Computed())
	})
}

func TestFree(t *testing.T) {
	m := cardinality(4)
	h := tree.New(m)
	opts := fixedOptions(UsageBoth, []int{1, 0, 3, 2})
	opts.Notifier = h
	s := newSession(t, m, opts)
	var store tree.Store
	_, err := s.AddConstraints(context.Background(), &store)
	require.NoError(t, err)

	s.Free()
	assert.False(t, s.Computed())
	assert.Nil(t, s.Report())
	assert.Nil(t, s.Group())
	assert.Equal(t, 0, h.NumListeners())
	zeros, ones := s.GloballyFixedVars()
	assert.Nil(t, zeros)
	assert.Nil(t, ones)
	assert.Nil(t, s.Orbits())
}

type recordingHooks struct {
	observability.NoopSymmetryHooks
	starts, completes int
	lastErr           error
	synth             map[string]int
	propagations      int
}

func (r *recordingHooks) OnComputeStart(context.Context, string, int) { r.starts++ }

func (r *recordingHooks) OnComputeComplete(_ context.Context, _ string, _ int, _ float64, _ time.Duration, err error) {
	r.completes++
	r.lastErr = err
}

func (r *recordingHooks) OnSynthesize(_ context.Context, kind string, count int) {
	r.synth[kind] += count
}

func (r *recordingHooks) OnPropagate(context.Context, int, int, bool, time.Duration) {
	r.propagations++
}

func TestHooks(t *testing.T) {
	hooks := &recordingHooks{synth: map[string]int{}}
	observability.SetSymmetryHooks(hooks)
	t.Cleanup(observability.Reset)

	m := cardinality(4)
	h := tree.New(m)
	s := newSession(t, m, fixedOptions(UsageBoth, []int{1, 0, 3, 2}))
	ctx := context.Background()
	var store tree.Store

	_, err := s.AddConstraints(ctx, &store)
	require.NoError(t, err)
	h.SetStage(orbital.StageSolving)
	_, err = h.Branch(0, model.LowerBound, 1)
	require.NoError(t, err)
	_, err = s.Propagate(ctx, h)
	require.NoError(t, err)

	assert.Equal(t, 1, hooks.starts)
	assert.Equal(t, 1, hooks.completes)
	assert.NoError(t, hooks.lastErr)
	assert.Equal(t, map[string]int{"orbitope": 1}, hooks.synth)
	// the only component is blocked, so the call runs without fixings
	assert.Equal(t, 1, hooks.propagations)
}

func TestStatsRows(t *testing.T) {
	s := newSession(t, cardinality(3), fixedOptions(UsageBoth, []int{1, 0, 2}))
	require.NoError(t, s.Compute(context.Background()))

	labels := map[string]string{}
	for _, row := range s.Stats().Rows() {
		labels[row[0]] = row[1]
	}
	assert.Equal(t, "1", labels["generators"])
	assert.Equal(t, "true", labels["computed"])
	assert.Equal(t, "1 (0 blocked)", labels["components"])
	assert.NotContains(t, labels, "variables in orbits")
}
