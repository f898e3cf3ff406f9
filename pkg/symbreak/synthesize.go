package symbreak

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	symerr "github.com/matzehuels/symtower/pkg/errors"
	"github.com/matzehuels/symtower/pkg/group"
)

// Options selects the techniques Synthesize applies.
type Options struct {
	DetectOrbitopes bool
	DetectSubgroups bool
	// AddWeakConss adds one weak inequality per component handled by
	// subgroup detection whose enclosing orbit is larger than the
	// orbitope's first row.
	AddWeakConss bool
	// AddSymresacks adds a symresack for every generator of a component
	// not handled by an orbitope.
	AddSymresacks bool
	Logger        *log.Logger
}

// Coverage records how a generator is handled.
type Coverage int

const (
	Uncovered Coverage = iota
	CoveredOrbitope
	CoveredSubgroup
	CoveredSymresack
	// SkippedNonBinary marks generators whose symresack was skipped
	// because they move a non-binary variable.
	SkippedNonBinary
	// CoveredBlocked marks generators of a component blocked by subgroup
	// orbitopes that none of those orbitopes uses.
	CoveredBlocked
)

func (c Coverage) String() string {
	switch c {
	case Uncovered:
		return "uncovered"
	case CoveredOrbitope:
		return "orbitope"
	case CoveredSubgroup:
		return "subgroup"
	case CoveredSymresack:
		return "symresack"
	case SkippedNonBinary:
		return "skipped"
	case CoveredBlocked:
		return "blocked"
	}
	return fmt.Sprintf("coverage(%d)", int(c))
}

// Report summarizes one synthesis run.
type Report struct {
	Orbitopes         int
	SubgroupOrbitopes int
	Symresacks        int
	SkippedSymresacks int
	WeakInequalities  int
	// Generators holds the coverage of every generator, by index.
	Generators []Coverage
	// Blocked lists the components handled by orbitopes.
	Blocked []int
}

// Count returns the number of generators with coverage c.
func (r *Report) Count(c Coverage) int {
	n := 0
	for _, gc := range r.Generators {
		if gc == c {
			n++
		}
	}
	return n
}

// Constraints returns the total number of emitted constraints.
func (r *Report) Constraints() int {
	return r.Orbitopes + r.SubgroupOrbitopes + r.Symresacks + r.WeakInequalities
}

// Synthesize analyzes every non-blocked component of g and emits
// symmetry-breaking constraints. Components handled by an orbitope are
// blocked in comps.
func Synthesize(g *group.Group, comps *group.Components, em Emitter, opts Options) (*Report, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &synthesizer{
		g:      g,
		comps:  comps,
		em:     em,
		opts:   opts,
		log:    logger,
		report: &Report{Generators: make([]Coverage, g.NumGenerators())},
	}

	for c := 0; c < comps.Len(); c++ {
		if comps.IsBlocked(c) {
			continue
		}
		if err := s.component(c); err != nil {
			return s.report, err
		}
	}

	r := s.report
	logger.Info("symmetry handling constraints",
		"orbitopes", r.Orbitopes, "subgroups", r.SubgroupOrbitopes,
		"symresacks", r.Symresacks, "skipped", r.SkippedSymresacks, "weak", r.WeakInequalities)
	return r, nil
}

type synthesizer struct {
	g      *group.Group
	comps  *group.Components
	em     Emitter
	opts   Options
	log    *log.Logger
	report *Report
}

func (s *synthesizer) component(c int) error {
	if s.opts.DetectOrbitopes {
		if o := detectOrbitope(s.g, s.comps.Generators(c)); o != nil {
			o.Name = fmt.Sprintf("orbitope_component%d", c)
			o.Component = c
			if err := s.emit(o); err != nil {
				return err
			}
			s.report.Orbitopes++
			s.block(c, o.Generators, CoveredOrbitope)
			return nil
		}
	}

	if s.opts.DetectSubgroups {
		found, err := s.subgroups(c)
		if err != nil {
			return err
		}
		if found {
			return nil
		}
	}

	if s.opts.AddSymresacks {
		return s.symresacks(c)
	}
	return nil
}

func (s *synthesizer) block(c int, gens []int, cov Coverage) {
	s.comps.Block(c)
	s.report.Blocked = append(s.report.Blocked, c)
	for _, p := range gens {
		s.report.Generators[p] = cov
	}
}

func (s *synthesizer) emit(c Constraint) error {
	if err := s.em.EmitConstraint(c); err != nil {
		return symerr.Wrap(symerr.ErrCodeInternal, err, "emit %s %s", c.Kind(), c.ConsName())
	}
	s.log.Debug("emitted constraint", "kind", c.Kind(), "name", c.ConsName())
	return nil
}

func (s *synthesizer) subgroups(c int) (bool, error) {
	gens := s.comps.Generators(c)
	orbitopes := detectSubgroups(s.g, gens)
	if len(orbitopes) == 0 {
		return false, nil
	}
	for i, o := range orbitopes {
		o.Name = fmt.Sprintf("subgroup_component%d_%d", c, i)
		o.Component = c
		if err := s.emit(o); err != nil {
			return false, err
		}
		s.report.SubgroupOrbitopes++
	}
	s.block(c, gens, CoveredBlocked)
	for _, o := range orbitopes {
		for _, p := range o.Generators {
			s.report.Generators[p] = CoveredSubgroup
		}
	}

	if s.opts.AddWeakConss {
		if w := weakInequality(s.g, gens, orbitopes[0]); w != nil {
			w.Name = fmt.Sprintf("weak_component%d", c)
			w.Component = c
			if err := s.emit(w); err != nil {
				return true, err
			}
			s.report.WeakInequalities++
		}
	}
	return true, nil
}

func (s *synthesizer) symresacks(c int) error {
	for _, p := range s.comps.Generators(c) {
		sr := symresack(s.g, p)
		if sr == nil {
			s.report.SkippedSymresacks++
			s.report.Generators[p] = SkippedNonBinary
			continue
		}
		sr.Name = fmt.Sprintf("symresack_component%d_perm%d", c, p)
		sr.Component = c
		if err := s.emit(sr); err != nil {
			return err
		}
		s.report.Symresacks++
		s.report.Generators[p] = CoveredSymresack
	}
	return nil
}

// symresack builds the symresack of generator p, or nil if p moves a
// non-binary position.
func symresack(g *group.Group, p int) *Symresack {
	sr := &Symresack{Generator: p}
	for v, img := range g.Perms[p] {
		if v == img {
			continue
		}
		if !g.IsBinary(v) {
			return nil
		}
		sr.Support = append(sr.Support, g.Vars[v])
		sr.Images = append(sr.Images, g.Vars[img])
	}
	return sr
}
