package orbital

import (
	"io"

	"github.com/bits-and-blooms/bitset"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/symtower/pkg/group"
	"github.com/matzehuels/symtower/pkg/model"
)

// Options configures a Propagator.
type Options struct {
	// StrictFixings declares that global fixings respect every symmetry of
	// the group. See the package documentation.
	StrictFixings bool
	// Logger receives debug output. Nil discards.
	Logger *log.Logger
}

// Result reports one propagation call.
type Result struct {
	// Ran is false when a skip condition applied.
	Ran bool `json:"ran"`
	// Cutoff is set when an orbit contains a variable fixed to 1 and one
	// fixed to 0, or when a tightening was infeasible.
	Cutoff     bool `json:"cutoff"`
	NFixedZero int  `json:"fixed_zero"`
	NFixedOne  int  `json:"fixed_one"`
	// NActive is the number of generators left active.
	NActive int `json:"active"`
	// NOrbits is the number of non-trivial orbits examined.
	NOrbits int `json:"orbits"`
}

// NumFixed returns the total number of tightenings.
func (r Result) NumFixed() int { return r.NFixedZero + r.NFixedOne }

// Stats accumulates results over the lifetime of a Propagator.
type Stats struct {
	Calls      int `json:"calls"`
	NFixedZero int `json:"fixed_zero"`
	NFixedOne  int `json:"fixed_one"`
	NCutoffs   int `json:"cutoffs"`
	// NAffected is the number of binary positions in non-blocked
	// components.
	NAffected int `json:"affected"`
}

// Propagator performs orbital fixing for one group. It is owned by a single
// search and is not safe for concurrent use.
type Propagator struct {
	g     *group.Group
	comps *group.Components
	opts  Options
	log   *log.Logger

	enabled bool

	bg0     *bitset.BitSet
	bg0list []int
	bg1     *bitset.BitSet
	bg1list []int
	// branch holds the branching decisions of the node being propagated.
	// They are set in bg1 but not listed in bg1list.
	branch []int

	inactive []bool
	ws       group.OrbitWorkspace

	lastNode  int64
	processed bool

	tokens []Token
	stats  Stats
}

// New creates a propagator for g. The propagator is disabled when no
// generator moves a binary variable.
func New(g *group.Group, comps *group.Components, opts Options) *Propagator {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Propagator{
		g:        g,
		comps:    comps,
		opts:     opts,
		log:      logger,
		enabled:  g.NumGenerators() > 0 && g.BinaryAffected,
		bg0:      bitset.New(uint(g.NBin)),
		bg1:      bitset.New(uint(g.NBin)),
		inactive: make([]bool, g.NumGenerators()),
	}
}

// Enabled reports whether the propagator runs at all.
func (p *Propagator) Enabled() bool { return p.enabled }

// SetEnabled switches orbital fixing on or off.
func (p *Propagator) SetEnabled(on bool) { p.enabled = on && p.g.NumGenerators() > 0 }

// Stats returns accumulated statistics. NAffected reflects the components
// blocked at the time of the call.
func (p *Propagator) Stats() Stats {
	st := p.stats
	st.NAffected = 0
	for v := 0; v < p.g.NBin; v++ {
		if p.inOrbitDomain(v) {
			st.NAffected++
		}
	}
	return st
}

// GloballyFixed returns the model variables in bg0 and bg1, in the order
// they were fixed.
func (p *Propagator) GloballyFixed() (zeros, ones []int) {
	for _, v := range p.bg0list {
		zeros = append(zeros, p.g.Vars[v])
	}
	for _, v := range p.bg1list {
		ones = append(ones, p.g.Vars[v])
	}
	return zeros, ones
}

// Watch registers the propagator for global bound changes of every binary
// variable of the group.
func (p *Propagator) Watch(n Notifier) {
	for v := 0; v < p.g.NBin; v++ {
		p.tokens = append(p.tokens, n.RegisterBoundChangeListener(p.g.Vars[v], p))
	}
}

// Unwatch removes the registrations made by Watch.
func (p *Propagator) Unwatch(n Notifier) {
	for _, t := range p.tokens {
		n.UnregisterBoundChangeListener(t)
	}
	p.tokens = nil
}

// GlobalBoundChanged records a global fixing of a binary variable. It
// only updates bg0 and bg1 and is safe to call repeatedly for the same
// change.
func (p *Propagator) GlobalBoundChanged(v int, t model.BoundType, newBound float64) {
	pos, ok := p.g.Position(v)
	if !ok || !p.g.IsBinary(pos) {
		return
	}
	u := uint(pos)
	switch {
	case t == model.UpperBound && newBound < 0.5:
		if !p.bg0.Test(u) {
			p.bg0.Set(u)
			p.bg0list = append(p.bg0list, pos)
		}
	case t == model.LowerBound && newBound > 0.5:
		if !p.bg1.Test(u) {
			p.bg1.Set(u)
			p.bg1list = append(p.bg1list, pos)
		}
	}
}

// Propagate runs orbital fixing at the host's current node.
//
// Nothing happens at the root, outside the main search, at probing nodes,
// during repropagation, at a node already processed, or when the
// propagator is disabled.
func (p *Propagator) Propagate(h Host) Result {
	if !p.enabled {
		return Result{}
	}
	node := h.CurrentNode()
	if node.IsRoot() || h.Stage() != StageSolving || node.Probing || node.Repropagation {
		return Result{}
	}
	if p.processed && node.ID == p.lastNode {
		return Result{}
	}
	p.processed = true
	p.lastNode = node.ID

	return p.run(h, node)
}

// Presolve runs orbital fixing on the global fixings only. It ignores the
// node checks of Propagate.
func (p *Propagator) Presolve(h Host) Result {
	if !p.enabled {
		return Result{}
	}
	return p.run(h, h.CurrentNode())
}

func (p *Propagator) run(h Host, node Node) Result {
	p.stats.Calls++

	if !node.IsRoot() {
		p.collectBranchings(h, node)
	}
	defer p.rollback()

	nactive := p.deactivate()
	if nactive == 0 {
		return Result{Ran: true}
	}

	orbits := p.ws.Compute(p.g, p.inactive, p.inOrbitDomain)
	res := p.ApplyFixingRule(h, orbits)
	res.NActive = nactive

	p.stats.NFixedZero += res.NFixedZero
	p.stats.NFixedOne += res.NFixedOne
	if res.Cutoff {
		p.stats.NCutoffs++
	}
	p.log.Debug("orbital fixing", "node", node.ID, "active", nactive, "orbits", res.NOrbits,
		"fixed0", res.NFixedZero, "fixed1", res.NFixedOne, "cutoff", res.Cutoff)
	return res
}

// collectBranchings extends bg1 with branching decisions that set a binary
// variable to 1 on the path to the root.
func (p *Propagator) collectBranchings(h Host, node Node) {
	for _, bc := range h.AncestorPath(node) {
		if !bc.Branching || bc.Type != model.LowerBound || bc.NewBound < 0.5 {
			continue
		}
		// variables created after the group was computed are unknown
		pos, ok := p.g.Position(bc.Var)
		if !ok || !p.g.IsBinary(pos) {
			continue
		}
		if h.LowerBound(bc.Var) < 0.5 {
			continue
		}
		if !p.bg1.Test(uint(pos)) {
			p.bg1.Set(uint(pos))
			p.branch = append(p.branch, pos)
		}
	}
}

func (p *Propagator) rollback() {
	for _, v := range p.branch {
		p.bg1.Clear(uint(v))
	}
	p.branch = p.branch[:0]
}

// deactivate marks every generator that does not stabilize the fixing sets
// as inactive and returns the number of active generators.
func (p *Propagator) deactivate() int {
	for i := range p.inactive {
		p.inactive[i] = false
	}
	nactive := len(p.inactive)

	inBg0 := func(img int) bool { return p.bg0.Test(uint(img)) }
	inBg1 := func(img int) bool { return p.bg1.Test(uint(img)) }

	if p.opts.StrictFixings {
		// zeros may travel along orbits, but not onto ones
		notInBg1 := func(img int) bool { return !inBg1(img) }
		nactive = p.filter(p.bg0list, notInBg1, nactive)
		nactive = p.filter(p.branch, inBg1, nactive)
	} else {
		nactive = p.filter(p.bg0list, inBg0, nactive)
		nactive = p.filter(p.bg1list, inBg1, nactive)
		nactive = p.filter(p.branch, inBg1, nactive)
	}
	return nactive
}

// filter deactivates every active generator that moves some v in vars to
// an image rejected by keep. Generators are only ever deactivated.
func (p *Propagator) filter(vars []int, keep func(img int) bool, nactive int) int {
	for _, v := range vars {
		if nactive == 0 {
			break
		}
		comp := p.comps.VarToComponent[v]
		if comp < 0 || p.comps.IsBlocked(comp) {
			continue
		}
		images := p.g.Transposed[v]
		for _, perm := range p.comps.Generators(comp) {
			if p.inactive[perm] {
				continue
			}
			if img := images[perm]; img != v && !keep(img) {
				p.inactive[perm] = true
				nactive--
			}
		}
	}
	return nactive
}

func (p *Propagator) inOrbitDomain(v int) bool {
	if !p.g.IsBinary(v) {
		return false
	}
	comp := p.comps.VarToComponent[v]
	return comp >= 0 && !p.comps.IsBlocked(comp)
}

// ApplyFixingRule fixes every orbit that contains a fixed variable. If an
// orbit has members fixed to both 0 and 1, or a tightening is infeasible,
// it reports a cutoff and stops without touching later orbits. Orbits
// containing a non-binary position are skipped.
func (p *Propagator) ApplyFixingRule(h Host, orbits *group.Orbits) Result {
	res := Result{Ran: true, NOrbits: orbits.Len()}
	for i := 0; i < orbits.Len(); i++ {
		orbit := orbits.Orbit(i)

		var one, zero bool
		for _, pos := range orbit {
			if !p.g.IsBinary(pos) {
				one, zero = false, false
				break
			}
			v := p.g.Vars[pos]
			if h.LowerBound(v) > 0.5 {
				one = true
			}
			if h.UpperBound(v) < 0.5 {
				zero = true
			}
		}
		if one && zero {
			res.Cutoff = true
			return res
		}

		if zero {
			for _, pos := range orbit {
				v := p.g.Vars[pos]
				if h.UpperBound(v) < 0.5 {
					continue
				}
				applied, infeasible := h.TightenUpperBound(v, 0)
				if infeasible {
					res.Cutoff = true
					return res
				}
				if applied {
					res.NFixedZero++
				}
			}
		}
		if one {
			for _, pos := range orbit {
				v := p.g.Vars[pos]
				if h.LowerBound(v) > 0.5 {
					continue
				}
				applied, infeasible := h.TightenLowerBound(v, 1)
				if infeasible {
					res.Cutoff = true
					return res
				}
				if applied {
					res.NFixedOne++
				}
			}
		}
	}
	return res
}
