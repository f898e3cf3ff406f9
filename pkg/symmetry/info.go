package symmetry

import (
	"fmt"
	"time"

	"github.com/matzehuels/symtower/pkg/orbital"
)

// SymmetryInfo is a snapshot of the computed group. Permutations act on
// positions of Domain, which maps position to model variable index.
type SymmetryInfo struct {
	Domain          []int   `json:"domain"`
	NBin            int     `json:"nbin"`
	Generators      [][]int `json:"generators"`
	Transposed      [][]int `json:"-"`
	Log10GroupSize  float64 `json:"log10_group_size"`
	BinaryAffected  bool    `json:"binary_affected"`
	Compressed      bool    `json:"compressed"`
	Components      []int   `json:"components"`
	ComponentBegins []int   `json:"component_begins"`
	VarToComponent  []int   `json:"var_to_component"`
	Blocked         []bool  `json:"blocked"`
}

// Info returns a snapshot of the computed group. The boolean is false
// before computation and after a soft disable.
func (s *Session) Info() (*SymmetryInfo, bool) {
	if s.grp == nil {
		return nil, false
	}
	g, c := s.grp, s.comps
	info := &SymmetryInfo{
		Domain:          append([]int(nil), g.Vars...),
		NBin:            g.NBin,
		Generators:      copyPerms(g.Perms),
		Transposed:      copyPerms(g.Transposed),
		Log10GroupSize:  g.Log10Size,
		BinaryAffected:  g.BinaryAffected,
		Compressed:      g.Compressed,
		Components:      append([]int(nil), c.Perms...),
		ComponentBegins: append([]int(nil), c.Begins...),
		VarToComponent:  append([]int(nil), c.VarToComponent...),
		Blocked:         c.Blocked(),
	}
	return info, true
}

func copyPerms(perms [][]int) [][]int {
	out := make([][]int, len(perms))
	for i, p := range perms {
		out[i] = append([]int(nil), p...)
	}
	return out
}

// Stats summarizes a session.
type Stats struct {
	Computed       bool          `json:"computed"`
	DisableReason  string        `json:"disable_reason,omitempty"`
	Generators     int           `json:"generators"`
	Log10GroupSize float64       `json:"log10_group_size"`
	MovedVars      int           `json:"moved_vars"`
	Components     int           `json:"components"`
	Blocked        int           `json:"blocked_components"`
	OrbitVars      int           `json:"orbit_vars"`
	ComputeTime    time.Duration `json:"compute_time"`
	Restarts       int           `json:"restarts"`

	Orbitopes        int `json:"orbitopes"`
	Symresacks       int `json:"symresacks"`
	WeakInequalities int `json:"weak_inequalities"`

	Propagation orbital.Stats `json:"propagation"`
}

// Stats returns the current statistics. OrbitVars is -1 unless
// DisplayNormOrbitVars was set.
func (s *Session) Stats() Stats {
	st := Stats{
		Computed:    s.computed,
		OrbitVars:   s.orbitVars,
		ComputeTime: s.computeTime,
		Restarts:    s.restarts,
	}
	if s.disabled != nil {
		st.DisableReason = s.disabled.Error()
	}
	if s.grp != nil {
		st.Generators = s.grp.NumGenerators()
		st.Log10GroupSize = s.grp.Log10Size
		st.MovedVars = s.grp.NumMoved()
		st.Components = s.comps.Len()
		st.Blocked = s.comps.NumBlocked()
	}
	if r := s.report; r != nil {
		st.Orbitopes = r.Orbitopes + r.SubgroupOrbitopes
		st.Symresacks = r.Symresacks
		st.WeakInequalities = r.WeakInequalities
	}
	if s.prop != nil {
		st.Propagation = s.prop.Stats()
	}
	return st
}

// Rows returns the statistics as label/value pairs for tabular display.
func (st Stats) Rows() [][2]string {
	rows := [][2]string{
		{"computed", fmt.Sprint(st.Computed)},
	}
	if st.DisableReason != "" {
		rows = append(rows, [2]string{"disabled", st.DisableReason})
	}
	rows = append(rows,
		[2]string{"generators", fmt.Sprint(st.Generators)},
		[2]string{"log10(group size)", fmt.Sprintf("%.2f", st.Log10GroupSize)},
		[2]string{"moved variables", fmt.Sprint(st.MovedVars)},
		[2]string{"components", fmt.Sprintf("%d (%d blocked)", st.Components, st.Blocked)},
	)
	if st.OrbitVars >= 0 {
		rows = append(rows, [2]string{"variables in orbits", fmt.Sprint(st.OrbitVars)})
	}
	rows = append(rows,
		[2]string{"orbitopes", fmt.Sprint(st.Orbitopes)},
		[2]string{"symresacks", fmt.Sprint(st.Symresacks)},
		[2]string{"weak inequalities", fmt.Sprint(st.WeakInequalities)},
		[2]string{"propagation calls", fmt.Sprint(st.Propagation.Calls)},
		[2]string{"fixed to 0", fmt.Sprint(st.Propagation.NFixedZero)},
		[2]string{"fixed to 1", fmt.Sprint(st.Propagation.NFixedOne)},
		[2]string{"cutoffs", fmt.Sprint(st.Propagation.NCutoffs)},
		[2]string{"compute time", st.ComputeTime.Round(time.Microsecond).String()},
	)
	return rows
}
