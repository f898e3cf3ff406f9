package orbital

import "github.com/matzehuels/symtower/pkg/model"

// Stage is the phase the search engine is in.
type Stage int

const (
	StageInit Stage = iota
	StagePresolving
	StageSolving
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageInit:
		return "init"
	case StagePresolving:
		return "presolving"
	case StageSolving:
		return "solving"
	case StageDone:
		return "done"
	}
	return "unknown"
}

// Node describes a search-tree node.
type Node struct {
	ID    int64
	Depth int
	// Probing is set for temporary probing nodes.
	Probing bool
	// Repropagation is set when the node is propagated again after its
	// path to the root may have changed.
	Repropagation bool
}

// IsRoot reports whether n is the root node.
func (n Node) IsRoot() bool { return n.Depth == 0 }

// BoundChange is one bound change recorded at a node.
type BoundChange struct {
	Var       int
	Type      model.BoundType
	NewBound  float64
	Branching bool
}

// Host is the search engine as seen by the propagator. Variables are model
// variable indices.
type Host interface {
	Stage() Stage
	CurrentNode() Node
	// AncestorPath returns the bound changes of n and all its ancestors,
	// nearest node first. Within a node, branching changes come first.
	AncestorPath(n Node) []BoundChange

	LowerBound(v int) float64
	UpperBound(v int) float64
	TightenLowerBound(v int, value float64) (applied, infeasible bool)
	TightenUpperBound(v int, value float64) (applied, infeasible bool)
}

// Token identifies a registered bound-change listener.
type Token int

// BoundChangeListener is notified synchronously whenever a global bound of
// a watched variable changes. Implementations must not tighten bounds from
// the callback.
type BoundChangeListener interface {
	GlobalBoundChanged(v int, t model.BoundType, newBound float64)
}

// Notifier delivers global bound changes.
type Notifier interface {
	RegisterBoundChangeListener(v int, l BoundChangeListener) Token
	UnregisterBoundChangeListener(t Token)
}
