package tree

import (
	"errors"
	"slices"

	"github.com/matzehuels/symtower/pkg/model"
	"github.com/matzehuels/symtower/pkg/orbital"
)

var (
	// ErrUnknownNode is returned by [Tree.Focus] for an ID that was never
	// created.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownVar is returned for variable indices outside the model.
	ErrUnknownVar = errors.New("unknown variable")

	// ErrInfeasible is returned by [Tree.Branch] and [Tree.Fix] when the
	// new bound crosses the opposite bound.
	ErrInfeasible = errors.New("bound change is infeasible")
)

type bounds struct {
	lb, ub []float64
}

func (b bounds) clone() bounds {
	return bounds{lb: slices.Clone(b.lb), ub: slices.Clone(b.ub)}
}

type node struct {
	bounds

	id      int64
	depth   int
	parent  *node
	changes []orbital.BoundChange

	probing       bool
	repropagation bool
}

// Tree is a search tree over the variables of one model. The zero value is
// not usable; use New. Tree is not safe for concurrent use.
type Tree struct {
	stage  orbital.Stage
	global bounds

	nodes  map[int64]*node
	cur    *node
	nextID int64

	// listeners is indexed by token; unregistered entries are nil.
	listeners []*listener
}

type listener struct {
	v int
	l orbital.BoundChangeListener
}

var (
	_ orbital.Host     = (*Tree)(nil)
	_ orbital.Notifier = (*Tree)(nil)
)

// New creates a tree whose root carries the global bounds of m. The stage
// starts at StageInit.
func New(m *model.Model) *Tree {
	n := m.NumVars()
	t := &Tree{
		nodes:  make(map[int64]*node),
		nextID: 1,
	}
	t.global = bounds{lb: make([]float64, n), ub: make([]float64, n)}
	for i, v := range m.Vars {
		t.global.lb[i], t.global.ub[i] = v.Lower, v.Upper
	}
	root := &node{bounds: t.global.clone(), id: t.nextID}
	t.nextID++
	t.nodes[root.id] = root
	t.cur = root
	return t
}

// Stage implements orbital.Host.
func (t *Tree) Stage() orbital.Stage { return t.stage }

// SetStage moves the tree to stage s.
func (t *Tree) SetStage(s orbital.Stage) { t.stage = s }

// CurrentNode implements orbital.Host.
func (t *Tree) CurrentNode() orbital.Node { return t.cur.view() }

func (n *node) view() orbital.Node {
	return orbital.Node{
		ID:            n.id,
		Depth:         n.depth,
		Probing:       n.probing,
		Repropagation: n.repropagation,
	}
}

// Root returns the root node.
func (t *Tree) Root() orbital.Node { return t.nodes[1].view() }

// NumNodes returns the number of nodes created so far.
func (t *Tree) NumNodes() int { return len(t.nodes) }

// SetProbing marks the current node as a probing node.
func (t *Tree) SetProbing(on bool) { t.cur.probing = on }

// SetRepropagation marks the current node for repropagation.
func (t *Tree) SetRepropagation(on bool) { t.cur.repropagation = on }

// Focus makes the node with the given ID current.
func (t *Tree) Focus(id int64) error {
	n, ok := t.nodes[id]
	if !ok {
		return ErrUnknownNode
	}
	t.cur = n
	return nil
}

// Backtrack moves to the parent of the current node. It is a no-op at the
// root.
func (t *Tree) Backtrack() {
	if t.cur.parent != nil {
		t.cur = t.cur.parent
	}
}

// Branch creates a child of the current node that carries one branching
// bound change and makes it current.
func (t *Tree) Branch(v int, bt model.BoundType, bound float64) (orbital.Node, error) {
	if err := t.checkVar(v); err != nil {
		return orbital.Node{}, err
	}
	child := &node{
		bounds: t.cur.clone(),
		id:     t.nextID,
		depth:  t.cur.depth + 1,
		parent: t.cur,
	}
	if _, infeasible := child.tighten(v, bt, bound); infeasible {
		return orbital.Node{}, ErrInfeasible
	}
	child.changes = append(child.changes, orbital.BoundChange{Var: v, Type: bt, NewBound: bound, Branching: true})
	t.nextID++
	t.nodes[child.id] = child
	t.cur = child
	return child.view(), nil
}

// AncestorPath implements orbital.Host.
func (t *Tree) AncestorPath(n orbital.Node) []orbital.BoundChange {
	var path []orbital.BoundChange
	for nd := t.nodes[n.ID]; nd != nil; nd = nd.parent {
		path = append(path, nd.changes...)
	}
	return path
}

// LowerBound implements orbital.Host. It returns the bound at the current
// node.
func (t *Tree) LowerBound(v int) float64 { return t.cur.lb[v] }

// UpperBound implements orbital.Host.
func (t *Tree) UpperBound(v int) float64 { return t.cur.ub[v] }

// GlobalLowerBound returns the global lower bound of v.
func (t *Tree) GlobalLowerBound(v int) float64 { return t.global.lb[v] }

// GlobalUpperBound returns the global upper bound of v.
func (t *Tree) GlobalUpperBound(v int) float64 { return t.global.ub[v] }

// TightenLowerBound implements orbital.Host.
func (t *Tree) TightenLowerBound(v int, value float64) (applied, infeasible bool) {
	return t.tighten(v, model.LowerBound, value)
}

// TightenUpperBound implements orbital.Host.
func (t *Tree) TightenUpperBound(v int, value float64) (applied, infeasible bool) {
	return t.tighten(v, model.UpperBound, value)
}

// Fix fixes v globally to value and notifies listeners.
func (t *Tree) Fix(v int, value float64) error {
	if err := t.checkVar(v); err != nil {
		return err
	}
	if _, inf := t.tightenGlobal(v, model.LowerBound, value); inf {
		return ErrInfeasible
	}
	if _, inf := t.tightenGlobal(v, model.UpperBound, value); inf {
		return ErrInfeasible
	}
	return nil
}

// tightenGlobal changes a global bound, copies it into every node and
// notifies the listeners of v in registration order.
func (t *Tree) tightenGlobal(v int, bt model.BoundType, value float64) (applied, infeasible bool) {
	applied, infeasible = t.global.tighten(v, bt, value)
	if !applied {
		return applied, infeasible
	}
	for _, n := range t.nodes {
		n.tighten(v, bt, value)
	}
	for _, l := range t.listeners {
		if l != nil && l.v == v {
			l.l.GlobalBoundChanged(v, bt, value)
		}
	}
	return true, false
}

// RegisterBoundChangeListener implements orbital.Notifier.
func (t *Tree) RegisterBoundChangeListener(v int, l orbital.BoundChangeListener) orbital.Token {
	t.listeners = append(t.listeners, &listener{v: v, l: l})
	return orbital.Token(len(t.listeners) - 1)
}

// UnregisterBoundChangeListener implements orbital.Notifier. Unknown
// tokens are ignored.
func (t *Tree) UnregisterBoundChangeListener(tok orbital.Token) {
	if int(tok) >= 0 && int(tok) < len(t.listeners) {
		t.listeners[tok] = nil
	}
}

// NumListeners returns the number of registered listeners.
func (t *Tree) NumListeners() int {
	n := 0
	for _, l := range t.listeners {
		if l != nil {
			n++
		}
	}
	return n
}

func (t *Tree) tighten(v int, bt model.BoundType, value float64) (applied, infeasible bool) {
	if v < 0 || v >= len(t.global.lb) {
		return false, false
	}
	if t.cur.depth == 0 {
		return t.tightenGlobal(v, bt, value)
	}
	applied, infeasible = t.cur.tighten(v, bt, value)
	if applied {
		t.cur.changes = append(t.cur.changes, orbital.BoundChange{Var: v, Type: bt, NewBound: value})
	}
	return applied, infeasible
}

func (t *Tree) checkVar(v int) error {
	if v < 0 || v >= len(t.global.lb) {
		return ErrUnknownVar
	}
	return nil
}

// tighten changes one bound. Nothing is applied when the new bound is not
// tighter or crosses the opposite bound.
func (b bounds) tighten(v int, bt model.BoundType, value float64) (applied, infeasible bool) {
	switch bt {
	case model.LowerBound:
		if value > b.ub[v]+model.Epsilon {
			return false, true
		}
		if value <= b.lb[v]+model.Epsilon {
			return false, false
		}
		b.lb[v] = value
	case model.UpperBound:
		if value < b.lb[v]-model.Epsilon {
			return false, true
		}
		if value >= b.ub[v]-model.Epsilon {
			return false, false
		}
		b.ub[v] = value
	}
	return true, false
}
