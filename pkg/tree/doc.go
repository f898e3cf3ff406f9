// Package tree provides an in-memory search tree that hosts symmetry
// handling outside a full solver.
//
// [Tree] implements [orbital.Host] and [orbital.Notifier]: it keeps global
// bounds, a tree of nodes with their local bound changes, and the listeners
// interested in global fixings. Tightenings at the root are global and are
// reported to listeners synchronously. Tightenings anywhere else are local
// to the current node.
//
// [Store] implements [symbreak.Emitter] and collects synthesized
// constraints by name.
//
// The CLI uses both to replay branching decisions against a model and the
// tests of the symmetry packages use them as a fake solver.
package tree
