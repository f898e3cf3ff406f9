// Package orbital implements orbital fixing for binary variables.
//
// At every search-tree node the propagator restricts the symmetry group to
// the generators that stabilize the current one-fixings (branching
// decisions and global fixings), computes the orbits of the remaining
// generators and fixes whole orbits: if one member is fixed to 1, every
// member is; if one member is fixed to 0, every member is.
//
// The propagator never changes bounds itself. All tightenings go through
// the [Host], which represents the search engine, and global fixings are
// delivered back through [Propagator.GlobalBoundChanged].
//
// # Global fixing sets
//
// Two sets are maintained for the whole search:
//
//   - bg0: variables globally fixed to 0
//   - bg1: variables globally fixed to 1
//
// bg1 is extended per call with the branching decisions on the path to the
// root; the extension is rolled back before the call returns.
//
// # Strict fixings
//
// With [Options.StrictFixings] set, global zero fixings are assumed to be
// implied by the constraints, so they hold in every symmetric image of a
// solution. A zero-fixed variable then spreads its fixing along its orbit.
// Without it, every generator moving a zero-fixed variable outside bg0 is
// deactivated, like generators moving one-fixed variables.
package orbital
