// Package symbreak derives symmetry-breaking constraints from a
// permutation group.
//
// For every component of the group it tries, in order:
//
//  1. Orbitope detection: all generators are involutions with the same
//     number of 2-cycles on binary variables, and their cycles line up as
//     adjacent column swaps of a variable matrix.
//  2. Subgroup detection: generators made of 2-cycles are merged greedily
//     into a forest whose trees become the rows of smaller orbitopes.
//  3. Symresacks: one lexicographic ordering constraint per generator.
//
// A component handled by an orbitope is blocked, so orbital fixing leaves
// it alone. Constraints are handed to an [Emitter]; the synthesizer never
// changes the group or any bound.
package symbreak
