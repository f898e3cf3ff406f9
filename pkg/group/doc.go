// Package group stores a set of generating permutations and derives the
// structures symmetry handling needs from it.
//
// A [Group] acts on a domain of positions 0..n-1, each standing for one
// model variable; the first NBin positions are binary variables. The group
// keeps its generators, a transposed lookup table for binary positions, and
// an estimate of log10 of the group order. It never materializes the full
// group.
//
// Derived structures:
//
//   - [ComputeComponents] splits the generators into independent
//     components: two generators belong to the same component when they
//     move a common position. Numbering is deterministic.
//   - [ComputeOrbits] partitions a filtered set of positions into orbits
//     under a subset of active generators.
//
// [Verify] checks that permutations really are automorphisms of a colored
// matrix; a failure indicates a defect in the oracle and is reported as an
// internal error.
package group
