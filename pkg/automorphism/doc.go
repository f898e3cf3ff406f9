// Package automorphism computes generators of the automorphism group of a
// colored matrix.
//
// The package defines the [Oracle] interface the rest of symtower consumes
// and ships [Search], a self-contained individualization-refinement search
// in the style of nauty and bliss. The matrix is viewed as a bipartite
// graph: one vertex per column colored by the column color, one vertex per
// row colored by the row color, and one edge per nonzero colored by the
// coefficient color. A permutation of the columns is a symmetry of the model
// exactly when it extends to a color-preserving automorphism of this graph.
//
// Search returns a generating set of the group restricted to the columns,
// never the full group, together with log10 of the group order. Generators
// are found level by level along the first path of the search tree and
// pruned with the orbits of the generators found so far, which yields a
// strong generating set.
//
// Other engines can be plugged in by implementing [Oracle] or wrapping a
// function with [Func].
package automorphism
