// Package encode turns a [model.Model] into the colored sparse matrix that
// automorphism detection works on.
//
// Every active constraint contributes one or two rows. Each row has a sense
// and a right-hand side; each nonzero has a coefficient; each column is an
// active variable. Colors are assigned so that two objects share a color
// exactly when no symmetry of the model can tell them apart:
//
//   - columns by (objective, lower bound, upper bound, type), optionally
//     extended by the number of rows the column appears in
//   - nonzeros by coefficient value (and literal direction for bound
//     disjunction rows)
//   - rows by (sense, right-hand side)
//
// Colors are dense integers starting at 0 and are assigned in sorted value
// order, so they depend only on the values and never on the order in which
// constraints were added.
//
// The encoder refuses models it cannot encode soundly. It returns an error
// coded [errors.ErrCodeUnsupportedModel] when the model has active pricers
// or reoptimization, has no active constraints, or contains a constraint
// kind without a color encoding. Callers treat this as "no symmetry", not as
// a failure.
package encode
