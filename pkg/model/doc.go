// Package model describes the mixed-integer programs that symtower analyzes.
//
// A [Model] is a flat arena of variables and constraints. Variables are
// referenced everywhere by their stable index into [Model.Vars]; constraints
// are a closed set of variant types implementing [Constraint]. The package
// does no solving and holds no search state. It is the read-only input to
// the colored-matrix encoder and the symmetry verifier.
//
// # Variables
//
// A [Var] carries its type, global bounds and objective coefficient. A
// variable may be aggregated onto another one (x = a*y + c), in which case it
// is not part of the active problem and every constraint referencing it is
// rewritten in terms of the active variable by [Model.Resolve].
//
// # Constraint kinds
//
// The supported kinds mirror the constraint handlers a MIP solver typically
// ships: [Linear], [Linking], [SetPPC], [LogicOr], [Knapsack], [VarBound],
// [XOR], [And], [Or] and [BoundDisjunction]. Anything else is represented as
// [Opaque]; an active opaque constraint makes the model unsuitable for
// symmetry detection.
//
// # Infinity
//
// Values at or beyond [Infinity] in magnitude are treated as infinite, so
// model files can use 1e20 as well as math.Inf.
package model
