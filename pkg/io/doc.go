// Package io reads and writes models and symmetry reports.
//
// # Overview
//
// Models are stored as flat records in TOML, YAML or JSON. The same record
// layout is used by the CLI, the HTTP API and the example models, so a
// model can be converted between formats without loss.
//
// # Model Format
//
// A model has a name, a list of variables and a list of constraints.
// Variables and constraints reference each other by name:
//
//	name = "assignment"
//
//	[[vars]]
//	name = "x1"
//	type = "binary"
//
//	[[vars]]
//	name = "x2"
//	type = "binary"
//
//	[[constraints]]
//	kind = "linear"
//	name = "cap"
//	vars = ["x1", "x2"]
//	coefs = [1.0, 1.0]
//	rhs = 1.0
//
// # Variable Fields
//
// Required:
//   - name: unique identifier
//
// Optional:
//   - type: binary, integer, implicit or continuous (default continuous)
//   - lower, upper: bounds; lower defaults to 0, upper to 1 for binaries and
//     to infinity otherwise
//   - obj: objective coefficient
//   - aggr: {of, scalar, constant} marks the variable as aggregated
//
// # Constraint Records
//
// The kind field selects the variant; every other field is read only for
// the kinds that use it:
//
//   - linear: vars, coefs, lhs, rhs
//   - linking: link, vars (the binaries), vals
//   - setppc: set (partitioning, packing, covering), vars
//   - logicor: vars
//   - knapsack: vars, weights, capacity
//   - varbound: x, y, coef, lhs, rhs
//   - xor: vars, parity, intvar
//   - and, or: resultant, vars (the operands)
//   - bounddisjunction: literals [{var, sense, bound}] with sense ge or le
//
// A missing lhs or rhs is infinite. Any other kind is kept as an opaque
// constraint, which makes symmetry detection refuse the model. Constraints
// may be switched off with disabled = true.
//
// # Reports
//
// [NewReport] collects the outcome of a symmetry session: generators in
// cycle notation over variable names, orbits, components and the
// synthesized constraints. [WriteReport] serializes it in any of the three
// formats.
//
// # Formats
//
// [FormatFromPath] selects the format from a file extension (.toml, .yaml,
// .yml, .json). Decoding rejects unknown fields in YAML and JSON.
package io
