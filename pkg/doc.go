// Package pkg provides the core libraries for Symtower symmetry handling.
//
// # Overview
//
// Symtower detects the symmetry group of a mixed-integer program and puts it
// to work during the search: symmetric solutions are cut off by
// symmetry-breaking constraints, and orbital fixing tightens the bounds of
// whole orbits of variables once one of them is fixed. The pkg directory is
// organized into four areas:
//
//  1. Model - problem representation and file formats
//  2. Symmetry - detection, group store, propagation and synthesis
//  3. Session - lifecycle glue and an in-memory search host
//  4. Output - reports, diagrams, caching and HTTP plumbing
//
// # Architecture
//
// The typical data flow through Symtower:
//
//	Model file (TOML/YAML/JSON)
//	         ↓
//	    [io] package (decode and validate the model)
//	         ↓
//	    [encode] package (colored matrix of the constraints)
//	         ↓
//	    [automorphism] package (generators of the automorphism group)
//	         ↓
//	    [group] package (components, orbits, compression)
//	         ↓
//	    [symbreak] and [orbital] packages (constraints and fixings)
//	         ↓
//	    Report, DOT/SVG/PDF/PNG output
//
// # Quick Start
//
// Detect symmetry and replay one branching decision:
//
//	import (
//	    "context"
//	    symio "github.com/matzehuels/symtower/pkg/io"
//	    "github.com/matzehuels/symtower/pkg/model"
//	    "github.com/matzehuels/symtower/pkg/orbital"
//	    "github.com/matzehuels/symtower/pkg/symmetry"
//	    "github.com/matzehuels/symtower/pkg/tree"
//	)
//
//	// 1. Load the model
//	m, _ := symio.ImportModel("models/bin_packing.toml")
//
//	// 2. Open a session on an in-memory search host
//	host := tree.New(m)
//	store := &tree.Store{}
//	opts := symmetry.DefaultOptions()
//	opts.Notifier = host
//	s, _ := symmetry.NewSession(m, opts)
//
//	// 3. Walk the solve stages
//	ctx := context.Background()
//	_ = s.InitPresolve(ctx, store)
//	host.SetStage(orbital.StagePresolving)
//	_, _ = s.Presolve(ctx, host, store)
//	_ = s.ExitPresolve(ctx, store)
//
//	// 4. Branch and propagate
//	host.SetStage(orbital.StageSolving)
//	_, _ = host.Branch(0, model.UpperBound, 0)
//	res, _ := s.Propagate(ctx, host)
//
// The [pipeline] package wraps these steps and is what the CLI and the HTTP
// API use.
//
// # Main Packages
//
// ## Model
//
// [model] - Variables, the constraint variant (linear, set partitioning,
// knapsack, logic and bound-disjunction kinds, opaque handlers), aggregation
// and validation.
//
// [io] - Model and report files in TOML, YAML and JSON.
//
// ## Symmetry
//
// [encode] - Turns a model into a colored sparse matrix whose automorphisms
// are the formulation symmetries.
//
// [automorphism] - The Oracle interface and a refinement-based default
// oracle.
//
// [group] - Permutation group store: generators, components, orbits,
// verification against the matrix and compression to moved variables.
//
// [orbital] - Orbital fixing propagator and the host interfaces it talks to.
//
// [symbreak] - Orbitope, subgroup, symresack and weak inequality synthesis.
//
// ## Session
//
// [symmetry] - Session lifecycle: lazy computation, timing, restarts,
// soft-disable and statistics.
//
// [tree] - In-memory branch-and-bound host and constraint store.
//
// [pipeline] - One complete run (stages, fixings, branchings, artifacts)
// shared by the CLI and the API.
//
// ## Output and Infrastructure
//
// [render] - Graphviz diagrams of components and generators.
//
// [cache] - Response cache for the HTTP API (file and null backends).
//
// [httputil] - Request decoding and error responses for the HTTP API.
//
// [config] - TOML/YAML configuration files.
//
// [errors] - Coded errors and input validation.
//
// [observability] - Hook interfaces for metrics.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/orbital/...            # Specific package
//	go test -run Example                 # Examples only
//
// [model]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/model
// [io]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/io
// [encode]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/encode
// [automorphism]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/automorphism
// [group]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/group
// [orbital]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/orbital
// [symbreak]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/symbreak
// [symmetry]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/symmetry
// [tree]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/tree
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/cache
// [httputil]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/httputil
// [config]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/symtower/pkg/observability
package pkg
