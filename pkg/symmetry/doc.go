// Package symmetry owns the symmetry handling of one solve.
//
// A [Session] computes the symmetry group of a model lazily, on the first
// call that needs it, and then serves two consumers: orbital fixing at
// every search node ([Session.Propagate]) and a one-time synthesis of
// symmetry-breaking constraints ([Session.AddConstraints]).
//
// # Lifecycle
//
// The host drives the session through its stages:
//
//	s, err := symmetry.NewSession(m, opts)
//	s.InitPresolve(ctx, store)
//	s.Presolve(ctx, host, store)   // once per presolving round
//	s.ExitPresolve(ctx, store)
//	s.Propagate(ctx, host)         // once per node
//	s.Restart()                    // on a restart of the search
//	s.Free()
//
// [Options.AddConssTiming] and [Options.OrbitalFixingTiming] decide in which
// of these calls the group is computed and constraints are added.
//
// # Soft disable
//
// Models symmetry cannot be handled for (pricers, reoptimization, no
// binaries, constraint kinds without a color encoding) and oracle failures
// disable the session for the rest of the solve. Every call is a no-op
// afterwards until a restart recomputes the group. The reason is available
// from [Session.Disabled]; it is never returned as an error. Only internal
// consistency failures are.
package symmetry
