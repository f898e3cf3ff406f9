package automorphism

import (
	"context"

	"github.com/matzehuels/symtower/pkg/encode"
)

// Result is the outcome of an automorphism computation.
type Result struct {
	// Generators are permutations of the matrix columns. Identities are
	// never included.
	Generators [][]int
	// Log10GroupSize is log10 of the order of the group the search
	// explored. It is a lower bound when LimitReached is set.
	Log10GroupSize float64
	// LimitReached reports that the search stopped at the generator cap.
	LimitReached bool
}

// Oracle computes generators of the column automorphism group of a colored
// matrix. maxGenerators caps the number of returned generators; 0 means no
// cap. Returning zero generators is a valid outcome.
type Oracle interface {
	ComputeAutomorphisms(ctx context.Context, mat *encode.Matrix, maxGenerators int) (*Result, error)
}

// Func adapts a plain function to the Oracle interface.
type Func func(ctx context.Context, mat *encode.Matrix, maxGenerators int) (*Result, error)

// ComputeAutomorphisms calls f.
func (f Func) ComputeAutomorphisms(ctx context.Context, mat *encode.Matrix, maxGenerators int) (*Result, error) {
	return f(ctx, mat, maxGenerators)
}

// Fixed returns an oracle that ignores the matrix and always reports the
// given generators. It is meant for tests and for replaying generators
// computed elsewhere.
func Fixed(generators [][]int, log10Size float64) Oracle {
	return Func(func(ctx context.Context, mat *encode.Matrix, maxGenerators int) (*Result, error) {
		gens := generators
		limit := false
		if maxGenerators > 0 && len(gens) > maxGenerators {
			gens = gens[:maxGenerators]
			limit = true
		}
		out := make([][]int, len(gens))
		for i, g := range gens {
			out[i] = append([]int(nil), g...)
		}
		return &Result{Generators: out, Log10GroupSize: log10Size, LimitReached: limit}, nil
	})
}
