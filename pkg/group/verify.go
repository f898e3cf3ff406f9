package group

import (
	"encoding/binary"
	"slices"

	"github.com/matzehuels/symtower/pkg/encode"
	symerr "github.com/matzehuels/symtower/pkg/errors"
)

// Verify checks that every permutation is an automorphism of mat: column
// colors are preserved and every row, rewritten under the permutation,
// equals some row of the matrix in sense, right-hand side and the multiset
// of (column, coefficient) pairs. Comparison uses the matrix colors, which
// already identify values within tolerance.
//
// A failure means the oracle produced something that is not a symmetry and
// is returned as an internal error.
func Verify(mat *encode.Matrix, perms [][]int) error {
	n := mat.NumCols()
	rows := make(map[string]struct{}, len(mat.Rows))
	ident := make([]int, n)
	for i := range ident {
		ident[i] = i
	}
	buf := make([]pair, 0, 16)
	for r := range mat.Rows {
		rows[rowKey(mat, r, ident, &buf)] = struct{}{}
	}

	for p, perm := range perms {
		if len(perm) != n {
			return symerr.New(symerr.ErrCodeInternal, "generator %d has length %d, want %d", p, len(perm), n)
		}
		for v, img := range perm {
			if mat.VarColors[v] != mat.VarColors[img] {
				return symerr.New(symerr.ErrCodeInternal, "generator %d maps column %d to column %d of a different color", p, v, img)
			}
		}
		for r := range mat.Rows {
			if _, ok := rows[rowKey(mat, r, perm, &buf)]; !ok {
				return symerr.New(symerr.ErrCodeInternal, "generator %d is not a symmetry: image of row %d (constraint #%d) is not in the model", p, r, mat.Rows[r].Cons)
			}
		}
	}
	return nil
}

type pair struct{ col, color int }

func rowKey(mat *encode.Matrix, r int, perm []int, buf *[]pair) string {
	entries := mat.RowEntries(r)
	ps := (*buf)[:0]
	for _, e := range entries {
		ps = append(ps, pair{col: perm[e.Col], color: e.Color})
	}
	slices.SortFunc(ps, func(a, b pair) int {
		if a.col != b.col {
			return a.col - b.col
		}
		return a.color - b.color
	})
	*buf = ps

	key := make([]byte, 0, 8+4*len(ps))
	key = binary.AppendVarint(key, int64(mat.Rows[r].Color))
	for _, p := range ps {
		key = binary.AppendVarint(key, int64(p.col))
		key = binary.AppendVarint(key, int64(p.color))
	}
	return string(key)
}
