package unionfind

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnionFind(t *testing.T) {
	u := New(6)
	require.Equal(t, 6, u.Len())
	require.Equal(t, 6, u.Sets())

	_, merged := u.Union(0, 1)
	assert.True(t, merged)
	_, merged = u.Union(1, 0)
	assert.False(t, merged, "second union of the same pair must be a no-op")

	u.Union(2, 3)
	u.Union(3, 4)

	assert.True(t, u.Same(2, 4))
	assert.False(t, u.Same(0, 2))
	assert.Equal(t, 3, u.Sets())
}

func TestGroups(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		unions  [][2]int
		minSize int
		want    [][]int
	}{
		{
			name: "all singletons",
			n:    3,
			want: [][]int{{0}, {1}, {2}},
		},
		{
			name:    "singletons dropped",
			n:       5,
			unions:  [][2]int{{4, 1}, {0, 3}},
			minSize: 2,
			want:    [][]int{{0, 3}, {1, 4}},
		},
		{
			name:    "chain",
			n:       4,
			unions:  [][2]int{{3, 2}, {2, 1}, {1, 0}},
			minSize: 2,
			want:    [][]int{{0, 1, 2, 3}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := New(tt.n)
			for _, p := range tt.unions {
				u.Union(p[0], p[1])
			}
			assert.Equal(t, tt.want, u.Groups(tt.minSize))
		})
	}
}

func TestReset(t *testing.T) {
	u := New(4)
	u.Union(0, 1)
	u.Union(2, 3)

	u.Reset(3)
	assert.Equal(t, 3, u.Sets())
	assert.False(t, u.Same(0, 1))

	u.Reset(8)
	assert.Equal(t, 8, u.Len())
	assert.Equal(t, 7, u.Find(7))
}

func TestDeterministicRoots(t *testing.T) {
	build := func() []int {
		u := New(10)
		for _, p := range [][2]int{{0, 5}, {5, 7}, {2, 3}, {3, 9}, {7, 3}} {
			u.Union(p[0], p[1])
		}
		roots := make([]int, 10)
		for i := range roots {
			roots[i] = u.Find(i)
		}
		return roots
	}
	first := build()
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, build())
	}
}
