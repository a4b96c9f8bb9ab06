package rbtree //nolint:testpackage // corrupts the arena on purpose.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDetectsCorruption(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		corrupt func(tree *Tree[int, int])
		want    error
	}{
		{
			name:    "red_root",
			corrupt: func(tree *Tree[int, int]) { tree.Root().SetColor(Red) },
			want:    ErrRedRoot,
		},
		{
			name: "red_red",
			corrupt: func(tree *Tree[int, int]) {
				// 20(B) -> 10(B) -> 5(R); repainting 10 yields two reds in a row.
				tree.Search(10).Node().SetColor(Red)
			},
			want: ErrRedRed,
		},
		{
			name:    "black_height",
			corrupt: func(tree *Tree[int, int]) { tree.Search(5).Node().SetColor(Black) },
			want:    ErrBlackHeight,
		},
		{
			name: "unordered",
			corrupt: func(tree *Tree[int, int]) {
				tree.storage()[tree.lookup(5)].key = 25
			},
			want: ErrUnordered,
		},
		{
			name: "broken_link",
			corrupt: func(tree *Tree[int, int]) {
				storage := tree.storage()
				storage[tree.lookup(5)].parent = tree.root
			},
			want: ErrBrokenLink,
		},
		{
			name:    "size_mismatch",
			corrupt: func(tree *Tree[int, int]) { tree.count++ },
			want:    ErrSizeMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := testNewIntSet()
			putAll(tree, 10, 20, 30, 5)
			require.NoError(t, tree.Validate())

			tt.corrupt(tree)
			assert.ErrorIs(t, tree.Validate(), tt.want)
		})
	}
}

func TestValidateEmptyWithCount(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	tree.count = 2
	require.ErrorIs(t, tree.Validate(), ErrSizeMismatch)
}

func TestHeights(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	putAll(tree, 10)
	assert.Equal(t, 1, tree.Height())
	assert.Equal(t, 1, tree.BlackHeight())

	putAll(tree, 20, 30)
	assert.Equal(t, 2, tree.Height())
	assert.Equal(t, 1, tree.BlackHeight())

	putAll(tree, 5)
	assert.Equal(t, 3, tree.Height())
	assert.Equal(t, 2, tree.BlackHeight())
}
