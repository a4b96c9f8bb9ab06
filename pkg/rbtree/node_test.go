package rbtree //nolint:testpackage // builds node graphs by hand through the arena.

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newLooseNode allocates a detached node outside of any tree.
func newLooseNode(alloc *Allocator[int, string], key int) Node[int, string] {
	idx := alloc.malloc()
	alloc.storage[idx] = node[int, string]{key: key, value: "v" + string(rune('a'+key%26)), color: Black}

	return Node[int, string]{allocator: alloc, idx: idx}
}

// buildSample links
//
//	    20
//	  10  30
//	    15
func buildSample(t *testing.T) (n10, n15, n20, n30 Node[int, string]) {
	t.Helper()

	alloc := NewAllocator[int, string]()
	n20 = newLooseNode(alloc, 20)
	n10 = newLooseNode(alloc, 10)
	n30 = newLooseNode(alloc, 30)
	n15 = newLooseNode(alloc, 15)

	n20.SetLeft(n10)
	n20.SetRight(n30)
	n10.SetRight(n15)

	return n10, n15, n20, n30
}

func TestNodeSetChildLinksParent(t *testing.T) {
	t.Parallel()

	n10, n15, n20, n30 := buildSample(t)

	assert.True(t, n20.Parent().IsNil())
	assert.True(t, n10.Parent().Equal(n20))
	assert.True(t, n30.Parent().Equal(n20))
	assert.True(t, n15.Parent().Equal(n10))
	assert.True(t, n10.Left().IsNil())
	assert.True(t, n20.Left().Equal(n10))

	// Clearing a link leaves the old child's parent alone.
	n10.SetRight(Node[int, string]{})
	assert.True(t, n10.Right().IsNil())
	assert.True(t, n15.Parent().Equal(n10))
}

func TestNodeFindNext(t *testing.T) {
	t.Parallel()

	n10, n15, n20, n30 := buildSample(t)

	// Right subtree present: leftmost of it.
	assert.Equal(t, 15, n10.FindNext().Key())
	// No right child: climb while coming from the right, return that ancestor.
	assert.Equal(t, 20, n15.FindNext().Key())
	assert.Equal(t, 30, n20.FindNext().Key())
	assert.True(t, n30.FindNext().IsNil())
}

func TestNodeFindPrev(t *testing.T) {
	t.Parallel()

	n10, n15, n20, n30 := buildSample(t)

	assert.Equal(t, 10, n15.FindPrev().Key())
	assert.Equal(t, 15, n20.FindPrev().Key())
	assert.Equal(t, 20, n30.FindPrev().Key())
	assert.True(t, n10.FindPrev().IsNil())
}

func TestNodeGetSuccessor(t *testing.T) {
	t.Parallel()

	n10, n15, n20, n30 := buildSample(t)

	// Two children: rightmost of the left subtree.
	assert.True(t, n20.GetSuccessor().Equal(n15))
	// At most one child: the node itself.
	assert.True(t, n10.GetSuccessor().Equal(n10))
	assert.True(t, n30.GetSuccessor().Equal(n30))
}

func TestNodeCopyAndSetters(t *testing.T) {
	t.Parallel()

	n10, n15, n20, _ := buildSample(t)

	n20.Copy(n15)
	assert.Equal(t, 15, n20.Key())
	assert.Equal(t, n15.Value(), n20.Value())
	// Structure is untouched.
	assert.True(t, n20.Left().Equal(n10))

	n10.SetColor(Red)
	assert.Equal(t, Red, n10.Color())
	assert.Equal(t, "red", n10.Color().String())
	assert.Equal(t, "black", n20.Color().String())

	n10.SetValue("updated")
	assert.Equal(t, "updated", n10.Value())
}

func TestNodeNilHandle(t *testing.T) {
	t.Parallel()

	var none Node[int, string]

	assert.True(t, none.IsNil())
	assert.True(t, none.Equal(Node[int, string]{}))
	assert.Panics(t, func() { none.Key() })
	assert.Panics(t, func() { none.SetValue("x") })
	assert.Panics(t, func() { none.FindNext() })
}

func TestNodeNavigationMatchesTraversal(t *testing.T) {
	t.Parallel()

	tree := New[int, string](func(a, b int) bool { return a < b })
	for _, key := range []int{50, 20, 80, 10, 30, 70, 90, 25, 35, 65, 75} {
		tree.Put(key, "")
	}

	require.NoError(t, tree.Validate())

	keys := []int{}
	for nd := tree.Begin().Node(); !nd.IsNil(); nd = nd.FindNext() {
		keys = append(keys, nd.Key())
	}

	assert.Equal(t, []int{10, 20, 25, 30, 35, 50, 65, 70, 75, 80, 90}, keys)

	reversed := []int{}
	for nd := tree.Last().Node(); !nd.IsNil(); nd = nd.FindPrev() {
		reversed = append(reversed, nd.Key())
	}

	assert.Equal(t, []int{90, 80, 75, 70, 65, 50, 35, 30, 25, 20, 10}, reversed)
}

func TestRotationsPreserveOrder(t *testing.T) {
	t.Parallel()

	tree := testNewIntSet()
	putAll(tree, 2, 1, 3)

	root := tree.root
	newRoot := tree.rotateLeft(root)
	assert.Equal(t, 3, tree.storage()[newRoot].key)
	assert.Equal(t, newRoot, tree.root)
	assert.Equal(t, "1,2,3", iterToString(tree.Begin()))

	back := tree.rotateRight(newRoot)
	assert.Equal(t, root, back)
	assert.Equal(t, 2, tree.Root().Key())
	assert.Equal(t, "1,2,3", iterToString(tree.Begin()))
	require.NoError(t, tree.Validate())
}

func TestAllocatorFreeZero(t *testing.T) {
	t.Parallel()

	alloc := NewAllocator[int, int]()
	alloc.malloc()
	assert.Panics(t, func() { alloc.free(0) })
}

func TestAllocatorZeroValue(t *testing.T) {
	t.Parallel()

	var alloc Allocator[int, int]

	assert.Equal(t, uint32(1), alloc.malloc())
	assert.Equal(t, 2, alloc.Size())
}
