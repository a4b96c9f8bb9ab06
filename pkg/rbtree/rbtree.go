// Package rbtree provides a generic ordered map backed by a red-black tree.
//
// Nodes are kept in an index-addressed arena (Allocator) rather than behind
// pointers: children are owned links, parents are plain back-references that
// are never used to release memory. Keys are ordered by a caller-supplied
// strict weak ordering; keys that order before a node's key live in its left
// subtree.
//
// A Tree is not safe for concurrent use. Rotations and fix-ups rewrite several
// links in sequence, so callers sharing a tree must serialize access.
package rbtree

import (
	"cmp"
)

// LessFunc is a strict weak ordering over keys.
type LessFunc[K any] func(a, b K) bool

// Tree is a red-black tree with an API similar to C++ STL's map.
//
// The insertion and deletion fix-ups follow the classic CLRS case analysis.
type Tree[K, V any] struct {
	// Nodes allocator.
	allocator *Allocator[K, V]

	less LessFunc[K]

	// Root of the tree.
	root uint32

	// Number of nodes under root, including the root.
	count int
}

// New creates an empty tree ordered by less.
func New[K, V any](less LessFunc[K]) *Tree[K, V] {
	return NewWithAllocator[K, V](NewAllocator[K, V](), less)
}

// NewOrdered creates an empty tree ordered by the natural ascending order of K.
func NewOrdered[K cmp.Ordered, V any]() *Tree[K, V] {
	return New[K, V](cmp.Less[K])
}

// NewWithAllocator creates an empty tree whose nodes live in allocator.
// Several trees may share one allocator.
func NewWithAllocator[K, V any](allocator *Allocator[K, V], less LessFunc[K]) *Tree[K, V] {
	doAssert(less != nil)

	return &Tree[K, V]{allocator: allocator, less: less, root: nilNode, count: 0}
}

func (tree *Tree[K, V]) storage() []node[K, V] {
	return tree.allocator.storage
}

func (tree *Tree[K, V]) handle(idx uint32) Node[K, V] {
	if idx == nilNode {
		return Node[K, V]{}
	}

	return Node[K, V]{allocator: tree.allocator, idx: idx}
}

// Allocator returns the bound nodes allocator.
func (tree *Tree[K, V]) Allocator() *Allocator[K, V] {
	return tree.allocator
}

// Size returns the number of keys in the tree.
func (tree *Tree[K, V]) Size() int {
	return tree.count
}

// Empty reports whether the tree holds no keys.
func (tree *Tree[K, V]) Empty() bool {
	return tree.count == 0
}

// Root returns the root node, or none when the tree is empty.
func (tree *Tree[K, V]) Root() Node[K, V] {
	return tree.handle(tree.root)
}

// Find returns a pointer to the value stored under key, or nil.
//
// The pointer addresses arena storage and is valid until the next call that
// inserts into or deletes from a tree sharing the allocator.
func (tree *Tree[K, V]) Find(key K) *V {
	nodeIdx := tree.lookup(key)
	if nodeIdx == nilNode {
		return nil
	}

	return &tree.storage()[nodeIdx].value
}

// Get returns the value stored under key and whether it was present.
func (tree *Tree[K, V]) Get(key K) (V, bool) {
	nodeIdx := tree.lookup(key)
	if nodeIdx == nilNode {
		var zero V

		return zero, false
	}

	return tree.storage()[nodeIdx].value, true
}

// Contains reports whether key is present.
func (tree *Tree[K, V]) Contains(key K) bool {
	return tree.lookup(key) != nilNode
}

// Put stores value under key. An existing value is overwritten in place and
// the size does not change.
func (tree *Tree[K, V]) Put(key K, value V) {
	nodeIdx, _ := tree.insert(key)
	tree.storage()[nodeIdx].value = value
}

// GetOrInsert returns a pointer to the value stored under key, inserting the
// zero value first if key is absent. The pointer has the same lifetime as
// the one returned by Find.
func (tree *Tree[K, V]) GetOrInsert(key K) *V {
	nodeIdx, _ := tree.insert(key)

	return &tree.storage()[nodeIdx].value
}

// At is the indexing form of GetOrInsert: *tree.At(k) = v.
func (tree *Tree[K, V]) At(key K) *V {
	return tree.GetOrInsert(key)
}

// Clear removes all the nodes from the tree and returns them to the allocator.
func (tree *Tree[K, V]) Clear() {
	if tree.root != nilNode {
		tree.freeSubtree(tree.root)
	}

	tree.root = nilNode
	tree.count = 0
}

// CloneShallow performs a shallow copy of the tree - the nodes are assumed to
// already exist in allocator, typically a Clone of the original one.
func (tree *Tree[K, V]) CloneShallow(allocator *Allocator[K, V]) *Tree[K, V] {
	clone := *tree
	clone.allocator = allocator

	return &clone
}

// CloneDeep performs a deep copy of the tree - the nodes are created from scratch in allocator.
func (tree *Tree[K, V]) CloneDeep(allocator *Allocator[K, V]) *Tree[K, V] {
	clone := NewWithAllocator[K, V](allocator, tree.less)
	clone.count = tree.count

	if tree.root == nilNode {
		return clone
	}

	nodeMap := map[uint32]uint32{nilNode: nilNode}
	origin := tree.storage()

	for idx := leftmost(tree.root, origin); idx != nilNode; idx = doNext(idx, origin) {
		newIdx := allocator.malloc()
		allocator.storage[newIdx].key = origin[idx].key
		allocator.storage[newIdx].value = origin[idx].value
		allocator.storage[newIdx].color = origin[idx].color
		nodeMap[idx] = newIdx
	}

	cloneStorage := allocator.storage

	for idx := leftmost(tree.root, origin); idx != nilNode; idx = doNext(idx, origin) {
		cloneNode := &cloneStorage[nodeMap[idx]]
		cloneNode.left = nodeMap[origin[idx].left]
		cloneNode.right = nodeMap[origin[idx].right]
		cloneNode.parent = nodeMap[origin[idx].parent]
	}

	clone.root = nodeMap[tree.root]

	return clone
}

// Private methods.

// lookup descends from the root and returns the node equivalent to key, or nilNode.
func (tree *Tree[K, V]) lookup(key K) uint32 {
	storage := tree.storage()
	nodeIdx := tree.root

	for nodeIdx != nilNode {
		switch {
		case tree.less(storage[nodeIdx].key, key):
			nodeIdx = storage[nodeIdx].right
		case tree.less(key, storage[nodeIdx].key):
			nodeIdx = storage[nodeIdx].left
		default:
			return nodeIdx
		}
	}

	return nilNode
}

// insert returns the node holding key, creating and rebalancing a new one
// when key is absent. The second result reports whether a node was created.
func (tree *Tree[K, V]) insert(key K) (uint32, bool) {
	parent := nilNode
	goLeft := false

	storage := tree.storage()

	for cursor := tree.root; cursor != nilNode; {
		parent = cursor

		switch {
		case tree.less(key, storage[cursor].key):
			goLeft = true
			cursor = storage[cursor].left
		case tree.less(storage[cursor].key, key):
			goLeft = false
			cursor = storage[cursor].right
		default:
			return cursor, false
		}
	}

	nodeIdx := tree.allocator.malloc()
	storage = tree.storage()
	storage[nodeIdx] = node[K, V]{key: key, parent: parent, color: Red}

	switch {
	case parent == nilNode:
		tree.root = nodeIdx
	case goLeft:
		storage[parent].left = nodeIdx
	default:
		storage[parent].right = nodeIdx
	}

	tree.count++
	tree.insertFixUp(nodeIdx)

	return nodeIdx, true
}

// insertFixUp restores "no red node has a red child" walking up from nodeIdx.
//
//nolint:gocognit // mirrored case analysis.
func (tree *Tree[K, V]) insertFixUp(nodeIdx uint32) {
	storage := tree.storage()

	for {
		parent := storage[nodeIdx].parent

		// Case 1: N is at the root.
		if parent == nilNode {
			storage[nodeIdx].color = Black

			return
		}

		// Case 2: the parent is black, so the tree already
		// satisfies the RB properties.
		if storage[parent].color == Black {
			return
		}

		// A red parent is never the root.
		grandparent := storage[parent].parent
		doAssert(grandparent != nilNode)

		if storage[grandparent].left == parent {
			uncle := storage[grandparent].right

			// Case 3: parent and uncle are both red.
			if getColor(uncle, storage) == Red {
				storage[parent].color = Black
				storage[uncle].color = Black
				storage[grandparent].color = Red
				nodeIdx = grandparent

				continue
			}

			// Case 4: inner child, straighten the line.
			if storage[parent].right == nodeIdx {
				tree.rotateLeft(parent)
				nodeIdx = parent

				continue
			}

			// Case 5: outer child.
			tree.rotateRight(grandparent)
			storage[grandparent].color = Red
			storage[parent].color = Black

			return
		}

		uncle := storage[grandparent].left

		if getColor(uncle, storage) == Red {
			storage[parent].color = Black
			storage[uncle].color = Black
			storage[grandparent].color = Red
			nodeIdx = grandparent

			continue
		}

		if storage[parent].left == nodeIdx {
			tree.rotateRight(parent)
			nodeIdx = parent

			continue
		}

		tree.rotateLeft(grandparent)
		storage[grandparent].color = Red
		storage[parent].color = Black

		return
	}
}

// freeSubtree releases nodeIdx and everything below it, following child links only.
func (tree *Tree[K, V]) freeSubtree(nodeIdx uint32) {
	pending := []uint32{nodeIdx}

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		nd := tree.storage()[current]
		if nd.left != nilNode {
			pending = append(pending, nd.left)
		}

		if nd.right != nilNode {
			pending = append(pending, nd.right)
		}

		tree.allocator.free(current)
	}
}

// replaceNode puts newn in the slot oldn occupies under its parent (or at the root).
func (tree *Tree[K, V]) replaceNode(oldn, newn uint32) {
	storage := tree.storage()
	parent := storage[oldn].parent

	switch {
	case parent == nilNode:
		tree.root = newn
	case storage[parent].left == oldn:
		storage[parent].left = newn
	default:
		storage[parent].right = newn
	}

	if newn != nilNode {
		storage[newn].parent = parent
	}
}
