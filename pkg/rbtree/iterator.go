package rbtree

import (
	"iter"
)

// Iterator allows scanning tree elements in sort order.
//
// Iterator invalidation rule is the same as C++ std::map<>'s with one
// difference: deleting a key whose node has two children moves the
// predecessor's content into that node, so iterators on the predecessor are
// invalidated as well.
type Iterator[K, V any] struct {
	tree *Tree[K, V]
	node uint32
}

// Begin returns an iterator on the minimum key, or End() if the tree is empty.
func (tree *Tree[K, V]) Begin() Iterator[K, V] {
	if tree.root == nilNode {
		return tree.End()
	}

	return Iterator[K, V]{tree, leftmost(tree.root, tree.storage())}
}

// Last returns an iterator on the maximum key, or End() if the tree is empty.
func (tree *Tree[K, V]) Last() Iterator[K, V] {
	if tree.root == nilNode {
		return tree.End()
	}

	return Iterator[K, V]{tree, rightmost(tree.root, tree.storage())}
}

// End returns the iterator that points beyond the maximum key.
func (tree *Tree[K, V]) End() Iterator[K, V] {
	return Iterator[K, V]{tree, nilNode}
}

// Search returns an iterator on key, or End() if key is absent.
func (tree *Tree[K, V]) Search(key K) Iterator[K, V] {
	return Iterator[K, V]{tree, tree.lookup(key)}
}

// All yields key/value pairs in ascending order.
// The tree must not be modified during the iteration.
func (tree *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := tree.Begin(); !it.IsEnd(); it = it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Backward yields key/value pairs in descending order.
func (tree *Tree[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for it := tree.Last(); it.Valid(); it = it.Prev() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// Keys yields the keys in ascending order.
func (tree *Tree[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for key := range tree.All() {
			if !yield(key) {
				return
			}
		}
	}
}

// Equal checks for the underlying nodes equality.
func (it Iterator[K, V]) Equal(other Iterator[K, V]) bool {
	return it.tree == other.tree && it.node == other.node
}

// IsEnd checks if the iterator points beyond the maximum key.
func (it Iterator[K, V]) IsEnd() bool {
	return it.node == nilNode
}

// IsBeforeBegin checks if the iterator points before the minimum key.
func (it Iterator[K, V]) IsBeforeBegin() bool {
	return it.node == beforeBeginNode
}

// Valid reports whether the iterator points at a key.
func (it Iterator[K, V]) Valid() bool {
	return !it.IsEnd() && !it.IsBeforeBegin()
}

// Node returns the node the iterator points at, or none on either limit.
func (it Iterator[K, V]) Node() Node[K, V] {
	if !it.Valid() {
		return Node[K, V]{}
	}

	return it.tree.handle(it.node)
}

// Key returns the current key.
//
// REQUIRES: it.Valid().
func (it Iterator[K, V]) Key() K {
	doAssert(it.Valid())

	return it.tree.storage()[it.node].key
}

// Value returns the current value.
//
// REQUIRES: it.Valid().
func (it Iterator[K, V]) Value() V {
	doAssert(it.Valid())

	return it.tree.storage()[it.node].value
}

// SetValue overwrites the current value.
//
// REQUIRES: it.Valid().
func (it Iterator[K, V]) SetValue(value V) {
	doAssert(it.Valid())

	it.tree.storage()[it.node].value = value
}

// Next creates a new iterator that points to the successor of the current key.
// From the before-begin position it moves to the minimum.
//
// REQUIRES: !it.IsEnd().
func (it Iterator[K, V]) Next() Iterator[K, V] {
	doAssert(!it.IsEnd())

	if it.IsBeforeBegin() {
		return it.tree.Begin()
	}

	return Iterator[K, V]{it.tree, doNext(it.node, it.tree.storage())}
}

// Prev creates a new iterator that points to the predecessor of the current
// key. From End() it moves to the maximum; past the minimum it lands on the
// before-begin position.
//
// REQUIRES: !it.IsBeforeBegin().
func (it Iterator[K, V]) Prev() Iterator[K, V] {
	doAssert(!it.IsBeforeBegin())

	if it.IsEnd() {
		last := it.tree.Last()
		if last.IsEnd() {
			return Iterator[K, V]{it.tree, beforeBeginNode}
		}

		return last
	}

	prev := doPrev(it.node, it.tree.storage())
	if prev == nilNode {
		return Iterator[K, V]{it.tree, beforeBeginNode}
	}

	return Iterator[K, V]{it.tree, prev}
}
