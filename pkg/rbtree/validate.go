package rbtree

import (
	"errors"
	"fmt"
)

// Invariant violations reported by Validate.
var (
	ErrRedRoot      = errors.New("root is red")
	ErrRedRed       = errors.New("red node has a red child")
	ErrBlackHeight  = errors.New("unequal black heights")
	ErrUnordered    = errors.New("keys out of order")
	ErrBrokenLink   = errors.New("parent link does not match child link")
	ErrSizeMismatch = errors.New("size does not match node count")
)

// Validate checks every red-black invariant and the element count. It walks
// the whole tree, so it is meant for tests and debugging.
func (tree *Tree[K, V]) Validate() error {
	storage := tree.storage()

	if tree.root == nilNode {
		if tree.count != 0 {
			return fmt.Errorf("%w: %d recorded, tree is empty", ErrSizeMismatch, tree.count)
		}

		return nil
	}

	if storage[tree.root].parent != nilNode {
		return fmt.Errorf("%w: root #%d has parent #%d", ErrBrokenLink, tree.root, storage[tree.root].parent)
	}

	if storage[tree.root].color != Black {
		return ErrRedRoot
	}

	checker := validator[K, V]{tree: tree, storage: storage}

	_, err := checker.walk(tree.root, nil, nil)
	if err != nil {
		return err
	}

	if checker.nodes != tree.count {
		return fmt.Errorf("%w: %d recorded, %d reachable", ErrSizeMismatch, tree.count, checker.nodes)
	}

	return nil
}

// Height returns the number of nodes on the longest root-to-leaf path.
func (tree *Tree[K, V]) Height() int {
	storage := tree.storage()

	var depth func(nodeIdx uint32) int

	depth = func(nodeIdx uint32) int {
		if nodeIdx == nilNode {
			return 0
		}

		return 1 + max(depth(storage[nodeIdx].left), depth(storage[nodeIdx].right))
	}

	return depth(tree.root)
}

// BlackHeight returns the number of black nodes on the path from the root to
// its leftmost empty slot, the root included. Validate guarantees every path
// yields the same number.
func (tree *Tree[K, V]) BlackHeight() int {
	storage := tree.storage()
	height := 0

	for nodeIdx := tree.root; nodeIdx != nilNode; nodeIdx = storage[nodeIdx].left {
		if storage[nodeIdx].color == Black {
			height++
		}
	}

	return height
}

type validator[K, V any] struct {
	tree    *Tree[K, V]
	storage []node[K, V]
	nodes   int
}

// walk checks the subtree at nodeIdx whose keys must lie strictly between
// lower and upper (nil means unbounded) and returns its black height.
func (v *validator[K, V]) walk(nodeIdx uint32, lower, upper *K) (int, error) {
	if nodeIdx == nilNode {
		return 0, nil
	}

	v.nodes++
	if v.nodes > v.tree.count {
		// Either a cycle or a stale count; stop before looping forever.
		return 0, fmt.Errorf("%w: more than %d nodes reachable", ErrSizeMismatch, v.tree.count)
	}

	nd := &v.storage[nodeIdx]

	if lower != nil && !v.tree.less(*lower, nd.key) {
		return 0, fmt.Errorf("%w: node #%d is not after its lower bound", ErrUnordered, nodeIdx)
	}

	if upper != nil && !v.tree.less(nd.key, *upper) {
		return 0, fmt.Errorf("%w: node #%d is not before its upper bound", ErrUnordered, nodeIdx)
	}

	for _, child := range [2]uint32{nd.left, nd.right} {
		if child == nilNode {
			continue
		}

		if v.storage[child].parent != nodeIdx {
			return 0, fmt.Errorf("%w: node #%d points to parent #%d, expected #%d",
				ErrBrokenLink, child, v.storage[child].parent, nodeIdx)
		}

		if nd.color == Red && v.storage[child].color == Red {
			return 0, fmt.Errorf("%w: nodes #%d and #%d", ErrRedRed, nodeIdx, child)
		}
	}

	leftHeight, err := v.walk(nd.left, lower, &nd.key)
	if err != nil {
		return 0, err
	}

	rightHeight, err := v.walk(nd.right, &nd.key, upper)
	if err != nil {
		return 0, err
	}

	if leftHeight != rightHeight {
		return 0, fmt.Errorf("%w: node #%d has %d on the left and %d on the right",
			ErrBlackHeight, nodeIdx, leftHeight, rightHeight)
	}

	if nd.color == Black {
		leftHeight++
	}

	return leftHeight, nil
}
