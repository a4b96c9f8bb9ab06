package rbtree

// Delete removes key from the tree. Returns true iff the key was found.
func (tree *Tree[K, V]) Delete(key K) bool {
	nodeIdx := tree.lookup(key)
	if nodeIdx == nilNode {
		return false
	}

	tree.doDelete(nodeIdx)

	return true
}

// DeleteAt deletes the item the iterator points to.
//
// When the node has two children its predecessor's content is moved into it,
// so afterwards iter refers to the predecessor's key. Any other iterator on the
// predecessor becomes invalid.
//
// REQUIRES: iter.Valid().
func (tree *Tree[K, V]) DeleteAt(iter Iterator[K, V]) {
	doAssert(iter.Valid())
	tree.doDelete(iter.node)
}

// doDelete unlinks the node that holds the content of nodeIdx.
//
// With two children the in-subtree predecessor is the one physically removed
// and its key/value are copied into nodeIdx, reducing to the one-child case.
func (tree *Tree[K, V]) doDelete(nodeIdx uint32) {
	storage := tree.storage()
	pivot := deletionPivot(nodeIdx, storage)

	replacement := storage[pivot].left
	if replacement == nilNode {
		replacement = storage[pivot].right
	}

	parent := storage[pivot].parent
	tree.replaceNode(pivot, replacement)

	if pivot != nodeIdx {
		storage[nodeIdx].key = storage[pivot].key
		storage[nodeIdx].value = storage[pivot].value
	}

	// Removing a red node never changes a black-height.
	if storage[pivot].color == Black {
		tree.deleteFixUp(replacement, parent)
	}

	tree.allocator.free(pivot)
	tree.count--
}

// deleteFixUp resolves a missing black on the path through nodeIdx. nodeIdx
// may be nilNode (an empty child slot), so its parent is carried explicitly.
//
//nolint:gocognit,funlen // mirrored case analysis.
func (tree *Tree[K, V]) deleteFixUp(nodeIdx, parent uint32) {
	storage := tree.storage()

	for nodeIdx != tree.root && getColor(nodeIdx, storage) == Black {
		// A deficient empty slot always has a non-empty sibling, so a zero
		// left link identifies the slot as the left one.
		if storage[parent].left == nodeIdx {
			sibling := storage[parent].right

			// Red sibling: rotate so that the sibling becomes black.
			if storage[sibling].color == Red {
				storage[sibling].color = Black
				storage[parent].color = Red
				tree.rotateLeft(parent)

				continue
			}

			// Far nephew red: one rotation absorbs the deficiency.
			if far := storage[sibling].right; getColor(far, storage) == Red {
				storage[sibling].color = storage[parent].color
				storage[parent].color = Black
				storage[far].color = Black
				tree.rotateLeft(parent)

				nodeIdx = tree.root

				break
			}

			// Near nephew red: turn it into the far case.
			if near := storage[sibling].left; getColor(near, storage) == Red {
				storage[near].color = Black
				storage[sibling].color = Red
				tree.rotateRight(sibling)

				continue
			}

			// Both nephews black: push the deficiency up.
			storage[sibling].color = Red
			nodeIdx = parent
			parent = storage[nodeIdx].parent

			continue
		}

		sibling := storage[parent].left

		if storage[sibling].color == Red {
			storage[sibling].color = Black
			storage[parent].color = Red
			tree.rotateRight(parent)

			continue
		}

		if far := storage[sibling].left; getColor(far, storage) == Red {
			storage[sibling].color = storage[parent].color
			storage[parent].color = Black
			storage[far].color = Black
			tree.rotateRight(parent)

			nodeIdx = tree.root

			break
		}

		if near := storage[sibling].right; getColor(near, storage) == Red {
			storage[near].color = Black
			storage[sibling].color = Red
			tree.rotateLeft(sibling)

			continue
		}

		storage[sibling].color = Red
		nodeIdx = parent
		parent = storage[nodeIdx].parent
	}

	if nodeIdx != nilNode {
		storage[nodeIdx].color = Black
	}
}
