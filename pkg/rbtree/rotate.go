package rbtree

// rotateDirection performs a tree rotation around pivot and returns the node
// that took its place. isLeft=true performs left rotation, isLeft=false
// performs right rotation.
//
// Left rotation:
//
//	  X              Y
//	A   Y    =>    X   C
//	  B C        A B
//
// Right rotation:
//
//	    Y            X
//	  X   C  =>    A   Y
//	A B              B C
//
//nolint:dupword // ASCII art diagrams contain intentional repeated letters.
func (tree *Tree[K, V]) rotateDirection(pivot uint32, isLeft bool) uint32 {
	storage := tree.storage()

	var child, inner uint32

	if isLeft {
		child = storage[pivot].right
		doAssert(child != nilNode)
		inner = storage[child].left
		storage[pivot].right = inner
	} else {
		child = storage[pivot].left
		doAssert(child != nilNode)
		inner = storage[child].right
		storage[pivot].left = inner
	}

	if inner != nilNode {
		storage[inner].parent = pivot
	}

	tree.replaceNode(pivot, child)

	if isLeft {
		storage[child].left = pivot
	} else {
		storage[child].right = pivot
	}

	storage[pivot].parent = child

	return child
}

func (tree *Tree[K, V]) rotateLeft(nodeIdx uint32) uint32 {
	return tree.rotateDirection(nodeIdx, true)
}

func (tree *Tree[K, V]) rotateRight(nodeIdx uint32) uint32 {
	return tree.rotateDirection(nodeIdx, false)
}
