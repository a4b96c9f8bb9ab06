package rbtree

// Color is the color bit of a tree node.
type Color bool

// Node colors. The zero value is Red, which is the color of a freshly inserted node.
const (
	Red   Color = false
	Black Color = true
)

func (c Color) String() string {
	if c == Black {
		return "black"
	}

	return "red"
}

// Node is a handle to one node of the arena. The zero Node is "none".
//
// A Node stays valid until the node it refers to is deleted. Structural
// mutators keep parent links consistent on the attached side only; detaching
// the previous child is the caller's job.
type Node[K, V any] struct {
	allocator *Allocator[K, V]
	idx       uint32
}

func (nd Node[K, V]) self() *node[K, V] {
	doAssert(!nd.IsNil())

	return &nd.allocator.storage[nd.idx]
}

func (nd Node[K, V]) wrap(idx uint32) Node[K, V] {
	if idx == nilNode {
		return Node[K, V]{}
	}

	return Node[K, V]{allocator: nd.allocator, idx: idx}
}

// IsNil reports whether the handle refers to no node.
func (nd Node[K, V]) IsNil() bool {
	return nd.allocator == nil || nd.idx == nilNode
}

// Equal reports whether both handles refer to the same node.
func (nd Node[K, V]) Equal(other Node[K, V]) bool {
	if nd.IsNil() || other.IsNil() {
		return nd.IsNil() == other.IsNil()
	}

	return nd.allocator == other.allocator && nd.idx == other.idx
}

// Key returns the stored key.
func (nd Node[K, V]) Key() K {
	return nd.self().key
}

// Value returns the stored value.
func (nd Node[K, V]) Value() V {
	return nd.self().value
}

// Color returns the node color.
func (nd Node[K, V]) Color() Color {
	return nd.self().color
}

// Left returns the left child, or none.
func (nd Node[K, V]) Left() Node[K, V] {
	return nd.wrap(nd.self().left)
}

// Right returns the right child, or none.
func (nd Node[K, V]) Right() Node[K, V] {
	return nd.wrap(nd.self().right)
}

// Parent returns the parent, or none for a root.
func (nd Node[K, V]) Parent() Node[K, V] {
	return nd.wrap(nd.self().parent)
}

// SetLeft replaces the left child link. If child is not none, its parent
// link is pointed back at nd.
func (nd Node[K, V]) SetLeft(child Node[K, V]) {
	nd.self().left = child.idx

	if !child.IsNil() {
		nd.allocator.storage[child.idx].parent = nd.idx
	}
}

// SetRight replaces the right child link. If child is not none, its parent
// link is pointed back at nd.
func (nd Node[K, V]) SetRight(child Node[K, V]) {
	nd.self().right = child.idx

	if !child.IsNil() {
		nd.allocator.storage[child.idx].parent = nd.idx
	}
}

// SetColor sets the color bit.
func (nd Node[K, V]) SetColor(c Color) {
	nd.self().color = c
}

// SetValue overwrites the stored value.
func (nd Node[K, V]) SetValue(value V) {
	nd.self().value = value
}

// FindNext returns the in-order successor, or none if nd is the last node.
func (nd Node[K, V]) FindNext() Node[K, V] {
	doAssert(!nd.IsNil())

	return nd.wrap(doNext(nd.idx, nd.allocator.storage))
}

// FindPrev returns the in-order predecessor, or none if nd is the first node.
func (nd Node[K, V]) FindPrev() Node[K, V] {
	doAssert(!nd.IsNil())

	return nd.wrap(doPrev(nd.idx, nd.allocator.storage))
}

// GetSuccessor returns the node that is physically unlinked when nd is
// deleted: nd itself when it has at most one child, otherwise the rightmost
// node of its left subtree, whose content is moved into nd.
func (nd Node[K, V]) GetSuccessor() Node[K, V] {
	doAssert(!nd.IsNil())

	return nd.wrap(deletionPivot(nd.idx, nd.allocator.storage))
}

// Copy overwrites the key and the value of nd with those of other.
// Links and color are untouched.
func (nd Node[K, V]) Copy(other Node[K, V]) {
	src := other.self()
	dst := nd.self()
	dst.key = src.key
	dst.value = src.value
}

// Internal node attribute accessors.

func getColor[K, V any](nodeIdx uint32, storage []node[K, V]) Color {
	if nodeIdx == nilNode {
		return Black
	}

	return storage[nodeIdx].color
}

func isLeftChild[K, V any](nodeIdx uint32, storage []node[K, V]) bool {
	parent := storage[nodeIdx].parent

	return parent != nilNode && storage[parent].left == nodeIdx
}

// Return the minimum node that's larger than N, or nilNode.
func doNext[K, V any](nodeIdx uint32, storage []node[K, V]) uint32 {
	if storage[nodeIdx].right != nilNode {
		return leftmost(storage[nodeIdx].right, storage)
	}

	cursor := nodeIdx
	parent := storage[cursor].parent

	for parent != nilNode && storage[parent].right == cursor {
		cursor = parent
		parent = storage[cursor].parent
	}

	// Either the first ancestor holding cursor on its left, or nilNode past the root.
	return parent
}

// Return the maximum node that's smaller than N, or nilNode.
func doPrev[K, V any](nodeIdx uint32, storage []node[K, V]) uint32 {
	if storage[nodeIdx].left != nilNode {
		return rightmost(storage[nodeIdx].left, storage)
	}

	cursor := nodeIdx
	parent := storage[cursor].parent

	for parent != nilNode && storage[parent].left == cursor {
		cursor = parent
		parent = storage[cursor].parent
	}

	return parent
}

func deletionPivot[K, V any](nodeIdx uint32, storage []node[K, V]) uint32 {
	if storage[nodeIdx].left == nilNode || storage[nodeIdx].right == nilNode {
		return nodeIdx
	}

	return rightmost(storage[nodeIdx].left, storage)
}

func leftmost[K, V any](nodeIdx uint32, storage []node[K, V]) uint32 {
	for storage[nodeIdx].left != nilNode {
		nodeIdx = storage[nodeIdx].left
	}

	return nodeIdx
}

func rightmost[K, V any](nodeIdx uint32, storage []node[K, V]) uint32 {
	for storage[nodeIdx].right != nilNode {
		nodeIdx = storage[nodeIdx].right
	}

	return nodeIdx
}

func doAssert(condition bool) {
	if !condition {
		panic("rbtree internal assertion failed")
	}
}
