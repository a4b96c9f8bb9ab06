package rbtree

import (
	"github.com/Sumatoshi-tech/rbtree/pkg/safeconv"
)

// nilNode is the reserved index meaning "no node". It doubles as the End() position.
const nilNode uint32 = 0

// beforeBeginNode is the reserved index of the position before the minimum.
const beforeBeginNode = safeconv.MaxUint32

type node[K, V any] struct {
	key                 K
	value               V
	parent, left, right uint32
	color               Color
}

// Allocator is the arena holding the nodes of one or more trees.
//
// Nodes are addressed by uint32 indices; index 0 is reserved and never handed
// out, so a zero link means "absent". Freed indices are recycled before the
// storage grows.
type Allocator[K, V any] struct {
	storage []node[K, V]
	gaps    []uint32
}

// NewAllocator creates a new allocator for tree nodes.
func NewAllocator[K, V any]() *Allocator[K, V] {
	return &Allocator[K, V]{
		storage: []node[K, V]{{color: Black}},
		gaps:    []uint32{},
	}
}

// Size returns the currently allocated size, including the reserved slot.
func (allocator *Allocator[K, V]) Size() int {
	return len(allocator.storage)
}

// Used returns the number of slots that are not free, including the reserved slot.
func (allocator *Allocator[K, V]) Used() int {
	return len(allocator.storage) - len(allocator.gaps)
}

// Clone copies an existing allocator. Trees bound to the original can be
// rebound to the copy with Tree.CloneShallow.
func (allocator *Allocator[K, V]) Clone() *Allocator[K, V] {
	clone := &Allocator[K, V]{
		storage: make([]node[K, V], len(allocator.storage), cap(allocator.storage)),
		gaps:    make([]uint32, len(allocator.gaps)),
	}
	copy(clone.storage, allocator.storage)
	copy(clone.gaps, allocator.gaps)

	return clone
}

func (allocator *Allocator[K, V]) malloc() uint32 {
	if gapsLen := len(allocator.gaps); gapsLen > 0 {
		idx := allocator.gaps[gapsLen-1]
		allocator.gaps = allocator.gaps[:gapsLen-1]

		return idx
	}

	nodeLen := len(allocator.storage)
	if nodeLen == 0 {
		// Zero is reserved.
		allocator.storage = append(allocator.storage, node[K, V]{color: Black})
		nodeLen = 1
	}

	if nodeLen == int(beforeBeginNode) {
		// [math.MaxUint32] is reserved.
		panic("rbtree: allocator has reached the maximum value for uint32")
	}

	allocator.storage = append(allocator.storage, node[K, V]{})

	return safeconv.MustIntToUint32(nodeLen)
}

func (allocator *Allocator[K, V]) free(nodeIdx uint32) {
	if nodeIdx == nilNode {
		panic("rbtree: node #0 is special and cannot be deallocated")
	}

	// Drop references held by K and V so the collector can reclaim them.
	allocator.storage[nodeIdx] = node[K, V]{}
	allocator.gaps = append(allocator.gaps, nodeIdx)
}
