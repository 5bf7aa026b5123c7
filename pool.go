package roam

import "errors"

// ErrNodePoolExhausted is returned by NodePool.allocate when the arena has
// no free slots left. Per spec section 4.1/7 this is non-fatal: the caller
// (Patch.Split) aborts the split that triggered it and tessellation at that
// location simply stops at the current level for this frame.
var ErrNodePoolExhausted = errors.New("roam: node pool exhausted")

// ErrNoFreeSlot is returned by VertexSlotPool.acquire when no vertex slots
// remain. Per spec section 4.2/7 this is non-fatal: the leaf that requested
// it is skipped for this frame and its parent subtree stays unrendered.
var ErrNoFreeSlot = errors.New("roam: no free vertex slot")

// NodePool is a fixed-capacity arena of TriNodes, with handle 0 reserved as
// "none". Root nodes (two per patch) occupy the first arena slots, outside
// the free list; every non-root node is allocated from the free list on
// Split and returned on Merge.
//
// The free list is a plain slice used as a stack, preallocated to
// capacity so allocate/release never grow the backing array — the same
// high-water-mark discipline the teacher's vertex/index buffers use
// (mesh_helpers.go's SetPoints), applied to an index free-list instead of
// a value slice.
type NodePool struct {
	arena    []triNodeData
	free     []nodeHandle
	nextRoot nodeHandle
	rootCap  nodeHandle
}

// NewNodePool creates a NodePool with the given non-root arena capacity
// (spec TRINODE_POOL; default 400,000) plus rootCount permanently-reserved
// slots for patch roots (two per patch, never released). Handles 1..
// rootCount address roots; rootCount+1..rootCount+capacity address the
// free-list-managed non-root pool. Both capacity and rootCount must be
// positive.
func NewNodePool(capacity, rootCount int) *NodePool {
	p := &NodePool{
		// arena[0] is unused filler so that handle i indexes arena[i] and
		// handleNone (0) never aliases a real node.
		arena:   make([]triNodeData, rootCount+capacity+1),
		free:    make([]nodeHandle, capacity),
		rootCap: nodeHandle(rootCount),
	}
	for i := range p.arena {
		p.arena[i].vertexSlot = slotNone
	}
	// Push handles in decreasing order so pops yield increasing handles and
	// early allocations get low indices (the reverse of VertexSlotPool,
	// whose pops yield decreasing indices).
	for i := 0; i < capacity; i++ {
		p.free[i] = nodeHandle(rootCount + capacity - i)
	}
	return p
}

// allocateRoot reserves the next unused root slot. Roots are allocated
// once, sequentially, during Landscape.Init and are never released; the
// caller is expected to allocate exactly rootCount of them.
func (p *NodePool) allocateRoot() nodeHandle {
	p.nextRoot++
	h := p.nextRoot
	p.arena[h].reset()
	return h
}

// Len returns the number of free slots remaining.
func (p *NodePool) Len() int {
	return len(p.free)
}

// Cap returns the arena's total non-root capacity.
func (p *NodePool) Cap() int {
	return len(p.arena) - 1 - int(p.rootCap)
}

// allocate returns a fresh, zeroed handle or ErrNodePoolExhausted.
func (p *NodePool) allocate() (nodeHandle, error) {
	n := len(p.free)
	if n == 0 {
		return handleNone, ErrNodePoolExhausted
	}
	h := p.free[n-1]
	p.free = p.free[:n-1]
	p.arena[h].reset()
	return h, nil
}

// release returns h to the pool, resetting its fields to initial state.
// Releasing handleNone is a no-op.
func (p *NodePool) release(h nodeHandle) {
	if h == handleNone {
		return
	}
	p.arena[h].reset()
	p.free = append(p.free, h)
}

// node returns a pointer to h's data. h must not be handleNone.
func (p *NodePool) node(h nodeHandle) *triNodeData {
	return &p.arena[h]
}

// VertexSlotPool is a stack of free triangle-slot indices into a shared
// vertex buffer; each slot spans three consecutive vertex positions.
// Grounded on particle.go's ParticleEmitter: a preallocated fixed-size
// pool whose "pool full" case is handled by silently declining the
// request rather than growing or erroring loudly.
type VertexSlotPool struct {
	free    []int32
	maxTris int
}

// NewVertexSlotPool creates a pool of maxTris slots (indices 0, 3, 6, ...),
// pushed so that pops yield decreasing indices (spec section 4.9 Init
// step 1: "FreeSlots is a stack... pushing all MAX_TRIS indices in
// increasing order so pops yield decreasing indices").
func NewVertexSlotPool(maxTris int) *VertexSlotPool {
	p := &VertexSlotPool{
		free:    make([]int32, 0, maxTris),
		maxTris: maxTris,
	}
	for i := 0; i < maxTris; i++ {
		p.free = append(p.free, int32(i*3))
	}
	return p
}

// Len returns the number of free slots remaining.
func (p *VertexSlotPool) Len() int {
	return len(p.free)
}

// Cap returns the total slot capacity (MAX_TRIS).
func (p *VertexSlotPool) Cap() int {
	return p.maxTris
}

// acquire pops a free slot index or returns ErrNoFreeSlot.
func (p *VertexSlotPool) acquire() (int32, error) {
	n := len(p.free)
	if n == 0 {
		return 0, ErrNoFreeSlot
	}
	idx := p.free[n-1]
	p.free = p.free[:n-1]
	return idx, nil
}

// release zeroes the three vertex positions at idx, idx+1, idx+2 in buf and
// pushes idx back onto the free stack.
func (p *VertexSlotPool) release(idx int32, buf []Vec3) {
	buf[idx] = Vec3{}
	buf[idx+1] = Vec3{}
	buf[idx+2] = Vec3{}
	p.free = append(p.free, idx)
}
