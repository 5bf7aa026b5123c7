package roam

// nodeHandle is an index into a NodePool's arena. The zero value, handleNone,
// means "no node" — the arena is 1-indexed so a freshly zeroed triNodeData
// (and a freshly zeroed handle field) both mean "absent" without a separate
// validity flag.
//
// Storing links as handles rather than pointers turns the bintree's cyclic
// parent/child/neighbor graph into plain integers: release is deterministic,
// there is nothing for a GC to chase, and a node can be reset to its initial
// state by overwriting its slot in the arena (see triNodeData.reset).
type nodeHandle int32

// handleNone is the sentinel for "no node".
const handleNone nodeHandle = 0

// triNodeData is one element of a binary triangle tree (spec section 3).
// All links are handles into the owning NodePool's arena; handleNone means
// the link is absent. Invariant P1: leftChild == handleNone iff rightChild
// == handleNone.
type triNodeData struct {
	parent      nodeHandle
	leftChild   nodeHandle
	rightChild  nodeHandle
	baseNeighbor nodeHandle
	leftNeighbor nodeHandle
	rightNeighbor nodeHandle

	// vertexSlot is the index of this leaf's three vertex positions in the
	// Landscape's vertex buffer, or slotNone if unassigned.
	vertexSlot int32

	isRendered    bool
	isTessellated bool
}

// slotNone marks a triNodeData with no assigned vertex slot.
const slotNone int32 = -1

// reset restores a triNodeData to its initial (newly-allocated-or-released)
// state. Called on both NodePool.release and at root-node construction.
func (n *triNodeData) reset() {
	*n = triNodeData{vertexSlot: slotNone}
}

// isLeaf reports whether this node has no children (P1 makes checking
// either child sufficient).
func (n *triNodeData) isLeaf() bool {
	return n.leftChild == handleNone
}
