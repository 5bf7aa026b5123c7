package roam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func smallTestConfig() Config {
	c := Config{
		MapSize:           16,
		PatchesPerSide:    2,
		VarianceDepth:     4,
		MaxTris:           4096,
		WantedTris:        200,
		VarianceTolerance: 2,
		TriNodePoolSize:   8192,
	}
	c.MaxSplitRecursion = 2*c.PatchSize() + c.PatchesPerSide
	return c
}

func newTestLandscape(t *testing.T) *Landscape {
	t.Helper()
	cfg := smallTestConfig()
	require.NoError(t, cfg.Validate())
	hm := flatHeightmap(t, cfg.MapSize, 50)
	l, err := NewLandscape(cfg, hm)
	require.NoError(t, err)
	return l
}

// TestPatchSplitCreatesLeafChildren covers P1: splitting a leaf gives it two
// new leaf children whose parent pointer is the split node.
func TestPatchSplitCreatesLeafChildren(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]

	root := p.node(p.lr)
	require.True(t, root.isLeaf())

	p.split(p.lr, 0)
	root = p.node(p.lr)
	require.False(t, root.isLeaf())

	lc := p.node(root.leftChild)
	rc := p.node(root.rightChild)
	require.True(t, lc.isLeaf())
	require.True(t, rc.isLeaf())
	require.Equal(t, p.lr, lc.parent)
	require.Equal(t, p.lr, rc.parent)
}

// TestPatchSplitForcesBaseNeighborDiamond covers P2/P7: splitting one root of
// a patch forces its base-neighbor (the other root) to split too, and the
// four new children across the shared hypotenuse link up mutually, so
// the seam never develops a crack (spec section 4.5 step 9).
func TestPatchSplitForcesBaseNeighborDiamond(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]

	rrBefore := p.node(p.rr)
	require.True(t, rrBefore.isLeaf())

	p.split(p.lr, 0)

	lr := p.node(p.lr)
	rr := p.node(p.rr)
	require.False(t, lr.isLeaf())
	require.False(t, rr.isLeaf())

	lOuter := p.node(lr.leftChild)
	rOuter := p.node(lr.rightChild)
	lInner := p.node(rr.leftChild)
	rInner := p.node(rr.rightChild)

	require.Equal(t, rr.rightChild, lOuter.rightNeighbor)
	require.Equal(t, rr.leftChild, rOuter.leftNeighbor)
	require.Equal(t, lr.rightChild, lInner.rightNeighbor)
	require.Equal(t, lr.leftChild, rInner.leftNeighbor)
}

// TestPatchMergeUndoesSplit covers P3/P5: merging a mergable node releases
// its own two children back to the pool and restores leaf state. Splitting
// p.lr also forces its base neighbor (p.rr) to split via the diamond
// invariant, but merge(p.lr) only undoes p.lr's own split, so the pool does
// not return all the way to its pre-split size.
func TestPatchMergeUndoesSplit(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]
	before := l.pool.Len()

	p.split(p.lr, 0)
	afterSplit := l.pool.Len()
	require.Less(t, afterSplit, before)
	require.True(t, p.mergable(p.lr))

	p.merge(p.lr)
	require.Equal(t, afterSplit+2, l.pool.Len())
	require.True(t, p.node(p.lr).isLeaf())
}

// TestPatchMergableFalseForGrandchildren covers the mergable definition in
// spec section 4.6: a node with a non-leaf child is never mergable.
func TestPatchMergableFalseForGrandchildren(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]

	p.split(p.lr, 0)
	require.True(t, p.mergable(p.lr))

	root := p.node(p.lr)
	p.split(root.leftChild, 0)
	require.False(t, p.mergable(p.lr))
}

// TestPatchMergeDownCollapsesDeeperLevel covers P5/P6: MergeDown walks past
// a non-mergable root into its children and merges whichever of them has
// become mergable, releasing those grandchildren back to the pool. A single
// MergeDown pass only flattens the level it finds mergable, so p.lr itself
// is left with two leaf children rather than becoming a leaf outright.
func TestPatchMergeDownCollapsesDeeperLevel(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]

	p.split(p.lr, 0)
	root := p.node(p.lr)
	p.split(root.leftChild, 0)
	deepened := l.pool.Len()

	p.mergeDown(p.lr)
	require.Greater(t, l.pool.Len(), deepened)

	root = p.node(p.lr)
	require.False(t, root.isLeaf())
	require.True(t, p.node(root.leftChild).isLeaf())
	require.True(t, p.node(root.rightChild).isLeaf())
}

// TestPatchRenderLeafAcquiresVertexSlot covers section 4.8: rendering an
// untessellated leaf pair writes a triangle and marks it rendered.
func TestPatchRenderLeafAcquiresVertexSlot(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]

	freeBefore := l.slots.Len()
	p.Render()
	require.Less(t, l.slots.Len(), freeBefore)
	require.True(t, p.node(p.lr).isRendered)
	require.True(t, p.node(p.rr).isRendered)
}

// TestPatchComputeVarianceIsPure covers L3: recomputing variance from the
// same heightmap yields identical trees.
func TestPatchComputeVarianceIsPure(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]

	a := append(varianceTree(nil), p.varLeft...)
	p.ComputeVariance()
	b := append(varianceTree(nil), p.varLeft...)
	require.Equal(t, a, b)
}

// TestPatchTessellateThenRenderProducesTriangles runs the ordinary per-frame
// pipeline (S1) end to end on one patch.
func TestPatchTessellateThenRenderProducesTriangles(t *testing.T) {
	l := newTestLandscape(t)
	p := l.patches[0][0]
	p.visible = true

	p.Tessellate()
	freeBefore := l.slots.Len()
	p.Render()
	require.Less(t, l.slots.Len(), freeBefore)
}
