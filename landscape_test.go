package roam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNewLandscapeBuildsSymmetricNeighborLinks covers design note 6: every
// cross-patch boundary link established by linkNeighbors is mutual.
func TestNewLandscapeBuildsSymmetricNeighborLinks(t *testing.T) {
	l := newTestLandscape(t)
	n := l.cfg.PatchesPerSide

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := l.patches[i][j]
			if j < n-1 {
				right := l.patches[i][j+1]
				require.Equal(t, right.lr, p.node(p.rr).leftNeighbor)
				require.Equal(t, p.rr, right.node(right.lr).leftNeighbor)
			}
			if i < n-1 {
				below := l.patches[i+1][j]
				require.Equal(t, below.lr, p.node(p.rr).rightNeighbor)
				require.Equal(t, p.rr, below.node(below.lr).rightNeighbor)
			}
		}
	}
}

// TestNewLandscapeRejectsInvalidConfig covers spec section 7's
// InvalidConfiguration edge case.
func TestNewLandscapeRejectsInvalidConfig(t *testing.T) {
	cfg := smallTestConfig()
	cfg.MapSize = 17 // not divisible by PatchesPerSide
	hm := flatHeightmap(t, 16, 0)
	_, err := NewLandscape(cfg, hm)
	require.ErrorIs(t, err, ErrInvalidConfiguration)
}

// TestLandscapeResetVisibilityIdempotent covers L1/L2: calling Reset twice
// with no camera change yields the same visible count both times.
func TestLandscapeResetVisibilityIdempotent(t *testing.T) {
	l := newTestLandscape(t)
	l.SetCamera(Camera{Position: Vec3{X: 8, Y: 0, Z: 8}, Forward: Vec3{X: 0, Y: 0, Z: 1}})

	l.Reset()
	first := l.VisibleCount()
	l.Reset()
	second := l.VisibleCount()
	require.Equal(t, first, second)
}

// TestLandscapePipelineConservesVertexSlots covers P5/P6: after each full
// Reset/Tessellate/Render frame, the free counts of the vertex-slot pool
// and the node pool never go negative or exceed capacity.
func TestLandscapePipelineConservesVertexSlots(t *testing.T) {
	l := newTestLandscape(t)
	l.SetCamera(Camera{Position: Vec3{X: 8, Y: 5, Z: -20}, Forward: Vec3{X: 0, Y: 0, Z: 1}})

	for i := 0; i < 3; i++ {
		l.Reset()
		l.Tessellate()
		mesh := l.Render()
		require.NotNil(t, mesh)
		require.GreaterOrEqual(t, l.slots.Len(), 0)
		require.LessOrEqual(t, l.slots.Len(), l.slots.Cap())
		require.GreaterOrEqual(t, l.pool.Len(), 0)
		require.LessOrEqual(t, l.pool.Len(), l.pool.Cap())
	}
}

// TestLandscapeFeedbackControllerStaysNonNegative covers S3: frame_variance
// never goes negative regardless of how many slots are free.
func TestLandscapeFeedbackControllerStaysNonNegative(t *testing.T) {
	l := newTestLandscape(t)
	l.SetCamera(Camera{Position: Vec3{X: 8, Y: 5, Z: -20}, Forward: Vec3{X: 0, Y: 0, Z: 1}})

	for i := 0; i < 10; i++ {
		l.Reset()
		l.Tessellate()
		l.Render()
		require.GreaterOrEqual(t, l.FrameVariance(), 0.0)
	}
}

// TestLandscapeNoVisiblePatchesRendersEmptyFrame covers B1/B2: a camera
// facing away from every patch leaves the mesh's vertex buffer untouched and
// the vertex-slot pool fully free.
func TestLandscapeNoVisiblePatchesRendersEmptyFrame(t *testing.T) {
	l := newTestLandscape(t)
	// Far away, facing further away from the whole grid.
	l.SetCamera(Camera{Position: Vec3{X: -1000, Y: 0, Z: -1000}, Forward: Vec3{X: -1, Y: 0, Z: -1}})

	l.Reset()
	require.Equal(t, 0, l.VisibleCount())

	l.Tessellate()
	l.Render()
	require.Equal(t, l.slots.Cap(), l.slots.Len())
}
