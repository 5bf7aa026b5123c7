package roam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNodePoolAllocateRelease(t *testing.T) {
	p := NewNodePool(4, 2)
	require.Equal(t, 4, p.Len())
	require.Equal(t, 4, p.Cap())

	h1, err := p.allocate()
	require.NoError(t, err)
	require.NotEqual(t, handleNone, h1)
	require.Equal(t, 3, p.Len())

	p.release(h1)
	require.Equal(t, 4, p.Len())
	require.Equal(t, slotNone, p.node(h1).vertexSlot)
}

func TestNodePoolExhaustion(t *testing.T) {
	p := NewNodePool(2, 1)
	_, err := p.allocate()
	require.NoError(t, err)
	_, err = p.allocate()
	require.NoError(t, err)

	_, err = p.allocate()
	require.ErrorIs(t, err, ErrNodePoolExhausted)
}

func TestNodePoolReleaseResetsFields(t *testing.T) {
	p := NewNodePool(4, 1)
	h, err := p.allocate()
	require.NoError(t, err)
	n := p.node(h)
	n.isRendered = true
	n.leftChild = 99
	n.parent = 7

	p.release(h)
	h2, err := p.allocate()
	require.NoError(t, err)
	require.Equal(t, h, h2) // stack reuse: last released is first reallocated
	n2 := p.node(h2)
	require.False(t, n2.isRendered)
	require.Equal(t, handleNone, n2.leftChild)
	require.Equal(t, handleNone, n2.parent)
	require.Equal(t, slotNone, n2.vertexSlot)
}

func TestNodePoolRoots(t *testing.T) {
	p := NewNodePool(4, 2)
	r1 := p.allocateRoot()
	r2 := p.allocateRoot()
	require.NotEqual(t, r1, r2)
	require.NotEqual(t, handleNone, r1)
	require.NotEqual(t, handleNone, r2)
	// Root allocation doesn't touch the free-list pool.
	require.Equal(t, 4, p.Len())
}

func TestVertexSlotPoolAcquireRelease(t *testing.T) {
	sp := NewVertexSlotPool(3)
	require.Equal(t, 3, sp.Len())
	require.Equal(t, 3, sp.Cap())

	idx, err := sp.acquire()
	require.NoError(t, err)
	require.Equal(t, 2, sp.Len())
	// Pops yield decreasing indices (spec section 4.9 Init step 1).
	require.Equal(t, int32(6), idx)

	buf := make([]Vec3, 9)
	buf[idx] = Vec3{X: 1, Y: 2, Z: 3}
	buf[idx+1] = Vec3{X: 4, Y: 5, Z: 6}
	buf[idx+2] = Vec3{X: 7, Y: 8, Z: 9}
	sp.release(idx, buf)
	require.Equal(t, 3, sp.Len())
	require.Equal(t, Vec3{}, buf[idx])
	require.Equal(t, Vec3{}, buf[idx+1])
	require.Equal(t, Vec3{}, buf[idx+2])
}

func TestVertexSlotPoolExhaustion(t *testing.T) {
	sp := NewVertexSlotPool(1)
	_, err := sp.acquire()
	require.NoError(t, err)
	_, err = sp.acquire()
	require.ErrorIs(t, err, ErrNoFreeSlot)
}
