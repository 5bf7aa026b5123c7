package roam

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTriNodeResetIsLeaf(t *testing.T) {
	var n triNodeData
	n.reset()
	require.True(t, n.isLeaf())
	require.Equal(t, slotNone, n.vertexSlot)
	require.Equal(t, handleNone, n.parent)
}

func TestTriNodeLeafInvariant(t *testing.T) {
	var n triNodeData
	n.reset()
	require.Equal(t, n.leftChild == handleNone, n.isLeaf())

	n.leftChild = 1
	n.rightChild = 2
	require.False(t, n.isLeaf())
}
