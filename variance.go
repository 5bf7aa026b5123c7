package roam

// gridPoint is an integer heightmap grid coordinate, also used as a
// triangle corner throughout the bintree recursion.
type gridPoint struct {
	X, Y int
}

func midpoint(a, b gridPoint) gridPoint {
	return gridPoint{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// varianceTree is a complete-binary-tree array of coarse-to-fine height
// variances (spec section 3/4.4). Index 0 is unused; index n's children
// are 2n and 2n+1.
type varianceTree []byte

// computeVariance populates tree by recursing from the root triangle
// (left, right, apex) over hm, per spec section 4.4. It returns the root's
// local variance (needed for the recursive max, discarded by callers).
func computeVariance(hm *Heightmap, tree varianceTree, left, right, apex gridPoint, node int) int {
	center := midpoint(left, right)
	centerZ := int(hm.At(center.X, center.Y))
	leftZ := int(hm.At(left.X, left.Y))
	rightZ := int(hm.At(right.X, right.Y))

	localVar := absInt(centerZ - (leftZ+rightZ)/2)

	if absInt(left.X-right.X) >= 8 || absInt(left.Y-right.Y) >= 8 {
		leftChildVar := computeVariance(hm, tree, apex, left, center, 2*node)
		rightChildVar := computeVariance(hm, tree, right, apex, center, 2*node+1)
		if leftChildVar > localVar {
			localVar = leftChildVar
		}
		if rightChildVar > localVar {
			localVar = rightChildVar
		}
	}

	if node < len(tree) {
		stored := localVar + 1
		if stored > 255 {
			stored = 255
		}
		tree[node] = byte(stored)
	}
	return localVar
}
