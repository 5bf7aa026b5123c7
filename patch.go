package roam

// A split whose forced-split chain exceeds Config.MaxSplitRecursion (design
// note 3) returns without splitting, exactly as it does on
// NodePoolExhausted, so nothing reaches the host.

// Patch is a square sub-region of the heightmap holding two root TriNodes
// (left and right halves) that share a common hypotenuse (spec section 3).
// A Patch owns its two VarianceTrees and its own visibility state; Split,
// Merge, and the rest of the bintree operations below all read and write
// nodes through the Landscape's shared NodePool, since neighbor links cross
// patch boundaries freely.
type Patch struct {
	hx, hy int // heightmap-space origin
	wx, wy int // world-space origin

	lr, rr nodeHandle

	lrLeft, lrRight, lrApex gridPoint
	rrLeft, rrRight, rrApex gridPoint

	varLeft, varRight varianceTree

	visible bool

	eng *Landscape
}

func (p *Patch) node(h nodeHandle) *triNodeData {
	return p.eng.pool.node(h)
}

// ComputeVariance (re)builds both of the patch's variance trees from the
// landscape's heightmap (spec section 4.4). Called once at Init; Init also
// calls it again in its second pass, which is redundant but tolerated (spec
// section 4.9).
func (p *Patch) ComputeVariance() {
	computeVariance(p.eng.hm, p.varLeft, p.lrLeft, p.lrRight, p.lrApex, 1)
	computeVariance(p.eng.hm, p.varRight, p.rrLeft, p.rrRight, p.rrApex, 1)
}

// Reset clears this patch's per-frame visibility flag; SetVisibility
// recomputes it immediately after.
func (p *Patch) Reset() {
	p.visible = false
}

// SetVisibility recomputes p.visible from the landscape's current camera
// using the patch-center heuristic (spec section 4.9 Reset / section 9
// note 7).
func (p *Patch) SetVisibility() {
	cx := float64(p.wx) + float64(p.eng.cfg.PatchSize())/2
	cz := float64(p.wy) + float64(p.eng.cfg.PatchSize())/2
	center := Vec3{X: cx, Y: float64(p.eng.hm.At(p.hx+p.eng.cfg.PatchSize()/2, p.hy+p.eng.cfg.PatchSize()/2)), Z: cz}
	p.visible = patchVisible(center, p.eng.camera)
}

// --- Split ---

// split forces t to have children, preserving the diamond invariant (spec
// section 4.5). depth counts forced-split recursion so a runaway chain is
// bounded (design note 3) instead of blowing the Go stack.
func (p *Patch) split(t nodeHandle, depth int) {
	node := p.node(t)
	if !node.isLeaf() {
		return
	}
	if depth > p.eng.cfg.MaxSplitRecursion {
		return
	}

	if node.baseNeighbor != handleNone {
		bn := p.node(node.baseNeighbor)
		if bn.baseNeighbor != t {
			p.split(node.baseNeighbor, depth+1)
			// t may have been forced to split transitively if it was also
			// someone else's base neighbor along the chain; re-fetch and bail
			// if so (mirrors the original's "already split" short-circuit).
			node = p.node(t)
			if !node.isLeaf() {
				return
			}
		}
	}

	l, err := p.eng.pool.allocate()
	if err != nil {
		return
	}
	r, err := p.eng.pool.allocate()
	if err != nil {
		p.eng.pool.release(l)
		return
	}

	if node.isRendered {
		if node.vertexSlot != slotNone {
			p.eng.slots.release(node.vertexSlot, p.eng.mesh.Vertices)
			node.vertexSlot = slotNone
		}
		node.isRendered = false
		p.clearAncestorsRendered(node.parent)
	}
	p.clearAncestorsTessellated(t)

	ln := p.node(l)
	rn := p.node(r)
	ln.parent = t
	rn.parent = t
	ln.leftNeighbor = r
	rn.rightNeighbor = l

	// Wire t's own child pointers before touching the base neighbor: if the
	// base neighbor is forced to split recursively below, its own Split
	// looks back at t.leftChild/t.rightChild to decide whether t is "already
	// split" (spec section 4.5 step 9's "bn already split" check runs in
	// both directions), so this must happen first.
	node.leftChild = l
	node.rightChild = r

	ln.baseNeighbor = node.leftNeighbor
	rn.baseNeighbor = node.rightNeighbor

	if node.leftNeighbor != handleNone {
		p.rewriteBackLink(node.leftNeighbor, t, l)
	}
	if node.rightNeighbor != handleNone {
		p.rewriteBackLink(node.rightNeighbor, t, r)
	}

	if node.baseNeighbor != handleNone {
		bn := p.node(node.baseNeighbor)
		if !bn.isLeaf() {
			ln.rightNeighbor = bn.rightChild
			rn.leftNeighbor = bn.leftChild
			p.node(bn.leftChild).rightNeighbor = r
			p.node(bn.rightChild).leftNeighbor = l
		} else {
			p.split(node.baseNeighbor, depth+1)
		}
	} else {
		ln.rightNeighbor = handleNone
		rn.leftNeighbor = handleNone
	}
}

// rewriteBackLink replaces whichever of n's three neighbor slots points at
// oldTarget with newTarget (spec section 4.5 step 8).
func (p *Patch) rewriteBackLink(n, oldTarget, newTarget nodeHandle) {
	nn := p.node(n)
	if nn.baseNeighbor == oldTarget {
		nn.baseNeighbor = newTarget
	}
	if nn.leftNeighbor == oldTarget {
		nn.leftNeighbor = newTarget
	}
	if nn.rightNeighbor == oldTarget {
		nn.rightNeighbor = newTarget
	}
}

// clearAncestorsRendered walks parent links clearing isRendered, stopping
// once a parent is already clear (spec section 4.5 step 4).
func (p *Patch) clearAncestorsRendered(h nodeHandle) {
	for h != handleNone {
		n := p.node(h)
		if !n.isRendered {
			return
		}
		n.isRendered = false
		h = n.parent
	}
}

// clearAncestorsTessellated walks parent links clearing isTessellated,
// stopping once a parent is already clear (spec section 4.5 step 5). This
// resolves the ResetTessellateFlags ambiguity (spec section 9 note 5) in
// favor of clearing the flag the method name and the spec's own split-step
// numbering both point to, not isRendered.
func (p *Patch) clearAncestorsTessellated(h nodeHandle) {
	for h != handleNone {
		n := p.node(h)
		if !n.isTessellated {
			return
		}
		n.isTessellated = false
		h = n.parent
	}
}

// --- Merge / MergeDown ---

// mergable reports whether t has children and neither child has
// grandchildren (spec section 4.6).
func (p *Patch) mergable(t nodeHandle) bool {
	n := p.node(t)
	if n.isLeaf() {
		return false
	}
	l := p.node(n.leftChild)
	r := p.node(n.rightChild)
	return l.isLeaf() && r.isLeaf()
}

// merge collapses t's two children back into t (spec section 4.6).
func (p *Patch) merge(t nodeHandle) {
	n := p.node(t)
	children := [2]nodeHandle{n.leftChild, n.rightChild}

	for _, c := range children {
		cn := p.node(c)
		bn := cn.baseNeighbor
		if bn == handleNone {
			continue
		}
		bnNode := p.node(bn)
		wasDiamond := bnNode.baseNeighbor == c
		bnParent := bnNode.parent
		p.rewriteBackLink(bn, c, t)
		if wasDiamond && bnParent != handleNone {
			if n.leftNeighbor == bnParent {
				n.leftNeighbor = bn
			}
			if n.rightNeighbor == bnParent {
				n.rightNeighbor = bn
			}
			p.rewriteBackLink(bnParent, c, t)
		}
	}

	for _, c := range children {
		cn := p.node(c)
		if cn.isRendered {
			if cn.vertexSlot != slotNone {
				p.eng.slots.release(cn.vertexSlot, p.eng.mesh.Vertices)
			}
			p.clearAncestorsRendered(t)
		}
	}

	p.eng.pool.release(n.leftChild)
	p.eng.pool.release(n.rightChild)
	n.leftChild = handleNone
	n.rightChild = handleNone
}

// mergeDown recursively merges a whole subtree toward t (spec section 4.6).
func (p *Patch) mergeDown(t nodeHandle) {
	n := p.node(t)
	if n.isLeaf() {
		return
	}
	if p.mergable(t) {
		if n.baseNeighbor == handleNone {
			p.merge(t)
			return
		}
		if p.mergable(n.baseNeighbor) {
			p.merge(n.baseNeighbor)
			p.merge(t)
		}
		return
	}
	left, right := n.leftChild, n.rightChild
	p.mergeDown(left)
	p.mergeDown(right)
}

// --- Tessellate ---

// Tessellate drives RecursTessellate from both root triangles (spec section
// 4.7/4.9). Each call uses the variance tree matching that root's corner
// ordering from ComputeVariance.
func (p *Patch) Tessellate() {
	p.recursTessellate(p.lr, p.varLeft, p.lrLeft, p.lrRight, p.lrApex, 1)
	p.recursTessellate(p.rr, p.varRight, p.rrLeft, p.rrRight, p.rrApex, 1)
}

func (p *Patch) recursTessellate(t nodeHandle, tree varianceTree, left, right, apex gridPoint, node int) {
	n := p.node(t)
	center := midpoint(left, right)

	triVariance := 0.0
	if node < len(tree) && tree[node] > 1 {
		pos := Vec3{X: float64(center.X), Y: float64(p.eng.hm.At(center.X, center.Y)), Z: float64(center.Y)}
		dist := 1 + pos.Sub(p.eng.camera.Position).Length()
		triVariance = float64(tree[node]) * float64(p.eng.cfg.MapSize) * 2 / dist
	}

	tol := p.eng.cfg.VarianceTolerance
	fv := p.eng.frameVariance

	if !n.isTessellated && (node >= len(tree) || triVariance > fv+tol) {
		p.split(t, 0)
		n = p.node(t)
		if !n.isLeaf() && (absInt(left.X-right.X) >= 3 || absInt(left.Y-right.Y) >= 3) {
			p.recursTessellate(n.leftChild, tree, apex, left, center, 2*node)
			p.recursTessellate(n.rightChild, tree, right, apex, center, 2*node+1)
		}
	} else if triVariance < fv-tol && !n.isLeaf() && n.isRendered {
		p.mergeDown(t)
	}

	n = p.node(t)
	if !n.isLeaf() {
		l := p.node(n.leftChild)
		r := p.node(n.rightChild)
		if l.isTessellated && r.isTessellated {
			n.isTessellated = true
		}
	} else if node >= len(tree) {
		n.isTessellated = true
	}
}

// --- Render ---

// Render drives RecursRender from both roots, writing rendered leaves'
// positions into the landscape's shared vertex buffer (spec section 4.8).
func (p *Patch) Render() {
	p.recursRender(p.lr, p.lrLeft, p.lrRight, p.lrApex)
	p.recursRender(p.rr, p.rrLeft, p.rrRight, p.rrApex)
}

func (p *Patch) recursRender(t nodeHandle, left, right, apex gridPoint) {
	n := p.node(t)
	if n.isRendered {
		return
	}

	if !n.isLeaf() {
		center := midpoint(left, right)
		p.recursRender(n.leftChild, apex, left, center)
		p.recursRender(n.rightChild, right, apex, center)
		n = p.node(t)
		if p.node(n.leftChild).isRendered && p.node(n.rightChild).isRendered {
			n.isRendered = true
		}
		return
	}

	idx, err := p.eng.slots.acquire()
	if err != nil {
		return
	}
	buf := p.eng.mesh.Vertices
	buf[idx] = Vec3{X: float64(left.X), Y: float64(p.eng.hm.At(left.X, left.Y)), Z: float64(left.Y)}
	buf[idx+1] = Vec3{X: float64(right.X), Y: float64(p.eng.hm.At(right.X, right.Y)), Z: float64(right.Y)}
	buf[idx+2] = Vec3{X: float64(apex.X), Y: float64(p.eng.hm.At(apex.X, apex.Y)), Z: float64(apex.Y)}
	n.vertexSlot = idx
	n.isRendered = true
}
