package roam

// Camera is the pose the engine tessellates and renders against: a
// world-space position and a forward direction. Hosts call
// Landscape.SetCamera before Tessellate/Render whenever the view moves
// (spec section 6); the zero Camera sits at the origin with a zero Forward,
// which makes every patch visible (see patchVisible).
type Camera struct {
	Position Vec3
	Forward  Vec3
}

// Landscape is the grid of patches: it owns the pools, the output mesh
// buffer, the camera, and the per-frame pipeline (spec section 2). There is
// exactly one Landscape per terrain; nothing here is package-level mutable
// state (spec section 9, design note 2 — no process-global engine).
type Landscape struct {
	cfg Config
	hm  *Heightmap

	pool  *NodePool
	slots *VertexSlotPool
	mesh  *Mesh

	// patches is row-major: patches[i][j] is the patch at grid row i,
	// column j, anchored at heightmap (j*PatchSize, i*PatchSize).
	patches [][]*Patch

	frameVariance float64
	camera        Camera
	visibleCount  int
}

// NewLandscape validates cfg, allocates the pools/buffers/patch grid, and
// runs the two-pass Init described in spec section 4.9: per-patch root
// construction and variance computation, then symmetric inter-patch
// neighbor linkage (design note 6 — linked for every patch regardless of
// initial visibility, unlike the asymmetric, visibility-gated original).
func NewLandscape(cfg Config, hm *Heightmap) (*Landscape, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.PatchesPerSide
	l := &Landscape{
		cfg:   cfg,
		hm:    hm,
		pool:  NewNodePool(cfg.TriNodePoolSize, 2*n*n),
		slots: NewVertexSlotPool(cfg.MaxTris),
		mesh:  newMesh(cfg.MaxTris),
	}
	l.buildPatches()
	l.linkNeighbors()
	return l, nil
}

// buildPatches is Init's first pass: allocate each patch's two root nodes,
// anchor it in heightmap/world space, set the intra-patch base-neighbor
// link between its roots, and compute its variance trees (spec section
// 4.9, Init step 2).
func (l *Landscape) buildPatches() {
	n := l.cfg.PatchesPerSide
	size := l.cfg.PatchSize()
	slots := l.cfg.VarianceSlots()

	l.patches = make([][]*Patch, n)
	for i := 0; i < n; i++ {
		l.patches[i] = make([]*Patch, n)
		for j := 0; j < n; j++ {
			hx, hy := j*size, i*size
			p := &Patch{
				hx: hx, hy: hy,
				wx: hx, wy: hy,
				varLeft:  make(varianceTree, slots),
				varRight: make(varianceTree, slots),
				eng:      l,
			}
			p.lr = l.pool.allocateRoot()
			p.rr = l.pool.allocateRoot()
			p.node(p.lr).baseNeighbor = p.rr
			p.node(p.rr).baseNeighbor = p.lr

			p.lrLeft = gridPoint{hx, hy + size}
			p.lrRight = gridPoint{hx + size, hy}
			p.lrApex = gridPoint{hx, hy}

			p.rrLeft = gridPoint{hx + size, hy}
			p.rrRight = gridPoint{hx, hy + size}
			p.rrApex = gridPoint{hx + size, hy + size}

			p.ComputeVariance()
			l.patches[i][j] = p
		}
	}
}

// linkNeighbors is Init's second pass (spec section 4.9 step 3 / design
// note 6): every patch gets reset and an initial visibility computed (the
// spec calls compute_variance again here too, tolerated as redundant, so
// this does too), then all four boundary-edge links below are wired for
// every adjacent pair regardless of visibility — each bullet, applied over
// the whole grid, already produces the reciprocal link for the other side
// of the same bullet evaluated one index over, so the result is fully
// symmetric without any special-cased back-link code.
func (l *Landscape) linkNeighbors() {
	n := l.cfg.PatchesPerSide
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := l.patches[i][j]
			p.Reset()
			p.SetVisibility()
			p.ComputeVariance()
		}
	}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p := l.patches[i][j]
			if j > 0 {
				p.node(p.lr).leftNeighbor = l.patches[i][j-1].rr
			}
			if j < n-1 {
				p.node(p.rr).leftNeighbor = l.patches[i][j+1].lr
			}
			if i > 0 {
				p.node(p.lr).rightNeighbor = l.patches[i-1][j].rr
			}
			if i < n-1 {
				p.node(p.rr).rightNeighbor = l.patches[i+1][j].lr
			}
		}
	}
}

// SetCamera updates the pose used by visibility tests, split/merge
// distance weighting, and rendering. Must be called before Tessellate and
// Render for the frame to use the new pose (spec section 6).
func (l *Landscape) SetCamera(cam Camera) {
	l.camera = cam
}

// FrameVariance returns the current global split/merge threshold, as
// adjusted by the feedback controller after the previous Render.
func (l *Landscape) FrameVariance() float64 {
	return l.frameVariance
}

// VisibleCount returns the number of patches marked visible by the most
// recent Reset.
func (l *Landscape) VisibleCount() int {
	return l.visibleCount
}

// Reset clears and recomputes per-patch visibility for the frame (spec
// section 4.9: "for each patch call reset then set_visibility").
func (l *Landscape) Reset() {
	l.visibleCount = 0
	for _, row := range l.patches {
		for _, p := range row {
			p.Reset()
			p.SetVisibility()
			if p.visible {
				l.visibleCount++
			}
		}
	}
}

// Tessellate drives split/merge decisions for every visible patch's
// bintrees (spec section 4.9).
func (l *Landscape) Tessellate() {
	for _, row := range l.patches {
		for _, p := range row {
			if p.visible {
				p.Tessellate()
			}
		}
	}
}

// Render emits leaf triangles for every visible patch into the shared
// vertex buffer, then updates the feedback controller's frame_variance
// from the resulting slot usage (spec section 4.9). The returned Mesh
// aliases the Landscape's internal buffers; hosts must upload it before
// the next Render call overwrites rendered slots.
func (l *Landscape) Render() *Mesh {
	for _, row := range l.patches {
		for _, p := range row {
			if p.visible {
				p.Render()
			}
		}
	}
	l.frameVariance = updateFrameVariance(l.frameVariance, l.slots.Len(), l.cfg.WantedTris)
	return l.mesh
}
