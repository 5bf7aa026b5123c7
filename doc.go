// Package roam implements a real-time adaptive terrain tessellator based
// on the ROAM (Real-time Optimally Adapting Meshes) algorithm.
//
// Given a read-only 8-bit heightmap, the engine produces a triangle mesh
// each frame whose density follows terrain variance and camera distance:
// a binary triangle tree (bintree) per map patch is split and merged
// toward a target triangle budget, with forced neighbor splits enforcing
// a crack-free (diamond-invariant) mesh.
//
// # Quick start
//
//	hm, err := roam.LoadHeightmap("terrain.png", roam.DefaultConfig())
//	cfg := roam.DefaultConfig()
//	land, err := roam.NewLandscape(cfg, hm)
//	land.SetCamera(roam.Camera{Position: roam.Vec3{X: 2048, Y: 600, Z: 2048}, Forward: roam.Vec3{X: 0, Y: -1, Z: 0}})
//
//	// once per frame:
//	land.Reset()
//	land.Tessellate()
//	mesh := land.Render() // mesh.Vertices, mesh.Indices
//
// The engine is single-threaded and allocation-free per frame after
// Init: node and vertex-slot pools are pre-allocated to fixed capacities
// and resource exhaustion degrades mesh quality for that frame rather
// than failing (see Config and the NodePoolExhausted / NoFreeSlot
// behaviors).
//
// Uploading the mesh to a GPU, reading heightmap files other than the
// formats LoadHeightmap understands, and driving the per-frame loop from
// a UI are all host responsibilities outside this package; see
// cmd/roamview for a minimal Ebitengine-based host.
package roam
