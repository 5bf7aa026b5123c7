// Command roamview is a minimal Ebitengine host for the roam package: it
// loads a heightmap, drives Reset/Tessellate/Render once per tick, and
// rasterizes the emitted triangle mesh with a simple orthographic-ish
// top-down projection so the adaptive mesh can be watched changing density
// as a scripted camera flies over the terrain.
//
// This is a host, not part of the engine: mesh upload/projection, window
// management, and the flythrough script all live here, exactly as spec
// section 1 requires ("the host render engine ... out of scope" of the
// core).
package main

import (
	"flag"
	"image/color"
	"log"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/phanxgames/roamterrain"
)

const (
	screenW = 1024
	screenH = 768
)

// flightLeg is one waypoint of the scripted camera flythrough: the engine
// is given a new Camera each tick, tweened between legs' positions.
type flightLeg struct {
	x, y, z float64
}

func main() {
	heightmapPath := flag.String("heightmap", "", "path to a .raw/.png/.bmp heightmap (synthetic terrain used if empty)")
	mapSize := flag.Int("mapsize", 512, "heightmap side length")
	patchesPerSide := flag.Int("patches", 16, "patches per side")
	flag.Parse()

	cfg := roam.DefaultConfig()
	cfg.MapSize = *mapSize
	cfg.PatchesPerSide = *patchesPerSide
	cfg.MaxSplitRecursion = 2*cfg.PatchSize() + cfg.PatchesPerSide
	if err := cfg.Validate(); err != nil {
		log.Fatalf("roamview: invalid config: %v", err)
	}

	var hm *roam.Heightmap
	var err error
	if *heightmapPath != "" {
		hm, err = roam.LoadHeightmap(*heightmapPath, cfg)
		if err != nil {
			log.Fatalf("roamview: loading heightmap: %v", err)
		}
	} else {
		hm, err = roam.NewHeightmapFromBytes(cfg.MapSize, syntheticHeights(cfg.MapSize))
		if err != nil {
			log.Fatalf("roamview: building synthetic heightmap: %v", err)
		}
	}

	land, err := roam.NewLandscape(cfg, hm)
	if err != nil {
		log.Fatalf("roamview: init: %v", err)
	}

	g := newGame(land, cfg)
	ebiten.SetWindowSize(screenW, screenH)
	ebiten.SetWindowTitle("roamview")
	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}

// syntheticHeights builds a padded heightmap in the absence of a file on
// disk, so the demo runs out of the box: a few overlapping sine bumps.
func syntheticHeights(size int) []byte {
	padded := size + 1
	data := make([]byte, padded*padded)
	for y := 0; y < padded; y++ {
		for x := 0; x < padded; x++ {
			fx, fy := float64(x)/float64(size), float64(y)/float64(size)
			h := 0.5 + 0.3*math.Sin(fx*6.0)*math.Cos(fy*6.0) + 0.2*math.Sin(fx*17.0+fy*11.0)
			if h < 0 {
				h = 0
			}
			if h > 1 {
				h = 1
			}
			data[y*padded+x] = byte(h * 255)
		}
	}
	return data
}

// game implements ebiten.Game, driving the roam engine and rasterizing its
// output (mirroring willow's gameShell: a thin struct with Update/Draw/
// Layout that delegates the real work elsewhere).
type game struct {
	land *roam.Landscape
	cfg  roam.Config

	legs     []flightLeg
	legIndex int
	tweenX   *gween.Tween
	tweenY   *gween.Tween
	tweenZ   *gween.Tween
	tick     int

	mesh *roam.Mesh
}

func newGame(land *roam.Landscape, cfg roam.Config) *game {
	s := float64(cfg.MapSize)
	legs := []flightLeg{
		{s * 0.1, s * 0.6, s * 0.1},
		{s * 0.9, s * 0.5, s * 0.1},
		{s * 0.9, s * 0.4, s * 0.9},
		{s * 0.1, s * 0.3, s * 0.9},
		{s * 0.1, s * 0.6, s * 0.1},
	}
	g := &game{land: land, cfg: cfg, legs: legs}
	g.startLeg(0)
	return g
}

func (g *game) startLeg(i int) {
	next := g.legs[(i+1)%len(g.legs)]
	from := g.legs[i%len(g.legs)]
	const legSeconds = 6.0
	g.tweenX = gween.New(float32(from.x), float32(next.x), legSeconds, ease.InOutSine)
	g.tweenY = gween.New(float32(from.y), float32(next.y), legSeconds, ease.InOutSine)
	g.tweenZ = gween.New(float32(from.z), float32(next.z), legSeconds, ease.InOutSine)
	g.legIndex = i
}

func (g *game) Update() error {
	dt := float32(1.0 / float64(ebiten.TPS()))
	x, doneX := g.tweenX.Update(dt)
	y, doneY := g.tweenY.Update(dt)
	z, doneZ := g.tweenZ.Update(dt)
	if doneX && doneY && doneZ {
		g.startLeg(g.legIndex + 1)
	}

	center := float64(g.cfg.MapSize) / 2
	forward := roam.Vec3{X: center - float64(x), Y: 0, Z: center - float64(z)}
	g.land.SetCamera(roam.Camera{
		Position: roam.Vec3{X: float64(x), Y: float64(y), Z: float64(z)},
		Forward:  forward,
	})

	g.land.Reset()
	g.land.Tessellate()
	g.mesh = g.land.Render()

	g.tick++
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 18, G: 20, B: 28, A: 255})

	mesh := g.mesh
	if mesh == nil {
		return
	}
	verts := make([]ebiten.Vertex, len(mesh.Vertices))
	half := float64(g.cfg.MapSize) / 2
	scale := float64(screenW) / float64(g.cfg.MapSize)
	for i, v := range mesh.Vertices {
		sx := (v.X-half)*scale + screenW/2
		sy := (v.Z-half)*scale + screenH/2 - v.Y*0.5
		verts[i] = ebiten.Vertex{
			DstX: float32(sx), DstY: float32(sy),
			SrcX: 0, SrcY: 0,
			ColorR: float32(0.3 + v.Y/255*0.7),
			ColorG: float32(0.5 + v.Y/255*0.5),
			ColorB: 0.3,
			ColorA: 1,
		}
	}

	var triOp ebiten.DrawTrianglesOptions
	triOp.FillRule = ebiten.FillRuleNonZero
	screen.DrawTriangles32(verts, mesh.Indices, whitePixel(), &triOp)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

// whitePixel returns a 1x1 opaque white image used as the flat-shaded
// triangle "texture" for DrawTriangles32, following willow's WhitePixel
// pattern for solid-color mesh rendering.
var whitePixelImg *ebiten.Image

func whitePixel() *ebiten.Image {
	if whitePixelImg == nil {
		whitePixelImg = ebiten.NewImage(1, 1)
		whitePixelImg.Fill(color.White)
	}
	return whitePixelImg
}
