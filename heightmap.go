package roam

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// ErrHeightmapLoadFailed wraps any failure to load or decode a heightmap
// file (spec section 7: fatal at startup, surfaced to host).
var ErrHeightmapLoadFailed = fmt.Errorf("roam: heightmap load failed")

// Heightmap is a read-only, padded (size+1)x(size+1) grid of byte heights
// (spec section 3). It never changes after LoadHeightmap returns.
type Heightmap struct {
	size int // MAP_SIZE; the grid itself is (size+1) x (size+1)
	data []byte
}

// Size returns MAP_SIZE (the unpadded side length).
func (h *Heightmap) Size() int {
	return h.size
}

// At returns H[x,y]. x and y must be in [0, size]; callers in this package
// only ever evaluate grid corners produced by the bintree recursion, which
// stays within that range by construction.
func (h *Heightmap) At(x, y int) byte {
	return h.data[y*(h.size+1)+x]
}

// NewHeightmapFromBytes builds a Heightmap directly from a padded
// (size+1)x(size+1) row-major byte slice, for tests and for hosts that
// already have raw samples in memory.
func NewHeightmapFromBytes(size int, data []byte) (*Heightmap, error) {
	want := (size + 1) * (size + 1)
	if len(data) != want {
		return nil, fmt.Errorf("%w: expected %d bytes for size %d, got %d", ErrHeightmapLoadFailed, want, size, len(data))
	}
	return &Heightmap{size: size, data: data}, nil
}

// LoadHeightmap reads a heightmap file and adapts it to cfg.MapSize.
//
// Three source formats are accepted, detected by the usual convention of
// the pack's image-handling examples (willow/atlas.go decodes by
// extension; gioui and noisetorch both lean on golang.org/x/image for
// anything past PNG):
//
//   - ".raw" / ".r8": a raw row-major 8-bit grayscale dump, MAP_SIZE x
//     MAP_SIZE bytes, no header (spec section 6). Used as-is; the file
//     must already match cfg.MapSize exactly.
//   - ".png": decoded with the standard library and converted to
//     grayscale if needed.
//   - ".bmp": decoded with golang.org/x/image/bmp.
//
// PNG and BMP sources are resampled with golang.org/x/image/draw when
// their dimensions don't match cfg.MapSize, so a host can supply any
// square source image regardless of the configured grid resolution. The
// result is always padded to (MapSize+1) x (MapSize+1) by replicating the
// last row and column (spec section 6: "the engine pads one extra row and
// column (value undefined but typically = edge)").
func LoadHeightmap(path string, cfg Config) (*Heightmap, error) {
	ext := strings.ToLower(filepath.Ext(path))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrHeightmapLoadFailed, err)
	}

	switch ext {
	case ".raw", ".r8":
		return heightmapFromRaw(raw, cfg.MapSize)
	case ".png":
		img, err := png.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding png: %v", ErrHeightmapLoadFailed, err)
		}
		return heightmapFromImage(img, cfg.MapSize)
	case ".bmp":
		img, err := bmp.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding bmp: %v", ErrHeightmapLoadFailed, err)
		}
		return heightmapFromImage(img, cfg.MapSize)
	default:
		return nil, fmt.Errorf("%w: unrecognized heightmap extension %q", ErrHeightmapLoadFailed, ext)
	}
}

// heightmapFromRaw validates and pads an unheadered row-major byte dump.
func heightmapFromRaw(raw []byte, mapSize int) (*Heightmap, error) {
	want := mapSize * mapSize
	if len(raw) != want {
		return nil, fmt.Errorf("%w: raw heightmap has %d bytes, want %d (%d x %d)", ErrHeightmapLoadFailed, len(raw), want, mapSize, mapSize)
	}
	return padGray(raw, mapSize, mapSize), nil
}

// heightmapFromImage converts a decoded image to grayscale, resamples it
// to mapSize x mapSize if its dimensions differ, and pads the result.
func heightmapFromImage(img image.Image, mapSize int) (*Heightmap, error) {
	b := img.Bounds()
	if b.Dx() != mapSize || b.Dy() != mapSize {
		dst := image.NewGray(image.Rect(0, 0, mapSize, mapSize))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img = dst
	}

	gray, ok := img.(*image.Gray)
	if !ok {
		dst := image.NewGray(image.Rect(0, 0, mapSize, mapSize))
		draw.Draw(dst, dst.Bounds(), img, image.Point{}, draw.Src)
		gray = dst
	}

	return padGray(gray.Pix, mapSize, mapSize), nil
}

// padGray pads a w x h row-major grayscale buffer to (w+1) x (h+1) by
// replicating the last row and column, per spec section 6.
func padGray(src []byte, w, h int) *Heightmap {
	padded := make([]byte, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		copy(padded[y*(w+1):y*(w+1)+w], src[y*w:(y+1)*w])
		padded[y*(w+1)+w] = src[y*w+(w-1)] // replicate last column
	}
	// Replicate last row, including its corner.
	lastRow := padded[(h-1)*(w+1) : (h-1)*(w+1)+(w+1)]
	copy(padded[h*(w+1):h*(w+1)+(w+1)], lastRow)
	return &Heightmap{size: w, data: padded}
}
