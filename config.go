package roam

import (
	"bytes"
	"errors"
	"fmt"
	"math/bits"
	"os"

	"github.com/BurntSushi/toml"
)

// ErrInvalidConfiguration is returned by Config.Validate when a combination
// of constants cannot produce a well-formed patch grid or variance tree.
var ErrInvalidConfiguration = errors.New("roam: invalid configuration")

// Config holds the engine's configuration constants (spec section 6).
// Zero-value Config is not valid; use DefaultConfig and override fields as
// needed, then call Validate before passing it to NewLandscape.
type Config struct {
	// MapSize is the heightmap side length in samples.
	MapSize int
	// PatchesPerSide is the number of patches along one side of the grid.
	PatchesPerSide int
	// VarianceDepth controls the variance tree size (2^VarianceDepth slots).
	VarianceDepth int
	// MaxTris is the pre-allocated vertex-slot pool capacity (triangles).
	MaxTris int
	// WantedTris is the triangle budget the feedback controller targets.
	WantedTris int
	// VarianceTolerance is the hysteresis band around frame variance used
	// by split/merge decisions.
	VarianceTolerance float64
	// TriNodePoolSize is the capacity of the non-root TriNode arena.
	TriNodePoolSize int
	// MaxSplitRecursion bounds the depth of a forced-split chain before it
	// is treated as pool exhaustion, guarding against runaway recursion
	// (spec section 9, design note 3).
	MaxSplitRecursion int
}

// DefaultConfig returns the defaults from spec section 6.
func DefaultConfig() Config {
	c := Config{
		MapSize:           4096,
		PatchesPerSide:    64,
		VarianceDepth:     9,
		MaxTris:           200000,
		WantedTris:        100000,
		VarianceTolerance: 2,
		TriNodePoolSize:   400000,
	}
	c.MaxSplitRecursion = 2*c.patchSize() + c.PatchesPerSide
	return c
}

// patchSize returns MAP_SIZE / PATCHES_PER_SIDE.
func (c Config) patchSize() int {
	if c.PatchesPerSide == 0 {
		return 0
	}
	return c.MapSize / c.PatchesPerSide
}

// PatchSize returns MAP_SIZE / PATCHES_PER_SIDE.
func (c Config) PatchSize() int {
	return c.patchSize()
}

// VarianceSlots returns 2^VarianceDepth, the number of entries in each
// patch-side variance tree.
func (c Config) VarianceSlots() int {
	return 1 << uint(c.VarianceDepth)
}

// Validate checks the constants against the consistency rules required by
// the bintree and variance tree (spec section 7: InvalidConfiguration).
func (c Config) Validate() error {
	if c.MapSize <= 0 || c.PatchesPerSide <= 0 {
		return fmt.Errorf("%w: MapSize and PatchesPerSide must be positive", ErrInvalidConfiguration)
	}
	if c.MapSize%c.PatchesPerSide != 0 {
		return fmt.Errorf("%w: MapSize %d not divisible by PatchesPerSide %d", ErrInvalidConfiguration, c.MapSize, c.PatchesPerSide)
	}
	patchSize := c.patchSize()
	if patchSize&(patchSize-1) != 0 {
		return fmt.Errorf("%w: PatchSize %d must be a power of two", ErrInvalidConfiguration, patchSize)
	}
	// computeVariance only recurses while |dx| or |dy| stays >= 8 (spec
	// section 4.4 step 3), and each pair of levels halves one axis, so the
	// recursion bottoms out after roughly 2*log2(patchSize/8) levels. A
	// two-level margin covers the axis-alternation off-by-one at the
	// boundary; the variance tree must be at least that deep.
	ratio := patchSize / 8
	if ratio < 1 {
		ratio = 1
	}
	needDepth := 2*(bits.Len(uint(ratio))-1) + 2
	if c.VarianceDepth < needDepth {
		return fmt.Errorf("%w: VarianceDepth %d too shallow for PatchSize %d (need >= %d)", ErrInvalidConfiguration, c.VarianceDepth, patchSize, needDepth)
	}
	if c.MaxTris <= 0 || c.WantedTris <= 0 {
		return fmt.Errorf("%w: MaxTris and WantedTris must be positive", ErrInvalidConfiguration)
	}
	if c.WantedTris > c.MaxTris {
		return fmt.Errorf("%w: WantedTris %d exceeds MaxTris %d", ErrInvalidConfiguration, c.WantedTris, c.MaxTris)
	}
	if c.TriNodePoolSize <= 0 {
		return fmt.Errorf("%w: TriNodePoolSize must be positive", ErrInvalidConfiguration)
	}
	if c.VarianceTolerance < 0 {
		return fmt.Errorf("%w: VarianceTolerance must be non-negative", ErrInvalidConfiguration)
	}
	return nil
}

// configFile mirrors a Config for TOML round-tripping; BurntSushi/toml
// encodes exported struct fields directly, but MaxSplitRecursion is
// derived rather than configured by hosts so it is recomputed on load
// instead of being persisted.
type configFile struct {
	MapSize           int
	PatchesPerSide    int
	VarianceDepth     int
	MaxTris           int
	WantedTris        int
	VarianceTolerance float64
	TriNodePoolSize   int
}

// LoadConfigTOML reads a Config from a TOML file, following noisetorch's
// config.go read pattern. Fields absent from the file keep DefaultConfig's
// values.
func LoadConfigTOML(path string) (Config, error) {
	def := DefaultConfig()
	cf := configFile{
		MapSize:           def.MapSize,
		PatchesPerSide:    def.PatchesPerSide,
		VarianceDepth:     def.VarianceDepth,
		MaxTris:           def.MaxTris,
		WantedTris:        def.WantedTris,
		VarianceTolerance: def.VarianceTolerance,
		TriNodePoolSize:   def.TriNodePoolSize,
	}
	if _, err := toml.DecodeFile(path, &cf); err != nil {
		return Config{}, fmt.Errorf("roam: reading config %s: %w", path, err)
	}
	cfg := Config{
		MapSize:           cf.MapSize,
		PatchesPerSide:    cf.PatchesPerSide,
		VarianceDepth:     cf.VarianceDepth,
		MaxTris:           cf.MaxTris,
		WantedTris:        cf.WantedTris,
		VarianceTolerance: cf.VarianceTolerance,
		TriNodePoolSize:   cf.TriNodePoolSize,
	}
	cfg.MaxSplitRecursion = 2*cfg.patchSize() + cfg.PatchesPerSide
	return cfg, nil
}

// SaveConfigTOML writes cfg to path in TOML form.
func SaveConfigTOML(path string, cfg Config) error {
	cf := configFile{
		MapSize:           cfg.MapSize,
		PatchesPerSide:    cfg.PatchesPerSide,
		VarianceDepth:     cfg.VarianceDepth,
		MaxTris:           cfg.MaxTris,
		WantedTris:        cfg.WantedTris,
		VarianceTolerance: cfg.VarianceTolerance,
		TriNodePoolSize:   cfg.TriNodePoolSize,
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cf); err != nil {
		return fmt.Errorf("roam: encoding config: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0644)
}
