// Package density computes the per-layer placement density grids consumed by
// the host renderer's scatter sampler. The builder guarantees non-negativity,
// zero outside role-eligible cells, and bit-identical output for identical
// (chunk coordinates, classification, resolution, config) inputs.
package density

import (
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/VerdantMesh/foliage/internal/config"
	"github.com/VerdantMesh/foliage/internal/logging"
	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/noise"
	"github.com/VerdantMesh/foliage/services/tiles"
)

const (
	// Grass density range before noise shaping and the config multiplier.
	GrassDensityMin = 0.35
	GrassDensityMax = 1.0
	// GrassNoiseScale is the low-frequency shaping applied over the random base.
	GrassNoiseScale = 9.0

	WaterPlantBaseDensity = 0.9
	WaterlilyBaseDensity  = 0.6
	StoneBaseDensity      = 0.3
	FlowerBaseDensity     = 0.55

	// Waterlilies and flowers cluster into patches gated by a noise mask.
	WaterlilyPatchScale     = 6.0
	WaterlilyPatchThreshold = 0.55
	FlowerPatchScale        = 12.0
	FlowerPatchThreshold    = 0.52
)

// Grid is a 2-D array of non-negative per-cell density values, one per active
// role, with the same dimensions as the chunk's tile grid.
type Grid struct {
	width, height int32
	values        []float32
}

// Width returns the grid width in cells.
func (g Grid) Width() int32 { return g.width }

// Height returns the grid height in cells.
func (g Grid) Height() int32 { return g.height }

// At returns the density at (x, y). Out-of-bounds cells read as zero.
func (g Grid) At(x, y int32) float32 {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return 0
	}
	return g.values[y*g.width+x]
}

// Values returns the row-major backing slice. Callers must treat it as
// read-only; the renderer copies it into its own layer storage.
func (g Grid) Values() []float32 {
	return g.values
}

// Builder fills one density grid per active role. InitLayers must be called
// whenever the chunk dimensions change; Build may then be called once per
// chunk decoration.
type Builder struct {
	logger     *log.Logger
	noiseGen   noise.GeneratorInterface
	multiplier float32

	width, height int32
	layers        [climate.NumRoles]Grid
	empty         Grid
}

// NewBuilder creates a density builder using the given noise source and the
// density multiplier from config.
func NewBuilder(noiseGen noise.GeneratorInterface, cfg config.Config) *Builder {
	return &Builder{
		logger:     logging.WithComponent("density-builder"),
		noiseGen:   noiseGen,
		multiplier: float32(cfg.DensityMultiplier),
	}
}

// InitLayers resets the internal per-role buffers to the given chunk
// dimensions and rebuilds the cached empty grid.
func (b *Builder) InitLayers(width, height int32) {
	b.width, b.height = width, height
	for i := range b.layers {
		b.layers[i] = Grid{width: width, height: height, values: make([]float32, width*height)}
	}
	b.empty = Grid{width: width, height: height, values: make([]float32, width*height)}
}

// Empty returns the cached all-zero grid used during teardown. It is built
// once per dimension change and reused for every disable pass.
func (b *Builder) Empty() Grid {
	return b.empty
}

// Layer returns the grid for the given role. Roles outside the last built
// resolution hold the zero grid.
func (b *Builder) Layer(role climate.Role) Grid {
	return b.layers[role]
}

// Build fills the grid of every role active in the resolution. Each role
// derives its own RNG from a deterministic hash of the chunk coordinates, so
// identical coordinates always produce identical patterns regardless of
// decoration order or which other roles are active.
func (b *Builder) Build(classified tiles.ClassGrid, res climate.Resolution, chunkX, chunkY int32) {
	for i := range b.layers {
		clear(b.layers[i].values)
	}

	seed := chunkSeed(b.noiseGen.GetSeed(), chunkX, chunkY)
	for _, role := range res.Roles.Roles() {
		rng := rand.New(rand.NewSource(seed + int64(role)))
		b.fillRole(role, classified, rng, chunkX, chunkY)
	}

	b.logger.Debug("Built density grids", "chunk_x", chunkX, "chunk_y", chunkY, "layers", res.Roles.Count())
}

func (b *Builder) fillRole(role climate.Role, classified tiles.ClassGrid, rng *rand.Rand, chunkX, chunkY int32) {
	grid := b.layers[role]
	for y := int32(0); y < b.height; y++ {
		for x := int32(0); x < b.width; x++ {
			worldX := int(chunkX*b.width + x)
			worldY := int(chunkY*b.height + y)
			v := b.cellDensity(role, classified, x, y, worldX, worldY, rng)
			if v < 0 {
				v = 0
			}
			grid.values[y*b.width+x] = v * b.multiplier
		}
	}
}

// cellDensity returns the unscaled density for one cell, zero when the role
// is inapplicable to the cell's class.
func (b *Builder) cellDensity(role climate.Role, classified tiles.ClassGrid, x, y int32, worldX, worldY int, rng *rand.Rand) float32 {
	class := classified.Class(x, y)

	switch role {
	case climate.RoleGrass:
		if class != tiles.ClassPlainGround && class != tiles.ClassCultivated {
			return 0
		}
		base := GrassDensityMin + rng.Float32()*(GrassDensityMax-GrassDensityMin)
		shape := float32(b.noiseGen.GetPatchMask(worldX, worldY, GrassNoiseScale))
		return base * (0.6 + 0.4*shape)

	case climate.RoleWaterPlant:
		dist, near := classified.WaterDistance(x, y)
		if !near || class == tiles.ClassWater {
			return 0
		}
		// Falls off with distance from the water edge.
		falloff := 1 - float32(dist-1)/float32(tiles.WaterAdjacencyRadius)
		return WaterPlantBaseDensity * falloff

	case climate.RoleWaterlily:
		if class != tiles.ClassWater {
			return 0
		}
		if b.noiseGen.GetPatchMask(worldX, worldY, WaterlilyPatchScale) < WaterlilyPatchThreshold {
			return 0
		}
		return WaterlilyBaseDensity * (0.5 + 0.5*rng.Float32())

	case climate.RoleStone:
		if class != tiles.ClassCultivated {
			return 0
		}
		return StoneBaseDensity * (0.5 + 0.5*rng.Float32())

	case climate.RoleFlower:
		if class != tiles.ClassPlainGround {
			return 0
		}
		if b.noiseGen.GetPatchMask(worldX, worldY, FlowerPatchScale) < FlowerPatchThreshold {
			return 0
		}
		return FlowerBaseDensity * (0.4 + 0.6*rng.Float32())

	default:
		return 0
	}
}

// chunkSeed mixes the world seed with the chunk coordinates. SplitMix64-style
// finalization keeps neighboring chunks uncorrelated.
func chunkSeed(worldSeed int64, chunkX, chunkY int32) int64 {
	h := uint64(worldSeed) ^ (uint64(uint32(chunkX)) << 32) ^ uint64(uint32(chunkY))
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return int64(h)
}
