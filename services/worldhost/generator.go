package worldhost

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/VerdantMesh/foliage/internal/logging"
	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/noise"
	"github.com/VerdantMesh/foliage/services/tiles"
)

const (
	// Noise scales for terrain features.
	elevationScale = 100.0 // large scale elevation
	detailScale    = 20.0  // fine detail
	climateScale   = 400.0 // climate bands span many chunks
)

// Generator builds chunk tile grids and climate zones from layered Perlin
// noise. Output is deterministic per (seed, chunkX, chunkY).
type Generator struct {
	logger   *log.Logger
	noiseGen noise.GeneratorInterface
	seed     int64
}

// NewGenerator creates a terrain generator for the given world seed.
func NewGenerator(seed int64) *Generator {
	logger := logging.WithComponent("terrain-generator")
	logger.Debug("Creating terrain generator", "seed", seed, "chunk_size", ChunkSize)
	return &Generator{
		logger:   logger,
		noiseGen: noise.NewGenerator(seed),
		seed:     seed,
	}
}

// Seed returns the world seed.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Generate builds the chunk at the given coordinates.
func (g *Generator) Generate(chunkX, chunkY int32) *Chunk {
	logger := logging.WithChunkCoords(chunkX, chunkY)
	start := time.Now()

	cells := make([]tiles.Material, ChunkSize*ChunkSize)
	materialCounts := make(map[tiles.Material]int)
	for y := int32(0); y < ChunkSize; y++ {
		for x := int32(0); x < ChunkSize; x++ {
			worldX := chunkX*ChunkSize + x
			worldY := chunkY*ChunkSize + y

			material := g.materialAt(worldX, worldY)
			materialCounts[material]++
			cells[y*ChunkSize+x] = material
		}
	}

	grid, err := tiles.NewGrid(ChunkSize, ChunkSize, cells)
	if err != nil {
		// Unreachable with the constants above; kept as a loud failure.
		panic(err)
	}

	zone := g.zoneAt(chunkX, chunkY)
	logger.Debug("Chunk generated", "duration", time.Since(start), "zone", zone, "materials", materialCounts)

	return &Chunk{x: chunkX, y: chunkY, zone: zone, grid: grid}
}

// materialAt determines the tile material from combined noise values.
func (g *Generator) materialAt(x, y int32) tiles.Material {
	elevation := g.noiseGen.GetTerrainNoise(int(x), int(y), elevationScale)
	detail := g.noiseGen.GetTerrainNoise(int(x), int(y), detailScale)

	combined := elevation*0.7 + detail*0.3

	switch {
	case combined < -0.3:
		return tiles.MaterialWater
	case combined < -0.1:
		return tiles.MaterialSand
	case combined < 0.1:
		return tiles.MaterialSoil
	case combined < 0.35:
		return tiles.MaterialGrass
	default:
		return tiles.MaterialRock
	}
}

// zoneAt samples the climate band at the chunk center. Zones are fixed per
// chunk for its whole lifetime.
func (g *Generator) zoneAt(chunkX, chunkY int32) climate.Zone {
	centerX := int(chunkX)*ChunkSize + ChunkSize/2
	centerY := int(chunkY)*ChunkSize + ChunkSize/2
	band := g.noiseGen.GetTerrainNoise(centerX, centerY, climateScale)

	switch {
	case band < -0.5:
		return climate.ZoneTundra
	case band < -0.3:
		return climate.ZoneDesert
	case band < -0.2:
		return climate.ZoneBadlands
	case band < 0.1:
		return climate.ZoneMeadow
	case band < 0.35:
		return climate.ZoneForest
	case band < 0.55:
		return climate.ZoneHighland
	case band < 0.75:
		return climate.ZoneAlpine
	default:
		return climate.ZoneWasteland
	}
}
