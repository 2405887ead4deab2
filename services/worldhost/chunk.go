// Package worldhost is the reference terrain host: it generates chunk tile
// grids from layered noise, keeps the in-memory registry of loaded chunks,
// fires the chunk-ready notification, and optionally caches generated chunks
// in Postgres. The decoration controller only sees it through the interfaces
// in services/decoration.
package worldhost

import (
	"sync"

	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/prototype"
	"github.com/VerdantMesh/foliage/services/tiles"
)

const (
	// ChunkSize is the tile grid edge length of every chunk.
	ChunkSize = 32
)

// Chunk is one streamed terrain unit. The tile grid and climate zone are
// fixed at generation time; the detail-layer storage is the mutable sink the
// decoration controller writes into.
type Chunk struct {
	x, y int32
	zone climate.Zone
	grid tiles.Grid

	mu             sync.Mutex
	prototypes     []prototype.Prototype
	layers         [climate.NumRoles][]float32
	renderDistance float64
	densityScale   float64
}

// Coords returns the integer chunk coordinates.
func (c *Chunk) Coords() (int32, int32) {
	return c.x, c.y
}

// Zone returns the chunk's climate zone.
func (c *Chunk) Zone() climate.Zone {
	return c.zone
}

// TileGrid returns the chunk's immutable tile material grid.
func (c *Chunk) TileGrid() tiles.Grid {
	return c.grid
}

// SetDetailLayer installs one density grid into a layer slot.
func (c *Chunk) SetDetailLayer(layerIndex int32, densities []float32) {
	if layerIndex < 0 || layerIndex >= climate.NumRoles {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.layers[layerIndex] = densities
}

// SetPrototypes replaces the chunk's prototype list. Passing nil clears it.
func (c *Chunk) SetPrototypes(prototypes []prototype.Prototype) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prototypes = prototypes
}

// SetRenderParams installs the renderer's distance and density scale.
func (c *Chunk) SetRenderParams(distance, densityScale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderDistance = distance
	c.densityScale = densityScale
}

// Prototypes returns the installed prototype list (renderer side).
func (c *Chunk) Prototypes() []prototype.Prototype {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.prototypes
}

// DetailLayer returns the density grid in a layer slot, or nil (renderer side).
func (c *Chunk) DetailLayer(layerIndex int32) []float32 {
	if layerIndex < 0 || layerIndex >= climate.NumRoles {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.layers[layerIndex]
}

// RenderParams returns the installed render distance and density scale.
func (c *Chunk) RenderParams() (distance, densityScale float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renderDistance, c.densityScale
}
