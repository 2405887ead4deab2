// Package tiles defines the per-cell tile materials of a terrain chunk and the
// classifier that maps them to the semantic classes decoration placement runs on.
package tiles

import (
	"fmt"
)

// Material identifies the surface material of one terrain cell. Materials are
// assigned by the host's terrain generator and are read-only to this module.
type Material int32

const (
	MaterialUnknown Material = iota
	MaterialWater
	MaterialSand
	MaterialSoil // cultivated / tilled ground
	MaterialGrass
	MaterialRock
	MaterialSnow
)

// String returns the material name for logging.
func (m Material) String() string {
	switch m {
	case MaterialWater:
		return "water"
	case MaterialSand:
		return "sand"
	case MaterialSoil:
		return "soil"
	case MaterialGrass:
		return "grass"
	case MaterialRock:
		return "rock"
	case MaterialSnow:
		return "snow"
	default:
		return "unknown"
	}
}

// Grid is an immutable 2-D array of cell materials for one chunk, stored in
// row-major order.
type Grid struct {
	width, height int32
	cells         []Material
}

// NewGrid wraps a row-major material slice. The slice is not copied; callers
// must not mutate it after handing it over.
func NewGrid(width, height int32, cells []Material) (Grid, error) {
	if width <= 0 || height <= 0 {
		return Grid{}, fmt.Errorf("invalid grid dimensions %dx%d", width, height)
	}
	if int32(len(cells)) != width*height {
		return Grid{}, fmt.Errorf("grid cell count %d does not match dimensions %dx%d", len(cells), width, height)
	}
	return Grid{width: width, height: height, cells: cells}, nil
}

// Width returns the grid width in cells.
func (g Grid) Width() int32 { return g.width }

// Height returns the grid height in cells.
func (g Grid) Height() int32 { return g.height }

// At returns the material at (x, y). Out-of-bounds cells read as unknown.
func (g Grid) At(x, y int32) Material {
	if x < 0 || x >= g.width || y < 0 || y >= g.height {
		return MaterialUnknown
	}
	return g.cells[y*g.width+x]
}
