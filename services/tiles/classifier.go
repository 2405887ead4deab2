package tiles

import (
	"github.com/charmbracelet/log"

	"github.com/VerdantMesh/foliage/internal/logging"
)

const (
	// WaterAdjacencyRadius is the Chebyshev radius within which a land cell
	// counts as "near water" for water plant placement.
	WaterAdjacencyRadius = 2
)

// Class is the semantic category a cell falls into for decoration purposes.
type Class int32

const (
	ClassOther Class = iota
	ClassWater
	ClassCultivated
	ClassPlainGround
)

// String returns the class name for logging.
func (c Class) String() string {
	switch c {
	case ClassWater:
		return "water"
	case ClassCultivated:
		return "cultivated"
	case ClassPlainGround:
		return "plain_ground"
	default:
		return "other"
	}
}

// ClassGrid holds the classification of every cell in a chunk plus the
// water-adjacency information the density builder needs.
type ClassGrid struct {
	width, height int32
	classes       []Class
	// waterDist[i] is the Chebyshev distance to the nearest water cell when
	// within WaterAdjacencyRadius, otherwise -1. Water cells carry 0.
	waterDist []int32
}

// Width returns the grid width in cells.
func (c ClassGrid) Width() int32 { return c.width }

// Height returns the grid height in cells.
func (c ClassGrid) Height() int32 { return c.height }

// Class returns the class at (x, y). Out-of-bounds cells read as other.
func (c ClassGrid) Class(x, y int32) Class {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return ClassOther
	}
	return c.classes[y*c.width+x]
}

// WaterDistance returns the distance to the nearest water cell and whether the
// cell is within the adjacency radius at all.
func (c ClassGrid) WaterDistance(x, y int32) (int32, bool) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0, false
	}
	d := c.waterDist[y*c.width+x]
	return d, d >= 0
}

// Classifier maps a chunk's material grid to semantic classes.
type Classifier struct {
	logger *log.Logger
}

// NewClassifier creates a new tile classifier.
func NewClassifier() *Classifier {
	return &Classifier{logger: logging.WithComponent("tile-classifier")}
}

// Classify computes the class of every cell plus the water adjacency pass.
// Classification of a cell depends only on that cell's material; adjacency is
// the one bounded local scan, O(cells x radius^2). Deterministic, no side
// effects on the input grid.
func (c *Classifier) Classify(grid Grid) ClassGrid {
	w, h := grid.Width(), grid.Height()
	out := ClassGrid{
		width:     w,
		height:    h,
		classes:   make([]Class, w*h),
		waterDist: make([]int32, w*h),
	}

	classCounts := make(map[Class]int)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			class := classify(grid.At(x, y))
			out.classes[y*w+x] = class
			classCounts[class]++
		}
	}

	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			out.waterDist[y*w+x] = nearestWater(out, x, y)
		}
	}

	c.logger.Debug("Classified tile grid",
		"width", w, "height", h,
		"water", classCounts[ClassWater],
		"cultivated", classCounts[ClassCultivated],
		"plain_ground", classCounts[ClassPlainGround],
		"other", classCounts[ClassOther])

	return out
}

// classify is the pure per-cell material mapping.
func classify(m Material) Class {
	switch m {
	case MaterialWater:
		return ClassWater
	case MaterialSoil:
		return ClassCultivated
	case MaterialGrass:
		return ClassPlainGround
	default:
		return ClassOther
	}
}

// nearestWater scans the Chebyshev neighborhood out to WaterAdjacencyRadius
// and returns the smallest ring distance containing a water cell, or -1.
// Cells beyond the chunk edge are treated as non-water; the host re-decorates
// chunks when neighbors stream in, so edge adjacency self-corrects.
func nearestWater(grid ClassGrid, x, y int32) int32 {
	if grid.classes[y*grid.width+x] == ClassWater {
		return 0
	}
	for r := int32(1); r <= WaterAdjacencyRadius; r++ {
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				// Only the ring at distance r; inner rings were already checked.
				if max32(abs32(dx), abs32(dy)) != r {
					continue
				}
				if grid.Class(x+dx, y+dy) == ClassWater {
					return r
				}
			}
		}
	}
	return -1
}

func abs32(v int32) int32 {
	if v < 0 {
		return -v
	}
	return v
}

func max32(a, b int32) int32 {
	if a > b {
		return a
	}
	return b
}
