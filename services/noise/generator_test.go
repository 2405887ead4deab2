package noise

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerator(t *testing.T) {
	tests := []struct {
		name string
		seed int64
	}{
		{name: "positive seed", seed: 12345},
		{name: "zero seed", seed: 0},
		{name: "negative seed", seed: -9876},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			generator := NewGenerator(tt.seed)
			require.NotNil(t, generator)
			assert.Equal(t, tt.seed, generator.GetSeed())
		})
	}
}

func TestGenerator_GetNoise_Range(t *testing.T) {
	generator := NewGenerator(42)

	coords := [][2]float64{
		{0, 0}, {10.5, 20.7}, {-15.3, -8.9}, {1000.1, -2000.2},
	}
	for _, c := range coords {
		v := generator.GetNoise(c[0], c[1])
		assert.GreaterOrEqual(t, v, -1.0, "noise at (%v,%v)", c[0], c[1])
		assert.LessOrEqual(t, v, 1.0, "noise at (%v,%v)", c[0], c[1])
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	a := NewGenerator(7)
	b := NewGenerator(7)

	for x := -20; x <= 20; x += 5 {
		for y := -20; y <= 20; y += 5 {
			assert.Equal(t, a.GetTerrainNoise(x, y, 30.0), b.GetTerrainNoise(x, y, 30.0))
		}
	}
}

func TestGenerator_DifferentSeedsDiffer(t *testing.T) {
	a := NewGenerator(1)
	b := NewGenerator(2)

	same := true
	for x := 1; x <= 50; x++ {
		if a.GetTerrainNoise(x, x*3, 20.0) != b.GetTerrainNoise(x, x*3, 20.0) {
			same = false
			break
		}
	}
	assert.False(t, same, "different seeds should produce different noise fields")
}

func TestGenerator_GetPatchMask_Range(t *testing.T) {
	generator := NewGenerator(99)

	for x := -30; x <= 30; x += 3 {
		for y := -30; y <= 30; y += 3 {
			v := generator.GetPatchMask(x, y, 12.0)
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}
