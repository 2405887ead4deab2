package density

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VerdantMesh/foliage/internal/config"
	"github.com/VerdantMesh/foliage/internal/testutil"
	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/noise"
	"github.com/VerdantMesh/foliage/services/tiles"
)

// testGrid builds a 8x8 chunk with a water pond, a cultivated strip and
// plain grass everywhere else.
func testGrid(t *testing.T) tiles.ClassGrid {
	t.Helper()
	rows := []string{
		"WWGGGGGG",
		"WWGGGGGG",
		"GGGGGGGG",
		"GGGGGGGG",
		"CCCCGGGG",
		"CCCCGGGG",
		"GGGGGGGG",
		"GGGGGGGG",
	}
	cells := make([]tiles.Material, 0, 64)
	for _, row := range rows {
		for _, r := range row {
			switch r {
			case 'W':
				cells = append(cells, tiles.MaterialWater)
			case 'C':
				cells = append(cells, tiles.MaterialSoil)
			case 'G':
				cells = append(cells, tiles.MaterialGrass)
			}
		}
	}
	grid, err := tiles.NewGrid(8, 8, cells)
	require.NoError(t, err)
	return tiles.NewClassifier().Classify(grid)
}

func fullResolution() climate.Resolution {
	return climate.Resolution{
		Variant: climate.VariantSummer,
		Roles: climate.NewRoleSet(
			climate.RoleGrass, climate.RoleWaterPlant, climate.RoleWaterlily,
			climate.RoleStone, climate.RoleFlower,
		),
	}
}

func newTestBuilder(multiplier float64) *Builder {
	cfg := config.Default()
	cfg.DensityMultiplier = multiplier
	return NewBuilder(noise.NewGenerator(4242), cfg)
}

func TestBuild_Deterministic(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)

	a := newTestBuilder(1.0)
	a.InitLayers(8, 8)
	a.Build(classified, fullResolution(), 3, -7)

	b := newTestBuilder(1.0)
	b.InitLayers(8, 8)
	b.Build(classified, fullResolution(), 3, -7)

	for _, role := range climate.RolePriority {
		assert.Equal(t, a.Layer(role).Values(), b.Layer(role).Values(),
			"role %s must be bit-identical across rebuilds", role)
	}
}

func TestBuild_DifferentChunksDiffer(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)

	builder := newTestBuilder(1.0)
	builder.InitLayers(8, 8)
	builder.Build(classified, fullResolution(), 0, 0)
	first := append([]float32(nil), builder.Layer(climate.RoleGrass).Values()...)

	builder.Build(classified, fullResolution(), 1, 0)
	second := builder.Layer(climate.RoleGrass).Values()

	assert.NotEqual(t, first, second, "neighboring chunks must not repeat the same grass pattern")
}

func TestBuild_RoleEligibilityInvariants(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)
	builder := newTestBuilder(1.0)
	builder.InitLayers(8, 8)
	builder.Build(classified, fullResolution(), 0, 0)

	for y := int32(0); y < 8; y++ {
		for x := int32(0); x < 8; x++ {
			class := classified.Class(x, y)
			_, nearWater := classified.WaterDistance(x, y)

			for _, role := range climate.RolePriority {
				v := builder.Layer(role).At(x, y)
				assert.GreaterOrEqual(t, v, float32(0), "role %s at (%d,%d)", role, x, y)
			}

			if class == tiles.ClassWater || !nearWater {
				assert.Zero(t, builder.Layer(climate.RoleWaterPlant).At(x, y),
					"water plants only on land near water (%d,%d)", x, y)
			}
			if class != tiles.ClassWater {
				assert.Zero(t, builder.Layer(climate.RoleWaterlily).At(x, y),
					"waterlilies only on water (%d,%d)", x, y)
			}
			if class != tiles.ClassCultivated {
				assert.Zero(t, builder.Layer(climate.RoleStone).At(x, y),
					"stones only on cultivated ground (%d,%d)", x, y)
			}
			if class != tiles.ClassPlainGround {
				assert.Zero(t, builder.Layer(climate.RoleFlower).At(x, y),
					"flowers only on plain ground (%d,%d)", x, y)
			}
			if class != tiles.ClassPlainGround && class != tiles.ClassCultivated {
				assert.Zero(t, builder.Layer(climate.RoleGrass).At(x, y),
					"grass only on ground (%d,%d)", x, y)
			}
		}
	}
}

func TestBuild_WaterPlantFalloff(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)
	builder := newTestBuilder(1.0)
	builder.InitLayers(8, 8)
	builder.Build(classified, fullResolution(), 0, 0)

	layer := builder.Layer(climate.RoleWaterPlant)
	// (2,0) touches the pond, (3,0) is one ring further out.
	edge := layer.At(2, 0)
	outer := layer.At(3, 0)
	require.Greater(t, edge, float32(0))
	require.Greater(t, outer, float32(0))
	assert.Greater(t, edge, outer, "density falls off with distance from the water edge")
}

func TestBuild_InactiveRolesAreEmpty(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)
	builder := newTestBuilder(1.0)
	builder.InitLayers(8, 8)

	grassOnly := climate.Resolution{
		Variant: climate.VariantWinter,
		Roles:   climate.NewRoleSet(climate.RoleGrass),
	}
	builder.Build(classified, grassOnly, 0, 0)

	for _, role := range []climate.Role{
		climate.RoleWaterPlant, climate.RoleWaterlily, climate.RoleStone, climate.RoleFlower,
	} {
		assert.Equal(t, builder.Empty().Values(), builder.Layer(role).Values(),
			"inactive role %s must hold the empty grid", role)
	}
}

func TestBuild_GrassIndependentOfOtherRoles(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)

	a := newTestBuilder(1.0)
	a.InitLayers(8, 8)
	a.Build(classified, fullResolution(), 5, 5)

	b := newTestBuilder(1.0)
	b.InitLayers(8, 8)
	b.Build(classified, climate.Resolution{
		Variant: climate.VariantSummer,
		Roles:   climate.NewRoleSet(climate.RoleGrass),
	}, 5, 5)

	assert.Equal(t, a.Layer(climate.RoleGrass).Values(), b.Layer(climate.RoleGrass).Values(),
		"per-role seeding keeps grass identical regardless of which other roles are active")
}

func TestBuild_ZeroMultiplierZeroesEverything(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	classified := testGrid(t)
	builder := newTestBuilder(0)
	builder.InitLayers(8, 8)
	builder.Build(classified, fullResolution(), 0, 0)

	for _, role := range climate.RolePriority {
		assert.Equal(t, builder.Empty().Values(), builder.Layer(role).Values(), "role %s", role)
	}
}

func TestEmpty(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	builder := newTestBuilder(1.0)
	builder.InitLayers(4, 4)

	empty := builder.Empty()
	assert.Equal(t, int32(4), empty.Width())
	assert.Equal(t, int32(4), empty.Height())
	for _, v := range empty.Values() {
		assert.Zero(t, v)
	}

	// The cached instance is reused across calls.
	first := builder.Empty().Values()
	second := builder.Empty().Values()
	assert.Same(t, &first[0], &second[0])
}
