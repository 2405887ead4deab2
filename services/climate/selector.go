package climate

import (
	"github.com/VerdantMesh/foliage/internal/config"
)

// Variant names the concrete asset family a resolution draws templates from.
type Variant int32

const (
	VariantSummer Variant = iota
	VariantWinter
	VariantDesert
)

// String returns the variant name for logging and template lookup.
func (v Variant) String() string {
	switch v {
	case VariantSummer:
		return "summer"
	case VariantWinter:
		return "winter"
	case VariantDesert:
		return "desert"
	default:
		return "unknown"
	}
}

// Resolution is the concrete (zone, season) outcome: which asset variant to
// draw from and which roles are active.
type Resolution struct {
	Variant Variant
	Roles   RoleSet
}

// SelectResolution maps (zone, season, config) to the active role set and
// asset variant. It is a total function: every combination lands in exactly
// one branch, and the default branch is the explicit grass-only baseline.
// Water, stone and flower roles are strictly opt-in per zone band; grass is
// always requested.
func SelectResolution(zone Zone, season Season, cfg config.Config) Resolution {
	roles := NewRoleSet(RoleGrass)

	switch {
	case zone.Temperate() && season != SeasonWinter:
		if cfg.WaterPlants != config.WaterPlantsOff {
			roles = roles.Add(RoleWaterPlant).Add(RoleWaterlily)
		}
		if cfg.Stones {
			roles = roles.Add(RoleStone)
		}
		if cfg.Flowers {
			roles = roles.Add(RoleFlower)
		}
		return Resolution{Variant: VariantSummer, Roles: roles}

	case zone.Temperate():
		// Winter keeps water plants only when the all-season mode enables the
		// winter asset set; everything else is buried under snow.
		if cfg.WaterPlants == config.WaterPlantsAllSeasons {
			roles = roles.Add(RoleWaterPlant).Add(RoleWaterlily)
		}
		return Resolution{Variant: VariantWinter, Roles: roles}

	case zone.DesertBand() && cfg.WaterPlants != config.WaterPlantsOff:
		// Desert water plants hug the oasis edges. Waterlilies and flowers do
		// not grow here; stones follow their own toggle.
		roles = roles.Add(RoleWaterPlant)
		if cfg.Stones {
			roles = roles.Add(RoleStone)
		}
		return Resolution{Variant: VariantDesert, Roles: roles}

	default:
		// Unmatched zone bands fall back to the baseline grass layer.
		variant := VariantSummer
		if season == SeasonWinter {
			variant = VariantWinter
		}
		return Resolution{Variant: variant, Roles: roles}
	}
}
