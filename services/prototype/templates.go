package prototype

import (
	"github.com/VerdantMesh/foliage/services/climate"
)

// templateKey identifies one visual template in the registry.
type templateKey struct {
	role    climate.Role
	variant climate.Variant
}

// visualTemplate holds the rendering parameters of one decoration asset.
type visualTemplate struct {
	sprite   string
	color    string
	minScale float32
	maxScale float32
	sway     float32
}

// builtinTemplates returns the shipped asset table. It stands in for on-disk
// asset lookup; a missing entry at build time is a configuration error.
func builtinTemplates() map[templateKey]visualTemplate {
	return map[templateKey]visualTemplate{
		// Grass carries a template in every variant: it is the always-on
		// baseline layer.
		{climate.RoleGrass, climate.VariantSummer}: {
			sprite: "grass_tuft", color: "#7CB342", minScale: 0.8, maxScale: 1.3, sway: 0.35,
		},
		{climate.RoleGrass, climate.VariantWinter}: {
			sprite: "grass_dry", color: "#A1887F", minScale: 0.6, maxScale: 1.0, sway: 0.2,
		},
		{climate.RoleGrass, climate.VariantDesert}: {
			sprite: "grass_sparse", color: "#C0CA33", minScale: 0.5, maxScale: 0.9, sway: 0.15,
		},

		{climate.RoleWaterPlant, climate.VariantSummer}: {
			sprite: "reed_cluster", color: "#33691E", minScale: 0.9, maxScale: 1.6, sway: 0.5,
		},
		{climate.RoleWaterPlant, climate.VariantWinter}: {
			sprite: "reed_frosted", color: "#90A4AE", minScale: 0.7, maxScale: 1.2, sway: 0.25,
		},
		{climate.RoleWaterPlant, climate.VariantDesert}: {
			sprite: "oasis_rush", color: "#558B2F", minScale: 0.7, maxScale: 1.3, sway: 0.4,
		},

		{climate.RoleWaterlily, climate.VariantSummer}: {
			sprite: "waterlily_pad", color: "#388E3C", minScale: 0.9, maxScale: 1.2, sway: 0.1,
		},
		{climate.RoleWaterlily, climate.VariantWinter}: {
			sprite: "waterlily_frozen", color: "#B0BEC5", minScale: 0.8, maxScale: 1.0, sway: 0,
		},

		{climate.RoleStone, climate.VariantSummer}: {
			sprite: "field_stone", color: "#757575", minScale: 0.6, maxScale: 1.4, sway: 0,
		},
		{climate.RoleStone, climate.VariantDesert}: {
			sprite: "sandstone_chunk", color: "#BCAAA4", minScale: 0.6, maxScale: 1.5, sway: 0,
		},

		{climate.RoleFlower, climate.VariantSummer}: {
			sprite: "wildflower_mix", color: "#EC407A", minScale: 0.7, maxScale: 1.1, sway: 0.3,
		},
	}
}
