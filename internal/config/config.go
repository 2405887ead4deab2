// Package config loads the user-facing decoration settings from a YAML file
// with environment variable overrides. Settings are read once at enable time
// and only refreshed by a full restart of the decoration system.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// WaterPlantsMode controls when water-adjacent plants are placed.
type WaterPlantsMode string

const (
	WaterPlantsOff        WaterPlantsMode = "off"
	WaterPlantsSummerOnly WaterPlantsMode = "summer"
	WaterPlantsAllSeasons WaterPlantsMode = "all"
)

// Valid reports whether the mode is one of the recognized values.
func (m WaterPlantsMode) Valid() bool {
	switch m {
	case WaterPlantsOff, WaterPlantsSummerOnly, WaterPlantsAllSeasons:
		return true
	}
	return false
}

// Config captures the tunable decoration parameters. Zero values are replaced
// by defaults during Load.
type Config struct {
	// WaterPlants selects off, summer-only, or all-season water plant placement.
	WaterPlants WaterPlantsMode `yaml:"water_plants"`
	// Stones toggles stone scatter on cultivated ground.
	Stones bool `yaml:"stones"`
	// Flowers toggles flower scatter on plain grass.
	Flowers bool `yaml:"flowers"`

	// RenderDistance is the max distance (in world units) at which the host
	// renderer draws decoration instances.
	RenderDistance float64 `yaml:"render_distance"`
	// DensityMultiplier scales every density grid the builder produces.
	DensityMultiplier float64 `yaml:"density_multiplier"`

	// DatabaseURL enables the optional pgx-backed chunk cache when non-empty.
	DatabaseURL string `yaml:"database_url"`
}

// Default returns the configuration used when no file or overrides are present.
func Default() Config {
	return Config{
		WaterPlants:       WaterPlantsAllSeasons,
		Stones:            true,
		Flowers:           true,
		RenderDistance:    120,
		DensityMultiplier: 1.0,
	}
}

// Load reads configuration from the given YAML file (optional, pass "" to
// skip), then applies environment overrides, then validates.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges. A Config that fails validation must not be
// handed to the decoration controller.
func (c Config) Validate() error {
	if !c.WaterPlants.Valid() {
		return fmt.Errorf("invalid water_plants mode %q (want off, summer, or all)", c.WaterPlants)
	}
	if c.RenderDistance <= 0 {
		return fmt.Errorf("render_distance must be positive, got %v", c.RenderDistance)
	}
	if c.DensityMultiplier < 0 {
		return fmt.Errorf("density_multiplier must be non-negative, got %v", c.DensityMultiplier)
	}
	return nil
}

// applyEnvOverrides replaces fields from FOLIAGE_* environment variables.
func applyEnvOverrides(cfg *Config) {
	if v, ok := lookup("FOLIAGE_WATER_PLANTS"); ok {
		cfg.WaterPlants = WaterPlantsMode(strings.ToLower(v))
	}
	if v, ok := lookup("FOLIAGE_STONES"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Stones = b
		}
	}
	if v, ok := lookup("FOLIAGE_FLOWERS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Flowers = b
		}
	}
	if v, ok := lookup("FOLIAGE_RENDER_DISTANCE"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RenderDistance = f
		}
	}
	if v, ok := lookup("FOLIAGE_DENSITY_MULTIPLIER"); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.DensityMultiplier = f
		}
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return strings.TrimSpace(v), true
}
