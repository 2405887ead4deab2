// Package climate models the discrete climate zones and seasons that drive
// decoration selection, and resolves which decoration roles are active for a
// given (zone, season, config) combination.
package climate

// Season is the process-wide seasonal state, read at decoration time. It is
// not owned by any single chunk.
type Season int32

const (
	SeasonSummer Season = iota
	SeasonWinter
)

// String returns the season name for logging.
func (s Season) String() string {
	switch s {
	case SeasonSummer:
		return "summer"
	case SeasonWinter:
		return "winter"
	default:
		return "unknown"
	}
}

// Zone is the climate zone attached to a chunk at generation time. It never
// changes for that chunk's lifetime. Zone values are ordered so that the
// temperate band is a numeric comparison: every zone at or above ZoneMeadow
// is temperate, except the reserved ZoneWasteland which never receives water
// plants despite sitting inside the band numerically.
type Zone int32

const (
	ZoneTundra Zone = iota
	ZoneDesert
	ZoneBadlands
	ZoneMeadow
	ZoneForest
	ZoneHighland
	ZoneAlpine
	ZoneWasteland
)

// temperateThreshold is the lowest zone value of the temperate/mountain band.
const temperateThreshold = ZoneMeadow

// AllZones lists every defined zone, used for exhaustive selector tests.
var AllZones = []Zone{
	ZoneTundra, ZoneDesert, ZoneBadlands, ZoneMeadow,
	ZoneForest, ZoneHighland, ZoneAlpine, ZoneWasteland,
}

// String returns the zone name for logging.
func (z Zone) String() string {
	switch z {
	case ZoneTundra:
		return "tundra"
	case ZoneDesert:
		return "desert"
	case ZoneBadlands:
		return "badlands"
	case ZoneMeadow:
		return "meadow"
	case ZoneForest:
		return "forest"
	case ZoneHighland:
		return "highland"
	case ZoneAlpine:
		return "alpine"
	case ZoneWasteland:
		return "wasteland"
	default:
		return "unknown"
	}
}

// Temperate reports whether the zone belongs to the temperate/mountain band.
func (z Zone) Temperate() bool {
	return z >= temperateThreshold && z != ZoneWasteland
}

// DesertBand reports whether the zone belongs to the desert band.
func (z Zone) DesertBand() bool {
	return z == ZoneDesert || z == ZoneBadlands
}

// Role is a semantic decoration category. Layer index assignment follows
// RolePriority: grass is always layer 0, the remaining roles get consecutive
// indices only while active.
type Role int32

const (
	RoleGrass Role = iota
	RoleWaterPlant
	RoleWaterlily
	RoleStone
	RoleFlower
)

// NumRoles is the number of defined roles and the number of layer slots the
// controller clears on disable.
const NumRoles = 5

// RolePriority is the fixed layer assignment order.
var RolePriority = [NumRoles]Role{RoleGrass, RoleWaterPlant, RoleWaterlily, RoleStone, RoleFlower}

// String returns the role name for logging and template lookup.
func (r Role) String() string {
	switch r {
	case RoleGrass:
		return "grass"
	case RoleWaterPlant:
		return "water_plant"
	case RoleWaterlily:
		return "waterlily"
	case RoleStone:
		return "stone"
	case RoleFlower:
		return "flower"
	default:
		return "unknown"
	}
}

// RoleSet is a bit set of active roles.
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.Add(r)
	}
	return s
}

// Add returns the set with the role included.
func (s RoleSet) Add(r Role) RoleSet {
	return s | RoleSet(1)<<uint(r)
}

// Has reports whether the role is in the set.
func (s RoleSet) Has(r Role) bool {
	return s&(RoleSet(1)<<uint(r)) != 0
}

// Roles returns the active roles in priority order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, NumRoles)
	for _, r := range RolePriority {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Count returns the number of active roles.
func (s RoleSet) Count() int {
	n := 0
	for _, r := range RolePriority {
		if s.Has(r) {
			n++
		}
	}
	return n
}
