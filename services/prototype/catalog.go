// Package prototype builds the ordered decoration prototype sets handed to the
// host renderer. Layer indices are assigned per resolution and become invalid
// as soon as the catalog rebuilds for a different resolution.
package prototype

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/VerdantMesh/foliage/internal/logging"
	"github.com/VerdantMesh/foliage/services/climate"
)

// ErrMissingTemplate signals that a role in the requested resolution has no
// registered visual template. This is a setup failure: the enable sequence
// must abort rather than decorate with holes in the layer table.
var ErrMissingTemplate = errors.New("no visual template registered")

// Prototype describes one decoration asset and its rendering parameters,
// referenced by its layer index in the chunk's detail-layer array.
type Prototype struct {
	Role       climate.Role
	LayerIndex int32
	Sprite     string
	Color      string
	MinScale   float32
	MaxScale   float32
	// Sway is the wind animation amplitude hint consumed by the renderer.
	Sway float32
}

// Set is the ordered prototype list for one resolution. Index 0 is always the
// baseline grass role; the remaining indices follow climate.RolePriority.
type Set struct {
	prototypes []Prototype
	layerByRole map[climate.Role]int32
}

// Prototypes returns the prototypes in layer order.
func (s Set) Prototypes() []Prototype {
	return s.prototypes
}

// LayerIndex returns the layer index assigned to the role and whether the
// role is present in this set.
func (s Set) LayerIndex(role climate.Role) (int32, bool) {
	idx, ok := s.layerByRole[role]
	return idx, ok
}

// Len returns the number of prototypes in the set.
func (s Set) Len() int {
	return len(s.prototypes)
}

// Catalog resolves (role, variant) pairs to visual templates and assigns
// layer indices. Rebuilding for a different resolution invalidates every
// previously returned index; callers re-fetch the mapping after each rebuild.
type Catalog struct {
	logger    *log.Logger
	templates map[templateKey]visualTemplate
}

// NewCatalog creates a catalog backed by the built-in template registry.
func NewCatalog() *Catalog {
	return &Catalog{
		logger:    logging.WithComponent("prototype-catalog"),
		templates: builtinTemplates(),
	}
}

// newCatalogWithTemplates creates a catalog with an explicit template table
// (used by tests to exercise missing-template failures).
func newCatalogWithTemplates(templates map[templateKey]visualTemplate) *Catalog {
	return &Catalog{
		logger:    logging.WithComponent("prototype-catalog"),
		templates: templates,
	}
}

// BuildForResolution builds the prototype set for the given resolution.
// Grass always receives layer index 0; the remaining active roles receive
// consecutive indices in fixed priority order.
func (c *Catalog) BuildForResolution(res climate.Resolution) (Set, error) {
	set := Set{
		prototypes:  make([]Prototype, 0, res.Roles.Count()),
		layerByRole: make(map[climate.Role]int32, res.Roles.Count()),
	}

	nextIndex := int32(0)
	for _, role := range climate.RolePriority {
		if !res.Roles.Has(role) {
			continue
		}
		tpl, ok := c.templates[templateKey{role: role, variant: res.Variant}]
		if !ok {
			return Set{}, fmt.Errorf("%w for role %s variant %s", ErrMissingTemplate, role, res.Variant)
		}
		set.prototypes = append(set.prototypes, Prototype{
			Role:       role,
			LayerIndex: nextIndex,
			Sprite:     tpl.sprite,
			Color:      tpl.color,
			MinScale:   tpl.minScale,
			MaxScale:   tpl.maxScale,
			Sway:       tpl.sway,
		})
		set.layerByRole[role] = nextIndex
		nextIndex++
	}

	c.logger.Debug("Built prototype set", "variant", res.Variant, "layers", set.Len())
	return set, nil
}
