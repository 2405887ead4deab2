// Package decoration orchestrates the terrain decoration pipeline: it owns
// the enable/disable lifecycle, subscribes to the host's chunk-ready
// notification, and decorates each chunk by classifying its tiles, resolving
// the climate/season outcome, and installing prototypes plus density grids.
package decoration

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/VerdantMesh/foliage/internal/config"
	"github.com/VerdantMesh/foliage/internal/logging"
	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/density"
	"github.com/VerdantMesh/foliage/services/noise"
	"github.com/VerdantMesh/foliage/services/prototype"
	"github.com/VerdantMesh/foliage/services/tiles"
)

// State is the controller lifecycle state.
type State int32

const (
	StateDisabled State = iota
	StateEnabling
	StateEnabled
	StateDisabling
	StateRestarting
)

// String returns the state name for logging.
func (s State) String() string {
	switch s {
	case StateDisabled:
		return "disabled"
	case StateEnabling:
		return "enabling"
	case StateEnabled:
		return "enabled"
	case StateDisabling:
		return "disabling"
	case StateRestarting:
		return "restarting"
	default:
		return "unknown"
	}
}

// ErrNotEnabled is returned by Restart when the controller is not enabled.
var ErrNotEnabled = errors.New("decoration controller is not enabled")

// ConfigLoader supplies a fresh DecorationConfig at enable/restart time.
type ConfigLoader func() (config.Config, error)

// Controller drives the decoration pipeline for every chunk the host streams
// in. It is explicitly constructed and passed to whatever issues control
// commands; there is no process-wide instance.
type Controller struct {
	mu        sync.Mutex
	state     State
	host      Host
	loadCfg   ConfigLoader
	scheduler Scheduler
	logger    *log.Logger

	// Pipeline collaborators, rebuilt on every enable with fresh settings.
	cfg        config.Config
	classifier *tiles.Classifier
	catalog    *prototype.Catalog
	builder    *density.Builder

	sub Subscription
}

// NewController creates a controller bound to the given host. The scheduler
// may be nil, in which case the bulk walk only checks cancellation between
// chunks.
func NewController(host Host, loadCfg ConfigLoader, scheduler Scheduler) *Controller {
	if scheduler == nil {
		scheduler = ContextScheduler()
	}
	return &Controller{
		state:     StateDisabled,
		host:      host,
		loadCfg:   loadCfg,
		scheduler: scheduler,
		logger:    logging.WithComponent("decoration-controller"),
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Enabled reports whether the controller is currently enabled.
func (c *Controller) Enabled() bool {
	return c.State() == StateEnabled
}

// Enable loads settings (when loadSettings is true or none are loaded yet),
// constructs the pipeline, subscribes to chunk-ready, and then walks every
// currently loaded chunk, yielding between chunks. Any setup failure aborts
// the transition, leaves the controller disabled and unsubscribed, and is
// returned to the caller. Enabling an already enabled controller is a no-op.
func (c *Controller) Enable(ctx context.Context, loadSettings bool) error {
	c.mu.Lock()
	if c.state == StateEnabled {
		c.mu.Unlock()
		return nil
	}
	c.state = StateEnabling
	c.mu.Unlock()

	if err := c.setup(loadSettings); err != nil {
		c.mu.Lock()
		c.state = StateDisabled
		c.mu.Unlock()
		c.logger.Error("Enable aborted by setup failure", "error", err)
		return err
	}

	sub := c.host.SubscribeChunkReady(c.onChunkReady)

	c.mu.Lock()
	c.sub = sub
	c.state = StateEnabled
	c.mu.Unlock()
	c.logger.Info("Decoration enabled", "water_plants", c.cfg.WaterPlants, "stones", c.cfg.Stones, "flowers", c.cfg.Flowers)

	return c.walkLoadedChunks(ctx)
}

// setup loads configuration and constructs the pipeline collaborators. It
// performs a preflight prototype build over the whole zone/season space so
// missing templates surface here instead of mid-stream.
func (c *Controller) setup(loadSettings bool) error {
	if loadSettings || c.classifier == nil {
		cfg, err := c.loadCfg()
		if err != nil {
			return fmt.Errorf("load decoration config: %w", err)
		}
		c.cfg = cfg
		c.classifier = tiles.NewClassifier()
		c.catalog = prototype.NewCatalog()
		c.builder = density.NewBuilder(noise.NewGenerator(c.host.Seed()), cfg)
	}

	for _, zone := range climate.AllZones {
		for _, season := range []climate.Season{climate.SeasonSummer, climate.SeasonWinter} {
			res := climate.SelectResolution(zone, season, c.cfg)
			if _, err := c.catalog.BuildForResolution(res); err != nil {
				return fmt.Errorf("preflight prototypes for zone %s season %s: %w", zone, season, err)
			}
		}
	}
	return nil
}

// walkLoadedChunks decorates every already loaded chunk, yielding control
// between chunks. The walk stops cleanly when the context is cancelled or the
// controller leaves the enabled state at a yield point.
func (c *Controller) walkLoadedChunks(ctx context.Context) error {
	chunks := c.host.LoadedChunks()
	c.logger.Debug("Starting bulk decoration walk", "chunks", len(chunks))

	for i, chunk := range chunks {
		if i > 0 {
			if err := c.scheduler.Yield(ctx); err != nil {
				c.logger.Info("Bulk decoration walk cancelled", "decorated", i, "total", len(chunks))
				return err
			}
		}
		if c.State() != StateEnabled {
			c.logger.Info("Bulk decoration walk stopped by state change", "decorated", i, "total", len(chunks))
			return nil
		}
		c.decorateOrSkip(chunk)
	}

	c.logger.Debug("Bulk decoration walk finished", "chunks", len(chunks))
	return nil
}

// Disable unsubscribes first (preventing races with in-flight notifications),
// then writes the empty grid into all layer slots and clears the prototype
// list on every loaded chunk. Idempotent: disabling a disabled controller is
// a no-op, and clearing a never-decorated chunk is safe.
func (c *Controller) Disable() {
	c.mu.Lock()
	if c.state == StateDisabled {
		c.mu.Unlock()
		return
	}
	c.state = StateDisabling
	sub := c.sub
	c.sub = nil
	c.mu.Unlock()

	if sub != nil {
		sub.Unsubscribe()
	}

	for _, chunk := range c.host.LoadedChunks() {
		c.clearChunk(chunk)
	}

	c.mu.Lock()
	c.state = StateDisabled
	c.mu.Unlock()
	c.logger.Info("Decoration disabled")
}

// SetEnabled transitions to the requested state; a no-op when the controller
// is already there.
func (c *Controller) SetEnabled(ctx context.Context, enabled bool) error {
	if enabled == c.Enabled() {
		return nil
	}
	if enabled {
		return c.Enable(ctx, true)
	}
	c.Disable()
	return nil
}

// Toggle flips the enabled state.
func (c *Controller) Toggle(ctx context.Context) error {
	return c.SetEnabled(ctx, !c.Enabled())
}

// Restart disables and re-enables with freshly loaded settings, leaving
// exactly one live subscription. Used after a configuration change.
func (c *Controller) Restart(ctx context.Context) error {
	if !c.Enabled() {
		return ErrNotEnabled
	}
	c.mu.Lock()
	c.state = StateRestarting
	c.mu.Unlock()

	c.Disable()
	return c.Enable(ctx, true)
}

// onChunkReady is the chunk-ready callback; every newly streamed-in chunk is
// decorated automatically while enabled.
func (c *Controller) onChunkReady(chunk TerrainChunk) {
	if c.State() != StateEnabled {
		return
	}
	c.decorateOrSkip(chunk)
}

// decorateOrSkip decorates one chunk, recovering locally from per-chunk
// failures: the chunk keeps its previous state, the failure is logged, and
// the caller continues.
func (c *Controller) decorateOrSkip(chunk TerrainChunk) {
	if err := c.decorateChunk(chunk); err != nil {
		x, y := chunk.Coords()
		logging.WithChunkCoords(x, y).Error("Skipping chunk decoration", "error", err)
	}
}

// decorateChunk runs the full pipeline for one chunk: classify tiles, resolve
// the climate/season outcome, rebuild prototypes, build density grids, then
// install render params, prototypes and grids onto the chunk in one pass.
func (c *Controller) decorateChunk(chunk TerrainChunk) error {
	chunkX, chunkY := chunk.Coords()
	grid := chunk.TileGrid()
	if grid.Width() == 0 || grid.Height() == 0 {
		return fmt.Errorf("chunk (%d,%d) has no tile grid", chunkX, chunkY)
	}

	classified := c.classifier.Classify(grid)
	res := climate.SelectResolution(chunk.Zone(), c.host.CurrentSeason(), c.cfg)

	set, err := c.catalog.BuildForResolution(res)
	if err != nil {
		return fmt.Errorf("build prototypes: %w", err)
	}

	c.builder.InitLayers(grid.Width(), grid.Height())
	c.builder.Build(classified, res, chunkX, chunkY)

	chunk.SetRenderParams(c.cfg.RenderDistance, c.cfg.DensityMultiplier)
	chunk.SetPrototypes(set.Prototypes())
	for _, proto := range set.Prototypes() {
		layer := c.builder.Layer(proto.Role)
		// Copy out of the builder's reusable buffer.
		values := make([]float32, len(layer.Values()))
		copy(values, layer.Values())
		chunk.SetDetailLayer(proto.LayerIndex, values)
	}
	// A re-decoration with fewer active roles must not leave the previous
	// resolution's grids behind in the higher slots.
	for layer := int32(set.Len()); layer < climate.NumRoles; layer++ {
		chunk.SetDetailLayer(layer, c.builder.Empty().Values())
	}

	logging.WithZone(chunk.Zone().String()).Debug("Chunk decorated",
		"chunk_x", chunkX, "chunk_y", chunkY, "variant", res.Variant, "layers", set.Len())
	return nil
}

// clearChunk writes the empty grid into all possible layer slots and clears
// the prototype list. Safe on chunks that were never decorated.
func (c *Controller) clearChunk(chunk TerrainChunk) {
	grid := chunk.TileGrid()
	w, h := grid.Width(), grid.Height()
	if w == 0 || h == 0 {
		chunk.SetPrototypes(nil)
		return
	}
	if c.builder == nil {
		c.builder = density.NewBuilder(noise.NewGenerator(c.host.Seed()), c.cfg)
	}
	empty := c.builder.Empty()
	if empty.Width() != w || empty.Height() != h {
		c.builder.InitLayers(w, h)
		empty = c.builder.Empty()
	}
	for layer := int32(0); layer < climate.NumRoles; layer++ {
		chunk.SetDetailLayer(layer, empty.Values())
	}
	chunk.SetPrototypes(nil)
}
