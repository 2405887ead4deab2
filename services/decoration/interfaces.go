package decoration

import (
	"context"

	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/prototype"
	"github.com/VerdantMesh/foliage/services/tiles"
)

// TerrainChunk is one streamed unit of terrain. The read side exposes the
// tile grid, climate zone and integer chunk coordinates; the write side is
// the mutable detail-layer sink the controller installs its outputs into.
// The controller never reads back what it wrote.
type TerrainChunk interface {
	Coords() (chunkX, chunkY int32)
	Zone() climate.Zone
	TileGrid() tiles.Grid

	SetDetailLayer(layerIndex int32, densities []float32)
	SetPrototypes(prototypes []prototype.Prototype)
	SetRenderParams(distance, densityScale float64)
}

// Subscription is an owned handle to a chunk-ready registration. Unsubscribe
// is idempotent and must deterministically stop further callbacks.
type Subscription interface {
	Unsubscribe()
}

// Host abstracts the terrain streaming system the controller plugs into.
type Host interface {
	// Seed is the world seed; per-chunk RNGs derive from it.
	Seed() int64
	// CurrentSeason returns the process-wide season, consulted once per
	// chunk decoration.
	CurrentSeason() climate.Season
	// LoadedChunks snapshots the currently loaded chunks.
	LoadedChunks() []TerrainChunk
	// SubscribeChunkReady registers a callback invoked whenever a chunk's
	// terrain data becomes ready. The callback must not block the host
	// beyond normal per-chunk decoration cost.
	SubscribeChunkReady(callback func(TerrainChunk)) Subscription
}

// Scheduler yields control back to the host between chunk decorations during
// the bulk walk, bounding per-turn latency. Implementations must return the
// context error once the context is cancelled.
type Scheduler interface {
	Yield(ctx context.Context) error
}

// SchedulerFunc adapts a function to the Scheduler interface.
type SchedulerFunc func(ctx context.Context) error

// Yield calls the wrapped function.
func (f SchedulerFunc) Yield(ctx context.Context) error {
	return f(ctx)
}

// ContextScheduler is the default scheduler: it only checks cancellation.
// Hosts with a frame budget substitute their own turn-yielding scheduler.
func ContextScheduler() Scheduler {
	return SchedulerFunc(func(ctx context.Context) error {
		return ctx.Err()
	})
}
