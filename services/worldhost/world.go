package worldhost

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/VerdantMesh/foliage/internal/logging"
	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/decoration"
)

type chunkKey struct {
	x, y int32
}

// World is the in-memory registry of loaded chunks. It implements
// decoration.Host: it owns the world seed, the process-wide season, and the
// chunk-ready notification.
type World struct {
	id     uuid.UUID
	seed   int64
	gen    *Generator
	store  *Store
	logger *log.Logger

	mu     sync.RWMutex
	season climate.Season
	chunks map[chunkKey]*Chunk
	subs   map[uuid.UUID]func(decoration.TerrainChunk)
}

// NewWorld creates a world with the given seed and starting season.
func NewWorld(seed int64, season climate.Season) *World {
	return &World{
		id:     uuid.New(),
		seed:   seed,
		gen:    NewGenerator(seed),
		logger: logging.WithComponent("world"),
		season: season,
		chunks: make(map[chunkKey]*Chunk),
		subs:   make(map[uuid.UUID]func(decoration.TerrainChunk)),
	}
}

// NewWorldWithStore creates a world whose chunks are cached in the store.
func NewWorldWithStore(seed int64, season climate.Season, store *Store) *World {
	w := NewWorld(seed, season)
	w.store = store
	return w
}

// ID returns the world identity used by the chunk store.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Seed returns the world seed.
func (w *World) Seed() int64 {
	return w.seed
}

// CurrentSeason returns the process-wide season.
func (w *World) CurrentSeason() climate.Season {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.season
}

// SetSeason changes the season. Chunks decorated before the change keep their
// old decoration until they are re-decorated (e.g. by a controller restart).
func (w *World) SetSeason(season climate.Season) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.season = season
}

// LoadedChunks snapshots the currently loaded chunks.
func (w *World) LoadedChunks() []decoration.TerrainChunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]decoration.TerrainChunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	return out
}

// Chunk returns the loaded chunk at the given coordinates, or nil.
func (w *World) Chunk(x, y int32) *Chunk {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.chunks[chunkKey{x, y}]
}

// subscription is the owned unsubscribe handle handed to the controller.
type subscription struct {
	world *World
	id    uuid.UUID
	once  sync.Once
}

// Unsubscribe removes the registration. Idempotent.
func (s *subscription) Unsubscribe() {
	s.once.Do(func() {
		s.world.mu.Lock()
		defer s.world.mu.Unlock()
		delete(s.world.subs, s.id)
	})
}

// SubscribeChunkReady registers a chunk-ready callback and returns its owned
// handle.
func (w *World) SubscribeChunkReady(callback func(decoration.TerrainChunk)) decoration.Subscription {
	id := uuid.New()
	w.mu.Lock()
	w.subs[id] = callback
	w.mu.Unlock()
	w.logger.Debug("Chunk-ready subscription added", "subscription_id", id)
	return &subscription{world: w, id: id}
}

// SubscriberCount returns the number of live chunk-ready subscriptions.
func (w *World) SubscriberCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subs)
}

// LoadChunk loads (or generates) the chunk at the given coordinates, adds it
// to the registry, and fires the chunk-ready notification. Loading an already
// loaded chunk just returns it.
func (w *World) LoadChunk(ctx context.Context, x, y int32) (*Chunk, error) {
	w.mu.RLock()
	if c, ok := w.chunks[chunkKey{x, y}]; ok {
		w.mu.RUnlock()
		return c, nil
	}
	w.mu.RUnlock()

	var chunk *Chunk
	var err error
	if w.store != nil {
		chunk, err = w.store.GetOrGenerate(ctx, w.id, w.gen, x, y)
		if err != nil {
			return nil, err
		}
	} else {
		chunk = w.gen.Generate(x, y)
	}

	w.mu.Lock()
	w.chunks[chunkKey{x, y}] = chunk
	subs := make([]func(decoration.TerrainChunk), 0, len(w.subs))
	for _, cb := range w.subs {
		subs = append(subs, cb)
	}
	w.mu.Unlock()

	// Notify outside the lock; callbacks decorate synchronously.
	for _, cb := range subs {
		cb(chunk)
	}
	return chunk, nil
}

// UnloadChunk drops a chunk from the registry.
func (w *World) UnloadChunk(x, y int32) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.chunks, chunkKey{x, y})
}
