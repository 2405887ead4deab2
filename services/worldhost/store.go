package worldhost

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/VerdantMesh/foliage/internal/logging"
	"github.com/VerdantMesh/foliage/services/climate"
	"github.com/VerdantMesh/foliage/services/tiles"
)

// PgxIface is the subset of pgxpool.Pool the store uses. pgxmock satisfies it
// in tests.
type PgxIface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	createChunkCacheTable = `
		CREATE TABLE IF NOT EXISTS chunk_cache (
			world_id TEXT NOT NULL,
			chunk_x INT NOT NULL,
			chunk_y INT NOT NULL,
			zone INT NOT NULL,
			tiles BYTEA NOT NULL,
			PRIMARY KEY (world_id, chunk_x, chunk_y)
		)`
	insertChunk = `
		INSERT INTO chunk_cache (world_id, chunk_x, chunk_y, zone, tiles)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (world_id, chunk_x, chunk_y) DO NOTHING`
	selectChunk = `
		SELECT zone, tiles FROM chunk_cache
		WHERE world_id = $1 AND chunk_x = $2 AND chunk_y = $3`
)

// Store caches generated chunks in Postgres so a world reloads the same
// terrain across restarts. Decoration outputs are never persisted; they are
// recomputed on every decoration pass.
type Store struct {
	db     PgxIface
	logger *log.Logger
}

// NewStore creates a chunk store over the given connection pool.
func NewStore(db PgxIface) *Store {
	return &Store{
		db:     db,
		logger: logging.WithComponent("chunk-store"),
	}
}

// EnsureSchema creates the chunk cache table when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, createChunkCacheTable); err != nil {
		return fmt.Errorf("create chunk cache table: %w", err)
	}
	return nil
}

// SaveChunk writes a generated chunk into the cache.
func (s *Store) SaveChunk(ctx context.Context, worldID uuid.UUID, chunk *Chunk) error {
	x, y := chunk.Coords()
	data := encodeTiles(chunk.TileGrid())
	if _, err := s.db.Exec(ctx, insertChunk, worldID.String(), x, y, int32(chunk.Zone()), data); err != nil {
		return fmt.Errorf("save chunk (%d,%d): %w", x, y, err)
	}
	return nil
}

// LoadChunk reads a chunk from the cache. Returns pgx.ErrNoRows (wrapped)
// when the chunk has not been generated yet.
func (s *Store) LoadChunk(ctx context.Context, worldID uuid.UUID, x, y int32) (*Chunk, error) {
	var zone int32
	var data []byte
	err := s.db.QueryRow(ctx, selectChunk, worldID.String(), x, y).Scan(&zone, &data)
	if err != nil {
		return nil, fmt.Errorf("load chunk (%d,%d): %w", x, y, err)
	}

	grid, err := decodeTiles(data)
	if err != nil {
		return nil, fmt.Errorf("decode chunk (%d,%d): %w", x, y, err)
	}
	return &Chunk{x: x, y: y, zone: climate.Zone(zone), grid: grid}, nil
}

// GetOrGenerate loads the chunk from the cache, generating and caching it on
// a miss. A failed save is logged but does not fail the load; the chunk is
// simply regenerated next time.
func (s *Store) GetOrGenerate(ctx context.Context, worldID uuid.UUID, gen *Generator, x, y int32) (*Chunk, error) {
	chunk, err := s.LoadChunk(ctx, worldID, x, y)
	if err == nil {
		return chunk, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	chunk = gen.Generate(x, y)
	if err := s.SaveChunk(ctx, worldID, chunk); err != nil {
		s.logger.Error("Failed to cache generated chunk", "chunk_x", x, "chunk_y", y, "error", err)
	}
	return chunk, nil
}

// encodeTiles packs one material byte per cell in row-major order.
func encodeTiles(grid tiles.Grid) []byte {
	w, h := grid.Width(), grid.Height()
	out := make([]byte, w*h)
	for y := int32(0); y < h; y++ {
		for x := int32(0); x < w; x++ {
			out[y*w+x] = byte(grid.At(x, y))
		}
	}
	return out
}

// decodeTiles unpacks a ChunkSize x ChunkSize material grid.
func decodeTiles(data []byte) (tiles.Grid, error) {
	if len(data) != ChunkSize*ChunkSize {
		return tiles.Grid{}, fmt.Errorf("tile payload is %d bytes, want %d", len(data), ChunkSize*ChunkSize)
	}
	cells := make([]tiles.Material, len(data))
	for i, b := range data {
		cells[i] = tiles.Material(b)
	}
	return tiles.NewGrid(ChunkSize, ChunkSize, cells)
}
