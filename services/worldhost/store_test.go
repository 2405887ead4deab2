package worldhost

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VerdantMesh/foliage/internal/testutil"
)

func newMockStore(t *testing.T) (*Store, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewStore(mock), mock
}

func TestStore_EnsureSchema(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS chunk_cache").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, store.EnsureSchema(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_SaveChunk(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()
	chunk := NewGenerator(42).Generate(3, -1)

	mock.ExpectExec("INSERT INTO chunk_cache").
		WithArgs(worldID.String(), int32(3), int32(-1), int32(chunk.Zone()), encodeTiles(chunk.TileGrid())).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, store.SaveChunk(context.Background(), worldID, chunk))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadChunk_Hit(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()
	original := NewGenerator(42).Generate(0, 0)

	mock.ExpectQuery("SELECT zone, tiles FROM chunk_cache").
		WithArgs(worldID.String(), int32(0), int32(0)).
		WillReturnRows(pgxmock.NewRows([]string{"zone", "tiles"}).
			AddRow(int32(original.Zone()), encodeTiles(original.TileGrid())))

	loaded, err := store.LoadChunk(context.Background(), worldID, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, original.Zone(), loaded.Zone())
	for y := int32(0); y < ChunkSize; y++ {
		for x := int32(0); x < ChunkSize; x++ {
			assert.Equal(t, original.TileGrid().At(x, y), loaded.TileGrid().At(x, y),
				"material at (%d,%d)", x, y)
		}
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadChunk_Miss(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()

	mock.ExpectQuery("SELECT zone, tiles FROM chunk_cache").
		WithArgs(worldID.String(), int32(5), int32(5)).
		WillReturnError(pgx.ErrNoRows)

	_, err := store.LoadChunk(context.Background(), worldID, 5, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, pgx.ErrNoRows, "callers distinguish a miss from a real failure")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_LoadChunk_CorruptPayload(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()

	mock.ExpectQuery("SELECT zone, tiles FROM chunk_cache").
		WithArgs(worldID.String(), int32(0), int32(0)).
		WillReturnRows(pgxmock.NewRows([]string{"zone", "tiles"}).
			AddRow(int32(0), []byte{1, 2, 3}))

	_, err := store.LoadChunk(context.Background(), worldID, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode chunk")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetOrGenerate_MissGeneratesAndCaches(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()
	gen := NewGenerator(42)
	expected := NewGenerator(42).Generate(2, 2)

	mock.ExpectQuery("SELECT zone, tiles FROM chunk_cache").
		WithArgs(worldID.String(), int32(2), int32(2)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO chunk_cache").
		WithArgs(worldID.String(), int32(2), int32(2), int32(expected.Zone()), encodeTiles(expected.TileGrid())).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	chunk, err := store.GetOrGenerate(context.Background(), worldID, gen, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, expected.Zone(), chunk.Zone())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetOrGenerate_SaveFailureIsNotFatal(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()
	gen := NewGenerator(42)

	mock.ExpectQuery("SELECT zone, tiles FROM chunk_cache").
		WithArgs(worldID.String(), int32(0), int32(0)).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectExec("INSERT INTO chunk_cache").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	chunk, err := store.GetOrGenerate(context.Background(), worldID, gen, 0, 0)
	require.NoError(t, err, "a failed cache write must not fail the load")
	require.NotNil(t, chunk)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_GetOrGenerate_RealErrorPropagates(t *testing.T) {
	cleanup := testutil.SetupTest(t, false)
	defer cleanup()

	store, mock := newMockStore(t)
	worldID := uuid.New()
	dbErr := errors.New("connection refused")

	mock.ExpectQuery("SELECT zone, tiles FROM chunk_cache").
		WithArgs(worldID.String(), int32(0), int32(0)).
		WillReturnError(dbErr)

	_, err := store.GetOrGenerate(context.Background(), worldID, NewGenerator(1), 0, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
