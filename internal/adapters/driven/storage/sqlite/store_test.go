package sqlite

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "skycatch-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestObservation inserts one archive row and returns it with its
// identity key assigned.
func createTestObservation(t *testing.T, store *Store, source, productID string, mjdStart float64) domain.Observation {
	t.Helper()
	ctx := context.Background()
	saved, err := store.ObservationStore().Add(ctx, []domain.Observation{{
		Source:       source,
		ProductID:    productID,
		MJDStart:     mjdStart,
		MJDStop:      mjdStart + 30.0/86400,
		RA:           120.5,
		Dec:          -15.2,
		FOVRadius:    2.6,
		Filter:       "o",
		ExposureTime: 30,
		MJDAdded:     mjdStart + 1,
	}})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	return saved[0]
}

// createTestQuery inserts one query row and returns it.
func createTestQuery(t *testing.T, store *Store, jobID uuid.UUID, target, source string, status domain.QueryStatus) *domain.Query {
	t.Helper()
	ctx := context.Background()
	q := &domain.Query{
		JobID:  jobID,
		Target: target,
		Source: source,
		Params: domain.SearchParams{Padding: 0.1},
		Status: domain.QueryInProgress,
	}
	require.NoError(t, store.QueryStore().Create(ctx, q))
	require.NotZero(t, q.ID)

	if status != domain.QueryInProgress {
		execTime := 1.5
		require.NoError(t, store.QueryStore().Finish(ctx, q.ID, status, &execTime))
		q.Status = status
		q.ExecutionTime = &execTime
	}
	return q
}

// ==================== Store Creation and Initialization Tests ====================

func TestNewStore_ErrorHandling(t *testing.T) {
	_, err := NewStore("/invalid\x00path")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "creating data directory")
}

func TestNewStore_Success(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "skycatch-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	dbPath := filepath.Join(tempDir, "archive.db")
	assert.Equal(t, dbPath, store.Path())
	assert.FileExists(t, dbPath)

	err = store.db.Ping()
	assert.NoError(t, err)
}

func TestNewStore_DirectoryCreation(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "skycatch-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	nestedDir := filepath.Join(tempDir, "nested", "path", "to", "db")
	store, err := NewStore(nestedDir)
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewStore_Migrations(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var count int
	err := store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Greater(t, count, 0, "should have at least one migration")

	tables := []string{
		"observations",
		"queries",
		"founds",
		"source_stats",
	}

	for _, table := range tables {
		var tableExists int
		err := store.db.QueryRow(
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?",
			table,
		).Scan(&tableExists)
		require.NoError(t, err)
		assert.Equal(t, 1, tableExists, "table %s should exist", table)
	}
}

func TestNewStore_MigrationsIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "skycatch-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening must not re-apply migrations.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var count int
	err = store.db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewStore_ForeignKeysEnabled(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	var fkEnabled int
	err := store.db.QueryRow("PRAGMA foreign_keys").Scan(&fkEnabled)
	require.NoError(t, err)
	assert.Equal(t, 1, fkEnabled, "foreign keys should be enabled")
}

func TestStore_Close(t *testing.T) {
	store, _ := setupTestStore(t)

	err := store.Close()
	assert.NoError(t, err)

	err = store.db.Ping()
	assert.Error(t, err)
}

func TestStore_InterfaceGetters(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotNil(t, store.QueryStore())
	assert.NotNil(t, store.FoundStore())
	assert.NotNil(t, store.ObservationStore())
	assert.NotNil(t, store.StatsStore())
}

// ==================== StatsStore Tests ====================

func TestStatsStore_UpsertAndGet(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	start := time.Date(2017, 1, 3, 12, 0, 0, 0, time.UTC)
	stop := time.Date(2024, 6, 1, 6, 30, 0, 0, time.UTC)
	stats := domain.SourceStats{
		Source:    "atlas_haleakela",
		Name:      "ATLAS Haleakela",
		Count:     123456,
		Nights:    987,
		StartDate: &start,
		StopDate:  &stop,
		Updated:   time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.StatsStore().Upsert(ctx, stats))

	got, err := store.StatsStore().Get(ctx, "ATLAS Haleakela")
	require.NoError(t, err)
	assert.Equal(t, stats, *got)
}

func TestStatsStore_UpsertReplaces(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	stats := domain.SourceStats{
		Source:  "skymapper",
		Name:    "SkyMapper",
		Count:   10,
		Updated: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.StatsStore().Upsert(ctx, stats))

	stats.Count = 25
	stats.Nights = 3
	stats.Updated = stats.Updated.Add(24 * time.Hour)
	require.NoError(t, store.StatsStore().Upsert(ctx, stats))

	got, err := store.StatsStore().Get(ctx, "SkyMapper")
	require.NoError(t, err)
	assert.Equal(t, int64(25), got.Count)
	assert.Equal(t, int64(3), got.Nights)
	assert.Equal(t, stats.Updated, got.Updated)

	all, err := store.StatsStore().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStatsStore_GetNotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	_, err := store.StatsStore().Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatsStore_ListOrdered(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	for _, name := range []string{"SkyMapper", "All", "ATLAS Haleakela"} {
		require.NoError(t, store.StatsStore().Upsert(ctx, domain.SourceStats{
			Name:    name,
			Updated: now,
		}))
	}

	all, err := store.StatsStore().List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "ATLAS Haleakela", all[0].Name)
	assert.Equal(t, "All", all[1].Name)
	assert.Equal(t, "SkyMapper", all[2].Name)
}

func TestStatsStore_NullDates(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.StatsStore().Upsert(ctx, domain.SourceStats{
		Source:  "loneos",
		Name:    "LONEOS",
		Updated: time.Now().UTC().Truncate(time.Second),
	}))

	got, err := store.StatsStore().Get(ctx, "LONEOS")
	require.NoError(t, err)
	assert.Nil(t, got.StartDate)
	assert.Nil(t, got.StopDate)
}
