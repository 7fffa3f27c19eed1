package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/skycatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/skycatch/internal/core/domain"
)

func setupCloner(t *testing.T) (*ResultCloner, *memory.QueryStore, *memory.FoundStore) {
	t.Helper()
	queries := memory.NewQueryStore()
	founds := memory.NewFoundStore(queries, memory.NewObservationStore())
	return NewResultCloner(founds), queries, founds
}

func clonerQuery(t *testing.T, queries *memory.QueryStore) *domain.Query {
	t.Helper()
	q := &domain.Query{JobID: uuid.New(), Target: "65P", Source: "skymapper", Status: domain.QueryInProgress}
	require.NoError(t, queries.Create(context.Background(), q))
	return q
}

func TestResultCloner_Copy(t *testing.T) {
	cloner, queries, founds := setupCloner(t)
	ctx := context.Background()

	cached := clonerQuery(t, queries)
	fresh := clonerQuery(t, queries)

	originals, err := founds.Add(ctx, []domain.Found{
		{QueryID: cached.ID, ObservationID: 11, MJD: 58350.5, RA: 120.5, VMag: 17.8},
		{QueryID: cached.ID, ObservationID: 12, MJD: 58351.5, RA: 120.9, VMag: 17.9},
	})
	require.NoError(t, err)

	n, err := cloner.Copy(ctx, fresh, cached)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	clones, err := founds.ByQuery(ctx, fresh.ID)
	require.NoError(t, err)
	require.Len(t, clones, 2)

	for i, clone := range clones {
		assert.NotEqual(t, originals[i].ID, clone.ID, "clones get fresh identity keys")
		assert.Equal(t, fresh.ID, clone.QueryID)
		assert.Equal(t, originals[i].ObservationID, clone.ObservationID)
		assert.Equal(t, originals[i].MJD, clone.MJD)
		assert.Equal(t, originals[i].VMag, clone.VMag)
	}

	// The originals are untouched.
	kept, err := founds.ByQuery(ctx, cached.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 2)
}

func TestResultCloner_CopyEmpty(t *testing.T) {
	cloner, queries, _ := setupCloner(t)

	cached := clonerQuery(t, queries)
	fresh := clonerQuery(t, queries)

	n, err := cloner.Copy(context.Background(), fresh, cached)
	require.NoError(t, err)
	assert.Zero(t, n, "a cached query with zero results copies zero rows")
}
