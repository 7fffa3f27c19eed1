package driven

import (
	"context"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

// ObservationStore reads the observation archive. Observation rows are
// ingested out-of-band by the harvesting pipeline; the core only needs
// coverage, counts and recency, plus Add for tests and tooling.
type ObservationStore interface {
	// CoverageRange returns the true min/max observation epoch for a
	// source, MJD. ok is false when the source has no observations.
	CoverageRange(ctx context.Context, source string) (startMJD, stopMJD float64, ok bool, err error)

	// Count returns the number of observations for a source.
	Count(ctx context.Context, source string) (int64, error)

	// Nights returns the number of distinct observation nights for a
	// source, or for the whole archive when source is empty. nightOffset
	// shifts the MJD day boundary to local midnight.
	Nights(ctx context.Context, source string, nightOffset float64) (int64, error)

	// Window returns the observations whose exposures overlap the MJD
	// window, for one source or for the whole archive when source is empty.
	Window(ctx context.Context, source string, startMJD, stopMJD float64) ([]domain.Observation, error)

	// RecentlyAdded summarizes rows whose ingestion epoch is at or after
	// sinceMJD, grouped by source.
	RecentlyAdded(ctx context.Context, sinceMJD float64) ([]domain.RecentSourceActivity, error)

	// Add inserts observations and returns them with identity keys assigned.
	Add(ctx context.Context, obs []domain.Observation) ([]domain.Observation, error)
}

// StatsStore persists per-source coverage aggregates. Each upsert is
// independent: refreshing one source must not perturb another's row.
type StatsStore interface {
	// Upsert inserts or replaces the row keyed by stats.Name.
	Upsert(ctx context.Context, stats domain.SourceStats) error

	// Get returns the row with the given display name.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, name string) (*domain.SourceStats, error)

	// List returns all rows ordered by display name.
	List(ctx context.Context) ([]domain.SourceStats, error)
}
