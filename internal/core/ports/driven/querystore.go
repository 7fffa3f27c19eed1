package driven

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

// QueryMatch describes the cache-identity filter for prior queries.
// Padding is matched as a closed interval to absorb floating round-trip
// noise; dates must be exactly equal to the stored normalized values
// (both nil, or both set and equal).
type QueryMatch struct {
	// UncertaintyEllipse must equal the stored value.
	UncertaintyEllipse bool

	// PaddingMin and PaddingMax bound the accepted stored padding.
	PaddingMin float64
	PaddingMax float64

	// StartDate and StopDate are the normalized requested bounds.
	StartDate *time.Time
	StopDate  *time.Time
}

// QueryStore persists search attempts.
type QueryStore interface {
	// Create inserts the query and assigns its identity key.
	// Queries are committed immediately on creation so a crash
	// mid-search leaves a visible record.
	Create(ctx context.Context, q *domain.Query) error

	// Finish records the terminal status and execution time.
	// executionTime is nil only for cache-copied queries.
	Finish(ctx context.Context, id int64, status domain.QueryStatus, executionTime *float64) error

	// LatestFinished returns the most recent finished query with the
	// given target, source and matching parameters.
	// Returns domain.ErrNotFound if no such query exists.
	LatestFinished(ctx context.Context, target, source string, match QueryMatch) (*domain.Query, error)

	// ByJob returns all queries created under a job ID.
	ByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Query, error)

	// Delete removes a query and its found rows.
	Delete(ctx context.Context, id int64) error

	// RecentSummary counts queries created at or after since, limited
	// to the given sources.
	RecentSummary(ctx context.Context, since time.Time, sources []string) (domain.RecentQuerySummary, error)
}

// FoundStore persists matched observations.
type FoundStore interface {
	// Add inserts found rows and returns them with identity keys assigned.
	Add(ctx context.Context, founds []domain.Found) ([]domain.Found, error)

	// ByQuery returns the found rows owned by a query.
	ByQuery(ctx context.Context, queryID int64) ([]domain.Found, error)

	// CaughtByJob returns every found row under a job, joined to its
	// matched observation.
	CaughtByJob(ctx context.Context, jobID uuid.UUID) ([]domain.CaughtObservation, error)
}
