package driving

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

// QueryOptions configures one job.
type QueryOptions struct {
	// Sources limits the search to these source identifiers.
	// Empty searches every known source.
	Sources []string

	// Cached reuses prior finished results when an equivalent search
	// exists. Has no effect for fixed targets, which always run fresh.
	Cached bool

	// Params are the search parameters.
	Params domain.SearchParams
}

// QueryResult is the aggregate outcome of one job. The aggregate alone
// cannot distinguish "nothing matched" from "a source errored"; callers
// needing that must inspect per-query status or the message trail.
type QueryResult struct {
	// Count is the total matches across sources (moving targets).
	Count int

	// Observations is the matched observation list (fixed targets only).
	Observations []domain.Observation
}

// SearchService dispatches survey searches.
type SearchService interface {
	// Query searches for a target across the requested sources under one
	// job ID. Unknown source names fail the whole call before any rows
	// are written; per-source failures after that are isolated to their
	// own query row and the job always completes.
	Query(ctx context.Context, target domain.Target, jobID uuid.UUID, opts QueryOptions) (*QueryResult, error)

	// IsQueryCached reports whether every requested source has a usable
	// cached result for the target and parameters.
	IsQueryCached(ctx context.Context, target domain.Target, sources []string, params domain.SearchParams) (bool, error)

	// Caught returns all results recorded under a job, joined to their
	// matched observations.
	Caught(ctx context.Context, jobID uuid.UUID) ([]domain.CaughtObservation, error)
}
