package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// paddingTolerance is the relative tolerance applied when matching a prior
// query's padding, absorbing floating round-trip noise. Whether two searches
// differing by up to 1% in padding are truly equivalent is a domain-owner
// question; the tolerance matches the behaviour the archive service has
// always had.
const paddingTolerance = 0.01

// CacheValidator decides whether a prior finished query satisfies the
// current request. The durable store is the cache: every call re-reads it,
// nothing is memoized in process.
type CacheValidator struct {
	queries driven.QueryStore
}

// NewCacheValidator creates a new cache validator.
func NewCacheValidator(queries driven.QueryStore) *CacheValidator {
	return &CacheValidator{queries: queries}
}

// Find returns the most recent finished query equivalent to the request,
// or nil when no prior query qualifies. It also returns the request
// parameters normalized against the source's actual coverage, so callers
// persist the same canonical bounds the match was made on.
//
// Equivalence requires an identical target string, identical source,
// identical uncertainty-ellipse setting, padding within ±1% relative
// tolerance, and normalized start/stop dates exactly equal to the stored
// values. In-progress and errored queries never qualify: a failed attempt
// is always retried fresh.
//
// When Find itself fails the returned params may not be normalized;
// callers must not let a query carrying them reach a finished state.
func (v *CacheValidator) Find(
	ctx context.Context, target string, source driven.SurveySource, params domain.SearchParams,
) (*domain.Query, domain.SearchParams, error) {
	covStart, covStop, ok, err := source.CoverageRange(ctx)
	if err != nil {
		return nil, params, fmt.Errorf("coverage range for %s: %w", source.ID(), err)
	}

	normalized := params.Normalize(covStart, covStop, ok)

	match := driven.QueryMatch{
		UncertaintyEllipse: normalized.UncertaintyEllipse,
		PaddingMin:         normalized.Padding * (1 - paddingTolerance),
		PaddingMax:         normalized.Padding * (1 + paddingTolerance),
		StartDate:          normalized.StartDate,
		StopDate:           normalized.StopDate,
	}

	prior, err := v.queries.LatestFinished(ctx, target, source.ID(), match)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, normalized, nil
	}
	if err != nil {
		return nil, normalized, fmt.Errorf("cache lookup for %s: %w", source.ID(), err)
	}

	return prior, normalized, nil
}
