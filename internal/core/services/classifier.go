package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
	"github.com/custodia-labs/skycatch/internal/logger"
)

// SearchAttempt runs one source's fresh search and returns the match count.
type SearchAttempt func(ctx context.Context) (int, error)

// ClassifySearch wraps a fresh per-source search with the three-tier
// failure policy:
//
//  1. No data: the source has nothing to search, or nothing in the
//     requested window. The query finishes with zero matches and an
//     informational message.
//  2. Domain failure: ephemeris lookup failed, invalid date range, or the
//     downstream search failed. The query errors with a specific message.
//  3. Anything else: full detail goes to the server-side log only; the
//     public channel gets a generic message carrying the job ID.
//
// Every tier returns a terminal status; the caller records execution time
// and commits exactly once. A failing source never blocks the remaining
// sources in the job.
func ClassifySearch(
	ctx context.Context, messenger driven.JobMessenger, jobID uuid.UUID, attempt SearchAttempt,
) (int, domain.QueryStatus) {
	n, err := attempt(ctx)

	switch {
	case err == nil:
		return n, domain.QueryFinished

	case errors.Is(err, domain.ErrNoData):
		messenger.Send("%s.", capitalize(err.Error()))
		return 0, domain.QueryFinished

	case domain.IsSearchError(err):
		messenger.Error("%s.", capitalize(err.Error()))
		logger.Warn("Job %s: search failed: %v", jobID, err)
		return 0, domain.QueryErrored

	default:
		logger.Warn("Job %s: unexpected error: %v", jobID, err)
		messenger.Error("Unexpected error. Contact us with this issue and your job ID (%s).", jobID)
		return 0, domain.QueryErrored
	}
}

// capitalize upper-cases the first byte of an ASCII message.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	if s[0] >= 'a' && s[0] <= 'z' {
		return string(s[0]-'a'+'A') + s[1:]
	}
	return s
}
