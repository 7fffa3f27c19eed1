package domain

import (
	"time"

	"github.com/google/uuid"
)

// QueryStatus tracks a query through its lifecycle.
// The only transitions are in progress -> finished and in progress -> errored.
type QueryStatus string

// Query lifecycle states.
const (
	QueryInProgress QueryStatus = "in progress"
	QueryFinished   QueryStatus = "finished"
	QueryErrored    QueryStatus = "errored"
)

// Terminal reports whether the status is an end state.
func (s QueryStatus) Terminal() bool {
	return s == QueryFinished || s == QueryErrored
}

// SearchParams are the parameters that shape a search and therefore its
// cache identity.
type SearchParams struct {
	// UncertaintyEllipse searches considering the ephemeris uncertainty ellipse.
	UncertaintyEllipse bool

	// Padding is additional padding around the search area, arcmin.
	Padding float64

	// IntersectionType is the areal intersection requirement.
	// Only set for fixed-target searches with non-zero padding.
	IntersectionType *IntersectionType

	// StartDate limits the search to observations after this time.
	// Nil searches from the beginning of the source's coverage.
	StartDate *time.Time

	// StopDate limits the search to observations before this time.
	// Nil searches to the end of the source's coverage.
	StopDate *time.Time
}

// Normalize returns a copy of the params with StartDate and StopDate
// replaced by nil whenever they lie at or beyond the source's actual
// coverage. A request to search back further than any data exists is
// the same search as one with no bound at all, and the two must map to
// the same cache key. If the source has no coverage both bounds are nil.
func (p SearchParams) Normalize(mjdCoverageStart, mjdCoverageStop float64, hasCoverage bool) SearchParams {
	normalized := p
	normalized.StartDate = nil
	normalized.StopDate = nil

	if !hasCoverage {
		return normalized
	}

	if p.StartDate != nil && MJDFromTime(*p.StartDate) > mjdCoverageStart {
		start := p.StartDate.UTC()
		normalized.StartDate = &start
	}
	if p.StopDate != nil && MJDFromTime(*p.StopDate) < mjdCoverageStop {
		stop := p.StopDate.UTC()
		normalized.StopDate = &stop
	}

	return normalized
}

// Validate checks the date range ordering and the padding sign.
func (p SearchParams) Validate() error {
	if p.Padding < 0 {
		return ErrPadding
	}
	if p.StartDate != nil && p.StopDate != nil && p.StartDate.After(*p.StopDate) {
		return ErrDateRange
	}
	return nil
}

// Query is one search attempt against one source, or against a joined
// source set for a fixed-position areal search.
type Query struct {
	// ID is the store-assigned identity key.
	ID int64

	// JobID correlates the queries belonging to one user-facing request.
	JobID uuid.UUID

	// Target is the canonical query text (designation or serialized position).
	Target string

	// Source is the source identifier, or a comma-joined set for
	// fixed-target searches.
	Source string

	// Params are the search parameters, normalized before the row is
	// first persisted.
	Params SearchParams

	// Status is the lifecycle state. Queries are created in progress and
	// committed immediately so a crash mid-search leaves a visible record.
	Status QueryStatus

	// CreatedAt is when the query was created.
	CreatedAt time.Time

	// ExecutionTime is the wall-clock search duration in seconds.
	// Nil if and only if the query was served by copying cached results.
	ExecutionTime *float64
}
