package domain

import "errors"

// Domain errors represent search and validation failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnknownSource indicates a requested source name is not in the
	// registry. The whole job is rejected before any rows are written.
	ErrUnknownSource = errors.New("unknown source")

	// ErrInvalidJobID indicates the job ID is not a version 4 UUID.
	ErrInvalidJobID = errors.New("invalid job ID")

	// ErrNoData indicates a source has no observations at all, or none
	// within the requested date window. Non-fatal: the query finishes
	// with zero matches.
	ErrNoData = errors.New("no observations to search")

	// Search errors. Each marks a per-source failure that errors that
	// source's query but never blocks the remaining sources in the job.

	// ErrDateRange indicates the requested start date is after the stop date.
	ErrDateRange = errors.New("start date is after stop date")

	// ErrPadding indicates the requested padding is negative. Negative
	// padding would silently shrink the match radius and invert the cache
	// match interval.
	ErrPadding = errors.New("padding must not be negative")

	// ErrEphemeris indicates the ephemeris lookup failed for the target.
	ErrEphemeris = errors.New("could not get an ephemeris")

	// ErrSearchFailed indicates the spatial search could not be run.
	ErrSearchFailed = errors.New("could not search the observation archive")

	// ErrSaveFailed indicates matched observations could not be recorded.
	ErrSaveFailed = errors.New("could not save search results")
)

// IsSearchError reports whether err is one of the anticipated per-source
// search failures. Anything else is unexpected and only a generic message
// is shown publicly.
func IsSearchError(err error) bool {
	return errors.Is(err, ErrDateRange) ||
		errors.Is(err, ErrPadding) ||
		errors.Is(err, ErrEphemeris) ||
		errors.Is(err, ErrSearchFailed) ||
		errors.Is(err, ErrSaveFailed)
}
