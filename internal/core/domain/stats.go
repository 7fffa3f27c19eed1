package domain

import "time"

// AllSourcesName is the display name of the synthetic aggregate row merged
// across every per-source statistics row.
const AllSourcesName = "All"

// SourceStats is the per-source coverage aggregate. One additional row,
// named AllSourcesName with an empty Source, merges all sources.
type SourceStats struct {
	// Source is the source identifier; empty for the aggregate row.
	Source string

	// Name is the source display name.
	Name string

	// Count is the number of observations in the archive for this source.
	Count int64

	// Nights is the number of distinct observation nights.
	Nights int64

	// StartDate and StopDate bound the source's coverage.
	// Nil when the source has no observations.
	StartDate *time.Time
	StopDate  *time.Time

	// Updated is when this row was last recomputed.
	Updated time.Time
}

// RecentSourceActivity summarizes observations ingested within a trailing
// window, per source.
type RecentSourceActivity struct {
	// Source is the source identifier.
	Source string

	// Name is the source display name.
	Name string

	// Days is the trailing window length.
	Days int

	// Count is the number of observations ingested within the window.
	Count int64

	// StartDate and StopDate bound the observation epochs of those rows.
	StartDate time.Time
	StopDate  time.Time
}

// RecentQuerySummary summarizes query activity within a trailing window.
type RecentQuerySummary struct {
	// Days is the trailing window length.
	Days int

	// Jobs is the number of distinct job IDs.
	Jobs int64

	// Finished, Errored and InProgress count queries by status.
	Finished   int64
	Errored    int64
	InProgress int64

	// Cached counts finished queries served from cache
	// (those without an execution time).
	Cached int64
}
