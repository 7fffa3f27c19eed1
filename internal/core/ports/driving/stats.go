package driving

import (
	"context"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

// StatsService maintains and reports source coverage statistics,
// independent of search activity.
type StatsService interface {
	// SourceStatistics returns the stored per-source rows plus the
	// aggregate row, ordered by display name.
	SourceStatistics(ctx context.Context) ([]domain.SourceStats, error)

	// UpdateStatistics recomputes statistics for one source, or for all
	// known sources when source is empty, then refreshes the aggregate.
	UpdateStatistics(ctx context.Context, source string) error

	// RecentActivity reports observations ingested within the trailing
	// 1, 7 and 30 day windows, per source.
	RecentActivity(ctx context.Context) ([]domain.RecentSourceActivity, error)

	// RecentQueries summarizes query activity within the same windows.
	RecentQueries(ctx context.Context) ([]domain.RecentQuerySummary, error)
}
