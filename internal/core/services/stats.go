package services

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
)

// Ensure StatsAggregator implements the interface.
var _ driving.StatsService = (*StatsAggregator)(nil)

// recencyWindows are the trailing windows, in days, used by the recency
// reports.
var recencyWindows = []int{1, 7, 30}

// nightOffset shifts the MJD day boundary to local midnight when counting
// distinct observation nights.
const nightOffset = -0.5

// StatsAggregator recomputes per-source and global coverage statistics
// directly from the observation archive, independent of search activity.
type StatsAggregator struct {
	registry driven.SourceRegistry
	obs      driven.ObservationStore
	stats    driven.StatsStore
	queries  driven.QueryStore

	now func() time.Time
}

// NewStatsAggregator creates a new stats aggregator.
func NewStatsAggregator(
	registry driven.SourceRegistry,
	obs driven.ObservationStore,
	stats driven.StatsStore,
	queries driven.QueryStore,
) *StatsAggregator {
	return &StatsAggregator{
		registry: registry,
		obs:      obs,
		stats:    stats,
		queries:  queries,
		now:      time.Now,
	}
}

// SourceStatistics returns the stored statistics rows ordered by name.
func (s *StatsAggregator) SourceStatistics(ctx context.Context) ([]domain.SourceStats, error) {
	return s.stats.List(ctx)
}

// UpdateStatistics recomputes statistics for one source, or for every
// known source when source is empty, then refreshes the aggregate row.
// Each source's upsert is independent: a failure updating one source
// leaves the others' stored values untouched.
func (s *StatsAggregator) UpdateStatistics(ctx context.Context, source string) error {
	var sources []driven.SurveySource
	if source == "" {
		sources = s.registry.All()
	} else {
		src, ok := s.registry.Get(source)
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrUnknownSource, source)
		}
		sources = []driven.SurveySource{src}
	}

	for _, src := range sources {
		if err := s.updateSource(ctx, src); err != nil {
			return fmt.Errorf("update %s: %w", src.ID(), err)
		}
	}

	return s.updateAggregate(ctx)
}

// updateSource recomputes one source's row from the observation archive.
func (s *StatsAggregator) updateSource(ctx context.Context, src driven.SurveySource) error {
	count, err := s.obs.Count(ctx, src.ID())
	if err != nil {
		return fmt.Errorf("count: %w", err)
	}

	nights, err := s.obs.Nights(ctx, src.ID(), nightOffset)
	if err != nil {
		return fmt.Errorf("nights: %w", err)
	}

	row := domain.SourceStats{
		Source:  src.ID(),
		Name:    src.DisplayName(),
		Count:   count,
		Nights:  nights,
		Updated: s.now().UTC(),
	}

	if count > 0 {
		covStart, covStop, ok, err := src.CoverageRange(ctx)
		if err != nil {
			return fmt.Errorf("coverage range: %w", err)
		}
		if ok {
			start := domain.TimeFromMJD(covStart)
			stop := domain.TimeFromMJD(covStop)
			row.StartDate = &start
			row.StopDate = &stop
		}
	}

	return s.stats.Upsert(ctx, row)
}

// updateAggregate recomputes the merged row over all per-source rows.
func (s *StatsAggregator) updateAggregate(ctx context.Context) error {
	rows, err := s.stats.List(ctx)
	if err != nil {
		return fmt.Errorf("list stats: %w", err)
	}

	all := domain.SourceStats{Name: domain.AllSourcesName}
	for _, row := range rows {
		if row.Name == domain.AllSourcesName {
			continue
		}
		all.Count += row.Count
		if row.StartDate != nil && (all.StartDate == nil || row.StartDate.Before(*all.StartDate)) {
			all.StartDate = row.StartDate
		}
		if row.StopDate != nil && (all.StopDate == nil || row.StopDate.After(*all.StopDate)) {
			all.StopDate = row.StopDate
		}
		if row.Updated.After(all.Updated) {
			all.Updated = row.Updated
		}
	}

	// Nights overlap between sources observing the same night, so the
	// aggregate is counted over the whole archive rather than summed.
	nights, err := s.obs.Nights(ctx, "", nightOffset)
	if err != nil {
		return fmt.Errorf("nights: %w", err)
	}
	all.Nights = nights

	return s.stats.Upsert(ctx, all)
}

// RecentActivity reports observations ingested within the trailing 1, 7
// and 30 day windows, per source. Sources outside the registry are
// dropped from the report.
func (s *StatsAggregator) RecentActivity(ctx context.Context) ([]domain.RecentSourceActivity, error) {
	nowMJD := domain.MJDFromTime(s.now())

	var report []domain.RecentSourceActivity
	for _, days := range recencyWindows {
		rows, err := s.obs.RecentlyAdded(ctx, nowMJD-float64(days))
		if err != nil {
			return nil, fmt.Errorf("recently added (%dd): %w", days, err)
		}
		for _, row := range rows {
			src, ok := s.registry.Get(row.Source)
			if !ok {
				continue
			}
			row.Name = src.DisplayName()
			row.Days = days
			report = append(report, row)
		}
	}

	return report, nil
}

// RecentQueries summarizes query activity within the trailing windows.
func (s *StatsAggregator) RecentQueries(ctx context.Context) ([]domain.RecentQuerySummary, error) {
	ids := make([]string, 0, len(s.registry.All()))
	for _, src := range s.registry.All() {
		ids = append(ids, src.ID())
	}

	summaries := make([]domain.RecentQuerySummary, 0, len(recencyWindows))
	for _, days := range recencyWindows {
		since := s.now().UTC().AddDate(0, 0, -days)
		summary, err := s.queries.RecentSummary(ctx, since, ids)
		if err != nil {
			return nil, fmt.Errorf("query summary (%dd): %w", days, err)
		}
		summary.Days = days
		summaries = append(summaries, summary)
	}

	return summaries, nil
}
