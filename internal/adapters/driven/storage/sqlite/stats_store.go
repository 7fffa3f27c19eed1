package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// statsStore implements driven.StatsStore.
type statsStore struct {
	store *Store
}

var _ driven.StatsStore = (*statsStore)(nil)

// Upsert writes a statistics row keyed by display name.
func (s *statsStore) Upsert(ctx context.Context, stats domain.SourceStats) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO source_stats (name, source, count, nights, start_date, stop_date, updated)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			source = excluded.source,
			count = excluded.count,
			nights = excluded.nights,
			start_date = excluded.start_date,
			stop_date = excluded.stop_date,
			updated = excluded.updated
	`, stats.Name, stats.Source, stats.Count, stats.Nights,
		nullTime(stats.StartDate), nullTime(stats.StopDate), stats.Updated.UTC())

	if err != nil {
		return fmt.Errorf("saving source stats: %w", err)
	}
	return nil
}

// Get returns the statistics row for a display name.
func (s *statsStore) Get(ctx context.Context, name string) (*domain.SourceStats, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT name, source, count, nights, start_date, stop_date, updated
		FROM source_stats
		WHERE name = ?
	`, name)

	stats, err := scanStats(row)
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// List returns all statistics rows, ordered by display name.
func (s *statsStore) List(ctx context.Context) ([]domain.SourceStats, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT name, source, count, nights, start_date, stop_date, updated
		FROM source_stats
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("querying source stats: %w", err)
	}
	defer rows.Close()

	var all []domain.SourceStats //nolint:prealloc // size unknown from query
	for rows.Next() {
		stats, err := scanStats(rows)
		if err != nil {
			return nil, err
		}
		all = append(all, *stats)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating source stats: %w", err)
	}
	return all, nil
}

// scanStats reads one source_stats row.
func scanStats(row rowScanner) (*domain.SourceStats, error) {
	var (
		stats     domain.SourceStats
		startDate sql.NullString
		stopDate  sql.NullString
		updated   time.Time
	)

	err := row.Scan(&stats.Name, &stats.Source, &stats.Count, &stats.Nights,
		&startDate, &stopDate, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning source stats: %w", err)
	}

	if stats.StartDate, err = timePtr(startDate); err != nil {
		return nil, err
	}
	if stats.StopDate, err = timePtr(stopDate); err != nil {
		return nil, err
	}
	stats.Updated = updated.UTC()
	return &stats, nil
}
