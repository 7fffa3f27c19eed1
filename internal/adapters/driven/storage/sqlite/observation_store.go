package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// observationStore implements driven.ObservationStore.
type observationStore struct {
	store *Store
}

var _ driven.ObservationStore = (*observationStore)(nil)

// CoverageRange returns the true min/max observation epoch for a source.
func (s *observationStore) CoverageRange(ctx context.Context, source string) (float64, float64, bool, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT MIN(mjd_start), MAX(mjd_stop) FROM observations WHERE source = ?
	`, source)

	var start, stop sql.NullFloat64
	if err := row.Scan(&start, &stop); err != nil {
		return 0, 0, false, fmt.Errorf("scanning coverage range: %w", err)
	}
	if !start.Valid || !stop.Valid {
		return 0, 0, false, nil
	}
	return start.Float64, stop.Float64, true, nil
}

// Count returns the number of observations for a source.
func (s *observationStore) Count(ctx context.Context, source string) (int64, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM observations WHERE source = ?
	`, source)

	var count int64
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("scanning count: %w", err)
	}
	return count, nil
}

// Nights returns the number of distinct observation nights for a source,
// or for the whole archive when source is empty.
func (s *observationStore) Nights(ctx context.Context, source string, nightOffset float64) (int64, error) {
	var row *sql.Row
	if source == "" {
		row = s.store.db.QueryRowContext(ctx, `
			SELECT COUNT(DISTINCT CAST(mjd_start + ? AS INTEGER)) FROM observations
		`, nightOffset)
	} else {
		row = s.store.db.QueryRowContext(ctx, `
			SELECT COUNT(DISTINCT CAST(mjd_start + ? AS INTEGER)) FROM observations WHERE source = ?
		`, nightOffset, source)
	}

	var nights int64
	if err := row.Scan(&nights); err != nil {
		return 0, fmt.Errorf("scanning nights: %w", err)
	}
	return nights, nil
}

const observationColumns = `id, source, product_id, mjd_start, mjd_stop, ra, dec,
	fov_radius, filter, exposure_time, mjd_added`

// Window returns the observations whose exposures overlap the MJD window,
// for one source or for the whole archive when source is empty.
func (s *observationStore) Window(ctx context.Context, source string, startMJD, stopMJD float64) ([]domain.Observation, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if source == "" {
		rows, err = s.store.db.QueryContext(ctx, `
			SELECT `+observationColumns+` FROM observations
			WHERE mjd_stop >= ? AND mjd_start <= ?
			ORDER BY mjd_start
		`, startMJD, stopMJD)
	} else {
		rows, err = s.store.db.QueryContext(ctx, `
			SELECT `+observationColumns+` FROM observations
			WHERE source = ? AND mjd_stop >= ? AND mjd_start <= ?
			ORDER BY mjd_start
		`, source, startMJD, stopMJD)
	}
	if err != nil {
		return nil, fmt.Errorf("querying observation window: %w", err)
	}
	defer rows.Close()

	var window []domain.Observation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var o domain.Observation
		if err := rows.Scan(&o.ID, &o.Source, &o.ProductID, &o.MJDStart, &o.MJDStop,
			&o.RA, &o.Dec, &o.FOVRadius, &o.Filter, &o.ExposureTime, &o.MJDAdded); err != nil {
			return nil, fmt.Errorf("scanning observation: %w", err)
		}
		window = append(window, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating observation window: %w", err)
	}
	return window, nil
}

// RecentlyAdded summarizes rows ingested at or after sinceMJD, per source.
func (s *observationStore) RecentlyAdded(ctx context.Context, sinceMJD float64) ([]domain.RecentSourceActivity, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source, COUNT(*), MIN(mjd_start), MAX(mjd_stop)
		FROM observations
		WHERE mjd_added >= ?
		GROUP BY source
		ORDER BY source
	`, sinceMJD)
	if err != nil {
		return nil, fmt.Errorf("querying recent observations: %w", err)
	}
	defer rows.Close()

	var report []domain.RecentSourceActivity //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			activity    domain.RecentSourceActivity
			start, stop float64
		)
		if err := rows.Scan(&activity.Source, &activity.Count, &start, &stop); err != nil {
			return nil, fmt.Errorf("scanning recent observations: %w", err)
		}
		activity.StartDate = domain.TimeFromMJD(start)
		activity.StopDate = domain.TimeFromMJD(stop)
		report = append(report, activity)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating recent observations: %w", err)
	}
	return report, nil
}

// Add inserts observations in one transaction and returns them with
// identity keys assigned. Used by tests and ingest tooling; the archive
// is normally populated out-of-band.
func (s *observationStore) Add(ctx context.Context, obs []domain.Observation) ([]domain.Observation, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (source, product_id, mjd_start, mjd_stop, ra, dec,
			fov_radius, filter, exposure_time, mjd_added)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	saved := make([]domain.Observation, len(obs))
	for i, o := range obs {
		res, err := stmt.ExecContext(ctx, o.Source, o.ProductID, o.MJDStart, o.MJDStop,
			o.RA, o.Dec, o.FOVRadius, o.Filter, o.ExposureTime, o.MJDAdded)
		if err != nil {
			return nil, fmt.Errorf("saving observation: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("observation id: %w", err)
		}
		saved[i] = o
		saved[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return saved, nil
}
