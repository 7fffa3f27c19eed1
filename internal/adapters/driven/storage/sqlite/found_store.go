package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// foundStore implements driven.FoundStore.
type foundStore struct {
	store *Store
}

var _ driven.FoundStore = (*foundStore)(nil)

const foundColumns = `id, query_id, observation_id, mjd, ra, dec, dra_cos_dec, ddec,
	unc_a, unc_b, unc_theta, rh, delta, phase, vmag`

// Add inserts found rows in one transaction and returns them with
// identity keys assigned.
func (s *foundStore) Add(ctx context.Context, founds []domain.Found) ([]domain.Found, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO founds (query_id, observation_id, mjd, ra, dec, dra_cos_dec, ddec,
			unc_a, unc_b, unc_theta, rh, delta, phase, vmag)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	saved := make([]domain.Found, len(founds))
	for i, f := range founds {
		res, err := stmt.ExecContext(ctx, f.QueryID, f.ObservationID, f.MJD, f.RA, f.Dec,
			f.DRAcosDec, f.DDec, f.UncA, f.UncB, f.UncTheta, f.Rh, f.Delta, f.Phase, f.VMag)
		if err != nil {
			return nil, fmt.Errorf("saving found row: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, fmt.Errorf("found id: %w", err)
		}
		saved[i] = f
		saved[i].ID = id
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return saved, nil
}

// ByQuery returns the found rows owned by a query.
func (s *foundStore) ByQuery(ctx context.Context, queryID int64) ([]domain.Found, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+foundColumns+` FROM founds WHERE query_id = ? ORDER BY id
	`, queryID)
	if err != nil {
		return nil, fmt.Errorf("querying founds: %w", err)
	}
	defer rows.Close()

	var founds []domain.Found //nolint:prealloc // size unknown from query
	for rows.Next() {
		var f domain.Found
		if err := rows.Scan(&f.ID, &f.QueryID, &f.ObservationID, &f.MJD, &f.RA, &f.Dec,
			&f.DRAcosDec, &f.DDec, &f.UncA, &f.UncB, &f.UncTheta,
			&f.Rh, &f.Delta, &f.Phase, &f.VMag); err != nil {
			return nil, fmt.Errorf("scanning found: %w", err)
		}
		founds = append(founds, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating founds: %w", err)
	}
	return founds, nil
}

// CaughtByJob returns every found row under a job joined to its matched
// observation.
func (s *foundStore) CaughtByJob(ctx context.Context, jobID uuid.UUID) ([]domain.CaughtObservation, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT f.id, f.query_id, f.observation_id, f.mjd, f.ra, f.dec, f.dra_cos_dec, f.ddec,
		       f.unc_a, f.unc_b, f.unc_theta, f.rh, f.delta, f.phase, f.vmag,
		       o.id, o.source, o.product_id, o.mjd_start, o.mjd_stop, o.ra, o.dec,
		       o.fov_radius, o.filter, o.exposure_time, o.mjd_added
		FROM founds f
		JOIN queries q ON q.id = f.query_id
		JOIN observations o ON o.id = f.observation_id
		WHERE q.job_id = ?
		ORDER BY f.id
	`, jobID.String())
	if err != nil {
		return nil, fmt.Errorf("querying caught rows: %w", err)
	}
	defer rows.Close()

	var caught []domain.CaughtObservation //nolint:prealloc // size unknown from query
	for rows.Next() {
		var c domain.CaughtObservation
		f := &c.Found
		o := &c.Observation
		if err := rows.Scan(&f.ID, &f.QueryID, &f.ObservationID, &f.MJD, &f.RA, &f.Dec,
			&f.DRAcosDec, &f.DDec, &f.UncA, &f.UncB, &f.UncTheta,
			&f.Rh, &f.Delta, &f.Phase, &f.VMag,
			&o.ID, &o.Source, &o.ProductID, &o.MJDStart, &o.MJDStop, &o.RA, &o.Dec,
			&o.FOVRadius, &o.Filter, &o.ExposureTime, &o.MJDAdded); err != nil {
			return nil, fmt.Errorf("scanning caught row: %w", err)
		}
		caught = append(caught, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating caught rows: %w", err)
	}
	return caught, nil
}
