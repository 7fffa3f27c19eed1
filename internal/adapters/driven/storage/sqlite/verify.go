package sqlite

import (
	"context"
	"fmt"
	"strings"
)

// VerifyReport is the outcome of a database consistency check.
type VerifyReport struct {
	// Integrity is SQLite's own verdict, "ok" for a healthy file.
	Integrity string

	// OrphanedFounds counts found rows whose observation no longer exists.
	OrphanedFounds int64

	// DanglingQueries counts queries stuck in a non-terminal state.
	// A crash mid-search leaves such rows behind.
	DanglingQueries int64

	// UnknownSources counts queries whose source is not in the catalog.
	// knownSources is supplied by the caller; zero sources skips the check.
	UnknownSources int64

	// CachedCopies counts finished queries served from cache, informational.
	CachedCopies int64
}

// OK reports whether the check found no defects.
func (r VerifyReport) OK() bool {
	return r.Integrity == "ok" && r.OrphanedFounds == 0 &&
		r.DanglingQueries == 0 && r.UnknownSources == 0
}

// Verify checks the database file and the referential invariants the
// schema cannot express. knownSources lists valid query source values;
// comma-joined fixed-target source sets are checked element-wise.
func (s *Store) Verify(ctx context.Context, knownSources []string) (VerifyReport, error) {
	var report VerifyReport

	row := s.db.QueryRowContext(ctx, "PRAGMA integrity_check")
	if err := row.Scan(&report.Integrity); err != nil {
		return report, fmt.Errorf("integrity check: %w", err)
	}

	row = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM founds f
		LEFT JOIN observations o ON o.id = f.observation_id
		WHERE o.id IS NULL`)
	if err := row.Scan(&report.OrphanedFounds); err != nil {
		return report, fmt.Errorf("counting orphaned founds: %w", err)
	}

	row = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM queries WHERE status NOT IN ('finished', 'errored')")
	if err := row.Scan(&report.DanglingQueries); err != nil {
		return report, fmt.Errorf("counting dangling queries: %w", err)
	}

	if len(knownSources) > 0 {
		unknown, err := s.countUnknownSources(ctx, knownSources)
		if err != nil {
			return report, err
		}
		report.UnknownSources = unknown
	}

	row = s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM queries WHERE status = 'finished' AND execution_time IS NULL")
	if err := row.Scan(&report.CachedCopies); err != nil {
		return report, fmt.Errorf("counting cached copies: %w", err)
	}

	return report, nil
}

func (s *Store) countUnknownSources(ctx context.Context, knownSources []string) (int64, error) {
	known := make(map[string]bool, len(knownSources))
	for _, source := range knownSources {
		known[source] = true
	}

	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT source FROM queries")
	if err != nil {
		return 0, fmt.Errorf("listing query sources: %w", err)
	}
	defer rows.Close()

	var unknown int64
	for rows.Next() {
		var joined string
		if err := rows.Scan(&joined); err != nil {
			return 0, fmt.Errorf("scanning query source: %w", err)
		}
		// Fixed-target rows store a comma-joined source set.
		for _, source := range strings.Split(joined, ",") {
			if source != "" && !known[source] {
				unknown++
				break
			}
		}
	}
	return unknown, rows.Err()
}
