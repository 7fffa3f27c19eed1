package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// queryStore implements driven.QueryStore.
type queryStore struct {
	store *Store
}

var _ driven.QueryStore = (*queryStore)(nil)

const queryColumns = `id, job_id, target, source, uncertainty_ellipse, padding,
	intersection_type, start_date, stop_date, status, created_at, execution_time`

// Create inserts the query and assigns its identity key. Autocommit makes
// the in-progress row durable immediately.
func (s *queryStore) Create(ctx context.Context, q *domain.Query) error {
	var intersection sql.NullString
	if q.Params.IntersectionType != nil {
		intersection = sql.NullString{String: string(*q.Params.IntersectionType), Valid: true}
	}

	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}

	res, err := s.store.db.ExecContext(ctx, `
		INSERT INTO queries (job_id, target, source, uncertainty_ellipse, padding,
			intersection_type, start_date, stop_date, status, created_at, execution_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
	`, q.JobID.String(), q.Target, q.Source, q.Params.UncertaintyEllipse, q.Params.Padding,
		intersection, nullTime(q.Params.StartDate), nullTime(q.Params.StopDate),
		string(q.Status), q.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving query: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("query id: %w", err)
	}
	q.ID = id
	return nil
}

// Finish records the terminal status and execution time.
func (s *queryStore) Finish(ctx context.Context, id int64, status domain.QueryStatus, executionTime *float64) error {
	var execTime sql.NullFloat64
	if executionTime != nil {
		execTime = sql.NullFloat64{Float64: *executionTime, Valid: true}
	}

	res, err := s.store.db.ExecContext(ctx, `
		UPDATE queries SET status = ?, execution_time = ? WHERE id = ?
	`, string(status), execTime, id)
	if err != nil {
		return fmt.Errorf("finishing query: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing query: %w", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// LatestFinished returns the most recent finished query matching the
// cache-identity filter. Nullable bounds compare with IS so two nulls
// match each other.
func (s *queryStore) LatestFinished(
	ctx context.Context, target, source string, match driven.QueryMatch,
) (*domain.Query, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+queryColumns+`
		FROM queries
		WHERE target = ? AND source = ? AND status = ?
		  AND uncertainty_ellipse = ?
		  AND padding BETWEEN ? AND ?
		  AND start_date IS ?
		  AND stop_date IS ?
		ORDER BY id DESC
		LIMIT 1
	`, target, source, string(domain.QueryFinished), match.UncertaintyEllipse,
		match.PaddingMin, match.PaddingMax, nullTime(match.StartDate), nullTime(match.StopDate))

	q, err := scanQuery(row)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ByJob returns all queries created under a job ID, oldest first.
func (s *queryStore) ByJob(ctx context.Context, jobID uuid.UUID) ([]domain.Query, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT `+queryColumns+` FROM queries WHERE job_id = ? ORDER BY id
	`, jobID.String())
	if err != nil {
		return nil, fmt.Errorf("querying by job: %w", err)
	}
	defer rows.Close()

	var queries []domain.Query //nolint:prealloc // size unknown from query
	for rows.Next() {
		q, err := scanQuery(rows)
		if err != nil {
			return nil, err
		}
		queries = append(queries, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating queries: %w", err)
	}
	return queries, nil
}

// Delete removes a query; its found rows cascade.
func (s *queryStore) Delete(ctx context.Context, id int64) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM queries WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting query: %w", err)
	}
	return nil
}

// RecentSummary counts queries created at or after since for the given
// sources. Joined fixed-target source sets do not contribute.
func (s *queryStore) RecentSummary(
	ctx context.Context, since time.Time, sources []string,
) (domain.RecentQuerySummary, error) {
	var summary domain.RecentQuerySummary
	if len(sources) == 0 {
		return summary, nil
	}

	placeholders := strings.Repeat("?,", len(sources)-1) + "?"
	args := make([]any, 0, len(sources)+1)
	args = append(args, since.UTC())
	for _, source := range sources {
		args = append(args, source)
	}

	row := s.store.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT job_id),
		       COALESCE(SUM(status = 'finished'), 0),
		       COALESCE(SUM(status = 'errored'), 0),
		       COALESCE(SUM(status = 'in progress'), 0),
		       COALESCE(SUM(status = 'finished' AND execution_time IS NULL), 0)
		FROM queries
		WHERE created_at >= ? AND source IN (`+placeholders+`)
	`, args...)

	if err := row.Scan(&summary.Jobs, &summary.Finished, &summary.Errored,
		&summary.InProgress, &summary.Cached); err != nil {
		return summary, fmt.Errorf("scanning query summary: %w", err)
	}
	return summary, nil
}

// rowScanner covers sql.Row and sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanQuery reads one queries row.
func scanQuery(row rowScanner) (*domain.Query, error) {
	var (
		q            domain.Query
		jobID        string
		uncertainty  bool
		padding      float64
		intersection sql.NullString
		startDate    sql.NullString
		stopDate     sql.NullString
		status       string
		execTime     sql.NullFloat64
	)

	err := row.Scan(&q.ID, &jobID, &q.Target, &q.Source, &uncertainty, &padding,
		&intersection, &startDate, &stopDate, &status, &q.CreatedAt, &execTime)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning query: %w", err)
	}

	parsed, err := uuid.Parse(jobID)
	if err != nil {
		return nil, fmt.Errorf("parsing stored job id %q: %w", jobID, err)
	}
	q.JobID = parsed

	q.Params.UncertaintyEllipse = uncertainty
	q.Params.Padding = padding
	if intersection.Valid {
		it := domain.IntersectionType(intersection.String)
		q.Params.IntersectionType = &it
	}
	if q.Params.StartDate, err = timePtr(startDate); err != nil {
		return nil, err
	}
	if q.Params.StopDate, err = timePtr(stopDate); err != nil {
		return nil, err
	}

	q.Status = domain.QueryStatus(status)
	q.CreatedAt = q.CreatedAt.UTC()
	if execTime.Valid {
		q.ExecutionTime = &execTime.Float64
	}
	return &q, nil
}
