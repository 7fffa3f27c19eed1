package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// Ensure QueryStore implements the interface.
var _ driven.QueryStore = (*QueryStore)(nil)

// QueryStore is an in-memory implementation of driven.QueryStore.
type QueryStore struct {
	mu      sync.RWMutex
	nextID  int64
	queries map[int64]domain.Query
}

// NewQueryStore creates a new in-memory query store.
func NewQueryStore() *QueryStore {
	return &QueryStore{queries: make(map[int64]domain.Query)}
}

// Create inserts the query and assigns its identity key.
func (s *QueryStore) Create(_ context.Context, q *domain.Query) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	s.nextID++
	q.ID = s.nextID
	s.queries[q.ID] = *q
	return nil
}

// Finish records the terminal status and execution time.
func (s *QueryStore) Finish(_ context.Context, id int64, status domain.QueryStatus, executionTime *float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.queries[id]
	if !ok {
		return domain.ErrNotFound
	}
	q.Status = status
	q.ExecutionTime = executionTime
	s.queries[id] = q
	return nil
}

// LatestFinished returns the most recent finished query matching the
// cache-identity filter.
func (s *QueryStore) LatestFinished(
	_ context.Context, target, source string, match driven.QueryMatch,
) (*domain.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var best *domain.Query
	for id := range s.queries {
		q := s.queries[id]
		if q.Target != target || q.Source != source || q.Status != domain.QueryFinished {
			continue
		}
		if q.Params.UncertaintyEllipse != match.UncertaintyEllipse {
			continue
		}
		if q.Params.Padding < match.PaddingMin || q.Params.Padding > match.PaddingMax {
			continue
		}
		if !sameBound(q.Params.StartDate, match.StartDate) || !sameBound(q.Params.StopDate, match.StopDate) {
			continue
		}
		if best == nil || q.ID > best.ID {
			copied := q
			best = &copied
		}
	}
	if best == nil {
		return nil, domain.ErrNotFound
	}
	return best, nil
}

// ByJob returns all queries created under a job ID, oldest first.
func (s *QueryStore) ByJob(_ context.Context, jobID uuid.UUID) ([]domain.Query, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Query
	for id := range s.queries {
		if s.queries[id].JobID == jobID {
			result = append(result, s.queries[id])
		}
	}
	sortQueries(result)
	return result, nil
}

// Delete removes a query. Found rows are owned by FoundStore and are
// not cascaded here; services delete queries only in tooling paths.
func (s *QueryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.queries, id)
	return nil
}

// RecentSummary counts queries created at or after since for the given
// sources.
func (s *QueryStore) RecentSummary(
	_ context.Context, since time.Time, sources []string,
) (domain.RecentQuerySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[string]bool, len(sources))
	for _, source := range sources {
		wanted[source] = true
	}

	var summary domain.RecentQuerySummary
	jobs := make(map[uuid.UUID]bool)
	for id := range s.queries {
		q := s.queries[id]
		if q.CreatedAt.Before(since) || !wanted[q.Source] {
			continue
		}
		jobs[q.JobID] = true
		switch q.Status {
		case domain.QueryFinished:
			summary.Finished++
			if q.ExecutionTime == nil {
				summary.Cached++
			}
		case domain.QueryErrored:
			summary.Errored++
		case domain.QueryInProgress:
			summary.InProgress++
		}
	}
	summary.Jobs = int64(len(jobs))
	return summary, nil
}

// sameBound reports whether two optional bounds are both nil or equal.
func sameBound(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

// sortQueries orders by identity key, ascending.
func sortQueries(queries []domain.Query) {
	sort.Slice(queries, func(i, j int) bool { return queries[i].ID < queries[j].ID })
}
