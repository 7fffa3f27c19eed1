package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// Ensure FoundStore implements the interface.
var _ driven.FoundStore = (*FoundStore)(nil)

// FoundStore is an in-memory implementation of driven.FoundStore.
// CaughtByJob joins against the query and observation stores it is
// constructed with.
type FoundStore struct {
	mu           sync.RWMutex
	nextID       int64
	founds       map[int64]domain.Found
	queries      *QueryStore
	observations *ObservationStore
}

// NewFoundStore creates a new in-memory found store.
func NewFoundStore(queries *QueryStore, observations *ObservationStore) *FoundStore {
	return &FoundStore{
		founds:       make(map[int64]domain.Found),
		queries:      queries,
		observations: observations,
	}
}

// Add inserts found rows and returns them with identity keys assigned.
func (s *FoundStore) Add(_ context.Context, founds []domain.Found) ([]domain.Found, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]domain.Found, len(founds))
	for i, f := range founds {
		s.nextID++
		f.ID = s.nextID
		s.founds[f.ID] = f
		saved[i] = f
	}
	return saved, nil
}

// ByQuery returns the found rows owned by a query.
func (s *FoundStore) ByQuery(_ context.Context, queryID int64) ([]domain.Found, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []domain.Found
	for id := range s.founds {
		if s.founds[id].QueryID == queryID {
			result = append(result, s.founds[id])
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// CaughtByJob returns every found row under a job joined to its matched
// observation.
func (s *FoundStore) CaughtByJob(ctx context.Context, jobID uuid.UUID) ([]domain.CaughtObservation, error) {
	queries, err := s.queries.ByJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	owned := make(map[int64]bool, len(queries))
	for _, q := range queries {
		owned[q.ID] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var caught []domain.CaughtObservation
	for id := range s.founds {
		f := s.founds[id]
		if !owned[f.QueryID] {
			continue
		}
		obs, err := s.observations.byID(f.ObservationID)
		if err != nil {
			return nil, err
		}
		caught = append(caught, domain.CaughtObservation{Found: f, Observation: obs})
	}
	sort.Slice(caught, func(i, j int) bool { return caught[i].Found.ID < caught[j].Found.ID })
	return caught, nil
}
