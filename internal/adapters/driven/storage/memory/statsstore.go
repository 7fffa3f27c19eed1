package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// Ensure StatsStore implements the interface.
var _ driven.StatsStore = (*StatsStore)(nil)

// StatsStore is an in-memory implementation of driven.StatsStore.
type StatsStore struct {
	mu    sync.RWMutex
	stats map[string]domain.SourceStats
}

// NewStatsStore creates a new in-memory stats store.
func NewStatsStore() *StatsStore {
	return &StatsStore{stats: make(map[string]domain.SourceStats)}
}

// Upsert inserts or replaces the row keyed by stats.Name.
func (s *StatsStore) Upsert(_ context.Context, stats domain.SourceStats) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats[stats.Name] = stats
	return nil
}

// Get returns the row with the given display name.
func (s *StatsStore) Get(_ context.Context, name string) (*domain.SourceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stats, ok := s.stats[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &stats, nil
}

// List returns all rows ordered by display name.
func (s *StatsStore) List(_ context.Context) ([]domain.SourceStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.SourceStats, 0, len(s.stats))
	for name := range s.stats {
		all = append(all, s.stats[name])
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })
	return all, nil
}
