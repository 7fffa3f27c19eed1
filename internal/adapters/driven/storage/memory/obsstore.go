package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// Ensure ObservationStore implements the interface.
var _ driven.ObservationStore = (*ObservationStore)(nil)

// ObservationStore is an in-memory implementation of driven.ObservationStore.
type ObservationStore struct {
	mu     sync.RWMutex
	nextID int64
	obs    map[int64]domain.Observation
}

// NewObservationStore creates a new in-memory observation store.
func NewObservationStore() *ObservationStore {
	return &ObservationStore{obs: make(map[int64]domain.Observation)}
}

// CoverageRange returns the true min/max observation epoch for a source.
func (s *ObservationStore) CoverageRange(_ context.Context, source string) (float64, float64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	start, stop := math.Inf(1), math.Inf(-1)
	found := false
	for id := range s.obs {
		o := s.obs[id]
		if o.Source != source {
			continue
		}
		found = true
		start = math.Min(start, o.MJDStart)
		stop = math.Max(stop, o.MJDStop)
	}
	if !found {
		return 0, 0, false, nil
	}
	return start, stop, true, nil
}

// Count returns the number of observations for a source.
func (s *ObservationStore) Count(_ context.Context, source string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for id := range s.obs {
		if s.obs[id].Source == source {
			count++
		}
	}
	return count, nil
}

// Nights returns the number of distinct observation nights for a source,
// or for the whole archive when source is empty.
func (s *ObservationStore) Nights(_ context.Context, source string, nightOffset float64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	nights := make(map[int64]bool)
	for id := range s.obs {
		o := s.obs[id]
		if source != "" && o.Source != source {
			continue
		}
		nights[int64(o.MJDStart+nightOffset)] = true
	}
	return int64(len(nights)), nil
}

// Window returns the observations whose exposures overlap the MJD window,
// for one source or for the whole archive when source is empty.
func (s *ObservationStore) Window(_ context.Context, source string, startMJD, stopMJD float64) ([]domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var window []domain.Observation
	for id := range s.obs {
		o := s.obs[id]
		if source != "" && o.Source != source {
			continue
		}
		if o.MJDStop < startMJD || o.MJDStart > stopMJD {
			continue
		}
		window = append(window, o)
	}
	sort.Slice(window, func(i, j int) bool { return window[i].MJDStart < window[j].MJDStart })
	return window, nil
}

// RecentlyAdded summarizes rows ingested at or after sinceMJD, per source.
func (s *ObservationStore) RecentlyAdded(_ context.Context, sinceMJD float64) ([]domain.RecentSourceActivity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bySource := make(map[string]*domain.RecentSourceActivity)
	for id := range s.obs {
		o := s.obs[id]
		if o.MJDAdded < sinceMJD {
			continue
		}
		activity, ok := bySource[o.Source]
		if !ok {
			activity = &domain.RecentSourceActivity{
				Source:    o.Source,
				StartDate: domain.TimeFromMJD(o.MJDStart),
				StopDate:  domain.TimeFromMJD(o.MJDStop),
			}
			bySource[o.Source] = activity
		}
		activity.Count++
		if start := domain.TimeFromMJD(o.MJDStart); start.Before(activity.StartDate) {
			activity.StartDate = start
		}
		if stop := domain.TimeFromMJD(o.MJDStop); stop.After(activity.StopDate) {
			activity.StopDate = stop
		}
	}

	report := make([]domain.RecentSourceActivity, 0, len(bySource))
	for _, activity := range bySource {
		report = append(report, *activity)
	}
	sort.Slice(report, func(i, j int) bool { return report[i].Source < report[j].Source })
	return report, nil
}

// Add inserts observations and returns them with identity keys assigned.
func (s *ObservationStore) Add(_ context.Context, obs []domain.Observation) ([]domain.Observation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	saved := make([]domain.Observation, len(obs))
	for i, o := range obs {
		s.nextID++
		o.ID = s.nextID
		s.obs[o.ID] = o
		saved[i] = o
	}
	return saved, nil
}

// byID looks up one observation by identity key.
func (s *ObservationStore) byID(id int64) (domain.Observation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.obs[id]
	if !ok {
		return domain.Observation{}, domain.ErrNotFound
	}
	return o, nil
}
