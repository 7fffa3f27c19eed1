package cli

import (
	"context"
	"io"

	"github.com/custodia-labs/skycatch/internal/adapters/driven/messenger"
	"github.com/custodia-labs/skycatch/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/services"
	"github.com/custodia-labs/skycatch/internal/sources"
)

// fakeEngine implements driven.SpatialEngine for command tests.
type fakeEngine struct {
	matches []domain.Observation
}

func (e *fakeEngine) EphemerisFor(
	_ context.Context, _ domain.MovingTarget, _ string, startMJD, stopMJD float64,
) (domain.Ephemeris, error) {
	return domain.Ephemeris{
		{MJD: startMJD, RA: 120, Dec: -15},
		{MJD: stopMJD, RA: 121, Dec: -15},
	}, nil
}

func (e *fakeEngine) FindByEphemeris(
	_ context.Context, _ string, _ domain.Ephemeris, _ domain.SearchParams,
) ([]domain.Observation, error) {
	return e.matches, nil
}

func (e *fakeEngine) FindAreaOrPoint(
	_ context.Context, _ domain.FixedTarget, _ domain.SearchParams,
) ([]domain.Observation, error) {
	return e.matches, nil
}

// setupTestServices wires the package-level services over in-memory
// stores. The returned cleanup restores the previous wiring.
func setupTestServices() func() {
	origSearch := searchService
	origStats := statsService
	origRegistry := registry

	queries := memory.NewQueryStore()
	observations := memory.NewObservationStore()
	founds := memory.NewFoundStore(queries, observations)
	stats := memory.NewStatsStore()

	registry = sources.NewRegistry(observations)
	searchService = services.NewDispatcher(
		registry, queries, founds, &fakeEngine{},
		&messenger.ConsoleFactory{Out: io.Discard})
	statsService = services.NewStatsAggregator(registry, observations, stats, queries)

	return func() {
		searchService = origSearch
		statsService = origStats
		registry = origRegistry
	}
}
