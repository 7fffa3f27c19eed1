package driven

import (
	"context"

	"github.com/custodia-labs/skycatch/internal/core/domain"
)

// SpatialEngine is the external spatial search capability. The engine owns
// ephemeris generation and the geometric intersection tests; the core only
// dispatches to it and records what it returns.
type SpatialEngine interface {
	// EphemerisFor returns the target's predicted positions for an
	// observatory over an MJD range. The lookup may be network-bound.
	EphemerisFor(ctx context.Context, target domain.MovingTarget, obscode string, startMJD, stopMJD float64) (domain.Ephemeris, error)

	// FindByEphemeris returns the source's observations intersecting the
	// ephemeris path, considering padding and the uncertainty ellipse.
	FindByEphemeris(ctx context.Context, source string, eph domain.Ephemeris, params domain.SearchParams) ([]domain.Observation, error)

	// FindAreaOrPoint returns observations containing the fixed target
	// (zero padding) or intersecting the padded area around it.
	FindAreaOrPoint(ctx context.Context, target domain.FixedTarget, params domain.SearchParams) ([]domain.Observation, error)
}
