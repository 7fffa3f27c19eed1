// Package spatial implements the search engine over the observation
// archive. The matcher treats each exposure as a circular field of view
// around its pointing center and tests great-circle separation against
// the target's interpolated position; surveys with non-circular footprints
// are covered by their recorded bounding radius.
package spatial

import (
	"context"
	"fmt"
	"math"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
	"github.com/custodia-labs/skycatch/internal/logger"
)

// EphemerisSource provides predicted positions for moving targets.
type EphemerisSource interface {
	Ephemeris(ctx context.Context, target domain.MovingTarget, obscode string, startMJD, stopMJD float64) (domain.Ephemeris, error)
}

// Ensure Engine implements the interface.
var _ driven.SpatialEngine = (*Engine)(nil)

// Engine matches observations against target positions.
type Engine struct {
	eph EphemerisSource
	obs driven.ObservationStore
}

// NewEngine creates a spatial engine over an ephemeris source and the
// observation archive.
func NewEngine(eph EphemerisSource, obs driven.ObservationStore) *Engine {
	return &Engine{eph: eph, obs: obs}
}

// EphemerisFor returns the target's predicted positions for an observatory
// over an MJD range.
func (e *Engine) EphemerisFor(
	ctx context.Context, target domain.MovingTarget, obscode string, startMJD, stopMJD float64,
) (domain.Ephemeris, error) {
	return e.eph.Ephemeris(ctx, target, obscode, startMJD, stopMJD)
}

// FindByEphemeris returns the source's observations crossed by the
// ephemeris path. Each exposure is tested at its midpoint against the
// position interpolated from the bracketing ephemeris epochs.
func (e *Engine) FindByEphemeris(
	ctx context.Context, source string, eph domain.Ephemeris, params domain.SearchParams,
) ([]domain.Observation, error) {
	if len(eph) < 2 {
		return nil, fmt.Errorf("ephemeris has %d epochs, need at least 2", len(eph))
	}

	window, err := e.obs.Window(ctx, source, eph[0].MJD, eph[len(eph)-1].MJD)
	if err != nil {
		return nil, fmt.Errorf("loading observation window: %w", err)
	}
	logger.Debug("spatial: %s: testing %d observations against %d epochs",
		source, len(window), len(eph))

	var matched []domain.Observation //nolint:prealloc // match rate unknown
	for _, obs := range window {
		point, ok := interpolate(eph, (obs.MJDStart+obs.MJDStop)/2)
		if !ok {
			continue
		}

		radius := obs.FOVRadius + params.Padding/60
		if params.UncertaintyEllipse {
			// The 3-sigma semi-major axis bounds the positional error in
			// any direction, arcsec.
			radius += point.UncA / 3600
		}

		if separation(point.RA, point.Dec, obs.RA, obs.Dec) <= radius {
			matched = append(matched, obs)
		}
	}
	return matched, nil
}

// FindAreaOrPoint returns observations containing the fixed target, or
// intersecting the padded area around it per the intersection requirement.
func (e *Engine) FindAreaOrPoint(
	ctx context.Context, target domain.FixedTarget, params domain.SearchParams,
) ([]domain.Observation, error) {
	window, err := e.obs.Window(ctx, "", math.Inf(-1), math.Inf(1))
	if err != nil {
		return nil, fmt.Errorf("loading observation archive: %w", err)
	}

	areaRadius := params.Padding / 60

	intersection := domain.ImageIntersectsArea
	if params.IntersectionType != nil {
		intersection = *params.IntersectionType
	}
	if !intersection.Valid() {
		return nil, fmt.Errorf("invalid intersection type %q", intersection)
	}

	var matched []domain.Observation //nolint:prealloc // match rate unknown
	for _, obs := range window {
		sep := separation(target.RA, target.Dec, obs.RA, obs.Dec)

		var hit bool
		switch {
		case areaRadius == 0:
			hit = sep <= obs.FOVRadius
		case intersection == domain.ImageIntersectsArea:
			hit = sep <= obs.FOVRadius+areaRadius
		case intersection == domain.ImageContainsArea:
			hit = sep+areaRadius <= obs.FOVRadius
		case intersection == domain.AreaContainsImage:
			hit = sep+obs.FOVRadius <= areaRadius
		}

		if hit {
			matched = append(matched, obs)
		}
	}
	return matched, nil
}

// interpolate returns the target position at mjd, linearly interpolated
// between the bracketing ephemeris epochs. ok is false when mjd falls
// outside the ephemeris range.
func interpolate(eph domain.Ephemeris, mjd float64) (domain.EphemerisPoint, bool) {
	if mjd < eph[0].MJD || mjd > eph[len(eph)-1].MJD {
		return domain.EphemerisPoint{}, false
	}

	after := 1
	for after < len(eph)-1 && eph[after].MJD < mjd {
		after++
	}
	a, b := eph[after-1], eph[after]

	span := b.MJD - a.MJD
	if span <= 0 {
		return a, true
	}
	f := (mjd - a.MJD) / span

	point := domain.EphemerisPoint{
		MJD:       mjd,
		RA:        a.RA + f*shortestRAArc(a.RA, b.RA),
		Dec:       a.Dec + f*(b.Dec-a.Dec),
		DRAcosDec: a.DRAcosDec + f*(b.DRAcosDec-a.DRAcosDec),
		DDec:      a.DDec + f*(b.DDec-a.DDec),
		UncA:      a.UncA + f*(b.UncA-a.UncA),
		UncB:      a.UncB + f*(b.UncB-a.UncB),
		UncTheta:  a.UncTheta,
		Rh:        a.Rh + f*(b.Rh-a.Rh),
		Delta:     a.Delta + f*(b.Delta-a.Delta),
		Phase:     a.Phase + f*(b.Phase-a.Phase),
		VMag:      a.VMag + f*(b.VMag-a.VMag),
	}
	if point.RA < 0 {
		point.RA += 360
	} else if point.RA >= 360 {
		point.RA -= 360
	}
	return point, true
}

// shortestRAArc returns the signed shortest arc from ra1 to ra2, degrees.
// Interpolating across the 0/360 wrap must not sweep the long way around.
func shortestRAArc(ra1, ra2 float64) float64 {
	d := math.Mod(ra2-ra1, 360)
	if d > 180 {
		d -= 360
	} else if d < -180 {
		d += 360
	}
	return d
}

// separation returns the great-circle angle between two positions, degrees.
func separation(ra1, dec1, ra2, dec2 float64) float64 {
	const degToRad = math.Pi / 180

	phi1 := dec1 * degToRad
	phi2 := dec2 * degToRad
	dPhi := (dec2 - dec1) * degToRad
	dLambda := (ra2 - ra1) * degToRad

	// Haversine keeps precision for the small angles that matter here.
	a := math.Sin(dPhi/2)*math.Sin(dPhi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dLambda/2)*math.Sin(dLambda/2)
	return 2 * math.Asin(math.Min(1, math.Sqrt(a))) / degToRad
}
