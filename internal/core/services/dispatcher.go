package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
	"github.com/custodia-labs/skycatch/internal/core/ports/driving"
	"github.com/custodia-labs/skycatch/internal/logger"
)

// Ensure Dispatcher implements the interface.
var _ driving.SearchService = (*Dispatcher)(nil)

// Dispatcher orchestrates one job: it validates the requested sources,
// fans the search out across them with per-source failure isolation, and
// records result lineage. Sources are processed sequentially; their work
// units are independent, so a later source's failure or cache miss never
// touches an earlier source's committed rows.
type Dispatcher struct {
	registry   driven.SourceRegistry
	queries    driven.QueryStore
	founds     driven.FoundStore
	engine     driven.SpatialEngine
	messengers driven.MessengerFactory

	cache  *CacheValidator
	cloner *ResultCloner

	now func() time.Time
}

// NewDispatcher creates a new query dispatcher.
func NewDispatcher(
	registry driven.SourceRegistry,
	queries driven.QueryStore,
	founds driven.FoundStore,
	engine driven.SpatialEngine,
	messengers driven.MessengerFactory,
) *Dispatcher {
	return &Dispatcher{
		registry:   registry,
		queries:    queries,
		founds:     founds,
		engine:     engine,
		messengers: messengers,
		cache:      NewCacheValidator(queries),
		cloner:     NewResultCloner(founds),
		now:        time.Now,
	}
}

// Query searches for a target across the requested sources under one job
// ID. Unknown source names abort the whole call before any rows are
// written. After that point the job always completes: per-source failures
// are isolated to their own query row and reported on the job's message
// channel, and the aggregate result may be zero or partial.
func (d *Dispatcher) Query(
	ctx context.Context, target domain.Target, jobID uuid.UUID, opts driving.QueryOptions,
) (*driving.QueryResult, error) {
	if jobID.Version() != 4 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidJobID, jobID)
	}

	// All-or-nothing on name validity only.
	sources, err := d.registry.Resolve(opts.Sources)
	if err != nil {
		return nil, err
	}

	messenger := d.messengers.ForJob(jobID)
	messenger.Debug("Searching for %s in %d source(s).", target, len(sources))

	if fixed, ok := target.(domain.FixedTarget); ok {
		observations, err := d.queryFixed(ctx, fixed, jobID, sources, opts.Params, messenger)
		if err != nil {
			return nil, err
		}
		return &driving.QueryResult{Count: len(observations), Observations: observations}, nil
	}

	moving, ok := target.(domain.MovingTarget)
	if !ok {
		moving = domain.MovingTarget{Designation: target.String()}
	}

	count := 0
	for _, source := range sources {
		count += d.searchSource(ctx, source, moving, jobID, opts.Cached, opts.Params, messenger)
	}

	return &driving.QueryResult{Count: count}, nil
}

// searchSource runs one source's work unit: cache lookup, query creation,
// then either a cached copy or a fresh classified search. It never returns
// an error; failures end in an errored query row and a message.
func (d *Dispatcher) searchSource(
	ctx context.Context,
	source driven.SurveySource,
	target domain.MovingTarget,
	jobID uuid.UUID,
	cached bool,
	params domain.SearchParams,
	messenger driven.JobMessenger,
) int {
	started := d.now()

	var cachedQuery *domain.Query
	var findErr error
	normalized := params

	// An invalid request is never served from cache: its normalized bounds
	// can collide with a legitimate prior query's cache key. The classified
	// fresh attempt below reports the specific validation failure.
	if params.Validate() == nil {
		cachedQuery, normalized, findErr = d.cache.Find(ctx, target.String(), source, params)
	}
	normalized.IntersectionType = nil // not used for moving targets

	query := &domain.Query{
		JobID:     jobID,
		Target:    target.String(),
		Source:    source.ID(),
		Params:    normalized,
		Status:    domain.QueryInProgress,
		CreatedAt: d.now().UTC(),
	}
	if err := d.queries.Create(ctx, query); err != nil {
		logger.Warn("Job %s: create query for %s: %v", jobID, source.ID(), err)
		messenger.Error("Unexpected error. Contact us with this issue and your job ID (%s).", jobID)
		return 0
	}

	if findErr != nil {
		// The bounds could not be normalized against coverage. Fail the
		// work unit rather than searching fresh: only errored rows may
		// carry non-canonical bounds, and those never match the cache.
		_, status := ClassifySearch(ctx, messenger, jobID, func(context.Context) (int, error) {
			return 0, fmt.Errorf("%w: %v", domain.ErrSearchFailed, findErr)
		})
		d.finish(ctx, query, status, &started)
		return 0
	}

	if cached && cachedQuery != nil {
		n, err := d.cloner.Copy(ctx, query, cachedQuery)
		if err != nil {
			logger.Warn("Job %s: copy cached results for %s: %v", jobID, source.ID(), err)
			messenger.Error("Unexpected error. Contact us with this issue and your job ID (%s).", jobID)
			d.finish(ctx, query, domain.QueryErrored, &started)
			return 0
		}
		messenger.Send("%s: Added %d cached result%s.", source.DisplayName(), n, plural(n))
		// Cache-copied queries keep a nil execution time; that is how
		// lineage distinguishes them from fresh searches.
		d.finish(ctx, query, domain.QueryFinished, nil)
		return n
	}

	n, status := ClassifySearch(ctx, messenger, jobID, func(ctx context.Context) (int, error) {
		return d.freshSearch(ctx, query, source, target, normalized, messenger)
	})
	d.finish(ctx, query, status, &started)
	return n
}

// freshSearch performs the expensive search for one source: clip the date
// window to the source's coverage, fetch the ephemeris, dispatch the
// spatial match, and persist the results.
func (d *Dispatcher) freshSearch(
	ctx context.Context,
	query *domain.Query,
	source driven.SurveySource,
	target domain.MovingTarget,
	params domain.SearchParams,
	messenger driven.JobMessenger,
) (int, error) {
	if err := params.Validate(); err != nil {
		return 0, err
	}

	covStart, covStop, ok, err := source.CoverageRange(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}
	if !ok {
		return 0, fmt.Errorf("%w for %s", domain.ErrNoData, source.DisplayName())
	}

	mjdStart := covStart
	if params.StartDate != nil {
		mjdStart = math.Max(covStart, domain.MJDFromTime(*params.StartDate))
	}
	mjdStop := covStop
	if params.StopDate != nil {
		mjdStop = math.Min(covStop, domain.MJDFromTime(*params.StopDate))
	}
	if mjdStop < mjdStart {
		return 0, fmt.Errorf("%w for %s", domain.ErrNoData, source.DisplayName())
	}

	messenger.Send("%s: Query from %s to %s.",
		source.DisplayName(),
		domain.TimeFromMJD(mjdStart).Format("2006-01-02"),
		domain.TimeFromMJD(mjdStop).Format("2006-01-02"))

	// Pad the ephemeris by a day on each side so interpolation covers
	// exposures at the window edges.
	eph, err := d.engine.EphemerisFor(ctx, target, source.Obscode(), mjdStart-1, mjdStop+1)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEphemeris, err)
	}
	messenger.Debug("%s: Obtained ephemeris with %d epochs.", source.DisplayName(), len(eph))

	observations, err := d.engine.FindByEphemeris(ctx, source.ID(), eph, params)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
	}
	if len(observations) == 0 {
		return 0, nil
	}

	founds := foundsFromMatches(query.ID, observations, eph)
	if _, err := d.founds.Add(ctx, founds); err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrSaveFailed, err)
	}

	return len(founds), nil
}

// queryFixed runs a fixed-target search as a single query spanning the
// joined source set. A live point or area lookup is always fresh, so
// caching does not apply.
func (d *Dispatcher) queryFixed(
	ctx context.Context,
	target domain.FixedTarget,
	jobID uuid.UUID,
	sources []driven.SurveySource,
	params domain.SearchParams,
	messenger driven.JobMessenger,
) ([]domain.Observation, error) {
	started := d.now()

	ids := make([]string, len(sources))
	requested := make(map[string]bool, len(sources))
	for i, source := range sources {
		ids[i] = source.ID()
		requested[source.ID()] = true
	}

	params.UncertaintyEllipse = false
	if params.Padding > 0 {
		if params.IntersectionType == nil {
			intersection := domain.ImageIntersectsArea
			params.IntersectionType = &intersection
		}
	} else {
		params.IntersectionType = nil
	}

	query := &domain.Query{
		JobID:     jobID,
		Target:    target.String(),
		Source:    strings.Join(ids, ","),
		Params:    params,
		Status:    domain.QueryInProgress,
		CreatedAt: d.now().UTC(),
	}
	if err := d.queries.Create(ctx, query); err != nil {
		return nil, fmt.Errorf("create query: %w", err)
	}

	var matched []domain.Observation
	_, status := ClassifySearch(ctx, messenger, jobID, func(ctx context.Context) (int, error) {
		if err := params.Validate(); err != nil {
			return 0, err
		}
		messenger.Send("Query %s.", strings.Join(ids, ", "))

		observations, err := d.engine.FindAreaOrPoint(ctx, target, params)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", domain.ErrSearchFailed, err)
		}

		// Limit results to the requested sources.
		for _, obs := range observations {
			if requested[obs.Source] {
				matched = append(matched, obs)
			}
		}
		return len(matched), nil
	})
	d.finish(ctx, query, status, &started)

	if status == domain.QueryFinished {
		messenger.Send("Caught %d observation%s.", len(matched), plural(len(matched)))
	}
	return matched, nil
}

// IsQueryCached reports whether every requested source holds a usable
// cached result for the target and parameters. Fixed targets are never
// cached.
func (d *Dispatcher) IsQueryCached(
	ctx context.Context, target domain.Target, sources []string, params domain.SearchParams,
) (bool, error) {
	if _, fixed := target.(domain.FixedTarget); fixed {
		return false, nil
	}

	// Query would reject these params rather than serve them from cache.
	if err := params.Validate(); err != nil {
		return false, err
	}

	resolved, err := d.registry.Resolve(sources)
	if err != nil {
		return false, err
	}

	for _, source := range resolved {
		prior, _, err := d.cache.Find(ctx, target.String(), source, params)
		if err != nil {
			return false, err
		}
		if prior == nil {
			return false, nil
		}
	}
	return true, nil
}

// Caught returns all results recorded under a job, joined to their
// matched observations.
func (d *Dispatcher) Caught(ctx context.Context, jobID uuid.UUID) ([]domain.CaughtObservation, error) {
	if jobID.Version() != 4 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidJobID, jobID)
	}
	return d.founds.CaughtByJob(ctx, jobID)
}

// finish records the terminal status and, for fresh searches, the elapsed
// wall-clock time. started is nil for cache-copied queries.
func (d *Dispatcher) finish(ctx context.Context, query *domain.Query, status domain.QueryStatus, started *time.Time) {
	var executionTime *float64
	if started != nil {
		elapsed := d.now().Sub(*started).Seconds()
		executionTime = &elapsed
	}
	if err := d.queries.Finish(ctx, query.ID, status, executionTime); err != nil {
		logger.Warn("Job %s: finish query %d: %v", query.JobID, query.ID, err)
	}
}

// foundsFromMatches builds found rows from matched observations, carrying
// the ephemeris attributes interpolated at each observation's midpoint.
func foundsFromMatches(queryID int64, observations []domain.Observation, eph domain.Ephemeris) []domain.Found {
	founds := make([]domain.Found, len(observations))
	for i, obs := range observations {
		point := nearestEpoch(eph, (obs.MJDStart+obs.MJDStop)/2)
		founds[i] = domain.Found{
			QueryID:       queryID,
			ObservationID: obs.ID,
			MJD:           point.MJD,
			RA:            point.RA,
			Dec:           point.Dec,
			DRAcosDec:     point.DRAcosDec,
			DDec:          point.DDec,
			UncA:          point.UncA,
			UncB:          point.UncB,
			UncTheta:      point.UncTheta,
			Rh:            point.Rh,
			Delta:         point.Delta,
			Phase:         point.Phase,
			VMag:          point.VMag,
		}
	}
	return founds
}

// nearestEpoch returns the ephemeris point closest in time to mjd.
// Ephemerides arrive time-ordered but this does not rely on it.
func nearestEpoch(eph domain.Ephemeris, mjd float64) domain.EphemerisPoint {
	if len(eph) == 0 {
		return domain.EphemerisPoint{MJD: mjd}
	}
	best := eph[0]
	for _, point := range eph[1:] {
		if math.Abs(point.MJD-mjd) < math.Abs(best.MJD-mjd) {
			best = point
		}
	}
	return best
}

// plural returns "s" unless n is 1.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
