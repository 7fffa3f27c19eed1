// Package sources holds the registry of known survey sources. Each source
// is a small capability value (identifier, display name, observatory code,
// coverage) rather than a type hierarchy; the dispatcher stays generic
// over the SurveySource interface.
package sources

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/skycatch/internal/core/domain"
	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
)

// descriptor is the static part of a survey source.
type descriptor struct {
	id      string
	name    string
	obscode string
}

// catalog lists the survey archives this deployment knows about.
// Identifiers double as the observation archive's source keys.
var catalog = []descriptor{
	{"atlas_haleakela", "ATLAS Hawaii, Haleakela", "T05"},
	{"atlas_mauna_loa", "ATLAS Hawaii, Mauna Loa", "T08"},
	{"atlas_rio_hurtado", "ATLAS Chile, Rio Hurtado", "W68"},
	{"atlas_sutherland", "ATLAS South Africa, Sutherland", "M22"},
	{"catalina_bigelow", "Catalina Sky Survey, Mt. Bigelow", "703"},
	{"catalina_bokneosurvey", "Bok NEO Survey, Kitt Peak", "V00"},
	{"catalina_lemmon", "Catalina Sky Survey, Mt. Lemmon", "G96"},
	{"loneos", "LONEOS", "699"},
	{"neat_maui_geodss", "NEAT Maui GEODSS", "566"},
	{"neat_palomar_tricam", "NEAT Palomar Tricam", "644"},
	{"ps1dr2", "PanSTARRS 1 DR2", "F51"},
	{"skymapper", "SkyMapper", "413"},
	{"spacewatch", "Spacewatch", "691"},
}

// Survey is one registered survey source. Coverage is read from the
// observation archive on demand, never cached in process.
type Survey struct {
	descriptor
	obs driven.ObservationStore
}

var _ driven.SurveySource = (*Survey)(nil)

// ID returns the source identifier.
func (s *Survey) ID() string { return s.id }

// DisplayName returns the human-readable survey name.
func (s *Survey) DisplayName() string { return s.name }

// Obscode returns the MPC observatory code.
func (s *Survey) Obscode() string { return s.obscode }

// CoverageRange returns the source's true min/max observation epoch, MJD.
func (s *Survey) CoverageRange(ctx context.Context) (float64, float64, bool, error) {
	return s.obs.CoverageRange(ctx, s.id)
}

// Registry is the known-source registry.
type Registry struct {
	byID    map[string]*Survey
	ordered []*Survey
}

var _ driven.SourceRegistry = (*Registry)(nil)

// NewRegistry builds the registry over the full catalog.
func NewRegistry(obs driven.ObservationStore) *Registry {
	r := &Registry{byID: make(map[string]*Survey, len(catalog))}
	for _, d := range catalog {
		survey := &Survey{descriptor: d, obs: obs}
		r.byID[d.id] = survey
		r.ordered = append(r.ordered, survey)
	}
	sort.Slice(r.ordered, func(i, j int) bool { return r.ordered[i].id < r.ordered[j].id })
	return r
}

// Get returns the source with the given identifier.
func (r *Registry) Get(id string) (driven.SurveySource, bool) {
	survey, ok := r.byID[id]
	return survey, ok
}

// All returns every known source ordered by identifier.
func (r *Registry) All() []driven.SurveySource {
	all := make([]driven.SurveySource, len(r.ordered))
	for i, survey := range r.ordered {
		all[i] = survey
	}
	return all
}

// Resolve maps identifiers to sources. An empty input resolves to all
// known sources; any unknown identifier fails the whole call so the
// dispatcher can reject a job before writing anything.
func (r *Registry) Resolve(ids []string) ([]driven.SurveySource, error) {
	if len(ids) == 0 {
		return r.All(), nil
	}

	resolved := make([]driven.SurveySource, 0, len(ids))
	for _, id := range ids {
		survey, ok := r.byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSource, id)
		}
		resolved = append(resolved, survey)
	}
	return resolved, nil
}
