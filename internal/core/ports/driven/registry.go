package driven

import "context"

// SurveySource is the per-survey capability interface. Each source is an
// independent observation archive with its own coverage and observatory
// code; the dispatcher stays generic over this interface.
type SurveySource interface {
	// ID returns the source identifier used in queries and storage.
	ID() string

	// DisplayName returns the human-readable survey name.
	DisplayName() string

	// Obscode returns the MPC observatory code used for ephemerides.
	Obscode() string

	// CoverageRange returns the source's true min/max observation epoch,
	// MJD. ok is false when the source has no observations.
	CoverageRange(ctx context.Context) (startMJD, stopMJD float64, ok bool, err error)
}

// SourceRegistry holds the known survey sources.
type SourceRegistry interface {
	// Get returns the source with the given identifier.
	Get(id string) (SurveySource, bool)

	// All returns every known source ordered by identifier.
	All() []SurveySource

	// Resolve maps identifiers to sources. An empty input resolves to
	// all known sources. Any unknown identifier fails the whole call
	// with domain.ErrUnknownSource.
	Resolve(ids []string) ([]SurveySource, error)
}
