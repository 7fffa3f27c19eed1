package domain

// Found records that one observation matched one search. Rows are created
// by a fresh successful search or by cloning a cached query's results, and
// are never updated afterwards.
type Found struct {
	// ID is the store-assigned identity key.
	ID int64

	// QueryID is the owning query. Every Found belongs to exactly one Query.
	QueryID int64

	// ObservationID is the matched observation.
	ObservationID int64

	// MJD is the ephemeris epoch interpolated to the observation midpoint.
	MJD float64

	// RA and Dec are the predicted position, degrees.
	RA  float64
	Dec float64

	// DRAcosDec and DDec are the sky motion, arcsec/hr.
	DRAcosDec float64
	DDec      float64

	// UncA, UncB and UncTheta describe the uncertainty ellipse:
	// semi-major and semi-minor axes in arcsec, position angle in degrees.
	UncA     float64
	UncB     float64
	UncTheta float64

	// Rh is the heliocentric distance, au.
	Rh float64

	// Delta is the observer-target distance, au.
	Delta float64

	// Phase is the sun-target-observer angle, degrees.
	Phase float64

	// VMag is the predicted visual magnitude.
	VMag float64
}

// CaughtObservation is a found row joined to the observation it matched.
type CaughtObservation struct {
	Found       Found
	Observation Observation
}

// CloneFor returns a copy of the found row owned by queryID, with the
// identity key cleared so the store assigns a fresh one. The clone shares
// nothing with the original: deleting the original query and its rows
// must not affect the copy.
func (f Found) CloneFor(queryID int64) Found {
	clone := f
	clone.ID = 0
	clone.QueryID = queryID
	return clone
}
