package domain

// Observation is one survey exposure in the observation archive.
// Rows are ingested out-of-band by the harvesting pipeline; this system
// only reads them.
type Observation struct {
	// ID is the archive-wide identity key.
	ID int64

	// Source is the survey source identifier.
	Source string

	// ProductID is the archive product identifier.
	ProductID string

	// MJDStart and MJDStop bound the exposure, modified Julian date.
	MJDStart float64
	MJDStop  float64

	// RA and Dec are the pointing center, degrees.
	RA  float64
	Dec float64

	// FOVRadius is the radius of the field of view, degrees.
	FOVRadius float64

	// Filter is the photometric filter name.
	Filter string

	// ExposureTime is the exposure length, seconds.
	ExposureTime float64

	// MJDAdded is when the row was ingested into the archive.
	MJDAdded float64
}

// EphemerisPoint is one epoch of a predicted position for a moving target.
type EphemerisPoint struct {
	// MJD is the epoch.
	MJD float64

	// RA and Dec are the predicted position, degrees.
	RA  float64
	Dec float64

	// DRAcosDec and DDec are the sky motion, arcsec/hr.
	DRAcosDec float64
	DDec      float64

	// UncA, UncB and UncTheta describe the uncertainty ellipse:
	// semi-axes in arcsec, position angle in degrees.
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

// Ephemeris is a predicted time series of sky positions for a moving target.
type Ephemeris []EphemerisPoint
