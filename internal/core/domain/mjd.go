package domain

import "time"

// mjdUnixEpoch is the modified Julian date of the Unix epoch (1970-01-01 UTC).
const mjdUnixEpoch = 40587.0

const secondsPerDay = 86400.0

// MJDFromTime converts a time to a modified Julian date.
// Survey archives record observation epochs as MJD.
func MJDFromTime(t time.Time) float64 {
	return mjdUnixEpoch + float64(t.UnixNano())/1e9/secondsPerDay
}

// TimeFromMJD converts a modified Julian date to a UTC time.
func TimeFromMJD(mjd float64) time.Time {
	seconds := (mjd - mjdUnixEpoch) * secondsPerDay
	return time.Unix(0, int64(seconds*1e9)).UTC()
}
