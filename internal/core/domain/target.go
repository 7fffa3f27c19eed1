package domain

import "fmt"

// Target is a search target: either a moving object designation or a
// fixed sky position. String returns the canonical query text recorded
// with each Query row, so equal targets always serialize identically.
type Target interface {
	String() string
}

// MovingTarget is a solar system object identified by designation,
// searched along its predicted ephemeris.
type MovingTarget struct {
	// Designation is the object identifier, e.g. "65P" or "2019 XS".
	Designation string
}

// String returns the target designation.
func (t MovingTarget) String() string {
	return t.Designation
}

// FixedTarget is a fixed sky position searched as a point or small area.
type FixedTarget struct {
	// RA is the right ascension in degrees.
	RA float64

	// Dec is the declination in degrees.
	Dec float64
}

// String returns the serialized position, e.g. "fixed(123.50000 -12.34000)".
func (t FixedTarget) String() string {
	return fmt.Sprintf("fixed(%.5f %+.5f)", t.RA, t.Dec)
}

// IntersectionType describes the areal intersection requirement between an
// observation's field of view and the requested search area.
type IntersectionType string

// Intersection requirements for areal fixed-target searches.
const (
	ImageIntersectsArea IntersectionType = "ImageIntersectsArea"
	ImageContainsArea   IntersectionType = "ImageContainsArea"
	AreaContainsImage   IntersectionType = "AreaContainsImage"
)

// Valid reports whether t is a known intersection type.
func (t IntersectionType) Valid() bool {
	switch t {
	case ImageIntersectsArea, ImageContainsArea, AreaContainsImage:
		return true
	}
	return false
}
