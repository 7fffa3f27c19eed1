package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMJDRoundTrip(t *testing.T) {
	epoch := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 40587.0, MJDFromTime(epoch))
	assert.Equal(t, epoch, TimeFromMJD(40587))

	noon := time.Date(2018, 8, 23, 12, 0, 0, 0, time.UTC)
	assert.InDelta(t, 58353.5, MJDFromTime(noon), 1e-9)
	assert.WithinDuration(t, noon, TimeFromMJD(58353.5), time.Microsecond)
}

func TestTargetString(t *testing.T) {
	assert.Equal(t, "65P", MovingTarget{Designation: "65P"}.String())
	assert.Equal(t, "C/2019 Y4", MovingTarget{Designation: "C/2019 Y4"}.String())

	// The serialization is the cache key for fixed positions, so the
	// format is fixed-width and sign-explicit.
	assert.Equal(t, "fixed(123.50000 -12.34000)", FixedTarget{RA: 123.5, Dec: -12.34}.String())
	assert.Equal(t, "fixed(0.00000 +0.00000)", FixedTarget{}.String())
}

func TestIntersectionTypeValid(t *testing.T) {
	assert.True(t, ImageIntersectsArea.Valid())
	assert.True(t, ImageContainsArea.Valid())
	assert.True(t, AreaContainsImage.Valid())
	assert.False(t, IntersectionType("").Valid())
	assert.False(t, IntersectionType("Overlaps").Valid())
}

func TestQueryStatusTerminal(t *testing.T) {
	assert.False(t, QueryInProgress.Terminal())
	assert.True(t, QueryFinished.Terminal())
	assert.True(t, QueryErrored.Terminal())
}

func TestSearchParamsNormalize(t *testing.T) {
	covStart, covStop := 58350.0, 58360.0

	before := TimeFromMJD(58340)
	inside := TimeFromMJD(58355)
	after := TimeFromMJD(58370)

	// Bounds at or beyond coverage collapse to nil.
	p := SearchParams{StartDate: &before, StopDate: &after}
	n := p.Normalize(covStart, covStop, true)
	assert.Nil(t, n.StartDate)
	assert.Nil(t, n.StopDate)

	// Bounds inside coverage survive, as UTC.
	p = SearchParams{StartDate: &inside, StopDate: &inside}
	n = p.Normalize(covStart, covStop, true)
	require.NotNil(t, n.StartDate)
	require.NotNil(t, n.StopDate)
	assert.Equal(t, time.UTC, n.StartDate.Location())

	// Exactly at the coverage edge is the same as unbounded.
	edgeStart := TimeFromMJD(covStart)
	edgeStop := TimeFromMJD(covStop)
	p = SearchParams{StartDate: &edgeStart, StopDate: &edgeStop}
	n = p.Normalize(covStart, covStop, true)
	assert.Nil(t, n.StartDate)
	assert.Nil(t, n.StopDate)
}

func TestSearchParamsNormalizeNoCoverage(t *testing.T) {
	inside := TimeFromMJD(58355)
	p := SearchParams{StartDate: &inside, StopDate: &inside}
	n := p.Normalize(0, 0, false)
	assert.Nil(t, n.StartDate)
	assert.Nil(t, n.StopDate)
}

func TestSearchParamsNormalizeDoesNotMutate(t *testing.T) {
	inside := TimeFromMJD(58340)
	p := SearchParams{StartDate: &inside}
	_ = p.Normalize(58350, 58360, true)
	assert.NotNil(t, p.StartDate, "normalization returns a copy")
}

func TestSearchParamsValidate(t *testing.T) {
	start := TimeFromMJD(58355)
	stop := TimeFromMJD(58356)

	assert.NoError(t, SearchParams{}.Validate())
	assert.NoError(t, SearchParams{StartDate: &start, StopDate: &stop}.Validate())
	assert.NoError(t, SearchParams{StartDate: &start, StopDate: &start}.Validate())
	assert.ErrorIs(t, SearchParams{StartDate: &stop, StopDate: &start}.Validate(), ErrDateRange)

	assert.NoError(t, SearchParams{Padding: 5}.Validate())
	assert.ErrorIs(t, SearchParams{Padding: -0.1}.Validate(), ErrPadding)
}

func TestFoundCloneFor(t *testing.T) {
	original := Found{
		ID:            42,
		QueryID:       7,
		ObservationID: 99,
		MJD:           58353.5,
		RA:            120.5,
		Dec:           -15.2,
		VMag:          17.8,
	}

	clone := original.CloneFor(11)
	assert.Zero(t, clone.ID)
	assert.Equal(t, int64(11), clone.QueryID)
	assert.Equal(t, original.ObservationID, clone.ObservationID)
	assert.Equal(t, original.MJD, clone.MJD)
	assert.Equal(t, original.VMag, clone.VMag)

	// The original is untouched.
	assert.Equal(t, int64(42), original.ID)
	assert.Equal(t, int64(7), original.QueryID)
}

func TestIsSearchError(t *testing.T) {
	assert.True(t, IsSearchError(ErrDateRange))
	assert.True(t, IsSearchError(ErrPadding))
	assert.True(t, IsSearchError(ErrEphemeris))
	assert.True(t, IsSearchError(ErrSearchFailed))
	assert.True(t, IsSearchError(ErrSaveFailed))
	assert.True(t, IsSearchError(fmt.Errorf("%w: horizons timeout", ErrEphemeris)))

	assert.False(t, IsSearchError(ErrNoData))
	assert.False(t, IsSearchError(ErrNotFound))
	assert.False(t, IsSearchError(errors.New("disk corrupted")))
	assert.False(t, IsSearchError(nil))
}
