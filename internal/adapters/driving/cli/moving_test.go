package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingCmd_Use(t *testing.T) {
	assert.Equal(t, "moving [designation]", movingCmd.Use)
}

func TestMovingCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"moving"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestMovingCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"moving", "65P", "--source", "loneos"})
	defer func() {
		rootCmd.SetArgs(nil)
		movingSources = nil
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Job ")
	assert.Contains(t, buf.String(), "Caught 0 observations")
}

func TestMovingCmd_UnknownSource(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"moving", "65P", "--source", "not_a_survey"})
	defer func() {
		rootCmd.SetArgs(nil)
		movingSources = nil
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_a_survey")
}

func TestResolveJobID(t *testing.T) {
	id, err := resolveJobID("")
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(4), id.Version())

	want := uuid.New()
	id, err = resolveJobID(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, id)

	_, err = resolveJobID("not-a-uuid")
	assert.Error(t, err)

	// Well-formed but not version 4.
	_, err = resolveJobID("00000000-0000-1000-8000-000000000000")
	assert.Error(t, err)
}

func TestParseDateFlag(t *testing.T) {
	got, err := parseDateFlag("")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = parseDateFlag("2019-03-01")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2019, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = parseDateFlag("2019-03-01T12:30:00Z")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Hour())

	_, err = parseDateFlag("March 1st")
	assert.Error(t, err)
}

func TestPluralSuffix(t *testing.T) {
	assert.Equal(t, "s", plural(0))
	assert.Equal(t, "", plural(1))
	assert.Equal(t, "s", plural(2))
}
