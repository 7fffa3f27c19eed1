package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedCmd_Use(t *testing.T) {
	assert.Equal(t, "fixed [ra] [dec]", fixedCmd.Use)
}

func TestFixedCmd_Executes(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"fixed", "123.5", "-12.34"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Job ")
	assert.Contains(t, buf.String(), "No observations found.")
}

func TestFixedCmd_RejectsBadCoordinates(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	for _, args := range [][]string{
		{"fixed", "north", "-12.34"},
		{"fixed", "123.5", "down"},
		{"fixed", "400", "-12.34"},
		{"fixed", "123.5", "95"},
	} {
		buf := new(bytes.Buffer)
		rootCmd.SetOut(buf)
		rootCmd.SetErr(buf)
		rootCmd.SetArgs(args)

		err := rootCmd.Execute()
		assert.Error(t, err, "args %v", args)
	}
	rootCmd.SetArgs(nil)
}

func TestFixedCmd_RejectsBadIntersection(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"fixed", "123.5", "-12.34", "--padding", "5", "--intersection", "Sideways"})
	defer func() {
		rootCmd.SetArgs(nil)
		fixedPadding = 0
		fixedIntersection = ""
	}()

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Sideways")
}
