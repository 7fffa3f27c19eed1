package logger

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDebugSuppressedByDefault(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	defer SetOutput(os.Stderr)

	Debug("hidden %d", 1)
	Info("also hidden")
	assert.Empty(t, buf.String())
}

func TestVerboseEnablesDebugAndInfo(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)
	defer func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	}()

	Debug("value=%d", 7)
	Info("started")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] value=7")
	assert.Contains(t, out, "[INFO] started")
	assert.True(t, IsVerbose())
}

func TestWarnAlwaysPrints(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)
	defer SetOutput(os.Stderr)

	Warn("job %s failed", "abc")
	assert.Contains(t, buf.String(), "[WARN] job abc failed")
}
