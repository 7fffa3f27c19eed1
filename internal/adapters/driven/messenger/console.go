// Package messenger provides JobMessenger implementations. The console
// messenger is the CLI's message channel; a server deployment would swap
// in one backed by its event stream.
package messenger

import (
	"fmt"
	"io"
	"sync"

	"github.com/google/uuid"

	"github.com/custodia-labs/skycatch/internal/core/ports/driven"
	"github.com/custodia-labs/skycatch/internal/logger"
)

// Ensure Console implements the interfaces.
var (
	_ driven.JobMessenger     = (*Console)(nil)
	_ driven.MessengerFactory = (*ConsoleFactory)(nil)
)

// Console writes job messages to a writer, one line each.
type Console struct {
	mu    sync.Mutex
	out   io.Writer
	jobID uuid.UUID
}

// Send publishes an informational message.
func (c *Console) Send(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, format+"\n", args...)
}

// Error publishes a failure message.
func (c *Console) Error(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.out, "Error: "+format+"\n", args...)
}

// Debug publishes a diagnostic message through the verbose log.
func (c *Console) Debug(format string, args ...any) {
	logger.Debug("Job %s: "+format, append([]any{c.jobID}, args...)...)
}

// ConsoleFactory creates console messengers sharing one writer.
type ConsoleFactory struct {
	Out io.Writer
}

// ForJob returns the message channel for one job.
func (f *ConsoleFactory) ForJob(jobID uuid.UUID) driven.JobMessenger {
	return &Console{out: f.Out, jobID: jobID}
}
