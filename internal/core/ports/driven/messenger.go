package driven

import "github.com/google/uuid"

// JobMessenger is the per-job message channel for user-visible progress
// and failure reporting. Implementations decide where messages go (stderr,
// an API event stream, a test recorder); the core only publishes.
type JobMessenger interface {
	// Send publishes an informational message.
	Send(format string, args ...any)

	// Error publishes a failure message.
	Error(format string, args ...any)

	// Debug publishes a diagnostic message.
	Debug(format string, args ...any)
}

// MessengerFactory creates the message channel for one job. A factory is
// passed through the call chain explicitly; there is no process-wide
// registry keyed by job ID.
type MessengerFactory interface {
	ForJob(jobID uuid.UUID) JobMessenger
}
