package execkit

import (
	"fmt"

	"github.com/giantswarm/execkit/internal/sentinel"
)

// Sentinel errors for error inspection with errors.Is.
// These are immutable constants safe for use in wrapped error chain comparison.
const (
	// ErrNilShell is returned when an operation is invoked on a nil *Shell.
	ErrNilShell = sentinel.Error("execkit: shell must not be nil")

	// ErrNilContext is returned by Spawn and the Exec helpers when the
	// calling context is nil. The check happens before any work so the
	// mistake surfaces immediately, not on first use of the context.
	ErrNilContext = sentinel.Error("execkit: context must not be nil")

	// ErrEmptyExecutable is returned by Spawn and the Exec helpers when
	// the executable locator is empty.
	ErrEmptyExecutable = sentinel.Error("execkit: executable must not be empty")

	// ErrNotRedirected is returned by stream operations when the matching
	// stream was not redirected at spawn time. Streams are only defined
	// for a Process when the corresponding With*Pipe option was given.
	ErrNotRedirected = sentinel.Error("execkit: stream was not redirected")

	// ErrClosed is returned by stream operations on a stream that has
	// already been closed, either explicitly (CloseStdin) or by releasing
	// the handle.
	ErrClosed = sentinel.Error("execkit: stream is closed")
)

// ExitCodeError reports that a process exited with a code outside the
// configured valid set. It is returned by Close (and by the Exec
// helpers, which release their handles internally).
type ExitCodeError struct {
	// Code is the exit code the process actually returned.
	Code int
	// Command is the display form of the command line, for diagnostics.
	Command string
}

// Error implements the error interface.
func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("execkit: command %s exited with invalid exit code %d", e.Command, e.Code)
}
