package exec

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned when an options record is malformed,
// always before any process is spawned.
var ErrInvalidArgument = errors.New("invalid argument")

// CommandError reports a child that exited non-zero (or was terminated by
// a timeout) under the ThrowOnNonZero policy.
type CommandError struct {
	// Command is the composed, human-readable command text.
	Command string

	// Dir is the working directory the command ran in.
	Dir string

	// Code is the exit status. -1 when the process was terminated.
	Code int

	// Stderr is the captured standard error, when the mode captured it.
	Stderr string

	// Err is the failure cause when available (e.g. the timeout).
	Err error
}

// Error implements the error interface.
func (e *CommandError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("command %q failed with exit code %d: %v", e.Command, e.Code, e.Err)
	}
	return fmt.Sprintf("command %q failed with exit code %d", e.Command, e.Code)
}

// Unwrap returns the failure cause.
func (e *CommandError) Unwrap() error {
	return e.Err
}

// SpawnError reports that the OS could not start the process at all
// (missing executable, permission denied).
type SpawnError struct {
	// Command is the composed, human-readable command text.
	Command string

	// Err is the error from the spawn primitive.
	Err error
}

// Error implements the error interface.
func (e *SpawnError) Error() string {
	return fmt.Sprintf("command %q could not be started: %v", e.Command, e.Err)
}

// Unwrap returns the underlying spawn error.
func (e *SpawnError) Unwrap() error {
	return e.Err
}
