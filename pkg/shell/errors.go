package shell

import (
	"errors"
	"fmt"
)

// ErrEmptyOutput reports that the command exited successfully but its
// accumulated stdout could not be decoded as text.
var ErrEmptyOutput = errors.New("command produced no decodable output")

// noErrorMessage is reported by ExitError when the failed command wrote
// nothing usable to stderr.
const noErrorMessage = "no error message available"

// ExitError reports a command that ran to completion and exited with a
// non-zero status. Message carries the trimmed stderr content, or
// noErrorMessage when stderr was empty or undecodable.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command exited with code %d: %s", e.Code, e.Message)
}

// ProcessError reports a failure in the process-control layer itself,
// distinct from the invoked command's own exit status. Op names the step
// that faulted (pipe, start, wait, status).
type ProcessError struct {
	Op  string
	Err error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("process %s: %v", e.Op, e.Err)
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
