package cmd

import "errors"

// Process exit codes. CI pipelines depend on these: 0 means the audit ran
// and found no errors, 1 means the audit ran and found errors, 2 means the
// invocation itself was invalid and no report was produced.
const (
	ExitOK               = 0
	ExitValidationFailed = 1
	ExitInvocation       = 2
)

// exitCodeError carries a process exit code out of a cobra RunE. quiet
// suppresses the final stderr line for cases where the report already told
// the full story.
type exitCodeError struct {
	code  int
	err   error
	quiet bool
}

func (e *exitCodeError) Error() string {
	return e.err.Error()
}

func (e *exitCodeError) Unwrap() error {
	return e.err
}

// invocationError wraps a bad invocation (missing file, unknown type, ...)
// into an exit-2 error.
func invocationError(err error) error {
	return &exitCodeError{code: ExitInvocation, err: err}
}

// validationFailed signals exit code 1 after a complete report was printed.
func validationFailed() error {
	return &exitCodeError{code: ExitValidationFailed, err: errors.New("validation errors found"), quiet: true}
}
