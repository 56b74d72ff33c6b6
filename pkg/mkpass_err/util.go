// pkg/mkpass_err/util.go

package mkpass_err

import (
	"errors"
)

// NewExpectedError wraps an error so the CLI treats it as a user problem
// rather than a bug.
func NewExpectedError(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{cause: err}
}

// IsExpectedUserError checks if the error is marked as expected.
func IsExpectedUserError(err error) bool {
	var e *UserError
	return errors.As(err, &e)
}

// GetExitCode maps an error to the process exit code: 0 for success, 2 for
// expected user errors (including failed generation runs), 1 otherwise.
func GetExitCode(err error) int {
	if err == nil {
		return 0
	}
	if IsExpectedUserError(err) {
		return 2
	}
	return 1
}
