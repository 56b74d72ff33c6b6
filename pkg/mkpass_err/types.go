// pkg/mkpass_err/types.go

package mkpass_err

// UserError marks an error as expected and recoverable by the user: bad
// flags, malformed character-class specs, a generation run flagged failed.
type UserError struct {
	cause error
}

func (e *UserError) Error() string {
	return e.cause.Error()
}

func (e *UserError) Unwrap() error {
	return e.cause
}
