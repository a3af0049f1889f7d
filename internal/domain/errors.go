package domain

import (
	"errors"

	"github.com/charliek/timebox/internal/constants"
)

// Domain errors
var (
	ErrUsage           = errors.New("usage error")
	ErrInvalidDeadline = errors.New("deadline must be a positive integer")
	ErrInvalidSignal   = errors.New("signal must be a positive integer")
	ErrMissingCommand  = errors.New("no command given")
	ErrUnknownOption   = errors.New("unknown option")
	ErrLaunch          = errors.New("launch failed")
	ErrNoChildren      = errors.New("no children to wait for")
	ErrUnsupported     = errors.New("not supported on this platform")
)

// ExitCode returns the process exit status for an error that ended a run
// before a verdict was reached
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		return constants.ExitUsage
	case errors.Is(err, ErrLaunch):
		return constants.ExitLaunchFailure
	default:
		return constants.ExitUnknown
	}
}

// LaunchError reports a command that could not be located or executed.
// It renders like perror(3): "<command>: <system error>".
type LaunchError struct {
	Name string
	Err  error
}

func (e *LaunchError) Error() string {
	return e.Name + ": " + e.Err.Error()
}

// Unwrap exposes both the launch classification and the underlying cause
func (e *LaunchError) Unwrap() []error {
	return []error{ErrLaunch, e.Err}
}
