package domain

import (
	"fmt"
	"syscall"

	"github.com/charliek/timebox/internal/constants"
)

// StatusKind tags how a worker terminated
type StatusKind int

const (
	// StatusUnknown means the worker's completion was never observed
	StatusUnknown StatusKind = iota
	// StatusExited means the worker called exit with a code
	StatusExited
	// StatusSignaled means the worker was terminated by a signal
	StatusSignaled
)

// Status is a tagged termination result. The zero value is Unknown.
type Status struct {
	Kind   StatusKind
	Code   int
	Signal syscall.Signal
}

// Exited returns a Status for a normal exit with code
func Exited(code int) Status {
	return Status{Kind: StatusExited, Code: code}
}

// Signaled returns a Status for termination by sig
func Signaled(sig syscall.Signal) Status {
	return Status{Kind: StatusSignaled, Signal: sig}
}

// Unknown returns the Status used when the worker was never reaped
func Unknown() Status {
	return Status{}
}

// waitStatus is the subset of syscall.WaitStatus used to classify a child
type waitStatus interface {
	Exited() bool
	ExitStatus() int
	Signaled() bool
	Signal() syscall.Signal
}

// StatusFromWait classifies a raw wait status
func StatusFromWait(ws waitStatus) Status {
	switch {
	case ws.Signaled():
		return Signaled(ws.Signal())
	case ws.Exited():
		return Exited(ws.ExitStatus())
	default:
		return Unknown()
	}
}

// IsKnown returns true if the worker's completion was observed
func (s Status) IsKnown() bool {
	return s.Kind != StatusUnknown
}

// ExitCode collapses the status into the supervisor's own exit status.
// Signal terminations map to 128+N; an unobserved worker maps to ExitUnknown.
func (s Status) ExitCode() int {
	switch s.Kind {
	case StatusExited:
		return s.Code
	case StatusSignaled:
		return constants.SignalExitBase + int(s.Signal)
	default:
		return constants.ExitUnknown
	}
}

// String returns a short human readable description
func (s Status) String() string {
	switch s.Kind {
	case StatusExited:
		return fmt.Sprintf("exited(%d)", s.Code)
	case StatusSignaled:
		return fmt.Sprintf("signaled(%d)", int(s.Signal))
	default:
		return "unknown"
	}
}

// Verdict is the outcome of one supervised run
type Verdict struct {
	// Killed is true iff the deadline fired before the worker finished
	Killed bool
	// Status is how the worker terminated
	Status Status
}

// Report returns the single diagnostic line printed on completion, without
// the trailing newline
func (v Verdict) Report() string {
	killed := 0
	if v.Killed {
		killed = 1
	}
	return fmt.Sprintf("killed %d", killed)
}

// ExitCode returns the supervisor's exit status for this verdict
func (v Verdict) ExitCode() int {
	return v.Status.ExitCode()
}
