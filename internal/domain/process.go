package domain

import (
	"syscall"
	"time"
)

// WatchdogState represents where the watchdog is in its lifecycle.
// armed -> running -> {expired, completed}; expired rejoins running until the
// worker is reaped, so the only terminal state callers observe is completed.
type WatchdogState int32

const (
	// WatchdogStateArmed is the initial state, before the deadline timer starts
	WatchdogStateArmed WatchdogState = iota
	// WatchdogStateRunning indicates the watchdog is blocked reaping children
	WatchdogStateRunning
	// WatchdogStateExpired indicates the deadline handler is broadcasting the kill signal
	WatchdogStateExpired
	// WatchdogStateCompleted indicates the worker was reaped or can no longer be observed
	WatchdogStateCompleted
)

// String returns the string representation of WatchdogState
func (s WatchdogState) String() string {
	switch s {
	case WatchdogStateArmed:
		return "armed"
	case WatchdogStateRunning:
		return "running"
	case WatchdogStateExpired:
		return "expired"
	case WatchdogStateCompleted:
		return "completed"
	default:
		return "invalid"
	}
}

// IsTerminal returns true once the watchdog will not observe further events
func (s WatchdogState) IsTerminal() bool {
	return s == WatchdogStateCompleted
}

// RunConfig is the fully resolved invocation. It is built once at start-up
// and never mutated afterwards.
type RunConfig struct {
	// Deadline is the wall-clock budget for the worker, in whole seconds
	Deadline time.Duration
	// Signal is broadcast to the worker's process group when the deadline fires
	Signal syscall.Signal
	// Command is the argument vector of the worker, passed through verbatim
	Command []string
	// Verbose enables debug logging on stderr
	Verbose bool
	// KeepOrphans disables signalling group members left behind by the worker
	KeepOrphans bool
}

// Name returns the command being supervised
func (c RunConfig) Name() string {
	if len(c.Command) == 0 {
		return ""
	}
	return c.Command[0]
}
