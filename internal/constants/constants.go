// Package constants provides shared configuration values used across the timebox application.
package constants

import (
	"syscall"
	"time"
)

// Program identity
const (
	// ProgramName is the name used in usage and version output when argv[0] is unavailable
	ProgramName = "timebox"

	// UsageFormat is the one-line synopsis printed on malformed invocations.
	// The single verb is the program name.
	UsageFormat = "usage: %s [-signal] time command...\n"
)

// Signal defaults
const (
	// DefaultKillSignal is sent to the process group when the deadline fires
	DefaultKillSignal = syscall.SIGKILL
)

// Exit statuses
const (
	// ExitUsage is returned for malformed invocations; nothing is launched
	ExitUsage = 1

	// ExitLaunchFailure is returned when the command cannot be located or executed
	ExitLaunchFailure = 1

	// ExitUnknown is returned when the worker's own completion was never observed.
	// It is what exit(-1) reports to the parent.
	ExitUnknown = 255

	// SignalExitBase is added to the signal number for signal-terminated workers,
	// matching the shell convention (SIGKILL -> 137, SIGTERM -> 143)
	SignalExitBase = 128
)

// Timing
const (
	// DeadlineUnit is the unit of the time argument
	DeadlineUnit = time.Second

	// DrainTimeout bounds how long swept group members are waited for after
	// the worker is reaped
	DrainTimeout = 500 * time.Millisecond

	// DrainInterval is the polling interval while draining
	DrainInterval = 10 * time.Millisecond
)
