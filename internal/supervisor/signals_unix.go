//go:build !windows

package supervisor

import (
	"strconv"
	"syscall"

	"golang.org/x/sys/unix"
)

// signalName renders a signal number for logs, e.g. "SIGTERM"
func signalName(sig syscall.Signal) string {
	if name := unix.SignalName(sig); name != "" {
		return name
	}
	return "signal " + strconv.Itoa(int(sig))
}
