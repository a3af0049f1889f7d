package supervisor

import (
	"os"
	"syscall"
)

// relayedSignals are forwarded from the watchdog to the worker's group.
// The worker runs in its own session and would otherwise never see a
// terminal interrupt aimed at the supervisor.
var relayedSignals = []os.Signal{
	os.Interrupt,
	syscall.SIGTERM,
	syscall.SIGHUP,
}
