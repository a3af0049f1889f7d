//go:build windows

package supervisor

import "syscall"

func signalName(sig syscall.Signal) string {
	return sig.String()
}
