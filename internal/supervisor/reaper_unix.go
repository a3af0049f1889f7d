//go:build !windows

package supervisor

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"

	"github.com/charliek/timebox/internal/domain"
)

// waitReaper collects any child of this process with wait4(-1)
type waitReaper struct{}

func newReaper(_ Worker) Reaper {
	return waitReaper{}
}

func (waitReaper) Reap() (int, domain.Status, error) {
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, 0, nil)
		switch {
		case err == nil:
			return pid, domain.StatusFromWait(ws), nil
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.ECHILD):
			return 0, domain.Unknown(), domain.ErrNoChildren
		default:
			return 0, domain.Unknown(), fmt.Errorf("wait4: %w", err)
		}
	}
}

func (waitReaper) Drain() int {
	n := 0
	for {
		var ws unix.WaitStatus
		pid, err := unix.Wait4(-1, &ws, unix.WNOHANG, nil)
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if err != nil || pid <= 0 {
			return n
		}
		n++
	}
}
