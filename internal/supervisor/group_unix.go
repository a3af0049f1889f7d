//go:build !windows

package supervisor

import (
	"errors"
	"fmt"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/charliek/timebox/internal/domain"
)

// configureWorker starts the command as the leader of a new session, and
// therefore of a new process group whose id equals its pid
func configureWorker(cmd *exec.Cmd, _ *domain.RunConfig) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}

// execWorker wraps a started exec.Cmd. It is never Wait()ed: completions
// are collected by the reaper so that other descendants can be drained too.
type execWorker struct {
	cmd  *exec.Cmd
	pid  int
	pgid int
}

func newExecWorker(cmd *exec.Cmd, _ *domain.RunConfig) (*execWorker, error) {
	pid := cmd.Process.Pid
	return &execWorker{cmd: cmd, pid: pid, pgid: pid}, nil
}

func (w *execWorker) PID() int {
	return w.pid
}

func (w *execWorker) Signal(sig syscall.Signal) error {
	err := unix.Kill(-w.pgid, sig)
	if err == nil || errors.Is(err, unix.ESRCH) {
		return nil
	}
	return fmt.Errorf("signal process group %d: %w", w.pgid, err)
}

func (w *execWorker) Alive() bool {
	// EPERM still means a member exists
	err := unix.Kill(-w.pgid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

func (w *execWorker) Release() error {
	return w.cmd.Process.Release()
}
