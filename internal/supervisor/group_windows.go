//go:build windows

package supervisor

import (
	"fmt"
	"os/exec"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/charliek/timebox/internal/constants"
	"github.com/charliek/timebox/internal/domain"
)

// Windows has no process groups that can be signalled as one. The worker is
// placed in a Job Object instead and the job is terminated as a unit.
// Children spawned between CreateProcess and AssignProcessToJobObject
// escape the job.
func configureWorker(cmd *exec.Cmd, _ *domain.RunConfig) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}

type execWorker struct {
	cmd *exec.Cmd
	pid int
	job windows.Handle
}

func newExecWorker(cmd *exec.Cmd, cfg *domain.RunConfig) (*execWorker, error) {
	job, err := windows.CreateJobObject(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create job object: %w", err)
	}

	if !cfg.KeepOrphans {
		info := windows.JOBOBJECT_EXTENDED_LIMIT_INFORMATION{
			BasicLimitInformation: windows.JOBOBJECT_BASIC_LIMIT_INFORMATION{
				LimitFlags: windows.JOB_OBJECT_LIMIT_KILL_ON_JOB_CLOSE,
			},
		}
		if _, err := windows.SetInformationJobObject(
			job,
			windows.JobObjectExtendedLimitInformation,
			uintptr(unsafe.Pointer(&info)),
			uint32(unsafe.Sizeof(info)),
		); err != nil {
			_ = windows.CloseHandle(job)
			return nil, fmt.Errorf("configure job object: %w", err)
		}
	}

	pid := cmd.Process.Pid
	proc, err := windows.OpenProcess(windows.PROCESS_SET_QUOTA|windows.PROCESS_TERMINATE, false, uint32(pid))
	if err != nil {
		_ = windows.CloseHandle(job)
		return nil, fmt.Errorf("open process %d: %w", pid, err)
	}
	defer windows.CloseHandle(proc)

	if err := windows.AssignProcessToJobObject(job, proc); err != nil {
		_ = windows.CloseHandle(job)
		return nil, fmt.Errorf("assign process %d to job: %w", pid, err)
	}

	return &execWorker{cmd: cmd, pid: pid, job: job}, nil
}

func (w *execWorker) PID() int {
	return w.pid
}

// Signal terminates every process in the job. The exit code carries the
// signal number the way a unix shell would report it.
func (w *execWorker) Signal(sig syscall.Signal) error {
	if err := windows.TerminateJobObject(w.job, uint32(constants.SignalExitBase+int(sig))); err != nil {
		return fmt.Errorf("terminate job: %w", err)
	}
	return nil
}

func (w *execWorker) Alive() bool {
	return true
}

// Release closes the job handle, which kills any remaining members unless
// orphans were explicitly kept
func (w *execWorker) Release() error {
	if err := windows.CloseHandle(w.job); err != nil {
		return fmt.Errorf("close job: %w", err)
	}
	return w.cmd.Process.Release()
}
