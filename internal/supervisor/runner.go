// Package supervisor runs a single command under a wall-clock deadline and
// guarantees that the command and everything it spawns is signalled when
// the deadline fires.
//
// # Process model
//
// The worker is started in a fresh session, so it leads a new process group
// and every descendant inherits that group unless it detaches itself. The
// watchdog (this process) stays outside the group, which lets it broadcast
// the kill signal with one call and still live to report the verdict. On
// Linux the watchdog also registers as a child subreaper so orphaned
// descendants are reparented to it and reaped by the same wait loop.
package supervisor

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"syscall"

	"github.com/charliek/timebox/internal/domain"
)

// Launcher starts the worker
type Launcher interface {
	Start(cfg *domain.RunConfig) (Worker, Reaper, error)
}

// Worker is a started command that leads its own process group
type Worker interface {
	PID() int
	// Signal sends sig to the worker's whole process group. A group that no
	// longer exists is not an error.
	Signal(sig syscall.Signal) error
	// Alive reports whether any member of the group may still be running
	Alive() bool
	// Release frees resources held for the worker. It does not signal it.
	Release() error
}

// Reaper yields child completions
type Reaper interface {
	// Reap blocks until a child exits and returns its pid and status.
	// It returns domain.ErrNoChildren once nothing is left to wait for.
	Reap() (int, domain.Status, error)
}

// Drainer is implemented by reapers that can collect already exited
// children without blocking
type Drainer interface {
	// Drain reaps every child that has exited and returns how many it reaped
	Drain() int
}

// ExecLauncher implements Launcher using os/exec
type ExecLauncher struct {
	// Standard streams handed to the worker. They must be real files so the
	// child inherits the descriptors directly with no copying goroutines.
	Stdin  *os.File
	Stdout *os.File
	Stderr *os.File

	logger *slog.Logger
}

// NewExecLauncher creates a launcher that passes this process's standard
// streams through to the worker
func NewExecLauncher(logger *slog.Logger) *ExecLauncher {
	return &ExecLauncher{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Start resolves the command through PATH and starts it in a new session
func (l *ExecLauncher) Start(cfg *domain.RunConfig) (Worker, Reaper, error) {
	if len(cfg.Command) == 0 {
		return nil, nil, domain.ErrMissingCommand
	}

	cmd := exec.Command(cfg.Command[0], cfg.Command[1:]...)
	// execvp semantics: a PATH entry of "." is honoured
	if errors.Is(cmd.Err, exec.ErrDot) {
		cmd.Err = nil
	}

	// Environment and descriptors are inherited unchanged. A nil stream
	// stays an untyped nil so os/exec substitutes the null device.
	if l.Stdin != nil {
		cmd.Stdin = l.Stdin
	}
	if l.Stdout != nil {
		cmd.Stdout = l.Stdout
	}
	if l.Stderr != nil {
		cmd.Stderr = l.Stderr
	}

	configureWorker(cmd, cfg)

	if err := cmd.Start(); err != nil {
		return nil, nil, launchError(cfg.Name(), err)
	}

	worker, err := newExecWorker(cmd, cfg)
	if err != nil {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
		return nil, nil, launchError(cfg.Name(), err)
	}

	l.logger.Debug("started worker",
		"command", cfg.Name(),
		"pid", worker.PID(),
		"deadline", cfg.Deadline,
		"signal", signalName(cfg.Signal))

	return worker, newReaper(worker), nil
}

// launchError strips the os/exec wrapping so the message reads like
// perror(argv[0])
func launchError(name string, err error) error {
	cause := err
	var execErr *exec.Error
	var pathErr *fs.PathError
	switch {
	case errors.As(err, &execErr):
		cause = execErr.Err
	case errors.As(err, &pathErr):
		cause = pathErr.Err
	}
	return &domain.LaunchError{Name: name, Err: cause}
}
