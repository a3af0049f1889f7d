//go:build !windows

package supervisor

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"

	"github.com/charliek/timebox/internal/domain"
)

// readPID reads a pid written by a test script
func readPID(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	require.NoError(t, err)
	return pid
}

// requireGone waits until pid no longer exists, reaping it if it was
// reparented to this process
func requireGone(t *testing.T, pid int) {
	t.Helper()
	require.Eventually(t, func() bool {
		var ws unix.WaitStatus
		_, _ = unix.Wait4(pid, &ws, unix.WNOHANG, nil)
		return errors.Is(unix.Kill(pid, 0), unix.ESRCH)
	}, 5*time.Second, 20*time.Millisecond, "process %d survived", pid)
}

func runSupervisor(t *testing.T, cfg *domain.RunConfig) (domain.Verdict, time.Duration) {
	t.Helper()
	start := time.Now()
	verdict, err := New(cfg, nil, testLogger()).Run(context.Background())
	require.NoError(t, err)
	return verdict, time.Since(start)
}

func TestSupervisor_FinishesInTime(t *testing.T) {
	verdict, _ := runSupervisor(t, testConfig(5*time.Second, "true"))
	assert.False(t, verdict.Killed)
	assert.Equal(t, domain.Exited(0), verdict.Status)
	assert.Equal(t, "killed 0", verdict.Report())
	assert.Equal(t, 0, verdict.ExitCode())
}

func TestSupervisor_PropagatesExitCode(t *testing.T) {
	verdict, _ := runSupervisor(t, testConfig(5*time.Second, "sh", "-c", "exit 3"))
	assert.False(t, verdict.Killed)
	assert.Equal(t, 3, verdict.ExitCode())

	verdict, _ = runSupervisor(t, testConfig(5*time.Second, "false"))
	assert.Equal(t, 1, verdict.ExitCode())
}

func TestSupervisor_DeadlineKills(t *testing.T) {
	verdict, elapsed := runSupervisor(t, testConfig(time.Second, "sleep", "10"))

	assert.True(t, verdict.Killed)
	assert.Equal(t, domain.Signaled(syscall.SIGKILL), verdict.Status)
	assert.Equal(t, 137, verdict.ExitCode())
	assert.Equal(t, "killed 1", verdict.Report())
	assert.GreaterOrEqual(t, elapsed, time.Second)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestSupervisor_SignalOverride(t *testing.T) {
	cfg := testConfig(time.Second, "sleep", "10")
	cfg.Signal = syscall.SIGTERM

	verdict, _ := runSupervisor(t, cfg)

	assert.True(t, verdict.Killed)
	assert.Equal(t, domain.Signaled(syscall.SIGTERM), verdict.Status)
	assert.Equal(t, 143, verdict.ExitCode())
}

func TestSupervisor_KillsDescendantsOnDeadline(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	script := "sleep 100 & echo $! > '" + pidFile + "'; wait"

	verdict, _ := runSupervisor(t, testConfig(time.Second, "sh", "-c", script))

	assert.True(t, verdict.Killed)
	assert.Equal(t, domain.Signaled(syscall.SIGKILL), verdict.Status)
	requireGone(t, readPID(t, pidFile))
}

func TestSupervisor_SweepsOrphansAfterWorkerExits(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	script := "sleep 100 & echo $! > '" + pidFile + "'"

	verdict, elapsed := runSupervisor(t, testConfig(5*time.Second, "sh", "-c", script))

	assert.False(t, verdict.Killed, "the worker itself finished in time")
	assert.Equal(t, 0, verdict.ExitCode())
	assert.Less(t, elapsed, 5*time.Second)
	requireGone(t, readPID(t, pidFile))
}

func TestSupervisor_KeepOrphans(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "child.pid")
	script := "sleep 100 & echo $! > '" + pidFile + "'"

	cfg := testConfig(5*time.Second, "sh", "-c", script)
	cfg.KeepOrphans = true
	verdict, _ := runSupervisor(t, cfg)
	assert.False(t, verdict.Killed)

	pid := readPID(t, pidFile)
	assert.NoError(t, unix.Kill(pid, 0), "orphan should still be running")

	require.NoError(t, unix.Kill(pid, syscall.SIGKILL))
	requireGone(t, pid)
}

func TestSupervisor_LaunchFailure(t *testing.T) {
	verdict, err := New(testConfig(5*time.Second, "timebox-no-such-command"), nil, testLogger()).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLaunch)
	assert.Equal(t, domain.Verdict{}, verdict)
}
