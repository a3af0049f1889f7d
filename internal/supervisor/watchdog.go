package supervisor

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/charliek/timebox/internal/constants"
	"github.com/charliek/timebox/internal/domain"
)

// Watchdog owns the deadline and the reap loop for a single worker
type Watchdog struct {
	worker      Worker
	reaper      Reaper
	deadline    time.Duration
	signal      syscall.Signal
	keepOrphans bool
	logger      *slog.Logger

	state  atomic.Int32
	killed atomic.Bool
}

// NewWatchdog creates a watchdog in the armed state
func NewWatchdog(cfg *domain.RunConfig, worker Worker, reaper Reaper, logger *slog.Logger) *Watchdog {
	w := &Watchdog{
		worker:      worker,
		reaper:      reaper,
		deadline:    cfg.Deadline,
		signal:      cfg.Signal,
		keepOrphans: cfg.KeepOrphans,
		logger:      logger,
	}
	w.state.Store(int32(domain.WatchdogStateArmed))
	return w
}

// State returns the current state
func (w *Watchdog) State() domain.WatchdogState {
	return domain.WatchdogState(w.state.Load())
}

// Killed reports whether the deadline fired
func (w *Watchdog) Killed() bool {
	return w.killed.Load()
}

// Run arms the deadline and blocks until the worker has been reaped or can
// no longer be observed. Cancelling ctx signals the group with the kill
// signal but does not count as the deadline firing.
func (w *Watchdog) Run(ctx context.Context) domain.Verdict {
	// Running must be visible before the timer can fire
	w.state.Store(int32(domain.WatchdogStateRunning))
	timer := time.AfterFunc(w.deadline, w.expire)
	defer timer.Stop()

	stopRelay := w.relay(ctx)
	status := w.wait()
	w.state.Store(int32(domain.WatchdogStateCompleted))
	timer.Stop()
	stopRelay()

	killed := w.killed.Load()
	if killed {
		w.logger.Debug("deadline expired",
			"deadline", w.deadline,
			"signal", signalName(w.signal))
	}
	w.logger.Debug("worker completed", "pid", w.worker.PID(), "status", status.String(), "killed", killed)

	if !w.keepOrphans {
		w.sweep()
		w.drain()
	}
	if err := w.worker.Release(); err != nil {
		w.logger.Debug("releasing worker", "error", err)
	}

	return domain.Verdict{Killed: killed, Status: status}
}

// wait drains child completions until the worker's own shows up
func (w *Watchdog) wait() domain.Status {
	pid := w.worker.PID()
	for {
		got, status, err := w.reaper.Reap()
		switch {
		case errors.Is(err, domain.ErrNoChildren):
			w.logger.Warn("worker exit status was never observed", "pid", pid)
			return domain.Unknown()
		case err != nil:
			w.logger.Warn("waiting for worker failed", "pid", pid, "error", err)
			return domain.Unknown()
		case got == pid:
			return status
		default:
			w.logger.Debug("reaped descendant", "pid", got, "status", status.String())
		}
	}
}

// expire runs on the timer goroutine. It only flips the flag and issues the
// broadcast; the reap loop observes the resulting exits.
func (w *Watchdog) expire() {
	if !w.state.CompareAndSwap(int32(domain.WatchdogStateRunning), int32(domain.WatchdogStateExpired)) {
		return
	}
	w.killed.Store(true)
	_ = w.worker.Signal(w.signal)
	w.state.CompareAndSwap(int32(domain.WatchdogStateExpired), int32(domain.WatchdogStateRunning))
}

// relay forwards interrupts to the worker's group until the returned stop
// function is called
func (w *Watchdog) relay(ctx context.Context) func() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, relayedSignals...)

	done := make(chan struct{})
	exited := make(chan struct{})
	go func() {
		defer close(exited)
		ctxDone := ctx.Done()
		for {
			select {
			case sig := <-sigCh:
				w.forward(sig)
			case <-ctxDone:
				ctxDone = nil
				w.cancel()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigCh)
		close(done)
		<-exited
	}
}

// forward relays a signal received by the watchdog to the worker's group
func (w *Watchdog) forward(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	w.logger.Debug("forwarding signal", "signal", signalName(s), "pid", w.worker.PID())
	if err := w.worker.Signal(s); err != nil {
		w.logger.Warn("forwarding signal failed", "signal", signalName(s), "error", err)
	}
}

// cancel signals the group when the caller abandons the run
func (w *Watchdog) cancel() {
	if w.State().IsTerminal() {
		return
	}
	w.logger.Debug("run cancelled", "signal", signalName(w.signal))
	if err := w.worker.Signal(w.signal); err != nil {
		w.logger.Warn("signalling worker failed", "error", err)
	}
}

// sweep signals group members the worker left behind
func (w *Watchdog) sweep() {
	if !w.worker.Alive() {
		return
	}
	w.logger.Debug("signalling remaining group members", "pgid", w.worker.PID(), "signal", signalName(w.signal))
	if err := w.worker.Signal(w.signal); err != nil {
		w.logger.Warn("signalling remaining group members failed", "error", err)
	}
}

// drain reaps swept members that were reparented to this process so they do
// not linger as zombies under an init that never waits
func (w *Watchdog) drain() {
	d, ok := w.reaper.(Drainer)
	if !ok {
		return
	}
	deadline := time.Now().Add(constants.DrainTimeout)
	for {
		if n := d.Drain(); n > 0 {
			w.logger.Debug("reaped swept descendants", "count", n)
		}
		if !w.worker.Alive() || time.Now().After(deadline) {
			return
		}
		time.Sleep(constants.DrainInterval)
	}
}
