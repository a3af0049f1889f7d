//go:build windows

package supervisor

import (
	"fmt"

	"github.com/charliek/timebox/internal/domain"
)

// processReaper waits on the single worker handle; Windows has no
// wait-for-any-child primitive
type processReaper struct {
	worker *execWorker
	done   bool
}

func newReaper(w Worker) Reaper {
	ew, _ := w.(*execWorker)
	return &processReaper{worker: ew}
}

func (r *processReaper) Reap() (int, domain.Status, error) {
	if r.done || r.worker == nil {
		return 0, domain.Unknown(), domain.ErrNoChildren
	}
	r.done = true

	state, err := r.worker.cmd.Process.Wait()
	if err != nil {
		return 0, domain.Unknown(), fmt.Errorf("wait: %w", err)
	}
	return r.worker.pid, domain.Exited(state.ExitCode()), nil
}
