package supervisor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/charliek/timebox/internal/domain"
)

// Supervisor runs one command under a deadline
type Supervisor struct {
	cfg      *domain.RunConfig
	launcher Launcher
	logger   *slog.Logger
}

// New creates a supervisor for cfg. A nil launcher uses ExecLauncher.
func New(cfg *domain.RunConfig, launcher Launcher, logger *slog.Logger) *Supervisor {
	if logger == nil {
		logger = slog.Default()
	}
	if launcher == nil {
		launcher = NewExecLauncher(logger)
	}
	return &Supervisor{
		cfg:      cfg,
		launcher: launcher,
		logger:   logger,
	}
}

// Run starts the worker and watches it to completion. The returned error is
// non-nil only when the worker could not be launched, in which case nothing
// is running and no verdict exists.
func (s *Supervisor) Run(ctx context.Context) (domain.Verdict, error) {
	if err := becomeSubreaper(); err != nil && !errors.Is(err, domain.ErrUnsupported) {
		s.logger.Debug("orphaned descendants will not be reaped", "error", err)
	}

	worker, reaper, err := s.launcher.Start(s.cfg)
	if err != nil {
		return domain.Verdict{}, err
	}

	watchdog := NewWatchdog(s.cfg, worker, reaper, s.logger)
	return watchdog.Run(ctx), nil
}
