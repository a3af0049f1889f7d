package config

import (
	"fmt"
	"strings"

	"github.com/charliek/timebox/internal/constants"
	"github.com/charliek/timebox/internal/domain"
)

// Validate checks the run configuration for errors
func Validate(cfg *domain.RunConfig) error {
	var errs []string

	if cfg.Deadline <= 0 {
		errs = append(errs, fmt.Sprintf("time: %v", domain.ErrInvalidDeadline))
	} else if cfg.Deadline%constants.DeadlineUnit != 0 {
		errs = append(errs, fmt.Sprintf("time: must be whole seconds, got %s", cfg.Deadline))
	}

	if cfg.Signal <= 0 {
		errs = append(errs, fmt.Sprintf("signal: %v, got %d", domain.ErrInvalidSignal, int(cfg.Signal)))
	}

	if len(cfg.Command) == 0 || cfg.Command[0] == "" {
		errs = append(errs, fmt.Sprintf("command: %v", domain.ErrMissingCommand))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", domain.ErrUsage, strings.Join(errs, "; "))
	}

	return nil
}
