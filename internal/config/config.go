// Package config resolves the command line into a run configuration.
//
// The grammar is deliberately small: leading "-N" tokens override the kill
// signal, the first plain token is the deadline in seconds, and everything
// after it is the command vector, which is never re-split or re-quoted.
package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charliek/timebox/internal/constants"
	"github.com/charliek/timebox/internal/domain"
)

// Long options understood by Parse. Help and version are intercepted by the
// CLI before parsing.
const (
	OptVerbose     = "--verbose"
	OptKeepOrphans = "--keep-orphans"
	OptHelp        = "--help"
	OptVersion     = "--version"
	OptEnd         = "--"
)

// Parse resolves args (without the program name) into a RunConfig
func Parse(args []string) (*domain.RunConfig, error) {
	cfg := &domain.RunConfig{
		Signal: constants.DefaultKillSignal,
	}

	i := 0
options:
	for ; i < len(args) && strings.HasPrefix(args[i], "-"); i++ {
		arg := args[i]
		switch {
		case arg == OptEnd:
			i++
			break options
		case arg == OptVerbose:
			cfg.Verbose = true
		case arg == OptKeepOrphans:
			cfg.KeepOrphans = true
		case strings.HasPrefix(arg, "--"):
			return nil, fmt.Errorf("%w: %w %q", domain.ErrUsage, domain.ErrUnknownOption, arg)
		default:
			sig, err := parsePositive(arg[1:])
			if err != nil {
				return nil, fmt.Errorf("%w: %w, got %q", domain.ErrUsage, domain.ErrInvalidSignal, arg)
			}
			cfg.Signal = syscall.Signal(sig)
		}
	}

	rest := args[i:]
	if len(rest) < 2 {
		if len(rest) == 1 {
			if _, err := parsePositive(rest[0]); err != nil {
				return nil, fmt.Errorf("%w: %w, got %q", domain.ErrUsage, domain.ErrInvalidDeadline, rest[0])
			}
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrUsage, domain.ErrMissingCommand)
	}

	seconds, err := parsePositive(rest[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w, got %q", domain.ErrUsage, domain.ErrInvalidDeadline, rest[0])
	}
	cfg.Deadline = time.Duration(seconds) * constants.DeadlineUnit

	// Copy so later mutation of args cannot reach the worker's argv
	cfg.Command = append([]string(nil), rest[1:]...)

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parsePositive parses a strictly positive decimal integer without sign
func parsePositive(s string) (int, error) {
	n, err := strconv.ParseUint(s, 10, 31)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, errors.New("must be positive")
	}
	return int(n), nil
}
