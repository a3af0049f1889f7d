package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charliek/timebox/internal/config"
	"github.com/charliek/timebox/internal/constants"
	"github.com/charliek/timebox/internal/domain"
	"github.com/charliek/timebox/internal/supervisor"
)

// App is the timebox command-line application
type App struct {
	stdout io.Writer
	stderr io.Writer

	// launcher overrides how the worker is started; nil uses os/exec
	launcher supervisor.Launcher
}

// NewApp creates an App bound to the process's standard streams
func NewApp() *App {
	return &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
}

// Run executes the application with the full argv and returns the exit code
func (a *App) Run(args []string) int {
	progname := constants.ProgramName
	if len(args) > 0 {
		progname = args[0]
		args = args[1:]
	}
	if args == nil {
		// cobra falls back to os.Args on a nil slice
		args = []string{}
	}

	exitCode := constants.ExitUsage
	cmd := a.newRootCmd(progname, &exitCode)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return 1
	}
	return exitCode
}

// run resolves the invocation, supervises the worker and reports the verdict
func (a *App) run(ctx context.Context, progname string, args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintf(a.stderr, constants.UsageFormat, progname)
		return domain.ExitCode(err)
	}

	logger := newLogger(a.stderr, cfg.Verbose)

	verdict, err := supervisor.New(cfg, a.launcher, logger).Run(ctx)
	if err != nil {
		// The worker never ran; report like the worker failing its exec
		fmt.Fprintln(a.stderr, err)
		if errors.Is(err, domain.ErrLaunch) {
			fmt.Fprintln(a.stdout, domain.Verdict{Status: domain.Exited(constants.ExitLaunchFailure)}.Report())
		}
		return domain.ExitCode(err)
	}

	fmt.Fprintln(a.stdout, verdict.Report())
	return verdict.ExitCode()
}
