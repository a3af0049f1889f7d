// Package cli provides the command-line interface for timebox.
package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/charliek/timebox/internal/config"
	"github.com/charliek/timebox/internal/constants"
)

// Version is set during build
var Version = "dev"

// newRootCmd builds the root command. Flag parsing is disabled: "-15" style
// signal options and the command's own arguments must reach config.Parse
// untouched, so pflag never sees them.
func (a *App) newRootCmd(progname string, exitCode *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   progname + " [-signal] time command [args...]",
		Short: "Run a command under a wall-clock time limit",
		Long: `timebox runs a command and terminates it, together with every process it
spawned, if it is still running after the given number of seconds.

  -signal         signal number sent to the process group on timeout
                  (default 9, SIGKILL); may repeat, last one wins
  --verbose       log lifecycle events to stderr
  --keep-orphans  do not signal processes the command leaves behind
  --              end of options

On completion a single line "killed 0" or "killed 1" is printed to stdout,
and timebox exits with the command's status (128+N if it died from
signal N).`,
		Args:                  cobra.ArbitraryArgs,
		DisableFlagParsing:    true,
		DisableFlagsInUseLine: true,
		SilenceUsage:          true,
		SilenceErrors:         true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				switch args[0] {
				case config.OptHelp:
					*exitCode = 0
					return cmd.Help()
				case config.OptVersion:
					*exitCode = 0
					return a.printVersion(cmd.OutOrStdout())
				}
			}
			*exitCode = a.run(cmd.Context(), progname, args)
			return nil
		},
	}

	cmd.SetOut(a.stdout)
	cmd.SetErr(a.stderr)
	// The generated flag listing would advertise -h and -v, which the
	// signal grammar rejects
	cmd.SetHelpTemplate("{{.Long}}\n\nUsage:\n  {{.UseLine}}\n")

	return cmd
}

func (a *App) printVersion(w io.Writer) error {
	_, err := io.WriteString(w, constants.ProgramName+" version "+Version+"\n")
	return err
}

// newLogger builds the stderr logger. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
}
