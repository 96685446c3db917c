package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes. 64 and 78 follow sysexits(3).
const (
	ExitSuccess      = 0
	ExitViolations   = 1
	ExitRuntimeError = 2
	ExitUsageError   = 64
	ExitConfigError  = 78
)

// exitError carries the exit code an error should produce.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error  { return &exitError{code: ExitUsageError, err: err} }
func configError(err error) error { return &exitError{code: ExitConfigError, err: err} }

// exitCodeOf maps an error returned by a command to an exit code. Errors
// without a class are runtime errors.
func exitCodeOf(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitRuntimeError
}

// app is one invocation: its streams, parsed flags and resulting exit code.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	opts     options
	logger   *slog.Logger
	exitCode int
}

// Run executes committed with the process arguments and standard streams
// and returns an exit code.
func Run() int {
	return Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Execute runs committed with the given arguments and streams. Each call
// builds a fresh command tree.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
		logger: newLogger(stderr, slog.LevelError),
	}
	root := a.newRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitCodeOf(err)
	}
	return a.exitCode
}

func (a *app) newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "committed [<revspec>]",
		Short: "Lint commit messages",
		Long: `committed checks commit messages against a style policy.

With a revspec (A..B, A...B, A.. or a single revision) it checks those
commits. With --commit-file it checks a message file, as a commit-msg hook.
Otherwise it checks a message piped on stdin, or HEAD.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return usageError(err)
			}
			return nil
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runCheck,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	a.bindFlags(root)

	root.AddCommand(a.newHookCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(a.newVersionCmd())
	return root
}

func (a *app) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print committed version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "committed version %s\n", version)
		},
	}
}
