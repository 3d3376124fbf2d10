package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"hauski/internal/aicontext"
	"hauski/internal/audiomode"
	"hauski/internal/config"
	"hauski/internal/process"
)

// ExitError carries an explicit exit status. When both Err and Message are
// empty the command has already reported the failure itself.
type ExitError struct {
	Code int
	Err  error
	// Message replaces Err in the user-facing report.
	Message string
}

func (e *ExitError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return fmt.Sprintf("exit status %d", e.Code)
	}
}

func (e *ExitError) Unwrap() error { return e.Err }

func (e *ExitError) silent() bool { return e.Err == nil && e.Message == "" }

type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usageErr(err error) error {
	if err == nil {
		return nil
	}
	return usageError{err: err}
}

// usageArgs marks positional-argument validation failures as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		return usageErr(validate(cmd, args))
	}
}

// ExitCode maps an error returned by a command to a process exit status.
func ExitCode(err error) int {
	var exitErr *ExitError
	var usage usageError
	switch {
	case err == nil:
		return 0
	case errors.As(err, &exitErr):
		return exitErr.Code
	case errors.As(err, &usage),
		errors.Is(err, config.ErrConfiguration),
		errors.Is(err, process.ErrBinaryNotFound),
		errors.Is(err, audiomode.ErrConfigNotFound),
		errors.Is(err, audiomode.ErrNoAudioSection),
		errors.Is(err, aicontext.ErrUnusable):
		return 2
	default:
		return 1
	}
}

// Execute runs cmd with args until it finishes or the process is
// interrupted, reports a failure once on the command's error stream, and
// returns the exit status.
func Execute(cmd *cobra.Command, args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}

	var exitErr *ExitError
	quiet := errors.Is(err, context.Canceled) || (errors.As(err, &exitErr) && exitErr.silent())
	if !quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
	}
	return ExitCode(err)
}
