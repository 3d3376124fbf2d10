package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"hauski/internal/recording"
)

func newRecStartCommand(ctx *commandContext) *cobra.Command {
	var opts recording.StartOptions
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rec-start [flags] [-- recorder-args...]",
		Short: "Start a detached recorder and claim the PID state file",
		Long: "Start the configured recorder in the background and record its PID.\n\n" +
			"Arguments after -- are passed to the recorder before the output path.",
		Args: usageArgs(passthroughOnly),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Args = passthroughArgs(cmd, args)
			manager, err := ctx.recordingManager(cmd)
			if err != nil {
				return err
			}
			outcome, err := manager.Start(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return reportOutcome(cmd, outcome, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print the recorder command without launching it")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit a JSON object instead of text")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Replace an existing recorder claim and overwrite the output")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "Output file (default: timestamped file in the recordings directory)")
	return cmd
}

func newRecStopCommand(ctx *commandContext) *cobra.Command {
	var opts recording.StopOptions
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "rec-stop",
		Short: "Signal the recorder named by the PID state file",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			manager, err := ctx.recordingManager(cmd)
			if err != nil {
				return err
			}
			outcome, err := manager.Stop(cmd.Context(), opts)
			if err != nil {
				return err
			}
			return reportOutcome(cmd, outcome, jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report the signal without sending it")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit a JSON object instead of text")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Send SIGKILL instead of SIGINT")
	return cmd
}

// passthroughOnly rejects positional arguments that are not behind "--".
func passthroughOnly(cmd *cobra.Command, args []string) error {
	if dash := cmd.ArgsLenAtDash(); dash > 0 || (dash < 0 && len(args) > 0) {
		return fmt.Errorf("unexpected argument %q (pass recorder arguments after --)", args[0])
	}
	return nil
}

func passthroughArgs(cmd *cobra.Command, args []string) []string {
	if dash := cmd.ArgsLenAtDash(); dash >= 0 && dash <= len(args) {
		return append([]string(nil), args[dash:]...)
	}
	return nil
}

// reportOutcome prints the outcome and converts refusals into exit statuses.
func reportOutcome(cmd *cobra.Command, outcome recording.Outcome, jsonOutput bool) error {
	if jsonOutput {
		if err := writeJSON(cmd, outcome.Payload()); err != nil {
			return err
		}
	} else {
		out := cmd.OutOrStdout()
		for _, line := range outcome.Lines() {
			fmt.Fprintln(out, line)
		}
	}
	if code := outcome.ExitCode(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}
