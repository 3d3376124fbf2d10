package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const configFlagName = "hauski-config"

// Tool names of the standalone binaries.
const (
	ToolRecStart          = "rec-start"
	ToolRecStop           = "rec-stop"
	ToolAudioMode         = "audio-mode"
	ToolValidateAIContext = "validate-ai-context"
)

// NewRootCommand builds the umbrella hauski command.
func NewRootCommand() *cobra.Command {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:   "hauski",
		Short: "Hauski audio appliance host tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	configureRoot(rootCmd, ctx, &configFlag)

	rootCmd.AddCommand(newRecStartCommand(ctx))
	rootCmd.AddCommand(newRecStopCommand(ctx))
	rootCmd.AddCommand(newAudioModeCommand(ctx))
	rootCmd.AddCommand(newValidateAIContextCommand())
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}

// NewToolCommand builds the top-level command of a standalone binary.
func NewToolCommand(name string) (*cobra.Command, error) {
	var configFlag string
	ctx := newCommandContext(&configFlag)

	var cmd *cobra.Command
	switch name {
	case ToolRecStart:
		cmd = newRecStartCommand(ctx)
	case ToolRecStop:
		cmd = newRecStopCommand(ctx)
	case ToolAudioMode:
		cmd = newAudioModeCommand(ctx)
	case ToolValidateAIContext:
		cmd = newValidateAIContextCommand()
	default:
		return nil, fmt.Errorf("unknown tool %q", name)
	}
	configureRoot(cmd, ctx, &configFlag)
	return cmd, nil
}

func configureRoot(cmd *cobra.Command, ctx *commandContext, configFlag *string) {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if shouldSkipConfig(cmd) {
			return nil
		}
		_, err := ctx.ensureConfig()
		return err
	}
	cmd.PersistentFlags().StringVar(configFlag, configFlagName, "", "Hauski configuration file path")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageErr(err)
	})
}
