package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"hauski/internal/audiomode"
)

func newAudioModeCommand(ctx *commandContext) *cobra.Command {
	var (
		mopidyConfig      string
		alsaOutput        string
		pulseOutput       string
		restart           bool
		noRestart         bool
		controlPipeWire   bool
		noControlPipeWire bool
	)

	cmd := &cobra.Command{
		Use:       "audio-mode show|alsa|pulse",
		Short:     "Show or switch the Mopidy audio output",
		Args:      usageArgs(cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs)),
		ValidArgs: []string{"show", string(audiomode.ModeAlsa), string(audiomode.ModePulse)},
		RunE: func(cmd *cobra.Command, args []string) error {
			switcher, err := ctx.audioSwitcher(cmd)
			if err != nil {
				return err
			}
			path := switcher.ConfigPath(mopidyConfig)
			out := cmd.OutOrStdout()

			if args[0] == "show" {
				current, err := switcher.Show(mopidyConfig)
				if err != nil {
					return audioModeError(path, err)
				}
				fmt.Fprintln(out, current)
				return nil
			}

			mode, err := audiomode.ParseMode(args[0])
			if err != nil {
				return usageErr(err)
			}
			result, err := switcher.Switch(cmd.Context(), audiomode.SwitchOptions{
				Mode:            mode,
				ConfigPath:      mopidyConfig,
				AlsaOutput:      alsaOutput,
				PulseOutput:     pulseOutput,
				Restart:         restart && !noRestart,
				ControlPipeWire: controlPipeWire && !noControlPipeWire,
			})
			if result.Mode != "" {
				fmt.Fprintln(out, result.Message())
			}
			if err != nil {
				return audioModeError(path, err)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&mopidyConfig, "config", "", "Mopidy config file (default from audio.mopidy_config)")
	flags.StringVar(&alsaOutput, "alsa-output", "", "GStreamer output used for alsa mode")
	flags.StringVar(&pulseOutput, "pulse-output", "", "GStreamer output used for pulse mode")
	flags.BoolVar(&restart, "restart", false, "Restart Mopidy after switching")
	flags.BoolVar(&noRestart, "no-restart", false, "Do not restart Mopidy")
	flags.BoolVar(&controlPipeWire, "control-pipewire", true, "Stop PipeWire for alsa and start it for pulse")
	flags.BoolVar(&noControlPipeWire, "no-control-pipewire", false, "Leave the PipeWire user units alone")
	cmd.MarkFlagsMutuallyExclusive("restart", "no-restart")
	cmd.MarkFlagsMutuallyExclusive("control-pipewire", "no-control-pipewire")
	return cmd
}

func audioModeError(path string, err error) error {
	switch {
	case errors.Is(err, audiomode.ErrConfigNotFound):
		return &ExitError{Code: 2, Err: err, Message: "Config file not found: " + path}
	case errors.Is(err, audiomode.ErrNoAudioSection):
		return &ExitError{Code: 2, Err: err, Message: "No [audio] section in " + path}
	case errors.Is(err, audiomode.ErrNoOutput):
		return &ExitError{Code: 1, Err: err, Message: "No output configured in [audio] section of " + path}
	default:
		return err
	}
}
