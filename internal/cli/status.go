package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"hauski/internal/audiomode"
	"hauski/internal/config"
	"hauski/internal/deps"
	"hauski/internal/recording"
)

// Recorder claim states reported by status.
const (
	claimIdle       = "idle"
	claimRunning    = "running"
	claimStale      = "stale"
	claimUnreadable = "unreadable"
	claimUnknown    = "unknown"
)

type statusReport struct {
	Dependencies []deps.Status `json:"dependencies"`
	Recording    claimStatus   `json:"recording"`
	Audio        outputStatus  `json:"audio"`
}

type claimStatus struct {
	State     string `json:"state"`
	PID       int    `json:"pid,omitempty"`
	StatePath string `json:"state_path"`
	Detail    string `json:"detail,omitempty"`
}

type outputStatus struct {
	Config string `json:"config"`
	Output string `json:"output,omitempty"`
	Detail string `json:"detail,omitempty"`
}

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report external programs, the recorder claim and the audio output",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			manager, err := ctx.recordingManager(cmd)
			if err != nil {
				return err
			}
			report := collectStatus(cfg, manager)
			if jsonOutput {
				return writeJSON(cmd, report)
			}
			out := cmd.OutOrStdout()
			for _, line := range renderStatus(report, shouldColorize(out)) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit a JSON object instead of text")
	return cmd
}

func collectStatus(cfg *config.Config, manager *recording.Manager) statusReport {
	report := statusReport{
		Dependencies: deps.CheckBinaries(deps.HostRequirements(cfg)),
		Recording:    claimStatus{StatePath: cfg.StatePath()},
		Audio:        outputStatus{Config: cfg.Audio.MopidyConfig},
	}

	state, alive, err := manager.Status()
	switch {
	case errors.Is(err, recording.ErrNoState):
		report.Recording.State = claimIdle
	case errors.Is(err, recording.ErrMalformedState):
		report.Recording.State = claimUnreadable
		report.Recording.Detail = err.Error()
	case err != nil:
		report.Recording.State = claimUnknown
		report.Recording.PID = state.PID
		report.Recording.Detail = err.Error()
	case alive:
		report.Recording.State = claimRunning
		report.Recording.PID = state.PID
	default:
		report.Recording.State = claimStale
		report.Recording.PID = state.PID
	}

	output, err := audiomode.ReadOutput(cfg.Audio.MopidyConfig)
	if err != nil {
		report.Audio.Detail = err.Error()
	} else {
		report.Audio.Output = output
	}
	return report
}

func renderStatus(report statusReport, colorize bool) []string {
	lines := []string{renderSectionHeader("Dependencies", colorize)}
	rows := make([][]string, 0, len(report.Dependencies))
	for _, dep := range report.Dependencies {
		state := "ready"
		switch {
		case !dep.Available && dep.Optional:
			state = "optional, missing"
		case !dep.Available:
			state = "missing"
		}
		rows = append(rows, []string{dep.Name, dep.Command, state, dep.Detail})
	}
	lines = append(lines, renderTable([]string{"Name", "Command", "State", "Detail"}, rows))
	if missing := deps.MissingRequired(report.Dependencies); len(missing) > 0 {
		names := make([]string, 0, len(missing))
		for _, m := range missing {
			names = append(names, m.Name)
		}
		lines = append(lines, renderStatusLine("Summary", statusError, "missing "+strings.Join(names, ", "), colorize))
	} else {
		lines = append(lines, renderStatusLine("Summary", statusOK, "all required programs available", colorize))
	}

	lines = append(lines, "", renderSectionHeader("Recording", colorize))
	rec := report.Recording
	switch rec.State {
	case claimRunning:
		lines = append(lines, renderStatusLine("Recorder", statusOK, fmt.Sprintf("running (pid %d)", rec.PID), colorize))
	case claimStale:
		lines = append(lines, renderStatusLine("Recorder", statusWarn, fmt.Sprintf("stale claim (pid %d not running); rec-stop clears it", rec.PID), colorize))
	case claimIdle:
		lines = append(lines, renderStatusLine("Recorder", statusInfo, "idle", colorize))
	default:
		lines = append(lines, renderStatusLine("Recorder", statusError, rec.Detail, colorize))
	}
	lines = append(lines, renderStatusLine("State file", statusInfo, rec.StatePath, colorize))

	lines = append(lines, "", renderSectionHeader("Audio", colorize))
	if report.Audio.Detail != "" {
		lines = append(lines, renderStatusLine("Output", statusWarn, report.Audio.Detail, colorize))
	} else {
		lines = append(lines, renderStatusLine("Output", statusOK, report.Audio.Output, colorize))
	}
	lines = append(lines, renderStatusLine("Mopidy config", statusInfo, report.Audio.Config, colorize))
	return lines
}
