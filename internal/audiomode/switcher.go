package audiomode

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"hauski/internal/logging"
)

// Mode selects the Mopidy audio sink family.
type Mode string

const (
	ModeAlsa  Mode = "alsa"
	ModePulse Mode = "pulse"
)

// ParseMode validates a user-supplied mode name.
func ParseMode(value string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(value))) {
	case ModeAlsa:
		return ModeAlsa, nil
	case ModePulse:
		return ModePulse, nil
	default:
		return "", fmt.Errorf("unknown audio mode %q (want alsa or pulse)", value)
	}
}

// Runner executes an external command to completion.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands with os/exec and folds their output into errors.
type ExecRunner struct{}

// Run executes argv and returns an error including the command output on failure.
func (ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("run: empty command")
	}
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		detail := strings.TrimSpace(string(out))
		if detail != "" {
			return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, detail)
		}
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	return nil
}

// Settings holds the per-appliance switcher defaults.
type Settings struct {
	ConfigPath     string
	AlsaOutput     string
	PulseOutput    string
	RestartCommand []string
	PipeWireUnits  []string
}

// SwitchOptions controls a single Switch call. Empty fields fall back to
// Settings.
type SwitchOptions struct {
	Mode            Mode
	ConfigPath      string
	AlsaOutput      string
	PulseOutput     string
	Restart         bool
	ControlPipeWire bool
}

// Result reports the applied change.
type Result struct {
	Mode       Mode
	ConfigPath string
	Output     string
	Previous   string
	Restarted  bool
	// Commands lists the service commands that ran, in order.
	Commands [][]string
}

// Message returns the confirmation line printed on success.
func (r Result) Message() string {
	return fmt.Sprintf("Audio output changed to '%s' (%s)", r.Mode, r.Output)
}

// Switcher edits the Mopidy config and coordinates the audio services.
type Switcher struct {
	settings Settings
	runner   Runner
	logger   *slog.Logger
}

// NewSwitcher builds a Switcher. A nil runner uses ExecRunner.
func NewSwitcher(settings Settings, runner Runner, logger *slog.Logger) *Switcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Switcher{
		settings: settings,
		runner:   runner,
		logger:   logging.NewComponentLogger(logger, "audiomode"),
	}
}

// ConfigPath resolves the config file for an optional override.
func (s *Switcher) ConfigPath(override string) string {
	if p := strings.TrimSpace(override); p != "" {
		return p
	}
	return s.settings.ConfigPath
}

// Show returns the current output of the resolved config.
func (s *Switcher) Show(configOverride string) (string, error) {
	return ReadOutput(s.ConfigPath(configOverride))
}

// Switch rewrites the output for opts.Mode, then adjusts PipeWire and
// restarts Mopidy as requested. Service failures are returned after the
// config change has been applied.
func (s *Switcher) Switch(ctx context.Context, opts SwitchOptions) (Result, error) {
	path := s.ConfigPath(opts.ConfigPath)
	output := s.outputFor(opts)

	previous, err := WriteOutput(ctx, path, output)
	if err != nil {
		return Result{}, err
	}
	result := Result{Mode: opts.Mode, ConfigPath: path, Output: output, Previous: previous}
	s.logger.Info("audio output updated",
		logging.String("mode", string(opts.Mode)),
		logging.String("config", path),
		logging.String("previous", previous),
		logging.String("output", output),
		logging.Bool("restart", opts.Restart),
		logging.Bool("control_pipewire", opts.ControlPipeWire),
	)

	if opts.ControlPipeWire && len(s.settings.PipeWireUnits) > 0 {
		verb := "start"
		if opts.Mode == ModeAlsa {
			// ALSA needs the device released by the PipeWire daemons.
			verb = "stop"
		}
		argv := append([]string{"systemctl", "--user", verb}, s.settings.PipeWireUnits...)
		if err := s.run(ctx, &result, argv); err != nil {
			return result, fmt.Errorf("%s pipewire: %w", verb, err)
		}
	}

	if opts.Restart && len(s.settings.RestartCommand) > 0 {
		if err := s.run(ctx, &result, s.settings.RestartCommand); err != nil {
			return result, fmt.Errorf("restart mopidy: %w", err)
		}
		result.Restarted = true
	}
	return result, nil
}

func (s *Switcher) run(ctx context.Context, result *Result, argv []string) error {
	s.logger.Debug("running service command", logging.Strings("command", argv))
	result.Commands = append(result.Commands, argv)
	return s.runner.Run(ctx, argv)
}

func (s *Switcher) outputFor(opts SwitchOptions) string {
	if opts.Mode == ModeAlsa {
		if v := strings.TrimSpace(opts.AlsaOutput); v != "" {
			return v
		}
		return s.settings.AlsaOutput
	}
	if v := strings.TrimSpace(opts.PulseOutput); v != "" {
		return v
	}
	return s.settings.PulseOutput
}
