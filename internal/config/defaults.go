package config

const (
	defaultRecordingDir       = "~/Recordings"
	defaultRecordingExtension = "wav"
	defaultRecorderBinary     = "pw-record"
	defaultStateNamespace     = "hauski-audio"
	defaultStateFileName      = "recording.pid"
	defaultRecorderLogName    = "recorder.log"
	defaultMopidyConfig       = "~/.config/mopidy/mopidy.conf"
	defaultAlsaOutput         = "alsasink"
	defaultPulseOutput        = "pulsesink"
	defaultLogFormat          = "console"
	defaultLogLevel           = "warn"
)

var (
	defaultRecorderArgs   = []string{"--rate", "48000", "--channels", "2"}
	defaultRestartCommand = []string{"systemctl", "--user", "restart", "mopidy"}
	defaultPipeWireUnits  = []string{"pipewire-pulse.socket", "pipewire-pulse.service", "pipewire.socket", "pipewire.service"}
)

// Default returns a Config populated with appliance defaults.
func Default() Config {
	return Config{
		Recording: Recording{
			Dir:       defaultRecordingDir,
			Extension: defaultRecordingExtension,
			Binary:    defaultRecorderBinary,
			Args:      append([]string(nil), defaultRecorderArgs...),
		},
		Audio: Audio{
			MopidyConfig:   defaultMopidyConfig,
			AlsaOutput:     defaultAlsaOutput,
			PulseOutput:    defaultPulseOutput,
			RestartCommand: append([]string(nil), defaultRestartCommand...),
			PipeWireUnits:  append([]string(nil), defaultPipeWireUnits...),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
