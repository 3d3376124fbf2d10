package config

import (
	"fmt"
	"strings"
)

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	override := func(dst *string, key string) {
		if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
			*dst = value
		}
	}
	override(&c.Recording.Dir, "AUDIO_RECORD_DIR")
	override(&c.Recording.Extension, "AUDIO_RECORD_EXT")
	override(&c.Recording.Binary, "PW_RECORD_BINARY")
	override(&c.Recording.StateDir, "HAUSKI_STATE_DIR")
	override(&c.Audio.MopidyConfig, "MOPIDY_CONFIG")
	override(&c.Logging.Level, "HAUSKI_LOG_LEVEL")

	if strings.TrimSpace(c.Recording.StateDir) == "" {
		c.Recording.StateDir = defaultStateDir(lookup)
	}
}

func (c *Config) normalize() error {
	if err := c.normalizeRecording(); err != nil {
		return err
	}
	if err := c.normalizeAudio(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeRecording() error {
	var err error
	if c.Recording.Dir, err = expandPath(strings.TrimSpace(c.Recording.Dir)); err != nil {
		return fmt.Errorf("recording.dir: %w", err)
	}
	if c.Recording.StateDir, err = expandPath(strings.TrimSpace(c.Recording.StateDir)); err != nil {
		return fmt.Errorf("recording.state_dir: %w", err)
	}
	c.Recording.Extension = strings.TrimPrefix(strings.TrimSpace(c.Recording.Extension), ".")
	c.Recording.Binary = strings.TrimSpace(c.Recording.Binary)
	c.Recording.Args = trimNonEmpty(c.Recording.Args)
	return nil
}

func (c *Config) normalizeAudio() error {
	var err error
	if c.Audio.MopidyConfig, err = expandPath(strings.TrimSpace(c.Audio.MopidyConfig)); err != nil {
		return fmt.Errorf("audio.mopidy_config: %w", err)
	}
	c.Audio.AlsaOutput = strings.TrimSpace(c.Audio.AlsaOutput)
	if c.Audio.AlsaOutput == "" {
		c.Audio.AlsaOutput = defaultAlsaOutput
	}
	c.Audio.PulseOutput = strings.TrimSpace(c.Audio.PulseOutput)
	if c.Audio.PulseOutput == "" {
		c.Audio.PulseOutput = defaultPulseOutput
	}
	c.Audio.RestartCommand = trimNonEmpty(c.Audio.RestartCommand)
	c.Audio.PipeWireUnits = trimNonEmpty(c.Audio.PipeWireUnits)
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	file, err := expandPath(strings.TrimSpace(c.Logging.File))
	if err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	c.Logging.File = file
	return nil
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
