package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRecording(); err != nil {
		return err
	}
	if err := c.validateAudio(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRecording() error {
	if c.Recording.Dir == "" {
		return errors.New("recording.dir must be set (or export AUDIO_RECORD_DIR)")
	}
	if c.Recording.Extension == "" {
		return errors.New("recording.extension must be set (or export AUDIO_RECORD_EXT)")
	}
	if strings.ContainsAny(c.Recording.Extension, `/\ `) {
		return fmt.Errorf("recording.extension %q must be a bare file extension", c.Recording.Extension)
	}
	if c.Recording.Binary == "" {
		return errors.New("recording.binary must be set (or export PW_RECORD_BINARY)")
	}
	if c.Recording.StateDir == "" {
		return errors.New("recording.state_dir could not be resolved")
	}
	return nil
}

func (c *Config) validateAudio() error {
	if c.Audio.MopidyConfig == "" {
		return errors.New("audio.mopidy_config must be set (or export MOPIDY_CONFIG)")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
