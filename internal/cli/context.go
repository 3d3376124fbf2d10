package cli

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"hauski/internal/audiomode"
	"hauski/internal/config"
	"hauski/internal/logging"
	"hauski/internal/recording"
)

const skipConfigAnnotation = "skipConfigLoad"

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, _, _, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

// loggerFor returns the invocation logger. Diagnostics share the command's
// error stream so stdout stays machine-readable.
func (c *commandContext) loggerFor(cmd *cobra.Command) *slog.Logger {
	c.loggerOnce.Do(func() {
		cfg, _ := c.ensureConfig()
		logger, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr(), cmd.Name())
		if err != nil {
			logger = logging.NewNop()
		}
		c.logger = logger
	})
	return c.logger
}

func (c *commandContext) recordingManager(cmd *cobra.Command) (*recording.Manager, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	settings := recording.Settings{
		Dir:       cfg.Recording.Dir,
		Extension: cfg.Recording.Extension,
		Binary:    cfg.Recording.Binary,
		Args:      cfg.Recording.Args,
		LogPath:   cfg.RecorderLogPath(),
	}
	store := recording.NewStateFile(cfg.StatePath())
	return recording.NewManager(settings, store, recording.WithLogger(c.loggerFor(cmd))), nil
}

func (c *commandContext) audioSwitcher(cmd *cobra.Command) (*audiomode.Switcher, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	settings := audiomode.Settings{
		ConfigPath:     cfg.Audio.MopidyConfig,
		AlsaOutput:     cfg.Audio.AlsaOutput,
		PulseOutput:    cfg.Audio.PulseOutput,
		RestartCommand: cfg.Audio.RestartCommand,
		PipeWireUnits:  cfg.Audio.PipeWireUnits,
	}
	return audiomode.NewSwitcher(settings, nil, c.loggerFor(cmd)), nil
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations[skipConfigAnnotation] == "true" {
			return true
		}
	}
	return false
}
