package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// ErrConfiguration marks failures caused by bad configuration files,
// environment values, or arguments. Callers map it to exit status 2.
var ErrConfiguration = errors.New("configuration error")

// Recording contains settings for the recorder lifecycle commands.
type Recording struct {
	Dir       string   `toml:"dir"`
	Extension string   `toml:"extension"`
	Binary    string   `toml:"binary"`
	Args      []string `toml:"args"`
	StateDir  string   `toml:"state_dir"`
}

// Audio contains settings for the Mopidy output switcher.
type Audio struct {
	MopidyConfig   string   `toml:"mopidy_config"`
	AlsaOutput     string   `toml:"alsa_output"`
	PulseOutput    string   `toml:"pulse_output"`
	RestartCommand []string `toml:"restart_command"`
	PipeWireUnits  []string `toml:"pipewire_units"`
}

// Logging contains configuration for diagnostic log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	// File, when set, also receives every diagnostic record.
	File string `toml:"file"`
}

// Config encapsulates all configuration values for the Hauski host tools.
//
// Configuration sections:
//   - Recording: recordings directory, file extension, recorder binary and
//     its fixed argument template, PID state directory
//   - Audio: Mopidy config location, sink pipelines per mode, restart command
//   - Logging: log format, level and optional log file
type Config struct {
	Recording Recording `toml:"recording"`
	Audio     Audio     `toml:"audio"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/hauski/config.toml")
}

// DefaultDotenvPath returns the optional dotenv file consulted before the
// process environment.
func DefaultDotenvPath() (string, error) {
	return expandPath("~/.config/hauski/hauski.env")
}

// Load locates, parses, and validates a configuration file. The returned
// config has environment overrides applied and all path fields expanded.
// Every returned error wraps ErrConfiguration.
func Load(path string) (*Config, string, bool, error) {
	cfg, resolved, exists, err := load(path)
	if err != nil {
		return nil, "", false, fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return cfg, resolved, exists, nil
}

func load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file).DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	env, err := environment()
	if err != nil {
		return nil, "", false, err
	}
	cfg.applyEnv(env)

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			return "", false, fmt.Errorf("config file %s: %w", expanded, err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(defaultPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return defaultPath, false, nil
		}
		return "", false, fmt.Errorf("stat config %s: %w", defaultPath, err)
	}
	return defaultPath, true, nil
}

// environment merges the optional dotenv file under the process environment.
// Variables already present in the process environment always win.
func environment() (func(string) (string, bool), error) {
	values := map[string]string{}
	dotenvPath, err := DefaultDotenvPath()
	if err == nil {
		if _, statErr := os.Stat(dotenvPath); statErr == nil {
			parsed, readErr := godotenv.Read(dotenvPath)
			if readErr != nil {
				return nil, fmt.Errorf("parse dotenv %s: %w", dotenvPath, readErr)
			}
			values = parsed
		}
	}
	return func(key string) (string, bool) {
		if value, ok := os.LookupEnv(key); ok {
			return value, true
		}
		value, ok := values[key]
		return value, ok
	}, nil
}

// StatePath returns the PID state file for the recorder.
func (c *Config) StatePath() string {
	return filepath.Join(c.Recording.StateDir, defaultStateFileName)
}

// RecorderLogPath returns the file that receives the detached recorder's output.
func (c *Config) RecorderLogPath() string {
	return filepath.Join(c.Recording.StateDir, defaultRecorderLogName)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func defaultStateDir(lookup func(string) (string, bool)) string {
	if base, ok := lookup("XDG_CACHE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, defaultStateNamespace)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join("~", ".cache", defaultStateNamespace)
	}
	return filepath.Join(home, ".cache", defaultStateNamespace)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
