// Package config loads, normalizes, and validates Hauski host tool settings.
//
// It supplies appliance defaults, reads an optional TOML file, merges an
// optional dotenv file and the documented environment overrides
// (AUDIO_RECORD_DIR, AUDIO_RECORD_EXT, PW_RECORD_BINARY, HAUSKI_STATE_DIR,
// MOPIDY_CONFIG, HAUSKI_LOG_LEVEL), and expands tilde paths. The Config type
// gathers every knob the recording, audio-mode, and status commands need.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and errors that unwrap to ErrConfiguration.
package config
