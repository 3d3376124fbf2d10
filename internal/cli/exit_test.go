package cli

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"hauski/internal/aicontext"
	"hauski/internal/audiomode"
	"hauski/internal/config"
	"hauski/internal/process"
	"hauski/internal/recording"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "explicit", err: &ExitError{Code: 1}, want: 1},
		{name: "wrapped explicit", err: fmt.Errorf("outer: %w", &ExitError{Code: 2}), want: 2},
		{name: "usage", err: usageErr(errors.New("bad flag")), want: 2},
		{name: "configuration", err: fmt.Errorf("%w: bad ext", config.ErrConfiguration), want: 2},
		{name: "binary not found", err: fmt.Errorf("launch recorder: %w", process.ErrBinaryNotFound), want: 2},
		{name: "mopidy config missing", err: audiomode.ErrConfigNotFound, want: 2},
		{name: "no audio section", err: audiomode.ErrNoAudioSection, want: 2},
		{name: "ai-context unusable", err: aicontext.ErrUnusable, want: 2},
		{name: "malformed state", err: recording.ErrMalformedState, want: 1},
		{name: "other", err: errors.New("permission denied"), want: 1},
		{name: "canceled", err: context.Canceled, want: 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExitCode(tc.err); got != tc.want {
				t.Fatalf("ExitCode(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

func TestExitErrorMessage(t *testing.T) {
	inner := errors.New("inner")
	err := &ExitError{Code: 2, Err: inner, Message: "Config file not found: /x"}
	if err.Error() != "Config file not found: /x" {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if !errors.Is(err, inner) {
		t.Fatal("expected ExitError to unwrap")
	}
	if (&ExitError{Code: 1}).silent() != true {
		t.Fatal("expected bare ExitError to be silent")
	}
}

func TestNewToolCommandUnknown(t *testing.T) {
	if _, err := NewToolCommand("rec-pause"); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}
