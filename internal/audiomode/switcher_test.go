package audiomode

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
)

type recordingRunner struct {
	calls [][]string
	err   error
}

func (r *recordingRunner) Run(_ context.Context, argv []string) error {
	r.calls = append(r.calls, append([]string(nil), argv...))
	return r.err
}

func testSettings(path string) Settings {
	return Settings{
		ConfigPath:     path,
		AlsaOutput:     "alsasink",
		PulseOutput:    "pulsesink",
		RestartCommand: []string{"systemctl", "--user", "restart", "mopidy"},
		PipeWireUnits:  []string{"pipewire-pulse.service", "pipewire.service"},
	}
}

func TestSwitchToAlsaStopsPipeWireAndRestarts(t *testing.T) {
	path := writeConfig(t, "[audio]\noutput = pulsesink\n")
	runner := &recordingRunner{}
	sw := NewSwitcher(testSettings(path), runner, nil)

	result, err := sw.Switch(context.Background(), SwitchOptions{
		Mode:            ModeAlsa,
		AlsaOutput:      "alsasink device=hw:1,0",
		Restart:         true,
		ControlPipeWire: true,
	})
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	want := [][]string{
		{"systemctl", "--user", "stop", "pipewire-pulse.service", "pipewire.service"},
		{"systemctl", "--user", "restart", "mopidy"},
	}
	if !reflect.DeepEqual(runner.calls, want) {
		t.Fatalf("unexpected commands %v", runner.calls)
	}
	if !result.Restarted || result.Previous != "pulsesink" {
		t.Fatalf("unexpected result %+v", result)
	}
	msg := result.Message()
	if !strings.Contains(msg, "Audio output changed") || !strings.Contains(msg, "'alsa'") {
		t.Fatalf("unexpected message %q", msg)
	}
	if got, _ := ReadOutput(path); got != "alsasink device=hw:1,0" {
		t.Fatalf("config not updated, got %q", got)
	}
}

func TestSwitchToPulseUsesDefaultsWithoutServices(t *testing.T) {
	path := writeConfig(t, "[audio]\noutput = alsasink\n")
	runner := &recordingRunner{}
	sw := NewSwitcher(testSettings(path), runner, nil)

	result, err := sw.Switch(context.Background(), SwitchOptions{Mode: ModePulse})
	if err != nil {
		t.Fatalf("Switch: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no service commands, got %v", runner.calls)
	}
	if result.Output != "pulsesink" || result.Restarted {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestSwitchReportsRestartFailureAfterEdit(t *testing.T) {
	path := writeConfig(t, "[audio]\noutput = alsasink\n")
	runner := &recordingRunner{err: errors.New("unit not found")}
	sw := NewSwitcher(testSettings(path), runner, nil)

	_, err := sw.Switch(context.Background(), SwitchOptions{Mode: ModePulse, Restart: true})
	if err == nil || !strings.Contains(err.Error(), "restart mopidy") {
		t.Fatalf("expected restart error, got %v", err)
	}
	if got, _ := ReadOutput(path); got != "pulsesink" {
		t.Fatalf("edit should persist despite restart failure, got %q", got)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"alsa": ModeAlsa, " Pulse ": ModePulse} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseMode("jack"); err == nil {
		t.Fatal("expected error for unknown mode")
	}
}

func TestConfigPathOverride(t *testing.T) {
	sw := NewSwitcher(Settings{ConfigPath: "/etc/mopidy.conf"}, nil, nil)
	if sw.ConfigPath("  ") != "/etc/mopidy.conf" {
		t.Fatal("expected fallback to settings path")
	}
	if sw.ConfigPath("/tmp/x.conf") != "/tmp/x.conf" {
		t.Fatal("expected override")
	}
}
