package cli

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var hauskiEnvKeys = []string{
	"XDG_CACHE_HOME",
	"AUDIO_RECORD_DIR",
	"AUDIO_RECORD_EXT",
	"PW_RECORD_BINARY",
	"HAUSKI_STATE_DIR",
	"MOPIDY_CONFIG",
	"HAUSKI_LOG_LEVEL",
}

type cliTestEnv struct {
	home       string
	recordings string
	statePath  string
}

// setupCLITestEnv points HOME at a temp dir and mirrors the environment the
// appliance scripts run with.
func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	home := filepath.Join(t.TempDir(), "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", home)
	for _, key := range hauskiEnvKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	recordings := filepath.Join(home, "recordings")
	t.Setenv("AUDIO_RECORD_DIR", recordings)
	t.Setenv("AUDIO_RECORD_EXT", "wav")
	t.Setenv("PW_RECORD_BINARY", "pw-record")

	return &cliTestEnv{
		home:       home,
		recordings: recordings,
		statePath:  filepath.Join(home, ".cache", "hauski-audio", "recording.pid"),
	}
}

func (e *cliTestEnv) writeState(t *testing.T, pid int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(e.statePath), 0o755); err != nil {
		t.Fatalf("mkdir state dir: %v", err)
	}
	if err := os.WriteFile(e.statePath, []byte(strconv.Itoa(pid)+"\n"), 0o644); err != nil {
		t.Fatalf("write state: %v", err)
	}
}

func (e *cliTestEnv) readState(t *testing.T) (int, bool) {
	t.Helper()
	data, err := os.ReadFile(e.statePath)
	if os.IsNotExist(err) {
		return 0, false
	}
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		t.Fatalf("parse state %q: %v", data, err)
	}
	return pid, true
}

func runTool(t *testing.T, tool string, args ...string) (string, string, int) {
	t.Helper()
	cmd, err := NewToolCommand(tool)
	if err != nil {
		t.Fatalf("NewToolCommand(%s): %v", tool, err)
	}
	return execute(cmd, args)
}

func runRoot(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	return execute(NewRootCommand(), args)
}

func execute(cmd *cobra.Command, args []string) (string, string, int) {
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	code := Execute(cmd, args)
	return stdout.String(), stderr.String(), code
}

// startSleeper runs a child process that stays alive until the test ends.
func startSleeper(t *testing.T) *exec.Cmd {
	t.Helper()
	proc := exec.Command("sleep", "30")
	if err := proc.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	t.Cleanup(func() {
		_ = proc.Process.Kill()
		_ = proc.Wait()
	})
	return proc
}

// exitedPID returns the PID of a process that has already been reaped.
func exitedPID(t *testing.T) int {
	t.Helper()
	proc := exec.Command("true")
	if err := proc.Run(); err != nil {
		t.Fatalf("run true: %v", err)
	}
	return proc.Process.Pid
}

// writeRecorderStub installs a pw-record stub that records its arguments to
// argsFile and then sleeps until signalled.
func writeRecorderStub(t *testing.T, argsFile string) {
	t.Helper()
	binDir := t.TempDir()
	script := "#!/bin/sh\nprintf '%s\\n' \"$@\" > " + strconv.Quote(argsFile) + "\nexec sleep 30\n"
	if err := os.WriteFile(filepath.Join(binDir, "pw-record"), []byte(script), 0o755); err != nil {
		t.Fatalf("write recorder stub: %v", err)
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

// killAndReap ends a detached recorder launched by the command under test.
// The recorder is still a child of the test binary, so it must be reaped.
func killAndReap(pid int) {
	_ = unix.Kill(pid, unix.SIGKILL)
	var ws unix.WaitStatus
	_, _ = unix.Wait4(pid, &ws, 0, nil)
}

func waitFor(t *testing.T, duration time.Duration, fn func() bool) {
	t.Helper()
	deadline := time.Now().Add(duration)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", duration)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireExit(t *testing.T, got, want int, stderr string) {
	t.Helper()
	if got != want {
		t.Fatalf("exit status %d, want %d (stderr: %q)", got, want, stderr)
	}
}
