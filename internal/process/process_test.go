package process_test

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"

	"hauski/internal/process"
)

func startSleep(t *testing.T) *exec.Cmd {
	t.Helper()
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep binary not available")
	}
	cmd := exec.Command("sleep", "30")
	if err := cmd.Start(); err != nil {
		t.Fatalf("start sleep: %v", err)
	}
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_, _ = cmd.Process.Wait()
	})
	return cmd
}

func TestExistsTracksProcessLifetime(t *testing.T) {
	cmd := startSleep(t)
	pid := cmd.Process.Pid

	alive, err := process.Exists(pid)
	if err != nil {
		t.Fatalf("Exists returned error: %v", err)
	}
	if !alive {
		t.Fatalf("expected pid %d to exist", pid)
	}

	if err := process.Send(pid, process.Kill); err != nil {
		t.Fatalf("Send returned error: %v", err)
	}
	_, _ = cmd.Process.Wait()

	alive, err = process.Exists(pid)
	if err != nil {
		t.Fatalf("Exists returned error after exit: %v", err)
	}
	if alive {
		t.Fatalf("expected pid %d to be gone after SIGKILL", pid)
	}
}

func TestExistsRejectsInvalidPID(t *testing.T) {
	for _, pid := range []int{0, -1} {
		if _, err := process.Exists(pid); !errors.Is(err, process.ErrInvalidPID) {
			t.Fatalf("Exists(%d): expected ErrInvalidPID, got %v", pid, err)
		}
	}
}

func TestSendRefusesSelfAndInvalid(t *testing.T) {
	if err := process.Send(os.Getpid(), process.Kill); err == nil {
		t.Fatal("expected refusal to signal current process")
	}
	if err := process.Send(0, process.Kill); !errors.Is(err, process.ErrInvalidPID) {
		t.Fatalf("expected ErrInvalidPID, got %v", err)
	}
}

func TestSignalNames(t *testing.T) {
	if process.Interrupt.String() != "INT" {
		t.Fatalf("unexpected interrupt name %q", process.Interrupt)
	}
	if process.Kill.String() != "KILL" {
		t.Fatalf("unexpected kill name %q", process.Kill)
	}
}

func TestLaunchDetachesAndReturnsPID(t *testing.T) {
	if _, err := exec.LookPath("sleep"); err != nil {
		t.Skip("sleep binary not available")
	}
	logPath := filepath.Join(t.TempDir(), "state", "recorder.log")

	pid, err := process.Launch(context.Background(), []string{"sleep", "30"}, logPath)
	if err != nil {
		t.Fatalf("Launch returned error: %v", err)
	}
	t.Cleanup(func() {
		_ = unix.Kill(pid, unix.SIGKILL)
		var ws unix.WaitStatus
		_, _ = unix.Wait4(pid, &ws, 0, nil)
	})

	alive, err := process.Exists(pid)
	if err != nil || !alive {
		t.Fatalf("expected launched pid %d alive, got alive=%v err=%v", pid, alive, err)
	}
	sid, err := unix.Getsid(pid)
	if err != nil {
		t.Fatalf("getsid: %v", err)
	}
	if sid != pid {
		t.Fatalf("expected recorder to lead its own session, sid=%d pid=%d", sid, pid)
	}
	if _, err := os.Stat(logPath); err != nil {
		t.Fatalf("expected recorder log to be created: %v", err)
	}
}

func TestLaunchMissingBinary(t *testing.T) {
	_, err := process.Launch(context.Background(), []string{"hauski-definitely-missing-recorder"}, "")
	if !errors.Is(err, process.ErrBinaryNotFound) {
		t.Fatalf("expected ErrBinaryNotFound, got %v", err)
	}
}
