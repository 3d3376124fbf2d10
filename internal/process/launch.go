package process

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
)

// ErrBinaryNotFound is returned when the program to launch is not on PATH.
var ErrBinaryNotFound = errors.New("binary not found")

// Launch starts argv as a detached background process in its own session and
// returns its PID without waiting for it. Stdout and stderr are appended to
// logPath when set, otherwise discarded.
func Launch(ctx context.Context, argv []string, logPath string) (int, error) {
	if len(argv) == 0 || argv[0] == "" {
		return 0, fmt.Errorf("launch: empty command")
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	program, err := exec.LookPath(argv[0])
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %w", ErrBinaryNotFound, argv[0], err)
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", os.DevNull, err)
	}
	defer devNull.Close()

	var output *os.File
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
			return 0, fmt.Errorf("create log directory: %w", err)
		}
		output, err = os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return 0, fmt.Errorf("open recorder log %s: %w", logPath, err)
		}
		defer output.Close()
	} else {
		output, err = os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		if err != nil {
			return 0, fmt.Errorf("open %s: %w", os.DevNull, err)
		}
		defer output.Close()
	}

	// exec.CommandContext would kill the child when ctx ends; the recorder
	// must outlive this invocation.
	cmd := exec.Command(program, argv[1:]...)
	cmd.Args[0] = argv[0]
	cmd.Stdin = devNull
	cmd.Stdout = output
	cmd.Stderr = output
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("launch %s: %w", argv[0], err)
	}
	pid := cmd.Process.Pid
	if err := cmd.Process.Release(); err != nil {
		return pid, fmt.Errorf("release pid %d: %w", pid, err)
	}
	return pid, nil
}
