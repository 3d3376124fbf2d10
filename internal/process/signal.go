package process

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Signal is a termination signal understood by the recorder tools.
type Signal int

const (
	// Interrupt asks the recorder to finalize its output and exit.
	Interrupt Signal = iota
	// Kill terminates the recorder immediately.
	Kill
)

// String returns the short signal name used in user output ("INT", "KILL").
func (s Signal) String() string {
	switch s {
	case Kill:
		return "KILL"
	default:
		return "INT"
	}
}

func (s Signal) unix() unix.Signal {
	if s == Kill {
		return unix.SIGKILL
	}
	return unix.SIGINT
}

// ErrInvalidPID is returned for PIDs that must never be probed or signalled.
var ErrInvalidPID = errors.New("invalid pid")

// Exists reports whether a process with pid currently exists. A permission
// error is returned rather than guessed at: the PID is taken, but by a
// process this user cannot signal.
func Exists(pid int) (bool, error) {
	if pid <= 0 {
		return false, fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	err := unix.Kill(pid, 0)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, unix.ESRCH):
		return false, nil
	case errors.Is(err, unix.EPERM):
		return false, fmt.Errorf("probe pid %d: process exists but is owned by another user: %w", pid, err)
	default:
		return false, fmt.Errorf("probe pid %d: %w", pid, err)
	}
}

// Send delivers sig to pid.
func Send(pid int, sig Signal) error {
	if pid <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidPID, pid)
	}
	if pid == os.Getpid() {
		return fmt.Errorf("refusing to signal current process (pid %d)", pid)
	}
	if err := unix.Kill(pid, sig.unix()); err != nil {
		return fmt.Errorf("send SIG%s to pid %d: %w", sig, pid, err)
	}
	return nil
}
