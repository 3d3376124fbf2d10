package recording

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"hauski/internal/fileutil"
)

var (
	// ErrNoState reports that no claim file exists.
	ErrNoState = errors.New("no recorder PID state found")
	// ErrMalformedState reports a claim file that does not hold a positive PID.
	ErrMalformedState = errors.New("malformed recorder PID state")
)

// State is the persisted claim on the active recorder.
type State struct {
	PID int
}

// StateFile stores State as a decimal PID followed by a newline.
type StateFile struct {
	path string
}

// NewStateFile returns a store backed by path. Nothing is touched on disk.
func NewStateFile(path string) *StateFile {
	return &StateFile{path: path}
}

// Path returns the claim file location.
func (s *StateFile) Path() string {
	return s.path
}

// Read loads the claim. It returns ErrNoState when the file is absent and
// ErrMalformedState when its content is not a positive integer.
func (s *StateFile) Read() (State, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return State{}, ErrNoState
		}
		return State{}, fmt.Errorf("read state file %s: %w", s.path, err)
	}
	raw := strings.TrimSpace(string(data))
	pid, err := strconv.Atoi(raw)
	if err != nil || pid <= 0 {
		return State{}, fmt.Errorf("%w in %s: %q", ErrMalformedState, s.path, raw)
	}
	return State{PID: pid}, nil
}

// Write replaces the claim atomically so readers never observe a partial PID.
func (s *StateFile) Write(state State) error {
	if state.PID <= 0 {
		return fmt.Errorf("write state file: invalid pid %d", state.PID)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create state directory %s: %w", dir, err)
	}
	if err := fileutil.WriteFileAtomic(s.path, []byte(strconv.Itoa(state.PID)+"\n"), 0o644); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}

// Remove deletes the claim. A missing file is not an error.
func (s *StateFile) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state file %s: %w", s.path, err)
	}
	return nil
}
