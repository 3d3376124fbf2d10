package recording

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cache", "hauski-audio", "recording.pid")
	store := NewStateFile(path)

	if _, err := store.Read(); !errors.Is(err, ErrNoState) {
		t.Fatalf("expected ErrNoState before write, got %v", err)
	}
	if err := store.Write(State{PID: 4242}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read state: %v", err)
	}
	if string(data) != "4242\n" {
		t.Fatalf("unexpected state content %q", data)
	}
	state, err := store.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if state.PID != 4242 {
		t.Fatalf("unexpected pid %d", state.PID)
	}

	if err := store.Write(State{PID: 7}); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if state, _ := store.Read(); state.PID != 7 {
		t.Fatalf("expected overwrite to replace pid, got %d", state.PID)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the state file to remain, got %d entries", len(entries))
	}

	if err := store.Remove(); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("second Remove should be a no-op, got %v", err)
	}
}

func TestStateFileRejectsMalformedContent(t *testing.T) {
	for _, content := range []string{"", "abc\n", "0\n", "-5\n", "12 34\n"} {
		path := filepath.Join(t.TempDir(), "recording.pid")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := NewStateFile(path).Read()
		if !errors.Is(err, ErrMalformedState) {
			t.Fatalf("content %q: expected ErrMalformedState, got %v", content, err)
		}
	}
}

func TestStateFileWriteRejectsInvalidPID(t *testing.T) {
	store := NewStateFile(filepath.Join(t.TempDir(), "recording.pid"))
	if err := store.Write(State{PID: 0}); err == nil {
		t.Fatal("expected error for pid 0")
	}
	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected no state file, got %v", err)
	}
}
