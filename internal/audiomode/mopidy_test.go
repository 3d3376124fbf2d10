package audiomode

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config", "mopidy.conf")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o640); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadOutput(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		wantErr error
	}{
		{name: "simple", content: "[audio]\noutput = pulsesink\n", want: "pulsesink"},
		{name: "colon separator", content: "[core]\ncache_dir = /tmp\n[audio]\nmixer = software\noutput: alsasink device=hw:1,0\n", want: "alsasink device=hw:1,0"},
		{name: "continuation", content: "[audio]\noutput = audioresample\n  ! audioconvert\n  ! alsasink\n[http]\nport = 6680\n", want: "audioresample ! audioconvert ! alsasink"},
		{name: "other section output ignored", content: "[stream]\noutput = nope\n[audio]\nmixer = software\n", wantErr: ErrNoOutput},
		{name: "missing section", content: "[core]\ncache_dir = /tmp\n", wantErr: ErrNoAudioSection},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ReadOutput(writeConfig(t, tc.content))
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadOutput: %v", err)
			}
			if got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestReadOutputMissingFile(t *testing.T) {
	_, err := ReadOutput(filepath.Join(t.TempDir(), "absent.conf"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
}

func TestWriteOutput(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		value    string
		want     string
		previous string
	}{
		{
			name:     "replace",
			content:  "[core]\ncache_dir = /tmp\n\n[audio]\nmixer = software\noutput = pulsesink\n\n[http]\nport = 6680\n",
			value:    "alsasink device=hw:1,0",
			want:     "[core]\ncache_dir = /tmp\n\n[audio]\nmixer = software\noutput = alsasink device=hw:1,0\n\n[http]\nport = 6680\n",
			previous: "pulsesink",
		},
		{
			name:    "insert after header",
			content: "[audio]\n# no output here yet\n",
			value:   "pulsesink jumbo",
			want:    "[audio]\noutput = pulsesink jumbo\n# no output here yet\n",
		},
		{
			name:     "replace continuation",
			content:  "[audio]\noutput = audioconvert\n  ! alsasink\nmixer = none\n",
			value:    "pulsesink",
			want:     "[audio]\noutput = pulsesink\nmixer = none\n",
			previous: "audioconvert ! alsasink",
		},
		{
			name:    "header without newline",
			content: "[audio]",
			value:   "alsasink",
			want:    "[audio]\noutput = alsasink\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.content)
			previous, err := WriteOutput(context.Background(), path, tc.value)
			if err != nil {
				t.Fatalf("WriteOutput: %v", err)
			}
			if previous != tc.previous {
				t.Fatalf("previous: got %q want %q", previous, tc.previous)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != tc.want {
				t.Fatalf("content:\n%s\nwant:\n%s", data, tc.want)
			}
			info, err := os.Stat(path)
			if err != nil {
				t.Fatal(err)
			}
			if info.Mode().Perm() != 0o640 {
				t.Fatalf("expected permissions preserved, got %v", info.Mode().Perm())
			}
		})
	}
}

func TestWriteOutputErrors(t *testing.T) {
	if _, err := WriteOutput(context.Background(), filepath.Join(t.TempDir(), "absent.conf"), "x"); !errors.Is(err, ErrConfigNotFound) {
		t.Fatalf("expected ErrConfigNotFound, got %v", err)
	}
	path := writeConfig(t, "[core]\ncache_dir = /tmp\n")
	if _, err := WriteOutput(context.Background(), path, "x"); !errors.Is(err, ErrNoAudioSection) {
		t.Fatalf("expected ErrNoAudioSection, got %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "[core]\ncache_dir = /tmp\n" {
		t.Fatalf("config must be untouched on error, got %q", data)
	}
}
