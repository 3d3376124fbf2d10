package audiomode

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"hauski/internal/fileutil"
)

var (
	// ErrConfigNotFound reports a missing Mopidy config file.
	ErrConfigNotFound = errors.New("config file not found")
	// ErrNoAudioSection reports a config without an [audio] section.
	ErrNoAudioSection = errors.New("no [audio] section")
	// ErrNoOutput reports an [audio] section without an output key.
	ErrNoOutput = errors.New("no output key in [audio] section")
)

const lockTimeout = 5 * time.Second

var (
	sectionPattern = regexp.MustCompile(`^\s*\[([^\]]+)\]\s*$`)
	outputPattern  = regexp.MustCompile(`^output\s*[=:]\s*(.*)$`)
)

type audioSection struct {
	lines []string
	// header is the index of the [audio] line, end the index of the first
	// line after the section.
	header, end int
	// key and keyEnd bound the output entry including continuation lines;
	// key is -1 when the section has no output entry.
	key, keyEnd int
	value       string
}

func parseAudioSection(content string) (*audioSection, bool) {
	lines := strings.SplitAfter(content, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	sec := &audioSection{lines: lines, header: -1, key: -1}
	for i, line := range lines {
		m := sectionPattern.FindStringSubmatch(strings.TrimRight(line, "\r\n"))
		if m == nil {
			continue
		}
		if sec.header >= 0 {
			sec.end = i
			break
		}
		if strings.TrimSpace(m[1]) == "audio" {
			sec.header = i
			sec.end = len(lines)
		}
	}
	if sec.header < 0 {
		return nil, false
	}

	for i := sec.header + 1; i < sec.end; i++ {
		line := strings.TrimRight(sec.lines[i], "\r\n")
		if line == "" || line[0] == ' ' || line[0] == '\t' || line[0] == '#' || line[0] == ';' {
			continue
		}
		m := outputPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		sec.key = i
		sec.keyEnd = i + 1
		value := strings.TrimSpace(m[1])
		for j := i + 1; j < sec.end; j++ {
			next := strings.TrimRight(sec.lines[j], "\r\n")
			if next == "" || (next[0] != ' ' && next[0] != '\t') {
				break
			}
			value = strings.TrimSpace(value + " " + strings.TrimSpace(next))
			sec.keyEnd = j + 1
		}
		sec.value = value
		break
	}
	return sec, true
}

func (s *audioSection) withOutput(value string) string {
	entry := "output = " + value + "\n"
	var out []string
	if s.key >= 0 {
		out = append(out, s.lines[:s.key]...)
		out = append(out, entry)
		out = append(out, s.lines[s.keyEnd:]...)
	} else {
		header := s.lines[s.header]
		if !strings.HasSuffix(header, "\n") {
			header += "\n"
		}
		out = append(out, s.lines[:s.header]...)
		out = append(out, header, entry)
		out = append(out, s.lines[s.header+1:]...)
	}
	return strings.Join(out, "")
}

func readConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// ReadOutput returns the current [audio] output value of the config at path.
func ReadOutput(path string) (string, error) {
	content, err := readConfig(path)
	if err != nil {
		return "", err
	}
	sec, ok := parseAudioSection(content)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoAudioSection, path)
	}
	if sec.key < 0 {
		return "", fmt.Errorf("%w of %s", ErrNoOutput, path)
	}
	return sec.value, nil
}

// WriteOutput sets the [audio] output value and returns the previous value
// (empty when the key was absent). The file is rewritten under an exclusive
// lock and replaced atomically with its original permissions.
func WriteOutput(ctx context.Context, path, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("output value must not be empty")
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return "", fmt.Errorf("stat %s: %w", path, err)
	}

	lockCtx, cancel := context.WithTimeout(ctx, lockTimeout)
	defer cancel()
	lock := flock.New(path + ".lock")
	locked, err := lock.TryLockContext(lockCtx, 100*time.Millisecond)
	if err != nil {
		return "", fmt.Errorf("lock %s: %w", path, err)
	}
	if !locked {
		return "", fmt.Errorf("lock %s: held by another process", path)
	}
	defer lock.Unlock()

	content, err := readConfig(path)
	if err != nil {
		return "", err
	}
	sec, ok := parseAudioSection(content)
	if !ok {
		return "", fmt.Errorf("%w in %s", ErrNoAudioSection, path)
	}
	previous := sec.value
	if err := fileutil.WriteFileAtomic(path, []byte(sec.withOutput(value)), info.Mode().Perm()); err != nil {
		return "", fmt.Errorf("rewrite %s: %w", path, err)
	}
	return previous, nil
}
