package aicontext

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// ErrUnusable marks inputs that cannot be validated at all.
var ErrUnusable = errors.New("ai-context input unusable")

// TemplatePattern selects template files inside a templates directory.
const TemplatePattern = "*.ai-context.yml"

// RE2's \b only knows ASCII word characters; placeholder boundaries treat any
// Unicode letter or digit as part of the word.
var placeholderPattern = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_])(?:TODO|TBD|FIXME|lorem|ipsum)(?:[^\p{L}\p{N}_]|$)`)

// Problem is a single content violation in a file.
type Problem struct {
	Path    string
	Message string
}

func (p Problem) String() string {
	return p.Path + ": " + p.Message
}

func unusable(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrUnusable, fmt.Sprintf(format, args...))
}

// UnusableDetail strips the sentinel prefix from an ErrUnusable error so the
// message can be printed as-is.
func UnusableDetail(err error) string {
	msg := err.Error()
	return strings.TrimPrefix(msg, ErrUnusable.Error()+": ")
}

// ValidateFile checks a single file.
func ValidateFile(path string) ([]Problem, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, unusable("file missing: %s", path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	doc, err := load(path)
	if err != nil {
		return nil, err
	}
	return check(path, doc), nil
}

// ValidateTemplates checks every template in dir, in lexical order.
func ValidateTemplates(dir string) ([]Problem, error) {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, unusable("templates dir missing: %s", dir)
	}
	files, err := filepath.Glob(filepath.Join(dir, TemplatePattern))
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if len(files) == 0 {
		return nil, unusable("no template files found in %s", dir)
	}
	sort.Strings(files)

	var problems []Problem
	for _, path := range files {
		doc, err := load(path)
		if err != nil {
			return nil, err
		}
		problems = append(problems, check(path, doc)...)
	}
	return problems, nil
}

func load(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, unusable("%s: YAML parse failed: %v", path, err)
	}
	doc, ok := asMap(raw)
	if !ok {
		return nil, unusable("%s: top-level must be a mapping/object", path)
	}
	return doc, nil
}

func check(path string, doc map[string]any) []Problem {
	var messages []string
	for _, key := range []string{"project.name", "project.summary", "project.role"} {
		if strings.TrimSpace(lookupString(doc, key)) == "" {
			messages = append(messages, "missing "+key)
		}
	}
	for _, key := range []string{"ai_guidance.do", "ai_guidance.dont"} {
		if len(lookupList(doc, key)) == 0 {
			messages = append(messages, key+" must not be empty")
		}
	}
	if hasPlaceholder(doc) {
		messages = append(messages, "contains placeholders (TODO/TBD/FIXME/lorem/ipsum)")
	}

	problems := make([]Problem, 0, len(messages))
	for _, msg := range messages {
		problems = append(problems, Problem{Path: path, Message: msg})
	}
	return problems
}

// asMap accepts both decoded mapping shapes yaml.v3 produces.
func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

func lookup(doc map[string]any, dotted string) (any, bool) {
	var cur any = doc
	for _, key := range strings.Split(dotted, ".") {
		m, ok := asMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[key]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func lookupString(doc map[string]any, dotted string) string {
	v, _ := lookup(doc, dotted)
	s, _ := v.(string)
	return s
}

func lookupList(doc map[string]any, dotted string) []any {
	v, _ := lookup(doc, dotted)
	l, _ := v.([]any)
	return l
}

func hasPlaceholder(v any) bool {
	switch val := v.(type) {
	case string:
		// Compatibility forms such as full-width letters count as placeholders too.
		return placeholderPattern.MatchString(norm.NFKC.String(val))
	case []any:
		for _, item := range val {
			if hasPlaceholder(item) {
				return true
			}
		}
	default:
		if m, ok := asMap(val); ok {
			for _, item := range m {
				if hasPlaceholder(item) {
					return true
				}
			}
		}
	}
	return false
}
