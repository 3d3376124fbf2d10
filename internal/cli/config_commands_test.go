package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, stderr, code := runRoot(t, "config", "validate")
	requireExit(t, code, 0, stderr)
	requireContains(t, out, "defaults were used")
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(env.home, "custom", "config.toml")
	out, stderr, code = runRoot(t, "config", "init", "--path", target)
	requireExit(t, code, 0, stderr)
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	_, stderr, code = runRoot(t, "config", "init", "--path", target)
	requireExit(t, code, 1, stderr)
	requireContains(t, stderr, "already exists")

	out, stderr, code = runRoot(t, "config", "validate", "--hauski-config", target)
	requireExit(t, code, 0, stderr)
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Configuration valid")
}

func TestConfigValidateRejectsUnknownKeys(t *testing.T) {
	env := setupCLITestEnv(t)
	target := filepath.Join(env.home, "bad.toml")
	if err := os.WriteFile(target, []byte("[recording]\nbitrate = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, stderr, code := runRoot(t, "config", "validate", "--hauski-config", target)
	requireExit(t, code, 2, stderr)
}
