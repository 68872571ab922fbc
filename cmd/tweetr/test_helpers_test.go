package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	homeDir   string
	configDir string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("TWEETR_CONFIG_DIR", "")
	t.Setenv("TWEETR_API_BASE_URL", "")

	return &cliTestEnv{
		homeDir:   homeDir,
		configDir: filepath.Join(base, "tweetr"),
	}
}

func (e *cliTestEnv) path(name string) string {
	return filepath.Join(e.configDir, name)
}

// runCLI executes the command tree against the env's config directory and
// returns stdout, stderr and the exit code.
func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, string, int) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	flags := []string{"--config-dir", env.configDir}
	code := run(append(flags, args...), strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func requireCode(t *testing.T, got, want int, stderr string) {
	t.Helper()
	if got != want {
		t.Fatalf("exit code = %d, want %d (stderr %q)", got, want, stderr)
	}
}
