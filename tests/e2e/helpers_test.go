package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildDvBinary builds ./cmd/dv into a temp dir and returns its path.
func buildDvBinary(t *testing.T) string {
	t.Helper()
	binPath := filepath.Join(t.TempDir(), "dv")

	cmd := exec.Command("go", "build", "-o", binPath, "./cmd/dv")
	cmd.Dir = "../../" // Run from project root
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Build failed: %v\n%s", err, out)
	}
	return binPath
}

// writeDeck writes a deck file into dir and returns its path.
func writeDeck(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

// dvCommand runs the binary in env with a clean DV_* environment.
func dvCommand(bin, env string, args ...string) *exec.Cmd {
	cmd := exec.Command(bin, args...)
	cmd.Dir = env
	cmd.Env = append(os.Environ(), "DV_LOG_LEVEL=info")
	return cmd
}
