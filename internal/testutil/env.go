// Package testutil provides utilities for testing lumafetch in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points the user config and home directories at fresh
// temporary directories so tests never read or write the user's real
// lumafetch configuration. It returns the directory os.UserConfigDir now
// reports.
//
// The cleanup function is automatically handled by t.TempDir(),
// so callers don't need to manually clean up.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()
	homeDir := filepath.Join(tmpDir, "home")
	configDir := filepath.Join(tmpDir, "config")

	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_CONFIG_HOME", configDir)

	for _, dir := range []string{homeDir, configDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	userConfigDir, err := os.UserConfigDir()
	if err != nil {
		t.Fatalf("failed to resolve user config dir: %v", err)
	}
	return userConfigDir
}
