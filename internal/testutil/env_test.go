package testutil_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/testutil"
)

func TestSetupTestEnv(t *testing.T) {
	realHome, _ := os.UserHomeDir()

	configDir := testutil.SetupTestEnv(t)

	got, err := os.UserConfigDir()
	if err != nil {
		t.Fatalf("UserConfigDir() error = %v", err)
	}
	if got != configDir {
		t.Errorf("UserConfigDir() = %q, want %q", got, configDir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("UserHomeDir() error = %v", err)
	}
	if realHome != "" && home == realHome {
		t.Error("HOME still points at the real home directory")
	}
	if _, err := os.Stat(home); err != nil {
		t.Errorf("home directory not created: %v", err)
	}

	probe := filepath.Join(configDir, "lumafetch", "probe")
	if err := os.MkdirAll(filepath.Dir(probe), 0755); err != nil {
		t.Fatalf("config dir not writable: %v", err)
	}
	if realHome != "" && strings.HasPrefix(probe, realHome+string(filepath.Separator)) {
		t.Errorf("config dir %q is inside the real home", configDir)
	}
}
