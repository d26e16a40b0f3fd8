package payload

import (
	"os"
	"path/filepath"
	"testing"
)

func TestInstallFresh(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "luma", "boot.firm")
	data := []byte("Luma3DS v13.1-abc1234 configuration")

	installed, err := defaultExtractor.Install(dst, data)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if installed.Path != dst {
		t.Errorf("Path = %q, want %q", installed.Path, dst)
	}
	if installed.Previous != nil {
		t.Errorf("fresh install reported a previous version: %+v", installed.Previous)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read installed payload: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("installed payload = %q, want %q", got, data)
	}

	if _, err := os.Stat(dst + ".tmp"); !os.IsNotExist(err) {
		t.Error("temporary file was left behind")
	}
}

func TestInstallReplacesPrevious(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "boot.firm")
	if err := os.WriteFile(dst, []byte("Luma3DS v12.0 configuration"), 0644); err != nil {
		t.Fatalf("failed to write old payload: %v", err)
	}

	data := []byte("Luma3DS v13.0 configuration")
	installed, err := defaultExtractor.Install(dst, data)
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}

	if installed.Previous == nil || installed.Previous.Release != "12.0" {
		t.Errorf("Previous = %+v, want release 12.0", installed.Previous)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("failed to read installed payload: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("installed payload = %q, want %q", got, data)
	}
}

func TestInstallUnversionedPrevious(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "boot.firm")
	if err := os.WriteFile(dst, []byte("old"), 0644); err != nil {
		t.Fatalf("failed to write old payload: %v", err)
	}

	installed, err := defaultExtractor.Install(dst, []byte("new"))
	if err != nil {
		t.Fatalf("Install() error = %v", err)
	}
	if installed.Previous != nil {
		t.Errorf("Previous = %+v, want nil", installed.Previous)
	}
}

func TestInstallIntoFile(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "sd")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("failed to write blocker: %v", err)
	}

	if _, err := defaultExtractor.Install(filepath.Join(blocker, "boot.firm"), []byte("data")); err == nil {
		t.Error("Install() expected error when the parent is a file")
	}
}
