package payload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Installed describes the outcome of Install.
type Installed struct {
	Path string

	// Previous is the version of the replaced payload, if it had one.
	Previous *Version
}

// Install writes data to dst through a temporary file and a rename, so dst
// never holds a partial payload. The version of a payload already at dst is
// reported in Previous.
func (e *Extractor) Install(dst string, data []byte) (*Installed, error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return nil, fmt.Errorf("create payload dir: %w", err)
	}

	installed := &Installed{Path: dst}

	previous, err := os.ReadFile(dst)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read existing payload: %w", err)
	default:
		if v, ok := e.Extract(previous); ok {
			installed.Previous = &v
		}
	}

	if err := writeAtomic(dst, data); err != nil {
		return nil, fmt.Errorf("install payload: %w", err)
	}

	return installed, nil
}

func writeAtomic(dst string, data []byte) error {
	tmpPath := dst + ".tmp"
	tmpFile, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	// Track whether we need to clean up the temp file
	cleanupNeeded := true
	defer func() {
		tmpFile.Close()
		if cleanupNeeded {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	cleanupNeeded = false
	return nil
}
