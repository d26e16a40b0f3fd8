package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/config"
	"github.com/ZebulonRouseFrantzich/lumafetch/internal/logging"
)

const configFileName = "lumafetch.lua"

// defaultConfigPath returns the per-user config location, or "" when the
// platform has none.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lumafetch", configFileName)
}

// loadConfig parses path, or the default location when path is empty. A
// missing default file yields config.Default.
func loadConfig(ctx context.Context, path string, logger logging.Logger) (*config.Config, error) {
	explicit := path != ""
	if !explicit {
		path = defaultConfigPath()
	}
	if path == "" {
		return config.Default(), nil
	}

	cfg, err := config.NewParser().WithLogger(logger).ParseFile(ctx, path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			logger.Debug("no config file, using defaults", "path", path)
			return config.Default(), nil
		}
		return nil, err
	}

	logger.Debug("loaded config", "path", path)
	return cfg, nil
}
