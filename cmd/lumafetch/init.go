package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/config"
)

// InitFlags holds command-line flags for init
type InitFlags struct {
	configPath string
	force      bool
}

const initUsage = "init [options]"

// parseInitFlags parses command-line flags for init command
func parseInitFlags(args []string, stdout io.Writer) (*InitFlags, error) {
	flags := &InitFlags{}

	fs := newFlagSet("init")
	fs.StringVarP(&flags.configPath, "config", "c", "", "where to write the file (default: user config dir)")
	fs.BoolVarP(&flags.force, "force", "f", false, "overwrite an existing file")

	if err := parseFlags(fs, args, initUsage, stdout); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("init: unexpected argument: %s", fs.Arg(0))
	}

	return flags, nil
}

// runInit writes the default configuration to disk.
func runInit(args []string, stdout io.Writer) error {
	flags, err := parseInitFlags(args, stdout)
	if err != nil {
		return err
	}

	path := flags.configPath
	if path == "" {
		path = defaultConfigPath()
	}
	if path == "" {
		return fmt.Errorf("cannot determine config directory; use --config")
	}

	if _, err := os.Stat(path); err == nil && !flags.force {
		return fmt.Errorf("%s already exists; use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("check config file: %w", err)
	}

	code, err := config.NewGenerator().Generate(config.Default())
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	if err := os.WriteFile(path, []byte(code), 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	fmt.Fprintf(stdout, "Wrote %s\n", path)
	return nil
}
