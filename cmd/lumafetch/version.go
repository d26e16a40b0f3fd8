package main

import (
	"fmt"
	"io"
	"os"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/payload"
)

// VersionFlags holds command-line flags for version
type VersionFlags struct {
	marker string
	record bool
	member string
	file   string
}

const versionUsage = "version [options] <file>"

// parseVersionFlags parses command-line flags for version command
func parseVersionFlags(args []string, stdout io.Writer) (*VersionFlags, error) {
	flags := &VersionFlags{}

	fs := newFlagSet("version")
	fs.StringVarP(&flags.marker, "marker", "m", payload.DefaultMarker, "text that precedes the version string")
	fs.BoolVar(&flags.record, "record", false, "read a binary version record instead of a payload")
	fs.StringVar(&flags.member, "member", "boot.firm", "payload file name inside a zip or tar.gz archive")

	if err := parseFlags(fs, args, versionUsage, stdout); err != nil {
		return nil, err
	}

	if fs.NArg() != 1 {
		return nil, fmt.Errorf("version: expected exactly one file")
	}
	flags.file = fs.Arg(0)

	return flags, nil
}

// runVersion executes the version command
func runVersion(args []string, stdout io.Writer) error {
	flags, err := parseVersionFlags(args, stdout)
	if err != nil {
		return err
	}

	// #nosec G304 -- file is chosen by the user running the command
	data, err := os.ReadFile(flags.file)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if flags.record {
		v, err := payload.ParseRecord(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, v)
		return nil
	}

	extractor, err := payload.NewExtractor(flags.marker)
	if err != nil {
		return fmt.Errorf("marker %q: %w", flags.marker, err)
	}

	if payload.IsArchive(data) {
		data, err = payload.ExtractMember(data, flags.member)
		if err != nil {
			return err
		}
	}

	v, ok := extractor.Extract(data)
	if !ok {
		return fmt.Errorf("no %q version string found in %s", flags.marker, flags.file)
	}

	fmt.Fprintln(stdout, v)
	return nil
}
