package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/config"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run dispatches a subcommand and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printUsage(stdout)
		return 0
	}

	var err error
	switch args[0] {
	case "--version":
		fmt.Fprintf(stdout, "lumafetch %s\n", Version)
		return 0
	case "help", "--help", "-h":
		printUsage(stdout)
		return 0
	case "fetch":
		err = runFetch(ctx, args[1:], stdout, stderr)
	case "verify":
		err = runVerify(args[1:], stdout)
	case "version":
		err = runVersion(args[1:], stdout)
	case "init":
		err = runInit(args[1:], stdout)
	default:
		fmt.Fprintf(stderr, "Error: unknown command: %s\n\n", args[0])
		printUsage(stderr)
		return 2
	}

	if errors.Is(err, errHelpShown) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", config.FormatError(err, false))
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "lumafetch - download, verify and inspect Luma3DS payloads")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  lumafetch --version                     Show version information")
	fmt.Fprintln(w, "  lumafetch fetch [options]               Download, verify and install a payload")
	fmt.Fprintln(w, "  lumafetch verify [options] <file>       Check a file against a digest or signature")
	fmt.Fprintln(w, "  lumafetch version [options] <file>      Print the version embedded in a payload")
	fmt.Fprintln(w, "  lumafetch init [options]                Write a default configuration file")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'lumafetch <command> --help' for command options.")
}

// newFlagSet returns a flag set that reports errors to the caller instead of
// printing them.
func newFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false
	return fs
}

// errHelpShown is returned by flag parsers after printing help.
var errHelpShown = errors.New("help shown")

// parseFlags parses args and prints help on -h or --help.
func parseFlags(fs *pflag.FlagSet, args []string, usage string, stdout io.Writer) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			fmt.Fprintf(stdout, "Usage: lumafetch %s\n\nOptions:\n%s", usage, fs.FlagUsages())
			return errHelpShown
		}
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	return nil
}
