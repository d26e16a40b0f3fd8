package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/dustin/go-humanize"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/config"
	"github.com/ZebulonRouseFrantzich/lumafetch/internal/fetch"
	"github.com/ZebulonRouseFrantzich/lumafetch/internal/integrity"
	"github.com/ZebulonRouseFrantzich/lumafetch/internal/logging"
	"github.com/ZebulonRouseFrantzich/lumafetch/internal/payload"
)

// partialSuffix names the file holding an interrupted download.
const partialSuffix = ".part"

// FetchFlags holds command-line flags for fetch
type FetchFlags struct {
	configPath   string
	source       string
	output       string
	verbose      bool
	resume       bool
	noVerify     bool
	force        bool
	signatureURL string
	keyring      string
}

const fetchUsage = "fetch [options]"

// parseFetchFlags parses command-line flags for fetch command
func parseFetchFlags(args []string, stdout io.Writer) (*FetchFlags, error) {
	flags := &FetchFlags{}

	fs := newFlagSet("fetch")
	fs.StringVarP(&flags.configPath, "config", "c", "", "configuration file (default: user config dir)")
	fs.StringVarP(&flags.source, "source", "s", config.SourceStable, "release channel (stable, hourly) or URL")
	fs.StringVarP(&flags.output, "output", "o", "", "payload path (default: payload.path from config)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "show progress and debug logs")
	fs.BoolVar(&flags.resume, "resume", false, "continue an interrupted download")
	fs.BoolVar(&flags.noVerify, "no-verify", false, "skip ETag/Content-MD5 verification")
	fs.BoolVarP(&flags.force, "force", "f", false, "install even if no version string is found")
	fs.StringVar(&flags.signatureURL, "signature", "", "URL of a detached OpenPGP signature to check")
	fs.StringVar(&flags.keyring, "keyring", "", "OpenPGP keyring (default: verify.keyring from config)")

	if err := parseFlags(fs, args, fetchUsage, stdout); err != nil {
		return nil, err
	}

	if fs.NArg() > 0 {
		return nil, fmt.Errorf("fetch: unexpected argument: %s", fs.Arg(0))
	}

	return flags, nil
}

// runFetch executes the fetch command
func runFetch(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags, err := parseFetchFlags(args, stdout)
	if err != nil {
		return err
	}

	logger, sync, err := logging.NewZap(flags.verbose)
	if err != nil {
		return err
	}
	defer sync()

	cfg, err := loadConfig(ctx, flags.configPath, logger)
	if err != nil {
		return err
	}

	sourceURL, err := cfg.ResolveSource(flags.source)
	if err != nil {
		return err
	}

	output := flags.output
	if output == "" {
		output = cfg.Payload.Path
	}

	extractor, err := payload.NewExtractor(cfg.Payload.Marker)
	if err != nil {
		return fmt.Errorf("payload marker %q: %w", cfg.Payload.Marker, err)
	}

	var keyring openpgp.EntityList
	if flags.signatureURL != "" {
		keyringPath := flags.keyring
		if keyringPath == "" {
			keyringPath = cfg.Verify.Keyring
		}
		if keyringPath == "" {
			return fmt.Errorf("--signature needs a keyring (--keyring or verify.keyring)")
		}
		keyring, err = loadKeyringFile(keyringPath)
		if err != nil {
			return err
		}
	}

	session := fetch.NewSession(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Fetch.Timeout()}),
		fetch.WithUserAgent(cfg.Fetch.UserAgent),
		fetch.WithMaxRedirects(cfg.Fetch.MaxRedirects),
		fetch.WithMaxSize(cfg.Fetch.MaxSize()),
		fetch.WithLogger(logger),
	)
	defer session.Close()

	ctx, cancel := context.WithTimeout(ctx, cfg.Fetch.Timeout())
	defer cancel()

	partialPath := output + partialSuffix
	opts := fetch.Options{
		Verbose:      flags.verbose,
		WantMetadata: true,
	}

	if flags.resume {
		prefix, err := os.ReadFile(partialPath)
		switch {
		case errors.Is(err, os.ErrNotExist):
			logger.Info("nothing to resume", "path", partialPath)
		case err != nil:
			return fmt.Errorf("read partial download: %w", err)
		default:
			opts.Resume = prefix
		}
	}

	var progress *progressPrinter
	if flags.verbose {
		progress = newProgressPrinter(stderr)
		opts.Progress = progress.Update
	}

	fmt.Fprintf(stdout, "Downloading %s\n", config.RedactURL(sourceURL))
	result, err := session.Fetch(ctx, sourceURL, opts)
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		savePartial(err, partialPath, stdout, logger)
		return fmt.Errorf("download %s: %w", config.RedactURL(sourceURL), err)
	}

	logger.Debug("download complete",
		"url", config.RedactURL(result.URL),
		"size", result.Size,
		"redirects", result.Redirects,
		"resumed", result.Resumed)
	fmt.Fprintf(stdout, "Received %s\n", humanize.IBytes(uint64(result.Size)))

	if !flags.noVerify {
		if err := verifyDownload(result, cfg.Verify.RequireDigest, stdout, logger); err != nil {
			// A corrupt body must not seed the next resume.
			os.Remove(partialPath)
			return err
		}
	}

	if flags.signatureURL != "" {
		if err := verifyDownloadSignature(ctx, session, flags.signatureURL, keyring, result.Data); err != nil {
			return err
		}
		fmt.Fprintln(stdout, "Signature OK")
	}

	data := result.Data
	if payload.IsArchive(data) {
		member := filepath.Base(output)
		data, err = payload.ExtractMember(data, member)
		if err != nil {
			return fmt.Errorf("extract %s: %w", member, err)
		}
		logger.Debug("extracted payload from archive", "member", member, "size", len(data))
	}

	version, found := extractor.Extract(data)
	if !found {
		if !flags.force {
			return fmt.Errorf("no %q version string in download; use --force to install anyway", cfg.Payload.Marker)
		}
		logger.Warn("installing payload without a version string", "marker", cfg.Payload.Marker)
	}

	installed, err := extractor.Install(output, data)
	if err != nil {
		return err
	}
	if err := os.Remove(partialPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not remove partial download", "path", partialPath, "error", err)
	}

	if installed.Previous != nil {
		fmt.Fprintf(stdout, "Replaced Luma3DS %s\n", installed.Previous)
	}

	if found {
		fmt.Fprintf(stdout, "Installed Luma3DS %s to %s\n", version, output)
	} else {
		fmt.Fprintf(stdout, "Installed payload to %s\n", output)
	}
	return nil
}

// verifyDownload checks the body against the response digests.
func verifyDownload(result *fetch.Result, requireDigest bool, stdout io.Writer, logger logging.Logger) error {
	var etag, contentMD5 string
	if result.Metadata != nil {
		etag, contentMD5 = result.Metadata.ETag, result.Metadata.ContentMD5
	}

	method, err := integrity.VerifyMetadata(etag, contentMD5, result.Data)
	switch {
	case errors.Is(err, integrity.ErrNoDigest):
		if requireDigest {
			return fmt.Errorf("verify download: %w", err)
		}
		logger.Warn("download not verified: no usable ETag or Content-MD5", "etag", etag)
		fmt.Fprintln(stdout, "Not verified: server sent no usable digest")
		return nil
	case err != nil:
		return fmt.Errorf("verify download with %s: %w", method, err)
	}

	fmt.Fprintf(stdout, "Verified with %s\n", method)
	return nil
}

func verifyDownloadSignature(ctx context.Context, session *fetch.Session, url string, keyring openpgp.EntityList, data []byte) error {
	sig, err := session.Fetch(ctx, url, fetch.Options{})
	if err != nil {
		return fmt.Errorf("download signature: %w", err)
	}
	return integrity.VerifySignature(keyring, data, sig.Data)
}

// savePartial keeps the bytes of an interrupted download for --resume.
func savePartial(err error, path string, stdout io.Writer, logger logging.Logger) {
	var transportErr *fetch.TransportError
	if !errors.As(err, &transportErr) || len(transportErr.Partial) == 0 {
		return
	}

	if mkErr := os.MkdirAll(filepath.Dir(path), 0755); mkErr != nil {
		logger.Warn("could not save partial download", "path", path, "error", mkErr)
		return
	}
	if writeErr := os.WriteFile(path, transportErr.Partial, 0644); writeErr != nil {
		logger.Warn("could not save partial download", "path", path, "error", writeErr)
		return
	}
	fmt.Fprintf(stdout, "Saved %s to %s; rerun with --resume to continue\n",
		humanize.IBytes(uint64(len(transportErr.Partial))), path)
}

func loadKeyringFile(path string) (openpgp.EntityList, error) {
	// #nosec G304 -- keyring path is chosen by the user running the command
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer f.Close()

	return integrity.LoadKeyring(f)
}
