package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/fetch"
	"github.com/ZebulonRouseFrantzich/lumafetch/internal/payload"
)

// Config is the complete lumafetch configuration.
type Config struct {
	Fetch   FetchOptions
	Payload PayloadOptions
	Sources Sources
	Verify  VerifyOptions
}

// FetchOptions controls the HTTP session.
type FetchOptions struct {
	UserAgent      string
	MaxRedirects   int
	MaxSizeMB      int
	TimeoutSeconds int
}

// Timeout returns the whole-download deadline.
func (f FetchOptions) Timeout() time.Duration {
	return time.Duration(f.TimeoutSeconds) * time.Second
}

// MaxSize returns the body size limit in bytes.
func (f FetchOptions) MaxSize() int64 {
	return int64(f.MaxSizeMB) << 20
}

// PayloadOptions describes the installed payload.
type PayloadOptions struct {
	// Path is where the payload is written.
	Path string

	// Marker precedes the version string inside the payload.
	Marker string
}

// Sources maps release channels to download URLs.
type Sources struct {
	Stable string
	Hourly string
}

// VerifyOptions controls download verification.
type VerifyOptions struct {
	// RequireDigest fails a download whose response carries no usable ETag
	// or Content-MD5.
	RequireDigest bool

	// Keyring is an OpenPGP public keyring used for detached signatures.
	Keyring string
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Fetch: FetchOptions{
			UserAgent:      fetch.DefaultUserAgent,
			MaxRedirects:   fetch.DefaultMaxRedirects,
			MaxSizeMB:      int(fetch.DefaultMaxSize >> 20),
			TimeoutSeconds: int(fetch.DefaultTimeout / time.Second),
		},
		Payload: PayloadOptions{
			Path:   "/boot.firm",
			Marker: payload.DefaultMarker,
		},
	}
}

// Validate checks value ranges and URL forms. The marker is only checked for
// emptiness here; payload.NewExtractor enforces the rest when it is used.
func (c *Config) Validate() error {
	if err := validateUserAgent(c.Fetch.UserAgent); err != nil {
		return &ValidationError{Field: "fetch.user_agent", Message: err.Error()}
	}

	if c.Fetch.MaxRedirects < 0 || c.Fetch.MaxRedirects > MaxRedirectLimit {
		return &ValidationError{
			Field:   "fetch.max_redirects",
			Message: fmt.Sprintf("must be between 0 and %d (got %d)", MaxRedirectLimit, c.Fetch.MaxRedirects),
		}
	}

	if c.Fetch.MaxSizeMB <= 0 || c.Fetch.MaxSizeMB > MaxSizeLimitMB {
		return &ValidationError{
			Field:   "fetch.max_size_mb",
			Message: fmt.Sprintf("must be between 1 and %d (got %d)", MaxSizeLimitMB, c.Fetch.MaxSizeMB),
		}
	}

	if c.Fetch.TimeoutSeconds <= 0 {
		return &ValidationError{
			Field:   "fetch.timeout_seconds",
			Message: fmt.Sprintf("must be positive (got %d)", c.Fetch.TimeoutSeconds),
		}
	}

	if c.Payload.Path == "" {
		return &ValidationError{Field: "payload.path", Message: "path cannot be empty"}
	}

	if c.Payload.Marker == "" {
		return &ValidationError{Field: "payload.marker", Message: "marker cannot be empty"}
	}

	if c.Sources.Stable != "" {
		if err := validateSourceURL(c.Sources.Stable); err != nil {
			return &ValidationError{Field: "sources.stable", Message: err.Error()}
		}
	}

	if c.Sources.Hourly != "" {
		if err := validateSourceURL(c.Sources.Hourly); err != nil {
			return &ValidationError{Field: "sources.hourly", Message: err.Error()}
		}
	}

	return nil
}

// ResolveSource maps a channel name to its configured URL. Any other value
// is treated as a URL and validated.
func (c *Config) ResolveSource(name string) (string, error) {
	var configured string
	switch name {
	case SourceStable:
		configured = c.Sources.Stable
	case SourceHourly:
		configured = c.Sources.Hourly
	default:
		if err := validateSourceURL(name); err != nil {
			return "", fmt.Errorf("source %q: %w", name, err)
		}
		return name, nil
	}

	if configured == "" {
		return "", fmt.Errorf("no URL configured for source %q", name)
	}
	return configured, nil
}

// ValidationError represents a config validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "config validation failed for " + e.Field + ": " + e.Message
	}
	return "config validation failed: " + e.Message
}

// validateSourceURL accepts absolute http and https URLs with a host.
func validateSourceURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if u.Scheme != "https" && u.Scheme != "http" {
		return fmt.Errorf("URL must use https:// or http:// scheme (got: %q)", u.Scheme)
	}

	if u.Host == "" {
		return fmt.Errorf("URL has no host")
	}

	return nil
}

// validateUserAgent rejects values that cannot be sent as a header.
func validateUserAgent(ua string) error {
	if strings.TrimSpace(ua) == "" {
		return fmt.Errorf("user agent cannot be empty")
	}

	if len(ua) > MaxUserAgentLength {
		return fmt.Errorf("user agent too long (%d chars, max %d)", len(ua), MaxUserAgentLength)
	}

	for _, r := range ua {
		if r < 0x20 || r == 0x7f {
			return fmt.Errorf("user agent contains control characters")
		}
	}

	return nil
}
