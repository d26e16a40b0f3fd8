package fetch

import (
	"net/http"
	"time"

	"github.com/ZebulonRouseFrantzich/lumafetch/internal/logging"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 5 * time.Minute
	// DefaultMaxRedirects bounds the redirect chain followed by Fetch
	DefaultMaxRedirects = 10
	// DefaultMaxSize is the largest body Fetch will buffer (256 MiB)
	DefaultMaxSize int64 = 256 << 20
	// DefaultUserAgent is the User-Agent header sent with requests
	DefaultUserAgent = "lumafetch/1.0"
)

// Session holds the HTTP client and limits shared by a caller's downloads.
// A Session may be used by several goroutines; each Fetch owns its own
// request and buffer.
type Session struct {
	client       *http.Client
	userAgent    string
	maxRedirects int
	maxSize      int64
	logger       logging.Logger
	memory       MemoryProbe
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithHTTPClient uses a copy of client for requests. Its redirect policy is
// replaced so that Fetch sees every 3xx response.
func WithHTTPClient(client *http.Client) SessionOption {
	return func(s *Session) {
		if client == nil {
			return
		}
		c := *client
		s.client = &c
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) SessionOption {
	return func(s *Session) {
		if userAgent != "" {
			s.userAgent = userAgent
		}
	}
}

// WithMaxRedirects sets how many redirects Fetch follows before failing
// with ErrTooManyRedirects. Zero disables redirects.
func WithMaxRedirects(n int) SessionOption {
	return func(s *Session) {
		if n >= 0 {
			s.maxRedirects = n
		}
	}
}

// WithMaxSize caps the size of a single download buffer.
func WithMaxSize(n int64) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxSize = n
		}
	}
}

// WithLogger sets the logger used for redirects, header and progress events.
func WithLogger(logger logging.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logging.OrNop(logger)
	}
}

// WithMemoryProbe replaces the available-memory check made before a buffer
// is allocated. A nil probe disables the check.
func WithMemoryProbe(probe MemoryProbe) SessionOption {
	return func(s *Session) {
		s.memory = probe
	}
}

// NewSession creates a session. Close it when done.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		userAgent:    DefaultUserAgent,
		maxRedirects: DefaultMaxRedirects,
		maxSize:      DefaultMaxSize,
		logger:       logging.Nop(),
		memory:       AvailableMemory,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Redirects are handled by Fetch so the hop count and Location bound
	// apply uniformly.
	s.client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return s
}

// Close releases idle connections held by the session.
func (s *Session) Close() {
	s.client.CloseIdleConnections()
}
