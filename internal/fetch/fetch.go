package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const (
	maxLocationLength   = 1024
	maxETagLength       = 512
	maxContentMD5Length = 24

	// unknownSizeChunk is the initial capacity used when the server does not
	// declare a Content-Length.
	unknownSizeChunk = 64 << 10
)

// Fetch downloads rawURL into memory, following redirects.
func (s *Session) Fetch(ctx context.Context, rawURL string, opts Options) (*Result, error) {
	current := rawURL

	for hops := 0; ; hops++ {
		result, next, err := s.fetchOnce(ctx, current, opts)
		if err != nil {
			return nil, err
		}

		if next == "" {
			result.Redirects = hops
			return result, nil
		}

		if hops >= s.maxRedirects {
			return nil, fmt.Errorf("%w: stopped after %d hops at %s", ErrTooManyRedirects, hops, current)
		}

		s.logger.Debug("following redirect", "from", current, "to", next)
		current = next
	}
}

// fetchOnce performs a single request. It returns either a completed result
// or the URL of the next hop. The response body is closed on every path.
func (s *Session) fetchOnce(ctx context.Context, rawURL string, opts Options) (*Result, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", &TransportError{Op: "request", URL: rawURL, Err: err}
	}

	req.Header.Set("User-Agent", s.userAgent)
	// Digests in ETag and Content-MD5 cover the stored bytes, so the body
	// must not be transparently decompressed.
	req.Header.Set("Accept-Encoding", "identity")
	if len(opts.Resume) > 0 {
		req.Header.Set("Range", fmt.Sprintf("bytes=%d-", len(opts.Resume)))
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, "", &TransportError{Op: "send", URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		next, err := redirectTarget(req.URL, resp)
		if err != nil {
			return nil, "", &TransportError{Op: "redirect", URL: rawURL, Err: err}
		}
		return nil, next, nil

	case resp.StatusCode == http.StatusOK:
		result, err := s.receive(ctx, resp, rawURL, nil, opts)
		return result, "", err

	case resp.StatusCode == http.StatusPartialContent && len(opts.Resume) > 0:
		if err := checkContentRange(resp.Header.Get("Content-Range"), int64(len(opts.Resume))); err != nil {
			return nil, "", &TransportError{Op: "resume", URL: rawURL, Err: err}
		}
		result, err := s.receive(ctx, resp, rawURL, opts.Resume, opts)
		if result != nil {
			result.Resumed = true
			// Content-MD5 on a 206 covers only the range sent; the entity tag
			// still names the whole resource.
			if result.Metadata != nil && result.Metadata.ContentMD5 != "" {
				s.logger.Debug("ignoring Content-MD5 of partial response", "url", rawURL)
				result.Metadata.ContentMD5 = ""
			}
		}
		return result, "", err

	default:
		return nil, "", &StatusError{Code: resp.StatusCode, URL: rawURL}
	}
}

// receive streams the body of a successful response into a freshly
// allocated buffer. prefix, when non-empty, is the already-held head of the
// resource and occupies the start of the buffer.
func (s *Session) receive(ctx context.Context, resp *http.Response, rawURL string, prefix []byte, opts Options) (*Result, error) {
	result := &Result{URL: rawURL}
	if opts.WantMetadata {
		result.Metadata = s.readMetadata(resp.Header)
	}

	if int64(len(prefix)) > s.maxSize {
		return nil, &AllocationError{Size: int64(len(prefix)), Err: fmt.Errorf("exceeds limit of %d bytes", s.maxSize)}
	}

	var (
		data []byte
		err  error
	)
	if resp.ContentLength < 0 {
		data, err = s.receiveUnknown(ctx, resp.Body, rawURL, prefix, opts)
	} else {
		data, err = s.receiveDeclared(ctx, resp.Body, rawURL, prefix, int64(len(prefix))+resp.ContentLength, opts)
	}
	if err != nil {
		return nil, err
	}

	result.Data = data
	result.Size = int64(len(data))
	return result, nil
}

// receiveDeclared fills a buffer of exactly size bytes.
func (s *Session) receiveDeclared(ctx context.Context, body io.Reader, rawURL string, prefix []byte, size int64, opts Options) ([]byte, error) {
	buf, err := s.allocate(ctx, size)
	if err != nil {
		return nil, err
	}

	pos := int64(copy(buf, prefix))
	for pos < size {
		n, readErr := body.Read(buf[pos:])
		pos += int64(n)
		s.report(opts, pos, size)

		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return nil, &TransportError{Op: "receive", URL: rawURL, Err: readErr, Partial: buf[:pos]}
		}
	}

	if pos < size {
		return nil, &TransportError{
			Op:      "receive",
			URL:     rawURL,
			Err:     fmt.Errorf("got %d of %d bytes: %w", pos, size, io.ErrUnexpectedEOF),
			Partial: buf[:pos],
		}
	}

	return buf, nil
}

// receiveUnknown reads a body without a declared length, growing the buffer
// up to the session size limit.
func (s *Session) receiveUnknown(ctx context.Context, body io.Reader, rawURL string, prefix []byte, opts Options) ([]byte, error) {
	initial := int64(len(prefix)) + unknownSizeChunk
	if initial > s.maxSize {
		initial = s.maxSize
	}
	buf, err := s.allocate(ctx, initial)
	if err != nil {
		return nil, err
	}
	buf = buf[:copy(buf, prefix)]

	for {
		if len(buf) == cap(buf) {
			if int64(len(buf)) >= s.maxSize {
				// A body of exactly maxSize bytes is still acceptable.
				var extra [1]byte
				_, err := io.ReadFull(body, extra[:])
				switch {
				case err == io.EOF:
					return buf, nil
				case err != nil:
					return nil, &TransportError{Op: "receive", URL: rawURL, Err: err, Partial: buf}
				}
				return nil, &AllocationError{
					Size: int64(len(buf)) + 1,
					Err:  fmt.Errorf("body exceeds limit of %d bytes", s.maxSize),
				}
			}
			grown := int64(cap(buf)) * 2
			if grown > s.maxSize {
				grown = s.maxSize
			}
			next := make([]byte, len(buf), grown)
			copy(next, buf)
			buf = next
		}

		n, readErr := body.Read(buf[len(buf):cap(buf)])
		buf = buf[:len(buf)+n]
		s.report(opts, int64(len(buf)), -1)

		if readErr == io.EOF {
			return buf, nil
		}
		if readErr != nil {
			return nil, &TransportError{Op: "receive", URL: rawURL, Err: readErr, Partial: buf}
		}
	}
}

// allocate checks size against the session limit and available memory and
// returns a zeroed buffer.
func (s *Session) allocate(ctx context.Context, size int64) ([]byte, error) {
	if size > s.maxSize {
		return nil, &AllocationError{Size: size, Err: fmt.Errorf("exceeds limit of %d bytes", s.maxSize)}
	}

	if s.memory != nil {
		available, err := s.memory(ctx)
		if err != nil {
			s.logger.Warn("memory probe failed", "error", err)
		} else if uint64(size) > available {
			return nil, &AllocationError{Size: size, Err: fmt.Errorf("only %d bytes available", available)}
		}
	}

	return make([]byte, size), nil
}

func (s *Session) report(opts Options, received, total int64) {
	if !opts.Verbose {
		return
	}
	s.logger.Debug("download progress", "received", received, "total", total)
	if opts.Progress != nil {
		opts.Progress(received, total)
	}
}

func (s *Session) readMetadata(header http.Header) *Metadata {
	return &Metadata{
		ETag:       s.boundedHeader(header, "ETag", maxETagLength),
		ContentMD5: s.boundedHeader(header, "Content-MD5", maxContentMD5Length),
	}
}

// boundedHeader returns the named header, or "" when it is absent or longer
// than limit.
func (s *Session) boundedHeader(header http.Header, name string, limit int) string {
	value := header.Get(name)
	if len(value) > limit {
		s.logger.Warn("ignoring oversized header", "header", name, "length", len(value), "limit", limit)
		return ""
	}
	return value
}

// redirectTarget resolves the Location header of a 3xx response against the
// request URL.
func redirectTarget(base *url.URL, resp *http.Response) (string, error) {
	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("status %d without Location header", resp.StatusCode)
	}
	if len(location) > maxLocationLength {
		return "", fmt.Errorf("location header is %d bytes, limit %d", len(location), maxLocationLength)
	}

	target, err := base.Parse(location)
	if err != nil {
		return "", fmt.Errorf("parse Location header: %w", err)
	}
	return target.String(), nil
}

// checkContentRange verifies that a 206 response starts where the held
// prefix ends. Header form: "bytes <first>-<last>/<total or *>".
func checkContentRange(header string, have int64) error {
	byteRange, ok := strings.CutPrefix(header, "bytes ")
	if !ok {
		return fmt.Errorf("invalid Content-Range %q", header)
	}
	first, _, ok := strings.Cut(byteRange, "-")
	if !ok {
		return fmt.Errorf("invalid Content-Range %q", header)
	}
	start, err := strconv.ParseInt(first, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid Content-Range %q: %w", header, err)
	}
	if start != have {
		return fmt.Errorf("server resumed at byte %d, have %d", start, have)
	}
	return nil
}
