package fetch

import (
	"errors"
	"fmt"
)

// ErrTooManyRedirects is returned when a redirect chain is longer than the
// session allows.
var ErrTooManyRedirects = errors.New("too many redirects")

// StatusError reports a terminal HTTP status outside 200 and the 3xx band.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.Code)
}

// TransportError reports a failure opening, sending, or reading a request.
type TransportError struct {
	Op  string // "request", "send", "redirect", "resume", "receive"
	URL string
	Err error

	// Partial holds the bytes received before a "receive" failure,
	// including any resumed prefix. It can be passed as Options.Resume.
	Partial []byte
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AllocationError reports that a download buffer of Size bytes could not be
// obtained.
type AllocationError struct {
	Size int64
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("could not allocate %d bytes: %v", e.Size, e.Err)
}

func (e *AllocationError) Unwrap() error {
	return e.Err
}
