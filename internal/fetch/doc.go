// Package fetch retrieves release artifacts over HTTP into memory.
//
// A Session owns the HTTP client, identifying User-Agent and limits. It is
// constructed explicitly by the caller and released with Close; there is no
// package-level client.
//
// Fetch issues a GET, follows 3xx responses itself up to a bounded number of
// hops, and streams a 200 body into a buffer sized from the declared
// Content-Length before the first byte is read. Callers that ask for metadata
// also receive the ETag and Content-MD5 headers, which package integrity
// turns into digests.
//
// Every failure is one of:
//   - *TransportError: the request could not be built, sent, or read
//   - *StatusError: a terminal status other than 200
//   - *AllocationError: the declared size exceeds the session limit or the
//     memory currently available
//   - ErrTooManyRedirects: the redirect chain exceeded the session bound
//
// Nothing is retried internally; callers own their retry policy.
package fetch
