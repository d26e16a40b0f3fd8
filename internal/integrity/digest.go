package integrity

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// Size is the length in bytes of a Digest.
const Size = md5.Size

var (
	// ErrMalformedDigest is returned when a digest string cannot be decoded
	// into exactly Size bytes.
	ErrMalformedDigest = errors.New("malformed digest")

	// ErrNoDigest is returned when no usable digest is available.
	ErrNoDigest = errors.New("no digest available")

	// ErrMismatch is returned when the computed digest differs from the
	// expected one.
	ErrMismatch = errors.New("digest mismatch")
)

// Digest is a 128-bit content hash.
type Digest [Size]byte

// Sum computes the digest of data.
func Sum(data []byte) Digest {
	return Digest(md5.Sum(data))
}

// String returns the lowercase hex encoding of the digest.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Equal reports whether d and other are the same digest.
func (d Digest) Equal(other Digest) bool {
	return subtle.ConstantTimeCompare(d[:], other[:]) == 1
}

// ParseHex decodes a 32-character hex string into a Digest. Every character
// must be a hex digit.
func ParseHex(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(Size) {
		return d, fmt.Errorf("%w: hex digest is %d characters, want %d", ErrMalformedDigest, len(s), hex.EncodedLen(Size))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	return d, nil
}

// ParseEntityTag unwraps a strong entity tag of the form "<hex>" and decodes
// the interior with ParseHex. Weak tags (W/"...") do not identify content
// bytes and are rejected.
func ParseEntityTag(tag string) (Digest, error) {
	if strings.HasPrefix(tag, "W/") {
		return Digest{}, fmt.Errorf("%w: weak entity tag", ErrMalformedDigest)
	}
	if len(tag) < 2 || tag[0] != '"' || tag[len(tag)-1] != '"' {
		return Digest{}, fmt.Errorf("%w: entity tag is not quoted", ErrMalformedDigest)
	}
	return ParseHex(tag[1 : len(tag)-1])
}

// ParseContentDigest decodes a base64 Content-MD5 header value.
func ParseContentDigest(value string) (Digest, error) {
	var d Digest
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(value))
	if err != nil {
		return d, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	if len(raw) != Size {
		return d, fmt.Errorf("%w: content digest is %d bytes, want %d", ErrMalformedDigest, len(raw), Size)
	}
	copy(d[:], raw)
	return d, nil
}
