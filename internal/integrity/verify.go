package integrity

// Method indicates which digest source verified an artifact.
type Method int

const (
	// MethodNone indicates no verification took place.
	MethodNone Method = iota
	// MethodContentMD5 indicates the Content-MD5 header was used.
	MethodContentMD5
	// MethodETag indicates the ETag header was used.
	MethodETag
)

// String returns the string representation of the verification method
func (m Method) String() string {
	switch m {
	case MethodContentMD5:
		return "Content-MD5"
	case MethodETag:
		return "ETag"
	case MethodNone:
		return "None"
	default:
		return "Unknown"
	}
}

// Verify reports whether data hashes to the hex digest expectedHex.
// A malformed expectation never matches.
func Verify(expectedHex string, data []byte) bool {
	expected, err := ParseHex(expectedHex)
	if err != nil {
		return false
	}
	return verifyDigest(expected, data)
}

// VerifyEntityTag checks data against a quoted hex entity tag.
// A mismatch is reported as false with a nil error.
func VerifyEntityTag(tag string, data []byte) (bool, error) {
	expected, err := ParseEntityTag(tag)
	if err != nil {
		return false, err
	}
	return verifyDigest(expected, data), nil
}

// VerifyContentDigest checks data against a base64 Content-MD5 value.
// A mismatch is reported as false with a nil error.
func VerifyContentDigest(value string, data []byte) (bool, error) {
	expected, err := ParseContentDigest(value)
	if err != nil {
		return false, err
	}
	return verifyDigest(expected, data), nil
}

// VerifyMetadata verifies data with whichever header digest is usable,
// preferring Content-MD5 over ETag. An ETag that is not a hex MD5 (common
// for multipart uploads) is skipped rather than treated as a mismatch.
func VerifyMetadata(etag, contentMD5 string, data []byte) (Method, error) {
	if contentMD5 != "" {
		ok, err := VerifyContentDigest(contentMD5, data)
		if err == nil {
			if !ok {
				return MethodContentMD5, ErrMismatch
			}
			return MethodContentMD5, nil
		}
	}

	if etag != "" {
		ok, err := VerifyEntityTag(etag, data)
		if err == nil {
			if !ok {
				return MethodETag, ErrMismatch
			}
			return MethodETag, nil
		}
	}

	return MethodNone, ErrNoDigest
}

func verifyDigest(expected Digest, data []byte) bool {
	return Sum(data).Equal(expected)
}
