// Package payload inspects Luma3DS firmware payloads (boot.firm) and the
// release archives they ship in.
//
// # Version Extraction
//
// A payload carries its version as free text, e.g.
//
//	Luma3DS v13.1.2-abc1234 (dev) configuration
//
// Extraction runs in two stages. A marker search finds the literal
// "Luma3DS v"; a small state machine then reads the token after it:
//
//	MAJOR '.' MINOR ['.' BUILD] ['-' HASH [' dev' | ' (dev)']] ' c...'
//
// The token must end at a space followed by 'c' (the start of the next word
// in every known build). If the bytes after a marker do not form a token,
// the search moves on to the next marker occurrence. Absence of a valid
// token is reported as false, never as an error or panic.
//
// The marker search is a single-pass partial-match automaton. It is exact
// only for markers with no proper prefix that is also a suffix, so
// NewExtractor rejects any other marker.
//
// # Version Records
//
// ParseRecord decodes the fixed 16-byte binary version record the firmware
// reports at runtime, for callers that have it instead of the payload file.
//
// # Archives
//
// ExtractMember pulls a single file (normally boot.firm) out of a zip or
// tar.gz release archive held in memory. Install writes the chosen payload
// to its destination atomically.
package payload
