package payload

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// shortCommitLength is the number of commit characters shown by String.
const shortCommitLength = 7

// Version identifies a Luma3DS build.
type Version struct {
	Release string // "MAJOR.MINOR[.BUILD]"
	Commit  string // may be empty
	IsDev   bool
}

// IsZero reports whether v carries no release.
func (v Version) IsZero() bool {
	return v.Release == ""
}

// String renders the version as "release[-commit] [(dev)]" with the commit
// shortened to seven characters.
func (v Version) String() string {
	s := v.Release
	if v.Commit != "" {
		commit := v.Commit
		if len(commit) > shortCommitLength {
			commit = commit[:shortCommitLength]
		}
		s += "-" + commit
	}
	if v.IsDev {
		s += " (dev)"
	}
	return s
}

// Compare orders versions by their release components. Numeric components
// compare numerically, anything else lexically; a missing component sorts
// first. Commit and dev flag are not considered.
func (v Version) Compare(other Version) int {
	a := strings.Split(v.Release, ".")
	b := strings.Split(other.Release, ".")

	for i := 0; i < len(a) || i < len(b); i++ {
		if i >= len(a) {
			return -1
		}
		if i >= len(b) {
			return 1
		}
		if c := compareComponent(a[i], b[i]); c != 0 {
			return c
		}
	}
	return 0
}

func compareComponent(a, b string) int {
	x, errA := strconv.ParseUint(a, 10, 64)
	y, errB := strconv.ParseUint(b, 10, 64)
	if errA == nil && errB == nil {
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return strings.Compare(a, b)
}

// Extract returns the first valid version token after a marker occurrence.
func (e *Extractor) Extract(blob []byte) (Version, bool) {
	from := 0
	for {
		start, ok := e.FindMarker(blob, from)
		if !ok {
			return Version{}, false
		}

		if end, ok := scanToken(blob, start); ok {
			return parseToken(string(blob[start:end])), true
		}

		// Not a token; try the next occurrence.
		from = start
	}
}

// parseToken splits a scanned token into its parts. The scanner guarantees
// the only space in the token precedes the dev suffix.
func parseToken(token string) Version {
	release, rest, found := strings.Cut(token, "-")
	if !found {
		return Version{Release: token}
	}

	commit, suffix, _ := strings.Cut(rest, " ")
	suffix = strings.TrimSpace(suffix)

	return Version{
		Release: release,
		Commit:  commit,
		IsDev:   suffix == "dev" || suffix == "(dev)",
	}
}

var defaultExtractor = mustExtractor(DefaultMarker)

func mustExtractor(marker string) *Extractor {
	e, err := NewExtractor(marker)
	if err != nil {
		panic(fmt.Sprintf("payload: invalid built-in marker %q: %v", marker, err))
	}
	return e
}

// Extract searches blob for a version after DefaultMarker.
func Extract(blob []byte) (Version, bool) {
	return defaultExtractor.Extract(blob)
}

// ExtractFile loads the payload at path and extracts its version. The error
// is non-nil only when the file cannot be read.
func (e *Extractor) ExtractFile(path string) (Version, bool, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Version{}, false, fmt.Errorf("read payload: %w", err)
	}
	v, ok := e.Extract(blob)
	return v, ok, nil
}

// ExtractFile is Extractor.ExtractFile with DefaultMarker.
func ExtractFile(path string) (Version, bool, error) {
	return defaultExtractor.ExtractFile(path)
}
