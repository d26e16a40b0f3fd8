package payload

import (
	"bytes"
	"errors"
)

// DefaultMarker precedes the version token in a Luma3DS payload.
const DefaultMarker = "Luma3DS v"

var (
	// ErrEmptyMarker is returned by NewExtractor for an empty marker.
	ErrEmptyMarker = errors.New("marker is empty")

	// ErrOverlappingMarker is returned by NewExtractor for a marker in which
	// some prefix has a proper prefix that is also its suffix.
	ErrOverlappingMarker = errors.New("marker overlaps itself")
)

// Extractor finds version tokens after a fixed marker. It holds no mutable
// state and is safe for concurrent use.
type Extractor struct {
	marker []byte
}

// NewExtractor returns an Extractor for marker.
func NewExtractor(marker string) (*Extractor, error) {
	if marker == "" {
		return nil, ErrEmptyMarker
	}
	m := []byte(marker)
	if selfOverlaps(m) {
		return nil, ErrOverlappingMarker
	}
	return &Extractor{marker: m}, nil
}

// Marker returns the marker the extractor searches for.
func (e *Extractor) Marker() string {
	return string(e.marker)
}

// selfOverlaps reports whether any prefix m[:j] has a non-empty proper
// prefix equal to its suffix of the same length. For such a marker a partial
// match can restart inside an earlier partial match, which FindMarker does
// not track.
func selfOverlaps(m []byte) bool {
	for j := 2; j <= len(m); j++ {
		p := m[:j]
		for k := 1; k < j; k++ {
			if bytes.Equal(p[:k], p[j-k:]) {
				return true
			}
		}
	}
	return false
}

// FindMarker scans blob from offset from and returns the offset just past the
// first complete marker.
//
// On a mismatch the match counter falls back to zero and the current byte is
// retried as a marker start. NewExtractor only accepts markers for which no
// shorter partial match can be live at that point, so this finds every
// occurrence.
func (e *Extractor) FindMarker(blob []byte, from int) (int, bool) {
	if from < 0 || from >= len(blob) {
		return 0, false
	}

	matched := 0
	for i := from; i < len(blob); i++ {
		if matched == 0 && len(blob)-i < len(e.marker) {
			break
		}

		if blob[i] != e.marker[matched] {
			matched = 0
			if blob[i] != e.marker[0] {
				continue
			}
		}

		matched++
		if matched == len(e.marker) {
			return i + 1, true
		}
	}

	return 0, false
}
