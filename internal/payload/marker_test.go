package payload

import (
	"bytes"
	"errors"
	"testing"
)

func TestNewExtractor(t *testing.T) {
	tests := []struct {
		name    string
		marker  string
		wantErr error
	}{
		{name: "default_marker", marker: DefaultMarker},
		{name: "distinct_bytes", marker: "abc"},
		{name: "empty", marker: "", wantErr: ErrEmptyMarker},
		{name: "repeated_byte", marker: "aa", wantErr: ErrOverlappingMarker},
		{name: "repeated_pair", marker: "abab", wantErr: ErrOverlappingMarker},
		{name: "same_first_and_last", marker: "aba", wantErr: ErrOverlappingMarker},
		{name: "overlap_in_prefix", marker: "aab", wantErr: ErrOverlappingMarker},
		{name: "overlap_in_middle_prefix", marker: "abcabd", wantErr: ErrOverlappingMarker},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := NewExtractor(tt.marker)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewExtractor(%q) error = %v, want %v", tt.marker, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewExtractor(%q) unexpected error: %v", tt.marker, err)
			}
			if e.Marker() != tt.marker {
				t.Errorf("Marker() = %q, want %q", e.Marker(), tt.marker)
			}
		})
	}
}

func TestDefaultMarkerHasNoOverlap(t *testing.T) {
	if selfOverlaps([]byte(DefaultMarker)) {
		t.Fatalf("DefaultMarker %q overlaps itself; FindMarker would miss occurrences", DefaultMarker)
	}
}

func TestFindMarker(t *testing.T) {
	e := mustExtractor(DefaultMarker)
	markerLen := len(DefaultMarker)

	tests := []struct {
		name   string
		blob   string
		from   int
		want   int
		wantOK bool
	}{
		{name: "at_start", blob: "Luma3DS v13", want: markerLen, wantOK: true},
		{name: "after_junk", blob: "\x00\xffxyLuma3DS v13", want: 4 + markerLen, wantOK: true},
		{name: "at_very_end", blob: "abcLuma3DS v", want: 3 + markerLen, wantOK: true},
		{name: "restart_on_repeated_first_byte", blob: "LLuma3DS v1", want: 1 + markerLen, wantOK: true},
		{name: "restart_mid_marker", blob: "Luma3DS Luma3DS v1", want: 8 + markerLen, wantOK: true},
		{name: "skips_occurrence_before_from", blob: "Luma3DS v1 Luma3DS v2", from: 1, want: 11 + markerLen, wantOK: true},
		{name: "not_present", blob: "no version string here"},
		{name: "truncated_marker", blob: "xxLuma3DS "},
		{name: "shorter_than_marker", blob: "Luma"},
		{name: "empty", blob: ""},
		{name: "from_past_end", blob: "Luma3DS v1", from: 100},
		{name: "negative_from", blob: "Luma3DS v1", from: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.FindMarker([]byte(tt.blob), tt.from)
			if ok != tt.wantOK {
				t.Fatalf("FindMarker(%q, %d) ok = %v, want %v", tt.blob, tt.from, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("FindMarker(%q, %d) = %d, want %d", tt.blob, tt.from, got, tt.want)
			}
		})
	}
}

func TestFindMarkerNil(t *testing.T) {
	e := mustExtractor(DefaultMarker)
	if _, ok := e.FindMarker(nil, 0); ok {
		t.Error("FindMarker(nil) should not find anything")
	}
}

func TestFindMarkerCustom(t *testing.T) {
	e, err := NewExtractor("VER:")
	if err != nil {
		t.Fatalf("NewExtractor() error = %v", err)
	}

	blob := []byte("VEVER:1.0 c")
	got, ok := e.FindMarker(blob, 0)
	if !ok || got != 6 {
		t.Errorf("FindMarker() = %d, %v, want 6, true", got, ok)
	}
}

// TestFindMarkerMatchesIndex compares FindMarker with bytes.Index for every
// accepted marker and every blob over a small alphabet.
func TestFindMarkerMatchesIndex(t *testing.T) {
	alphabet := []byte("ab")
	words := func(maxLen int) [][]byte {
		all := [][]byte{{}}
		level := [][]byte{{}}
		for n := 1; n <= maxLen; n++ {
			var next [][]byte
			for _, w := range level {
				for _, c := range alphabet {
					next = append(next, append(append([]byte{}, w...), c))
				}
			}
			all = append(all, next...)
			level = next
		}
		return all
	}

	blobs := words(7)
	for _, marker := range words(4) {
		e, err := NewExtractor(string(marker))
		if err != nil {
			continue
		}
		for _, blob := range blobs {
			idx := bytes.Index(blob, marker)
			got, ok := e.FindMarker(blob, 0)
			if ok != (idx >= 0) || (ok && got != idx+len(marker)) {
				t.Errorf("FindMarker(%q) in %q = %d, %v; bytes.Index = %d", marker, blob, got, ok, idx)
			}
		}
	}
}
