package integrity

import (
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"testing"
)

const emptyMD5 = "d41d8cd98f00b204e9800998ecf8427e"

func TestParseHex(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid_lowercase", input: emptyMD5},
		{name: "valid_uppercase", input: "D41D8CD98F00B204E9800998ECF8427E"},
		{name: "empty", input: "", wantErr: true},
		{name: "too_short", input: emptyMD5[:30], wantErr: true},
		{name: "too_long", input: emptyMD5 + "00", wantErr: true},
		{name: "non_hex_character", input: "z41d8cd98f00b204e9800998ecf8427e", wantErr: true},
		{name: "non_hex_in_second_nibble", input: "d41d8cd98f00b204e9800998ecf8427g", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseHex(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDigest) {
					t.Fatalf("ParseHex(%q) error = %v, want ErrMalformedDigest", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseHex(%q) unexpected error: %v", tt.input, err)
			}
			if got.String() != emptyMD5 {
				t.Errorf("ParseHex(%q) = %s, want %s", tt.input, got, emptyMD5)
			}
		})
	}
}

func TestParseEntityTag(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		wantErr bool
	}{
		{name: "quoted_hex", tag: `"` + emptyMD5 + `"`},
		{name: "empty", tag: "", wantErr: true},
		{name: "single_quote_char", tag: `"`, wantErr: true},
		{name: "empty_quotes", tag: `""`, wantErr: true},
		{name: "unquoted", tag: emptyMD5, wantErr: true},
		{name: "missing_trailing_quote", tag: `"` + emptyMD5, wantErr: true},
		{name: "weak_tag", tag: `W/"` + emptyMD5 + `"`, wantErr: true},
		{name: "multipart_etag", tag: `"` + emptyMD5 + `-2"`, wantErr: true},
		{name: "short_interior", tag: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEntityTag(tt.tag)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDigest) {
					t.Fatalf("ParseEntityTag(%q) error = %v, want ErrMalformedDigest", tt.tag, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseEntityTag(%q) unexpected error: %v", tt.tag, err)
			}
			if got.String() != emptyMD5 {
				t.Errorf("ParseEntityTag(%q) = %s, want %s", tt.tag, got, emptyMD5)
			}
		})
	}
}

func TestParseContentDigest(t *testing.T) {
	sum := md5.Sum([]byte("payload"))
	valid := base64.StdEncoding.EncodeToString(sum[:])

	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "valid", value: valid},
		{name: "surrounding_whitespace", value: " " + valid + " "},
		{name: "not_base64", value: "!!!not-base64!!!", wantErr: true},
		{name: "wrong_length", value: base64.StdEncoding.EncodeToString([]byte("short")), wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseContentDigest(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDigest) {
					t.Fatalf("ParseContentDigest(%q) error = %v, want ErrMalformedDigest", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseContentDigest(%q) unexpected error: %v", tt.value, err)
			}
			if got != Digest(sum) {
				t.Errorf("ParseContentDigest(%q) = %s, want %x", tt.value, got, sum)
			}
		})
	}
}

func TestSumEmpty(t *testing.T) {
	if got := Sum(nil).String(); got != emptyMD5 {
		t.Errorf("Sum(nil) = %s, want %s", got, emptyMD5)
	}
}

func TestDigestEqual(t *testing.T) {
	a := Sum([]byte("a"))
	b := Sum([]byte("b"))

	if !a.Equal(a) {
		t.Error("digest should equal itself")
	}
	if a.Equal(b) {
		t.Error("different digests should not be equal")
	}
}

func TestDigestStringRoundTrip(t *testing.T) {
	d := Sum([]byte("firmware"))
	parsed, err := ParseHex(d.String())
	if err != nil {
		t.Fatalf("ParseHex() error = %v", err)
	}
	if parsed != d {
		t.Errorf("parsed = %s, want %s", parsed, d)
	}
	if len(hex.EncodeToString(d[:])) != 32 {
		t.Error("hex encoding should be 32 characters")
	}
}
