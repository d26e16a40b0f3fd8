package payload

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// RecordSize is the encoded size of a Record.
const RecordSize = 16

// flagDev marks a development build in Record.Flags.
const flagDev = 0x1

// Record is the binary version record reported by a running Luma3DS.
// All multi-byte fields are little-endian.
type Record struct {
	Magic  [4]byte
	Major  uint8
	Minor  uint8
	Build  uint8
	Flags  uint8
	Commit uint32
	Unused uint32
}

// ParseRecord decodes a version record from the first RecordSize bytes of b.
func ParseRecord(b []byte) (Version, error) {
	if len(b) < RecordSize {
		return Version{}, fmt.Errorf("version record is %d bytes, want %d", len(b), RecordSize)
	}

	var r Record
	if _, err := binary.Decode(b[:RecordSize], binary.LittleEndian, &r); err != nil {
		return Version{}, fmt.Errorf("decode version record: %w", err)
	}
	return r.Version(), nil
}

// Version converts the record to a Version. A zero build is omitted from the
// release and a zero commit leaves Commit empty.
func (r Record) Version() Version {
	release := fmt.Sprintf("%d.%d", r.Major, r.Minor)
	if r.Build > 0 {
		release += fmt.Sprintf(".%d", r.Build)
	}

	v := Version{
		Release: release,
		IsDev:   r.Flags&flagDev == flagDev,
	}
	if r.Commit > 0 {
		v.Commit = strconv.FormatUint(uint64(r.Commit), 16)
	}
	return v
}
