package payload

type scanState int

const (
	stateMajor scanState = iota
	stateMinor
	stateHash
	stateDev
)

var (
	devSuffix       = []byte(" dev")
	parenDevSuffix  = []byte(" (dev)")
	terminatorStart = byte('c')
)

// scanToken reads a version token starting at start. It returns the offset
// of the space that ends the token.
func scanToken(blob []byte, start int) (int, bool) {
	state := stateMajor
	// lastSep is the offset of the last structural separator; a separator
	// or terminator directly after it would leave an empty component.
	lastSep := start - 1

	i := start
	for i < len(blob) {
		c := blob[i]
		nonEmpty := i-1 > lastSep

		switch {
		case isAlphaNumeric(c) && state <= stateHash:
			i++

		case c == '.' && state == stateMajor && nonEmpty:
			state = stateMinor
			lastSep = i
			i++

		case c == '.' && state == stateMinor && nonEmpty:
			// BUILD component
			lastSep = i
			i++

		case c == '-' && state == stateMinor && nonEmpty:
			state = stateHash
			lastSep = i
			i++

		case c == ' ' && state == stateHash && nonEmpty && hasPrefixAt(blob, i, parenDevSuffix):
			state = stateDev
			i += len(parenDevSuffix)

		case c == ' ' && state == stateHash && nonEmpty && hasPrefixAt(blob, i, devSuffix):
			state = stateDev
			i += len(devSuffix)

		case c == ' ' && state >= stateMinor && nonEmpty && i+1 < len(blob) && blob[i+1] == terminatorStart:
			return i, true

		default:
			return 0, false
		}
	}

	return 0, false
}

func hasPrefixAt(blob []byte, at int, prefix []byte) bool {
	if at+len(prefix) > len(blob) {
		return false
	}
	for j, b := range prefix {
		if blob[at+j] != b {
			return false
		}
	}
	return true
}

func isNumeric(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isAlphaNumeric(c byte) bool {
	return isNumeric(c) || isAlpha(c)
}
