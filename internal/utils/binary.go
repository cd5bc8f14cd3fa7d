package utils

import "unicode/utf8"

// IsBinary reports whether the provided byte slice appears to contain binary
// data. Content is binary when it is not valid UTF-8 or contains a C0
// control character other than tab, newline, or carriage return. Such
// characters cannot appear in XML character data, so content carrying them
// is never embedded.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if !utf8.Valid(data) {
		return true
	}
	for _, byteValue := range data {
		if byteValue >= 0x20 {
			continue
		}
		switch byteValue {
		case '\t', '\n', '\r':
		default:
			return true
		}
	}
	return false
}
