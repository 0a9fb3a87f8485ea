package gpu

import "unicode/utf16"

// Fingerprint hashes the UTF-16 code units of text with the sdbm function.
//
// Distinct texts may collide, so the result is only a lookup key.
func Fingerprint(text string) uint32 {
	var hash uint32
	for _, unit := range utf16.Encode([]rune(text)) {
		hash = sdbm(hash, unit)
	}
	return hash
}

// FingerprintStable is like Fingerprint but stops at the first '#'.
//
// A shader tagged by a leading name keeps its fingerprint while the
// rest of its source changes.
func FingerprintStable(text string) uint32 {
	var hash uint32
	for _, unit := range utf16.Encode([]rune(text)) {
		if unit == '#' {
			break
		}
		hash = sdbm(hash, unit)
	}
	return hash
}

func sdbm(hash uint32, unit uint16) uint32 {
	return uint32(unit) + hash<<6 + hash<<16 - hash
}
