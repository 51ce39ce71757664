package scan

import (
	"unicode"
	"unicode/utf8"
)

// Compact removes whitespace outside quoted strings. Quoted spans are copied verbatim.
// When s holds no whitespace candidate it is returned as is and dst is left untouched,
// otherwise the compacted text is built in dst (reset by the caller) and copied out.
func Compact(dst []byte, s string) (string, []byte) {
	if !hasSpaceCandidate(s) {
		return s, dst
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			dst, i = AppendString(dst, s, i)
		case c < utf8.RuneSelf:
			if isASCIISpace(c) {
				continue
			}
			dst = append(dst, c)
		default:
			r, size := utf8.DecodeRuneInString(s[i:])
			if !unicode.IsSpace(r) {
				dst = append(dst, s[i:i+size]...)
			}
			i += size - 1
		}
	}
	return string(dst), dst
}

func hasSpaceCandidate(s string) bool {
	for i := 0; i < len(s); i++ {
		if c := s[i]; c <= ' ' || c >= utf8.RuneSelf {
			return true
		}
	}
	return false
}

func isASCIISpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
