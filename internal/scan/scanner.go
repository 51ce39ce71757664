package scan

// SkipString returns the index of the quote closing the string opened at s[start].
// A backslash always consumes the byte that follows it, so an escaped quote never
// terminates the string. Unterminated input returns the index of the last byte.
func SkipString(s string, start int) int {
	for i := start + 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	if len(s) == 0 {
		return 0
	}
	return len(s) - 1
}

// AppendString appends the quoted span opened at s[start], quotes and escape
// markers included, and returns the index of its closing quote.
func AppendString(dst []byte, s string, start int) ([]byte, int) {
	end := SkipString(s, start)
	return append(dst, s[start:end+1]...), end
}

// StripEscapes appends s dropping every escape backslash; the escaped byte is kept verbatim.
func StripEscapes(dst []byte, s string) []byte {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '\\' {
			i++
			if i >= len(s) {
				break
			}
			c = s[i]
		}
		dst = append(dst, c)
	}
	return dst
}

// Dequote strips the first and last byte of a quoted token without unescaping it.
func Dequote(s string) string {
	if len(s) < 2 {
		return ""
	}
	return s[1 : len(s)-1]
}

// Enclosed reports whether s starts with open and ends with closing.
func Enclosed(s string, open, closing byte) bool {
	return len(s) >= 2 && s[0] == open && s[len(s)-1] == closing
}
