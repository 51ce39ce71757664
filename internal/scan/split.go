package scan

// Split appends the top-level elements of the bracketed body s to dst.
// s must start with '[' or '{' and end with the matching bracket; the body is split on
// ',' and ':' found at depth 0, quoted spans are skipped atomically. The last element
// is always appended. Elements are substrings of s; structure is not validated.
func Split(s string, dst []string) []string {
	if len(s) <= 2 {
		return dst
	}
	end := len(s) - 1
	body := s[:end]
	depth := 0
	start := 1
	for i := 1; i < end; i++ {
		switch s[i] {
		case '"':
			i = SkipString(body, i)
		case '[', '{':
			depth++
		case ']', '}':
			depth--
		case ',', ':':
			if depth == 0 {
				dst = append(dst, s[start:i])
				start = i + 1
			}
		}
	}
	if start > end {
		start = end
	}
	return append(dst, s[start:end])
}
