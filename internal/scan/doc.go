// Package scan provides the text primitives used by the shape parser:
// an escape-aware string scanner, a whitespace normalizer and a depth-aware splitter.
package scan
