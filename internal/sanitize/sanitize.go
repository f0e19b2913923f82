// Package sanitize strips characters that would otherwise collide with the
// separators used in store keys and TSV records.
package sanitize

import (
	"strings"
	"unicode"
)

// reserved is the fixed set of characters that may not appear in a key
// fragment because they are used as separators in store keys or in the TSV
// record format: the replacement character (a marker for invalid UTF-8),
// the context/path separators, braces, the key separator, the path
// separator, parens, comma, quote, space, and semicolon.
var reserved = map[rune]bool{
	'�':  true,
	'|':  true,
	'/':  true,
	'{':  true,
	'}':  true,
	':':  true,
	'\\': true,
	'(':  true,
	')':  true,
	',':  true,
	'"':  true,
	' ':  true,
	';':  true,
	'\'': true,
}

// String removes every Unicode control character (general category Cc, plus
// the ASCII DEL and C1 range unicode.IsControl already covers) and every
// reserved separator character from s. It is applied to inputname and to
// each context token; it is never applied to digests or primitive hashes,
// which already live in fixed, well-defined alphabets.
func String(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsControl(r) {
			continue
		}
		if reserved[r] {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Contexts splits a raw comma-separated context argument and sanitizes each
// token independently. Empty tokens (from inputs like "a,,b", or an empty
// argument) are preserved rather than dropped: the indexer treats any token
// it receives, including the empty string, as a distinct context. This
// matches the reference tool's behavior and is a deliberate choice, not an
// oversight — see the "empty context tokens" open question in DESIGN.md.
func Contexts(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = String(p)
	}
	return out
}
