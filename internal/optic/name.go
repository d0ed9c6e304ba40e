package optic

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeName returns the canonical form of a node or component name:
// surrounding whitespace trimmed and the rest NFC-normalized, so that
// visually identical names written with different code point sequences map
// to the same registry key.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
