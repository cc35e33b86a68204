// Package textnorm canonicalizes button-label text for comparison.
// Telegram clients may attach the U+FE0F variation selector to emoji and
// pad labels with extra whitespace, so raw text cannot be compared to the
// keyboard constants directly.
package textnorm

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

const variationSelector = "\uFE0F"

// Normalize returns a canonical form of text suitable for equality checks
// against keyboard labels. The result is never shown to users or persisted.
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	s := strings.ReplaceAll(text, variationSelector, "")
	s = norm.NFKC.String(s)
	s = strings.Join(strings.Fields(s), " ")
	return strings.ToLower(s)
}

// Equal reports whether two labels compare equal after normalization.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
