// Package ship validates and normalizes vessel names entered in the
// expenses wizard.
package ship

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Names start with a letter or digit, 2-50 characters total, and may
// contain letters, digits, hyphens and spaces.
var namePattern = regexp.MustCompile(`^[\p{L}0-9][\p{L}0-9\- ]{1,49}$`)

// InvalidNameError reports a vessel name that fails the format rule.
type InvalidNameError struct {
	Input string
}

func (e *InvalidNameError) Error() string {
	return "invalid ship name: use letters, digits, hyphen and space"
}

// Validate checks a candidate vessel name and returns it normalized.
func Validate(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if !namePattern.MatchString(candidate) {
		return "", &InvalidNameError{Input: candidate}
	}
	return Normalize(candidate), nil
}

// Normalize collapses internal whitespace and upper-cases the first rune.
func Normalize(raw string) string {
	cleaned := strings.Join(strings.Fields(raw), " ")
	if cleaned == "" {
		return cleaned
	}
	r, size := utf8.DecodeRuneInString(cleaned)
	return string(unicode.ToUpper(r)) + cleaned[size:]
}

// Match finds a known vessel by case-insensitive comparison. The returned
// name keeps the directory spelling.
func Match(known []string, input string) (string, bool) {
	folded := strings.ToLower(strings.TrimSpace(input))
	for _, name := range known {
		if strings.ToLower(name) == folded {
			return name, true
		}
	}
	return "", false
}
