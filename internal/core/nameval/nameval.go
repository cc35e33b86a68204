// Package nameval validates and normalizes the name pieces (last name,
// first name, patronymic) collected during registration and the add-driver
// and add-worker sub-flows.
package nameval

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var namePieceRe = regexp.MustCompile(`^[A-Za-zА-Яа-яЁё][A-Za-zА-Яа-яЁё\- ]+$`)

// InvalidNameError reports a name piece that fails the format rule.
type InvalidNameError struct {
	Input string
}

func (e *InvalidNameError) Error() string {
	return "invalid name piece: letters, space and hyphen only"
}

// ValidatePiece checks one part of a full name and returns it normalized.
// Pieces must start with a letter and may contain letters, spaces and
// hyphens; anything else fails with *InvalidNameError.
func ValidatePiece(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" || !namePieceRe.MatchString(candidate) {
		return "", &InvalidNameError{Input: candidate}
	}
	return NormalizePiece(candidate), nil
}

// NormalizePiece collapses whitespace and title-cases each word and each
// hyphenated segment, so "иванов-ПЕТРОВ" becomes "Иванов-Петров".
func NormalizePiece(raw string) string {
	words := strings.Fields(strings.TrimSpace(raw))
	for i, word := range words {
		segments := strings.Split(word, "-")
		for j, seg := range segments {
			segments[j] = titleCase(seg)
		}
		words[i] = strings.Join(segments, "-")
	}
	return strings.Join(words, " ")
}

// CompactName renders "Last F. P." for directory entries. A missing
// patronymic yields "Last F.".
func CompactName(last, first, patronymic string) string {
	parts := []string{NormalizePiece(last)}
	if initial := initialOf(first); initial != "" {
		parts = append(parts, initial+".")
	}
	if initial := initialOf(patronymic); initial != "" {
		parts = append(parts, initial+".")
	}
	return strings.Join(parts, " ")
}

// DisplayName renders "First Patronymic" for greeting users.
func DisplayName(first, patronymic string) string {
	parts := make([]string, 0, 2)
	if p := NormalizePiece(first); p != "" {
		parts = append(parts, p)
	}
	if p := NormalizePiece(patronymic); p != "" {
		parts = append(parts, p)
	}
	return strings.Join(parts, " ")
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}

func initialOf(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(trimmed)
	return string(unicode.ToUpper(r))
}
