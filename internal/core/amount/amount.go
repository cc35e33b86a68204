// Package amount parses and formats the monetary and quantity fields
// collected by the section wizards.
package amount

import (
	"regexp"
	"strconv"
	"strings"
)

var digitsRe = regexp.MustCompile(`^\d{1,9}$`)

// InvalidAmountError reports input that is neither a plain number nor the
// skip token. Hint carries user-facing wording for the re-prompt.
type InvalidAmountError struct {
	Input string
	Hint  string
}

func (e *InvalidAmountError) Error() string {
	return "invalid amount: " + e.Hint
}

// Parse converts free-form numeric text to a non-negative integer.
// An exact, case-sensitive match of skipToken yields zero. Anything other
// than one to nine ASCII digits fails with *InvalidAmountError. Negative
// numbers, decimals and separators are rejected; display formatting is
// Format's job.
func Parse(text, skipToken string) (int, error) {
	trimmed := strings.TrimSpace(text)
	if skipToken != "" && trimmed == skipToken {
		return 0, nil
	}
	if !digitsRe.MatchString(trimmed) {
		return 0, &InvalidAmountError{
			Input: trimmed,
			Hint:  "enter digits only, or press the skip button",
		}
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, &InvalidAmountError{Input: trimmed, Hint: "enter digits only, or press the skip button"}
	}
	return n, nil
}

// Format renders n with space-separated thousands groups for display.
func Format(n int) string {
	s := strconv.Itoa(n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
