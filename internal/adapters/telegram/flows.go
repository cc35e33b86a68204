package telegram

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/amount"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/nameval"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/ship"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/textnorm"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/wizard"
)

// pressed reports whether incoming text matches a button label, tolerating
// emoji variation selectors and case differences across client platforms.
func pressed(text, label string) bool {
	return textnorm.Equal(text, label)
}

func pressedPrefix(text, prefix string) bool {
	return strings.HasPrefix(textnorm.Normalize(text), textnorm.Normalize(prefix))
}

// hintError carries wording composed for the user; it is shown verbatim on
// the re-prompt instead of the generic failure message.
type hintError struct {
	text string
}

func (e *hintError) Error() string { return e.text }

func hintf(format string, args ...any) error {
	return &hintError{text: fmt.Sprintf(format, args...)}
}

// userMessage maps an error to the text shown to the user. Validation
// failures re-prompt with their hint; everything unexpected collapses to
// the try-later wording and is logged by the caller.
func userMessage(err error) (text string, unexpected bool) {
	var amountErr *amount.InvalidAmountError
	var nameErr *nameval.InvalidNameError
	var shipErr *ship.InvalidNameError
	var hint *hintError
	switch {
	case errors.As(err, &amountErr):
		return "⚠️ " + amountErr.Hint, false
	case errors.As(err, &nameErr):
		return "⚠️ Names may contain letters, spaces and hyphens only. Try again.", false
	case errors.As(err, &shipErr):
		return "⚠️ Vessel names use letters, digits, hyphens and spaces (2-50 characters). Try again.", false
	case errors.As(err, &hint):
		return "⚠️ " + hint.text, false
	case errors.Is(err, secondary.ErrDuplicate):
		return "⚠️ This name is already in the directory.", false
	case errors.Is(err, secondary.ErrUnauthorized):
		return "🚫 Photo storage rejected the credentials. Contact the coordinator.", true
	case errors.Is(err, primary.ErrBusy):
		return "⏳ Another operation is in progress. Try again in a moment.", false
	default:
		return "🚫 Something went wrong. Try again later or contact the coordinator.", true
	}
}

func stringsField(r *wizard.Run, key string) []string {
	if v, ok := r.Fields[key].([]string); ok {
		return v
	}
	return nil
}

func membersField(r *wizard.Run, key string) []primary.CrewMember {
	if v, ok := r.Fields[key].([]primary.CrewMember); ok {
		return v
	}
	return nil
}
