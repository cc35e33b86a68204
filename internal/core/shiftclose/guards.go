// Package shiftclose contains the pure business rules for closing a shift.
// Guards evaluate preconditions without side effects.
package shiftclose

import (
	"fmt"
	"sort"
	"strings"
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Missing []string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// FinishContext provides context for the finish-shift guard.
type FinishContext struct {
	Sections map[string]bool
	Closed   bool
}

// CanFinish evaluates whether a shift may enter the close confirmation.
// Rules:
// - The shift must not already be closed
// - Every section must be complete
func CanFinish(ctx FinishContext) GuardResult {
	if ctx.Closed {
		return GuardResult{
			Allowed: false,
			Reason:  "shift is already closed",
		}
	}

	var missing []string
	for section, done := range ctx.Sections {
		if !done {
			missing = append(missing, section)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("sections not complete: %s", strings.Join(missing, ", ")),
			Missing: missing,
		}
	}

	return GuardResult{Allowed: true}
}
