package primary

import (
	"context"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// CloseCheck is the outcome of a finish-shift request.
type CloseCheck struct {
	Allowed       bool
	AlreadyClosed bool
	Missing       []secondary.Section
}

// CloseResult is the outcome of a confirmed close.
type CloseResult struct {
	// DidClose is true only when this call performed the transition.
	DidClose bool
	// Notified is true when the group report went out during this call.
	Notified bool
}

// CloseService runs the shift close flow.
type CloseService interface {
	// RequestClose evaluates the finish guard without writing anything.
	RequestClose(ctx context.Context, userID, row int64) (*CloseCheck, error)

	// ConfirmClose commits the idempotent closed-flag write and sends the
	// one-time group notification. A second confirm on the same row
	// reports DidClose=false and sends nothing. Notification failures are
	// logged and swallowed; they never fail the close.
	ConfirmClose(ctx context.Context, userID, row int64) (*CloseResult, error)
}
