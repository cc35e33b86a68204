// Package primary defines the primary ports (driving interfaces) consumed
// by the chat adapter and the CLI.
package primary

import (
	"context"
	"errors"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// ErrBusy reports that another operation already holds the user's lock and
// the caller should ask the user to retry shortly.
var ErrBusy = errors.New("another operation is in progress for this user")

// MenuView is the data needed to render the shift menu screen.
type MenuView struct {
	Row       int64
	Date      string
	Sections  map[secondary.Section]bool
	Closed    bool
	CanFinish bool
}

// MenuService resolves the user's shift row and authoritative progress for
// the menu screen.
type MenuService interface {
	// OpenMenu finds or creates the user's shift row, re-reads progress
	// from storage, refreshes the session cache and returns the view.
	// When no row is known yet and the user's lock is held, it fails with
	// ErrBusy without touching storage.
	OpenMenu(ctx context.Context, userID int64) (*MenuView, error)

	// RefreshMenu is OpenMenu for a known row; it skips the lock.
	RefreshMenu(ctx context.Context, userID int64, row int64) (*MenuView, error)

	// MarkSectionDone flips a section's completion flag in the session
	// cache after a wizard save.
	MarkSectionDone(userID int64, section secondary.Section)

	// ResetSession drops the cached session, forcing a storage re-read.
	ResetSession(userID int64)
}
