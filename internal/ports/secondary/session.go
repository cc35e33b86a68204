package secondary

import "time"

// ShiftSession is the per-user cached view of the open shift, used to
// render section badges without re-reading storage on every keystroke.
// It is rebuilt whenever the cached date differs from the stored one.
type ShiftSession struct {
	Date     string
	Row      int64
	Sections map[Section]bool
	Closed   bool
}

// SessionStore defines the secondary port for the per-user session cache.
// Implementations may back it with process memory or an external cache.
type SessionStore interface {
	Get(userID int64) (*ShiftSession, bool)
	Put(userID int64, session *ShiftSession)
	Delete(userID int64)
}

// LockToken proves ownership of an acquired user lock.
type LockToken struct {
	UserID int64
	ID     string
}

// UserLocks is a non-blocking advisory lock table keyed by user id. It
// guards against double shift-row creation from rapid repeated taps; a
// rejected acquire simply tells the caller to ask the user to retry.
type UserLocks interface {
	// TryAcquire returns a token when the lock was free, or false
	// immediately when it is held.
	TryAcquire(userID int64) (*LockToken, bool)

	// Release frees the lock. Releasing a stale token is a no-op.
	Release(token *LockToken)
}

// NotifyCache suppresses duplicate close notifications for a row within a
// short window.
type NotifyCache interface {
	// SeenRecently reports whether a notification for row went out inside
	// the dedupe window, pruning expired entries as a side effect.
	SeenRecently(row int64, now time.Time) bool

	// Mark records that a notification for row was attempted.
	Mark(row int64, now time.Time)
}
