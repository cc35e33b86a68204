package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// UserLocks is a non-blocking advisory lock table. Entries are created
// lazily per user id and never removed; the key space is bounded by
// distinct users, not request volume.
type UserLocks struct {
	mu   sync.Mutex
	held map[int64]string // user id -> token id of the holder
}

// NewUserLocks creates an empty lock table.
func NewUserLocks() *UserLocks {
	return &UserLocks{held: make(map[int64]string)}
}

// TryAcquire grabs the user's lock if free. It never blocks.
func (l *UserLocks) TryAcquire(userID int64) (*secondary.LockToken, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, taken := l.held[userID]; taken {
		return nil, false
	}
	token := &secondary.LockToken{UserID: userID, ID: uuid.NewString()}
	l.held[userID] = token.ID
	return token, true
}

// Release frees the lock if the token is still the holder. Stale or nil
// tokens are ignored.
func (l *UserLocks) Release(token *secondary.LockToken) {
	if token == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[token.UserID] == token.ID {
		delete(l.held, token.UserID)
	}
}

// Ensure UserLocks implements the interface
var _ secondary.UserLocks = (*UserLocks)(nil)
