package memory

import (
	"sync"
	"time"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// DefaultNotifyTTL is how long a close notification suppresses repeats for
// the same row.
const DefaultNotifyTTL = 10 * time.Minute

// NotifyCache remembers recently notified rows for a TTL.
type NotifyCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[int64]time.Time
}

// NewNotifyCache creates a cache with the given TTL; ttl <= 0 falls back to
// DefaultNotifyTTL.
func NewNotifyCache(ttl time.Duration) *NotifyCache {
	if ttl <= 0 {
		ttl = DefaultNotifyTTL
	}
	return &NotifyCache{ttl: ttl, entries: make(map[int64]time.Time)}
}

// SeenRecently reports whether row was notified within the TTL, dropping
// expired entries along the way.
func (c *NotifyCache) SeenRecently(row int64, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, at := range c.entries {
		if now.Sub(at) >= c.ttl {
			delete(c.entries, key)
		}
	}
	at, ok := c.entries[row]
	return ok && now.Sub(at) < c.ttl
}

// Mark records a notification attempt for row.
func (c *NotifyCache) Mark(row int64, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[row] = now
}

// Ensure NotifyCache implements the interface
var _ secondary.NotifyCache = (*NotifyCache)(nil)
