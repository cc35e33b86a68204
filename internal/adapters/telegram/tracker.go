package telegram

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// MessageTracker remembers the dialogue messages sent to a user so they can
// be swept away in one flush when the dialogue ends. Tracking and flushing
// never fail the dialogue; a message already gone is an expected case.
type MessageTracker struct {
	msgr   secondary.Messenger
	logger *zap.Logger

	mu   sync.Mutex
	sent map[int64][]trackedMessage
}

type trackedMessage struct {
	chatID    int64
	messageID int
}

// NewMessageTracker creates an empty tracker.
func NewMessageTracker(msgr secondary.Messenger, logger *zap.Logger) *MessageTracker {
	return &MessageTracker{
		msgr:   msgr,
		logger: logger,
		sent:   make(map[int64][]trackedMessage),
	}
}

// Track records a sent message for later cleanup.
func (t *MessageTracker) Track(userID, chatID int64, messageID int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.sent[userID] = append(t.sent[userID], trackedMessage{chatID: chatID, messageID: messageID})
}

// Flush deletes every tracked message for a user and clears the list. A
// second flush is a no-op. Already-gone messages are skipped silently;
// other delete failures are logged and do not stop the sweep.
func (t *MessageTracker) Flush(ctx context.Context, userID int64) {
	t.mu.Lock()
	messages := t.sent[userID]
	delete(t.sent, userID)
	t.mu.Unlock()

	for _, m := range messages {
		err := t.msgr.Delete(ctx, m.chatID, m.messageID)
		if err != nil && !errors.Is(err, secondary.ErrMessageGone) {
			t.logger.Warn("failed to sweep dialogue message",
				zap.Int64("user_id", userID),
				zap.Int("message_id", m.messageID),
				zap.Error(err),
			)
		}
	}
}

// Count returns how many messages are tracked for a user.
func (t *MessageTracker) Count(userID int64) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.sent[userID])
}
