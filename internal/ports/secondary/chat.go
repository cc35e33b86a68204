package secondary

import (
	"context"
	"errors"
)

// ErrMessageGone reports an edit or delete against a message the platform
// no longer knows about. It is an expected, non-fatal condition.
var ErrMessageGone = errors.New("message already gone")

// Keyboard is a reply-keyboard layout: rows of button labels.
// A nil keyboard removes the previous one.
type Keyboard [][]string

// Messenger defines the secondary port for the chat platform.
type Messenger interface {
	// Send delivers a text message with an optional keyboard and returns
	// the new message id.
	Send(ctx context.Context, chatID int64, text string, keyboard Keyboard) (int, error)

	// Delete removes a message. Deleting an already-gone message returns
	// ErrMessageGone.
	Delete(ctx context.Context, chatID int64, messageID int) error

	// Download fetches a file by its platform reference and returns the
	// raw bytes together with the remote file path (used for the
	// extension).
	Download(ctx context.Context, fileID string) (content []byte, remotePath string, err error)
}

// GroupNotifier delivers operational notifications to the work group chat.
type GroupNotifier interface {
	// NotifyGroup posts an HTML-formatted report.
	NotifyGroup(ctx context.Context, text string) error
}
