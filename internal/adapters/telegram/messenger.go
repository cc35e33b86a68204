// Package telegram is the chat adapter: it drives the primary services
// from bot updates and implements the messenger ports over the Bot API.
package telegram

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// Messenger implements secondary.Messenger over the Bot API.
type Messenger struct {
	api *tgbotapi.BotAPI
}

// NewMessenger wraps a Bot API client.
func NewMessenger(api *tgbotapi.BotAPI) *Messenger {
	return &Messenger{api: api}
}

// Send delivers an HTML message. A nil keyboard removes the previous
// reply keyboard.
func (m *Messenger) Send(ctx context.Context, chatID int64, text string, keyboard secondary.Keyboard) (int, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if keyboard == nil {
		msg.ReplyMarkup = tgbotapi.NewRemoveKeyboard(false)
	} else {
		msg.ReplyMarkup = replyKeyboard(keyboard)
	}
	sent, err := m.api.Send(msg)
	if err != nil {
		return 0, fmt.Errorf("failed to send message: %w", err)
	}
	return sent.MessageID, nil
}

// Delete removes a message. A message the platform no longer knows about
// maps to ErrMessageGone.
func (m *Messenger) Delete(ctx context.Context, chatID int64, messageID int) error {
	_, err := m.api.Request(tgbotapi.NewDeleteMessage(chatID, messageID))
	if err != nil {
		if isMessageGone(err) {
			return secondary.ErrMessageGone
		}
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// Download fetches a file by its Bot API id and returns the raw bytes
// together with the remote path (the extension source).
func (m *Messenger) Download(ctx context.Context, fileID string) ([]byte, string, error) {
	file, err := m.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(m.api.Token), nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to build download request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read file body: %w", err)
	}
	return content, file.FilePath, nil
}

func isMessageGone(err error) bool {
	text := err.Error()
	return strings.Contains(text, "message to delete not found") ||
		strings.Contains(text, "message can't be deleted")
}

// replyKeyboard converts the port's row layout to a Bot API reply keyboard.
func replyKeyboard(keyboard secondary.Keyboard) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(keyboard))
	for _, labels := range keyboard {
		row := make([]tgbotapi.KeyboardButton, 0, len(labels))
		for _, label := range labels {
			row = append(row, tgbotapi.NewKeyboardButton(label))
		}
		rows = append(rows, row)
	}
	markup := tgbotapi.NewReplyKeyboard(rows...)
	markup.ResizeKeyboard = true
	return markup
}

// GroupNotifier posts close reports to the work group chat.
type GroupNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

// NewGroupNotifier creates a notifier bound to the group chat id.
func NewGroupNotifier(api *tgbotapi.BotAPI, chatID int64) *GroupNotifier {
	return &GroupNotifier{api: api, chatID: chatID}
}

// NotifyGroup posts an HTML-formatted report.
func (n *GroupNotifier) NotifyGroup(ctx context.Context, text string) error {
	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to notify group: %w", err)
	}
	return nil
}

// Ensure both implement their ports
var (
	_ secondary.Messenger     = (*Messenger)(nil)
	_ secondary.GroupNotifier = (*GroupNotifier)(nil)
)
