package primary

import (
	"context"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// RegisterRequest carries the validated name pieces of a new foreman.
type RegisterRequest struct {
	TelegramID int64
	LastName   string
	FirstName  string
	Patronymic string
}

// RegistrationService manages foreman profiles.
type RegistrationService interface {
	// Profile returns the registered profile for a Telegram user, or
	// secondary.ErrNotFound.
	Profile(ctx context.Context, telegramID int64) (*secondary.Profile, error)

	// Register validates and persists a new profile. A Telegram id or
	// full name that is already registered fails with
	// secondary.ErrDuplicate.
	Register(ctx context.Context, req RegisterRequest) (*secondary.Profile, error)
}
