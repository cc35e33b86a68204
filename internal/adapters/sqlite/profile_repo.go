package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// ProfileRepository implements secondary.ProfileRepository with SQLite.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new SQLite profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// FindByTelegramID returns the profile for a Telegram user, or ErrNotFound.
func (r *ProfileRepository) FindByTelegramID(ctx context.Context, telegramID int64) (*secondary.Profile, error) {
	var patronymic sql.NullString
	profile := &secondary.Profile{}
	err := r.db.QueryRowContext(ctx,
		"SELECT telegram_id, last_name, first_name, patronymic, display FROM profiles WHERE telegram_id = ?",
		telegramID,
	).Scan(&profile.TelegramID, &profile.LastName, &profile.FirstName, &patronymic, &profile.Display)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("telegram id %d: %w", telegramID, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	profile.Patronymic = patronymic.String
	return profile, nil
}

// NameExists checks whether a full name is already registered.
func (r *ProfileRepository) NameExists(ctx context.Context, last, first, patronymic string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM profiles WHERE last_name = ? AND first_name = ? AND COALESCE(patronymic, '') = ?",
		last, first, patronymic,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check profile name: %w", err)
	}
	return count > 0, nil
}

// Create persists a new profile. A duplicate Telegram id fails with
// ErrDuplicate.
func (r *ProfileRepository) Create(ctx context.Context, profile *secondary.Profile) error {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM profiles WHERE telegram_id = ?",
		profile.TelegramID,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check profile: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("telegram id %d: %w", profile.TelegramID, secondary.ErrDuplicate)
	}

	var patronymic sql.NullString
	if profile.Patronymic != "" {
		patronymic = sql.NullString{String: profile.Patronymic, Valid: true}
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO profiles (telegram_id, last_name, first_name, patronymic, display) VALUES (?, ?, ?, ?, ?)",
		profile.TelegramID, profile.LastName, profile.FirstName, patronymic, profile.Display,
	)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}
	return nil
}

// Ensure ProfileRepository implements the interface
var _ secondary.ProfileRepository = (*ProfileRepository)(nil)
