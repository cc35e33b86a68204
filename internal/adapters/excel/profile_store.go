package excel

import (
	"context"
	"fmt"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

const (
	profColTelegramID = 1
	profColLastName   = 2
	profColFirstName  = 3
	profColPatronymic = 4
	profColDisplay    = 5
)

// ProfileStore implements secondary.ProfileRepository on a workbook sheet.
type ProfileStore struct {
	wb *Workbook
}

// NewProfileStore creates a workbook-backed profile repository.
func NewProfileStore(wb *Workbook) *ProfileStore {
	return &ProfileStore{wb: wb}
}

// FindByTelegramID returns the profile for a Telegram user, or ErrNotFound.
func (s *ProfileStore) FindByTelegramID(ctx context.Context, telegramID int64) (*secondary.Profile, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	row, found, err := s.findLocked(telegramID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("telegram id %d: %w", telegramID, secondary.ErrNotFound)
	}

	profile := &secondary.Profile{TelegramID: telegramID}
	fields := []struct {
		col int
		dst *string
	}{
		{profColLastName, &profile.LastName},
		{profColFirstName, &profile.FirstName},
		{profColPatronymic, &profile.Patronymic},
		{profColDisplay, &profile.Display},
	}
	for _, f := range fields {
		value, err := s.wb.getCell(sheetProfiles, f.col, row)
		if err != nil {
			return nil, err
		}
		*f.dst = value
	}
	return profile, nil
}

// NameExists checks whether a full name is already registered.
func (s *ProfileStore) NameExists(ctx context.Context, last, first, patronymic string) (bool, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	rows, err := s.wb.file.GetRows(sheetProfiles)
	if err != nil {
		return false, fmt.Errorf("failed to read profiles sheet: %w", err)
	}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if field(row, profColLastName) == last &&
			field(row, profColFirstName) == first &&
			field(row, profColPatronymic) == patronymic {
			return true, nil
		}
	}
	return false, nil
}

// Create persists a new profile. A duplicate Telegram id fails with
// ErrDuplicate.
func (s *ProfileStore) Create(ctx context.Context, profile *secondary.Profile) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if _, found, err := s.findLocked(profile.TelegramID); err != nil {
		return err
	} else if found {
		return fmt.Errorf("telegram id %d: %w", profile.TelegramID, secondary.ErrDuplicate)
	}

	count, err := s.wb.rowCount(sheetProfiles)
	if err != nil {
		return err
	}
	row := count + 1
	cells := []struct {
		col   int
		value any
	}{
		{profColTelegramID, profile.TelegramID},
		{profColLastName, profile.LastName},
		{profColFirstName, profile.FirstName},
		{profColPatronymic, profile.Patronymic},
		{profColDisplay, profile.Display},
	}
	for _, c := range cells {
		if err := s.wb.setCell(sheetProfiles, c.col, row, c.value); err != nil {
			return err
		}
	}
	return s.wb.save(ctx)
}

// findLocked returns the sheet row of a profile by Telegram id.
func (s *ProfileStore) findLocked(telegramID int64) (int, bool, error) {
	rows, err := s.wb.file.GetRows(sheetProfiles)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read profiles sheet: %w", err)
	}
	id := fmt.Sprintf("%d", telegramID)
	for i := 1; i < len(rows); i++ {
		if field(rows[i], profColTelegramID) == id {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

func field(row []string, col int) string {
	if col > len(row) {
		return ""
	}
	return row[col-1]
}

// Ensure ProfileStore implements the interface
var _ secondary.ProfileRepository = (*ProfileStore)(nil)
