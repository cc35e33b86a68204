package excel

import (
	"context"
	"fmt"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

const (
	dirColName   = 1
	dirColStatus = 2
)

// DirectoryStore implements secondary.DirectoryRepository, one sheet per
// directory kind. Entries are appended, never removed.
type DirectoryStore struct {
	wb *Workbook
}

// NewDirectoryStore creates a workbook-backed directory repository.
func NewDirectoryStore(wb *Workbook) *DirectoryStore {
	return &DirectoryStore{wb: wb}
}

func sheetForKind(kind secondary.EntryKind) (string, error) {
	switch kind {
	case secondary.KindDriver:
		return sheetDrivers, nil
	case secondary.KindWorker:
		return sheetWorkers, nil
	case secondary.KindShip:
		return sheetShips, nil
	default:
		return "", fmt.Errorf("unknown directory kind %q", kind)
	}
}

// ListActive returns active entry names in sheet order.
func (s *DirectoryStore) ListActive(ctx context.Context, kind secondary.EntryKind) ([]string, error) {
	sheet, err := sheetForKind(kind)
	if err != nil {
		return nil, err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	rows, err := s.wb.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s sheet: %w", sheet, err)
	}

	var names []string
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) < dirColName || row[dirColName-1] == "" {
			continue
		}
		status := ""
		if len(row) >= dirColStatus {
			status = row[dirColStatus-1]
		}
		if status == string(secondary.StatusActive) {
			names = append(names, row[dirColName-1])
		}
	}
	return names, nil
}

// Add appends a new active entry. An existing name in any status fails
// with ErrDuplicate.
func (s *DirectoryStore) Add(ctx context.Context, kind secondary.EntryKind, name string) error {
	sheet, err := sheetForKind(kind)
	if err != nil {
		return err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if _, found, err := s.findLocked(sheet, name); err != nil {
		return err
	} else if found {
		return fmt.Errorf("%s %q: %w", kind, name, secondary.ErrDuplicate)
	}

	count, err := s.wb.rowCount(sheet)
	if err != nil {
		return err
	}
	row := count + 1
	if err := s.wb.setCell(sheet, dirColName, row, name); err != nil {
		return err
	}
	if err := s.wb.setCell(sheet, dirColStatus, row, string(secondary.StatusActive)); err != nil {
		return err
	}
	return s.wb.save(ctx)
}

// Status looks up an entry by exact name across all statuses.
func (s *DirectoryStore) Status(ctx context.Context, kind secondary.EntryKind, name string) (secondary.EntryStatus, bool, error) {
	sheet, err := sheetForKind(kind)
	if err != nil {
		return "", false, err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	row, found, err := s.findLocked(sheet, name)
	if err != nil || !found {
		return "", false, err
	}
	status, err := s.wb.getCell(sheet, dirColStatus, row)
	if err != nil {
		return "", false, err
	}
	return secondary.EntryStatus(status), true, nil
}

// Archive retires an entry so it no longer appears in ListActive.
func (s *DirectoryStore) Archive(ctx context.Context, kind secondary.EntryKind, name string) error {
	sheet, err := sheetForKind(kind)
	if err != nil {
		return err
	}

	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	row, found, err := s.findLocked(sheet, name)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s %q: %w", kind, name, secondary.ErrNotFound)
	}
	if err := s.wb.setCell(sheet, dirColStatus, row, string(secondary.StatusArchived)); err != nil {
		return err
	}
	return s.wb.save(ctx)
}

// findLocked returns the sheet row of an entry by exact name.
func (s *DirectoryStore) findLocked(sheet, name string) (int, bool, error) {
	rows, err := s.wb.file.GetRows(sheet)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read %s sheet: %w", sheet, err)
	}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) >= dirColName && row[dirColName-1] == name {
			return i + 1, true, nil
		}
	}
	return 0, false, nil
}

// Ensure DirectoryStore implements the interface
var _ secondary.DirectoryRepository = (*DirectoryStore)(nil)
