package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

const workerSeparator = "\n"

// ShiftStore implements secondary.ShiftRepository on a workbook sheet.
// The sheet row number is the row handle; data starts at row 2.
type ShiftStore struct {
	wb *Workbook
}

// NewShiftStore creates a workbook-backed shift repository.
func NewShiftStore(wb *Workbook) *ShiftStore {
	return &ShiftStore{wb: wb}
}

func (s *ShiftStore) today() string {
	return s.wb.now().Format("2006-01-02")
}

// findRowLocked scans the shifts sheet for today's row of a user.
// Caller holds wb.mu.
func (s *ShiftStore) findRowLocked(userID int64, date string) (int64, bool, error) {
	rows, err := s.wb.file.GetRows(sheetShifts)
	if err != nil {
		return 0, false, fmt.Errorf("failed to read shifts sheet: %w", err)
	}
	id := fmt.Sprintf("%d", userID)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) >= colDate && row[colUserID-1] == id && row[colDate-1] == date {
			return int64(i + 1), true, nil
		}
	}
	return 0, false, nil
}

// rowExistsLocked reports whether a handle points at a data row.
func (s *ShiftStore) rowExistsLocked(row int64) (bool, error) {
	if row < 2 {
		return false, nil
	}
	value, err := s.wb.getCell(sheetShifts, colUserID, int(row))
	if err != nil {
		return false, err
	}
	return value != "", nil
}

// FindRow locates today's shift row for a user, closed or not.
func (s *ShiftStore) FindRow(ctx context.Context, userID int64) (int64, bool, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()
	return s.findRowLocked(userID, s.today())
}

// OpenRow appends today's shift row for a user, or returns the existing one.
func (s *ShiftStore) OpenRow(ctx context.Context, userID int64) (int64, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	date := s.today()
	if row, ok, err := s.findRowLocked(userID, date); err != nil {
		return 0, err
	} else if ok {
		return row, nil
	}

	count, err := s.wb.rowCount(sheetShifts)
	if err != nil {
		return 0, err
	}
	row := count + 1
	if err := s.wb.setCell(sheetShifts, colUserID, row, userID); err != nil {
		return 0, err
	}
	if err := s.wb.setCell(sheetShifts, colDate, row, date); err != nil {
		return 0, err
	}
	if err := s.wb.save(ctx); err != nil {
		return 0, err
	}
	return int64(row), nil
}

// Progress reads per-section completion for a row.
func (s *ShiftStore) Progress(ctx context.Context, row int64) (map[secondary.Section]bool, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return nil, err
	}
	progress := make(map[secondary.Section]bool, 3)
	for section, col := range map[secondary.Section]int{
		secondary.SectionCrew:      colCrewSaved,
		secondary.SectionExpenses:  colExpensesSaved,
		secondary.SectionMaterials: colMaterialsSaved,
	} {
		value, err := s.wb.getCell(sheetShifts, col, int(row))
		if err != nil {
			return nil, err
		}
		progress[section] = cellBool(value)
	}
	return progress, nil
}

// ShiftDate returns the calendar date of the shift as stored.
func (s *ShiftStore) ShiftDate(ctx context.Context, row int64) (string, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return "", err
	}
	return s.wb.getCell(sheetShifts, colDate, int(row))
}

// Summary reads the full shift record for reporting.
func (s *ShiftStore) Summary(ctx context.Context, row int64) (*secondary.ShiftSummary, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return nil, err
	}

	read := func(col int) (string, error) {
		return s.wb.getCell(sheetShifts, col, int(row))
	}

	summary := &secondary.ShiftSummary{}
	var err error
	if summary.Date, err = read(colDate); err != nil {
		return nil, err
	}
	if summary.Crew.Driver, err = read(colDriver); err != nil {
		return nil, err
	}
	workers, err := read(colWorkers)
	if err != nil {
		return nil, err
	}
	if workers != "" {
		summary.Crew.Workers = strings.Split(workers, workerSeparator)
	}

	intFields := []struct {
		col int
		dst *int
	}{
		{colHolds, &summary.Expenses.Holds},
		{colTransport, &summary.Expenses.Transport},
		{colForeman, &summary.Expenses.Foreman},
		{colWorkersPay, &summary.Expenses.Workers},
		{colAuxiliary, &summary.Expenses.Auxiliary},
		{colFood, &summary.Expenses.Food},
		{colTaxi, &summary.Expenses.Taxi},
		{colOther, &summary.Expenses.Other},
		{colTotal, &summary.Expenses.Total},
		{colFilmMeters, &summary.Materials.FilmMeters},
		{colTubeCount, &summary.Materials.TubeCount},
		{colTapeCount, &summary.Materials.TapeCount},
	}
	for _, f := range intFields {
		value, err := read(f.col)
		if err != nil {
			return nil, err
		}
		*f.dst = cellInt(value)
	}

	if summary.Expenses.Ship, err = read(colShip); err != nil {
		return nil, err
	}
	if summary.Materials.PhotosLink, err = read(colPhotosLink); err != nil {
		return nil, err
	}
	closed, err := read(colClosed)
	if err != nil {
		return nil, err
	}
	summary.Closed = cellBool(closed)
	return summary, nil
}

// SaveCrew persists the crew section in one write.
func (s *ShiftStore) SaveCrew(ctx context.Context, row int64, crew secondary.CrewRecord) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return err
	}
	if err := s.wb.setCell(sheetShifts, colDriver, int(row), crew.Driver); err != nil {
		return err
	}
	if err := s.wb.setCell(sheetShifts, colWorkers, int(row), strings.Join(crew.Workers, workerSeparator)); err != nil {
		return err
	}
	if err := s.wb.setCell(sheetShifts, colCrewSaved, int(row), 1); err != nil {
		return err
	}
	return s.wb.save(ctx)
}

// SaveExpenses persists the expenses section in one write.
func (s *ShiftStore) SaveExpenses(ctx context.Context, row int64, expenses secondary.ExpensesRecord) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return err
	}
	cells := []struct {
		col   int
		value any
	}{
		{colShip, expenses.Ship},
		{colHolds, expenses.Holds},
		{colTransport, expenses.Transport},
		{colForeman, expenses.Foreman},
		{colWorkersPay, expenses.Workers},
		{colAuxiliary, expenses.Auxiliary},
		{colFood, expenses.Food},
		{colTaxi, expenses.Taxi},
		{colOther, expenses.Other},
		{colTotal, expenses.Total},
		{colExpensesSaved, 1},
	}
	for _, c := range cells {
		if err := s.wb.setCell(sheetShifts, c.col, int(row), c.value); err != nil {
			return err
		}
	}
	return s.wb.save(ctx)
}

// SaveMaterials persists the materials section in one write.
func (s *ShiftStore) SaveMaterials(ctx context.Context, row int64, materials secondary.MaterialsRecord) error {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return err
	}
	cells := []struct {
		col   int
		value any
	}{
		{colFilmMeters, materials.FilmMeters},
		{colTubeCount, materials.TubeCount},
		{colTapeCount, materials.TapeCount},
		{colPhotosLink, materials.PhotosLink},
		{colMaterialsSaved, 1},
	}
	for _, c := range cells {
		if err := s.wb.setCell(sheetShifts, c.col, int(row), c.value); err != nil {
			return err
		}
	}
	return s.wb.save(ctx)
}

// IsClosed reports whether the shift row has been closed.
func (s *ShiftStore) IsClosed(ctx context.Context, row int64) (bool, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return false, err
	}
	value, err := s.wb.getCell(sheetShifts, colClosed, int(row))
	if err != nil {
		return false, err
	}
	return cellBool(value), nil
}

// MarkClosed sets the closed flag; only the call that performs the
// transition reports true.
func (s *ShiftStore) MarkClosed(ctx context.Context, row int64) (bool, error) {
	s.wb.mu.Lock()
	defer s.wb.mu.Unlock()

	if err := s.requireRowLocked(row); err != nil {
		return false, err
	}
	value, err := s.wb.getCell(sheetShifts, colClosed, int(row))
	if err != nil {
		return false, err
	}
	if cellBool(value) {
		return false, nil
	}
	if err := s.wb.setCell(sheetShifts, colClosed, int(row), 1); err != nil {
		return false, err
	}
	if err := s.wb.save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *ShiftStore) requireRowLocked(row int64) error {
	ok, err := s.rowExistsLocked(row)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("shift row %d: %w", row, secondary.ErrNotFound)
	}
	return nil
}

// Ensure ShiftStore implements the interface
var _ secondary.ShiftRepository = (*ShiftStore)(nil)
