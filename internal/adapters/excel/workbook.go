// Package excel implements the persistence ports on top of an xlsx
// workbook, for deployments that keep the shift ledger as a spreadsheet
// instead of a database. Row numbers double as the opaque row handles.
package excel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/retry"
)

const (
	sheetShifts   = "shifts"
	sheetProfiles = "profiles"
	sheetDrivers  = "drivers"
	sheetWorkers  = "workers"
	sheetShips    = "ships"
)

const (
	saveAttempts = 3
	saveBackoff  = 200 * time.Millisecond
)

// Shift sheet columns, 1-based.
const (
	colUserID = iota + 1
	colDate
	colDriver
	colWorkers
	colCrewSaved
	colShip
	colHolds
	colTransport
	colForeman
	colWorkersPay
	colAuxiliary
	colFood
	colTaxi
	colOther
	colTotal
	colExpensesSaved
	colFilmMeters
	colTubeCount
	colTapeCount
	colPhotosLink
	colMaterialsSaved
	colClosed
)

var shiftHeaders = []string{
	"user_id", "date", "driver", "workers", "crew_saved",
	"ship", "holds", "transport", "foreman", "workers_pay",
	"auxiliary", "food", "taxi", "other", "total", "expenses_saved",
	"film_meters", "tube_count", "tape_count", "photos_link",
	"materials_saved", "closed",
}

var directoryHeaders = []string{"name", "status"}
var profileHeaders = []string{"telegram_id", "last_name", "first_name", "patronymic", "display"}

// Workbook owns the xlsx file and serializes all access to it; excelize
// files are not safe for concurrent use.
type Workbook struct {
	mu   sync.Mutex
	path string
	file *excelize.File
	now  func() time.Time
}

// OpenWorkbook opens the workbook at path, creating it with the expected
// sheets when missing.
func OpenWorkbook(path string) (*Workbook, error) {
	var file *excelize.File
	if _, err := os.Stat(path); err == nil {
		file, err = excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open workbook: %w", err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		file = excelize.NewFile()
	} else {
		return nil, fmt.Errorf("failed to stat workbook: %w", err)
	}

	wb := &Workbook{path: path, file: file, now: time.Now}
	if err := wb.ensureSheets(); err != nil {
		file.Close()
		return nil, err
	}
	if err := wb.save(context.Background()); err != nil {
		file.Close()
		return nil, err
	}
	return wb, nil
}

// Close releases the underlying file handle without saving.
func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.file.Close()
}

func (w *Workbook) ensureSheets() error {
	wanted := map[string][]string{
		sheetShifts:   shiftHeaders,
		sheetProfiles: profileHeaders,
		sheetDrivers:  directoryHeaders,
		sheetWorkers:  directoryHeaders,
		sheetShips:    directoryHeaders,
	}
	for name, headers := range wanted {
		idx, err := w.file.GetSheetIndex(name)
		if err != nil {
			return fmt.Errorf("failed to look up sheet %s: %w", name, err)
		}
		if idx != -1 {
			continue
		}
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", name, err)
		}
		for col, header := range headers {
			if err := w.setCell(name, col+1, 1, header); err != nil {
				return err
			}
		}
	}

	// Drop the default sheet excelize creates in fresh files.
	if idx, err := w.file.GetSheetIndex("Sheet1"); err == nil && idx != -1 {
		if err := w.file.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	return nil
}

// save writes the workbook to disk with a bounded retry; spreadsheet files
// on shared storage see transient lock errors.
func (w *Workbook) save(ctx context.Context) error {
	err := retry.Do(ctx, saveAttempts, saveBackoff, func() error {
		return w.file.SaveAs(w.path)
	})
	if err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (w *Workbook) setCell(sheet string, col, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("failed to address cell: %w", err)
	}
	if err := w.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func (w *Workbook) getCell(sheet string, col, row int) (string, error) {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return "", fmt.Errorf("failed to address cell: %w", err)
	}
	value, err := w.file.GetCellValue(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("failed to read cell %s!%s: %w", sheet, cell, err)
	}
	return value, nil
}

// rowCount returns the number of used rows in a sheet, header included.
func (w *Workbook) rowCount(sheet string) (int, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return 0, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return len(rows), nil
}

func cellInt(value string) int {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return n
}

func cellBool(value string) bool {
	return value == "1"
}

func boolCell(v bool) int {
	if v {
		return 1
	}
	return 0
}
