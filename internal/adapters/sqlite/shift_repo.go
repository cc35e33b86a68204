// Package sqlite contains SQLite implementations of the persistence ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// workerSeparator joins the worker list into one column.
const workerSeparator = "\n"

// ShiftRepository implements secondary.ShiftRepository with SQLite.
// One row per foreman per calendar day; row ids are the opaque handles
// handed to the services.
type ShiftRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewShiftRepository creates a new SQLite shift repository.
func NewShiftRepository(db *sql.DB) *ShiftRepository {
	return &ShiftRepository{db: db, now: time.Now}
}

func (r *ShiftRepository) today() string {
	return r.now().Format("2006-01-02")
}

// FindRow locates today's shift row for a user, closed or not.
func (r *ShiftRepository) FindRow(ctx context.Context, userID int64) (int64, bool, error) {
	var row int64
	err := r.db.QueryRowContext(ctx,
		"SELECT id FROM shifts WHERE user_id = ? AND shift_date = ?",
		userID, r.today(),
	).Scan(&row)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to find shift row: %w", err)
	}
	return row, true, nil
}

// OpenRow creates today's shift row for a user, or returns the existing one.
func (r *ShiftRepository) OpenRow(ctx context.Context, userID int64) (int64, error) {
	date := r.today()
	_, err := r.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO shifts (user_id, shift_date) VALUES (?, ?)",
		userID, date,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to open shift row: %w", err)
	}

	var row int64
	err = r.db.QueryRowContext(ctx,
		"SELECT id FROM shifts WHERE user_id = ? AND shift_date = ?",
		userID, date,
	).Scan(&row)
	if err != nil {
		return 0, fmt.Errorf("failed to read opened shift row: %w", err)
	}
	return row, nil
}

// Progress reads per-section completion for a row.
func (r *ShiftRepository) Progress(ctx context.Context, row int64) (map[secondary.Section]bool, error) {
	var crew, expenses, materials bool
	err := r.db.QueryRowContext(ctx,
		"SELECT crew_saved, expenses_saved, materials_saved FROM shifts WHERE id = ?",
		row,
	).Scan(&crew, &expenses, &materials)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("shift row %d: %w", row, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read shift progress: %w", err)
	}
	return map[secondary.Section]bool{
		secondary.SectionCrew:      crew,
		secondary.SectionExpenses:  expenses,
		secondary.SectionMaterials: materials,
	}, nil
}

// ShiftDate returns the calendar date of the shift as stored.
func (r *ShiftRepository) ShiftDate(ctx context.Context, row int64) (string, error) {
	var date string
	err := r.db.QueryRowContext(ctx,
		"SELECT shift_date FROM shifts WHERE id = ?", row,
	).Scan(&date)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("shift row %d: %w", row, secondary.ErrNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read shift date: %w", err)
	}
	return date, nil
}

// Summary reads the full shift record for reporting.
func (r *ShiftRepository) Summary(ctx context.Context, row int64) (*secondary.ShiftSummary, error) {
	var (
		driver, workers, ship, photosLink sql.NullString
		holds                             sql.NullInt64
		summary                           secondary.ShiftSummary
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT shift_date, driver, workers, ship, holds,
			transport, foreman, workers_pay, auxiliary, food, taxi, other, total,
			film_meters, tube_count, tape_count, photos_link, closed
		FROM shifts WHERE id = ?`,
		row,
	).Scan(
		&summary.Date, &driver, &workers, &ship, &holds,
		&summary.Expenses.Transport, &summary.Expenses.Foreman, &summary.Expenses.Workers,
		&summary.Expenses.Auxiliary, &summary.Expenses.Food, &summary.Expenses.Taxi,
		&summary.Expenses.Other, &summary.Expenses.Total,
		&summary.Materials.FilmMeters, &summary.Materials.TubeCount, &summary.Materials.TapeCount,
		&photosLink, &summary.Closed,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("shift row %d: %w", row, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read shift summary: %w", err)
	}

	summary.Crew.Driver = driver.String
	if workers.Valid && workers.String != "" {
		summary.Crew.Workers = strings.Split(workers.String, workerSeparator)
	}
	summary.Expenses.Ship = ship.String
	summary.Expenses.Holds = int(holds.Int64)
	summary.Materials.PhotosLink = photosLink.String
	return &summary, nil
}

// SaveCrew persists the crew section in one write.
func (r *ShiftRepository) SaveCrew(ctx context.Context, row int64, crew secondary.CrewRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET driver = ?, workers = ?, crew_saved = 1,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		crew.Driver, strings.Join(crew.Workers, workerSeparator), row,
	)
	if err != nil {
		return fmt.Errorf("failed to save crew: %w", err)
	}
	return requireRow(result, row)
}

// SaveExpenses persists the expenses section in one write.
func (r *ShiftRepository) SaveExpenses(ctx context.Context, row int64, expenses secondary.ExpensesRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET ship = ?, holds = ?,
			transport = ?, foreman = ?, workers_pay = ?, auxiliary = ?,
			food = ?, taxi = ?, other = ?, total = ?,
			expenses_saved = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		expenses.Ship, expenses.Holds,
		expenses.Transport, expenses.Foreman, expenses.Workers, expenses.Auxiliary,
		expenses.Food, expenses.Taxi, expenses.Other, expenses.Total,
		row,
	)
	if err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	return requireRow(result, row)
}

// SaveMaterials persists the materials section in one write.
func (r *ShiftRepository) SaveMaterials(ctx context.Context, row int64, materials secondary.MaterialsRecord) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE shifts SET film_meters = ?, tube_count = ?, tape_count = ?,
			photos_link = ?, materials_saved = 1, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		materials.FilmMeters, materials.TubeCount, materials.TapeCount,
		materials.PhotosLink, row,
	)
	if err != nil {
		return fmt.Errorf("failed to save materials: %w", err)
	}
	return requireRow(result, row)
}

// IsClosed reports whether the shift row has been closed.
func (r *ShiftRepository) IsClosed(ctx context.Context, row int64) (bool, error) {
	var closed bool
	err := r.db.QueryRowContext(ctx,
		"SELECT closed FROM shifts WHERE id = ?", row,
	).Scan(&closed)
	if err == sql.ErrNoRows {
		return false, fmt.Errorf("shift row %d: %w", row, secondary.ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("failed to read closed flag: %w", err)
	}
	return closed, nil
}

// MarkClosed sets the closed flag as a compare-and-set: only the call that
// flips 0 to 1 reports true.
func (r *ShiftRepository) MarkClosed(ctx context.Context, row int64) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE shifts SET closed = 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND closed = 0",
		row,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark shift closed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read close result: %w", err)
	}
	return affected == 1, nil
}

func requireRow(result sql.Result, row int64) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read write result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("shift row %d: %w", row, secondary.ErrNotFound)
	}
	return nil
}

// Ensure ShiftRepository implements the interface
var _ secondary.ShiftRepository = (*ShiftRepository)(nil)
