// Package sqlite_test contains integration tests for the SQLite
// repositories. All test databases are built from db.GetSchemaSQL() so a
// repository column that drifts from the schema fails immediately with
// "no such column".
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedProfile inserts a registered foreman so shift rows can reference it.
func seedProfile(t *testing.T, db *sql.DB, telegramID int64) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO profiles (telegram_id, last_name, first_name, display) VALUES (?, 'Иванов', 'Пётр', 'Пётр')",
		telegramID,
	)
	if err != nil {
		t.Fatalf("failed to seed profile: %v", err)
	}
}

// seedShift inserts a shift row directly and returns its id.
func seedShift(t *testing.T, db *sql.DB, userID int64, date string) int64 {
	t.Helper()
	result, err := db.Exec(
		"INSERT INTO shifts (user_id, shift_date) VALUES (?, ?)",
		userID, date,
	)
	if err != nil {
		t.Fatalf("failed to seed shift: %v", err)
	}
	row, err := result.LastInsertId()
	if err != nil {
		t.Fatalf("failed to read seeded shift id: %v", err)
	}
	return row
}
