package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// DirectoryRepository implements secondary.DirectoryRepository with SQLite.
// Directories are append-only; entries are archived, never deleted, so the
// dialogue ids (list positions) of active entries stay meaningful.
type DirectoryRepository struct {
	db *sql.DB
}

// NewDirectoryRepository creates a new SQLite directory repository.
func NewDirectoryRepository(db *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListActive returns active entry names in insertion order.
func (r *DirectoryRepository) ListActive(ctx context.Context, kind secondary.EntryKind) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT name FROM directory_entries WHERE kind = ? AND status = 'active' ORDER BY id",
		string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s directory: %w", kind, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan directory entry: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read directory entries: %w", err)
	}
	return names, nil
}

// Add appends a new active entry. An existing name in any status fails with
// ErrDuplicate.
func (r *DirectoryRepository) Add(ctx context.Context, kind secondary.EntryKind, name string) error {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM directory_entries WHERE kind = ? AND name = ?",
		string(kind), name,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check directory entry: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%s %q: %w", kind, name, secondary.ErrDuplicate)
	}

	_, err = r.db.ExecContext(ctx,
		"INSERT INTO directory_entries (kind, name, status) VALUES (?, ?, 'active')",
		string(kind), name,
	)
	if err != nil {
		return fmt.Errorf("failed to add directory entry: %w", err)
	}
	return nil
}

// Status looks up an entry by exact name across all statuses.
func (r *DirectoryRepository) Status(ctx context.Context, kind secondary.EntryKind, name string) (secondary.EntryStatus, bool, error) {
	var status string
	err := r.db.QueryRowContext(ctx,
		"SELECT status FROM directory_entries WHERE kind = ? AND name = ?",
		string(kind), name,
	).Scan(&status)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read directory status: %w", err)
	}
	return secondary.EntryStatus(status), true, nil
}

// Archive retires an entry so it no longer appears in ListActive.
func (r *DirectoryRepository) Archive(ctx context.Context, kind secondary.EntryKind, name string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE directory_entries SET status = 'archived' WHERE kind = ? AND name = ?",
		string(kind), name,
	)
	if err != nil {
		return fmt.Errorf("failed to archive directory entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read archive result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %q: %w", kind, name, secondary.ErrNotFound)
	}
	return nil
}

// Ensure DirectoryRepository implements the interface
var _ secondary.DirectoryRepository = (*DirectoryRepository)(nil)
