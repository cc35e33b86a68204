// Package secondary defines the secondary ports (driven adapters) for the
// application. These are the interfaces through which the application drives
// the record store, the file store and the chat platform.
package secondary

import (
	"context"
	"errors"
)

// Section names one of the three shift sections.
type Section string

const (
	SectionCrew      Section = "crew"
	SectionExpenses  Section = "expenses"
	SectionMaterials Section = "materials"
)

// Sections lists all sections in display order.
func Sections() []Section {
	return []Section{SectionCrew, SectionExpenses, SectionMaterials}
}

// Common errors shared across adapter implementations.
var (
	// ErrNotFound reports a missing row, profile or directory entry.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate reports an attempt to register an identity twice.
	ErrDuplicate = errors.New("record already exists")
	// ErrNameConflict reports a file-store upload name collision.
	ErrNameConflict = errors.New("file name already taken")
	// ErrUnauthorized reports a rejected file-store credential.
	ErrUnauthorized = errors.New("file store authorization failed")
)

// ShiftRepository defines the secondary port for shift persistence.
// Rows are opaque handles; callers never interpret them.
type ShiftRepository interface {
	// FindRow locates the open shift row for a user, if any.
	FindRow(ctx context.Context, userID int64) (row int64, ok bool, err error)

	// OpenRow creates (or returns) today's shift row for a user.
	OpenRow(ctx context.Context, userID int64) (int64, error)

	// Progress reads authoritative per-section completion for a row.
	Progress(ctx context.Context, row int64) (map[Section]bool, error)

	// ShiftDate returns the calendar date of the shift as stored.
	ShiftDate(ctx context.Context, row int64) (string, error)

	// Summary reads the full shift record for reporting.
	Summary(ctx context.Context, row int64) (*ShiftSummary, error)

	// SaveCrew persists the crew section in one write.
	SaveCrew(ctx context.Context, row int64, crew CrewRecord) error

	// SaveExpenses persists the expenses section in one write.
	SaveExpenses(ctx context.Context, row int64, expenses ExpensesRecord) error

	// SaveMaterials persists the materials section in one write.
	SaveMaterials(ctx context.Context, row int64, materials MaterialsRecord) error

	// IsClosed reports whether the shift row has been closed.
	IsClosed(ctx context.Context, row int64) (bool, error)

	// MarkClosed sets the closed flag. It returns true only when this call
	// performed the transition; closing an already-closed row is not an
	// error and returns false.
	MarkClosed(ctx context.Context, row int64) (bool, error)
}

// CrewRecord is the crew section as stored in persistence.
type CrewRecord struct {
	Driver  string
	Workers []string
}

// ExpensesRecord is the expenses section as stored in persistence.
// Amounts are whole currency units.
type ExpensesRecord struct {
	Ship      string
	Holds     int
	Transport int
	Foreman   int
	Workers   int
	Auxiliary int
	Food      int
	Taxi      int
	Other     int
	Total     int
}

// MaterialsRecord is the materials section as stored in persistence.
type MaterialsRecord struct {
	FilmMeters int
	TubeCount  int
	TapeCount  int
	PhotosLink string
}

// ShiftSummary is the full shift record read back for close reporting.
type ShiftSummary struct {
	Date      string
	Crew      CrewRecord
	Expenses  ExpensesRecord
	Materials MaterialsRecord
	Closed    bool
}

// EntryKind names a reference directory.
type EntryKind string

const (
	KindDriver EntryKind = "driver"
	KindWorker EntryKind = "worker"
	KindShip   EntryKind = "ship"
)

// EntryStatus distinguishes selectable entries from retired ones.
type EntryStatus string

const (
	StatusActive   EntryStatus = "active"
	StatusArchived EntryStatus = "archived"
)

// DirectoryRepository defines the secondary port for the append-only
// reference directories (drivers, workers, ships). Archived entries are
// excluded from ListActive but still visible to Status for duplicate checks.
type DirectoryRepository interface {
	// ListActive returns active entry names in directory order.
	ListActive(ctx context.Context, kind EntryKind) ([]string, error)

	// Add appends a new active entry.
	Add(ctx context.Context, kind EntryKind, name string) error

	// Status looks up an entry by exact name across all statuses.
	Status(ctx context.Context, kind EntryKind, name string) (EntryStatus, bool, error)
}

// Profile is a registered foreman as stored in persistence.
type Profile struct {
	TelegramID int64
	LastName   string
	FirstName  string
	Patronymic string
	Display    string
}

// ProfileRepository defines the secondary port for foreman registration.
type ProfileRepository interface {
	// FindByTelegramID returns the profile for a Telegram user,
	// or ErrNotFound.
	FindByTelegramID(ctx context.Context, telegramID int64) (*Profile, error)

	// NameExists checks whether a full name is already registered.
	NameExists(ctx context.Context, last, first, patronymic string) (bool, error)

	// Create persists a new profile. A duplicate Telegram id fails with
	// ErrDuplicate.
	Create(ctx context.Context, profile *Profile) error
}
