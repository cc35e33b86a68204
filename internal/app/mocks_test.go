package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// fakeShiftRepo is an in-memory ShiftRepository for service tests.
type fakeShiftRepo struct {
	mu        sync.Mutex
	nextRow   int64
	rows      map[int64]int64
	dates     map[int64]string
	progress  map[int64]map[secondary.Section]bool
	closed    map[int64]bool
	crew      map[int64]secondary.CrewRecord
	expenses  map[int64]secondary.ExpensesRecord
	materials map[int64]secondary.MaterialsRecord

	openCalls int
	failSave  error
}

func newFakeShiftRepo() *fakeShiftRepo {
	return &fakeShiftRepo{
		rows:      make(map[int64]int64),
		dates:     make(map[int64]string),
		progress:  make(map[int64]map[secondary.Section]bool),
		closed:    make(map[int64]bool),
		crew:      make(map[int64]secondary.CrewRecord),
		expenses:  make(map[int64]secondary.ExpensesRecord),
		materials: make(map[int64]secondary.MaterialsRecord),
	}
}

func (r *fakeShiftRepo) FindRow(ctx context.Context, userID int64) (int64, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	row, ok := r.rows[userID]
	return row, ok, nil
}

func (r *fakeShiftRepo) OpenRow(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.openCalls++
	r.nextRow++
	row := r.nextRow
	r.rows[userID] = row
	r.dates[row] = "2026-08-31"
	r.progress[row] = map[secondary.Section]bool{
		secondary.SectionCrew:      false,
		secondary.SectionExpenses:  false,
		secondary.SectionMaterials: false,
	}
	return row, nil
}

func (r *fakeShiftRepo) Progress(ctx context.Context, row int64) (map[secondary.Section]bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	done, ok := r.progress[row]
	if !ok {
		return nil, fmt.Errorf("row %d: %w", row, secondary.ErrNotFound)
	}
	out := make(map[secondary.Section]bool, len(done))
	for section, v := range done {
		out[section] = v
	}
	return out, nil
}

func (r *fakeShiftRepo) ShiftDate(ctx context.Context, row int64) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	date, ok := r.dates[row]
	if !ok {
		return "", fmt.Errorf("row %d: %w", row, secondary.ErrNotFound)
	}
	return date, nil
}

func (r *fakeShiftRepo) Summary(ctx context.Context, row int64) (*secondary.ShiftSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.dates[row]; !ok {
		return nil, fmt.Errorf("row %d: %w", row, secondary.ErrNotFound)
	}
	return &secondary.ShiftSummary{
		Date:      r.dates[row],
		Crew:      r.crew[row],
		Expenses:  r.expenses[row],
		Materials: r.materials[row],
		Closed:    r.closed[row],
	}, nil
}

func (r *fakeShiftRepo) SaveCrew(ctx context.Context, row int64, crew secondary.CrewRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return r.failSave
	}
	r.crew[row] = crew
	r.markDone(row, secondary.SectionCrew)
	return nil
}

func (r *fakeShiftRepo) SaveExpenses(ctx context.Context, row int64, expenses secondary.ExpensesRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return r.failSave
	}
	r.expenses[row] = expenses
	r.markDone(row, secondary.SectionExpenses)
	return nil
}

func (r *fakeShiftRepo) SaveMaterials(ctx context.Context, row int64, materials secondary.MaterialsRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failSave != nil {
		return r.failSave
	}
	r.materials[row] = materials
	r.markDone(row, secondary.SectionMaterials)
	return nil
}

func (r *fakeShiftRepo) IsClosed(ctx context.Context, row int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed[row], nil
}

func (r *fakeShiftRepo) MarkClosed(ctx context.Context, row int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed[row] {
		return false, nil
	}
	r.closed[row] = true
	return true, nil
}

func (r *fakeShiftRepo) markDone(row int64, section secondary.Section) {
	if r.progress[row] == nil {
		r.progress[row] = make(map[secondary.Section]bool)
	}
	r.progress[row][section] = true
}

// seedRow wires an existing row for a user outside of OpenRow.
func (r *fakeShiftRepo) seedRow(userID, row int64, date string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[userID] = row
	r.dates[row] = date
	if r.progress[row] == nil {
		r.progress[row] = map[secondary.Section]bool{
			secondary.SectionCrew:      false,
			secondary.SectionExpenses:  false,
			secondary.SectionMaterials: false,
		}
	}
	if row > r.nextRow {
		r.nextRow = row
	}
}

type dirEntry struct {
	name   string
	status secondary.EntryStatus
}

// fakeDirectoryRepo is an in-memory DirectoryRepository.
type fakeDirectoryRepo struct {
	mu      sync.Mutex
	entries map[secondary.EntryKind][]dirEntry
}

func newFakeDirectoryRepo() *fakeDirectoryRepo {
	return &fakeDirectoryRepo{entries: make(map[secondary.EntryKind][]dirEntry)}
}

func (r *fakeDirectoryRepo) seed(kind secondary.EntryKind, status secondary.EntryStatus, names ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, name := range names {
		r.entries[kind] = append(r.entries[kind], dirEntry{name: name, status: status})
	}
}

func (r *fakeDirectoryRepo) ListActive(ctx context.Context, kind secondary.EntryKind) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var names []string
	for _, entry := range r.entries[kind] {
		if entry.status == secondary.StatusActive {
			names = append(names, entry.name)
		}
	}
	return names, nil
}

func (r *fakeDirectoryRepo) Add(ctx context.Context, kind secondary.EntryKind, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[kind] = append(r.entries[kind], dirEntry{name: name, status: secondary.StatusActive})
	return nil
}

func (r *fakeDirectoryRepo) Status(ctx context.Context, kind secondary.EntryKind, name string) (secondary.EntryStatus, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, entry := range r.entries[kind] {
		if entry.name == name {
			return entry.status, true, nil
		}
	}
	return "", false, nil
}

// fakeProfileRepo is an in-memory ProfileRepository.
type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[int64]*secondary.Profile
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[int64]*secondary.Profile)}
}

func (r *fakeProfileRepo) FindByTelegramID(ctx context.Context, telegramID int64) (*secondary.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[telegramID]
	if !ok {
		return nil, fmt.Errorf("telegram id %d: %w", telegramID, secondary.ErrNotFound)
	}
	return profile, nil
}

func (r *fakeProfileRepo) NameExists(ctx context.Context, last, first, patronymic string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.profiles {
		if p.LastName == last && p.FirstName == first && p.Patronymic == patronymic {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeProfileRepo) Create(ctx context.Context, profile *secondary.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.TelegramID]; ok {
		return fmt.Errorf("telegram id %d: %w", profile.TelegramID, secondary.ErrDuplicate)
	}
	r.profiles[profile.TelegramID] = profile
	return nil
}

// fakeFileStore records uploads and simulates name conflicts.
type fakeFileStore struct {
	mu       sync.Mutex
	folders  map[string]bool
	taken    map[string]bool // "folder/name"
	uploaded []string
	link     string

	failUpload error
	failureKey string // only this folder/name fails with failUpload
}

func newFakeFileStore() *fakeFileStore {
	return &fakeFileStore{
		folders: make(map[string]bool),
		taken:   make(map[string]bool),
		link:    "https://disk.example/public/abc",
	}
}

func (f *fakeFileStore) EnsureDatedFolder(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.folders[name] = true
	return nil
}

func (f *fakeFileStore) Upload(ctx context.Context, content []byte, name, folder, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := folder + "/" + name
	if f.failUpload != nil && (f.failureKey == "" || f.failureKey == key) {
		return f.failUpload
	}
	if f.taken[key] {
		return fmt.Errorf("upload %q: %w", key, secondary.ErrNameConflict)
	}
	f.taken[key] = true
	f.uploaded = append(f.uploaded, key)
	return nil
}

func (f *fakeFileStore) PublishLink(ctx context.Context, folder string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.link, nil
}

// fakeNotifier records group messages and can simulate delivery failures.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	fail     error
}

func (n *fakeNotifier) NotifyGroup(ctx context.Context, text string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail != nil {
		return n.fail
	}
	n.messages = append(n.messages, text)
	return nil
}

func (n *fakeNotifier) sent() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}
