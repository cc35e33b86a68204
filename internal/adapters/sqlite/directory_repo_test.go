package sqlite_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/sqlite"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

func TestDirectoryRepository_AddAndList(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDirectoryRepository(db)
	ctx := context.Background()

	for _, name := range []string{"Иванов П.", "Петров С.", "Сидоров К."} {
		if err := repo.Add(ctx, secondary.KindWorker, name); err != nil {
			t.Fatalf("Add %q failed: %v", name, err)
		}
	}

	names, err := repo.ListActive(ctx, secondary.KindWorker)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	want := []string{"Иванов П.", "Петров С.", "Сидоров К."}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("names = %v, want insertion order %v", names, want)
	}
}

func TestDirectoryRepository_KindsAreIndependent(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDirectoryRepository(db)
	ctx := context.Background()

	if err := repo.Add(ctx, secondary.KindDriver, "Иванов П."); err != nil {
		t.Fatalf("Add driver failed: %v", err)
	}
	// Same name in a different directory is fine.
	if err := repo.Add(ctx, secondary.KindWorker, "Иванов П."); err != nil {
		t.Fatalf("Add worker failed: %v", err)
	}

	ships, err := repo.ListActive(ctx, secondary.KindShip)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(ships) != 0 {
		t.Errorf("ships = %v, want empty", ships)
	}
}

func TestDirectoryRepository_AddRejectsDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDirectoryRepository(db)
	ctx := context.Background()

	if err := repo.Add(ctx, secondary.KindShip, "Волга"); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := repo.Add(ctx, secondary.KindShip, "Волга"); !errors.Is(err, secondary.ErrDuplicate) {
		t.Errorf("duplicate Add err = %v, want ErrDuplicate", err)
	}
}

func TestDirectoryRepository_ArchiveHidesFromListButNotStatus(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDirectoryRepository(db)
	ctx := context.Background()

	if err := repo.Add(ctx, secondary.KindWorker, "Иванов П."); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := repo.Archive(ctx, secondary.KindWorker, "Иванов П."); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}

	names, err := repo.ListActive(ctx, secondary.KindWorker)
	if err != nil {
		t.Fatalf("ListActive failed: %v", err)
	}
	if len(names) != 0 {
		t.Errorf("archived entry still listed: %v", names)
	}

	status, exists, err := repo.Status(ctx, secondary.KindWorker, "Иванов П.")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !exists || status != secondary.StatusArchived {
		t.Errorf("status = (%v, %v), want (archived, true)", status, exists)
	}
}

func TestDirectoryRepository_ArchiveMissingEntry(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDirectoryRepository(db)

	err := repo.Archive(context.Background(), secondary.KindWorker, "Никто Н.")
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestDirectoryRepository_StatusUnknownName(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewDirectoryRepository(db)

	_, exists, err := repo.Status(context.Background(), secondary.KindDriver, "Никто Н.")
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if exists {
		t.Error("unknown name reported as existing")
	}
}
