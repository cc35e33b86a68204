package sqlite_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/sqlite"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

func TestProfileRepository_CreateAndFind(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewProfileRepository(db)
	ctx := context.Background()

	profile := &secondary.Profile{
		TelegramID: 42,
		LastName:   "Иванов",
		FirstName:  "Пётр",
		Patronymic: "Сергеевич",
		Display:    "Пётр Сергеевич",
	}
	if err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByTelegramID(ctx, 42)
	if err != nil {
		t.Fatalf("FindByTelegramID failed: %v", err)
	}
	if found.LastName != "Иванов" || found.Patronymic != "Сергеевич" || found.Display != "Пётр Сергеевич" {
		t.Errorf("profile = %+v", found)
	}
}

func TestProfileRepository_CreateWithoutPatronymic(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewProfileRepository(db)
	ctx := context.Background()

	profile := &secondary.Profile{
		TelegramID: 42,
		LastName:   "Иванов",
		FirstName:  "Пётр",
		Display:    "Пётр",
	}
	if err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	found, err := repo.FindByTelegramID(ctx, 42)
	if err != nil {
		t.Fatalf("FindByTelegramID failed: %v", err)
	}
	if found.Patronymic != "" {
		t.Errorf("patronymic = %q, want empty", found.Patronymic)
	}
}

func TestProfileRepository_FindMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewProfileRepository(db)

	_, err := repo.FindByTelegramID(context.Background(), 99)
	if !errors.Is(err, secondary.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestProfileRepository_CreateDuplicateID(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewProfileRepository(db)
	ctx := context.Background()

	profile := &secondary.Profile{TelegramID: 42, LastName: "Иванов", FirstName: "Пётр", Display: "Пётр"}
	if err := repo.Create(ctx, profile); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := repo.Create(ctx, profile); !errors.Is(err, secondary.ErrDuplicate) {
		t.Errorf("duplicate Create err = %v, want ErrDuplicate", err)
	}
}

func TestProfileRepository_NameExists(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewProfileRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &secondary.Profile{
		TelegramID: 42, LastName: "Иванов", FirstName: "Пётр", Display: "Пётр",
	}); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	exists, err := repo.NameExists(ctx, "Иванов", "Пётр", "")
	if err != nil {
		t.Fatalf("NameExists failed: %v", err)
	}
	if !exists {
		t.Error("registered name not found")
	}

	exists, err = repo.NameExists(ctx, "Иванов", "Пётр", "Сергеевич")
	if err != nil {
		t.Fatalf("NameExists failed: %v", err)
	}
	if exists {
		t.Error("different patronymic matched")
	}
}
