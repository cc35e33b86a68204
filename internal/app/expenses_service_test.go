package app

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/memory"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/ship"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

func newExpensesFixture() (*ExpensesServiceImpl, *fakeShiftRepo, *fakeDirectoryRepo, *MenuServiceImpl) {
	shifts := newFakeShiftRepo()
	directory := newFakeDirectoryRepo()
	menu := NewMenuService(shifts, memory.NewSessionStore(), memory.NewUserLocks(), zap.NewNop())
	svc := NewExpensesService(shifts, directory, menu, zap.NewNop())
	return svc, shifts, directory, menu
}

func TestResolveShipKeepsDirectorySpelling(t *testing.T) {
	svc, _, directory, _ := newExpensesFixture()
	directory.seed(secondary.KindShip, secondary.StatusActive, "Волга-Дон 5061")

	res, err := svc.ResolveShip(context.Background(), "волга-дон 5061")
	if err != nil {
		t.Fatalf("ResolveShip: %v", err)
	}
	if res.Added {
		t.Error("known vessel reported as added")
	}
	if res.Name != "Волга-Дон 5061" {
		t.Errorf("name = %q, want directory spelling", res.Name)
	}
}

func TestResolveShipAppendsNewVessel(t *testing.T) {
	svc, _, directory, _ := newExpensesFixture()
	ctx := context.Background()

	res, err := svc.ResolveShip(ctx, "  Обь  ГТ-12 ")
	if err != nil {
		t.Fatalf("ResolveShip: %v", err)
	}
	if !res.Added {
		t.Error("new vessel not reported as added")
	}
	if res.Name != "Обь ГТ-12" {
		t.Errorf("name = %q, want normalized %q", res.Name, "Обь ГТ-12")
	}

	ships, err := directory.ListActive(ctx, secondary.KindShip)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(ships) != 1 || ships[0] != "Обь ГТ-12" {
		t.Errorf("directory = %v", ships)
	}
}

func TestResolveShipRejectsInvalidName(t *testing.T) {
	svc, _, _, _ := newExpensesFixture()

	var nameErr *ship.InvalidNameError
	if _, err := svc.ResolveShip(context.Background(), "!"); !errors.As(err, &nameErr) {
		t.Fatalf("err = %v, want *ship.InvalidNameError", err)
	}
}

func TestSaveExpensesDerivesTotal(t *testing.T) {
	svc, shifts, _, menu := newExpensesFixture()
	ctx := context.Background()
	shifts.seedRow(7, 3, "2026-08-31")

	form := primary.ExpensesForm{
		Ship:      "Волга",
		Holds:     2,
		Transport: 1000,
		Foreman:   500,
		Workers:   2000,
		Auxiliary: 0,
		Food:      700,
		Taxi:      300,
		Other:     0,
	}
	total, err := svc.SaveExpenses(ctx, primary.SaveExpensesRequest{UserID: 7, Row: 3, Form: form})
	if err != nil {
		t.Fatalf("SaveExpenses: %v", err)
	}
	if total != 4500 {
		t.Errorf("total = %d, want 4500", total)
	}

	saved := shifts.expenses[3]
	if saved.Total != 4500 || saved.Ship != "Волга" || saved.Holds != 2 {
		t.Errorf("saved record = %+v", saved)
	}

	view, err := menu.RefreshMenu(ctx, 7, 3)
	if err != nil {
		t.Fatalf("RefreshMenu: %v", err)
	}
	if !view.Sections[secondary.SectionExpenses] {
		t.Error("expenses section not marked done")
	}
}

func TestSaveExpensesValidatesShipAndHolds(t *testing.T) {
	svc, shifts, _, _ := newExpensesFixture()
	ctx := context.Background()
	shifts.seedRow(7, 3, "2026-08-31")

	noShip := primary.SaveExpensesRequest{UserID: 7, Row: 3, Form: primary.ExpensesForm{Holds: 2}}
	if _, err := svc.SaveExpenses(ctx, noShip); err == nil {
		t.Error("missing ship accepted")
	}

	for _, holds := range []int{0, 8} {
		req := primary.SaveExpensesRequest{
			UserID: 7,
			Row:    3,
			Form:   primary.ExpensesForm{Ship: "Волга", Holds: holds},
		}
		if _, err := svc.SaveExpenses(ctx, req); err == nil {
			t.Errorf("holds=%d accepted", holds)
		}
	}
	if len(shifts.expenses) != 0 {
		t.Errorf("invalid requests reached storage: %v", shifts.expenses)
	}
}
