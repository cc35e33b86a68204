package app

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/adapters/memory"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

func newCloseFixture() (*CloseServiceImpl, *fakeShiftRepo, *fakeProfileRepo, *fakeNotifier) {
	shifts := newFakeShiftRepo()
	profiles := newFakeProfileRepo()
	notifier := &fakeNotifier{}
	svc := NewCloseService(shifts, profiles, notifier, memory.NewNotifyCache(0), zap.NewNop())
	return svc, shifts, profiles, notifier
}

func seedFullShift(ctx context.Context, shifts *fakeShiftRepo) {
	shifts.seedRow(7, 3, "2026-08-31")
	shifts.SaveCrew(ctx, 3, secondary.CrewRecord{Driver: "Сидоров С.", Workers: []string{"Петров П."}})
	shifts.SaveExpenses(ctx, 3, secondary.ExpensesRecord{Ship: "Волга", Holds: 2, Total: 4500})
	shifts.SaveMaterials(ctx, 3, secondary.MaterialsRecord{
		FilmMeters: 120,
		TubeCount:  4,
		TapeCount:  2,
		PhotosLink: "https://disk.example/public/abc",
	})
}

func TestRequestCloseListsMissingSections(t *testing.T) {
	svc, shifts, _, _ := newCloseFixture()
	ctx := context.Background()
	shifts.seedRow(7, 3, "2026-08-31")
	shifts.SaveCrew(ctx, 3, secondary.CrewRecord{Driver: "Сидоров С.", Workers: []string{"Петров П."}})

	check, err := svc.RequestClose(ctx, 7, 3)
	if err != nil {
		t.Fatalf("RequestClose: %v", err)
	}
	if check.Allowed {
		t.Error("close allowed with two sections pending")
	}
	want := []secondary.Section{secondary.SectionExpenses, secondary.SectionMaterials}
	if !reflect.DeepEqual(check.Missing, want) {
		t.Errorf("missing = %v, want %v", check.Missing, want)
	}
}

func TestRequestCloseAllowsCompleteShift(t *testing.T) {
	svc, shifts, _, _ := newCloseFixture()
	ctx := context.Background()
	seedFullShift(ctx, shifts)

	check, err := svc.RequestClose(ctx, 7, 3)
	if err != nil {
		t.Fatalf("RequestClose: %v", err)
	}
	if !check.Allowed || check.AlreadyClosed || len(check.Missing) != 0 {
		t.Errorf("check = %+v, want allowed", check)
	}
}

func TestRequestCloseReportsAlreadyClosed(t *testing.T) {
	svc, shifts, _, _ := newCloseFixture()
	ctx := context.Background()
	seedFullShift(ctx, shifts)
	shifts.MarkClosed(ctx, 3)

	check, err := svc.RequestClose(ctx, 7, 3)
	if err != nil {
		t.Fatalf("RequestClose: %v", err)
	}
	if !check.AlreadyClosed || check.Allowed {
		t.Errorf("check = %+v, want AlreadyClosed", check)
	}
}

func TestConfirmCloseIsIdempotentAndNotifiesOnce(t *testing.T) {
	svc, shifts, _, notifier := newCloseFixture()
	ctx := context.Background()
	seedFullShift(ctx, shifts)

	first, err := svc.ConfirmClose(ctx, 7, 3)
	if err != nil {
		t.Fatalf("first ConfirmClose: %v", err)
	}
	if !first.DidClose || !first.Notified {
		t.Errorf("first result = %+v, want DidClose and Notified", first)
	}

	second, err := svc.ConfirmClose(ctx, 7, 3)
	if err != nil {
		t.Fatalf("second ConfirmClose: %v", err)
	}
	if second.DidClose || second.Notified {
		t.Errorf("second result = %+v, want neither flag", second)
	}

	if notifier.sent() != 1 {
		t.Errorf("group messages = %d, want exactly 1", notifier.sent())
	}
}

func TestConfirmCloseSwallowsNotificationFailure(t *testing.T) {
	svc, shifts, _, notifier := newCloseFixture()
	ctx := context.Background()
	seedFullShift(ctx, shifts)
	notifier.fail = errors.New("group unreachable")

	result, err := svc.ConfirmClose(ctx, 7, 3)
	if err != nil {
		t.Fatalf("ConfirmClose: %v", err)
	}
	if !result.DidClose {
		t.Error("close did not happen")
	}
	if result.Notified {
		t.Error("Notified set despite delivery failure")
	}

	closed, err := shifts.IsClosed(ctx, 3)
	if err != nil || !closed {
		t.Errorf("closed = %v, %v; want true", closed, err)
	}
}

func TestCloseReportContent(t *testing.T) {
	svc, shifts, profiles, notifier := newCloseFixture()
	ctx := context.Background()
	seedFullShift(ctx, shifts)
	profiles.Create(ctx, &secondary.Profile{
		TelegramID: 7,
		LastName:   "Иванов",
		FirstName:  "Пётр",
		Display:    "Пётр Сергеевич",
	})

	if _, err := svc.ConfirmClose(ctx, 7, 3); err != nil {
		t.Fatalf("ConfirmClose: %v", err)
	}
	if notifier.sent() != 1 {
		t.Fatalf("group messages = %d, want 1", notifier.sent())
	}

	report := notifier.messages[0]
	for _, fragment := range []string{
		"31.08.2026",
		"Иванов Пётр Сергеевич",
		"Волга",
		"4 500",
		"film 120 m, tubes 4, tape 2",
		"https://disk.example/public/abc",
		"Сидоров С. (driver)",
		"Петров П.",
	} {
		if !strings.Contains(report, fragment) {
			t.Errorf("report missing %q:\n%s", fragment, report)
		}
	}
}
