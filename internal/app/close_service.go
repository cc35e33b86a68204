package app

import (
	"context"
	"fmt"
	"html"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/amount"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/shiftclose"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// CloseServiceImpl implements the CloseService interface.
type CloseServiceImpl struct {
	shifts   secondary.ShiftRepository
	profiles secondary.ProfileRepository
	notifier secondary.GroupNotifier
	recent   secondary.NotifyCache
	now      func() time.Time
	logger   *zap.Logger
}

// NewCloseService creates a new CloseService with injected dependencies.
func NewCloseService(
	shifts secondary.ShiftRepository,
	profiles secondary.ProfileRepository,
	notifier secondary.GroupNotifier,
	recent secondary.NotifyCache,
	logger *zap.Logger,
) *CloseServiceImpl {
	return &CloseServiceImpl{
		shifts:   shifts,
		profiles: profiles,
		notifier: notifier,
		recent:   recent,
		now:      time.Now,
		logger:   logger,
	}
}

// RequestClose evaluates the finish guard without writing anything.
func (s *CloseServiceImpl) RequestClose(ctx context.Context, userID, row int64) (*primary.CloseCheck, error) {
	closed, err := s.shifts.IsClosed(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to check closed flag: %w", err)
	}
	if closed {
		return &primary.CloseCheck{AlreadyClosed: true}, nil
	}

	progress, err := s.shifts.Progress(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift progress: %w", err)
	}

	guardCtx := shiftclose.FinishContext{Sections: make(map[string]bool, len(progress))}
	for section, done := range progress {
		guardCtx.Sections[string(section)] = done
	}
	result := shiftclose.CanFinish(guardCtx)
	if !result.Allowed {
		missing := make([]secondary.Section, len(result.Missing))
		for i, name := range result.Missing {
			missing[i] = secondary.Section(name)
		}
		return &primary.CloseCheck{Missing: missing}, nil
	}

	return &primary.CloseCheck{Allowed: true}, nil
}

// ConfirmClose commits the idempotent closed-flag write and sends the
// one-time group notification.
func (s *CloseServiceImpl) ConfirmClose(ctx context.Context, userID, row int64) (*primary.CloseResult, error) {
	summary, err := s.shifts.Summary(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift summary: %w", err)
	}

	didClose, err := s.shifts.MarkClosed(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to mark shift closed: %w", err)
	}

	result := &primary.CloseResult{DidClose: didClose}

	// The notification is best-effort and sent at most once per row
	// within the dedupe window, no matter how often confirm is retried.
	now := s.now()
	if didClose && !s.recent.SeenRecently(row, now) {
		s.recent.Mark(row, now)
		report := s.buildReport(ctx, userID, summary)
		if err := s.notifier.NotifyGroup(ctx, report); err != nil {
			s.logger.Warn("group notification failed",
				zap.Int64("user_id", userID),
				zap.Int64("row", row),
				zap.Error(err),
			)
		} else {
			result.Notified = true
		}
	}

	return result, nil
}

// buildReport renders the HTML group report: date, foreman, vessel, totals,
// materials and crew roster.
func (s *CloseServiceImpl) buildReport(ctx context.Context, userID int64, summary *secondary.ShiftSummary) string {
	foreman := "—"
	if profile, err := s.profiles.FindByTelegramID(ctx, userID); err == nil && profile != nil {
		full := strings.TrimSpace(profile.LastName + " " + profile.Display)
		if full != "" {
			foreman = full
		}
	}

	vessel := summary.Expenses.Ship
	if vessel == "" {
		vessel = "—"
	}

	materials := fmt.Sprintf("film %d m, tubes %d, tape %d",
		summary.Materials.FilmMeters,
		summary.Materials.TubeCount,
		summary.Materials.TapeCount,
	)
	if summary.Materials.PhotosLink != "" {
		materials += ", photos: " + summary.Materials.PhotosLink
	}

	crew := "—"
	if summary.Crew.Driver != "" || len(summary.Crew.Workers) > 0 {
		parts := make([]string, 0, len(summary.Crew.Workers)+1)
		if summary.Crew.Driver != "" {
			parts = append(parts, summary.Crew.Driver+" (driver)")
		}
		parts = append(parts, summary.Crew.Workers...)
		crew = strings.Join(parts, ", ")
	}

	lines := []string{
		"<b>✅ Shift closed</b>",
		"📅 " + html.EscapeString(formatReportDate(summary.Date)),
		"🧑‍✈️ " + html.EscapeString(foreman),
		"🛥 " + html.EscapeString(vessel),
		"",
		"🧾 Expenses: " + amount.Format(summary.Expenses.Total) + " ₽",
		"📦 Materials: " + html.EscapeString(materials),
		"👥 Crew: " + html.EscapeString(crew),
	}
	return strings.Join(lines, "\n")
}

// formatReportDate renders storage dates as DD.MM.YYYY when they parse.
func formatReportDate(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "—"
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339, "02.01.2006"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return parsed.Format("02.01.2006")
		}
	}
	return trimmed
}

// Ensure CloseServiceImpl implements the interface
var _ primary.CloseService = (*CloseServiceImpl)(nil)
