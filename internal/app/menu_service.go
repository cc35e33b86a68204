// Package app implements the primary ports. Services receive their
// repositories and collaborators through constructor injection and hold no
// lazily initialized globals.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// MenuServiceImpl implements the MenuService interface.
type MenuServiceImpl struct {
	shifts   secondary.ShiftRepository
	sessions secondary.SessionStore
	locks    secondary.UserLocks
	logger   *zap.Logger
}

// NewMenuService creates a new MenuService with injected dependencies.
func NewMenuService(
	shifts secondary.ShiftRepository,
	sessions secondary.SessionStore,
	locks secondary.UserLocks,
	logger *zap.Logger,
) *MenuServiceImpl {
	return &MenuServiceImpl{
		shifts:   shifts,
		sessions: sessions,
		locks:    locks,
		logger:   logger,
	}
}

// OpenMenu finds or creates the user's shift row under the advisory lock,
// then delegates to RefreshMenu for the authoritative storage read.
func (s *MenuServiceImpl) OpenMenu(ctx context.Context, userID int64) (*primary.MenuView, error) {
	row, ok, err := s.shifts.FindRow(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to locate shift row: %w", err)
	}
	if !ok {
		// Row creation is the one operation racing repeated taps; guard it.
		token, acquired := s.locks.TryAcquire(userID)
		if !acquired {
			return nil, primary.ErrBusy
		}
		defer s.locks.Release(token)

		// Re-check under the lock: a racing tap may have opened the row.
		row, ok, err = s.shifts.FindRow(ctx, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to locate shift row: %w", err)
		}
		if !ok {
			row, err = s.shifts.OpenRow(ctx, userID)
			if err != nil {
				return nil, fmt.Errorf("failed to open shift row: %w", err)
			}
		}
	}

	return s.RefreshMenu(ctx, userID, row)
}

// RefreshMenu re-reads progress, date and closed state from storage. This
// is the one point where the cached session is re-synced with truth.
func (s *MenuServiceImpl) RefreshMenu(ctx context.Context, userID int64, row int64) (*primary.MenuView, error) {
	progress, err := s.shifts.Progress(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift progress: %w", err)
	}
	closed, err := s.shifts.IsClosed(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read closed flag: %w", err)
	}
	date, err := s.shifts.ShiftDate(ctx, row)
	if err != nil {
		return nil, fmt.Errorf("failed to read shift date: %w", err)
	}

	session := s.syncSession(userID, row, date, progress, closed)

	allDone := true
	for _, section := range secondary.Sections() {
		if !session.Sections[section] {
			allDone = false
			break
		}
	}

	return &primary.MenuView{
		Row:       row,
		Date:      session.Date,
		Sections:  cloneSections(session.Sections),
		Closed:    session.Closed,
		CanFinish: allDone && !session.Closed,
	}, nil
}

// MarkSectionDone flips the cached completion flag after a wizard save.
func (s *MenuServiceImpl) MarkSectionDone(userID int64, section secondary.Section) {
	if session, ok := s.sessions.Get(userID); ok {
		session.Sections[section] = true
		s.sessions.Put(userID, session)
	}
}

// ResetSession drops the cached session.
func (s *MenuServiceImpl) ResetSession(userID int64) {
	s.sessions.Delete(userID)
}

// syncSession rebuilds the session when the stored date moved on, otherwise
// folds the fresh progress into the cached one.
func (s *MenuServiceImpl) syncSession(
	userID int64,
	row int64,
	date string,
	progress map[secondary.Section]bool,
	closed bool,
) *secondary.ShiftSession {
	session, ok := s.sessions.Get(userID)
	if !ok || session.Date != date {
		session = &secondary.ShiftSession{
			Date:     date,
			Row:      row,
			Sections: make(map[secondary.Section]bool, len(progress)),
		}
	}
	session.Row = row
	session.Closed = closed
	for section, done := range progress {
		session.Sections[section] = done
	}
	s.sessions.Put(userID, session)
	return session
}

func cloneSections(in map[secondary.Section]bool) map[secondary.Section]bool {
	out := make(map[secondary.Section]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// Ensure MenuServiceImpl implements the interface
var _ primary.MenuService = (*MenuServiceImpl)(nil)
