package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/nameval"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// CrewServiceImpl implements the CrewService interface.
type CrewServiceImpl struct {
	shifts    secondary.ShiftRepository
	directory secondary.DirectoryRepository
	menu      primary.MenuService
	logger    *zap.Logger
}

// NewCrewService creates a new CrewService with injected dependencies.
func NewCrewService(
	shifts secondary.ShiftRepository,
	directory secondary.DirectoryRepository,
	menu primary.MenuService,
	logger *zap.Logger,
) *CrewServiceImpl {
	return &CrewServiceImpl{
		shifts:    shifts,
		directory: directory,
		menu:      menu,
		logger:    logger,
	}
}

// ActiveDrivers lists selectable drivers with 1-based dialogue ids.
func (s *CrewServiceImpl) ActiveDrivers(ctx context.Context) ([]primary.CrewMember, error) {
	return s.listMembers(ctx, secondary.KindDriver)
}

// ActiveWorkers lists selectable workers with 1-based dialogue ids.
func (s *CrewServiceImpl) ActiveWorkers(ctx context.Context) ([]primary.CrewMember, error) {
	return s.listMembers(ctx, secondary.KindWorker)
}

func (s *CrewServiceImpl) listMembers(ctx context.Context, kind secondary.EntryKind) ([]primary.CrewMember, error) {
	names, err := s.directory.ListActive(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s directory: %w", kind, err)
	}
	members := make([]primary.CrewMember, len(names))
	for i, name := range names {
		members[i] = primary.CrewMember{ID: i + 1, Name: name}
	}
	return members, nil
}

// AddDriver appends a new driver to the directory.
func (s *CrewServiceImpl) AddDriver(ctx context.Context, req primary.AddPersonRequest) (string, error) {
	return s.addPerson(ctx, secondary.KindDriver, req)
}

// AddWorker appends a new worker to the directory.
func (s *CrewServiceImpl) AddWorker(ctx context.Context, req primary.AddPersonRequest) (string, error) {
	return s.addPerson(ctx, secondary.KindWorker, req)
}

// addPerson validates the name pieces, derives the compact directory name
// and appends it unless an entry with that name already exists in any
// status. Archived entries also block re-registration so retired names are
// not silently revived.
func (s *CrewServiceImpl) addPerson(ctx context.Context, kind secondary.EntryKind, req primary.AddPersonRequest) (string, error) {
	last, err := nameval.ValidatePiece(req.LastName)
	if err != nil {
		return "", err
	}
	first, err := nameval.ValidatePiece(req.FirstName)
	if err != nil {
		return "", err
	}
	patronymic := ""
	if req.Patronymic != "" {
		patronymic, err = nameval.ValidatePiece(req.Patronymic)
		if err != nil {
			return "", err
		}
	}

	compact := nameval.CompactName(last, first, patronymic)

	status, exists, err := s.directory.Status(ctx, kind, compact)
	if err != nil {
		return "", fmt.Errorf("failed to check %s status: %w", kind, err)
	}
	if exists {
		if status == secondary.StatusArchived {
			return "", fmt.Errorf("%s %q is archived: %w", kind, compact, secondary.ErrDuplicate)
		}
		return "", fmt.Errorf("%s %q already listed: %w", kind, compact, secondary.ErrDuplicate)
	}

	if err := s.directory.Add(ctx, kind, compact); err != nil {
		return "", fmt.Errorf("failed to add %s: %w", kind, err)
	}

	s.logger.Info("directory entry added",
		zap.String("kind", string(kind)),
		zap.String("name", compact),
	)
	return compact, nil
}

// SaveCrew persists the confirmed selection as one write.
func (s *CrewServiceImpl) SaveCrew(ctx context.Context, req primary.SaveCrewRequest) error {
	if req.Driver == "" {
		return fmt.Errorf("driver is required before saving crew")
	}
	if len(req.Workers) == 0 {
		return fmt.Errorf("at least one worker is required before saving crew")
	}

	record := secondary.CrewRecord{
		Driver:  req.Driver,
		Workers: append([]string(nil), req.Workers...),
	}
	if err := s.shifts.SaveCrew(ctx, req.Row, record); err != nil {
		s.logger.Error("crew save failed",
			zap.Int64("user_id", req.UserID),
			zap.Int64("row", req.Row),
			zap.Error(err),
		)
		return fmt.Errorf("failed to save crew: %w", err)
	}

	s.menu.MarkSectionDone(req.UserID, secondary.SectionCrew)
	return nil
}

// Ensure CrewServiceImpl implements the interface
var _ primary.CrewService = (*CrewServiceImpl)(nil)
