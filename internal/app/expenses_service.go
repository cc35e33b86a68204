package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/ship"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// ExpensesServiceImpl implements the ExpensesService interface.
type ExpensesServiceImpl struct {
	shifts    secondary.ShiftRepository
	directory secondary.DirectoryRepository
	menu      primary.MenuService
	logger    *zap.Logger
}

// NewExpensesService creates a new ExpensesService with injected
// dependencies.
func NewExpensesService(
	shifts secondary.ShiftRepository,
	directory secondary.DirectoryRepository,
	menu primary.MenuService,
	logger *zap.Logger,
) *ExpensesServiceImpl {
	return &ExpensesServiceImpl{
		shifts:    shifts,
		directory: directory,
		menu:      menu,
		logger:    logger,
	}
}

// ActiveShips lists selectable vessel names.
func (s *ExpensesServiceImpl) ActiveShips(ctx context.Context) ([]string, error) {
	ships, err := s.directory.ListActive(ctx, secondary.KindShip)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}
	return ships, nil
}

// ResolveShip matches input against the directory case-insensitively and
// keeps the directory spelling. Unmatched input that passes the name rule
// is normalized and appended as a new vessel.
func (s *ExpensesServiceImpl) ResolveShip(ctx context.Context, input string) (*primary.ShipResolution, error) {
	known, err := s.directory.ListActive(ctx, secondary.KindShip)
	if err != nil {
		return nil, fmt.Errorf("failed to list ships: %w", err)
	}

	if name, ok := ship.Match(known, input); ok {
		return &primary.ShipResolution{Name: name}, nil
	}

	normalized, err := ship.Validate(input)
	if err != nil {
		return nil, err
	}
	if err := s.directory.Add(ctx, secondary.KindShip, normalized); err != nil {
		return nil, fmt.Errorf("failed to add ship: %w", err)
	}

	s.logger.Info("ship added", zap.String("name", normalized))
	return &primary.ShipResolution{Name: normalized, Added: true}, nil
}

// SaveExpenses persists the confirmed batch with its derived total.
func (s *ExpensesServiceImpl) SaveExpenses(ctx context.Context, req primary.SaveExpensesRequest) (int, error) {
	form := req.Form
	if form.Ship == "" {
		return 0, fmt.Errorf("ship is required before saving expenses")
	}
	if form.Holds < 1 || form.Holds > 7 {
		return 0, fmt.Errorf("hold count %d out of range 1-7", form.Holds)
	}

	total := form.Total()
	record := secondary.ExpensesRecord{
		Ship:      form.Ship,
		Holds:     form.Holds,
		Transport: form.Transport,
		Foreman:   form.Foreman,
		Workers:   form.Workers,
		Auxiliary: form.Auxiliary,
		Food:      form.Food,
		Taxi:      form.Taxi,
		Other:     form.Other,
		Total:     total,
	}
	if err := s.shifts.SaveExpenses(ctx, req.Row, record); err != nil {
		s.logger.Error("expenses save failed",
			zap.Int64("user_id", req.UserID),
			zap.Int64("row", req.Row),
			zap.Error(err),
		)
		return 0, fmt.Errorf("failed to save expenses: %w", err)
	}

	s.menu.MarkSectionDone(req.UserID, secondary.SectionExpenses)
	return total, nil
}

// Ensure ExpensesServiceImpl implements the interface
var _ primary.ExpensesService = (*ExpensesServiceImpl)(nil)
