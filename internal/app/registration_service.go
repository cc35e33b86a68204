package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/nameval"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// RegistrationServiceImpl implements the RegistrationService interface.
type RegistrationServiceImpl struct {
	profiles secondary.ProfileRepository
	logger   *zap.Logger
}

// NewRegistrationService creates a new RegistrationService with injected
// dependencies.
func NewRegistrationService(profiles secondary.ProfileRepository, logger *zap.Logger) *RegistrationServiceImpl {
	return &RegistrationServiceImpl{profiles: profiles, logger: logger}
}

// Profile returns the registered profile for a Telegram user.
func (s *RegistrationServiceImpl) Profile(ctx context.Context, telegramID int64) (*secondary.Profile, error) {
	return s.profiles.FindByTelegramID(ctx, telegramID)
}

// Register validates the name pieces and persists a new profile. Both an
// already-registered Telegram id and an already-registered full name are
// rejected with secondary.ErrDuplicate.
func (s *RegistrationServiceImpl) Register(ctx context.Context, req primary.RegisterRequest) (*secondary.Profile, error) {
	last, err := nameval.ValidatePiece(req.LastName)
	if err != nil {
		return nil, err
	}
	first, err := nameval.ValidatePiece(req.FirstName)
	if err != nil {
		return nil, err
	}
	patronymic := ""
	if req.Patronymic != "" {
		patronymic, err = nameval.ValidatePiece(req.Patronymic)
		if err != nil {
			return nil, err
		}
	}

	if existing, err := s.profiles.FindByTelegramID(ctx, req.TelegramID); err == nil && existing != nil {
		return nil, fmt.Errorf("telegram id %d: %w", req.TelegramID, secondary.ErrDuplicate)
	}

	taken, err := s.profiles.NameExists(ctx, last, first, patronymic)
	if err != nil {
		return nil, fmt.Errorf("failed to check name duplicates: %w", err)
	}
	if taken {
		return nil, fmt.Errorf("full name already registered: %w", secondary.ErrDuplicate)
	}

	profile := &secondary.Profile{
		TelegramID: req.TelegramID,
		LastName:   last,
		FirstName:  first,
		Patronymic: patronymic,
		Display:    nameval.DisplayName(first, patronymic),
	}
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("foreman registered",
		zap.Int64("user_id", req.TelegramID),
		zap.String("display", profile.Display),
	)
	return profile, nil
}

// Ensure RegistrationServiceImpl implements the interface
var _ primary.RegistrationService = (*RegistrationServiceImpl)(nil)
