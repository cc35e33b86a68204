package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/core/photo"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/primary"
	"github.com/dmitryusaty7/MSCShiftBot-sub000/internal/ports/secondary"
)

// maxNameAttempts bounds the ordinal bumping on upload name conflicts.
const maxNameAttempts = 99

// MaterialsServiceImpl implements the MaterialsService interface.
type MaterialsServiceImpl struct {
	shifts secondary.ShiftRepository
	files  secondary.FileStore
	menu   primary.MenuService
	logger *zap.Logger
}

// NewMaterialsService creates a new MaterialsService with injected
// dependencies.
func NewMaterialsService(
	shifts secondary.ShiftRepository,
	files secondary.FileStore,
	menu primary.MenuService,
	logger *zap.Logger,
) *MaterialsServiceImpl {
	return &MaterialsServiceImpl{
		shifts: shifts,
		files:  files,
		menu:   menu,
		logger: logger,
	}
}

// SaveMaterials uploads the photo batch, publishes the dated folder and
// persists the link plus the numeric fields in one write. Any upload or
// publish failure aborts before the record write so the dialogue can stay
// on its confirmation screen.
func (s *MaterialsServiceImpl) SaveMaterials(ctx context.Context, req primary.SaveMaterialsRequest) (string, error) {
	if len(req.Photos) == 0 {
		return "", fmt.Errorf("at least one photo is required before saving materials")
	}

	folder := photo.DayTitle(req.Day)
	if err := s.files.EnsureDatedFolder(ctx, folder); err != nil {
		return "", fmt.Errorf("failed to prepare photo folder: %w", err)
	}

	for i, p := range req.Photos {
		name, err := s.uploadWithUniqueName(ctx, p, req.UserID, i+1, folder)
		if err != nil {
			s.logger.Error("photo upload failed",
				zap.Int64("user_id", req.UserID),
				zap.Int64("row", req.Row),
				zap.String("folder", folder),
				zap.Error(err),
			)
			return "", err
		}
		s.logger.Debug("photo uploaded",
			zap.Int64("user_id", req.UserID),
			zap.String("name", name),
		)
	}

	link, err := s.files.PublishLink(ctx, folder)
	if err != nil {
		return "", fmt.Errorf("failed to publish photo folder: %w", err)
	}

	record := secondary.MaterialsRecord{
		FilmMeters: req.FilmMeters,
		TubeCount:  req.TubeCount,
		TapeCount:  req.TapeCount,
		PhotosLink: link,
	}
	if err := s.shifts.SaveMaterials(ctx, req.Row, record); err != nil {
		s.logger.Error("materials save failed",
			zap.Int64("user_id", req.UserID),
			zap.Int64("row", req.Row),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to save materials: %w", err)
	}

	s.menu.MarkSectionDone(req.UserID, secondary.SectionMaterials)
	return link, nil
}

// uploadWithUniqueName uploads one photo, bumping the ordinal suffix until
// the name is free.
func (s *MaterialsServiceImpl) uploadWithUniqueName(
	ctx context.Context,
	p primary.Photo,
	userID int64,
	ordinal int,
	folder string,
) (string, error) {
	ext := photo.NormalizeExt(p.Ext)
	contentType := photo.ContentType(ext)

	for attempt := 0; attempt < maxNameAttempts; attempt++ {
		name := photo.FileName(p.TimeLabel, userID, ordinal, ext)
		err := s.files.Upload(ctx, p.Content, name, folder, contentType)
		if err == nil {
			return name, nil
		}
		if errors.Is(err, secondary.ErrNameConflict) {
			ordinal++
			continue
		}
		return "", err
	}
	return "", fmt.Errorf("could not find a free photo name after %d attempts", maxNameAttempts)
}

// Ensure MaterialsServiceImpl implements the interface
var _ primary.MaterialsService = (*MaterialsServiceImpl)(nil)
