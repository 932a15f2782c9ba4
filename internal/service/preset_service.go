package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
)

type presetRepository interface {
	Save(ctx context.Context, preset *models.FilterPreset) error
	List(ctx context.Context, ownerID, viewKey string) ([]models.FilterPreset, error)
	Delete(ctx context.Context, id, ownerID string) (int64, error)
}

// PresetService stores named filter configurations per user and view.
type PresetService struct {
	repo      presetRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPresetService constructs a PresetService.
func NewPresetService(repo presetRepository, validate *validator.Validate, logger *zap.Logger) *PresetService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &PresetService{repo: repo, validator: validate, logger: logger}
}

// Save upserts a preset. Saving the same name for the same view replaces
// the stored filters rather than creating a duplicate.
func (s *PresetService) Save(ctx context.Context, ownerID string, req dto.SavePresetRequest) (*models.FilterPreset, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preset payload")
	}
	preset := &models.FilterPreset{
		OwnerID: ownerID,
		ViewKey: req.View,
		Name:    req.Name,
		Filters: req.Filters,
	}
	if err := s.repo.Save(ctx, preset); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save preset")
	}
	return preset, nil
}

// List returns the owner's presets, optionally scoped to one view.
func (s *PresetService) List(ctx context.Context, ownerID, viewKey string) ([]models.FilterPreset, error) {
	presets, err := s.repo.List(ctx, ownerID, viewKey)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list presets")
	}
	return presets, nil
}

// Delete removes one of the owner's presets. Presets belonging to other
// users are invisible here, so a cross-owner delete reports not found.
func (s *PresetService) Delete(ctx context.Context, id, ownerID string) error {
	affected, err := s.repo.Delete(ctx, id, ownerID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete preset")
	}
	if affected == 0 {
		return appErrors.Clone(appErrors.ErrNotFound, "preset not found")
	}
	return nil
}
