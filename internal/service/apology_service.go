package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
)

type apologyRepository interface {
	List(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, int, error)
	ListAll(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, error)
	FindByID(ctx context.Context, id string) (*models.Apology, error)
	Create(ctx context.Context, apology *models.Apology) error
	UpdateReview(ctx context.Context, id, status string, comment *string) (int64, error)
}

// ApologyService implements apology letter use cases.
type ApologyService struct {
	repo      apologyRepository
	stats     metricsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewApologyService constructs an ApologyService.
func NewApologyService(repo apologyRepository, stats metricsInvalidator, validate *validator.Validate, logger *zap.Logger) *ApologyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ApologyService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// List returns a filtered page of apologies with the aggregate snapshot
// over the same set. The status constraint compares the stored value
// verbatim; apology statuses are never normalized.
func (s *ApologyService) List(ctx context.Context, filter models.ApologyFilter, cfg models.FilterConfig, search string) (*dto.ListResult[models.Apology], *models.Pagination, error) {
	filter.Status = cfg.Status
	filter.Type = cfg.Category
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list apologies")
	}

	refined := FilterApologies(records, cfg, search)
	result := &dto.ListResult[models.Apology]{
		Items: refined,
		Stats: Aggregate(ApologyStatRecords(refined)),
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}
	pagination := &models.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
	}
	return result, pagination, nil
}

// Get loads one apology letter.
func (s *ApologyService) Get(ctx context.Context, id string) (*models.Apology, error) {
	apology, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "apology not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load apology")
	}
	return apology, nil
}

// Create persists a new letter in the submitted state.
func (s *ApologyService) Create(ctx context.Context, student models.StudentRef, req dto.CreateApologyRequest) (*models.Apology, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid apology payload")
	}
	apology := &models.Apology{
		Type:        req.Type,
		Message:     req.Message,
		Description: req.Description,
		Status:      "submitted",
		Student:     student,
	}
	if err := s.repo.Create(ctx, apology); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create apology")
	}
	if s.stats != nil {
		s.stats.InvalidateMetrics(ctx)
	}
	return apology, nil
}

// Review records the warden's decision. The status must be one of the raw
// apology vocabulary values; canonical complaint spellings are rejected.
func (s *ApologyService) Review(ctx context.Context, id string, req dto.ReviewApologyRequest) (*models.Apology, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if _, ok := models.ApologyStatuses[models.CanonicalStatus(req.Status)]; !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("status %q is not valid for apologies", req.Status))
	}

	affected, err := s.repo.UpdateReview(ctx, id, req.Status, req.Comment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review apology")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "apology not found")
	}

	if s.stats != nil {
		s.stats.InvalidateMetrics(ctx)
	}
	return s.Get(ctx, id)
}
