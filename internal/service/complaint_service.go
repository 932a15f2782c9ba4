package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/storage"
)

type complaintRepository interface {
	List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error)
	ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
	FindByID(ctx context.Context, id string) (*models.Complaint, error)
	Create(ctx context.Context, complaint *models.Complaint) error
	UpdateStatus(ctx context.Context, id, status string, comment *string) (int64, error)
	AddAttachment(ctx context.Context, attachment *models.Attachment) error
	ListAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error)
	FindAttachment(ctx context.Context, id string) (*models.Attachment, error)
}

type metricsInvalidator interface {
	InvalidateMetrics(ctx context.Context)
}

// AttachmentUpload carries one uploaded file decoded from the multipart
// form.
type AttachmentUpload struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ComplaintServiceConfig tunes attachment validation and signed links.
type ComplaintServiceConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	APIPrefix        string
}

// ComplaintService implements complaint use cases for students and staff.
type ComplaintService struct {
	repo      complaintRepository
	files     fileStorage
	signer    *storage.SignedURLSigner
	stats     metricsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ComplaintServiceConfig
}

// NewComplaintService constructs a ComplaintService.
func NewComplaintService(repo complaintRepository, files fileStorage, signer *storage.SignedURLSigner, stats metricsInvalidator, validate *validator.Validate, logger *zap.Logger, cfg ComplaintServiceConfig) *ComplaintService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 5 * 1024 * 1024
	}
	return &ComplaintService{
		repo:      repo,
		files:     files,
		signer:    signer,
		stats:     stats,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
	}
}

// List returns a filtered page of complaints together with the aggregate
// snapshot over the same filtered set. Status and category constraints are
// pushed into SQL; date ranges and free-text search refine in memory.
func (s *ComplaintService) List(ctx context.Context, filter models.ComplaintFilter, cfg models.FilterConfig, search string) (*dto.ListResult[models.Complaint], *models.Pagination, error) {
	filter.Status = cfg.Status
	filter.Type = cfg.Category
	records, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list complaints")
	}

	refined := FilterComplaints(records, cfg, search)
	result := &dto.ListResult[models.Complaint]{
		Items: refined,
		Stats: Aggregate(ComplaintStatRecords(refined)),
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

// Get loads a single complaint with its attachments, each carrying a
// freshly signed download link.
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaint, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load complaint")
	}

	attachments, err := s.repo.ListAttachments(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attachments")
	}
	for i := range attachments {
		attachments[i].URL = s.attachmentURL(attachments[i])
	}
	complaint.Attachments = attachments
	return complaint, nil
}

// Create validates and persists a student complaint with its uploaded
// attachments. Incoming statuses are normalized before storage so new rows
// carry canonical spellings even though legacy rows may not.
func (s *ComplaintService) Create(ctx context.Context, student models.StudentRef, req dto.CreateComplaintRequest, uploads []AttachmentUpload) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid complaint payload")
	}
	for _, upload := range uploads {
		if err := s.validateUpload(upload); err != nil {
			return nil, err
		}
	}

	priority := req.Priority
	if priority == "" {
		priority = "medium"
	}
	complaint := &models.Complaint{
		Title:       req.Title,
		Type:        req.Type,
		Description: req.Description,
		Status:      string(models.StatusOpen),
		Priority:    priority,
		Student:     student,
	}
	if err := s.repo.Create(ctx, complaint); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create complaint")
	}

	for _, upload := range uploads {
		attachment, err := s.storeAttachment(ctx, complaint.ID, upload)
		if err != nil {
			s.logger.Warn("failed to store attachment",
				zap.String("complaint_id", complaint.ID),
				zap.String("file", upload.FileName),
				zap.Error(err))
			continue
		}
		complaint.Attachments = append(complaint.Attachments, *attachment)
	}

	if s.stats != nil {
		s.stats.InvalidateMetrics(ctx)
	}
	return complaint, nil
}

// UpdateStatus transitions a complaint. The requested status is accepted in
// any raw spelling but must normalize into the complaint vocabulary.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, req dto.UpdateComplaintStatusRequest) (*models.Complaint, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	canonical := models.NormalizeStatus(req.Status)
	if _, ok := models.ComplaintStatuses[canonical]; !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, fmt.Sprintf("status %q is not valid for complaints", req.Status))
	}

	affected, err := s.repo.UpdateStatus(ctx, id, string(canonical), req.Comment)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update complaint status")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "complaint not found")
	}

	if s.stats != nil {
		s.stats.InvalidateMetrics(ctx)
	}
	return s.Get(ctx, id)
}

// OpenAttachment resolves a signed attachment token to its file handle.
func (s *ComplaintService) OpenAttachment(ctx context.Context, token string) (*models.Attachment, *os.File, error) {
	attachmentID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired attachment token")
	}
	attachment, err := s.repo.FindAttachment(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "attachment not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attachment")
	}
	if attachment.StoragePath != relPath {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "attachment token mismatch")
	}
	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open attachment")
	}
	return attachment, file, nil
}

func (s *ComplaintService) validateUpload(upload AttachmentUpload) error {
	if int64(len(upload.Data)) > s.cfg.MaxFileSizeBytes {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file %s exceeds the %d byte limit", upload.FileName, s.cfg.MaxFileSizeBytes))
	}
	if len(s.cfg.AllowedMIMEs) == 0 {
		return nil
	}
	detected := http.DetectContentType(upload.Data)
	for _, allowed := range s.cfg.AllowedMIMEs {
		if strings.HasPrefix(detected, allowed) || strings.HasPrefix(upload.ContentType, allowed) {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file type %s is not allowed", detected))
}

func (s *ComplaintService) storeAttachment(ctx context.Context, complaintID string, upload AttachmentUpload) (*models.Attachment, error) {
	safeName := sanitizeFilename(upload.FileName)
	stored := fmt.Sprintf("%s_%s", uuid.NewString(), safeName)
	relPath, err := s.files.Save(stored, upload.Data)
	if err != nil {
		return nil, err
	}
	attachment := &models.Attachment{
		ComplaintID: complaintID,
		FileName:    safeName,
		StoragePath: relPath,
		ContentType: upload.ContentType,
		SizeBytes:   int64(len(upload.Data)),
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.AddAttachment(ctx, attachment); err != nil {
		if delErr := s.files.Delete(relPath); delErr != nil {
			s.logger.Warn("failed to remove orphaned attachment file", zap.String("path", relPath), zap.Error(delErr))
		}
		return nil, err
	}
	attachment.URL = s.attachmentURL(*attachment)
	return attachment, nil
}

func (s *ComplaintService) attachmentURL(attachment models.Attachment) string {
	if s.signer == nil {
		return ""
	}
	token, _, err := s.signer.Generate(attachment.ID, attachment.StoragePath)
	if err != nil {
		s.logger.Warn("failed to sign attachment url", zap.String("attachment_id", attachment.ID), zap.Error(err))
		return ""
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	return fmt.Sprintf("%s/attachments/%s", prefix, token)
}

func sanitizeFilename(name string) string {
	base := filepath.Base(name)
	base = strings.ReplaceAll(base, " ", "_")
	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}
