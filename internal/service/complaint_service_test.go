package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
	"github.com/hostelops/hostel-desk-api/pkg/storage"
)

type complaintRepoStub struct {
	complaints  map[string]*models.Complaint
	attachments map[string]*models.Attachment
	lastStatus  string
}

func newComplaintRepoStub() *complaintRepoStub {
	return &complaintRepoStub{
		complaints:  map[string]*models.Complaint{},
		attachments: map[string]*models.Attachment{},
	}
}

func (r *complaintRepoStub) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	var out []models.Complaint
	for _, c := range r.complaints {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *complaintRepoStub) ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	items, _, err := r.List(ctx, filter)
	return items, err
}

func (r *complaintRepoStub) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	c, ok := r.complaints[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (r *complaintRepoStub) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = time.Now().UTC()
	}
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *complaintRepoStub) UpdateStatus(ctx context.Context, id, status string, comment *string) (int64, error) {
	c, ok := r.complaints[id]
	if !ok {
		return 0, nil
	}
	c.Status = status
	if comment != nil {
		c.Comment = comment
	}
	r.lastStatus = status
	return 1, nil
}

func (r *complaintRepoStub) AddAttachment(ctx context.Context, attachment *models.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}
	stored := *attachment
	r.attachments[attachment.ID] = &stored
	return nil
}

func (r *complaintRepoStub) ListAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, a := range r.attachments {
		if a.ComplaintID == complaintID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *complaintRepoStub) FindAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

type invalidatorStub struct {
	calls int
}

func (s *invalidatorStub) InvalidateMetrics(ctx context.Context) { s.calls++ }

func newComplaintServiceForTest(t *testing.T) (*ComplaintService, *complaintRepoStub, *invalidatorStub) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	repo := newComplaintRepoStub()
	stats := &invalidatorStub{}
	svc := NewComplaintService(repo, store, signer, stats, nil, zap.NewNop(), ComplaintServiceConfig{
		MaxFileSizeBytes: 1024,
		APIPrefix:        "/api/v1",
	})
	return svc, repo, stats
}

func TestComplaintServiceCreate(t *testing.T) {
	svc, repo, stats := newComplaintServiceForTest(t)
	student := models.StudentRef{ID: "s-1", Name: "Asha Rao", RoomNo: "B-204", Block: "B"}

	created, err := svc.Create(context.Background(), student, dto.CreateComplaintRequest{
		Title:       "Broken fan",
		Type:        "electrical",
		Description: "ceiling fan stopped working yesterday",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "open", created.Status)
	assert.Equal(t, "medium", created.Priority)
	assert.Contains(t, repo.complaints, created.ID)
	assert.Equal(t, 1, stats.calls)
}

func TestComplaintServiceCreateValidation(t *testing.T) {
	svc, _, _ := newComplaintServiceForTest(t)
	_, err := svc.Create(context.Background(), models.StudentRef{}, dto.CreateComplaintRequest{
		Title: "x",
	}, nil)
	require.Error(t, err)
}

func TestComplaintServiceCreateStoresAttachments(t *testing.T) {
	svc, repo, _ := newComplaintServiceForTest(t)
	uploads := []AttachmentUpload{{
		FileName:    "photo one.txt",
		ContentType: "text/plain",
		Data:        []byte("evidence"),
	}}

	created, err := svc.Create(context.Background(), models.StudentRef{Name: "Asha"}, dto.CreateComplaintRequest{
		Title:       "Broken fan",
		Type:        "electrical",
		Description: "ceiling fan stopped working yesterday",
	}, uploads)
	require.NoError(t, err)
	require.Len(t, created.Attachments, 1)
	assert.Equal(t, "photo_one.txt", created.Attachments[0].FileName)
	assert.NotEmpty(t, created.Attachments[0].URL)
	require.Len(t, repo.attachments, 1)
}

func TestComplaintServiceCreateRejectsOversizedUpload(t *testing.T) {
	svc, _, _ := newComplaintServiceForTest(t)
	uploads := []AttachmentUpload{{
		FileName: "big.bin",
		Data:     make([]byte, 2048),
	}}
	_, err := svc.Create(context.Background(), models.StudentRef{Name: "Asha"}, dto.CreateComplaintRequest{
		Title:       "Broken fan",
		Type:        "electrical",
		Description: "ceiling fan stopped working yesterday",
	}, uploads)
	require.Error(t, err)
}

func TestComplaintServiceUpdateStatusNormalizes(t *testing.T) {
	svc, repo, stats := newComplaintServiceForTest(t)
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Title: "Broken fan", Status: "open"}

	updated, err := svc.UpdateStatus(context.Background(), "c-1", dto.UpdateComplaintStatusRequest{
		Status: "IN_REVIEW",
	})
	require.NoError(t, err)
	assert.Equal(t, "inprogress", repo.lastStatus)
	assert.Equal(t, "inprogress", updated.Status)
	assert.Equal(t, 1, stats.calls)
}

func TestComplaintServiceUpdateStatusRejectsApologyVocabulary(t *testing.T) {
	svc, repo, _ := newComplaintServiceForTest(t)
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Status: "open"}

	_, err := svc.UpdateStatus(context.Background(), "c-1", dto.UpdateComplaintStatusRequest{
		Status: "accepted",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrInvalidStatus.Code, appErr.Code)
}

func TestComplaintServiceUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newComplaintServiceForTest(t)
	_, err := svc.UpdateStatus(context.Background(), "missing", dto.UpdateComplaintStatusRequest{
		Status: "resolved",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestComplaintServiceListAggregatesRefinedSet(t *testing.T) {
	svc, repo, _ := newComplaintServiceForTest(t)
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Title: "Broken fan", Status: "pending"}
	repo.complaints["c-2"] = &models.Complaint{ID: "c-2", Title: "Leaking tap", Status: "resolved"}

	result, pagination, err := svc.List(context.Background(), models.ComplaintFilter{}, models.FilterConfig{Status: "resolved"}, "")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "c-2", result.Items[0].ID)
	assert.Equal(t, 1, result.Stats.Total)
	assert.Equal(t, 1, result.Stats.Resolved)
	assert.Equal(t, 1, pagination.Page)
}

func TestComplaintServiceOpenAttachment(t *testing.T) {
	svc, repo, _ := newComplaintServiceForTest(t)
	created, err := svc.Create(context.Background(), models.StudentRef{Name: "Asha"}, dto.CreateComplaintRequest{
		Title:       "Broken fan",
		Type:        "electrical",
		Description: "ceiling fan stopped working yesterday",
	}, []AttachmentUpload{{FileName: "note.txt", ContentType: "text/plain", Data: []byte("hello")}})
	require.NoError(t, err)
	require.Len(t, created.Attachments, 1)
	require.Len(t, repo.attachments, 1)

	token := created.Attachments[0].URL[len("/api/v1/attachments/"):]
	attachment, file, err := svc.OpenAttachment(context.Background(), token)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "note.txt", attachment.FileName)
}
