package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/middleware"
	"github.com/hostelops/hostel-desk-api/internal/models"
	"github.com/hostelops/hostel-desk-api/internal/service"
	"github.com/hostelops/hostel-desk-api/pkg/storage"
)

type responseEnvelope struct {
	Data  map[string]interface{}   `json:"data"`
	Items []map[string]interface{} `json:"items"`
	Meta  map[string]interface{}   `json:"meta"`
}

type fakeComplaintRepo struct {
	complaints  map[string]*models.Complaint
	attachments map[string]*models.Attachment
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{
		complaints:  map[string]*models.Complaint{},
		attachments: map[string]*models.Attachment{},
	}
}

func (r *fakeComplaintRepo) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	var out []models.Complaint
	for _, c := range r.complaints {
		out = append(out, *c)
	}
	return out, len(out), nil
}

func (r *fakeComplaintRepo) ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	items, _, err := r.List(ctx, filter)
	return items, err
}

func (r *fakeComplaintRepo) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	c, ok := r.complaints[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *c
	return &clone, nil
}

func (r *fakeComplaintRepo) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	complaint.CreatedAt = time.Now().UTC()
	stored := *complaint
	r.complaints[complaint.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) UpdateStatus(ctx context.Context, id, status string, comment *string) (int64, error) {
	c, ok := r.complaints[id]
	if !ok {
		return 0, nil
	}
	c.Status = status
	if comment != nil {
		c.Comment = comment
	}
	return 1, nil
}

func (r *fakeComplaintRepo) AddAttachment(ctx context.Context, attachment *models.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}
	stored := *attachment
	r.attachments[attachment.ID] = &stored
	return nil
}

func (r *fakeComplaintRepo) ListAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	var out []models.Attachment
	for _, a := range r.attachments {
		if a.ComplaintID == complaintID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeComplaintRepo) FindAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	a, ok := r.attachments[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

func newComplaintHandlerForTest(t *testing.T, repo *fakeComplaintRepo) *ComplaintHandler {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	svc := service.NewComplaintService(repo, store, signer, nil, nil, zap.NewNop(), service.ComplaintServiceConfig{APIPrefix: "/api/v1"})
	exporter := service.NewExportService(repo, nil, store, signer, service.ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop())
	return NewComplaintHandler(svc, exporter)
}

func setClaims(c *gin.Context, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{
		UserID:   "user-1",
		Role:     role,
		FullName: "Asha Rao",
	})
}

func TestComplaintHandlerListFiltersByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeComplaintRepo()
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Title: "Broken fan", Status: "pending"}
	repo.complaints["c-2"] = &models.Complaint{ID: "c-2", Title: "Leaking tap", Status: "resolved"}
	handler := newComplaintHandlerForTest(t, repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/complaints?status=resolved", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	items, ok := envelope.Data["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
	stats, ok := envelope.Data["stats"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(1), stats["total"])
}

func TestComplaintHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newComplaintHandlerForTest(t, newFakeComplaintRepo())

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/complaints/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComplaintHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeComplaintRepo()
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Title: "Broken fan", Status: "open"}
	handler := newComplaintHandlerForTest(t, repo)

	body := bytes.NewBufferString(`{"status": "IN-REVIEW"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/admin/complaints/c-1/status", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "inprogress", repo.complaints["c-1"].Status)
}

func TestComplaintHandlerUpdateStatusRejectsUnknownVocabulary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeComplaintRepo()
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Status: "open"}
	handler := newComplaintHandlerForTest(t, repo)

	body := bytes.NewBufferString(`{"status": "accepted"}`)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/admin/complaints/c-1/status", body)
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "c-1"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestComplaintHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := newFakeComplaintRepo()
	repo.complaints["c-1"] = &models.Complaint{ID: "c-1", Title: "Broken fan", Status: "pending",
		Student: models.StudentRef{Name: "Asha Rao", RoomNo: "B-204"}}
	handler := newComplaintHandlerForTest(t, repo)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/admin/complaints/export?format=csv", nil)

	handler.Export(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "Broken fan")
}
