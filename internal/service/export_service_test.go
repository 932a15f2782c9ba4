package service

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/models"
	"github.com/hostelops/hostel-desk-api/pkg/storage"
)

func ptrString(s string) *string { return &s }

type complaintListerStub struct {
	records []models.Complaint
}

func (s complaintListerStub) ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	return s.records, nil
}

type apologyListerStub struct {
	records []models.Apology
}

func (s apologyListerStub) ListAll(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, error) {
	return s.records, nil
}

func exportSampleComplaints() []models.Complaint {
	return []models.Complaint{
		{
			ID:       "c-1",
			Title:    "Broken fan",
			Type:     "electrical",
			Status:   "pending",
			Priority: "high",
			Student:  models.StudentRef{Name: "Asha Rao", RoomNo: "B-204"},
			CreatedAt: time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:       "c-2",
			Title:    "Leaking tap",
			Type:     "plumbing",
			Status:   "resolved",
			Priority: "low",
			Comment:  ptrString("fixed by maintenance"),
			Student:  models.StudentRef{Name: "Ravi Kumar", RoomNo: "A-101"},
			CreatedAt: time.Date(2025, time.May, 3, 9, 0, 0, 0, time.UTC),
		},
	}
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour}
	complaints := complaintListerStub{records: exportSampleComplaints()}
	apologies := apologyListerStub{records: []models.Apology{
		{ID: "a-1", Type: "curfew", Message: "Sorry for being late", Status: "submitted",
			Student: models.StudentRef{Name: "Asha Rao", RoomNo: "B-204"},
			CreatedAt: time.Date(2025, time.May, 4, 8, 0, 0, 0, time.UTC)},
		{ID: "a-2", Type: "noise", Message: "Apologies for the noise", Status: "accepted",
			Student: models.StudentRef{Name: "Ravi Kumar", RoomNo: "A-101"},
			CreatedAt: time.Date(2025, time.May, 5, 8, 0, 0, 0, time.UTC)},
	}}
	return NewExportService(complaints, apologies, store, signer, cfg, zap.NewNop()), store
}

func TestExportServiceGenerateCSV(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-1",
		Type:      models.ReportTypeComplaints,
		Params:    models.ReportJobParams{Format: models.ReportFormatCSV},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.NotEmpty(t, result.RelativePath)
	require.Contains(t, result.URL, "/export/")

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGeneratePDF(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:        "job-2",
		Type:      models.ReportTypeSummary,
		Params:    models.ReportJobParams{Format: models.ReportFormatPDF},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)
	require.Equal(t, models.ReportFormatPDF, result.Format)

	info, err := os.Stat(store.Path(result.RelativePath))
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))
}

func TestExportServiceGenerateRespectsFilters(t *testing.T) {
	svc, store := newExportServiceForTest(t)
	job := &models.ReportJob{
		ID:   "job-3",
		Type: models.ReportTypeComplaints,
		Params: models.ReportJobParams{
			Format:  models.ReportFormatCSV,
			Filters: models.FilterConfig{Status: "resolved"},
		},
		CreatedBy: "admin",
	}
	result, err := svc.Generate(context.Background(), job)
	require.NoError(t, err)

	data, err := os.ReadFile(store.Path(result.RelativePath))
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "Leaking tap")
	assert.NotContains(t, content, "Broken fan")
}

func TestComplaintsInlineCSVHeaderUnion(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	out, err := svc.ComplaintsInline(context.Background(), models.ReportFormatCSV, models.FilterConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", out.ContentType)
	assert.True(t, strings.HasSuffix(out.Filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(out.Payload)), "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	// The comment column only appears on the second record, so it lands at
	// the end of the header and the first data row leaves it empty.
	assert.True(t, strings.HasSuffix(lines[0], ",Comment"))
	assert.True(t, strings.HasSuffix(lines[1], ","))
	assert.Contains(t, lines[2], "fixed by maintenance")
}

func TestComplaintsInlineJSONRoundTrips(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	out, err := svc.ComplaintsInline(context.Background(), "json", models.FilterConfig{}, "")
	require.NoError(t, err)
	assert.Equal(t, "application/json", out.ContentType)

	var decoded []models.Complaint
	require.NoError(t, json.Unmarshal(out.Payload, &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, "c-1", decoded[0].ID)
	assert.Equal(t, "pending", decoded[0].Status)
}

func TestApologiesInlineSearchFilters(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	out, err := svc.ApologiesInline(context.Background(), models.ReportFormatCSV, models.FilterConfig{}, "being late")
	require.NoError(t, err)
	content := string(out.Payload)
	assert.Contains(t, content, "Sorry for being late")
	assert.NotContains(t, content, "Apologies for the noise")
}

func TestExportServiceInlineUnsupportedFormat(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	_, err := svc.ComplaintsInline(context.Background(), "xlsx", models.FilterConfig{}, "")
	require.Error(t, err)
}
