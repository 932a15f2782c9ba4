package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/models"
	"github.com/hostelops/hostel-desk-api/pkg/export"
	"github.com/hostelops/hostel-desk-api/pkg/storage"
)

type complaintLister interface {
	ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error)
}

type apologyLister interface {
	ListAll(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type jsonRenderer interface {
	Render(payload interface{}) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// InlineExport is a rendered download served directly from a list view.
type InlineExport struct {
	Filename    string
	ContentType string
	Payload     []byte
}

// ExportService builds datasets from filtered record sets and renders them
// inline (CSV/JSON download) or into stored report files (CSV/PDF behind a
// signed URL).
type ExportService struct {
	complaints complaintLister
	apologies  apologyLister
	storage    fileStorage
	csv        csvRenderer
	pdf        pdfRenderer
	json       jsonRenderer
	signer     *storage.SignedURLSigner
	logger     *zap.Logger
	cfg        ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(complaints complaintLister, apologies apologyLister, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		complaints: complaints,
		apologies:  apologies,
		storage:    store,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		json:       export.NewJSONExporter(),
		signer:     signer,
		logger:     logger,
		cfg:        cfg,
	}
}

// ComplaintsInline renders the currently filtered complaint set as a
// direct download in the requested format.
func (s *ExportService) ComplaintsInline(ctx context.Context, format models.ReportFormat, cfg models.FilterConfig, search string) (*InlineExport, error) {
	records, err := s.filteredComplaints(ctx, cfg, search)
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	switch format {
	case models.ReportFormatCSV:
		payload, err := s.csv.Render(complaintDataset(records))
		if err != nil {
			return nil, err
		}
		return &InlineExport{
			Filename:    fmt.Sprintf("complaints_%s.csv", timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case "json":
		payload, err := s.json.Render(records)
		if err != nil {
			return nil, err
		}
		return &InlineExport{
			Filename:    fmt.Sprintf("complaints_%s.json", timestamp),
			ContentType: "application/json",
			Payload:     payload,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %s", format)
	}
}

// ApologiesInline renders the currently filtered apology set as a direct
// download in the requested format.
func (s *ExportService) ApologiesInline(ctx context.Context, format models.ReportFormat, cfg models.FilterConfig, search string) (*InlineExport, error) {
	records, err := s.filteredApologies(ctx, cfg, search)
	if err != nil {
		return nil, err
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	switch format {
	case models.ReportFormatCSV:
		payload, err := s.csv.Render(apologyDataset(records))
		if err != nil {
			return nil, err
		}
		return &InlineExport{
			Filename:    fmt.Sprintf("apologies_%s.csv", timestamp),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case "json":
		payload, err := s.json.Render(records)
		if err != nil {
			return nil, err
		}
		return &InlineExport{
			Filename:    fmt.Sprintf("apologies_%s.json", timestamp),
			ContentType: "application/json",
			Payload:     payload,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported export format %s", format)
	}
}

// Generate builds the dataset for a queued report job and stores the
// rendered file behind a signed download URL.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	dataset, title, err := s.buildDataset(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("%s_%s.%s", strings.ToLower(string(job.Type)), time.Now().UTC().Format("20060102_150405"), job.Params.Format)
	relPath, err := s.storage.Save(filename, payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) filteredComplaints(ctx context.Context, cfg models.FilterConfig, search string) ([]models.Complaint, error) {
	records, err := s.complaints.ListAll(ctx, models.ComplaintFilter{Status: cfg.Status, Type: cfg.Category})
	if err != nil {
		return nil, err
	}
	return FilterComplaints(records, cfg, search), nil
}

func (s *ExportService) filteredApologies(ctx context.Context, cfg models.FilterConfig, search string) ([]models.Apology, error) {
	records, err := s.apologies.ListAll(ctx, models.ApologyFilter{Status: cfg.Status, Type: cfg.Category})
	if err != nil {
		return nil, err
	}
	return FilterApologies(records, cfg, search), nil
}

func (s *ExportService) buildDataset(ctx context.Context, job *models.ReportJob) (export.Dataset, string, error) {
	switch job.Type {
	case models.ReportTypeComplaints:
		records, err := s.filteredComplaints(ctx, job.Params.Filters, job.Params.Search)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return complaintDataset(records), "Complaint Report", nil
	case models.ReportTypeApologies:
		records, err := s.filteredApologies(ctx, job.Params.Filters, job.Params.Search)
		if err != nil {
			return export.Dataset{}, "", err
		}
		return apologyDataset(records), "Apology Report", nil
	case models.ReportTypeSummary:
		return s.buildSummaryDataset(ctx, job.Params)
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report type %s", job.Type)
	}
}

// complaintDataset projects complaints into flat export rows. The comment
// column is only emitted for records carrying one, so it joins the header
// union at its first appearance and earlier rows render it empty.
func complaintDataset(records []models.Complaint) export.Dataset {
	rows := make([]export.Row, 0, len(records))
	for _, record := range records {
		row := export.NewRow().
			Set("ID", record.ID).
			Set("Title", record.Title).
			Set("Category", record.Type).
			Set("Status", models.StatusLabel(record.Status)).
			Set("Priority", record.Priority).
			Set("Student", record.Student.Name).
			Set("Room", record.Student.RoomNo).
			Set("Created At", record.CreatedAt.UTC().Format(time.RFC3339))
		if record.Comment != nil && *record.Comment != "" {
			row.Set("Comment", *record.Comment)
		}
		rows = append(rows, *row)
	}
	return export.BuildDataset(rows)
}

func apologyDataset(records []models.Apology) export.Dataset {
	rows := make([]export.Row, 0, len(records))
	for _, record := range records {
		row := export.NewRow().
			Set("ID", record.ID).
			Set("Category", record.Type).
			Set("Message", record.Message).
			Set("Status", models.StatusLabel(record.Status)).
			Set("Student", record.Student.Name).
			Set("Room", record.Student.RoomNo).
			Set("Created At", record.CreatedAt.UTC().Format(time.RFC3339))
		if record.Comment != nil && *record.Comment != "" {
			row.Set("Comment", *record.Comment)
		}
		rows = append(rows, *row)
	}
	return export.BuildDataset(rows)
}

func (s *ExportService) buildSummaryDataset(ctx context.Context, params models.ReportJobParams) (export.Dataset, string, error) {
	complaints, err := s.filteredComplaints(ctx, params.Filters, params.Search)
	if err != nil {
		return export.Dataset{}, "", err
	}
	apologies, err := s.filteredApologies(ctx, params.Filters, params.Search)
	if err != nil {
		return export.Dataset{}, "", err
	}

	complaintStats := Aggregate(ComplaintStatRecords(complaints))
	apologyStats := Aggregate(ApologyStatRecords(apologies))

	rows := []export.Row{
		*summaryRow("Complaints", complaintStats),
		*summaryRow("Apologies", apologyStats),
	}
	return export.BuildDataset(rows), "Hostel Desk Summary", nil
}

func summaryRow(kind string, stats models.AggregateStats) *export.Row {
	return export.NewRow().
		Set("Kind", kind).
		Set("Total", fmt.Sprintf("%d", stats.Total)).
		Set("Pending", fmt.Sprintf("%d", stats.Pending)).
		Set("In Review", fmt.Sprintf("%d", stats.InReview)).
		Set("Resolved", fmt.Sprintf("%d", stats.Resolved)).
		Set("Resolution Rate", stats.ResolutionRate)
}
