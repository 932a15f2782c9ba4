package dto

import "github.com/hostelops/hostel-desk-api/internal/models"

// CreateReportRequest queues an asynchronous export job for the currently
// filtered record set.
type CreateReportRequest struct {
	Type    models.ReportType   `json:"type" validate:"required,oneof=complaints apologies summary"`
	Format  models.ReportFormat `json:"format" validate:"required,oneof=csv pdf"`
	Filters models.FilterConfig `json:"filters"`
	Search  string              `json:"search,omitempty"`
}

// ReportJobResponse is the job status payload polled by the client.
type ReportJobResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Format    models.ReportFormat `json:"format"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
