package dto

import "github.com/hostelops/hostel-desk-api/internal/models"

// StatusSummaryResponse is the per-status breakdown for dashboard cards.
// Complaint counts are keyed by canonical status; apology counts keep the
// stored vocabulary.
type StatusSummaryResponse struct {
	Complaints map[string]int `json:"complaints"`
	Apologies  map[string]int `json:"apologies"`
}

// ResolutionRateResponse carries the pre-formatted resolution rate.
type ResolutionRateResponse struct {
	Resolved int    `json:"resolved"`
	Total    int    `json:"total"`
	Rate     string `json:"rate"`
}

// PendingCountResponse is the single pending counter for the header badge.
type PendingCountResponse struct {
	Pending int `json:"pending"`
}

// MonthlyTrendResponse is the dense trailing-months series for the chart.
type MonthlyTrendResponse struct {
	Months []models.TrendPoint `json:"months"`
}
