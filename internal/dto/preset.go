package dto

import "github.com/hostelops/hostel-desk-api/internal/models"

// SavePresetRequest names and stores the current filter configuration for
// one list view.
type SavePresetRequest struct {
	View    string              `json:"view" validate:"required"`
	Name    string              `json:"name" validate:"required,min=1,max=80"`
	Filters models.FilterConfig `json:"filters"`
}
