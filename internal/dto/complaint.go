package dto

import "github.com/hostelops/hostel-desk-api/internal/models"

// CreateComplaintRequest is the multipart form payload a student submits.
// Attachments travel separately as form files.
type CreateComplaintRequest struct {
	Title       string `form:"title" validate:"required,min=3"`
	Type        string `form:"type" validate:"required"`
	Description string `form:"description" validate:"required,min=10"`
	Priority    string `form:"priority" validate:"omitempty,oneof=low medium high"`
}

// UpdateComplaintStatusRequest is the admin status transition payload.
type UpdateComplaintStatusRequest struct {
	Status  string  `json:"status" validate:"required"`
	Comment *string `json:"comment,omitempty"`
}

// ListResult wraps a filtered page plus its aggregate snapshot so list
// views render cards and rows from one response.
type ListResult[T any] struct {
	Items []T                   `json:"items"`
	Stats models.AggregateStats `json:"stats"`
}
