package dto

// CreateApologyRequest is the payload a student submits with an apology
// letter.
type CreateApologyRequest struct {
	Type        string `json:"type" validate:"required"`
	Message     string `json:"message" validate:"required,min=10"`
	Description string `json:"description" validate:"omitempty"`
}

// ReviewApologyRequest records the warden's decision on a letter.
type ReviewApologyRequest struct {
	Status  string  `json:"status" validate:"required,oneof=submitted reviewed accepted rejected"`
	Comment *string `json:"comment,omitempty"`
}
