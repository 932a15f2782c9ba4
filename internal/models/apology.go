package models

import "time"

// Apology is a formal apology letter submitted by a student after a rule
// violation. Its status vocabulary is submitted/reviewed/accepted/rejected
// and, unlike complaints, is compared verbatim when filtering.
type Apology struct {
	ID          string     `db:"id" json:"id"`
	Type        string     `db:"type" json:"type"`
	Message     string     `db:"message" json:"message"`
	Description string     `db:"description" json:"description"`
	Status      string     `db:"status" json:"status"`
	Comment     *string    `db:"comment" json:"comment,omitempty"`
	Student     StudentRef `db:"-" json:"student"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// ApologyFilter carries list-endpoint query parameters pushed into SQL.
type ApologyFilter struct {
	Status    string
	Type      string
	StudentID string
	Page      int
	PageSize  int
}
