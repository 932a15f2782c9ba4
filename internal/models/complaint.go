package models

import "time"

// Complaint is a maintenance or facility complaint raised by a student.
// Status holds the raw backend vocabulary as received; canonical comparison
// goes through NormalizeStatus.
type Complaint struct {
	ID          string       `db:"id" json:"id"`
	Title       string       `db:"title" json:"title"`
	Type        string       `db:"type" json:"type"`
	Description string       `db:"description" json:"description"`
	Status      string       `db:"status" json:"status"`
	Priority    string       `db:"priority" json:"priority"`
	Comment     *string      `db:"comment" json:"comment,omitempty"`
	Student     StudentRef   `db:"-" json:"student"`
	Attachments []Attachment `db:"-" json:"attachments,omitempty"`
	CreatedAt   time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time    `db:"updated_at" json:"updatedAt"`
}

// Attachment is a stored file linked to a complaint.
type Attachment struct {
	ID          string    `db:"id" json:"id"`
	ComplaintID string    `db:"complaint_id" json:"complaint_id"`
	FileName    string    `db:"file_name" json:"file_name"`
	StoragePath string    `db:"storage_path" json:"-"`
	ContentType string    `db:"content_type" json:"content_type"`
	SizeBytes   int64     `db:"size_bytes" json:"size_bytes"`
	URL         string    `db:"-" json:"url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ComplaintFilter carries list-endpoint query parameters pushed into SQL.
type ComplaintFilter struct {
	Status    string
	Type      string
	StudentID string
	Page      int
	PageSize  int
}
