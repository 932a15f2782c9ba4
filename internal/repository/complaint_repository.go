package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

const complaintColumns = `c.id, c.title, c.type, c.description, c.status, c.priority, c.comment,
        c.student_id, c.student_name, c.student_room_no, c.student_block, c.created_at, c.updated_at`

// complaintRow flattens the joined student columns for sqlx scanning.
type complaintRow struct {
	models.Complaint
	models.StudentRef `json:"-"`
}

func (r complaintRow) toModel() models.Complaint {
	c := r.Complaint
	c.Student = r.StudentRef
	return c
}

// ComplaintRepository manages persistence for complaint records.
type ComplaintRepository struct {
	db *sqlx.DB
}

// NewComplaintRepository constructs a ComplaintRepository.
func NewComplaintRepository(db *sqlx.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// List returns complaints matching the filter. A status filter matches every
// raw spelling that normalizes to the requested canonical value, so rows
// stored as "pending" or "in-review" are not lost to the pre-filter.
func (r *ComplaintRepository) List(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, int, error) {
	base := "FROM complaints c"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Status != "" && filter.Status != models.FilterAll {
		variants := models.StatusVariants(models.NormalizeStatus(filter.Status))
		conditions = append(conditions, fmt.Sprintf("regexp_replace(LOWER(c.status), '[-_]', '', 'g') = ANY($%d)", len(args)+1))
		args = append(args, pq.StringArray(variants))
	}
	if filter.Type != "" && filter.Type != models.FilterAll {
		conditions = append(conditions, fmt.Sprintf("c.type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("c.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY c.created_at DESC LIMIT %d OFFSET %d", complaintColumns, base, size, offset)

	var rows []complaintRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list complaints: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count complaints: %w", err)
	}

	complaints := make([]models.Complaint, 0, len(rows))
	for _, row := range rows {
		complaints = append(complaints, row.toModel())
	}
	return complaints, total, nil
}

// ListAll streams every complaint matching the filter without pagination,
// used by the aggregation and export paths.
func (r *ComplaintRepository) ListAll(ctx context.Context, filter models.ComplaintFilter) ([]models.Complaint, error) {
	filter.Page = 1
	filter.PageSize = 200
	var all []models.Complaint
	for {
		batch, total, err := r.List(ctx, filter)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(all) >= total || len(batch) == 0 {
			return all, nil
		}
		filter.Page++
	}
}

// FindByID fetches a complaint by ID.
func (r *ComplaintRepository) FindByID(ctx context.Context, id string) (*models.Complaint, error) {
	query := fmt.Sprintf("SELECT %s FROM complaints c WHERE c.id = $1", complaintColumns)
	var row complaintRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	complaint := row.toModel()
	return &complaint, nil
}

// Create inserts a new complaint record.
func (r *ComplaintRepository) Create(ctx context.Context, complaint *models.Complaint) error {
	if complaint.ID == "" {
		complaint.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if complaint.CreatedAt.IsZero() {
		complaint.CreatedAt = now
	}
	complaint.UpdatedAt = now
	const query = `INSERT INTO complaints (id, title, type, description, status, priority, comment, student_id, student_name, student_room_no, student_block, created_at, updated_at)
        VALUES (:id, :title, :type, :description, :status, :priority, :comment, :student_id, :student_name, :student_room_no, :student_block, :created_at, :updated_at)`
	row := complaintRow{Complaint: *complaint, StudentRef: complaint.Student}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

// UpdateStatus sets a complaint's status and optional admin comment,
// reporting how many rows changed.
func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id, status string, comment *string) (int64, error) {
	const query = `UPDATE complaints SET status = $2, comment = COALESCE($3, comment), updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, comment, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("update complaint status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update complaint status rows: %w", err)
	}
	return affected, nil
}

// AddAttachment persists attachment metadata for a complaint.
func (r *ComplaintRepository) AddAttachment(ctx context.Context, attachment *models.Attachment) error {
	if attachment.ID == "" {
		attachment.ID = uuid.NewString()
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO complaint_attachments (id, complaint_id, file_name, storage_path, content_type, size_bytes, created_at)
        VALUES (:id, :complaint_id, :file_name, :storage_path, :content_type, :size_bytes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, attachment); err != nil {
		return fmt.Errorf("add attachment: %w", err)
	}
	return nil
}

// ListAttachments returns attachment metadata for a complaint.
func (r *ComplaintRepository) ListAttachments(ctx context.Context, complaintID string) ([]models.Attachment, error) {
	const query = `SELECT id, complaint_id, file_name, storage_path, content_type, size_bytes, created_at
        FROM complaint_attachments WHERE complaint_id = $1 ORDER BY created_at ASC`
	var attachments []models.Attachment
	if err := r.db.SelectContext(ctx, &attachments, query, complaintID); err != nil {
		return nil, fmt.Errorf("list attachments: %w", err)
	}
	return attachments, nil
}

// FindAttachment fetches one attachment row.
func (r *ComplaintRepository) FindAttachment(ctx context.Context, id string) (*models.Attachment, error) {
	const query = `SELECT id, complaint_id, file_name, storage_path, content_type, size_bytes, created_at
        FROM complaint_attachments WHERE id = $1`
	var attachment models.Attachment
	if err := r.db.GetContext(ctx, &attachment, query, id); err != nil {
		return nil, err
	}
	return &attachment, nil
}

// CountByStatus groups complaints by raw status for the metrics endpoints.
func (r *ComplaintRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM complaints GROUP BY status`
	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count complaints by status: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// MonthlyCounts buckets complaints created since the cutoff by calendar
// month, keyed "YYYY-MM".
func (r *ComplaintRepository) MonthlyCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	const query = `SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*) AS count
        FROM complaints WHERE created_at >= $1 GROUP BY 1`
	rows := []struct {
		Month string `db:"month"`
		Count int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("monthly complaint counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Month] = row.Count
	}
	return counts, nil
}
