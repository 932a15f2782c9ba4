package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

const apologyColumns = `a.id, a.type, a.message, a.description, a.status, a.comment,
        a.student_id, a.student_name, a.student_room_no, a.student_block, a.created_at, a.updated_at`

type apologyRow struct {
	models.Apology
	models.StudentRef `json:"-"`
}

func (r apologyRow) toModel() models.Apology {
	a := r.Apology
	a.Student = r.StudentRef
	return a
}

// ApologyRepository manages persistence for apology letters.
type ApologyRepository struct {
	db *sqlx.DB
}

// NewApologyRepository constructs an ApologyRepository.
func NewApologyRepository(db *sqlx.DB) *ApologyRepository {
	return &ApologyRepository{db: db}
}

// List returns apologies matching the filter. Unlike complaints, the status
// filter compares the stored value verbatim: the apology vocabulary never
// had alternate spellings in the legacy data.
func (r *ApologyRepository) List(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, int, error) {
	base := "FROM apologies a"
	conditions := []string{"1=1"}
	var args []interface{}

	if filter.Status != "" && filter.Status != models.FilterAll {
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.Type != "" && filter.Type != models.FilterAll {
		conditions = append(conditions, fmt.Sprintf("a.type = $%d", len(args)+1))
		args = append(args, filter.Type)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)+1))
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY a.created_at DESC LIMIT %d OFFSET %d", apologyColumns, base, size, offset)

	var rows []apologyRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list apologies: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count apologies: %w", err)
	}

	apologies := make([]models.Apology, 0, len(rows))
	for _, row := range rows {
		apologies = append(apologies, row.toModel())
	}
	return apologies, total, nil
}

// ListAll fetches every apology matching the filter without pagination.
func (r *ApologyRepository) ListAll(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, error) {
	filter.Page = 1
	filter.PageSize = 200
	var all []models.Apology
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

// FindByID fetches an apology by ID.
func (r *ApologyRepository) FindByID(ctx context.Context, id string) (*models.Apology, error) {
	query := fmt.Sprintf("SELECT %s FROM apologies a WHERE a.id = $1", apologyColumns)
	var row apologyRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	apology := row.toModel()
	return &apology, nil
}

// Create inserts a new apology record.
func (r *ApologyRepository) Create(ctx context.Context, apology *models.Apology) error {
	if apology.ID == "" {
		apology.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if apology.CreatedAt.IsZero() {
		apology.CreatedAt = now
	}
	apology.UpdatedAt = now
	const query = `INSERT INTO apologies (id, type, message, description, status, comment, student_id, student_name, student_room_no, student_block, created_at, updated_at)
        VALUES (:id, :type, :message, :description, :status, :comment, :student_id, :student_name, :student_room_no, :student_block, :created_at, :updated_at)`
	row := apologyRow{Apology: *apology, StudentRef: apology.Student}
	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return fmt.Errorf("create apology: %w", err)
	}
	return nil
}

// UpdateReview records the warden's review decision and optional comment.
func (r *ApologyRepository) UpdateReview(ctx context.Context, id, status string, comment *string) (int64, error) {
	const query = `UPDATE apologies SET status = $2, comment = COALESCE($3, comment), updated_at = $4 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status, comment, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("update apology review: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update apology review rows: %w", err)
	}
	return affected, nil
}

// CountByStatus groups apologies by raw status for the metrics endpoints.
func (r *ApologyRepository) CountByStatus(ctx context.Context) (map[string]int, error) {
	const query = `SELECT status, COUNT(*) AS count FROM apologies GROUP BY status`
	rows := []struct {
		Status string `db:"status"`
		Count  int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count apologies by status: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// MonthlyCounts buckets apologies created since the cutoff by calendar
// month, keyed "YYYY-MM".
func (r *ApologyRepository) MonthlyCounts(ctx context.Context, since time.Time) (map[string]int, error) {
	const query = `SELECT to_char(date_trunc('month', created_at), 'YYYY-MM') AS month, COUNT(*) AS count
        FROM apologies WHERE created_at >= $1 GROUP BY 1`
	rows := []struct {
		Month string `db:"month"`
		Count int    `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, since); err != nil {
		return nil, fmt.Errorf("monthly apology counts: %w", err)
	}
	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Month] = row.Count
	}
	return counts, nil
}
