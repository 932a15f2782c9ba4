package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func complaintRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "type", "description", "status", "priority", "comment",
		"student_id", "student_name", "student_room_no", "student_block", "created_at", "updated_at",
	})
}

func TestComplaintRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT c.id, c.title, .+ FROM complaints c WHERE 1=1 ORDER BY c.created_at DESC LIMIT 50 OFFSET 0").
		WillReturnRows(complaintRows().
			AddRow("c1", "Leaky tap", "plumbing", "Tap drips all night", "pending", "high", nil,
				"s1", "Rina", "B-204", "B", now, now))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM complaints c WHERE 1=1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	complaints, total, err := repo.List(context.Background(), models.ComplaintFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, complaints, 1)
	assert.Equal(t, "Leaky tap", complaints[0].Title)
	assert.Equal(t, "Rina", complaints[0].Student.Name)
	assert.Equal(t, "B-204", complaints[0].Student.RoomNo)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryListStatusFilterCoversVariants(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	// Filtering by "open" must also match rows stored as "pending".
	mock.ExpectQuery(`regexp_replace\(LOWER\(c.status\), '\[-_\]', '', 'g'\) = ANY\(\$1\)`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(complaintRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM complaints c`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.ComplaintFilter{Status: "open"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec("INSERT INTO complaints").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	complaint := &models.Complaint{
		Title:       "Broken fan",
		Type:        "electrical",
		Description: "Ceiling fan stopped working",
		Status:      "open",
		Priority:    "medium",
		Student:     models.StudentRef{ID: "s2", Name: "Dewi", RoomNo: "A-101", Block: "A"},
	}
	err := repo.Create(context.Background(), complaint)
	require.NoError(t, err)
	assert.NotEmpty(t, complaint.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryUpdateStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectExec("UPDATE complaints SET status").
		WithArgs("c1", "resolved", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	affected, err := repo.UpdateStatus(context.Background(), "c1", "resolved", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComplaintRepositoryCountByStatus(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewComplaintRepository(db)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("pending", 2).
			AddRow("resolved", 5))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"pending": 2, "resolved": 5}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}
