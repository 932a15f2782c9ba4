package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

func TestPresetRepositorySaveUpserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPresetRepository(db)

	mock.ExpectExec("INSERT INTO filter_presets .+ ON CONFLICT").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(),
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	preset := &models.FilterPreset{
		OwnerID: "u1",
		ViewKey: "admin:complaints",
		Name:    "high priority open",
		Filters: models.FilterConfig{Status: "open", Priority: "high"},
	}
	err := repo.Save(context.Background(), preset)
	require.NoError(t, err)
	assert.NotEmpty(t, preset.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPresetRepositoryListScopedByView(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPresetRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT id, owner_id, view_key, name, filters, created_at, updated_at").
		WithArgs("u1", "admin:apologies").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "view_key", "name", "filters", "created_at", "updated_at"}).
			AddRow("p1", "u1", "admin:apologies", "pending only", []byte(`{"status":"submitted"}`), now, now))

	presets, err := repo.List(context.Background(), "u1", "admin:apologies")
	require.NoError(t, err)
	require.Len(t, presets, 1)
	assert.Equal(t, "submitted", presets[0].Filters.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPresetRepositoryDeleteChecksOwner(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewPresetRepository(db)

	mock.ExpectExec("DELETE FROM filter_presets").
		WithArgs("p1", "u2").
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := repo.Delete(context.Background(), "p1", "u2")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
