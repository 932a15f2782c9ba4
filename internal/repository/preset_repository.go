package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

// PresetRepository persists named filter configurations per owner and view.
type PresetRepository struct {
	db *sqlx.DB
}

// NewPresetRepository constructs a PresetRepository.
func NewPresetRepository(db *sqlx.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// Save upserts a preset. Saving the same (owner, view, name) again
// overwrites the stored filters: last write wins.
func (r *PresetRepository) Save(ctx context.Context, preset *models.FilterPreset) error {
	if preset.ID == "" {
		preset.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if preset.CreatedAt.IsZero() {
		preset.CreatedAt = now
	}
	preset.UpdatedAt = now
	const query = `INSERT INTO filter_presets (id, owner_id, view_key, name, filters, created_at, updated_at)
        VALUES (:id, :owner_id, :view_key, :name, :filters, :created_at, :updated_at)
        ON CONFLICT (owner_id, view_key, name)
        DO UPDATE SET filters = EXCLUDED.filters, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, preset); err != nil {
		return fmt.Errorf("save filter preset: %w", err)
	}
	return nil
}

// List returns all presets an owner saved for one view, newest first.
func (r *PresetRepository) List(ctx context.Context, ownerID, viewKey string) ([]models.FilterPreset, error) {
	const query = `SELECT id, owner_id, view_key, name, filters, created_at, updated_at
        FROM filter_presets WHERE owner_id = $1 AND view_key = $2 ORDER BY updated_at DESC`
	var presets []models.FilterPreset
	if err := r.db.SelectContext(ctx, &presets, query, ownerID, viewKey); err != nil {
		return nil, fmt.Errorf("list filter presets: %w", err)
	}
	return presets, nil
}

// FindByID fetches one preset.
func (r *PresetRepository) FindByID(ctx context.Context, id string) (*models.FilterPreset, error) {
	const query = `SELECT id, owner_id, view_key, name, filters, created_at, updated_at
        FROM filter_presets WHERE id = $1`
	var preset models.FilterPreset
	if err := r.db.GetContext(ctx, &preset, query, id); err != nil {
		return nil, err
	}
	return &preset, nil
}

// Delete removes a preset owned by the given user, reporting whether a row
// was removed.
func (r *PresetRepository) Delete(ctx context.Context, id, ownerID string) (int64, error) {
	const query = `DELETE FROM filter_presets WHERE id = $1 AND owner_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete filter preset: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete filter preset rows: %w", err)
	}
	return affected, nil
}
