package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
)

type apologyRepoStub struct {
	apologies  map[string]*models.Apology
	lastStatus string
}

func newApologyRepoStub() *apologyRepoStub {
	return &apologyRepoStub{apologies: map[string]*models.Apology{}}
}

func (r *apologyRepoStub) List(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, int, error) {
	var out []models.Apology
	for _, a := range r.apologies {
		out = append(out, *a)
	}
	return out, len(out), nil
}

func (r *apologyRepoStub) ListAll(ctx context.Context, filter models.ApologyFilter) ([]models.Apology, error) {
	items, _, err := r.List(ctx, filter)
	return items, err
}

func (r *apologyRepoStub) FindByID(ctx context.Context, id string) (*models.Apology, error) {
	a, ok := r.apologies[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *a
	return &clone, nil
}

func (r *apologyRepoStub) Create(ctx context.Context, apology *models.Apology) error {
	if apology.ID == "" {
		apology.ID = uuid.NewString()
	}
	if apology.CreatedAt.IsZero() {
		apology.CreatedAt = time.Now().UTC()
	}
	stored := *apology
	r.apologies[apology.ID] = &stored
	return nil
}

func (r *apologyRepoStub) UpdateReview(ctx context.Context, id, status string, comment *string) (int64, error) {
	a, ok := r.apologies[id]
	if !ok {
		return 0, nil
	}
	a.Status = status
	if comment != nil {
		a.Comment = comment
	}
	r.lastStatus = status
	return 1, nil
}

func newApologyServiceForTest(t *testing.T) (*ApologyService, *apologyRepoStub, *invalidatorStub) {
	t.Helper()
	repo := newApologyRepoStub()
	stats := &invalidatorStub{}
	return NewApologyService(repo, stats, nil, zap.NewNop()), repo, stats
}

func TestApologyServiceCreateStartsSubmitted(t *testing.T) {
	svc, repo, stats := newApologyServiceForTest(t)

	created, err := svc.Create(context.Background(), models.StudentRef{Name: "Asha Rao"}, dto.CreateApologyRequest{
		Type:    "curfew",
		Message: "I am sorry for returning late",
	})
	require.NoError(t, err)
	assert.Equal(t, "submitted", created.Status)
	assert.Contains(t, repo.apologies, created.ID)
	assert.Equal(t, 1, stats.calls)
}

func TestApologyServiceCreateValidation(t *testing.T) {
	svc, _, _ := newApologyServiceForTest(t)
	_, err := svc.Create(context.Background(), models.StudentRef{}, dto.CreateApologyRequest{
		Type:    "curfew",
		Message: "short",
	})
	require.Error(t, err)
}

func TestApologyServiceReviewKeepsRawVocabulary(t *testing.T) {
	svc, repo, stats := newApologyServiceForTest(t)
	repo.apologies["a-1"] = &models.Apology{ID: "a-1", Status: "submitted"}

	comment := "letter accepted"
	updated, err := svc.Review(context.Background(), "a-1", dto.ReviewApologyRequest{
		Status:  "accepted",
		Comment: &comment,
	})
	require.NoError(t, err)
	assert.Equal(t, "accepted", repo.lastStatus)
	assert.Equal(t, "accepted", updated.Status)
	require.NotNil(t, updated.Comment)
	assert.Equal(t, comment, *updated.Comment)
	assert.Equal(t, 1, stats.calls)
}

func TestApologyServiceReviewRejectsComplaintVocabulary(t *testing.T) {
	svc, repo, _ := newApologyServiceForTest(t)
	repo.apologies["a-1"] = &models.Apology{ID: "a-1", Status: "submitted"}

	_, err := svc.Review(context.Background(), "a-1", dto.ReviewApologyRequest{
		Status: "resolved",
	})
	require.Error(t, err)
}

func TestApologyServiceReviewNotFound(t *testing.T) {
	svc, _, _ := newApologyServiceForTest(t)
	_, err := svc.Review(context.Background(), "missing", dto.ReviewApologyRequest{
		Status: "reviewed",
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestApologyServiceListFiltersVerbatim(t *testing.T) {
	svc, repo, _ := newApologyServiceForTest(t)
	repo.apologies["a-1"] = &models.Apology{ID: "a-1", Status: "submitted", Message: "sorry"}
	// Apology status filters compare verbatim, so a case mismatch excludes.
	repo.apologies["a-2"] = &models.Apology{ID: "a-2", Status: "Submitted", Message: "sorry"}

	result, _, err := svc.List(context.Background(), models.ApologyFilter{}, models.FilterConfig{Status: "submitted"}, "")
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "a-1", result.Items[0].ID)
}
