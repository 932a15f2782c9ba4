package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

func day(value string) time.Time {
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleComplaints() []models.Complaint {
	return []models.Complaint{
		{ID: "1", Title: "Leaky tap", Type: "plumbing", Status: "pending", Priority: "high",
			Student: models.StudentRef{Name: "Rina", RoomNo: "B-204"}, CreatedAt: day("2025-01-10")},
		{ID: "2", Title: "Flickering light", Type: "electrical", Status: "in-review", Priority: "low",
			Student: models.StudentRef{Name: "Dewi", RoomNo: "A-101"}, CreatedAt: day("2025-01-15")},
		{ID: "3", Title: "Clogged drain", Type: "plumbing", Status: "resolved", Priority: "high",
			Student: models.StudentRef{Name: "Andi", RoomNo: "C-310"}, CreatedAt: day("2025-02-01")},
	}
}

func TestFilterComplaintsStatusNormalized(t *testing.T) {
	// "open" must catch the record stored as "pending".
	got := FilterComplaints(sampleComplaints(), models.FilterConfig{Status: "open"}, "")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = FilterComplaints(sampleComplaints(), models.FilterConfig{Status: "inprogress"}, "")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterComplaintsAllIsUnconstrained(t *testing.T) {
	got := FilterComplaints(sampleComplaints(), models.FilterConfig{Status: "all", Category: "all"}, "")
	assert.Len(t, got, 3)
}

func TestFilterComplaintsAndComposition(t *testing.T) {
	records := sampleComplaints()

	sequential := FilterComplaints(FilterComplaints(records, models.FilterConfig{Status: "resolved"}, ""),
		models.FilterConfig{Category: "plumbing"}, "")
	combined := FilterComplaints(records, models.FilterConfig{Status: "resolved", Category: "plumbing"}, "")

	assert.Equal(t, sequential, combined)
	require.Len(t, combined, 1)
	assert.Equal(t, "3", combined[0].ID)
}

func TestFilterComplaintsDateRange(t *testing.T) {
	cfg := models.FilterConfig{Status: "all", DateFrom: "2025-01-01", DateTo: "2025-01-31"}
	got := FilterComplaints(sampleComplaints(), cfg, "")

	ids := make([]string, 0, len(got))
	for _, c := range got {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"1", "2"}, ids)
}

func TestFilterComplaintsInvertedDateRangeMatchesNothing(t *testing.T) {
	cfg := models.FilterConfig{DateFrom: "2025-03-01", DateTo: "2025-01-01"}
	assert.Empty(t, FilterComplaints(sampleComplaints(), cfg, ""))
}

func TestFilterComplaintsUnparseableDateExcludesAll(t *testing.T) {
	cfg := models.FilterConfig{DateFrom: "not-a-date"}
	assert.Empty(t, FilterComplaints(sampleComplaints(), cfg, ""))
}

func TestFilterComplaintsSearchFields(t *testing.T) {
	// Title, description, student name and room number are searched; the
	// category tag is not.
	got := FilterComplaints(sampleComplaints(), models.FilterConfig{}, "plumb")
	assert.Empty(t, got)

	got = FilterComplaints(sampleComplaints(), models.FilterConfig{}, "leaky")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = FilterComplaints(sampleComplaints(), models.FilterConfig{}, "b-204")
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	got = FilterComplaints(sampleComplaints(), models.FilterConfig{}, "DEWI")
	require.Len(t, got, 1)
	assert.Equal(t, "2", got[0].ID)
}

func TestFilterApologiesRawStatusCompare(t *testing.T) {
	apologies := []models.Apology{
		{ID: "a1", Type: "curfew", Message: "Sorry", Status: "submitted", CreatedAt: day("2025-01-05")},
		{ID: "a2", Type: "noise", Message: "Apologies", Status: "Submitted", CreatedAt: day("2025-01-06")},
	}

	// Verbatim comparison: the oddly-cased row does not match.
	got := FilterApologies(apologies, models.FilterConfig{Status: "submitted"}, "")
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}

func TestFilterApologiesSearchesMessage(t *testing.T) {
	apologies := []models.Apology{
		{ID: "a1", Type: "curfew", Message: "Sorry for being late", Status: "submitted", CreatedAt: day("2025-01-05")},
		{ID: "a2", Type: "noise", Message: "Apologies for the noise", Status: "reviewed", CreatedAt: day("2025-01-06")},
	}

	got := FilterApologies(apologies, models.FilterConfig{}, "late")
	require.Len(t, got, 1)
	assert.Equal(t, "a1", got[0].ID)
}
