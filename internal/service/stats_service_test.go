package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateScenario(t *testing.T) {
	records := []StatRecord{
		{Status: "pending"},
		{Status: "in-review"},
		{Status: "resolved"},
	}

	stats := Aggregate(records)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.InReview)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, "33%", stats.ResolutionRate)
}

func TestAggregateUnifiesVocabularies(t *testing.T) {
	records := []StatRecord{
		{Status: "accepted"},  // apology, counts as resolved
		{Status: "reviewed"},  // apology, counts as in-review
		{Status: "submitted"}, // apology, counts as pending
		{Status: "rejected"},  // apology, only counted in total
		{Status: "open"},
	}

	stats := Aggregate(records)

	assert.Equal(t, 5, stats.Total)
	assert.Equal(t, 1, stats.Resolved)
	assert.Equal(t, 1, stats.InReview)
	assert.Equal(t, 2, stats.Pending)
	assert.LessOrEqual(t, stats.Resolved+stats.InReview+stats.Pending, stats.Total)
}

func TestAggregateEmptyInput(t *testing.T) {
	stats := Aggregate(nil)

	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, EmptyRateSentinel, stats.ResolutionRate)
}

func TestAggregateTotalAlwaysMatchesInput(t *testing.T) {
	records := []StatRecord{{Status: "bogus"}, {Status: ""}, {Status: "rejected"}}
	assert.Equal(t, len(records), Aggregate(records).Total)
}

func TestMonthlyTrendDenseSeries(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	records := []StatRecord{
		{Status: "open", CreatedAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		{Status: "open", CreatedAt: time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)},
		{Status: "resolved", CreatedAt: time.Date(2025, time.April, 3, 0, 0, 0, 0, time.UTC)},
		// June of the previous year must not leak into this June's bucket.
		{Status: "open", CreatedAt: time.Date(2024, time.June, 10, 0, 0, 0, 0, time.UTC)},
	}

	points := MonthlyTrend(records, 6, now)

	require.Len(t, points, 6)
	assert.Equal(t, "Jan", points[0].MonthLabel)
	assert.Equal(t, "Jun", points[5].MonthLabel)
	assert.Equal(t, 2, points[5].Count)
	assert.Equal(t, 1, points[3].Count) // April
	assert.Equal(t, 0, points[1].Count) // February, dense zero
}

type stubStatsRepo struct {
	counts  map[string]int
	monthly map[string]int
}

func (s stubStatsRepo) CountByStatus(context.Context) (map[string]int, error) {
	return s.counts, nil
}

func (s stubStatsRepo) MonthlyCounts(context.Context, time.Time) (map[string]int, error) {
	return s.monthly, nil
}

func TestStatsServiceStatusSummaryNormalizesComplaints(t *testing.T) {
	complaints := stubStatsRepo{counts: map[string]int{"pending": 2, "in-review": 1, "resolved": 4}}
	apologies := stubStatsRepo{counts: map[string]int{"submitted": 3, "accepted": 1}}
	svc := NewStatsService(complaints, apologies, nil, nil, StatsServiceConfig{})

	summary, cached, err := svc.StatusSummary(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, map[string]int{"open": 2, "inprogress": 1, "resolved": 4}, summary.Complaints)
	assert.Equal(t, map[string]int{"submitted": 3, "accepted": 1}, summary.Apologies)
}

func TestStatsServiceResolutionRate(t *testing.T) {
	complaints := stubStatsRepo{counts: map[string]int{"resolved": 1, "pending": 1}}
	apologies := stubStatsRepo{counts: map[string]int{"accepted": 1, "rejected": 1}}
	svc := NewStatsService(complaints, apologies, nil, nil, StatsServiceConfig{})

	resp, _, err := svc.ResolutionRate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Resolved)
	assert.Equal(t, 4, resp.Total)
	assert.Equal(t, "50%", resp.Rate)
}

func TestStatsServicePendingCount(t *testing.T) {
	complaints := stubStatsRepo{counts: map[string]int{"pending": 2, "open": 1, "resolved": 9}}
	apologies := stubStatsRepo{counts: map[string]int{"submitted": 4, "accepted": 2}}
	svc := NewStatsService(complaints, apologies, nil, nil, StatsServiceConfig{})

	resp, _, err := svc.PendingCount(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, resp.Pending)
}

func TestStatsServiceTrendMergesSources(t *testing.T) {
	complaints := stubStatsRepo{monthly: map[string]int{"2025-06": 2, "2025-05": 1}}
	apologies := stubStatsRepo{monthly: map[string]int{"2025-06": 1}}
	svc := NewStatsService(complaints, apologies, nil, nil, StatsServiceConfig{TrendMonths: 6})
	svc.now = func() time.Time { return time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC) }

	resp, _, err := svc.Trend(context.Background())
	require.NoError(t, err)
	require.Len(t, resp.Months, 6)
	assert.Equal(t, 3, resp.Months[5].Count)
	assert.Equal(t, 1, resp.Months[4].Count)
	assert.Equal(t, 0, resp.Months[0].Count)
	assert.Equal(t, "Jan", resp.Months[0].MonthLabel)
	assert.Equal(t, 2025, resp.Months[0].Year)
}
