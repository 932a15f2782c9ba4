package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/hostelops/hostel-desk-api/internal/dto"
	"github.com/hostelops/hostel-desk-api/internal/models"
	appErrors "github.com/hostelops/hostel-desk-api/pkg/errors"
)

// EmptyRateSentinel is rendered instead of a percentage when there are no
// records to divide by.
const EmptyRateSentinel = "—%"

// StatRecord is the minimal view of a record the aggregator needs.
type StatRecord struct {
	Status    string
	CreatedAt time.Time
}

// ComplaintStatRecords projects complaints for aggregation.
func ComplaintStatRecords(records []models.Complaint) []StatRecord {
	out := make([]StatRecord, len(records))
	for i, r := range records {
		out[i] = StatRecord{Status: r.Status, CreatedAt: r.CreatedAt}
	}
	return out
}

// ApologyStatRecords projects apologies for aggregation.
func ApologyStatRecords(records []models.Apology) []StatRecord {
	out := make([]StatRecord, len(records))
	for i, r := range records {
		out[i] = StatRecord{Status: r.Status, CreatedAt: r.CreatedAt}
	}
	return out
}

// Aggregate computes summary counts over an already-filtered collection.
// The buckets unify the two status vocabularies: a record counts as
// resolved when it normalizes to "resolved" or is literally "accepted", as
// in-review when it normalizes to "inprogress" or is literally "reviewed",
// and as pending when it normalizes to "open" or is literally "submitted".
// Rejected records count only toward the total, so the three buckets may
// sum below it.
func Aggregate(records []StatRecord) models.AggregateStats {
	stats := models.AggregateStats{Total: len(records)}
	for _, record := range records {
		canonical := models.NormalizeStatus(record.Status)
		switch {
		case canonical == models.StatusResolved || record.Status == "accepted":
			stats.Resolved++
		case canonical == models.StatusInProgress || record.Status == "reviewed":
			stats.InReview++
		case canonical == models.StatusOpen || record.Status == "submitted":
			stats.Pending++
		}
	}
	stats.ResolutionRate = FormatResolutionRate(stats.Resolved, stats.Total)
	return stats
}

// FormatResolutionRate renders resolved/total as a rounded percentage, or
// the em-dash sentinel when total is zero.
func FormatResolutionRate(resolved, total int) string {
	if total == 0 {
		return EmptyRateSentinel
	}
	rate := math.Round(float64(resolved) / float64(total) * 100)
	return fmt.Sprintf("%d%%", int(rate))
}

// MonthlyTrend buckets records into the trailing `months` calendar months
// ending at `now`, matching month and year. The series is dense: months
// with no records appear with a zero count.
func MonthlyTrend(records []StatRecord, months int, now time.Time) []models.TrendPoint {
	if months <= 0 {
		months = 6
	}
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	points := make([]models.TrendPoint, 0, months)
	for i := months - 1; i >= 0; i-- {
		bucket := firstOfMonth.AddDate(0, -i, 0)
		count := 0
		for _, record := range records {
			if record.CreatedAt.Month() == bucket.Month() && record.CreatedAt.Year() == bucket.Year() {
				count++
			}
		}
		points = append(points, models.TrendPoint{
			MonthLabel: bucket.Format("Jan"),
			Year:       bucket.Year(),
			Count:      count,
		})
	}
	return points
}

type complaintStatsRepository interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	MonthlyCounts(ctx context.Context, since time.Time) (map[string]int, error)
}

type apologyStatsRepository interface {
	CountByStatus(ctx context.Context) (map[string]int, error)
	MonthlyCounts(ctx context.Context, since time.Time) (map[string]int, error)
}

// StatsServiceConfig tunes the metric endpoints.
type StatsServiceConfig struct {
	CacheTTL    time.Duration
	TrendMonths int
}

// StatsService serves the server pre-aggregated metric endpoints backing
// the dashboard cards, with Redis caching in front of the SQL aggregates.
type StatsService struct {
	complaints complaintStatsRepository
	apologies  apologyStatsRepository
	cache      *CacheService
	logger     *zap.Logger
	now        func() time.Time
	cfg        StatsServiceConfig
}

// NewStatsService constructs a StatsService with sane defaults.
func NewStatsService(complaints complaintStatsRepository, apologies apologyStatsRepository, cache *CacheService, logger *zap.Logger, cfg StatsServiceConfig) *StatsService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.TrendMonths <= 0 {
		cfg.TrendMonths = 6
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{
		complaints: complaints,
		apologies:  apologies,
		cache:      cache,
		logger:     logger,
		now:        time.Now,
		cfg:        cfg,
	}
}

const (
	cacheKeyStatusSummary  = "metrics:status-summary"
	cacheKeyResolutionRate = "metrics:resolution-rate"
	cacheKeyPendingCount   = "metrics:pending-count"
	cacheKeyMonthlyTrend   = "metrics:monthly-trend"
	cacheKeyMetricsPattern = "metrics:*"
)

// StatusSummary returns per-status counts for both record kinds. Complaint
// counts fold raw spellings into canonical statuses; apology counts keep
// the stored vocabulary.
func (s *StatsService) StatusSummary(ctx context.Context) (*dto.StatusSummaryResponse, bool, error) {
	var cached dto.StatusSummaryResponse
	if hit, _ := s.cache.Get(ctx, cacheKeyStatusSummary, &cached); hit {
		return &cached, true, nil
	}

	complaintCounts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count complaints")
	}
	apologyCounts, err := s.apologies.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count apologies")
	}

	summary := &dto.StatusSummaryResponse{
		Complaints: map[string]int{},
		Apologies:  map[string]int{},
	}
	for raw, count := range complaintCounts {
		summary.Complaints[string(models.NormalizeStatus(raw))] += count
	}
	for raw, count := range apologyCounts {
		summary.Apologies[raw] += count
	}

	if err := s.cache.Set(ctx, cacheKeyStatusSummary, summary, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache status summary", zap.Error(err))
	}
	return summary, false, nil
}

// ResolutionRate computes the unified resolution percentage across both
// record kinds.
func (s *StatsService) ResolutionRate(ctx context.Context) (*dto.ResolutionRateResponse, bool, error) {
	var cached dto.ResolutionRateResponse
	if hit, _ := s.cache.Get(ctx, cacheKeyResolutionRate, &cached); hit {
		return &cached, true, nil
	}

	complaintCounts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count complaints")
	}
	apologyCounts, err := s.apologies.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count apologies")
	}

	resolved, total := 0, 0
	for raw, count := range complaintCounts {
		total += count
		if models.NormalizeStatus(raw) == models.StatusResolved {
			resolved += count
		}
	}
	for raw, count := range apologyCounts {
		total += count
		if raw == "accepted" {
			resolved += count
		}
	}

	resp := &dto.ResolutionRateResponse{
		Resolved: resolved,
		Total:    total,
		Rate:     FormatResolutionRate(resolved, total),
	}
	if err := s.cache.Set(ctx, cacheKeyResolutionRate, resp, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache resolution rate", zap.Error(err))
	}
	return resp, false, nil
}

// PendingCount returns the number of records awaiting action.
func (s *StatsService) PendingCount(ctx context.Context) (*dto.PendingCountResponse, bool, error) {
	var cached dto.PendingCountResponse
	if hit, _ := s.cache.Get(ctx, cacheKeyPendingCount, &cached); hit {
		return &cached, true, nil
	}

	complaintCounts, err := s.complaints.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count complaints")
	}
	apologyCounts, err := s.apologies.CountByStatus(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count apologies")
	}

	pending := 0
	for raw, count := range complaintCounts {
		if models.NormalizeStatus(raw) == models.StatusOpen {
			pending += count
		}
	}
	for raw, count := range apologyCounts {
		if raw == "submitted" {
			pending += count
		}
	}

	resp := &dto.PendingCountResponse{Pending: pending}
	if err := s.cache.Set(ctx, cacheKeyPendingCount, resp, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache pending count", zap.Error(err))
	}
	return resp, false, nil
}

// Trend returns the dense trailing-months creation series across both
// record kinds.
func (s *StatsService) Trend(ctx context.Context) (*dto.MonthlyTrendResponse, bool, error) {
	var cached dto.MonthlyTrendResponse
	if hit, _ := s.cache.Get(ctx, cacheKeyMonthlyTrend, &cached); hit {
		return &cached, true, nil
	}

	now := s.now()
	since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(s.cfg.TrendMonths - 1), 0)

	complaintCounts, err := s.complaints.MonthlyCounts(ctx, since)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bucket complaints")
	}
	apologyCounts, err := s.apologies.MonthlyCounts(ctx, since)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to bucket apologies")
	}

	points := make([]models.TrendPoint, 0, s.cfg.TrendMonths)
	for i := s.cfg.TrendMonths - 1; i >= 0; i-- {
		bucket := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -i, 0)
		key := bucket.Format("2006-01")
		points = append(points, models.TrendPoint{
			MonthLabel: bucket.Format("Jan"),
			Year:       bucket.Year(),
			Count:      complaintCounts[key] + apologyCounts[key],
		})
	}

	resp := &dto.MonthlyTrendResponse{Months: points}
	if err := s.cache.Set(ctx, cacheKeyMonthlyTrend, resp, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("failed to cache monthly trend", zap.Error(err))
	}
	return resp, false, nil
}

// InvalidateMetrics drops every cached metric payload after a mutation.
func (s *StatsService) InvalidateMetrics(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, cacheKeyMetricsPattern); err != nil {
		s.logger.Warn("failed to invalidate metric caches", zap.Error(err))
	}
}
