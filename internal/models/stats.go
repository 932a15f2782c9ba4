package models

// AggregateStats are dashboard card counts derived from a filtered record
// set. ResolutionRate is pre-formatted ("33%", or the em-dash sentinel
// "—%" when the set is empty).
type AggregateStats struct {
	Total          int    `json:"total"`
	Resolved       int    `json:"resolved"`
	Pending        int    `json:"pending"`
	InReview       int    `json:"inReview"`
	ResolutionRate string `json:"resolutionRate"`
}

// TrendPoint is one month bucket in the dashboard trend series.
type TrendPoint struct {
	MonthLabel string `json:"monthLabel"`
	Year       int    `json:"year"`
	Count      int    `json:"count"`
}

// StatusSummary is the server pre-aggregated per-status breakdown backing
// the metrics endpoints.
type StatusSummary struct {
	Status CanonicalStatus `db:"status" json:"status"`
	Count  int             `db:"count" json:"count"`
}
