package service

import (
	"strings"
	"time"

	"github.com/hostelops/hostel-desk-api/internal/models"
)

// Predicate composition for list views. Each dimension of a FilterConfig
// contributes one independent check and a record must pass all of them.
// Empty or "all" values leave a dimension unconstrained.
//
// Complaints and apologies differ in two documented ways: complaint status
// is compared after normalization while apology status is compared against
// the stored value verbatim, and the free-text chain starts at title for
// complaints but message for apologies.

type datePredicate func(time.Time) bool

// ComplaintPredicate builds the record predicate for complaint list views.
func ComplaintPredicate(cfg models.FilterConfig, searchQuery string) func(models.Complaint) bool {
	dateOK := dateRangePredicate(cfg.DateFrom, cfg.DateTo)
	wantStatus := ""
	if constrained(cfg.Status) {
		wantStatus = string(models.NormalizeStatus(cfg.Status))
	}
	query := strings.ToLower(strings.TrimSpace(searchQuery))

	return func(c models.Complaint) bool {
		if wantStatus != "" && string(models.NormalizeStatus(c.Status)) != wantStatus {
			return false
		}
		if constrained(cfg.Category) && c.Type != cfg.Category {
			return false
		}
		if constrained(cfg.Priority) && c.Priority != cfg.Priority {
			return false
		}
		if !dateOK(c.CreatedAt) {
			return false
		}
		if query != "" {
			return matchesQuery(query, c.Title, c.Description, c.Student.Name, c.Student.RoomNo)
		}
		return true
	}
}

// ApologyPredicate builds the record predicate for apology list views. The
// status comparison is raw on purpose: the apology vocabulary is stored
// canonically and the legacy behaviour compared it without normalization.
func ApologyPredicate(cfg models.FilterConfig, searchQuery string) func(models.Apology) bool {
	dateOK := dateRangePredicate(cfg.DateFrom, cfg.DateTo)
	query := strings.ToLower(strings.TrimSpace(searchQuery))

	return func(a models.Apology) bool {
		if constrained(cfg.Status) && a.Status != cfg.Status {
			return false
		}
		if constrained(cfg.Category) && a.Type != cfg.Category {
			return false
		}
		if !dateOK(a.CreatedAt) {
			return false
		}
		if query != "" {
			return matchesQuery(query, a.Message, a.Description, a.Student.Name, a.Student.RoomNo)
		}
		return true
	}
}

// FilterComplaints reduces a collection to the records passing the predicate.
func FilterComplaints(records []models.Complaint, cfg models.FilterConfig, searchQuery string) []models.Complaint {
	keep := ComplaintPredicate(cfg, searchQuery)
	out := make([]models.Complaint, 0, len(records))
	for _, record := range records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

// FilterApologies reduces a collection to the records passing the predicate.
func FilterApologies(records []models.Apology, cfg models.FilterConfig, searchQuery string) []models.Apology {
	keep := ApologyPredicate(cfg, searchQuery)
	out := make([]models.Apology, 0, len(records))
	for _, record := range records {
		if keep(record) {
			out = append(out, record)
		}
	}
	return out
}

func constrained(v string) bool {
	return v != "" && v != models.FilterAll
}

// dateRangePredicate builds the creation-date check. An unparseable bound
// excludes every record (silent default-deny, mirroring the legacy
// comparison against an invalid date) rather than raising an error.
func dateRangePredicate(fromRaw, toRaw string) datePredicate {
	if fromRaw == "" && toRaw == "" {
		return func(time.Time) bool { return true }
	}

	var from, to time.Time
	var fromBad, toBad bool
	if fromRaw != "" {
		parsed, err := parseFilterDate(fromRaw)
		if err != nil {
			fromBad = true
		}
		from = parsed
	}
	if toRaw != "" {
		parsed, err := parseFilterDate(toRaw)
		if err != nil {
			toBad = true
		}
		to = parsed
	}

	return func(createdAt time.Time) bool {
		if fromBad || toBad {
			return false
		}
		if fromRaw != "" && createdAt.Before(from) {
			return false
		}
		if toRaw != "" && createdAt.After(to) {
			return false
		}
		return true
	}
}

func parseFilterDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

func matchesQuery(loweredQuery string, fields ...string) bool {
	for _, field := range fields {
		if field == "" {
			continue
		}
		if strings.Contains(strings.ToLower(field), loweredQuery) {
			return true
		}
	}
	return false
}
