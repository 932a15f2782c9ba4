package models

import "strings"

// CanonicalStatus is the unified status vocabulary shared by complaints and
// apologies. The hostel backend historically emitted many spellings
// ("Pending", "in-review", "IN_PROGRESS"); NormalizeStatus folds them all
// into these seven values.
type CanonicalStatus string

const (
	StatusOpen       CanonicalStatus = "open"
	StatusInProgress CanonicalStatus = "inprogress"
	StatusResolved   CanonicalStatus = "resolved"
	StatusSubmitted  CanonicalStatus = "submitted"
	StatusReviewed   CanonicalStatus = "reviewed"
	StatusAccepted   CanonicalStatus = "accepted"
	StatusRejected   CanonicalStatus = "rejected"
)

// ComplaintStatuses is the subset of canonical statuses a complaint may hold.
var ComplaintStatuses = map[CanonicalStatus]struct{}{
	StatusOpen:       {},
	StatusInProgress: {},
	StatusResolved:   {},
}

// ApologyStatuses is the subset of canonical statuses an apology may hold.
var ApologyStatuses = map[CanonicalStatus]struct{}{
	StatusSubmitted: {},
	StatusReviewed:  {},
	StatusAccepted:  {},
	StatusRejected:  {},
}

var canonicalSet = map[string]CanonicalStatus{
	string(StatusOpen):       StatusOpen,
	string(StatusInProgress): StatusInProgress,
	string(StatusResolved):   StatusResolved,
	string(StatusSubmitted):  StatusSubmitted,
	string(StatusReviewed):   StatusReviewed,
	string(StatusAccepted):   StatusAccepted,
	string(StatusRejected):   StatusRejected,
}

var statusLabels = map[CanonicalStatus]string{
	StatusOpen:       "Open",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
	StatusSubmitted:  "Submitted",
	StatusReviewed:   "Reviewed",
	StatusAccepted:   "Accepted",
	StatusRejected:   "Rejected",
}

// NormalizeStatus maps any raw backend status string onto exactly one
// canonical value. Comparison lowercases the input and strips "-" and "_",
// so "in-review", "in_review" and "InReview" are equivalent. "pending" maps
// to open and "inreview" to inprogress; anything unrecognized (including
// empty input) falls back to open. It is total: it never fails and never
// returns a value outside the seven.
func NormalizeStatus(raw string) CanonicalStatus {
	stripped := stripStatus(raw)
	if stripped == "" {
		return StatusOpen
	}
	switch stripped {
	case "pending":
		return StatusOpen
	case "inreview":
		return StatusInProgress
	}
	if canonical, ok := canonicalSet[stripped]; ok {
		return canonical
	}
	return StatusOpen
}

// StatusLabel returns the human-readable label for a raw status. Canonical
// values map to fixed labels; other non-empty input is returned literally;
// empty input yields "Unknown".
func StatusLabel(raw string) string {
	if raw == "" {
		return "Unknown"
	}
	stripped := stripStatus(raw)
	if canonical, ok := canonicalSet[stripped]; ok {
		return statusLabels[canonical]
	}
	switch stripped {
	case "pending":
		return statusLabels[StatusOpen]
	case "inreview":
		return statusLabels[StatusInProgress]
	}
	return raw
}

// StatusVariants returns the stripped raw spellings that normalize to the
// given canonical value, for pushing a canonical status filter into SQL.
func StatusVariants(status CanonicalStatus) []string {
	switch status {
	case StatusOpen:
		return []string{"open", "pending"}
	case StatusInProgress:
		return []string{"inprogress", "inreview"}
	default:
		return []string{string(status)}
	}
}

func stripStatus(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	replacer := strings.NewReplacer("-", "", "_", "")
	return replacer.Replace(lowered)
}
