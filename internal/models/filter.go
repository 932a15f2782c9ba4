package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// FilterAll is the sentinel meaning "no constraint on this dimension".
const FilterAll = "all"

// FilterConfig captures the advanced filter a user composes on a list view.
// Every field is optional; empty or "all" leaves that dimension
// unconstrained. DateFrom/DateTo carry ISO dates and are not validated
// against each other: an inverted range simply matches nothing.
type FilterConfig struct {
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
	DateFrom string `json:"dateFrom,omitempty"`
	DateTo   string `json:"dateTo,omitempty"`
}

// IsZero reports whether no dimension is constrained.
func (f FilterConfig) IsZero() bool {
	return !constrains(f.Status) && !constrains(f.Category) &&
		!constrains(f.Priority) && f.DateFrom == "" && f.DateTo == ""
}

func constrains(v string) bool {
	return v != "" && v != FilterAll
}

// Value marshals the filter to JSON for JSONB persistence.
func (f FilterConfig) Value() (driver.Value, error) {
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal filter config: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSONB payloads into the filter struct.
func (f *FilterConfig) Scan(value interface{}) error {
	if value == nil {
		*f = FilterConfig{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for FilterConfig", value)
	}
	if len(data) == 0 {
		*f = FilterConfig{}
		return nil
	}
	if err := json.Unmarshal(data, f); err != nil {
		return fmt.Errorf("unmarshal filter config: %w", err)
	}
	return nil
}
