// Package export renders flat row projections into downloadable CSV, JSON
// and PDF documents. The renderers are projection-agnostic: callers map
// domain records to flat string rows before handing them over.
package export

// Dataset defines tabular export content.
type Dataset struct {
	Headers []string
	Rows    []map[string]string
}

// BuildDataset assembles a Dataset from ordered rows. The header set is the
// union of all keys across the rows, in order of first appearance; rows
// missing a key render as an empty cell under that header. Rows are ordered
// maps here (parallel key/value slices) so appearance order survives.
func BuildDataset(rows []Row) Dataset {
	seen := make(map[string]struct{})
	headers := make([]string, 0)
	flat := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		m := make(map[string]string, len(row.Keys))
		for i, key := range row.Keys {
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				headers = append(headers, key)
			}
			m[key] = row.Values[i]
		}
		flat = append(flat, m)
	}

	return Dataset{Headers: headers, Rows: flat}
}

// Row is a single export record with stable key order.
type Row struct {
	Keys   []string
	Values []string
}

// NewRow builds an empty row.
func NewRow() *Row {
	return &Row{}
}

// Set appends a key/value pair, preserving insertion order.
func (r *Row) Set(key, value string) *Row {
	r.Keys = append(r.Keys, key)
	r.Values = append(r.Values, value)
	return r
}
