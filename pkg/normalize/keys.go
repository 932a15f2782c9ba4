// Package normalize converts JSON payloads produced by the legacy hostel
// backend into the single key convention the rest of the service expects.
// The legacy API mixed snake_case, PascalCase and all-caps acronym keys
// depending on which module produced the record.
package normalize

import (
	"strings"
	"unicode"
)

// Keys rewrites every object key in a JSON-shaped value (maps, slices,
// scalars as produced by encoding/json) into camelCase. All-caps keys such
// as "ID" or "ROOM_NO" are treated as acronyms and lowercased whole.
// The input is never mutated; scalars and nil pass through unchanged.
func Keys(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, val := range v {
			out[Key(key)] = Keys(val)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, val := range v {
			out[i] = Keys(val)
		}
		return out
	default:
		return value
	}
}

// Key converts a single field name into camelCase.
func Key(key string) string {
	if key == "" {
		return key
	}
	if isUpperCode(key) {
		return strings.ToLower(key)
	}

	segments := splitWords(key)
	if len(segments) == 0 {
		return strings.ToLower(key)
	}

	var b strings.Builder
	b.Grow(len(key))
	for i, seg := range segments {
		lower := strings.ToLower(seg)
		if i == 0 {
			b.WriteString(lower)
			continue
		}
		b.WriteString(strings.ToUpper(lower[:1]))
		b.WriteString(lower[1:])
	}
	return b.String()
}

// isUpperCode reports whether the key consists solely of uppercase letters,
// digits and underscores (legacy acronym columns like "NIM" or "ROOM_NO").
func isUpperCode(key string) bool {
	hasUpper := false
	for _, r := range key {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r) || r == '_':
		default:
			return false
		}
	}
	return hasUpper
}

// splitWords breaks a key into word segments. Boundaries are: a run of
// uppercase letters followed by an Upper+lower pair ("HTTPServer" ->
// "HTTP", "Server"), an uppercase letter starting a lowercase run
// ("CreatedAt" -> "Created", "At"), and runs of digits. Underscores and
// dashes are separators and never emitted.
func splitWords(key string) []string {
	var words []string
	runes := []rune(key)
	n := len(runes)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i := 0; i < n; i++ {
		r := runes[i]
		if r == '_' || r == '-' || r == ' ' {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		prev := runes[i-1]
		switch {
		case unicode.IsDigit(r) != unicode.IsDigit(prev):
			flush(i)
			start = i
		case unicode.IsUpper(r) && unicode.IsLower(prev):
			flush(i)
			start = i
		case unicode.IsLower(r) && unicode.IsUpper(prev):
			// "ABCDef" splits as "ABC", "Def": the final upper belongs
			// to the new word.
			if i-1 > start {
				flush(i - 1)
				start = i - 1
			}
		}
	}
	flush(n)
	return words
}
