package binding

import (
	"regexp"
	"strings"
)

var fieldPattern = regexp.MustCompile(`\{\{([^}]*)\}\}`)

// Record is one row of imported tabular data, keyed by field name.
type Record map[string]string

// Placeholder renders the unbound form of a field reference.
func Placeholder(key string) string { return "{{" + key + "}}" }

// Resolve looks a field up in a record. A nil record or a missing field
// reports ok=false; callers render the placeholder form instead of failing.
func Resolve(rec Record, key string) (string, bool) {
	if rec == nil {
		return "", false
	}
	val, ok := rec[key]
	return val, ok
}

// Interpolate replaces {{field}} references in text with values from the
// record. Unresolved references keep their placeholder form so a template
// previews meaningfully without data.
func Interpolate(text string, rec Record) string {
	if rec == nil || !strings.Contains(text, "{{") {
		return text
	}
	return fieldPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := fieldPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		key := strings.TrimSpace(groups[1])
		if key == "" {
			return match
		}
		if val, ok := Resolve(rec, key); ok {
			return val
		}
		return match
	})
}
