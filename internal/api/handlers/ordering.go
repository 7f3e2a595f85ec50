package handlers

import "strings"

// OrderingClause maps an ordering query parameter ("field" or "-field") to an
// ORDER BY expression. Fields outside the whitelist fall back to the default
// ordering rather than erroring.
func OrderingClause(param string, allowed map[string]string, fallback string) string {
	field := strings.TrimSpace(param)
	desc := strings.HasPrefix(field, "-")
	field = strings.TrimPrefix(field, "-")

	column, ok := allowed[field]
	if !ok || column == "" {
		return fallback
	}

	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}
