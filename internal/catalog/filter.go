package catalog

import (
	"fmt"
	"net/url"
	"strings"
)

// LikeAny builds a filter matching rows where any of fields contains term:
// (f1,like,%term%)~or(f2,like,%term%). Case sensitivity is up to the store.
// The expression is encoded once, as a whole, when the request is built.
func LikeAny(term string, fields ...string) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("(%s,like,%%%s%%)", f, term))
	}
	return strings.Join(parts, "~or")
}

// Equals builds (field,eq,value)
func Equals(field, value string) string {
	return fmt.Sprintf("(%s,eq,%s)", field, value)
}

// searchParams returns the where parameter for a free-text query, or nil for a blank one
func searchParams(query string, fields ...string) url.Values {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	return url.Values{"where": {LikeAny(query, fields...)}}
}
