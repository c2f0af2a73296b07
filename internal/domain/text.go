package domain

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strictPolicy strips every tag. A bluemonday policy is safe for concurrent use.
var strictPolicy = bluemonday.StrictPolicy()

// CleanText removes markup from user-entered text and trims surrounding
// whitespace. The result is plain text: entities are decoded before
// sanitizing, so encoded markup is stripped too, and the sanitizer's own
// escaping is decoded once more at the end.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(html.UnescapeString(s))))
}

// SplitList turns a comma-separated string into its trimmed, non-empty
// parts, keeping their order.
func SplitList(s string) []string {
	return NormalizeList(strings.Split(s, ","))
}

// NormalizeList cleans every item and drops the ones left empty. The
// result is never nil.
func NormalizeList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if cleaned := CleanText(item); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

// containsFold reports whether any of fields contains query, ignoring case.
// An empty query matches everything.
func containsFold(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
