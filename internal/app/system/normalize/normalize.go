// Package normalize holds the canonical forms the stores write.
package normalize

import "strings"

// Email trims and lowercases an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace and collapses internal runs of spaces.
func Name(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Text trims surrounding whitespace and leaves the rest untouched.
func Text(s string) string {
	return strings.TrimSpace(s)
}
