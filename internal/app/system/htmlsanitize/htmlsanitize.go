// Package htmlsanitize cleans user-supplied text before it is stored or
// placed in outbound email.
package htmlsanitize

import (
	"html"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugc    = bluemonday.UGCPolicy()
	strict = bluemonday.StrictPolicy()
)

// Sanitize keeps basic formatting markup and removes anything executable.
// Used for free-form fields like dispute descriptions and meeting notes.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	return ugc.Sanitize(s)
}

// SanitizeToHTML is Sanitize for values rendered by html/template.
func SanitizeToHTML(s string) template.HTML {
	return template.HTML(Sanitize(s))
}

// PlainText strips every tag and returns unescaped text.
// Used for single-line fields such as titles and names.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}

// IsPlainText reports whether s contains no tag-like markup.
func IsPlainText(s string) bool {
	return !strings.ContainsAny(s, "<>")
}
