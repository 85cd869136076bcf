// Package htmlsanitize strips markup from user-supplied free text.
//
// Occurrence notes, part-exchange details, deletion reasons and the church
// sub-location label are stored and later rendered in reports and CSV
// exports; they are plain text fields, so everything HTML-shaped is removed
// rather than escaped.
package htmlsanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Sanitize removes all HTML elements and attributes from s and trims
// surrounding whitespace.
func Sanitize(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// SanitizeAll sanitizes every string in ss in place and returns it.
func SanitizeAll(ss []string) []string {
	for i, s := range ss {
		ss[i] = Sanitize(s)
	}
	return ss
}
