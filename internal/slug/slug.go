// Package slug normalizes URLs and keywords into comparable token sequences.
package slug

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LastSegment returns the final path segment of u after stripping a single
// trailing slash. It does not otherwise normalize the segment.
func LastSegment(u string) string {
	u = strings.TrimSuffix(u, "/")
	if i := strings.LastIndexByte(u, '/'); i >= 0 {
		return u[i+1:]
	}
	return u
}

// Extract turns a URL (or a bare keyword) into its slug: the last path
// segment with hyphens replaced by spaces, lower-cased.
func Extract(u string) string {
	return strings.ToLower(strings.ReplaceAll(LastSegment(u), "-", " "))
}

// FromKeyword returns the hyphenated form a keyword would take as a URL slug.
func FromKeyword(keyword string) string {
	return strings.ReplaceAll(keyword, " ", "-")
}

// Title title-cases every word of s.
func Title(s string) string {
	return cases.Title(language.English).String(s)
}
