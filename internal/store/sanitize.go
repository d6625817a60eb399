package store

import (
	"regexp"
	"strings"
)

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeText strips HTML tags and null bytes from free-text input
// before it is written. Field length limits are enforced by the
// domain validators, not here.
func SanitizeText(s string) string {
	s = htmlTagPattern.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, "\x00", "")
	return strings.TrimSpace(s)
}

// SanitizeFilterValue additionally removes the characters that carry
// meaning inside a PostgREST filter expression, so a value can never
// terminate or extend the expression it is embedded in.
func SanitizeFilterValue(s string) string {
	s = SanitizeText(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ',', '.', '(', ')', '[', ']':
			return -1
		}
		return r
	}, s)
}
