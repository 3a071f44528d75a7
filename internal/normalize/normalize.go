// Package normalize cleans raw recognized speech before it is stored or
// translated: filler words are stripped, whitespace is collapsed and the
// first rune is capitalized.
package normalize

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	fillerPattern = regexp.MustCompile(`(?i)\b(um|uh|er|ah|like|you know|basically|actually|literally)\b`)
	spaceRuns     = regexp.MustCompile(`\s+`)
)

// Clean strips filler words, collapses whitespace runs to single spaces and
// capitalizes the first rune. An input that is all filler or all whitespace
// yields the empty string; callers treat that as a no-op segment. Clean is
// idempotent.
func Clean(text string) string {
	cleaned := fillerPattern.ReplaceAllString(text, "")
	cleaned = strings.TrimSpace(spaceRuns.ReplaceAllString(cleaned, " "))
	if cleaned == "" {
		return ""
	}
	first, size := utf8.DecodeRuneInString(cleaned)
	return string(unicode.ToUpper(first)) + cleaned[size:]
}
