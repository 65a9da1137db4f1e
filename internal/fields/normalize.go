package fields

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	reTrailingPunct = regexp.MustCompile(`[^\w\-/]+$`)
	reNonDigit      = regexp.MustCompile(`\D`)
	reMoneyJunk     = regexp.MustCompile(`[^\d.,+-]`)
	reInnerSpace    = regexp.MustCompile(`\s+`)
)

func ptr[T any](v T) *T { return &v }

// CleanID normalizes a document identifier: trims and strips trailing
// punctuation, keeping word characters, dashes and slashes.
func CleanID(s string) *string {
	s = strings.TrimSpace(s)
	s = reTrailingPunct.ReplaceAllString(s, "")
	if s == "" {
		return nil
	}
	return &s
}

// ToInt strips everything but digits. "1,000 Pieces" -> 1000.
func ToInt(s string) *int {
	s = reNonDigit.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}

// ToFloat strips currency symbols and spaces, then drops commas as thousands
// separators. Single convention, no locale detection: "5,000.00" -> 5000,
// "1,200" -> 1200.
func ToFloat(s string) *float64 {
	s = reMoneyJunk.ReplaceAllString(strings.TrimSpace(s), "")
	if s == "" {
		return nil
	}
	s = strings.ReplaceAll(s, ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}

// cleanLine keeps the first line of a free-text match and collapses internal
// whitespace. Used for party names and port names.
func cleanLine(s string) *string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(reInnerSpace.ReplaceAllString(s, " "))
	if s == "" {
		return nil
	}
	return &s
}
