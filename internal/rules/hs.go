package rules

import (
	"regexp"
	"strings"
)

var hsDigitsRe = regexp.MustCompile(`^\d{6,10}$`)

// ValidHSCode reports whether hs is a plausible Harmonized System code:
// 6 to 10 decimal digits after stripping periods. Nil is invalid.
func ValidHSCode(hs *string) bool {
	if hs == nil {
		return false
	}
	s := strings.ReplaceAll(strings.TrimSpace(*hs), ".", "")
	return hsDigitsRe.MatchString(s)
}
