// Package sanitizer normalizes free-text input before validation and
// storage.
package sanitizer

import (
	"strings"
	"unicode"
)

func TrimAndNormalize(s string) string {
	s = strings.TrimSpace(s)

	if s == "" {
		return ""
	}

	var result strings.Builder
	var lastWasSpace bool

	for _, r := range s {
		if unicode.IsSpace(r) {
			if !lastWasSpace {
				result.WriteRune(' ')
				lastWasSpace = true
			}
		} else {
			result.WriteRune(r)
			lastWasSpace = false
		}
	}

	return result.String()
}

func NormalizeName(name string) string {
	return TrimAndNormalize(name)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NormalizeRegistration upper-cases a bus registration plate and strips
// internal whitespace.
func NormalizeRegistration(reg string) string {
	reg = TrimAndNormalize(reg)
	reg = strings.ReplaceAll(reg, " ", "")
	return strings.ToUpper(reg)
}

func NormalizeRoute(route string) string {
	return TrimAndNormalize(route)
}
