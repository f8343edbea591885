// Package normalize provides field normalization helpers used by stores and
// handlers so the same value always produces the same stored form.
package normalize

import (
	"strings"
	"unicode"
)

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims surrounding whitespace but preserves case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// ClubKey builds the collision key for club names: lowercase with all
// whitespace removed, so "Chess Club" and " chess club " collide.
func ClubKey(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Phone strips everything but digits from a phone number.
func Phone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidPhone reports whether a normalized phone is acceptable: exactly ten
// digits with a leading digit of 6 or higher.
func ValidPhone(digits string) bool {
	if len(digits) != 10 {
		return false
	}
	return digits[0] >= '6'
}
