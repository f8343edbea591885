// Package inputval validates user-supplied identifiers before they reach
// the stores.
package inputval

import "regexp"

// emailRe accepts dot-separated atoms in the local part and hostname-style
// labels in the domain. Single-label domains are allowed (RFC 5322, and
// useful for dev/test environments), leading/trailing/consecutive dots are
// not.
var emailRe = regexp.MustCompile(
	`^[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+(\.[A-Za-z0-9!#$%&'*+/=?^_` + "`" + `{|}~-]+)*` +
		`@[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?(\.[A-Za-z0-9]([A-Za-z0-9-]*[A-Za-z0-9])?)*$`)

// IsValidEmail reports whether s is a plausible bare email address.
// Display-name forms like "Name <a@b.c>" are rejected.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}
