// Package sanitize strips markup from free-text fields before they are
// stored: access-request messages and roster remarks are rendered in the
// admin console, so they must never carry HTML.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from a free-text field and trims the result.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
