// Package sanitize strips markup from user-entered plain text.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// bluemonday policies are safe for concurrent use once built.
var strict = bluemonday.StrictPolicy()

// Text removes every HTML element from s and trims surrounding space.
// Entities are decoded again afterwards: the fields are stored as plain
// text and escaped at render time, so "Smith & Co" must stay as typed.
func Text(s string) string {
	return strings.TrimSpace(html.UnescapeString(strict.Sanitize(s)))
}
