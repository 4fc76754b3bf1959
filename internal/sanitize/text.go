package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// strict removes every HTML tag and attribute. All free-text fields in the
// API (company names, descriptions, job titles, user names) are plain text.
var strict = bluemonday.StrictPolicy()

// Text strips HTML from user-supplied text and trims surrounding whitespace.
func Text(input string) string {
	return strings.TrimSpace(strict.Sanitize(input))
}
