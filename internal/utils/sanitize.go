package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var policy = bluemonday.StrictPolicy()

// SanitizeText strips all HTML from user-supplied text (post content, comments,
// profile intro) before it is persisted.
func SanitizeText(s string) string {
	return strings.TrimSpace(policy.Sanitize(s))
}
