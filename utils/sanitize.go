package utils

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.UGCPolicy()

// Sanitize strips unsafe HTML from user supplied text and trims surrounding whitespace.
func Sanitize(input string) string {
	return strings.TrimSpace(sanitizer.Sanitize(input))
}
