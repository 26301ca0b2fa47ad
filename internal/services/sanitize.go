package services

import (
	"strings"
	"unicode"
)

// PayloadForm names the payload format a model response is expected to
// carry. Stripping itself is tag-agnostic; the form documents intent at
// the call site.
type PayloadForm string

const (
	PayloadJSON   PayloadForm = "json"
	PayloadMarkup PayloadForm = "markup"
)

// Sanitize strips at most one markdown fence marker from each end of a
// model response and trims surrounding whitespace. The language tag on an
// opening fence is discarded whatever it claims. The result is not
// validated; parsing is the caller's job.
func Sanitize(raw string, form PayloadForm) string {
	content := strings.TrimSpace(raw)

	if strings.HasPrefix(content, "```") {
		content = content[3:]
		if idx := strings.Index(content, "\n"); idx >= 0 && isFenceTag(content[:idx]) {
			content = content[idx+1:]
		}
	}
	if strings.HasSuffix(content, "```") {
		content = content[:len(content)-3]
	}

	return strings.TrimSpace(content)
}

// isFenceTag reports whether the remainder of an opening fence line is a
// bare language tag (or nothing at all) rather than payload content.
func isFenceTag(line string) bool {
	line = strings.TrimSpace(line)
	for _, r := range line {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '+' && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
