package form

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer rewrites a value after it passed validation.
type Sanitizer func(string) string

var escaper = strings.NewReplacer(
	"&", "&amp;",
	`"`, "&quot;",
	"'", "&#x27;",
	"<", "&lt;",
	">", "&gt;",
	"/", "&#x2F;",
	`\`, "&#x5C;",
	"`", "&#96;",
)

// Escape replaces the HTML-significant characters of s with entities.
func Escape(s string) string {
	return escaper.Replace(s)
}

var (
	markupPolicyOnce sync.Once
	markupPolicy     *bluemonday.Policy
)

func markupSanitizer() *bluemonday.Policy {
	markupPolicyOnce.Do(func() {
		markupPolicy = bluemonday.StrictPolicy()
	})
	return markupPolicy
}

// StripMarkup removes every tag from s and returns plain text. The result is
// unescaped so that a following Escape does not double-encode entities.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	return html.UnescapeString(markupSanitizer().Sanitize(s))
}
