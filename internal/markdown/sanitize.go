package markdown

import (
	"html"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	ugcPolicy    = bluemonday.UGCPolicy()
	strictPolicy = bluemonday.StrictPolicy()
	whitespace   = regexp.MustCompile(`\s+`)
)

func init() {
	strictPolicy.AddSpaceWhenStrippingTag(true)
	ugcPolicy.AllowAttrs("class").OnElements("table", "code", "pre", "span", "div")
	ugcPolicy.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
}

// SanitizeHTML scrubs rendered HTML down to user-generated-content safe markup.
func SanitizeHTML(rendered []byte) []byte {
	return ugcPolicy.SanitizeBytes(rendered)
}

// PlainText strips every tag from rendered HTML, unescapes entities and
// collapses whitespace. limit > 0 truncates to that many runes with an ellipsis.
func PlainText(rendered string, limit int) string {
	text := html.UnescapeString(strictPolicy.Sanitize(rendered))
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:limit])) + "…"
}
