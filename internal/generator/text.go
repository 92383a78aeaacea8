package generator

import (
	"html"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicy     *bluemonday.Policy
)

// plainText strips markup from fragment and collapses whitespace.
func plainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	strictPolicyOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	// Block-level tags become word breaks so adjacent paragraphs do not merge.
	spaced := strings.NewReplacer("</p>", "</p> ", "<br>", " ", "<br/>", " ", "<br />", " ", "</li>", "</li> ", "</h1>", "</h1> ", "</h2>", "</h2> ", "</h3>", "</h3> ").Replace(fragment)
	stripped := html.UnescapeString(strictPolicy.Sanitize(spaced))
	return strings.Join(strings.Fields(stripped), " ")
}

// truncateText shortens text to at most limit runes on a word boundary.
func truncateText(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:limit])
	if idx := strings.LastIndex(cut, " "); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimSpace(cut) + "…"
}
