package content

import (
	"strings"
	"time"
)

// postDateLayouts are tried in order; the first successful parse wins.
// Day-first numeric dates take precedence over month-first ones.
var postDateLayouts = []string{
	"2006-01-02",
	"January 2, 2006",
	"2 January 2006",
	"2/1/2006",
	"1/2/2006",
}

var imageDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParsePostDate parses a blog header date. ok is false for empty or
// unrecognized input.
func ParsePostDate(value string) (time.Time, bool) {
	return parseWithLayouts(value, postDateLayouts)
}

// ParseImageDate parses an ISO-8601 style gallery date.
func ParseImageDate(value string) (time.Time, bool) {
	return parseWithLayouts(value, imageDateLayouts)
}

func parseWithLayouts(value string, layouts []string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
