package content

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/goliatone/go-slug"
)

const (
	maxSlugLength = 100
	fallbackSlug  = "untitled"
)

var (
	slugStripPattern    = regexp.MustCompile(`[^a-z0-9\s-]`)
	slugCollapsePattern = regexp.MustCompile(`[-\s]+`)
)

// NormalizeSlug turns a filename stem into a URL slug made of [a-z0-9-].
// Non-ASCII input is transliterated first so accented stems keep their
// letters instead of being stripped.
func NormalizeSlug(value string) string {
	s := strings.TrimSpace(strings.ToLower(value))
	if !isASCII(s) {
		s = foldASCII(s)
	}
	s = slugStripPattern.ReplaceAllString(s, "")
	s = slugCollapsePattern.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if len(s) > maxSlugLength {
		s = s[:maxSlugLength]
		if idx := strings.LastIndex(s, "-"); idx > 0 {
			s = s[:idx]
		}
		s = strings.Trim(s, "-")
	}
	if s == "" {
		return fallbackSlug
	}
	return s
}

// ServiceSlug normalizes a service filename stem with the shared slug rules
// of go-slug, falling back to NormalizeSlug when they reject the input.
func ServiceSlug(stem string) string {
	normalized, err := slug.Normalize(strings.TrimSpace(stem))
	if err != nil || normalized == "" || !slug.IsValid(normalized) {
		return NormalizeSlug(stem)
	}
	return normalized
}

func foldASCII(value string) string {
	if normalized, err := slug.Normalize(value); err == nil && normalized != "" {
		value = normalized
	}
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return unicode.ToLower(r)
	}, value)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// slugSet assigns unique slugs within a single load.
type slugSet map[string]struct{}

// claim returns base if unused, otherwise the first free base-N for N >= 2.
func (s slugSet) claim(base string) string {
	candidate := base
	for n := 2; ; n++ {
		if _, taken := s[candidate]; !taken {
			break
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
	s[candidate] = struct{}{}
	return candidate
}
