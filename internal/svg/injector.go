// Package svg inlines SVG icons into rendered pages, optionally normalizing
// their colors to currentcolor and merging CSS classes onto the root tag.
package svg

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Options controls a single injection.
type Options struct {
	UseCurrentColor bool
	ReplaceNone     bool
	Class           string
}

// Injector reads icons from a filesystem rooted at the static directory.
// File contents are cached for the lifetime of the injector.
type Injector struct {
	fsys   fs.FS
	logger interfaces.Logger

	mu    sync.RWMutex
	cache map[string]string
}

var (
	rootTagPattern  = regexp.MustCompile(`<svg\s[^>]*>`)
	closingPattern  = regexp.MustCompile(`</svg>\s*$`)
	classAttrValue  = regexp.MustCompile(`class="([^"]*)"`)
	errEmptyIconRef = errors.New("svg: icon name required")
)

// NewInjector builds an injector. A nil logger discards warnings.
func NewInjector(fsys fs.FS, logger interfaces.Logger) *Injector {
	return &Injector{fsys: fsys, logger: logger, cache: map[string]string{}}
}

// Inject returns the markup for name (without the .svg extension). A missing
// or unreadable icon yields an HTML comment placeholder.
func (i *Injector) Inject(name string, opts Options) string {
	source, err := i.read(name)
	if err != nil {
		if i.logger != nil {
			i.logger.Warn("svg.inject.missing", "icon", name, "error", err)
		}
		return fmt.Sprintf("<!-- SVG '%s' not found -->", name)
	}
	if opts.UseCurrentColor {
		source = normalizeColors(source, opts.ReplaceNone)
	}
	if class := strings.TrimSpace(opts.Class); class != "" {
		source = mergeClass(source, class)
	}
	return source
}

// Func adapts the injector to the positional template call form
// inject_svg(name, use_current_color, classes, replace_none).
func (i *Injector) Func() func(name string, args ...any) string {
	return func(name string, args ...any) string {
		return i.Inject(name, ParseArgs(args...))
	}
}

// ParseArgs maps positional template arguments onto Options. Arguments of
// the wrong type are ignored.
func ParseArgs(args ...any) Options {
	var opts Options
	for idx, arg := range args {
		switch idx {
		case 0:
			opts.UseCurrentColor = truthy(arg)
		case 1:
			if s, ok := arg.(string); ok {
				opts.Class = s
			}
		case 2:
			opts.ReplaceNone = truthy(arg)
		}
	}
	return opts
}

func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "true", "yes", "on":
			return true
		}
	case int:
		return t != 0
	}
	return false
}

func (i *Injector) read(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errEmptyIconRef
	}
	i.mu.RLock()
	cached, ok := i.cache[name]
	i.mu.RUnlock()
	if ok {
		return cached, nil
	}
	if i.fsys == nil {
		return "", fs.ErrNotExist
	}
	file := path.Clean(strings.TrimPrefix(name, "/")) + ".svg"
	data, err := fs.ReadFile(i.fsys, file)
	if err != nil {
		return "", err
	}
	content := string(data)
	i.mu.Lock()
	i.cache[name] = content
	i.mu.Unlock()
	return content, nil
}

func normalizeColors(source string, replaceNone bool) string {
	loc := rootTagPattern.FindStringIndex(source)
	if loc == nil {
		return source
	}
	rootTag := source[loc[0]:loc[1]]
	closing := closingPattern.FindStringIndex(source)
	if closing == nil || closing[0] < loc[1] {
		return source
	}
	inner := source[loc[1]:closing[0]]

	var b strings.Builder
	b.Grow(len(source))
	b.WriteString(source[:loc[0]])
	b.WriteString(runPipeline(scopeRoot, rootTag, replaceNone))
	b.WriteString(runPipeline(scopeInner, inner, replaceNone))
	b.WriteString(source[closing[0]:])
	return b.String()
}

func mergeClass(source, class string) string {
	loc := rootTagPattern.FindStringIndex(source)
	if loc == nil {
		return source
	}
	tag := source[loc[0]:loc[1]]
	var updated string
	if classAttrValue.MatchString(tag) {
		updated = classAttrValue.ReplaceAllString(tag, `class="${1} `+escapeReplacement(class)+`"`)
	} else {
		updated = strings.TrimSuffix(tag, ">") + ` class="` + class + `">`
		if strings.HasSuffix(tag, "/>") {
			updated = strings.TrimSuffix(tag, "/>") + ` class="` + class + `"/>`
		}
	}
	return source[:loc[0]] + updated + source[loc[1]:]
}

func escapeReplacement(s string) string {
	return strings.ReplaceAll(s, "$", "$$")
}
