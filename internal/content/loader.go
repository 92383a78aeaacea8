// Package content loads blog posts, services and gallery images from their
// source directories into typed entities.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/directives"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	ErrMarkdownParserRequired = errors.New("content: markdown parser required")
	ErrDirectoryUnreadable    = errors.New("content: directory unreadable")
)

// LoaderConfig holds loader settings.
type LoaderConfig struct {
	Markdown interfaces.ParseOptions
	// Directives is the context handed to directive templates found in blog
	// bodies. Static is forced to the blog-relative asset root.
	Directives directives.Context
}

// LoaderDependencies wires the loader. Each collection reads from its own
// filesystem rooted at the collection directory; a nil filesystem behaves
// like a missing directory.
type LoaderDependencies struct {
	Blogs    fs.FS
	Services fs.FS
	Gallery  fs.FS
	Markdown interfaces.MarkdownParser
	Expander *directives.Expander
	Logger   interfaces.Logger
	Now      func() time.Time
}

// Loader reads the three content collections.
type Loader struct {
	cfg    LoaderConfig
	deps   LoaderDependencies
	logger interfaces.Logger
	now    func() time.Time
}

// NewLoader constructs a loader.
func NewLoader(cfg LoaderConfig, deps LoaderDependencies) (*Loader, error) {
	if deps.Markdown == nil {
		return nil, ErrMarkdownParserRequired
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &Loader{cfg: cfg, deps: deps, logger: logger, now: now}, nil
}

type sourceFile struct {
	name string
	ext  string
}

func (f sourceFile) stem() string {
	return strings.TrimSuffix(f.name, path.Ext(f.name))
}

// listFiles returns regular files in lexical order. A missing directory
// yields ok=false and no error.
func (l *Loader) listFiles(kind Kind, fsys fs.FS) ([]sourceFile, bool, error) {
	if fsys == nil {
		l.logger.Warn("content.directory.missing", "kind", kind)
		return nil, false, nil
	}
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("content.directory.missing", "kind", kind)
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%w: %s: %v", ErrDirectoryUnreadable, kind, err)
	}
	files := make([]sourceFile, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !entry.Type().IsRegular() {
			continue
		}
		name := entry.Name()
		files = append(files, sourceFile{name: name, ext: strings.ToLower(path.Ext(name))})
	}
	slices.SortFunc(files, func(a, b sourceFile) int { return strings.Compare(a.name, b.name) })
	return files, true, nil
}

func (l *Loader) parseMarkdown(body string) (string, error) {
	out, err := l.deps.Markdown.ParseWithOptions([]byte(body), l.cfg.Markdown)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func hasImageExtension(name string) bool {
	return slices.Contains(imageExtensions, strings.ToLower(path.Ext(name)))
}

func truncateRunes(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return string(runes[:limit])
}

func checkContext(ctx context.Context) error {
	if ctx == nil {
		return nil
	}
	return ctx.Err()
}
