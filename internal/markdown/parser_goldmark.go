package markdown

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// GoldmarkParser implements interfaces.MarkdownParser using the goldmark engine.
// Engines are built once per distinct option set and reused; goldmark engines
// are safe for concurrent Convert calls.
type GoldmarkParser struct {
	defaultOptions interfaces.ParseOptions
	engines        sync.Map
}

// NewGoldmarkParser constructs a parser. Tables and fenced code are always
// enabled regardless of the configured extension list.
func NewGoldmarkParser(defaults interfaces.ParseOptions) *GoldmarkParser {
	return &GoldmarkParser{
		defaultOptions: defaults,
	}
}

// Parse renders Markdown into HTML using the parser's default configuration.
func (p *GoldmarkParser) Parse(markdown []byte) ([]byte, error) {
	return p.ParseWithOptions(markdown, p.defaultOptions)
}

// ParseWithOptions renders Markdown into HTML using the provided options.
func (p *GoldmarkParser) ParseWithOptions(markdown []byte, opts interfaces.ParseOptions) ([]byte, error) {
	engine := p.engine(opts)
	var buf bytes.Buffer
	if err := engine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown parse: %w", err)
	}
	if opts.Sanitize {
		return SanitizeHTML(buf.Bytes()), nil
	}
	return buf.Bytes(), nil
}

func (p *GoldmarkParser) engine(opts interfaces.ParseOptions) goldmark.Markdown {
	key := optionsKey(opts)
	if cached, ok := p.engines.Load(key); ok {
		return cached.(goldmark.Markdown)
	}
	engine, _ := p.engines.LoadOrStore(key, newGoldmarkEngine(opts))
	return engine.(goldmark.Markdown)
}

func optionsKey(opts interfaces.ParseOptions) string {
	names := normalizeNames(opts.Extensions)
	slices.Sort(names)
	return fmt.Sprintf("%s|%t|%t|%t", strings.Join(names, ","), opts.Sanitize, opts.HardWraps, opts.SafeMode)
}

// newGoldmarkEngine builds a goldmark.Markdown configured from the parse
// options. Unknown extension names are ignored.
func newGoldmarkEngine(opts interfaces.ParseOptions) goldmark.Markdown {
	exts, attributes := collectExtensions(opts.Extensions)

	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}
	if attributes {
		parserOptions = append(parserOptions, parser.WithAttribute())
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	// SafeMode drops raw HTML; Sanitize keeps it and scrubs afterwards.
	if !opts.SafeMode {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	engineOptions := []goldmark.Option{
		goldmark.WithParserOptions(parserOptions...),
		goldmark.WithExtensions(exts...),
	}
	if len(rendererOptions) > 0 {
		engineOptions = append(engineOptions, goldmark.WithRendererOptions(rendererOptions...))
	}
	return goldmark.New(engineOptions...)
}

// extensionRegistry maps configuration names onto goldmark extenders. A nil
// value marks a name that is accepted but needs no extender (fenced code is
// core CommonMark, heading IDs are always on).
var extensionRegistry = map[string]goldmark.Extender{
	"gfm":           extension.GFM,
	"table":         extension.Table,
	"tables":        extension.Table,
	"strikethrough": extension.Strikethrough,
	"linkify":       extension.Linkify,
	"autolink":      extension.Linkify,
	"tasklist":      extension.TaskList,
	"definition":    extension.DefinitionList,
	"def_list":      extension.DefinitionList,
	"footnote":      extension.Footnote,
	"footnotes":     extension.Footnote,
	"typographer":   extension.Typographer,
	"fenced_code":   nil,
	"toc":           nil,
}

func collectExtensions(names []string) ([]goldmark.Extender, bool) {
	keys := normalizeNames(names)
	extenders := []goldmark.Extender{}
	if !slices.Contains(keys, "gfm") {
		// GFM already bundles tables
		extenders = append(extenders, extension.Table)
	}
	attributes := false
	for _, key := range keys {
		if key == "attributes" || key == "attr_list" {
			attributes = true
			continue
		}
		ext, ok := extensionRegistry[key]
		if !ok || ext == nil || containsExtender(extenders, ext) {
			continue
		}
		extenders = append(extenders, ext)
	}
	return extenders, attributes
}

func containsExtender(list []goldmark.Extender, ext goldmark.Extender) bool {
	for _, existing := range list {
		if existing == ext {
			return true
		}
	}
	return false
}

func normalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" || slices.Contains(out, key) {
			continue
		}
		out = append(out, key)
	}
	return out
}
