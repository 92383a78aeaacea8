// Package templates provides the template engines used to render pages:
// Go html/template and a Jinja-compatible pongo2 engine.
package templates

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"maps"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	EngineHTML   = "html"
	EngineDjango = "django"
)

var (
	ErrTemplateNotFound = errors.New("templates: template not found")
	ErrNoTemplates      = errors.New("templates: no templates found")
	ErrUnknownEngine    = errors.New("templates: unknown engine")
	ErrGlobalsInvalid   = errors.New("templates: global context must be a map")
	ErrFilterInvalid    = errors.New("templates: filter name and function required")
)

// InjectFunc renders an inline SVG: name followed by the optional
// use_current_color, classes and replace_none arguments.
type InjectFunc func(name string, args ...any) string

// Options configures a renderer.
type Options struct {
	InjectSVG InjectFunc
}

// Renderer is the engine contract consumed by the page renderer.
type Renderer interface {
	interfaces.TemplateRenderer
	interfaces.TemplateLookup
}

// New builds the renderer named by engine over fsys.
func New(engine string, fsys fs.FS, opts Options) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineHTML:
		return NewHTMLRenderer(fsys, opts), nil
	case EngineDjango, "jinja", "pongo2":
		return NewDjangoRenderer(fsys, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
	}
}

// Markup marks a value as trusted HTML for the html engine.
func Markup(value any) template.HTML {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case template.HTML:
		return v
	case string:
		return template.HTML(v)
	default:
		return template.HTML(fmt.Sprint(v))
	}
}

func missingSVG(name string, _ ...any) string {
	return fmt.Sprintf("<!-- SVG '%s' not found -->", name)
}

func injector(opts Options) InjectFunc {
	if opts.InjectSVG != nil {
		return opts.InjectSVG
	}
	return missingSVG
}

func globalsMap(data any) (map[string]any, error) {
	switch v := data.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return maps.Clone(v), nil
	default:
		return nil, ErrGlobalsInvalid
	}
}

// withGlobals layers page data over globals when data is a map; other data
// shapes are passed through untouched.
func withGlobals(globals map[string]any, data any) any {
	if len(globals) == 0 {
		return data
	}
	switch v := data.(type) {
	case nil:
		return maps.Clone(globals)
	case map[string]any:
		merged := maps.Clone(globals)
		maps.Copy(merged, v)
		return merged
	default:
		return data
	}
}

func writeOut(rendered string, out []io.Writer) error {
	for _, w := range out {
		if w == nil {
			continue
		}
		if _, err := io.WriteString(w, rendered); err != nil {
			return err
		}
	}
	return nil
}

func isTemplateFile(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".tmpl") || strings.HasSuffix(lower, ".xml")
}

func wrapNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
}
