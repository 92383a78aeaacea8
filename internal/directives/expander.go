package directives

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var directivePattern = regexp.MustCompile(`\{\{([a-z]+):([A-Za-z0-9_-]+)\}\}`)

// Context carries the values passed to directive templates.
type Context struct {
	// Static is the relative path to the static asset root from the page
	// that will embed the expanded fragment.
	Static    string
	InjectSVG any
	Config    any
}

// Expander replaces inline directives in Markdown sources before conversion.
type Expander struct {
	registry *Registry
	renderer interfaces.TemplateRenderer
}

// NewExpander builds an expander. A nil registry uses the builtins; a nil
// renderer limits expansion to builtin fragments.
func NewExpander(registry *Registry, renderer interfaces.TemplateRenderer) *Expander {
	if registry == nil {
		registry = NewDefaultRegistry()
	}
	return &Expander{registry: registry, renderer: renderer}
}

// Expand substitutes every registered directive in source. Failures become
// HTML comments in place of the directive; unregistered kinds are left as-is.
func (e *Expander) Expand(source string, ctx Context) string {
	if e == nil || !strings.Contains(source, "{{") {
		return source
	}
	return directivePattern.ReplaceAllStringFunc(source, func(match string) string {
		parts := directivePattern.FindStringSubmatch(match)
		kind, arg := parts[1], parts[2]
		found, ok := e.registry.lookup(kind, arg)
		if !ok {
			return match
		}
		out, err := e.expand(found, kind, arg, ctx)
		if err != nil {
			return failureComment(kind, arg, found.def, err)
		}
		return out
	})
}

func (e *Expander) expand(found entry, kind, arg string, ctx Context) (string, error) {
	override := overrideName(found.def, arg)
	if override != "" && e.renderer != nil && e.hasTemplate(override) {
		return e.renderer.RenderTemplate(override, overrideData(kind, arg, ctx))
	}
	if found.fragment != nil {
		var buf bytes.Buffer
		if err := found.fragment.Execute(&buf, map[string]any{"ID": arg, "Static": ctx.Static}); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	if override != "" && e.renderer != nil {
		// renderer could not report availability, let it produce the error
		return e.renderer.RenderTemplate(override, overrideData(kind, arg, ctx))
	}
	return "", fmt.Errorf("%w: %s:%s", ErrUnknownDirective, kind, arg)
}

func (e *Expander) hasTemplate(name string) bool {
	lookup, ok := e.renderer.(interfaces.TemplateLookup)
	if !ok {
		return false
	}
	return lookup.HasTemplate(name)
}

func overrideName(def Definition, arg string) string {
	if def.Override == "" {
		return ""
	}
	if strings.Contains(def.Override, "%s") {
		return fmt.Sprintf(def.Override, arg)
	}
	return def.Override
}

func overrideData(kind, arg string, ctx Context) map[string]any {
	data := map[string]any{
		"static":     ctx.Static,
		"inject_svg": ctx.InjectSVG,
		"config":     ctx.Config,
	}
	if kind == "video" {
		data["youtube_id"] = arg
	}
	return data
}

func failureComment(kind, arg string, def Definition, err error) string {
	switch kind {
	case "template":
		return fmt.Sprintf("<!-- Template include failed for %s: %v -->", overrideName(def, arg), err)
	case "video":
		return fmt.Sprintf("<!-- Video embed failed: %v -->", err)
	default:
		return fmt.Sprintf("<!-- Directive %s:%s failed: %v -->", kind, arg, err)
	}
}
