package interfaces

import (
	"io"
)

// TemplateRenderer renders named templates from a template set. Render and
// RenderTemplate are equivalent lookups by name; RenderString compiles an
// inline template. When out writers are supplied the output is copied to them
// as well as returned.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}

// TemplateLookup is implemented by renderers that can report whether a named
// template exists without executing it.
type TemplateLookup interface {
	HasTemplate(name string) bool
}
