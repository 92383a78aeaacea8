package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"sync"
)

// HTMLRenderer renders html/template files. Templates are named by their
// slash-separated path relative to the template root ("base.html",
// "partials/cta.html") and parsed lazily on first use.
type HTMLRenderer struct {
	fsys   fs.FS
	inject InjectFunc

	mu      sync.RWMutex
	tpl     *template.Template
	err     error
	loaded  bool
	filters template.FuncMap
	globals map[string]any
}

// NewHTMLRenderer builds an html/template renderer over fsys.
func NewHTMLRenderer(fsys fs.FS, opts Options) *HTMLRenderer {
	return &HTMLRenderer{
		fsys:    fsys,
		inject:  injector(opts),
		filters: template.FuncMap{},
	}
}

func (r *HTMLRenderer) funcs() template.FuncMap {
	inject := r.inject
	funcs := template.FuncMap{
		"safeHTML": Markup,
		"inject_svg": func(name string, args ...any) template.HTML {
			return template.HTML(inject(name, args...))
		},
	}
	for name, fn := range r.filters {
		funcs[name] = fn
	}
	return funcs
}

func (r *HTMLRenderer) ensureTemplates() (*template.Template, error) {
	r.mu.RLock()
	if r.loaded {
		tpl, err := r.tpl, r.err
		r.mu.RUnlock()
		return tpl, err
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loaded {
		return r.tpl, r.err
	}
	r.tpl, r.err = r.parse()
	r.loaded = true
	return r.tpl, r.err
}

func (r *HTMLRenderer) parse() (*template.Template, error) {
	if r.fsys == nil {
		return nil, ErrNoTemplates
	}
	root := template.New("sitegen").Funcs(r.funcs())
	count := 0
	err := fs.WalkDir(r.fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isTemplateFile(name) {
			return nil
		}
		data, err := fs.ReadFile(r.fsys, name)
		if err != nil {
			return err
		}
		if _, err := root.New(name).Parse(string(data)); err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		count++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrNoTemplates
	}
	return root, nil
}

// HasTemplate reports whether name was found under the template root.
func (r *HTMLRenderer) HasTemplate(name string) bool {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return false
	}
	return tpl.Lookup(name) != nil
}

func (r *HTMLRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *HTMLRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.ensureTemplates()
	if err != nil {
		return "", err
	}
	target := tpl.Lookup(name)
	if target == nil {
		return "", wrapNotFound(name)
	}
	r.mu.RLock()
	payload := withGlobals(r.globals, data)
	r.mu.RUnlock()

	var buf bytes.Buffer
	if err := target.Execute(&buf, payload); err != nil {
		return "", err
	}
	rendered := buf.String()
	if err := writeOut(rendered, out); err != nil {
		return "", err
	}
	return rendered, nil
}

func (r *HTMLRenderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	r.mu.RLock()
	funcs := r.funcs()
	payload := withGlobals(r.globals, data)
	r.mu.RUnlock()

	tpl, err := template.New("inline").Funcs(funcs).Parse(content)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, payload); err != nil {
		return "", err
	}
	rendered := buf.String()
	if err := writeOut(rendered, out); err != nil {
		return "", err
	}
	return rendered, nil
}

// RegisterFilter exposes fn as a template function taking the piped value
// and an optional parameter. Registering after the first render re-parses
// the template set.
func (r *HTMLRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if name == "" || fn == nil {
		return ErrFilterInvalid
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.filters[name] = func(args ...any) (any, error) {
		var input, param any
		if len(args) > 0 {
			input = args[len(args)-1]
		}
		if len(args) > 1 {
			param = args[0]
		}
		return fn(input, param)
	}
	r.loaded = false
	r.tpl, r.err = nil, nil
	return nil
}

// GlobalContext sets values available to every render. Page data takes
// precedence on key conflicts.
func (r *HTMLRenderer) GlobalContext(data any) error {
	globals, err := globalsMap(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.globals = globals
	r.mu.Unlock()
	return nil
}
