package templates

import (
	"bytes"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// DjangoRenderer renders Jinja/Django style templates through pongo2.
// Autoescaping is disabled to match the Jinja defaults the site templates
// were written against; HTML values are inserted verbatim.
type DjangoRenderer struct {
	fsys fs.FS
	set  *pongo2.TemplateSet

	mu      sync.RWMutex
	globals pongo2.Context
}

var autoescapeOnce sync.Once

// NewDjangoRenderer builds a pongo2 renderer over fsys.
func NewDjangoRenderer(fsys fs.FS, opts Options) *DjangoRenderer {
	autoescapeOnce.Do(func() { pongo2.SetAutoescape(false) })
	set := pongo2.NewSet("sitegen", fsLoader{fsys: fsys})
	inject := injector(opts)
	set.Globals = pongo2.Context{
		"inject_svg": func(name string, args ...any) string { return inject(name, args...) },
	}
	return &DjangoRenderer{fsys: fsys, set: set}
}

// fsLoader resolves template names relative to the root of fsys.
type fsLoader struct {
	fsys fs.FS
}

func (l fsLoader) Abs(base, name string) string {
	name = strings.TrimPrefix(name, "/")
	if base == "" || !strings.HasPrefix(name, ".") {
		return path.Clean(name)
	}
	return path.Join(path.Dir(base), name)
}

func (l fsLoader) Get(name string) (io.Reader, error) {
	if l.fsys == nil {
		return nil, fs.ErrNotExist
	}
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// HasTemplate reports whether name exists under the template root.
func (r *DjangoRenderer) HasTemplate(name string) bool {
	if r.fsys == nil {
		return false
	}
	info, err := fs.Stat(r.fsys, path.Clean(name))
	return err == nil && !info.IsDir()
}

func (r *DjangoRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *DjangoRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !r.HasTemplate(name) {
		return "", wrapNotFound(name)
	}
	tpl, err := r.set.FromCache(name)
	if err != nil {
		return "", err
	}
	return r.execute(tpl, data, out)
}

func (r *DjangoRenderer) RenderString(content string, data any, out ...io.Writer) (string, error) {
	tpl, err := r.set.FromString(content)
	if err != nil {
		return "", err
	}
	return r.execute(tpl, data, out)
}

func (r *DjangoRenderer) execute(tpl *pongo2.Template, data any, out []io.Writer) (string, error) {
	ctx, err := r.context(data)
	if err != nil {
		return "", err
	}
	rendered, err := tpl.Execute(ctx)
	if err != nil {
		return "", err
	}
	if err := writeOut(rendered, out); err != nil {
		return "", err
	}
	return rendered, nil
}

func (r *DjangoRenderer) context(data any) (pongo2.Context, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctx := pongo2.Context{}
	for k, v := range r.globals {
		ctx[k] = v
	}
	switch v := data.(type) {
	case nil:
	case map[string]any:
		for k, val := range v {
			ctx[k] = val
		}
	case pongo2.Context:
		ctx.Update(v)
	default:
		ctx["page"] = v
	}
	return ctx, nil
}

// RegisterFilter registers fn with pongo2. Filters are process-wide in
// pongo2, so an existing filter with the same name is replaced.
func (r *DjangoRenderer) RegisterFilter(name string, fn func(input any, param any) (any, error)) error {
	if name == "" || fn == nil {
		return ErrFilterInvalid
	}
	filter := func(in *pongo2.Value, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var input, arg any
		if in != nil {
			input = in.Interface()
		}
		if param != nil && !param.IsNil() {
			arg = param.Interface()
		}
		out, err := fn(input, arg)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(out), nil
	}
	if pongo2.FilterExists(name) {
		return pongo2.ReplaceFilter(name, filter)
	}
	return pongo2.RegisterFilter(name, filter)
}

// GlobalContext sets values available to every render.
func (r *DjangoRenderer) GlobalContext(data any) error {
	globals, err := globalsMap(data)
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.globals = pongo2.Context(globals)
	r.mu.Unlock()
	return nil
}
