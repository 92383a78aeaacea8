package directives

import (
	"sort"
	"strings"
	"sync"
	"text/template"
)

// Definition describes how one inline directive is expanded.
//
// Kind is the directive prefix ("template", "video"). Name pins the
// definition to one argument value ("cta"); an empty Name matches every
// argument. Override names the template looked up in the site's template set
// first; "%s" is replaced with the argument. Fragment is the builtin
// text/template used when the override is unavailable; it receives .ID and
// .Static.
type Definition struct {
	Kind     string
	Name     string
	Override string
	Fragment string
}

func (d Definition) key() string {
	kind := strings.ToLower(strings.TrimSpace(d.Kind))
	if name := strings.TrimSpace(d.Name); name != "" {
		return kind + ":" + name
	}
	return kind
}

type entry struct {
	def      Definition
	fragment *template.Template
}

// Registry is the thread-safe catalogue of directive definitions.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// NewDefaultRegistry returns a registry holding the builtin definitions.
func NewDefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, def := range BuiltInDefinitions() {
		if err := registry.Register(def); err != nil {
			panic(err)
		}
	}
	return registry
}

// Register stores a definition if its key is not taken.
func (r *Registry) Register(def Definition) error {
	if strings.TrimSpace(def.Kind) == "" {
		return ErrInvalidDefinition
	}
	if strings.TrimSpace(def.Override) == "" && strings.TrimSpace(def.Fragment) == "" {
		return ErrInvalidDefinition
	}

	compiled := entry{def: def}
	if def.Fragment != "" {
		tpl, err := template.New(def.key()).Parse(def.Fragment)
		if err != nil {
			return ErrInvalidDefinition
		}
		compiled.fragment = tpl
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := def.key()
	if _, exists := r.entries[key]; exists {
		return ErrDuplicateDefinition
	}
	r.entries[key] = compiled
	return nil
}

// Lookup resolves the definition for kind and argument, preferring a
// definition pinned to the argument over the kind-wide one.
func (r *Registry) Lookup(kind, arg string) (Definition, bool) {
	e, ok := r.lookup(kind, arg)
	return e.def, ok
}

func (r *Registry) lookup(kind, arg string) (entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kind = strings.ToLower(strings.TrimSpace(kind))
	if e, ok := r.entries[kind+":"+arg]; ok {
		return e, true
	}
	e, ok := r.entries[kind]
	return e, ok
}

// Kinds returns the registered directive kinds in name order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := map[string]struct{}{}
	for _, e := range r.entries {
		seen[strings.ToLower(strings.TrimSpace(e.def.Kind))] = struct{}{}
	}
	kinds := make([]string, 0, len(seen))
	for kind := range seen {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	return kinds
}

// List returns all registered definitions ordered by key.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]Definition, 0, len(r.entries))
	for _, e := range r.entries {
		result = append(result, e.def)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].key() < result[j].key()
	})
	return result
}
