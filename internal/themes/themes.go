// Package themes resolves an optional go-theme manifest into values the
// base template can consume: design tokens, CSS variables, partial
// overrides and asset URLs.
package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"path"
	"slices"
	"strings"

	gotheme "github.com/goliatone/go-theme"
)

var ErrThemeNameRequired = errors.New("themes: theme name required")

// Config selects a theme manifest.
type Config struct {
	Name      string
	Variant   string
	CSSPrefix string
	// PartialFallbacks maps partial keys to the template used when the
	// manifest does not override them.
	PartialFallbacks map[string]string
}

// Context is the template-facing view of a selection.
type Context struct {
	Name     string
	Variant  string
	Tokens   map[string]string
	CSSVars  map[string]string
	Partials map[string]string
	Assets   []string
}

// Empty returns the context used when no theme is configured.
func Empty() Context {
	return Context{
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
		Partials: map[string]string{},
	}
}

// Enabled reports whether a theme was selected.
func (c Context) Enabled() bool {
	return c.Name != ""
}

// Style renders the CSS variables as a :root rule with keys sorted so the
// output is stable across builds.
func (c Context) Style() string {
	if len(c.CSSVars) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(":root{")
	for _, key := range slices.Sorted(maps.Keys(c.CSSVars)) {
		fmt.Fprintf(&b, "%s:%s;", key, c.CSSVars[key])
	}
	b.WriteString("}")
	return b.String()
}

// Map exposes the context to templates under snake_case keys.
func (c Context) Map() map[string]any {
	return map[string]any{
		"name":     c.Name,
		"variant":  c.Variant,
		"tokens":   c.Tokens,
		"css_vars": c.CSSVars,
		"partials": c.Partials,
		"assets":   c.Assets,
		"style":    c.Style(),
	}
}

// Load reads the manifest at the root of fsys and selects the configured
// theme and variant.
func Load(fsys fs.FS, cfg Config) (Context, error) {
	manifest, err := gotheme.LoadDir(fsys, ".")
	if err != nil {
		return Context{}, fmt.Errorf("load theme manifest: %w", err)
	}
	normalized := *manifest
	if name := strings.TrimSpace(cfg.Name); name != "" {
		normalized.Name = name
	}
	if strings.TrimSpace(normalized.Name) == "" {
		return Context{}, ErrThemeNameRequired
	}

	registry := gotheme.NewRegistry()
	if err := registry.Register(&normalized); err != nil {
		return Context{}, fmt.Errorf("register theme manifest: %w", err)
	}
	selector := gotheme.Selector{
		Registry:       registry,
		DefaultTheme:   normalized.Name,
		DefaultVariant: strings.TrimSpace(cfg.Variant),
	}
	selection, err := selector.Select(normalized.Name, strings.TrimSpace(cfg.Variant))
	if err != nil {
		return Context{}, fmt.Errorf("select theme %s: %w", normalized.Name, err)
	}
	return fromSelection(selection, cfg), nil
}

func fromSelection(selection *gotheme.Selection, cfg Config) Context {
	if selection == nil {
		return Empty()
	}
	fallbacks := cfg.PartialFallbacks
	if fallbacks == nil {
		fallbacks = map[string]string{}
	}
	return Context{
		Name:     selection.Theme,
		Variant:  selection.Variant,
		Tokens:   selection.Tokens(),
		CSSVars:  selection.CSSVariables(cfg.CSSPrefix),
		Partials: selection.Partials(fallbacks),
		Assets:   manifestAssets(selection),
	}
}

// manifestAssets lists the manifest asset files with variant overrides
// applied, sorted and de-duplicated.
func manifestAssets(selection *gotheme.Selection) []string {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	files := maps.Clone(selection.Manifest.Assets.Files)
	if files == nil {
		files = map[string]string{}
	}
	if variant := strings.TrimSpace(selection.Variant); variant != "" {
		if v, ok := selection.Manifest.Variants[variant]; ok {
			maps.Copy(files, v.Assets.Files)
		}
	}
	seen := map[string]struct{}{}
	var out []string
	for _, asset := range files {
		asset = path.Clean(strings.TrimPrefix(strings.TrimSpace(asset), "/"))
		if asset == "" || asset == "." {
			continue
		}
		if _, ok := seen[asset]; ok {
			continue
		}
		seen[asset] = struct{}{}
		out = append(out, asset)
	}
	slices.Sort(out)
	return out
}
