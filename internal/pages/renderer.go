package pages

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

var (
	ErrTemplatesRequired = errors.New("pages: template renderer required")
	ErrPageTemplateEmpty = errors.New("pages: page template is empty")
)

const defaultBaseTemplate = "base.html"

// RendererConfig holds site-wide values shared by every page.
type RendererConfig struct {
	Domain       string
	BaseTitle    string
	BaseTemplate string
	BuildTime    time.Time
	Theme        themes.Context
}

// RendererDependencies wires the renderer.
type RendererDependencies struct {
	Templates interfaces.TemplateRenderer
	InjectSVG templates.InjectFunc
	Logger    interfaces.Logger
}

// Renderer applies the two-stage page algorithm: the page template renders
// the body, then the base template wraps it.
type Renderer struct {
	cfg    RendererConfig
	deps   RendererDependencies
	logger interfaces.Logger
}

// NewRenderer constructs a page renderer.
func NewRenderer(cfg RendererConfig, deps RendererDependencies) (*Renderer, error) {
	if deps.Templates == nil {
		return nil, ErrTemplatesRequired
	}
	if strings.TrimSpace(cfg.BaseTemplate) == "" {
		cfg.BaseTemplate = defaultBaseTemplate
	}
	cfg.Domain = strings.TrimRight(strings.TrimSpace(cfg.Domain), "/")
	if !cfg.Theme.Enabled() {
		cfg.Theme = themes.Empty()
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Renderer{cfg: cfg, deps: deps, logger: logger}, nil
}

// Render returns the final HTML document for page.
func (r *Renderer) Render(ctx context.Context, page Page) (string, error) {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(page.Template()) == "" {
		return "", fmt.Errorf("%w: %s", ErrPageTemplateEmpty, page.Slug())
	}
	output := page.OutputPath()
	depth := Depth(output)
	static := StaticPath(depth)
	pageCtx := page.Context()

	shared := NavURLs(depth)
	shared["static"] = static
	if r.deps.InjectSVG != nil {
		shared["inject_svg"] = r.deps.InjectSVG
	}

	contentData := maps.Clone(shared)
	maps.Copy(contentData, pageCtx)
	body, err := r.deps.Templates.Render(page.Template(), contentData)
	if err != nil {
		return "", fmt.Errorf("render %s content template %s: %w", output, page.Template(), err)
	}

	commentOpen, commentClose := "", ""
	if page.Preload() == "" {
		commentOpen, commentClose = "<!--", "-->"
	}

	base := shared
	base["title"] = r.cfg.BaseTitle + " | " + page.Title()
	base["content"] = templates.Markup(body)
	base["preload"] = page.Preload()
	base["comment_open"] = templates.Markup(commentOpen)
	base["comment_close"] = templates.Markup(commentClose)
	base["meta_des"] = page.MetaDescription()
	base["copyright"] = r.cfg.BuildTime.Year()
	base["canonical"] = templates.Markup(CanonicalTag(r.CanonicalURL(page)))
	base["canonical_url"] = r.CanonicalURL(page)
	base["custom_css"] = page.CustomCSS()
	base["theme"] = r.cfg.Theme.Map()
	base["theme_style"] = templates.Markup(r.cfg.Theme.Style())
	maps.Copy(base, pageCtx)

	html, err := r.deps.Templates.Render(r.cfg.BaseTemplate, base)
	if err != nil {
		return "", fmt.Errorf("render %s base template %s: %w", output, r.cfg.BaseTemplate, err)
	}
	r.logger.Debug("pages.rendered", "page", page.Slug(), "output", output, "bytes", len(html))
	return html, nil
}

// CanonicalURL returns the absolute canonical URL of page. The home page
// maps to the domain root and paginated listings to their first page.
func (r *Renderer) CanonicalURL(page Page) string {
	return CanonicalURL(r.cfg.Domain, page)
}

// CanonicalURL joins domain and the canonical path of page.
func CanonicalURL(domain string, page Page) string {
	domain = strings.TrimRight(domain, "/")
	output := page.OutputPath()
	if output == OutputHome {
		return domain + "/"
	}
	target := output
	if c, ok := page.(Canonical); ok {
		if _, total := page.Paginated(); total > 1 {
			target = c.CanonicalPath()
		}
	}
	return collapseSlashes(domain + "/" + target)
}

// CanonicalTag renders the canonical link element.
func CanonicalTag(url string) string {
	return `<link rel="canonical" href="` + url + `" />`
}

func collapseSlashes(url string) string {
	scheme := ""
	if idx := strings.Index(url, "://"); idx >= 0 {
		scheme, url = url[:idx+3], url[idx+3:]
	}
	for strings.Contains(url, "//") {
		url = strings.ReplaceAll(url, "//", "/")
	}
	return scheme + url
}

// Depth counts the directory levels of an output path.
func Depth(output string) int {
	return strings.Count(strings.TrimSuffix(output, ".html"), "/")
}

// RelativePrefix is "../" repeated depth times.
func RelativePrefix(depth int) string {
	return strings.Repeat("../", max(depth, 0))
}

// StaticPath is the static asset root as seen from depth.
func StaticPath(depth int) string {
	return RelativePrefix(depth) + "static"
}

// NavURLs returns the site navigation links relative to depth.
func NavURLs(depth int) map[string]any {
	prefix := RelativePrefix(depth)
	links := map[string]string{
		"home":          "index.html",
		"blog":          "blog.html",
		"about":         "about.html",
		"sitemap":       "sitemap.xml",
		"image_sitemap": "sitemap-images.xml",
		"terms":         "terms.html",
		"privacy":       "privacy.html",
		"resume":        "resume.html",
		"contact":       "contact.html",
		"services_page": "services.html",
		"gallery":       "gallery.html",
	}
	out := make(map[string]any, len(links))
	for key, target := range links {
		out[key] = prefix + target
	}
	return out
}

// FounderTenure formats the whole months elapsed since a YYYY-MM month as
// "X yr Y mo". Dates in the future yield "0 yr 0 mo".
func FounderTenure(since string, now time.Time) string {
	start, err := time.Parse("2006-01", strings.TrimSpace(since))
	if err != nil {
		return ""
	}
	months := (now.Year()-start.Year())*12 + int(now.Month()) - int(start.Month())
	if months < 0 {
		months = 0
	}
	return fmt.Sprintf("%d yr %d mo", months/12, months%12)
}
