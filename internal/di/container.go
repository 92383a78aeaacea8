package di

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/adapters/storage"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/directives"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/svg"
	"github.com/goliatone/go-sitegen/internal/templates"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Container wires every service a site build needs from a single Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	sources        fs.FS
	storage        interfaces.StorageProvider
	now            func() time.Time

	markdown  interfaces.MarkdownParser
	templates templates.Renderer
	injector  *svg.Injector
	expander  *directives.Expander
	loader    *content.Loader
	themeFS   fs.FS
	theme     themes.Context
	renderer  *pages.Renderer
	generator generator.Service
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider derived from Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithSourceFS resolves every configured source directory inside fsys
// instead of the host filesystem.
func WithSourceFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.sources = fsys
	}
}

// WithStorage overrides the output storage provider.
func WithStorage(provider interfaces.StorageProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.storage = provider
		}
	}
}

// WithClock overrides the clock used when no build date is pinned.
func WithClock(now func() time.Time) Option {
	return func(c *Container) {
		if now != nil {
			c.now = now
		}
	}
}

// WithMarkdownParser overrides the goldmark parser.
func WithMarkdownParser(parser interfaces.MarkdownParser) Option {
	return func(c *Container) {
		if parser != nil {
			c.markdown = parser
		}
	}
}

// WithTemplateRenderer overrides the engine selected by Config.Templates.
func WithTemplateRenderer(renderer templates.Renderer) Option {
	return func(c *Container) {
		if renderer != nil {
			c.templates = renderer
		}
	}
}

// WithGeneratorService replaces the generator entirely.
func WithGeneratorService(svc generator.Service) Option {
	return func(c *Container) {
		if svc != nil {
			c.generator = svc
		}
	}
}

// NewContainer validates cfg and builds the service graph.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{
		Config: cfg.Clone(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.loggerProvider == nil {
		provider, err := newLoggerProvider(c.Config.Logging)
		if err != nil {
			return nil, err
		}
		c.loggerProvider = provider
	}
	if c.storage == nil {
		c.storage = storage.NewFilesystem(c.Config.Paths.OutputDir)
	}
	if c.markdown == nil {
		c.markdown = markdown.NewGoldmarkParser(parseOptions(c.Config.Markdown))
	}

	if err := c.configureRendering(); err != nil {
		return nil, err
	}
	if err := c.configureContent(); err != nil {
		return nil, err
	}
	if err := c.configurePages(); err != nil {
		return nil, err
	}
	if c.generator == nil {
		c.generator = generator.NewService(generator.ConfigFromRuntime(c.Config), generator.Dependencies{
			Loader:      c.loader,
			Renderer:    c.renderer,
			Storage:     c.storage,
			ThemeAssets: c.themeFS,
			Theme:       c.theme,
			Logger:      logging.GeneratorLogger(c.loggerProvider),
			Now:         c.now,
		})
	}

	logging.ModuleLogger(c.loggerProvider, "sitegen.di").Debug("container.configured",
		"engine", c.Config.Templates.Engine,
		"theme", c.theme.Name,
		"output", c.Config.Paths.OutputDir,
	)
	return c, nil
}

func (c *Container) configureRendering() error {
	svgFS, err := c.dirFS(c.Config.Paths.SVGDir)
	if err != nil {
		return err
	}
	c.injector = svg.NewInjector(svgFS, logging.ModuleLogger(c.loggerProvider, "sitegen.svg"))

	if c.templates == nil {
		templatesFS, err := c.dirFS(c.Config.Paths.TemplatesDir)
		if err != nil {
			return err
		}
		renderer, err := templates.New(c.Config.Templates.Engine, templatesFS, templates.Options{
			InjectSVG: c.injector.Func(),
		})
		if err != nil {
			return err
		}
		c.templates = renderer
	}
	c.expander = directives.NewExpander(directives.NewDefaultRegistry(), c.templates)

	c.theme = themes.Empty()
	if dir := strings.TrimSpace(c.Config.Theme.Dir); dir != "" {
		themeFS, err := c.dirFS(dir)
		if err != nil {
			return err
		}
		theme, err := themes.Load(themeFS, themes.Config{
			Name:      c.Config.Theme.Name,
			Variant:   c.Config.Theme.Variant,
			CSSPrefix: c.Config.Theme.CSSPrefix,
		})
		if err != nil {
			return err
		}
		c.themeFS = themeFS
		c.theme = theme
	}
	return nil
}

func (c *Container) configureContent() error {
	blogs, err := c.dirFS(c.Config.Paths.BlogDir)
	if err != nil {
		return err
	}
	services, err := c.dirFS(c.Config.Paths.ServicesDir)
	if err != nil {
		return err
	}
	gallery, err := c.dirFS(c.Config.Paths.GalleryDir)
	if err != nil {
		return err
	}
	loader, err := content.NewLoader(content.LoaderConfig{
		Markdown: parseOptions(c.Config.Markdown),
		Directives: directives.Context{
			InjectSVG: c.injector.Func(),
			Config:    siteContext(c.Config.Site),
		},
	}, content.LoaderDependencies{
		Blogs:    blogs,
		Services: services,
		Gallery:  gallery,
		Markdown: c.markdown,
		Expander: c.expander,
		Logger:   logging.ContentLogger(c.loggerProvider),
		Now:      c.buildClock,
	})
	if err != nil {
		return err
	}
	c.loader = loader
	return nil
}

// buildClock pins fallback content dates to site.build_date when it is set.
func (c *Container) buildClock() time.Time {
	return c.Config.BuildTime(c.now)
}

func (c *Container) configurePages() error {
	renderer, err := pages.NewRenderer(pages.RendererConfig{
		Domain:       c.Config.Domain(),
		BaseTitle:    c.Config.Site.BaseTitle,
		BaseTemplate: c.Config.Templates.Base,
		BuildTime:    c.Config.BuildTime(c.now),
		Theme:        c.theme,
	}, pages.RendererDependencies{
		Templates: c.templates,
		InjectSVG: c.injector.Func(),
		Logger:    logging.PagesLogger(c.loggerProvider),
	})
	if err != nil {
		return err
	}
	c.renderer = renderer
	return nil
}

// dirFS resolves a configured directory. With a source override the
// directory is taken relative to it; otherwise the host filesystem is used.
func (c *Container) dirFS(dir string) (fs.FS, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = "."
	}
	if c.sources == nil {
		return os.DirFS(dir), nil
	}
	name := path.Clean(filepath.ToSlash(dir))
	if name == "." {
		return c.sources, nil
	}
	sub, err := fs.Sub(c.sources, strings.TrimPrefix(name, "/"))
	if err != nil {
		return nil, fmt.Errorf("di: resolve %s: %w", dir, err)
	}
	return sub, nil
}

func parseOptions(cfg runtimeconfig.MarkdownConfig) interfaces.ParseOptions {
	return interfaces.ParseOptions{
		Extensions: append([]string(nil), cfg.Extensions...),
		Sanitize:   cfg.Sanitize,
		HardWraps:  cfg.HardWraps,
		SafeMode:   cfg.SafeMode,
	}
}

func siteContext(site runtimeconfig.SiteConfig) map[string]any {
	return map[string]any{
		"domain":      strings.TrimRight(site.Domain, "/"),
		"base_title":  site.BaseTitle,
		"description": site.Description,
		"author":      site.Author,
	}
}

// LoggerProvider returns the configured logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// StorageProvider returns the output storage provider.
func (c *Container) StorageProvider() interfaces.StorageProvider {
	return c.storage
}

// MarkdownParser returns the markdown parser.
func (c *Container) MarkdownParser() interfaces.MarkdownParser {
	return c.markdown
}

// TemplateRenderer returns the template engine.
func (c *Container) TemplateRenderer() templates.Renderer {
	return c.templates
}

// SVGInjector returns the icon injector.
func (c *Container) SVGInjector() *svg.Injector {
	return c.injector
}

// ContentLoader returns the content loader.
func (c *Container) ContentLoader() *content.Loader {
	return c.loader
}

// PageRenderer returns the page renderer.
func (c *Container) PageRenderer() *pages.Renderer {
	return c.renderer
}

// Theme returns the selected theme context.
func (c *Container) Theme() themes.Context {
	return c.theme
}

// GeneratorService returns the build orchestrator.
func (c *Container) GeneratorService() generator.Service {
	return c.generator
}
