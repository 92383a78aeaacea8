package sitegen

import (
	"context"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/themes"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// GeneratorService exports the static site generator contract.
type GeneratorService = generator.Service

// ContentLoader exports the content loading contract used by the generator.
type ContentLoader = generator.ContentLoader

// PageRenderer exports the page rendering contract used by the generator.
type PageRenderer = generator.PageRenderer

// BuildOptions exports the per-build toggles.
type BuildOptions = generator.BuildOptions

// BuildResult exports the build summary.
type BuildResult = generator.BuildResult

// Theme exports the resolved theme context.
type Theme = themes.Context

// Module represents the top level site generator façade.
type Module struct {
	container *di.Container
}

// New constructs a module using the provided configuration and optional DI overrides.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Generator returns the configured generator service.
func (m *Module) Generator() GeneratorService {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.GeneratorService()
}

// Loader returns the content loader.
func (m *Module) Loader() *content.Loader {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.ContentLoader()
}

// Renderer returns the shared page renderer.
func (m *Module) Renderer() *pages.Renderer {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.PageRenderer()
}

// Theme returns the selected theme, empty when none is configured.
func (m *Module) Theme() Theme {
	if m == nil || m.container == nil {
		return themes.Empty()
	}
	return m.container.Theme()
}

// LoggerProvider returns the configured logger provider.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.LoggerProvider()
}

// Build runs a full site build.
func (m *Module) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	return m.Generator().Build(ctx, opts)
}

// Clean removes previously generated artifacts.
func (m *Module) Clean(ctx context.Context) error {
	return m.Generator().Clean(ctx)
}

// Option customises the dependency graph built by New.
type Option = di.Option

var (
	WithLoggerProvider   = di.WithLoggerProvider
	WithSourceFS         = di.WithSourceFS
	WithStorage          = di.WithStorage
	WithClock            = di.WithClock
	WithMarkdownParser   = di.WithMarkdownParser
	WithTemplateRenderer = di.WithTemplateRenderer
	WithGeneratorService = di.WithGeneratorService
)
