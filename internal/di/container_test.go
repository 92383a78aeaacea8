package di_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-sitegen/internal/adapters/storage"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

const pageTemplate = `<section data-static="{{ .static }}">page</section>`

func siteSources() fstest.MapFS {
	sources := fstest.MapFS{
		"templates/base.html": {Data: []byte(`<html><head><title>{{ .title }}</title>{{ .canonical }}</head><body>{{ .content }}<img src="{{ .static }}/logo.png"></body></html>`)},
		"content/blogs/hello.md": {Data: []byte("Hello\nTech\n2024-03-05\ncover.png\nA post\n# Body\n\nSome text\n")},
		"content/services/web.md": {Data: []byte("---\ntitle: Web\ndescription: Sites\n---\n## Scope\n")},
		"content/gallery/sunset.jpg": {Data: []byte("jpg")},
		"static/icons/star.svg":      {Data: []byte(`<svg viewBox="0 0 1 1"><path fill="#000"/></svg>`)},
	}
	for _, name := range []string{
		"home.html", "about.html", "resume.html", "contact.html", "privacy.html", "terms.html", "404.html",
		"blog.html", "blog_post.html", "services.html", "service_detail.html", "gallery.html",
	} {
		sources["templates/"+name] = &fstest.MapFile{Data: []byte(pageTemplate)}
	}
	return sources
}

func testConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Site.Domain = "https://example.com"
	cfg.Site.BuildDate = "2025-01-15"
	cfg.Site.FounderSince = "2024-02"
	return cfg
}

func TestNewContainerBuildsSite(t *testing.T) {
	store := storage.NewMemory()
	container, err := di.NewContainer(testConfig(),
		di.WithSourceFS(siteSources()),
		di.WithStorage(store),
		di.WithLoggerProvider(newRecordingProvider()),
	)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	result, err := container.GeneratorService().Build(context.Background(), generator.BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result.PagesBuilt != 12 || result.PagesFailed != 0 {
		t.Fatalf("unexpected page counts built=%d failed=%d", result.PagesBuilt, result.PagesFailed)
	}

	for _, output := range []string{
		"index.html", "404.html", "blog.html", "blogs/hello.html", "services.html",
		"services/web.html", "gallery.html", "sitemap.xml", "robots.txt",
		"static/search-index.json", "feed.xml", "atom.xml",
	} {
		if _, ok := store.File(output); !ok {
			t.Errorf("expected %s to be written, have %v", output, store.Paths())
		}
	}

	post, _ := store.File("blogs/hello.html")
	if !strings.Contains(string(post), `data-static="../static"`) {
		t.Fatalf("expected blog page to use the nested static prefix: %s", post)
	}
	home, _ := store.File("index.html")
	if !strings.Contains(string(home), `href="https://example.com/"`) {
		t.Fatalf("expected canonical home url: %s", home)
	}
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Site.Domain = ""
	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestNewContainerSupportsDjangoEngine(t *testing.T) {
	cfg := testConfig()
	cfg.Templates.Engine = "django"
	if _, err := di.NewContainer(cfg, di.WithSourceFS(siteSources())); err != nil {
		t.Fatalf("django engine should be accepted: %v", err)
	}
}

func TestNewContainerFailsOnMissingTheme(t *testing.T) {
	cfg := testConfig()
	cfg.Theme.Dir = "themes/missing"
	if _, err := di.NewContainer(cfg, di.WithSourceFS(siteSources()), di.WithStorage(storage.NewMemory())); err == nil {
		t.Fatal("expected theme manifest error")
	}
}

func TestNewContainerDefaultsToFilesystemStorage(t *testing.T) {
	cfg := testConfig()
	cfg.Paths.OutputDir = t.TempDir()
	container, err := di.NewContainer(cfg, di.WithSourceFS(siteSources()))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	fsStore, ok := container.StorageProvider().(*storage.Filesystem)
	if !ok {
		t.Fatalf("expected filesystem storage, got %T", container.StorageProvider())
	}
	if fsStore.Root() != cfg.Paths.OutputDir {
		t.Fatalf("expected root %s, got %s", cfg.Paths.OutputDir, fsStore.Root())
	}
}

func TestContainerExposesServices(t *testing.T) {
	container, err := di.NewContainer(testConfig(), di.WithSourceFS(siteSources()), di.WithStorage(storage.NewMemory()))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if container.ContentLoader() == nil || container.PageRenderer() == nil || container.MarkdownParser() == nil {
		t.Fatal("expected content, pages and markdown services")
	}
	if container.Theme().Enabled() {
		t.Fatal("expected no theme without a theme directory")
	}
	if !container.TemplateRenderer().HasTemplate("base.html") {
		t.Fatal("expected templates loaded from the source filesystem")
	}
	if got := container.SVGInjector().Inject("icons/star", svgOptions()); !strings.Contains(got, "<svg") {
		t.Fatalf("expected icon from static dir, got %q", got)
	}
}
