package bootstrap

import (
	"context"
	"errors"
	"testing"
	"testing/fstest"

	sitegen "github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/internal/adapters/storage"
	staticcmd "github.com/goliatone/go-sitegen/internal/commands/static"
)

func testSources() fstest.MapFS {
	sources := fstest.MapFS{
		"templates/base.html":     {Data: []byte(`<html><body>{{ .content }}</body></html>`)},
		"content/blogs/launch.md": {Data: []byte("Launch\nNews\n2025-01-02\ncover.png\nWe launched\nBody text\n")},
	}
	for _, name := range []string{
		"home.html", "about.html", "resume.html", "contact.html", "privacy.html", "terms.html", "404.html",
		"blog.html", "blog_post.html", "services.html", "service_detail.html", "gallery.html",
	} {
		sources["templates/"+name] = &fstest.MapFile{Data: []byte(`<p>page</p>`)}
	}
	return sources
}

func TestBuildModuleCollectsHandlers(t *testing.T) {
	cfg := sitegen.DefaultConfig()
	cfg.Site.BuildDate = "2025-01-15"
	store := storage.NewMemory()

	res, err := BuildModule(Options{
		Config:         &cfg,
		Domain:         "https://example.com",
		Sources:        testSources(),
		Storage:        store,
		EnableCommands: true,
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	handlers := res.Collector.Handlers()
	if len(handlers) != 3 {
		t.Fatalf("expected 3 collected handlers, got %d", len(handlers))
	}

	build, ok := handlers[0].(*staticcmd.BuildSiteHandler)
	if !ok {
		t.Fatalf("expected build handler, got %T", handlers[0])
	}
	if err := build.Execute(context.Background(), staticcmd.BuildSiteCommand{}); err != nil {
		t.Fatalf("execute build: %v", err)
	}
	if _, ok := store.File("blogs/launch.html"); !ok {
		t.Fatalf("expected blog page written, have %v", store.Paths())
	}
}

func TestBuildModuleWithoutCommands(t *testing.T) {
	res, err := BuildModule(Options{
		Domain:  "https://example.com",
		Sources: testSources(),
		Storage: storage.NewMemory(),
	})
	if err != nil {
		t.Fatalf("build module: %v", err)
	}
	if res.Collector != nil {
		t.Fatal("expected no collector when commands are disabled")
	}
	if res.Module.Generator() == nil {
		t.Fatal("expected generator service")
	}
}

func TestBuildModuleRejectsInvalidDomain(t *testing.T) {
	_, err := BuildModule(Options{
		Domain:  "example.com",
		Sources: testSources(),
		Storage: storage.NewMemory(),
	})
	if !errors.Is(err, sitegen.ErrSiteDomainInvalid) {
		t.Fatalf("expected invalid domain error, got %v", err)
	}
}
