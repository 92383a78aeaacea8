package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"
	"testing"
	"time"

	storageadapter "github.com/goliatone/go-sitegen/internal/adapters/storage"
	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/pages"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

type stubLoader struct {
	posts    []content.BlogPost
	services []content.Service
	images   []content.GalleryImage
	err      error
}

func (l *stubLoader) LoadBlogPosts(context.Context) ([]content.BlogPost, *content.LoadReport, error) {
	return l.posts, &content.LoadReport{Kind: content.KindBlogPost}, l.err
}

func (l *stubLoader) LoadServices(context.Context) ([]content.Service, *content.LoadReport, error) {
	return l.services, &content.LoadReport{Kind: content.KindService}, nil
}

func (l *stubLoader) LoadGalleryImages(context.Context) ([]content.GalleryImage, *content.LoadReport, error) {
	return l.images, &content.LoadReport{Kind: content.KindGalleryImage}, nil
}

type rendererFunc func(ctx context.Context, page pages.Page) (string, error)

func (f rendererFunc) Render(ctx context.Context, page pages.Page) (string, error) {
	return f(ctx, page)
}

func stubRender(_ context.Context, page pages.Page) (string, error) {
	prefix := pages.RelativePrefix(pages.Depth(page.OutputPath()))
	return fmt.Sprintf(`<html><body><h1>%s</h1><img src="%sstatic/hero.png" alt="Hero"><img src="https://cdn.example.com/x.png"></body></html>`, page.Title(), prefix), nil
}

func post(slug string, day int) content.BlogPost {
	return content.BlogPost{
		ID:              identity.BlogPostUUID(slug),
		Slug:            slug,
		Title:           "Post " + slug,
		Category:        "AI",
		Date:            time.Date(2024, 3, day, 0, 0, 0, 0, time.UTC),
		Image:           slug + ".png",
		HTML:            "<p>Body of <strong>" + slug + "</strong></p>",
		MetaDescription: "About " + slug,
	}
}

func testLoader() *stubLoader {
	return &stubLoader{
		posts: []content.BlogPost{post("c", 3), post("b", 2), post("a", 1)},
		services: []content.Service{{
			ID:              identity.ServiceUUID("consulting"),
			Slug:            "consulting",
			Title:           "Consulting",
			HTML:            "<p>We help.</p>",
			MetaDescription: "Consulting services",
		}},
		images: []content.GalleryImage{{Filename: "one.jpg", Title: "One", Category: "General", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}},
	}
}

func testConfig() Config {
	cfg := ConfigFromRuntime(runtimeconfig.DefaultConfig())
	cfg.Domain = "https://example.com"
	cfg.BuildDate = "2025-01-15"
	cfg.PostsPerPage = 2
	cfg.GalleryPerPage = 4
	return cfg
}

func newTestService(cfg Config, loader ContentLoader, render rendererFunc, store *storageadapter.Memory) Service {
	deps := Dependencies{Loader: loader, Renderer: render}
	if store != nil {
		deps.Storage = store
	}
	return NewService(cfg, deps)
}

func TestBuildWritesPagesAndArtifacts(t *testing.T) {
	store := storageadapter.NewMemory()
	svc := newTestService(testConfig(), testLoader(), stubRender, store)

	result, err := svc.Build(context.Background(), BuildOptions{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	want := []string{
		"index.html", "about.html", "resume.html", "contact.html", "privacy.html", "terms.html", "404.html",
		"services.html", "blogs/c.html", "blogs/b.html", "blogs/a.html", "blog.html", "blog-2.html",
		"services/consulting.html", "gallery.html",
	}
	if len(result.Rendered) != len(want) {
		t.Fatalf("expected %d rendered pages, got %d", len(want), len(result.Rendered))
	}
	for i, output := range want {
		if result.Rendered[i].Output != output {
			t.Fatalf("rendered[%d]: expected %s, got %s", i, output, result.Rendered[i].Output)
		}
		if _, ok := store.File(output); !ok {
			t.Fatalf("expected %s to be written", output)
		}
	}
	if result.PagesBuilt != len(want) || result.PagesFailed != 0 {
		t.Fatalf("unexpected counters built=%d failed=%d", result.PagesBuilt, result.PagesFailed)
	}
	for _, output := range []string{
		sitemapPath, imageSitemapPath, robotsPath, searchIndexPath, rssPath, atomPath, manifestFileName,
		"blogs/low-Costl-teleoperated-drone-with-integrated-sprayer-for-precision-agriculture.html",
	} {
		if _, ok := store.File(output); !ok {
			t.Fatalf("expected artifact %s", output)
		}
	}
	if !store.HasDir(pages.BlogDir) || !store.HasDir(pages.ServicesDir) {
		t.Fatalf("expected detail directories to be reset")
	}
	if len(result.Loads) != 3 {
		t.Fatalf("expected three load reports, got %d", len(result.Loads))
	}
	if !result.GeneratedAt.Equal(time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected pinned build time, got %s", result.GeneratedAt)
	}
}

func TestBuildSitemapRules(t *testing.T) {
	store := storageadapter.NewMemory()
	svc := newTestService(testConfig(), testLoader(), stubRender, store)
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, _ := store.File(sitemapPath)
	sitemap := string(data)

	if !strings.HasPrefix(sitemap, `<?xml version="1.0" encoding="UTF-8"?>`) {
		t.Fatalf("expected xml header, got %q", sitemap[:40])
	}
	if strings.Contains(sitemap, "404.html") || strings.Contains(sitemap, "blog-2.html") {
		t.Fatalf("sitemap must skip 404 and listing continuations:\n%s", sitemap)
	}
	checks := []string{
		"<loc>https://example.com/</loc>\n    <lastmod>2025-01-15</lastmod>\n    <priority>1.0</priority>",
		"<loc>https://example.com/blog.html</loc>\n    <lastmod>2024-03-03</lastmod>\n    <priority>0.8</priority>",
		"<loc>https://example.com/blogs/a.html</loc>\n    <lastmod>2024-03-01</lastmod>\n    <priority>0.7</priority>",
		"<loc>https://example.com/static/hassan_resume.pdf</loc>\n    <lastmod>2025-01-15</lastmod>\n    <priority>0.6</priority>",
	}
	for _, check := range checks {
		if !strings.Contains(sitemap, check) {
			t.Fatalf("expected sitemap to contain %q\n%s", check, sitemap)
		}
	}
}

func TestBuildImageSitemapAndRobots(t *testing.T) {
	store := storageadapter.NewMemory()
	svc := newTestService(testConfig(), testLoader(), stubRender, store)
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, _ := store.File(imageSitemapPath)
	images := string(data)
	if strings.Contains(images, "cdn.example.com") {
		t.Fatalf("absolute image sources must be skipped")
	}
	if strings.Count(images, "<loc>https://example.com/blogs/a.html</loc>") != 2 {
		t.Fatalf("expected hero and post image for blogs/a.html:\n%s", images)
	}
	if !strings.Contains(images, "<image:loc>https://example.com/static/a.png</image:loc>") {
		t.Fatalf("expected context image resolved under static:\n%s", images)
	}
	if strings.Contains(images, "https://example.com/static/one.jpg") {
		t.Fatalf("gallery filenames must not resolve under static:\n%s", images)
	}
	if !strings.Contains(images, "content/gallery/one.jpg</image:loc>") {
		t.Fatalf("expected gallery image at its source path:\n%s", images)
	}
	if !strings.Contains(images, `xmlns:image="http://www.google.com/schemas/sitemap-image/1.1"`) {
		t.Fatalf("expected image namespace")
	}

	robots, _ := store.File(robotsPath)
	if !strings.Contains(string(robots), "Disallow: /cdn-cgi/") || !strings.Contains(string(robots), "Sitemap: https://example.com/sitemap-images.xml") {
		t.Fatalf("unexpected robots.txt:\n%s", robots)
	}
}

func TestRobotsOmitsImageSitemapWithoutGallery(t *testing.T) {
	a := siteArtifacts{cfg: testConfig(), summary: &LoadSummary{}}
	item, _, err := a.robots()
	if err != nil {
		t.Fatalf("robots: %v", err)
	}
	if strings.Contains(string(item.Data), imageSitemapPath) {
		t.Fatalf("image sitemap must not be listed without gallery images:\n%s", item.Data)
	}
}

func TestBuildSearchIndex(t *testing.T) {
	store := storageadapter.NewMemory()
	svc := newTestService(testConfig(), testLoader(), stubRender, store)
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	data, _ := store.File(searchIndexPath)
	if !bytes.Contains(data, []byte("\n  {\n    \"id\"")) {
		t.Fatalf("expected two-space indentation:\n%s", data)
	}
	var docs []searchDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	ids := map[string]int{}
	for _, doc := range docs {
		ids[doc.ID]++
	}
	for id, count := range ids {
		if count != 1 {
			t.Fatalf("duplicate id %s", id)
		}
	}
	for _, id := range []string{"page-index", "page-services", "page-blog", "page-gallery", "blog-a", "service-consulting"} {
		if ids[id] != 1 {
			t.Fatalf("expected document %s, got %v", id, ids)
		}
	}
	for _, id := range []string{"page-404", "page-blog-2", "page-blog-a", "page-service-consulting"} {
		if ids[id] != 0 {
			t.Fatalf("unexpected document %s", id)
		}
	}
	for _, doc := range docs {
		if doc.ID == "blog-a" && (doc.Date != "2024-03-01" || doc.Category != "AI" || doc.Content != "Body of a") {
			t.Fatalf("unexpected blog document %+v", doc)
		}
	}
}

func TestSearchIndexDropsDuplicateIDs(t *testing.T) {
	loader := testLoader()
	a := siteArtifacts{
		cfg:     testConfig(),
		summary: &LoadSummary{Posts: []content.BlogPost{post("a", 1), post("a", 2)}, Services: loader.services},
		logger:  logging.NoOp(),
	}
	docs := a.searchDocuments()
	if len(docs) != 2 || docs[0].ID != "blog-a" || docs[0].Date != "2024-03-01" || docs[1].ID != "service-consulting" {
		t.Fatalf("expected first duplicate kept and second dropped, got %+v", docs)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	first := storageadapter.NewMemory()
	second := storageadapter.NewMemory()
	if _, err := newTestService(testConfig(), testLoader(), stubRender, first).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	cfg := testConfig()
	cfg.Workers = 4
	if _, err := newTestService(cfg, testLoader(), stubRender, second).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("second build: %v", err)
	}
	if !maps.EqualFunc(first.Files(), second.Files(), bytes.Equal) {
		t.Fatalf("expected byte-identical output across builds")
	}
}

func TestBuildIsolatesPageFailures(t *testing.T) {
	boom := errors.New("template exploded")
	render := func(ctx context.Context, page pages.Page) (string, error) {
		if page.Slug() == "about" {
			return "", boom
		}
		return stubRender(ctx, page)
	}
	store := storageadapter.NewMemory()
	result, err := newTestService(testConfig(), testLoader(), render, store).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected render error, got %v", err)
	}
	if result.PagesFailed != 1 || result.PagesBuilt != 14 {
		t.Fatalf("unexpected counters built=%d failed=%d", result.PagesBuilt, result.PagesFailed)
	}
	if _, ok := store.File("about.html"); ok {
		t.Fatalf("failed page must not be written")
	}
	if _, ok := store.File("contact.html"); !ok {
		t.Fatalf("pages after the failure must still be written")
	}
	if result.Diagnostics[1].Slug != "about" || result.Diagnostics[1].Err == nil {
		t.Fatalf("expected diagnostic for about, got %+v", result.Diagnostics[1])
	}
}

func TestBuildRejectsDuplicateOutputs(t *testing.T) {
	cfg := testConfig()
	cfg.StaticPages = append(cfg.StaticPages, runtimeconfig.StaticPageConfig{
		Slug: "catalog", Title: "Catalog", Template: "catalog.html", Output: "services.html",
	})
	store := storageadapter.NewMemory()
	result, err := newTestService(cfg, testLoader(), stubRender, store).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, ErrDuplicateOutput) {
		t.Fatalf("expected ErrDuplicateOutput, got %v", err)
	}
	if result.PagesFailed != 1 {
		t.Fatalf("expected one failed page, got %d", result.PagesFailed)
	}
	data, _ := store.File("services.html")
	if !strings.Contains(string(data), "<h1>Catalog</h1>") {
		t.Fatalf("first page claiming the output must win, got %s", data)
	}
}

func TestBuildDryRunWritesNothing(t *testing.T) {
	store := storageadapter.NewMemory()
	result, err := newTestService(testConfig(), testLoader(), stubRender, store).Build(context.Background(), BuildOptions{DryRun: true})
	if err != nil {
		t.Fatalf("dry run: %v", err)
	}
	if !result.DryRun || len(result.Rendered) == 0 || result.ArtifactsBuilt == 0 {
		t.Fatalf("expected rendered pages and artifacts in dry run, got %+v", result)
	}
	if paths := store.Paths(); len(paths) != 0 {
		t.Fatalf("dry run wrote %v", paths)
	}
}

func TestBuildFailsWhenLoaderFails(t *testing.T) {
	loader := testLoader()
	loader.err = content.ErrDirectoryUnreadable
	_, err := newTestService(testConfig(), loader, stubRender, storageadapter.NewMemory()).Build(context.Background(), BuildOptions{})
	if !errors.Is(err, content.ErrDirectoryUnreadable) {
		t.Fatalf("expected loader error, got %v", err)
	}
}

func TestBuildRemovesStaleArtifacts(t *testing.T) {
	store := storageadapter.NewMemory()
	if _, err := newTestService(testConfig(), testLoader(), stubRender, store).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("first build: %v", err)
	}
	if _, ok := store.File("blog-2.html"); !ok {
		t.Fatalf("expected second listing page")
	}
	loader := testLoader()
	loader.posts = loader.posts[:1]
	if _, err := newTestService(testConfig(), loader, stubRender, store).Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("second build: %v", err)
	}
	if _, ok := store.File("blog-2.html"); ok {
		t.Fatalf("expected stale listing page to be removed")
	}
}

func TestClean(t *testing.T) {
	store := storageadapter.NewMemory()
	svc := newTestService(testConfig(), testLoader(), stubRender, store)
	if _, err := svc.Build(context.Background(), BuildOptions{}); err != nil {
		t.Fatalf("build: %v", err)
	}
	if err := svc.Clean(context.Background()); err != nil {
		t.Fatalf("clean: %v", err)
	}
	if paths := store.Paths(); len(paths) != 0 {
		t.Fatalf("expected clean output, got %v", paths)
	}
}

func TestPagesReturnsBuildOrder(t *testing.T) {
	cfg := testConfig()
	cfg.FounderSince = "2024-02"
	svc := newTestService(cfg, testLoader(), stubRender, nil)
	list, summary, err := svc.Pages(context.Background())
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	if len(summary.Posts) != 3 || list[0].Slug() != pages.SlugHome || list[7].Kind() != pages.KindServices {
		t.Fatalf("unexpected page order")
	}
	home := list[0].Context()
	if home[founderTimeKey] != "0 yr 11 mo" {
		t.Fatalf("expected founder time from pinned build date, got %v", home[founderTimeKey])
	}
	last := list[len(list)-1]
	if last.Kind() != pages.KindGalleryListing {
		t.Fatalf("expected gallery listing last, got %s", last.Kind())
	}
}

func TestListingDescriptionsComeFromConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Listings = runtimeconfig.ListingsConfig{
		BlogDescription:     "Notes from the workshop.",
		ServicesDescription: "What we offer.",
		GalleryDescription:  "Photos.",
	}
	svc := newTestService(cfg, testLoader(), stubRender, nil)
	list, _, err := svc.Pages(context.Background())
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	want := map[pages.Kind]string{
		pages.KindBlogListing:    "Notes from the workshop.",
		pages.KindServices:       "What we offer.",
		pages.KindGalleryListing: "Photos.",
	}
	for _, page := range list {
		if desc, ok := want[page.Kind()]; ok && page.MetaDescription() != desc {
			t.Fatalf("%s: expected %q, got %q", page.OutputPath(), desc, page.MetaDescription())
		}
	}
}

func TestEmptyCollectionsStillRenderListings(t *testing.T) {
	svc := newTestService(testConfig(), &stubLoader{}, stubRender, nil)
	list, _, err := svc.Pages(context.Background())
	if err != nil {
		t.Fatalf("pages: %v", err)
	}
	var outputs []string
	for _, p := range list {
		outputs = append(outputs, p.OutputPath())
	}
	joined := strings.Join(outputs, ",")
	if !strings.Contains(joined, "blog.html") || !strings.Contains(joined, "gallery.html") {
		t.Fatalf("expected empty listings to render one page, got %s", joined)
	}
}
