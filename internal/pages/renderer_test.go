package pages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
)

type recordingTemplates struct {
	calls map[string]map[string]any
	fail  string
}

func (r *recordingTemplates) Render(name string, data any, out ...io.Writer) (string, error) {
	return r.RenderTemplate(name, data, out...)
}

func (r *recordingTemplates) RenderTemplate(name string, data any, _ ...io.Writer) (string, error) {
	if r.calls == nil {
		r.calls = map[string]map[string]any{}
	}
	m, _ := data.(map[string]any)
	r.calls[name] = m
	if name == r.fail {
		return "", errors.New("boom")
	}
	if name == "base.html" {
		return fmt.Sprintf("<html>%v</html>", m["content"]), nil
	}
	return "<body:" + name + ">", nil
}

func (r *recordingTemplates) RenderString(string, any, ...io.Writer) (string, error) { return "", nil }
func (r *recordingTemplates) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}
func (r *recordingTemplates) GlobalContext(any) error { return nil }

func newTestRenderer(t *testing.T, tpl *recordingTemplates) *Renderer {
	t.Helper()
	r, err := NewRenderer(RendererConfig{
		Domain:    "https://example.com/",
		BaseTitle: "Site",
		BuildTime: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}, RendererDependencies{Templates: tpl})
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return r
}

func TestRendererBlogPostPage(t *testing.T) {
	tpl := &recordingTemplates{}
	r := newTestRenderer(t, tpl)
	post := content.BlogPost{Slug: "hello", Title: "Hello", Category: "Tech", Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), HTML: "<p>x</p>", MetaDescription: "desc"}

	html, err := r.Render(context.Background(), NewBlogPostPage(post))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if html != "<html><body:blog_post.html></html>" {
		t.Fatalf("unexpected html %q", html)
	}

	contentCtx := tpl.calls["blog_post.html"]
	if contentCtx["static"] != "../static" || contentCtx["home"] != "../index.html" || contentCtx["date"] != "March 05, 2024" {
		t.Fatalf("unexpected content context %v", contentCtx)
	}

	base := tpl.calls["base.html"]
	if base["title"] != "Site | Hello" || base["meta_des"] != "desc" || base["custom_css"] != "blog_post" {
		t.Fatalf("unexpected base params %v", base)
	}
	if fmt.Sprint(base["canonical"]) != `<link rel="canonical" href="https://example.com/blogs/hello.html" />` {
		t.Fatalf("unexpected canonical %v", base["canonical"])
	}
	if fmt.Sprint(base["comment_open"]) != "<!--" || fmt.Sprint(base["comment_close"]) != "-->" {
		t.Fatalf("expected preload block commented out")
	}
	if base["copyright"] != 2026 {
		t.Fatalf("unexpected copyright %v", base["copyright"])
	}
}

func TestRendererStaticHomePage(t *testing.T) {
	tpl := &recordingTemplates{}
	r := newTestRenderer(t, tpl)
	home := NewStaticPage(runtimeconfig.StaticPageConfig{
		Slug: "index", Title: "Home", Template: "home.html", Output: "index.html", Preload: "hero",
	}, map[string]any{"founder_time": "1 yr 1 mo"})

	if _, err := r.Render(context.Background(), home); err != nil {
		t.Fatalf("render: %v", err)
	}
	base := tpl.calls["base.html"]
	if base["static"] != "static" || base["blog"] != "blog.html" {
		t.Fatalf("unexpected root relative links %v", base)
	}
	if base["canonical_url"] != "https://example.com/" {
		t.Fatalf("unexpected canonical %v", base["canonical_url"])
	}
	if fmt.Sprint(base["comment_open"]) != "" || base["preload"] != "hero" || base["founder_time"] != "1 yr 1 mo" {
		t.Fatalf("unexpected preload params %v", base)
	}
}

func TestCanonicalURLPaginatedListing(t *testing.T) {
	windows := Paginate("blog", 6, 2)
	posts := make([]content.BlogPost, 6)
	page := NewBlogListingPage(posts, windows[1], "default.jpg", "Blog index")
	if got := CanonicalURL("https://example.com", page); got != "https://example.com/blog.html" {
		t.Fatalf("unexpected canonical %q", got)
	}
	single := NewBlogListingPage(posts[:1], Paginate("blog", 1, 4)[0], "default.jpg", "Blog index")
	if got := CanonicalURL("https://example.com", single); got != "https://example.com/blog.html" {
		t.Fatalf("unexpected canonical %q", got)
	}
}

func TestCollapseSlashesKeepsScheme(t *testing.T) {
	if got := collapseSlashes("https://example.com//a///b.html"); got != "https://example.com/a/b.html" {
		t.Fatalf("unexpected url %q", got)
	}
}

func TestRendererPropagatesTemplateErrors(t *testing.T) {
	tpl := &recordingTemplates{fail: "services.html"}
	r := newTestRenderer(t, tpl)
	_, err := r.Render(context.Background(), NewServicesPage(nil, ""))
	if err == nil || !strings.Contains(err.Error(), "services.html") {
		t.Fatalf("expected content template error, got %v", err)
	}
	if _, ok := tpl.calls["base.html"]; ok {
		t.Fatalf("base template must not render after a content failure")
	}
}

func TestNewRendererRequiresTemplates(t *testing.T) {
	if _, err := NewRenderer(RendererConfig{}, RendererDependencies{}); !errors.Is(err, ErrTemplatesRequired) {
		t.Fatalf("expected ErrTemplatesRequired, got %v", err)
	}
}

func TestFounderTenure(t *testing.T) {
	now := time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC)
	cases := map[string]string{
		"2025-02": "1 yr 8 mo",
		"2026-10": "0 yr 0 mo",
		"2027-01": "0 yr 0 mo",
		"bad":     "",
	}
	for since, want := range cases {
		if got := FounderTenure(since, now); got != want {
			t.Fatalf("FounderTenure(%q) = %q, want %q", since, got, want)
		}
	}
}
