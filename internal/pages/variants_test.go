package pages

import (
	"testing"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
)

func TestBlogListingContext(t *testing.T) {
	posts := []content.BlogPost{
		{Slug: "a", Title: "A", Image: "a.png", Date: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "b", Title: "B", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Slug: "c", Title: "C", Date: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)},
	}
	windows := Paginate("blog", len(posts), 2)
	first := NewBlogListingPage(posts, windows[0], "default.jpg", "Blog index")
	ctx := first.Context()
	items := ctx["blog_posts"].([]map[string]any)
	if len(items) != 2 || items[0]["filename"] != "./blogs/a.html" || items[0]["image_url"] != "./static/a.png" || items[1]["image_url"] != "./static/default.jpg" {
		t.Fatalf("unexpected items %v", items)
	}
	if _, ok := ctx["pagination"]; !ok {
		t.Fatalf("expected pagination block")
	}
	if first.Title() != "Blog" || first.Slug() != "blog" {
		t.Fatalf("unexpected first page identity %s %s", first.Title(), first.Slug())
	}
	if modified, ok := first.LastModified(); !ok || !modified.Equal(posts[0].Date) {
		t.Fatalf("unexpected last modified %v", modified)
	}

	second := NewBlogListingPage(posts, windows[1], "default.jpg", "Blog index")
	if second.Title() != "Blog - Page 2" || second.OutputPath() != "blog-2.html" || len(second.Posts()) != 1 {
		t.Fatalf("unexpected second page %s %s", second.Title(), second.OutputPath())
	}
	if !IsListingContinuation(second) || IsListingContinuation(first) {
		t.Fatalf("unexpected continuation flags")
	}
}

func TestGalleryListingContext(t *testing.T) {
	images := []content.GalleryImage{{Filename: "a.jpg", Title: "A", Tags: []string{}, Date: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}}
	page := NewGalleryListingPage(images, Paginate("gallery", 1, 4)[0], "content/gallery/", "Gallery index")
	ctx := page.Context()
	items := ctx["images"].([]map[string]any)
	if items[0]["src"] != "content/gallery/a.jpg" || items[0]["date"] != "2024-01-02" {
		t.Fatalf("unexpected image item %v", items[0])
	}
	if _, ok := ctx["pagination"]; ok {
		t.Fatalf("single gallery page must not paginate")
	}
	if page.MetaDescription() != "Gallery index" {
		t.Fatalf("unexpected gallery description %q", page.MetaDescription())
	}
}

func TestDetailPages(t *testing.T) {
	svc := NewServicePage(content.Service{Slug: "web", Title: "Web", Features: []string{"x"}})
	if svc.OutputPath() != "services/web.html" || svc.Slug() != "service-web" || !IsDetail(svc) {
		t.Fatalf("unexpected service page %s %s", svc.OutputPath(), svc.Slug())
	}
	post := NewBlogPostPage(content.BlogPost{Slug: "p"})
	if post.OutputPath() != "blogs/p.html" || Depth(post.OutputPath()) != 1 || !IsDetail(post) {
		t.Fatalf("unexpected post page")
	}
	index := NewServicesPage([]content.Service{{Slug: "web"}}, "Services index")
	items := index.Context()["services"].([]map[string]any)
	if items[0]["url"] != "./services/web.html" || IsDetail(index) {
		t.Fatalf("unexpected services index %v", items)
	}
	if index.MetaDescription() != "Services index" {
		t.Fatalf("unexpected services description %q", index.MetaDescription())
	}
}
