package pages

import (
	"fmt"
	"maps"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/internal/templates"
)

// StaticPage is a fixed topic page declared in configuration.
type StaticPage struct {
	def   runtimeconfig.StaticPageConfig
	extra map[string]any
}

// NewStaticPage builds a static page. extra is layered over the configured
// context.
func NewStaticPage(def runtimeconfig.StaticPageConfig, extra map[string]any) *StaticPage {
	return &StaticPage{def: def, extra: maps.Clone(extra)}
}

func (p *StaticPage) Kind() Kind              { return KindStatic }
func (p *StaticPage) Slug() string            { return p.def.Slug }
func (p *StaticPage) Title() string           { return p.def.Title }
func (p *StaticPage) Template() string        { return p.def.Template }
func (p *StaticPage) OutputPath() string      { return strings.TrimPrefix(path.Clean(p.def.Output), "/") }
func (p *StaticPage) MetaDescription() string { return p.def.MetaDescription }
func (p *StaticPage) CustomCSS() string       { return p.def.CSS }
func (p *StaticPage) Preload() string         { return p.def.Preload }
func (p *StaticPage) Paginated() (int, int)   { return 1, 1 }

func (p *StaticPage) Context() map[string]any {
	ctx := maps.Clone(p.def.Context)
	if ctx == nil {
		ctx = map[string]any{}
	}
	maps.Copy(ctx, p.extra)
	return ctx
}

// BlogPostPage renders one post under blogs/.
type BlogPostPage struct {
	post content.BlogPost
}

func NewBlogPostPage(post content.BlogPost) *BlogPostPage {
	return &BlogPostPage{post: post}
}

func (p *BlogPostPage) Kind() Kind              { return KindBlogPost }
func (p *BlogPostPage) Slug() string            { return "blog-" + p.post.Slug }
func (p *BlogPostPage) Title() string           { return p.post.Title }
func (p *BlogPostPage) Template() string        { return "blog_post.html" }
func (p *BlogPostPage) OutputPath() string      { return BlogPostPath(p.post.Slug) }
func (p *BlogPostPage) MetaDescription() string { return p.post.MetaDescription }
func (p *BlogPostPage) CustomCSS() string       { return "blog_post" }
func (p *BlogPostPage) Preload() string         { return "" }
func (p *BlogPostPage) Paginated() (int, int)   { return 1, 1 }
func (p *BlogPostPage) Post() content.BlogPost  { return p.post }

func (p *BlogPostPage) LastModified() (time.Time, bool) {
	return p.post.Date, !p.post.Date.IsZero()
}

func (p *BlogPostPage) Context() map[string]any {
	return map[string]any{
		"title":        p.post.Title,
		"category":     p.post.Category,
		"date":         p.post.Date.Format(displayDateLayout),
		"image":        p.post.Image,
		"blog_content": templates.Markup(p.post.HTML),
		"meta_des":     p.post.MetaDescription,
	}
}

// Detail page directories, relative to the output root.
const (
	BlogDir     = "blogs"
	ServicesDir = "services"
)

// BlogPostPath is the output path of a post.
func BlogPostPath(slug string) string {
	return BlogDir + "/" + slug + ".html"
}

// ServicePath is the output path of a service detail page.
func ServicePath(slug string) string {
	return ServicesDir + "/" + slug + ".html"
}

// BlogListingPage is one page of the blog index.
type BlogListingPage struct {
	posts        []content.BlogPost
	window       Window
	defaultImage string
	description  string
}

// NewBlogListingPage holds posts[window.Start:window.End].
func NewBlogListingPage(posts []content.BlogPost, window Window, defaultImage, description string) *BlogListingPage {
	return &BlogListingPage{posts: posts[window.Start:window.End], window: window, defaultImage: defaultImage, description: description}
}

func (p *BlogListingPage) Kind() Kind         { return KindBlogListing }
func (p *BlogListingPage) Slug() string       { return p.window.Slug() }
func (p *BlogListingPage) Template() string   { return "blog.html" }
func (p *BlogListingPage) OutputPath() string { return p.window.OutputPath() }
func (p *BlogListingPage) CustomCSS() string  { return "blog" }
func (p *BlogListingPage) Preload() string    { return "" }
func (p *BlogListingPage) Paginated() (int, int) {
	return p.window.Page, p.window.Total
}
func (p *BlogListingPage) CanonicalPath() string { return pageFile(p.window.Base, 1) }
func (p *BlogListingPage) Posts() []content.BlogPost {
	return p.posts
}

func (p *BlogListingPage) Title() string {
	if p.window.Page <= 1 {
		return "Blog"
	}
	return fmt.Sprintf("Blog - Page %d", p.window.Page)
}

func (p *BlogListingPage) MetaDescription() string { return p.description }

// LastModified is the newest post date on the page.
func (p *BlogListingPage) LastModified() (time.Time, bool) {
	var newest time.Time
	for _, post := range p.posts {
		if post.Date.After(newest) {
			newest = post.Date
		}
	}
	return newest, !newest.IsZero()
}

func (p *BlogListingPage) Context() map[string]any {
	items := make([]map[string]any, 0, len(p.posts))
	for _, post := range p.posts {
		image := p.defaultImage
		if post.Image != "" {
			image = post.Image
		}
		items = append(items, map[string]any{
			"slug":      post.Slug,
			"title":     post.Title,
			"category":  post.Category,
			"date":      post.Date.Format(displayDateLayout),
			"filename":  "./" + BlogPostPath(post.Slug),
			"image_url": "./static/" + image,
			"meta_des":  post.MetaDescription,
		})
	}
	ctx := map[string]any{"blog_posts": items}
	if pagination := p.window.Context(); pagination != nil {
		ctx["pagination"] = pagination
	}
	return ctx
}

// ServicePage renders one service under services/.
type ServicePage struct {
	service content.Service
}

func NewServicePage(service content.Service) *ServicePage {
	return &ServicePage{service: service}
}

func (p *ServicePage) Kind() Kind               { return KindService }
func (p *ServicePage) Slug() string             { return "service-" + p.service.Slug }
func (p *ServicePage) Title() string            { return p.service.Title }
func (p *ServicePage) Template() string         { return "service_detail.html" }
func (p *ServicePage) OutputPath() string       { return ServicePath(p.service.Slug) }
func (p *ServicePage) MetaDescription() string  { return p.service.MetaDescription }
func (p *ServicePage) CustomCSS() string        { return "services_details" }
func (p *ServicePage) Preload() string          { return "" }
func (p *ServicePage) Paginated() (int, int)    { return 1, 1 }
func (p *ServicePage) Service() content.Service { return p.service }

func (p *ServicePage) Context() map[string]any {
	return map[string]any{
		"title":           p.service.Title,
		"price":           p.service.Price,
		"image":           p.service.Image,
		"icon":            p.service.Icon,
		"features":        p.service.Features,
		"service_content": templates.Markup(p.service.HTML),
		"meta_des":        p.service.MetaDescription,
	}
}

// ServicesPage is the services index.
type ServicesPage struct {
	services    []content.Service
	description string
}

func NewServicesPage(services []content.Service, description string) *ServicesPage {
	return &ServicesPage{services: services, description: description}
}

func (p *ServicesPage) Kind() Kind            { return KindServices }
func (p *ServicesPage) Slug() string          { return "services" }
func (p *ServicesPage) Title() string         { return "Services" }
func (p *ServicesPage) Template() string      { return "services.html" }
func (p *ServicesPage) OutputPath() string    { return "services.html" }
func (p *ServicesPage) CustomCSS() string     { return "services" }
func (p *ServicesPage) Preload() string       { return "" }
func (p *ServicesPage) Paginated() (int, int) { return 1, 1 }

func (p *ServicesPage) MetaDescription() string { return p.description }

func (p *ServicesPage) Context() map[string]any {
	items := make([]map[string]any, 0, len(p.services))
	for _, svc := range p.services {
		items = append(items, map[string]any{
			"slug":             svc.Slug,
			"title":            svc.Title,
			"description":      svc.Description,
			"icon":             svc.Icon,
			"image":            svc.Image,
			"price":            svc.Price,
			"features":         svc.Features,
			"content_html":     templates.Markup(svc.HTML),
			"meta_description": svc.MetaDescription,
			"url":              "./" + ServicePath(svc.Slug),
		})
	}
	return map[string]any{"services": items}
}

// GalleryListingPage is one page of the gallery.
type GalleryListingPage struct {
	images      []content.GalleryImage
	window      Window
	galleryURL  string
	description string
}

// NewGalleryListingPage holds images[window.Start:window.End]. galleryURL is
// the path under which image files are served.
func NewGalleryListingPage(images []content.GalleryImage, window Window, galleryURL, description string) *GalleryListingPage {
	return &GalleryListingPage{images: images[window.Start:window.End], window: window, galleryURL: galleryURL, description: description}
}

func (p *GalleryListingPage) Kind() Kind         { return KindGalleryListing }
func (p *GalleryListingPage) Slug() string       { return p.window.Slug() }
func (p *GalleryListingPage) Template() string   { return "gallery.html" }
func (p *GalleryListingPage) OutputPath() string { return p.window.OutputPath() }
func (p *GalleryListingPage) CustomCSS() string  { return "gallery" }
func (p *GalleryListingPage) Preload() string    { return "" }
func (p *GalleryListingPage) Paginated() (int, int) {
	return p.window.Page, p.window.Total
}
func (p *GalleryListingPage) CanonicalPath() string { return pageFile(p.window.Base, 1) }
func (p *GalleryListingPage) Images() []content.GalleryImage {
	return p.images
}

func (p *GalleryListingPage) Title() string {
	if p.window.Page <= 1 {
		return "Gallery"
	}
	return fmt.Sprintf("Gallery - Page %d", p.window.Page)
}

func (p *GalleryListingPage) MetaDescription() string { return p.description }

func (p *GalleryListingPage) Context() map[string]any {
	items := make([]map[string]any, 0, len(p.images))
	base := strings.TrimRight(p.galleryURL, "/")
	for _, img := range p.images {
		items = append(items, map[string]any{
			"filename":    img.Filename,
			"title":       img.Title,
			"description": img.Description,
			"category":    img.Category,
			"date":        img.Date.Format(time.DateOnly),
			"tags":        img.Tags,
			"src":         base + "/" + img.Filename,
		})
	}
	ctx := map[string]any{
		"images":      items,
		"gallery_url": p.galleryURL,
	}
	if pagination := p.window.Context(); pagination != nil {
		ctx["pagination"] = pagination
	}
	return ctx
}
