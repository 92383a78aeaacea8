// Package pages models every page the site produces and renders them
// through the shared content-then-base template algorithm.
package pages

import "time"

// Kind identifies a page variant.
type Kind string

const (
	KindStatic         Kind = "static"
	KindBlogPost       Kind = "blog_post"
	KindBlogListing    Kind = "blog_listing"
	KindService        Kind = "service"
	KindServices       Kind = "services"
	KindGalleryListing Kind = "gallery_listing"
)

// Page is one output document.
type Page interface {
	Kind() Kind
	Slug() string
	Title() string
	Template() string
	// OutputPath is slash separated and relative to the output root.
	OutputPath() string
	MetaDescription() string
	CustomCSS() string
	// Preload names the hero asset to preload; empty disables the preload
	// block of the base template.
	Preload() string
	Context() map[string]any
	// Paginated returns the 1-based page number and total page count.
	// Unpaginated pages report (1, 1).
	Paginated() (page, total int)
}

// Dated is implemented by pages whose content carries a modification date.
type Dated interface {
	LastModified() (time.Time, bool)
}

// Canonical is implemented by pages whose canonical URL differs from their
// output path.
type Canonical interface {
	CanonicalPath() string
}

const (
	SlugHome     = "index"
	SlugNotFound = "404"
	OutputHome   = "index.html"
)

// IsNotFound reports whether page is the 404 page.
func IsNotFound(page Page) bool {
	return page.Slug() == SlugNotFound
}

// IsDetail reports whether page renders a single blog post or service.
func IsDetail(page Page) bool {
	switch page.Kind() {
	case KindBlogPost, KindService:
		return true
	}
	return false
}

// IsListingContinuation reports whether page is a listing page beyond the
// first.
func IsListingContinuation(page Page) bool {
	n, _ := page.Paginated()
	return n > 1
}

const displayDateLayout = "January 02, 2006"
