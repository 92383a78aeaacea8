// Package pages exposes the page model rendered by the generator.
package pages

import internal "github.com/goliatone/go-sitegen/internal/pages"

type (
	Kind      = internal.Kind
	Page      = internal.Page
	Dated     = internal.Dated
	Canonical = internal.Canonical
	Window    = internal.Window
)

const (
	KindStatic         = internal.KindStatic
	KindBlogPost       = internal.KindBlogPost
	KindBlogListing    = internal.KindBlogListing
	KindService        = internal.KindService
	KindServices       = internal.KindServices
	KindGalleryListing = internal.KindGalleryListing

	OutputHome = internal.OutputHome
)

// Paginate splits n items into windows of size under base.
func Paginate(base string, n, size int) []Window {
	return internal.Paginate(base, n, size)
}

// CanonicalURL joins domain and the canonical path of page.
func CanonicalURL(domain string, page Page) string {
	return internal.CanonicalURL(domain, page)
}
