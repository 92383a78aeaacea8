package generator

import (
	"time"

	"github.com/goliatone/go-sitegen/internal/pages"
)

const (
	blogListingBase    = "blog"
	galleryListingBase = "gallery"
	founderTimeKey     = "founder_time"
)

// instantiate builds the page list in output order: static pages, the
// services index, blog details, blog listings, service details and gallery
// listings.
func (s *service) instantiate(summary *LoadSummary, buildTime time.Time) []pages.Page {
	var out []pages.Page
	for _, def := range s.cfg.StaticPages {
		var extra map[string]any
		if def.Slug == pages.SlugHome && s.cfg.FounderSince != "" {
			extra = map[string]any{founderTimeKey: pages.FounderTenure(s.cfg.FounderSince, buildTime)}
		}
		out = append(out, pages.NewStaticPage(def, extra))
	}
	out = append(out, pages.NewServicesPage(summary.Services, s.cfg.Listings.ServicesDescription))

	for _, post := range summary.Posts {
		out = append(out, pages.NewBlogPostPage(post))
	}
	for _, window := range pages.Paginate(blogListingBase, len(summary.Posts), s.cfg.PostsPerPage) {
		out = append(out, pages.NewBlogListingPage(summary.Posts, window, s.cfg.DefaultImage, s.cfg.Listings.BlogDescription))
	}
	for _, svc := range summary.Services {
		out = append(out, pages.NewServicePage(svc))
	}
	for _, window := range pages.Paginate(galleryListingBase, len(summary.Images), s.cfg.GalleryPerPage) {
		out = append(out, pages.NewGalleryListingPage(summary.Images, window, s.cfg.GalleryURL, s.cfg.Listings.GalleryDescription))
	}
	return out
}
