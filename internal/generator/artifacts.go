package generator

import (
	"errors"
	"time"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	sitemapPath      = "sitemap.xml"
	imageSitemapPath = "sitemap-images.xml"
	robotsPath       = "robots.txt"
	searchIndexPath  = "static/search-index.json"
	rssPath          = "feed.xml"
	atomPath         = "atom.xml"
)

// siteArtifacts derives the site-wide files from the rendered pages and the
// loaded collections.
type siteArtifacts struct {
	cfg         Config
	generatedAt time.Time
	summary     *LoadSummary
	rendered    []RenderedPage
	logger      interfaces.Logger
}

// build returns the derived artifacts in write order. A failing generator
// is reported and skipped; the others are still returned.
func (a siteArtifacts) build() ([]artifact, error) {
	var (
		out  []artifact
		errs []error
	)
	add := func(enabled bool, fn func() (artifact, bool, error)) {
		if !enabled {
			return
		}
		item, ok, err := fn()
		if err != nil {
			errs = append(errs, err)
			return
		}
		if ok {
			out = append(out, item)
		}
	}
	add(a.cfg.GenerateSitemap, a.sitemap)
	add(a.cfg.GenerateImageSitemap, a.imageSitemap)
	add(a.cfg.GenerateRobots, a.robots)
	add(a.cfg.GenerateSearchIndex, a.searchIndex)
	add(a.cfg.GenerateFeeds, a.rss)
	add(a.cfg.GenerateFeeds, a.atom)
	if a.cfg.GenerateRedirects {
		out = append(out, a.redirects()...)
	}
	return out, errors.Join(errs...)
}
