package generator

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/pages"
)

const sitemapNamespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

type urlSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc      string `xml:"loc"`
	LastMod  string `xml:"lastmod"`
	Priority string `xml:"priority"`
}

// sitemapEntries lists one entry per rendered page except the 404 page and
// listing pages beyond the first, followed by the resume asset.
func (a siteArtifacts) sitemapEntries() []sitemapURL {
	buildDate := a.generatedAt.Format(time.DateOnly)
	entries := make([]sitemapURL, 0, len(a.rendered)+1)
	for _, page := range a.rendered {
		if pages.IsNotFound(page.Page) || pages.IsListingContinuation(page.Page) {
			continue
		}
		lastMod := buildDate
		if dated, ok := page.Page.(pages.Dated); ok {
			if ts, ok := dated.LastModified(); ok {
				lastMod = ts.Format(time.DateOnly)
			}
		}
		entries = append(entries, sitemapURL{
			Loc:      pages.CanonicalURL(a.cfg.Domain, page.Page),
			LastMod:  lastMod,
			Priority: sitemapPriority(page.Page),
		})
	}
	if asset := strings.TrimPrefix(strings.TrimSpace(a.cfg.ResumeAsset), "/"); asset != "" {
		entries = append(entries, sitemapURL{
			Loc:      a.cfg.Domain + "/" + asset,
			LastMod:  buildDate,
			Priority: "0.6",
		})
	}
	return entries
}

func sitemapPriority(page pages.Page) string {
	switch {
	case page.Slug() == pages.SlugHome:
		return "1.0"
	case page.Kind() == pages.KindBlogListing:
		return "0.8"
	default:
		return "0.7"
	}
}

func (a siteArtifacts) sitemap() (artifact, bool, error) {
	data, err := marshalXML(urlSet{XMLNS: sitemapNamespace, URLs: a.sitemapEntries()})
	if err != nil {
		return artifact{}, false, fmt.Errorf("generator: sitemap: %w", err)
	}
	return artifact{Path: sitemapPath, Category: categorySitemap, ContentType: "application/xml", Data: data}, true, nil
}

func (a siteArtifacts) robots() (artifact, bool, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# robots.txt for %s\n", a.cfg.Domain)
	b.WriteString("User-agent: *\n")
	b.WriteString("Allow: /\n")
	b.WriteString("Disallow: /cdn-cgi/\n")
	b.WriteString("\n")
	fmt.Fprintf(&b, "Sitemap: %s/%s\n", a.cfg.Domain, sitemapPath)
	if a.summary != nil && len(a.summary.Images) > 0 {
		fmt.Fprintf(&b, "Sitemap: %s/%s\n", a.cfg.Domain, imageSitemapPath)
	}
	return artifact{Path: robotsPath, Category: categoryRobots, ContentType: "text/plain; charset=utf-8", Data: []byte(b.String())}, true, nil
}

func marshalXML(v any) ([]byte, error) {
	body, err := xml.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(xml.Header)+len(body)+1)
	out = append(out, xml.Header...)
	out = append(out, body...)
	return append(out, '\n'), nil
}
