package generator

import (
	"encoding/xml"
	"fmt"
	"maps"
	"path"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/internal/pages"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const imageNamespace = "http://www.google.com/schemas/sitemap-image/1.1"

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif", ".svg"}

type imageURLSet struct {
	XMLName    xml.Name   `xml:"urlset"`
	XMLNS      string     `xml:"xmlns,attr"`
	XMLNSImage string     `xml:"xmlns:image,attr"`
	URLs       []imageURL `xml:"url"`
}

type imageURL struct {
	Loc   string       `xml:"loc"`
	Image imageElement `xml:"image:image"`
}

type imageElement struct {
	Loc   string `xml:"image:loc"`
	Title string `xml:"image:title,omitempty"`
}

type imageRef struct {
	src   string
	title string
}

func (a siteArtifacts) imageEntries() []imageURL {
	var out []imageURL
	seen := map[[2]string]struct{}{}
	for _, page := range a.rendered {
		if pages.IsNotFound(page.Page) {
			continue
		}
		pageURL := a.cfg.Domain + "/" + page.Output
		refs := extractImages(page.HTML)
		refs = append(refs, contextImages(page.Page.Context())...)
		for _, ref := range refs {
			imgURL, ok := a.absoluteImageURL(ref.src)
			if !ok {
				continue
			}
			key := [2]string{pageURL, imgURL}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, imageURL{Loc: pageURL, Image: imageElement{Loc: imgURL, Title: ref.title}})
		}
	}
	return out
}

func (a siteArtifacts) imageSitemap() (artifact, bool, error) {
	entries := a.imageEntries()
	if len(entries) == 0 {
		return artifact{}, false, nil
	}
	data, err := marshalXML(imageURLSet{XMLNS: sitemapNamespace, XMLNSImage: imageNamespace, URLs: entries})
	if err != nil {
		return artifact{}, false, fmt.Errorf("generator: image sitemap: %w", err)
	}
	return artifact{Path: imageSitemapPath, Category: categorySitemap, ContentType: "application/xml", Data: data}, true, nil
}

// absoluteImageURL maps a page-relative image reference to a URL under the
// site domain. Absolute http(s) and data URIs are not indexed.
func (a siteArtifacts) absoluteImageURL(src string) (string, bool) {
	src = strings.TrimSpace(src)
	lower := strings.ToLower(src)
	if src == "" || strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:") || strings.HasPrefix(src, "//") {
		return "", false
	}
	for {
		switch {
		case strings.HasPrefix(src, "../"):
			src = src[3:]
		case strings.HasPrefix(src, "./"):
			src = src[2:]
		case strings.HasPrefix(src, "/"):
			src = src[1:]
		default:
			if src == "" {
				return "", false
			}
			return a.cfg.Domain + "/" + src, true
		}
	}
}

// extractImages returns the <img> sources of document in order.
func extractImages(document string) []imageRef {
	var refs []imageRef
	z := html.NewTokenizer(strings.NewReader(document))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return refs
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.DataAtom != atom.Img {
				continue
			}
			var ref imageRef
			for _, attr := range tok.Attr {
				switch attr.Key {
				case "src":
					ref.src = attr.Val
				case "alt":
					ref.title = attr.Val
				}
			}
			if ref.src != "" {
				refs = append(refs, ref)
			}
		}
	}
}

// contextImages scans page context values for image-shaped strings. Keys
// are visited in sorted order. Bare file names resolve under static/. A
// "filename" next to a "src" only names the file and is not collected.
func contextImages(ctx map[string]any) []imageRef {
	var refs []imageRef
	var walk func(v any)
	walk = func(v any) {
		switch val := v.(type) {
		case string:
			if isImagePath(val) {
				src := val
				if !strings.Contains(src, "/") {
					src = "static/" + src
				}
				refs = append(refs, imageRef{src: src})
			}
		case map[string]any:
			_, hasSrc := val["src"]
			for _, key := range slices.Sorted(maps.Keys(val)) {
				if key == "filename" && hasSrc {
					continue
				}
				walk(val[key])
			}
		case []map[string]any:
			for _, item := range val {
				walk(item)
			}
		case []any:
			for _, item := range val {
				walk(item)
			}
		case []string:
			for _, item := range val {
				walk(item)
			}
		}
	}
	walk(ctx)
	return refs
}

func isImagePath(value string) bool {
	value = strings.TrimSpace(value)
	if value == "" || strings.ContainsAny(value, " \n<>\"") {
		return false
	}
	return slices.Contains(imageExtensions, strings.ToLower(path.Ext(value)))
}
