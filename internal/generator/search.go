package generator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/goliatone/go-sitegen/internal/pages"
)

const searchContentLimit = 300

type searchDocument struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Content     string `json:"content"`
	Description string `json:"description"`
	Type        string `json:"type"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date,omitempty"`
}

// searchDocuments collects the generic pages first, then every blog post
// and service. Detail pages are skipped in the page sweep because they are
// added from their content. The second document with a given id is dropped.
func (a siteArtifacts) searchDocuments() []searchDocument {
	var docs []searchDocument
	seen := map[string]struct{}{}
	add := func(doc searchDocument) {
		if _, ok := seen[doc.ID]; ok {
			a.logger.Warn("generator.search.duplicate_id", "id", doc.ID, "url", doc.URL)
			return
		}
		seen[doc.ID] = struct{}{}
		docs = append(docs, doc)
	}

	for _, page := range a.rendered {
		p := page.Page
		if pages.IsNotFound(p) || pages.IsDetail(p) || pages.IsListingContinuation(p) {
			continue
		}
		add(searchDocument{
			ID:          "page-" + p.Slug(),
			URL:         page.Output,
			Title:       p.Title(),
			Description: p.MetaDescription(),
			Type:        "page",
		})
	}
	if a.summary == nil {
		return docs
	}
	for _, post := range a.summary.Posts {
		add(searchDocument{
			ID:          "blog-" + post.Slug,
			URL:         pages.BlogPostPath(post.Slug),
			Title:       post.Title,
			Content:     truncateText(plainText(post.HTML), searchContentLimit),
			Description: post.MetaDescription,
			Type:        "blog",
			Category:    post.Category,
			Date:        post.Date.Format(time.DateOnly),
		})
	}
	for _, svc := range a.summary.Services {
		add(searchDocument{
			ID:          "service-" + svc.Slug,
			URL:         pages.ServicePath(svc.Slug),
			Title:       svc.Title,
			Content:     truncateText(plainText(svc.HTML), searchContentLimit),
			Description: svc.MetaDescription,
			Type:        "service",
		})
	}
	return docs
}

func (a siteArtifacts) searchIndex() (artifact, bool, error) {
	docs := a.searchDocuments()
	if docs == nil {
		docs = []searchDocument{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		return artifact{}, false, fmt.Errorf("generator: search index: %w", err)
	}
	return artifact{Path: searchIndexPath, Category: categorySearchIndex, ContentType: "application/json", Data: buf.Bytes()}, true, nil
}
