package generator

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-sitegen/internal/content"
	"github.com/goliatone/go-sitegen/internal/pages"
)

type feedItem struct {
	Title       string
	Summary     string
	Category    string
	Link        string
	GUID        string
	PublishedAt time.Time
}

// feedItems returns the newest posts up to FeedLimit. Posts arrive sorted
// newest first.
func (a siteArtifacts) feedItems() []feedItem {
	if a.summary == nil {
		return nil
	}
	posts := a.summary.Posts
	if len(posts) > a.cfg.FeedLimit {
		posts = posts[:a.cfg.FeedLimit]
	}
	items := make([]feedItem, 0, len(posts))
	for _, post := range posts {
		items = append(items, feedItem{
			Title:       post.Title,
			Summary:     feedSummary(post),
			Category:    post.Category,
			Link:        a.cfg.Domain + "/" + pages.BlogPostPath(post.Slug),
			GUID:        "urn:uuid:" + post.ID.String(),
			PublishedAt: post.Date,
		})
	}
	return items
}

func feedSummary(post content.BlogPost) string {
	if summary := plainText(post.MetaDescription); summary != "" {
		return summary
	}
	return truncateText(plainText(post.HTML), 160)
}

// feedUpdated is the newest post date, or the build date for an empty feed.
func (a siteArtifacts) feedUpdated(items []feedItem) time.Time {
	if len(items) > 0 && !items[0].PublishedAt.IsZero() {
		return items[0].PublishedAt
	}
	return a.generatedAt
}

func (a siteArtifacts) feedTitle() string {
	if title := strings.TrimSpace(a.cfg.BaseTitle); title != "" {
		return title
	}
	return a.cfg.Domain
}

func (a siteArtifacts) rss() (artifact, bool, error) {
	items := a.feedItems()
	description := strings.TrimSpace(a.cfg.Description)
	if description == "" {
		description = "Latest posts"
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(a.feedTitle())))
	builder.WriteString(fmt.Sprintf("    <link>%s/</link>\n", escapeXML(a.cfg.Domain)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(description)))
	builder.WriteString(fmt.Sprintf(`    <atom:link href="%s/%s" rel="self" type="application/rss+xml" />`+"\n", escapeXML(a.cfg.Domain), rssPath))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", a.feedUpdated(items).UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf(`      <guid isPermaLink="false">%s</guid>`+"\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", item.PublishedAt.UTC().Format(time.RFC1123Z)))
		if item.Category != "" {
			builder.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(item.Category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return artifact{Path: rssPath, Category: categoryFeed, ContentType: "application/rss+xml", Data: []byte(builder.String())}, true, nil
}

func (a siteArtifacts) atom() (artifact, bool, error) {
	items := a.feedItems()
	feedID := a.cfg.Domain + "/" + atomPath

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<feed xmlns="http://www.w3.org/2005/Atom">` + "\n")
	builder.WriteString(fmt.Sprintf("  <id>%s</id>\n", escapeXML(feedID)))
	builder.WriteString(fmt.Sprintf("  <title>%s</title>\n", escapeXML(a.feedTitle())))
	builder.WriteString(fmt.Sprintf("  <updated>%s</updated>\n", a.feedUpdated(items).UTC().Format(time.RFC3339)))
	builder.WriteString(fmt.Sprintf(`  <link rel="alternate" href="%s/" />`+"\n", escapeXML(a.cfg.Domain)))
	builder.WriteString(fmt.Sprintf(`  <link rel="self" href="%s" />`+"\n", escapeXML(feedID)))
	if author := strings.TrimSpace(a.cfg.Author); author != "" {
		builder.WriteString(fmt.Sprintf("  <author><name>%s</name></author>\n", escapeXML(author)))
	}
	for _, item := range items {
		builder.WriteString("  <entry>\n")
		builder.WriteString(fmt.Sprintf("    <id>%s</id>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf(`    <link href="%s" />`+"\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("    <updated>%s</updated>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		builder.WriteString(fmt.Sprintf("    <published>%s</published>\n", item.PublishedAt.UTC().Format(time.RFC3339)))
		if item.Category != "" {
			builder.WriteString(fmt.Sprintf(`    <category term="%s" />`+"\n", escapeXML(item.Category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("    <summary>%s</summary>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("  </entry>\n")
	}
	builder.WriteString(`</feed>` + "\n")
	return artifact{Path: atomPath, Category: categoryFeed, ContentType: "application/atom+xml", Data: []byte(builder.String())}, true, nil
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
