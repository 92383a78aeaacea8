// Package markdown converts content bodies to HTML with goldmark, parses
// service front matter, and produces sanitized or plain-text renditions of
// rendered HTML for feeds and the search index.
package markdown
