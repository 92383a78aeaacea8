package content

import (
	"bytes"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html"
)

const (
	blogStaticPrefix = "static/"
	blogTableClass   = "blog-table"
)

// PostProcessBlogHTML rewrites root-relative static image sources so they
// resolve from the blogs/ subdirectory and tags tables with the blog table
// class. Tokens that are not changed are copied byte for byte.
func PostProcessBlogHTML(fragment string) (string, error) {
	if !strings.Contains(fragment, "<img") && !strings.Contains(fragment, "<table") {
		return fragment, nil
	}
	z := html.NewTokenizer(strings.NewReader(fragment))
	var out bytes.Buffer
	out.Grow(len(fragment) + 64)
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			return out.String(), nil
		}
		raw := append([]byte(nil), z.Raw()...)
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			out.Write(raw)
			continue
		}
		tok := z.Token()
		if rewriteTag(&tok) {
			out.WriteString(tok.String())
			continue
		}
		out.Write(raw)
	}
}

func rewriteTag(tok *html.Token) bool {
	switch tok.Data {
	case "img":
		for i, attr := range tok.Attr {
			if attr.Key == "src" && strings.HasPrefix(attr.Val, blogStaticPrefix) {
				tok.Attr[i].Val = "../" + attr.Val
				return true
			}
		}
	case "table":
		for i, attr := range tok.Attr {
			if attr.Key == "class" {
				tok.Attr[i].Val = mergeClassList(attr.Val, blogTableClass)
				return true
			}
		}
		tok.Attr = append(tok.Attr, html.Attribute{Key: "class", Val: blogTableClass})
		return true
	}
	return false
}

func mergeClassList(existing, class string) string {
	fields := strings.Fields(existing)
	for _, f := range fields {
		if f == class {
			return strings.Join(fields, " ")
		}
	}
	return strings.Join(append(fields, class), " ")
}
