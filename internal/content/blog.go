package content

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/logging"
)

const blogStatic = "../static"

// LoadBlogPosts parses every .md/.txt file of the blog directory. Files
// that cannot be parsed are skipped and recorded in the report; the error
// is reserved for an unreadable directory or a cancelled context.
func (l *Loader) LoadBlogPosts(ctx context.Context) ([]BlogPost, *LoadReport, error) {
	report := newReport(KindBlogPost)
	files, ok, err := l.listFiles(KindBlogPost, l.deps.Blogs)
	if err != nil || !ok {
		return nil, report, err
	}

	seen := slugSet{}
	posts := make([]BlogPost, 0, len(files))
	for _, file := range files {
		if err := checkContext(ctx); err != nil {
			return nil, report, err
		}
		log := logging.WithFileContext(l.logger, string(KindBlogPost), file.name)
		if file.ext != ".md" && file.ext != ".txt" {
			report.skipped(file.name, ReasonInvalidExtension, file.ext)
			log.Debug("content.blog.skipped", "reason", ReasonInvalidExtension)
			continue
		}
		post, notes, reason, detail := l.parseBlogFile(file, seen)
		if reason != ReasonNone {
			report.skipped(file.name, reason, detail)
			log.Warn("content.blog.skipped", "reason", reason, "detail", detail)
			continue
		}
		for _, note := range notes {
			log.Warn("content.blog.note", "slug", post.Slug, "note", note)
		}
		report.loaded(file.name, post.Slug, notes)
		log.Debug("content.blog.loaded", "slug", post.Slug)
		posts = append(posts, post)
	}

	slices.SortStableFunc(posts, func(a, b BlogPost) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Slug, b.Slug)
	})
	l.logger.Info("content.blog.summary", "loaded", report.Loaded(), "skipped", report.Skipped())
	return posts, report, nil
}

func (l *Loader) parseBlogFile(file sourceFile, seen slugSet) (BlogPost, []string, SkipReason, string) {
	data, err := fs.ReadFile(l.deps.Blogs, file.name)
	if err != nil {
		return BlogPost{}, nil, ReasonReadError, err.Error()
	}
	text, _, err := DecodeText(data)
	if err != nil {
		return BlogPost{}, nil, ReasonEncodingError, err.Error()
	}
	if text == "" {
		return BlogPost{}, nil, ReasonEmptyFile, ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) < headerLines {
		return BlogPost{}, nil, ReasonTooFewLines, fmt.Sprintf("found %d lines, need %d", len(lines), headerLines)
	}

	var notes []string
	base := NormalizeSlug(file.stem())
	slug := seen.claim(base)
	if slug != base {
		notes = append(notes, fmt.Sprintf("duplicate slug %q renamed to %q", base, slug))
	}

	title := strings.TrimSpace(lines[0])
	if title == "" {
		title = defaultPostTitle
	}
	category := strings.TrimSpace(lines[1])
	if category == "" {
		category = defaultPostCategory
	}
	dateLine := strings.TrimSpace(lines[2])
	image := strings.TrimSpace(lines[3])
	if image != "" && !hasImageExtension(image) {
		notes = append(notes, fmt.Sprintf("invalid image extension %q discarded", image))
		image = ""
	}
	meta := strings.TrimSpace(lines[4])

	date, parsed := ParsePostDate(dateLine)
	if !parsed {
		date = l.now()
		notes = append(notes, fmt.Sprintf("invalid date %q, using build clock", dateLine))
	}

	body := strings.Join(lines[headerLines:], "\n")
	if l.deps.Expander != nil {
		dctx := l.cfg.Directives
		dctx.Static = blogStatic
		body = l.deps.Expander.Expand(body, dctx)
	}
	rendered, err := l.parseMarkdown(body)
	if err != nil {
		return BlogPost{}, nil, ReasonMarkdownError, err.Error()
	}
	rendered, err = PostProcessBlogHTML(rendered)
	if err != nil {
		return BlogPost{}, nil, ReasonMarkdownError, err.Error()
	}

	if meta == "" {
		meta = title
	}
	return BlogPost{
		ID:              identity.BlogPostUUID(slug),
		Slug:            slug,
		Title:           title,
		Category:        category,
		Date:            date,
		DateFallback:    !parsed,
		Image:           image,
		HTML:            rendered,
		MetaDescription: truncateRunes(meta, metaDescriptionLimit),
		SourcePath:      file.name,
	}, notes, ReasonNone, ""
}
