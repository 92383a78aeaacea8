package content

import (
	"context"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/markdown"
)

// LoadServices parses every .md file of the services directory, sorted by
// slug.
func (l *Loader) LoadServices(ctx context.Context) ([]Service, *LoadReport, error) {
	report := newReport(KindService)
	files, ok, err := l.listFiles(KindService, l.deps.Services)
	if err != nil || !ok {
		return nil, report, err
	}

	seen := slugSet{}
	services := make([]Service, 0, len(files))
	for _, file := range files {
		if err := checkContext(ctx); err != nil {
			return nil, report, err
		}
		log := logging.WithFileContext(l.logger, string(KindService), file.name)
		if file.ext != ".md" {
			report.skipped(file.name, ReasonInvalidExtension, file.ext)
			log.Debug("content.service.skipped", "reason", ReasonInvalidExtension)
			continue
		}
		svc, notes, reason, detail := l.parseServiceFile(file, seen)
		if reason != ReasonNone {
			report.skipped(file.name, reason, detail)
			log.Warn("content.service.skipped", "reason", reason, "detail", detail)
			continue
		}
		for _, note := range notes {
			log.Warn("content.service.note", "slug", svc.Slug, "note", note)
		}
		report.loaded(file.name, svc.Slug, notes)
		services = append(services, svc)
	}

	slices.SortFunc(services, func(a, b Service) int { return strings.Compare(a.Slug, b.Slug) })
	l.logger.Info("content.service.summary", "loaded", report.Loaded(), "skipped", report.Skipped())
	return services, report, nil
}

func (l *Loader) parseServiceFile(file sourceFile, seen slugSet) (Service, []string, SkipReason, string) {
	data, err := fs.ReadFile(l.deps.Services, file.name)
	if err != nil {
		return Service{}, nil, ReasonReadError, err.Error()
	}
	text, _, err := DecodeText(data)
	if err != nil {
		return Service{}, nil, ReasonEncodingError, err.Error()
	}
	if text == "" {
		return Service{}, nil, ReasonEmptyFile, ""
	}

	meta, body, err := markdown.ParseFrontMatter([]byte(text))
	if err != nil {
		return Service{}, nil, ReasonMarkdownError, err.Error()
	}
	rendered, err := l.parseMarkdown(string(body))
	if err != nil {
		return Service{}, nil, ReasonMarkdownError, err.Error()
	}

	var notes []string
	base := ServiceSlug(file.stem())
	slug := seen.claim(base)
	if slug != base {
		notes = append(notes, fmt.Sprintf("duplicate slug %q renamed to %q", base, slug))
	}

	title := meta.Get("title")
	if title == "" {
		title = defaultServiceTitle
	}
	description := meta.Get("description")
	return Service{
		ID:              identity.ServiceUUID(slug),
		Slug:            slug,
		Title:           title,
		Description:     description,
		Icon:            meta.Get("icon"),
		Image:           meta.Get("image"),
		Price:           meta.Get("price"),
		Features:        meta.List("features"),
		HTML:            rendered,
		MetaDescription: truncateRunes(description, metaDescriptionLimit),
		SourcePath:      file.name,
	}, notes, ReasonNone, ""
}
