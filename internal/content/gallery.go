package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-sitegen/internal/identity"
	"github.com/goliatone/go-sitegen/internal/validation"
)

const (
	galleryMetadataJSON = "metadata.json"
	galleryMetadataYAML = "metadata.yaml"
)

// gallerySchema describes the side-table: an object keyed by filename whose
// values carry optional display metadata.
var gallerySchema = validation.MustCompile(map[string]any{
	"type": "object",
	"additionalProperties": map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"category":    map[string]any{"type": "string"},
			"date":        map[string]any{"type": "string"},
			"tags": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
	},
})

type imageMetadata struct {
	Title       *string  `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Date        string   `json:"date"`
	Tags        []string `json:"tags"`
}

// LoadGalleryImages lists image files of the gallery directory and merges
// the optional metadata side-table.
func (l *Loader) LoadGalleryImages(ctx context.Context) ([]GalleryImage, *LoadReport, error) {
	report := newReport(KindGalleryImage)
	files, ok, err := l.listFiles(KindGalleryImage, l.deps.Gallery)
	if err != nil || !ok {
		return nil, report, err
	}

	metadata := l.loadGalleryMetadata(files, report)
	images := make([]GalleryImage, 0, len(files))
	for _, file := range files {
		if err := checkContext(ctx); err != nil {
			return nil, report, err
		}
		if file.name == galleryMetadataJSON || file.name == galleryMetadataYAML {
			continue
		}
		if !hasImageExtension(file.name) {
			report.skipped(file.name, ReasonInvalidExtension, file.ext)
			continue
		}
		image, notes := l.buildImage(file, metadata[file.name])
		report.loaded(file.name, file.name, notes)
		images = append(images, image)
	}

	slices.SortStableFunc(images, func(a, b GalleryImage) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return strings.Compare(a.Filename, b.Filename)
	})
	l.logger.Info("content.gallery.summary", "loaded", report.Loaded(), "metadata_entries", len(metadata))
	return images, report, nil
}

func (l *Loader) buildImage(file sourceFile, meta imageMetadata) (GalleryImage, []string) {
	var notes []string
	title := DefaultImageTitle(file.stem())
	if meta.Title != nil {
		title = *meta.Title
	}
	category := meta.Category
	if category == "" {
		category = defaultImageCategory
	}
	date, ok := ParseImageDate(meta.Date)
	if !ok {
		if meta.Date != "" {
			notes = append(notes, fmt.Sprintf("invalid date %q, using build clock", meta.Date))
		}
		date = l.now()
	}
	tags := meta.Tags
	if tags == nil {
		tags = []string{}
	}
	return GalleryImage{
		ID:          identity.GalleryImageUUID(file.name),
		Filename:    file.name,
		Title:       title,
		Description: meta.Description,
		Category:    category,
		Date:        date,
		Tags:        tags,
	}, notes
}

// DefaultImageTitle derives a display title from a filename stem:
// "my_summer-trip" becomes "My Summer Trip".
func DefaultImageTitle(stem string) string {
	spaced := strings.NewReplacer("-", " ", "_", " ").Replace(stem)
	return cases.Title(language.English).String(spaced)
}

// loadGalleryMetadata prefers metadata.json over metadata.yaml. An invalid
// side-table is recorded in the report and ignored.
func (l *Loader) loadGalleryMetadata(files []sourceFile, report *LoadReport) map[string]imageMetadata {
	name := ""
	for _, candidate := range []string{galleryMetadataJSON, galleryMetadataYAML} {
		if slices.ContainsFunc(files, func(f sourceFile) bool { return f.name == candidate }) {
			name = candidate
			break
		}
	}
	if name == "" {
		return nil
	}
	data, err := fs.ReadFile(l.deps.Gallery, name)
	if err != nil {
		report.skipped(name, ReasonReadError, err.Error())
		l.logger.Warn("content.gallery.metadata_unreadable", "file", name, "error", err)
		return nil
	}
	entries, err := decodeGalleryMetadata(name, data)
	if err != nil {
		report.skipped(name, ReasonInvalidMetadata, err.Error())
		l.logger.Warn("content.gallery.metadata_invalid", "file", name, "error", err)
		return nil
	}
	return entries
}

func decodeGalleryMetadata(name string, data []byte) (map[string]imageMetadata, error) {
	var raw any
	switch name {
	case galleryMetadataYAML:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, err
		}
		normalized, err := validation.Normalize(doc)
		if err != nil {
			return nil, err
		}
		raw = normalized
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	}
	if raw == nil {
		return nil, errors.New("content: empty gallery metadata")
	}
	if err := gallerySchema.Validate(raw); err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	var entries map[string]imageMetadata
	if err := json.Unmarshal(encoded, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
