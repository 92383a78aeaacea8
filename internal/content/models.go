package content

import (
	"time"

	"github.com/google/uuid"
)

// Kind identifies a content collection.
type Kind string

const (
	KindBlogPost     Kind = "blog"
	KindService      Kind = "service"
	KindGalleryImage Kind = "gallery"
)

// Item is the collection-independent view shared by every entity.
type Item struct {
	Kind        Kind
	Slug        string
	Title       string
	Description string
	Date        time.Time
}

// BlogPost is a dated article parsed from a blog content file.
type BlogPost struct {
	ID       uuid.UUID
	Slug     string
	Title    string
	Category string
	Date     time.Time
	// DateFallback is set when the header date could not be parsed and the
	// loader clock was used instead.
	DateFallback    bool
	Image           string
	HTML            string
	MetaDescription string
	SourcePath      string
}

// ContentItem returns the generic view of the post.
func (p BlogPost) ContentItem() Item {
	return Item{Kind: KindBlogPost, Slug: p.Slug, Title: p.Title, Description: p.MetaDescription, Date: p.Date}
}

// Service is an offering described by front matter and a markdown body.
type Service struct {
	ID              uuid.UUID
	Slug            string
	Title           string
	Description     string
	Icon            string
	Image           string
	Price           string
	Features        []string
	HTML            string
	MetaDescription string
	SourcePath      string
}

// ContentItem returns the generic view of the service.
func (s Service) ContentItem() Item {
	return Item{Kind: KindService, Slug: s.Slug, Title: s.Title, Description: s.MetaDescription}
}

// GalleryImage is an image file with optional side-table metadata.
type GalleryImage struct {
	ID          uuid.UUID
	Filename    string
	Title       string
	Description string
	Category    string
	Date        time.Time
	Tags        []string
}

// ContentItem returns the generic view of the image. The filename acts as
// the slug.
func (g GalleryImage) ContentItem() Item {
	return Item{Kind: KindGalleryImage, Slug: g.Filename, Title: g.Title, Description: g.Description, Date: g.Date}
}

const (
	defaultPostTitle     = "Untitled Post"
	defaultPostCategory  = "Uncategorized"
	defaultServiceTitle  = "Untitled Service"
	defaultImageCategory = "General"
	metaDescriptionLimit = 160
	headerLines          = 5
)

var imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".avif"}
