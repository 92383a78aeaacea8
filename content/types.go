// Package content exposes the content entities and load reports produced by
// the sitegen loader.
package content

import internal "github.com/goliatone/go-sitegen/internal/content"

type (
	Kind         = internal.Kind
	Item         = internal.Item
	BlogPost     = internal.BlogPost
	Service      = internal.Service
	GalleryImage = internal.GalleryImage
	LoadReport   = internal.LoadReport
	FileResult   = internal.FileResult
	Status       = internal.Status
	SkipReason   = internal.SkipReason
)

const (
	KindBlogPost     = internal.KindBlogPost
	KindService      = internal.KindService
	KindGalleryImage = internal.KindGalleryImage

	StatusLoaded  = internal.StatusLoaded
	StatusSkipped = internal.StatusSkipped

	ReasonInvalidExtension = internal.ReasonInvalidExtension
	ReasonEncodingError    = internal.ReasonEncodingError
	ReasonEmptyFile        = internal.ReasonEmptyFile
	ReasonTooFewLines      = internal.ReasonTooFewLines
	ReasonMarkdownError    = internal.ReasonMarkdownError
	ReasonReadError        = internal.ReasonReadError
	ReasonInvalidMetadata  = internal.ReasonInvalidMetadata
)

var (
	ErrMarkdownParserRequired = internal.ErrMarkdownParserRequired
	ErrDirectoryUnreadable    = internal.ErrDirectoryUnreadable
)

// NormalizeSlug applies the blog slug rules to value.
func NormalizeSlug(value string) string {
	return internal.NormalizeSlug(value)
}
