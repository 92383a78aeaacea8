package logging

import (
	"maps"
	"strings"

	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const (
	fieldFile   = "file"
	fieldKind   = "kind"
	fieldSlug   = "slug"
	fieldOutput = "output"
)

// WithFields attaches structured fields to a logger when the implementation
// supports the optional FieldsLogger extension.
func WithFields(logger interfaces.Logger, fields map[string]any) interfaces.Logger {
	if logger == nil || len(fields) == 0 {
		return logger
	}
	if fieldsLogger, ok := logger.(interfaces.FieldsLogger); ok {
		return fieldsLogger.WithFields(maps.Clone(fields))
	}
	return logger
}

// WithFileContext annotates entries emitted while processing one content file.
func WithFileContext(logger interfaces.Logger, kind, path string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(kind); trimmed != "" {
		fields[fieldKind] = trimmed
	}
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		fields[fieldFile] = trimmed
	}
	return WithFields(logger, fields)
}

// WithPageContext annotates entries emitted while rendering one page.
func WithPageContext(logger interfaces.Logger, slug, output string) interfaces.Logger {
	fields := map[string]any{}
	if trimmed := strings.TrimSpace(slug); trimmed != "" {
		fields[fieldSlug] = trimmed
	}
	if trimmed := strings.TrimSpace(output); trimmed != "" {
		fields[fieldOutput] = trimmed
	}
	return WithFields(logger, fields)
}
