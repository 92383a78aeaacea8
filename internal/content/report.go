package content

import (
	"fmt"
	"slices"
	"strings"
)

// Status is the outcome of processing one source file.
type Status string

const (
	StatusLoaded  Status = "loaded"
	StatusSkipped Status = "skipped"
)

// SkipReason classifies why a file produced no entity.
type SkipReason string

const (
	ReasonNone             SkipReason = ""
	ReasonInvalidExtension SkipReason = "invalid_extension"
	ReasonEncodingError    SkipReason = "encoding_error"
	ReasonEmptyFile        SkipReason = "empty_file"
	ReasonTooFewLines      SkipReason = "too_few_lines"
	ReasonMarkdownError    SkipReason = "markdown_error"
	ReasonReadError        SkipReason = "read_error"
	ReasonInvalidMetadata  SkipReason = "invalid_metadata"
)

// FileResult records what happened to a single file.
type FileResult struct {
	Path   string
	Slug   string
	Status Status
	Reason SkipReason
	Detail string
	// Notes carry non-fatal observations such as a date fallback or a
	// renamed duplicate slug.
	Notes []string
}

// LoadReport summarizes one collection load.
type LoadReport struct {
	Kind    Kind
	Results []FileResult
}

func newReport(kind Kind) *LoadReport {
	return &LoadReport{Kind: kind}
}

func (r *LoadReport) loaded(path, slug string, notes []string) {
	r.Results = append(r.Results, FileResult{Path: path, Slug: slug, Status: StatusLoaded, Notes: notes})
}

func (r *LoadReport) skipped(path string, reason SkipReason, detail string) {
	r.Results = append(r.Results, FileResult{Path: path, Status: StatusSkipped, Reason: reason, Detail: detail})
}

// Loaded counts files that produced an entity.
func (r *LoadReport) Loaded() int {
	return r.count(StatusLoaded)
}

// Skipped counts files that were rejected.
func (r *LoadReport) Skipped() int {
	return r.count(StatusSkipped)
}

func (r *LoadReport) count(status Status) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, res := range r.Results {
		if res.Status == status {
			n++
		}
	}
	return n
}

// Reasons tallies skipped files by reason.
func (r *LoadReport) Reasons() map[SkipReason]int {
	out := map[SkipReason]int{}
	if r == nil {
		return out
	}
	for _, res := range r.Results {
		if res.Status == StatusSkipped {
			out[res.Reason]++
		}
	}
	return out
}

// Summary renders a one-line description, e.g.
// "blog: 3 loaded, 2 skipped (empty_file=1, too_few_lines=1)".
func (r *LoadReport) Summary() string {
	if r == nil {
		return ""
	}
	line := fmt.Sprintf("%s: %d loaded, %d skipped", r.Kind, r.Loaded(), r.Skipped())
	reasons := r.Reasons()
	if len(reasons) == 0 {
		return line
	}
	keys := make([]string, 0, len(reasons))
	for reason, n := range reasons {
		keys = append(keys, fmt.Sprintf("%s=%d", reason, n))
	}
	slices.Sort(keys)
	return line + " (" + strings.Join(keys, ", ") + ")"
}
