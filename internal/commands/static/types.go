package staticcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-sitegen/internal/generator"
)

const (
	buildSiteMessageType = "sitegen.static.build"
	diffSiteMessageType  = "sitegen.static.diff"
	cleanSiteMessageType = "sitegen.static.clean"

	// BuildFailedCode tags failed builds at the command boundary.
	BuildFailedCode = "SITEGEN_BUILD_FAILED"
	// CleanFailedCode tags failed cleanups at the command boundary.
	CleanFailedCode = "SITEGEN_CLEAN_FAILED"

)

// ResultCallback receives build results produced by generator operations. The callback is optional
// and is invoked synchronously from the handler when a BuildResult is available.
type ResultCallback func(ResultEnvelope)

// ResultEnvelope captures the outcome of a static command execution that generated a BuildResult.
type ResultEnvelope struct {
	Result   *generator.BuildResult
	Metadata map[string]any
}

// BuildSiteCommand runs a full site build.
type BuildSiteCommand struct {
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (BuildSiteCommand) Validate() error { return nil }

// DiffSiteCommand renders the site without writing so callers can inspect
// the page list and diagnostics.
type DiffSiteCommand struct {
	// Outputs restricts the reported pages to the given output paths.
	Outputs        []string       `json:"outputs,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (DiffSiteCommand) Type() string { return diffSiteMessageType }

// Validate rejects empty output filters.
func (m DiffSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Outputs, validation.Each(validation.Required)),
	)
}

// CleanSiteCommand clears generator artifacts from the configured storage backend.
type CleanSiteCommand struct{}

// Type implements command.Message.
func (CleanSiteCommand) Type() string { return cleanSiteMessageType }

// Validate satisfies command.Message; there are no payload constraints.
func (CleanSiteCommand) Validate() error { return nil }
