// Package generator exposes the static site build API for hosts that embed
// go-sitegen. Use NewService with Config and Dependencies to render pages and
// derived artifacts into a storage provider.
package generator

import internal "github.com/goliatone/go-sitegen/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	LoadSummary      = internal.LoadSummary
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	ContentLoader    = internal.ContentLoader
	PageRenderer     = internal.PageRenderer
)

var (
	ErrDuplicateOutput = internal.ErrDuplicateOutput
	ErrResetFailed     = internal.ErrResetFailed
)

// NewService wires a static site generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) Service {
	return internal.NewService(cfg, deps)
}

// ConfigFromRuntime derives generator settings from the runtime configuration.
var ConfigFromRuntime = internal.ConfigFromRuntime
