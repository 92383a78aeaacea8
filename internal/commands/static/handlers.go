package staticcmd

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// BuildSiteHandler orchestrates generator builds using the shared command handler foundation.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided generator service.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := service.Build(ctx, generator.BuildOptions{DryRun: msg.DryRun})
		operation := "build"
		if msg.DryRun {
			operation = "build_dry_run"
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result:   result,
			Metadata: map[string]any{"operation": operation},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("static.build"),
		commands.WithErrorCode[BuildSiteCommand](BuildFailedCode),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			if msg.DryRun {
				return map[string]any{"dry_run": true}
			}
			return nil
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// DiffSiteHandler performs dry-run builds for diffing workflows.
type DiffSiteHandler struct {
	inner *commands.Handler[DiffSiteCommand]
}

// NewDiffSiteHandler constructs a handler that executes generator dry-runs.
func NewDiffSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[DiffSiteCommand]) *DiffSiteHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, msg DiffSiteCommand) error {
		result, err := service.Build(ctx, generator.BuildOptions{DryRun: true})
		if result != nil && len(msg.Outputs) > 0 {
			result.Rendered = filterRendered(result.Rendered, msg.Outputs)
		}
		invokeCallback(msg.ResultCallback, ResultEnvelope{
			Result:   result,
			Metadata: map[string]any{"operation": "diff"},
		})
		return err
	}

	handlerOpts := []commands.HandlerOption[DiffSiteCommand]{
		commands.WithLogger[DiffSiteCommand](baseLogger),
		commands.WithOperation[DiffSiteCommand]("static.diff"),
		commands.WithErrorCode[DiffSiteCommand](BuildFailedCode),
		commands.WithMessageFields(func(msg DiffSiteCommand) map[string]any {
			if len(msg.Outputs) > 0 {
				return map[string]any{"outputs": len(msg.Outputs)}
			}
			return nil
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DiffSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DiffSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[DiffSiteCommand].
func (h *DiffSiteHandler) Execute(ctx context.Context, msg DiffSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// CleanSiteHandler clears generator artifacts.
type CleanSiteHandler struct {
	inner *commands.Handler[CleanSiteCommand]
}

// NewCleanSiteHandler constructs a handler that cleans generator output.
func NewCleanSiteHandler(service generator.Service, logger interfaces.Logger, opts ...commands.HandlerOption[CleanSiteCommand]) *CleanSiteHandler {
	baseLogger := ensureLogger(logger)

	exec := func(ctx context.Context, _ CleanSiteCommand) error {
		return service.Clean(ctx)
	}

	handlerOpts := []commands.HandlerOption[CleanSiteCommand]{
		commands.WithLogger[CleanSiteCommand](baseLogger),
		commands.WithOperation[CleanSiteCommand]("static.clean"),
		commands.WithErrorCode[CleanSiteCommand](CleanFailedCode),
		commands.WithTelemetry(commands.DefaultTelemetry[CleanSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &CleanSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[CleanSiteCommand].
func (h *CleanSiteHandler) Execute(ctx context.Context, msg CleanSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

func filterRendered(pages []generator.RenderedPage, outputs []string) []generator.RenderedPage {
	wanted := make([]string, 0, len(outputs))
	for _, output := range outputs {
		wanted = append(wanted, strings.Trim(strings.TrimSpace(output), "/"))
	}
	out := make([]generator.RenderedPage, 0, len(pages))
	for _, page := range pages {
		if slices.Contains(wanted, page.Output) {
			out = append(out, page)
		}
	}
	return out
}

func ensureLogger(logger interfaces.Logger) interfaces.Logger {
	if logger == nil {
		return logging.NoOp()
	}
	return logger
}

func invokeCallback(cb ResultCallback, envelope ResultEnvelope) {
	if cb == nil {
		return
	}
	cb(envelope)
}
