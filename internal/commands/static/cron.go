package staticcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"
)

const defaultRebuildExpression = "@daily"

// ScheduledBuildHandler binds full site builds to a cron runner.
type ScheduledBuildHandler struct {
	build      *BuildSiteHandler
	cronConfig command.HandlerConfig
}

// NewScheduledBuildHandler wraps build so cron integrations can trigger it.
// An empty expression falls back to a daily schedule.
func NewScheduledBuildHandler(build *BuildSiteHandler, expression string) *ScheduledBuildHandler {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		expression = defaultRebuildExpression
	}
	return &ScheduledBuildHandler{
		build:      build,
		cronConfig: command.HandlerConfig{Expression: expression},
	}
}

// CronHandler satisfies command.CronCommand.
func (h *ScheduledBuildHandler) CronHandler() func() error {
	return func() error {
		return h.build.Execute(context.Background(), BuildSiteCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *ScheduledBuildHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}

// CLIOptions describes the CLI metadata for site builds.
func (h *BuildSiteHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"static", "build"},
		Group:       "static",
		Description: "Render every page and derived artifact; supports dry-run",
	}
}

// CLIOptions describes the CLI metadata for diffs.
func (h *DiffSiteHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"static", "diff"},
		Group:       "static",
		Description: "Render the site without writing and report the pages",
	}
}

// CLIOptions describes the CLI metadata for cleanup.
func (h *CleanSiteHandler) CLIOptions() command.CLIConfig {
	return command.CLIConfig{
		Path:        []string{"static", "clean"},
		Group:       "static",
		Description: "Remove generated artifacts recorded in the output manifest",
	}
}
