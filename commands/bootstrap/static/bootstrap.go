package bootstrap

import (
	"fmt"
	"io/fs"
	"strings"

	sitegen "github.com/goliatone/go-sitegen"
	"github.com/goliatone/go-sitegen/commands"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// Options captures the tunable configuration for the static CLI module.
type Options struct {
	// Config seeds the module; DefaultConfig is used when nil.
	Config         *sitegen.Config
	OutputDir      string
	Domain         string
	Sources        fs.FS
	Logger         interfaces.LoggerProvider
	Storage        interfaces.StorageProvider
	EnableCommands bool // collect command handlers for CLI execution when true
	RebuildCron    string
	CronRegistrar  commands.CronRegistrar
}

// Resources groups the module runtime and optional command registry used by CLI commands.
type Resources struct {
	Module    *sitegen.Module
	Collector *CommandCollector
}

// CommandCollector records handlers registered by the DI container so CLI commands can
// invoke them directly when dispatcher integrations are requested.
type CommandCollector struct {
	handlers []any
}

// RegisterCommand satisfies commands.CommandRegistry.
func (c *CommandCollector) RegisterCommand(handler any) error {
	c.handlers = append(c.handlers, handler)
	return nil
}

// Handlers returns the collected handlers.
func (c *CommandCollector) Handlers() []any {
	if c == nil || len(c.handlers) == 0 {
		return nil
	}
	out := make([]any, len(c.handlers))
	copy(out, c.handlers)
	return out
}

// BuildModule initialises a sitegen.Module and, when requested, collects
// command handlers for CLI invocation.
func BuildModule(opts Options) (*Resources, error) {
	cfg := sitegen.DefaultConfig()
	if opts.Config != nil {
		cfg = *opts.Config
	}
	if trimmed := strings.TrimSpace(opts.OutputDir); trimmed != "" {
		cfg.Paths.OutputDir = trimmed
	}
	if trimmed := strings.TrimSpace(opts.Domain); trimmed != "" {
		cfg.Site.Domain = trimmed
	}

	moduleOpts := []sitegen.Option{}
	if opts.Logger != nil {
		moduleOpts = append(moduleOpts, sitegen.WithLoggerProvider(opts.Logger))
	}
	if opts.Storage != nil {
		moduleOpts = append(moduleOpts, sitegen.WithStorage(opts.Storage))
	}
	if opts.Sources != nil {
		moduleOpts = append(moduleOpts, sitegen.WithSourceFS(opts.Sources))
	}

	module, err := sitegen.New(cfg, moduleOpts...)
	if err != nil {
		return nil, fmt.Errorf("initialise sitegen module: %w", err)
	}

	var collector *CommandCollector
	if opts.EnableCommands {
		collector = &CommandCollector{
			handlers: make([]any, 0),
		}
		if _, err := commands.RegisterContainerCommands(module.Container(), commands.RegistrationOptions{
			Registry:       collector,
			CronRegistrar:  opts.CronRegistrar,
			LoggerProvider: opts.Logger,
			RebuildCron:    opts.RebuildCron,
		}); err != nil {
			return nil, fmt.Errorf("register static commands: %w", err)
		}
	}

	return &Resources{
		Module:    module,
		Collector: collector,
	}, nil
}
