package commands

import (
	"errors"
	"strings"

	command "github.com/goliatone/go-command"

	internalcommands "github.com/goliatone/go-sitegen/internal/commands"
	staticcmd "github.com/goliatone/go-sitegen/internal/commands/static"
	"github.com/goliatone/go-sitegen/internal/di"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry       CommandRegistry
	Dispatcher     CommandDispatcher
	CronRegistrar  CronRegistrar
	LoggerProvider interfaces.LoggerProvider
	// RebuildCron schedules periodic full builds when set, e.g. "@hourly".
	RebuildCron string
}

// RegistrationResult captures the constructed command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

var ErrNoGenerator = errors.New("commands: generator service not configured")

// RegisterContainerCommands builds the static site command handlers exposed by
// the container and optionally registers them with registry, dispatcher and
// cron integrations.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	if container == nil {
		return &RegistrationResult{}, nil
	}
	service := container.GeneratorService()
	if service == nil {
		return &RegistrationResult{}, ErrNoGenerator
	}

	provider := opts.LoggerProvider
	if provider == nil {
		provider = container.LoggerProvider()
	}

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	result := &RegistrationResult{
		Handlers:      make([]any, 0, 3),
		Subscriptions: make([]CommandSubscription, 0),
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}
	}

	staticLogger := internalcommands.ScopedLogger(provider, internalcommands.Scope{
		Module:    "static",
		Domain:    container.Config.Site.Domain,
		OutputDir: container.Config.Paths.OutputDir,
	})
	build := staticcmd.NewBuildSiteHandler(service, staticLogger)
	register(build)
	register(staticcmd.NewDiffSiteHandler(service, staticLogger))
	register(staticcmd.NewCleanSiteHandler(service, staticLogger))

	if opts.CronRegistrar != nil && strings.TrimSpace(opts.RebuildCron) != "" {
		scheduled := staticcmd.NewScheduledBuildHandler(build, opts.RebuildCron)
		if err := opts.CronRegistrar(scheduled.CronOptions(), scheduled.CronHandler()); err != nil {
			errs = errors.Join(errs, err)
		} else {
			result.Handlers = append(result.Handlers, scheduled)
		}
	}

	return result, errs
}
