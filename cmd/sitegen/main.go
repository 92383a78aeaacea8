package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	bootstrap "github.com/goliatone/go-sitegen/commands/bootstrap/static"
	internalcommands "github.com/goliatone/go-sitegen/internal/commands"
	staticcmd "github.com/goliatone/go-sitegen/internal/commands/static"
	"github.com/goliatone/go-sitegen/internal/devserver"
	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/internal/runtimeconfig"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// version is overridden at link time.
var version = "dev"

const envPrefix = "SITEGEN"

// envKeys are bound explicitly so env-only overrides reach Unmarshal.
var envKeys = []string{
	"site.domain",
	"site.base_title",
	"site.build_date",
	"paths.templates_dir",
	"paths.static_dir",
	"paths.output_dir",
	"templates.engine",
	"theme.dir",
	"theme.name",
	"theme.variant",
	"logging.provider",
	"logging.level",
	"logging.format",
	"server.host",
	"server.port",
	"server.live_reload",
}

type buildHandler interface {
	Execute(context.Context, staticcmd.BuildSiteCommand) error
}

type diffHandler interface {
	Execute(context.Context, staticcmd.DiffSiteCommand) error
}

type cleanHandler interface {
	Execute(context.Context, staticcmd.CleanSiteCommand) error
}

type handlerSet struct {
	build buildHandler
	diff  diffHandler
	clean cleanHandler
}

type moduleOptions struct {
	Config runtimeconfig.Config
}

type moduleResources struct {
	handlers handlerSet
	builder  devserver.Builder
	logger   interfaces.LoggerProvider
}

var moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
	cfg := opts.Config
	res, err := bootstrap.BuildModule(bootstrap.Options{
		Config:         &cfg,
		EnableCommands: true,
	})
	if err != nil {
		return nil, err
	}

	resources := &moduleResources{
		builder: res.Module.Generator(),
		logger:  res.Module.LoggerProvider(),
	}
	for _, handler := range res.Collector.Handlers() {
		switch h := handler.(type) {
		case *staticcmd.BuildSiteHandler:
			resources.handlers.build = h
		case *staticcmd.DiffSiteHandler:
			resources.handlers.diff = h
		case *staticcmd.CleanSiteHandler:
			resources.handlers.clean = h
		}
	}
	return resources, nil
}

// serveRunner blocks until ctx is done or the server fails.
var serveRunner = func(ctx context.Context, srv *devserver.Server) error {
	return srv.Run(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := runContext(ctx, os.Args[1:]); err != nil {
		log.Printf("sitegen: %v", err)
		stop()
		os.Exit(1)
	}
}

func run(args []string) error {
	return runContext(context.Background(), args)
}

func runContext(ctx context.Context, args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

type cliState struct {
	configFile string
	outputDir  string
	domain     string
	logLevel   string

	cfg runtimeconfig.Config
}

func newRootCommand() *cobra.Command {
	state := &cliState{}

	root := &cobra.Command{
		Use:           "sitegen",
		Short:         "Compile the portfolio site into static HTML",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			cfg, err := loadConfig(state.configFile)
			if err != nil {
				return err
			}
			state.applyOverrides(cmd, &cfg)
			state.cfg = cfg
			return nil
		},
		RunE: func(*cobra.Command, []string) error {
			return errors.New("missing subcommand (build, diff, clean, serve, version)")
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&state.configFile, "config", "", "config file (default is ./sitegen.yaml)")
	flags.StringVar(&state.outputDir, "output", "", "override the output directory")
	flags.StringVar(&state.domain, "domain", "", "override the site domain")
	flags.StringVar(&state.logLevel, "log-level", "", "override the log level")

	root.AddCommand(
		newBuildCommand(state),
		newDiffCommand(state),
		newCleanCommand(state),
		newServeCommand(state),
		newVersionCommand(),
	)
	return root
}

func (s *cliState) applyOverrides(cmd *cobra.Command, cfg *runtimeconfig.Config) {
	if cmd.Flags().Changed("output") {
		cfg.Paths.OutputDir = strings.TrimSpace(s.outputDir)
	}
	if cmd.Flags().Changed("domain") {
		cfg.Site.Domain = strings.TrimSpace(s.domain)
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = strings.TrimSpace(s.logLevel)
	}
}

func loadConfig(path string) (runtimeconfig.Config, error) {
	cfg := runtimeconfig.DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("sitegen")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return cfg, configError(err, "bind environment")
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return cfg, configError(err, "read config file")
		}
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, configError(err, "decode config")
	}
	return cfg, nil
}

func configError(err error, message string) error {
	return internalcommands.WrapConfigError(fmt.Errorf("sitegen config: %s: %w", message, err))
}

func buildResources(state *cliState) (*moduleResources, error) {
	res, err := moduleBuilder(moduleOptions{Config: state.cfg})
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, errors.New("module resources not configured")
	}
	return res, nil
}

func newBuildCommand(state *cliState) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Render every page, sitemap, feeds and search index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := buildResources(state)
			if err != nil {
				return err
			}
			if res.handlers.build == nil {
				return errors.New("build handler not configured")
			}
			return res.handlers.build.Execute(cmd.Context(), staticcmd.BuildSiteCommand{
				DryRun:         dryRun,
				ResultCallback: logEnvelope,
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing output")
	return cmd
}

func newDiffCommand(state *cliState) *cobra.Command {
	var outputs []string
	cmd := &cobra.Command{
		Use:   "diff",
		Short: "Render without writing and report what would change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := buildResources(state)
			if err != nil {
				return err
			}
			if res.handlers.diff == nil {
				return errors.New("diff handler not configured")
			}
			return res.handlers.diff.Execute(cmd.Context(), staticcmd.DiffSiteCommand{
				Outputs:        outputs,
				ResultCallback: logEnvelope,
			})
		},
	}
	cmd.Flags().StringSliceVar(&outputs, "only", nil, "limit the report to these output paths")
	return cmd
}

func newCleanCommand(state *cliState) *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Remove generated artifacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res, err := buildResources(state)
			if err != nil {
				return err
			}
			if res.handlers.clean == nil {
				return errors.New("clean handler not configured")
			}
			if err := res.handlers.clean.Execute(cmd.Context(), staticcmd.CleanSiteCommand{}); err != nil {
				return err
			}
			log.Printf("module=static operation=clean output=%s", state.cfg.Paths.OutputDir)
			return nil
		},
	}
}

func newServeCommand(state *cliState) *cobra.Command {
	var (
		host         string
		port         int
		noLiveReload bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the output directory and rebuild on change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("host") {
				state.cfg.Server.Host = host
			}
			if cmd.Flags().Changed("port") {
				state.cfg.Server.Port = port
			}
			if noLiveReload {
				state.cfg.Server.LiveReload = false
			}

			res, err := buildResources(state)
			if err != nil {
				return err
			}
			if res.builder == nil {
				return errors.New("generator not configured")
			}

			logger := logging.NoOp()
			if res.logger != nil {
				logger = logging.ServerLogger(res.logger)
			}
			srv, err := devserver.New(serveConfig(state.cfg), devserver.Dependencies{
				Builder: res.builder,
				Logger:  logger,
			})
			if err != nil {
				return err
			}
			log.Printf("module=devserver operation=serve addr=http://%s", srv.Addr())
			return serveRunner(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVar(&host, "host", "", "listen host")
	cmd.Flags().IntVar(&port, "port", 0, "listen port")
	cmd.Flags().BoolVar(&noLiveReload, "no-livereload", false, "disable the live-reload script")
	return cmd
}

func serveConfig(cfg runtimeconfig.Config) devserver.Config {
	watch := []string{
		cfg.Paths.BlogDir,
		cfg.Paths.ServicesDir,
		cfg.Paths.GalleryDir,
		cfg.Paths.TemplatesDir,
		cfg.Paths.StaticDir,
	}
	if cfg.Paths.SVGDir != "" && filepath.Clean(cfg.Paths.SVGDir) != filepath.Clean(cfg.Paths.StaticDir) {
		watch = append(watch, cfg.Paths.SVGDir)
	}
	if cfg.Theme.Dir != "" {
		watch = append(watch, cfg.Theme.Dir)
	}
	return devserver.Config{
		Host:       cfg.Server.Host,
		Port:       cfg.Server.Port,
		Root:       cfg.Paths.OutputDir,
		Watch:      watch,
		Debounce:   cfg.Server.Debounce,
		LiveReload: cfg.Server.LiveReload,
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the sitegen version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "sitegen %s\n", version)
			return err
		},
	}
}

func logEnvelope(envelope staticcmd.ResultEnvelope) {
	operation, _ := envelope.Metadata["operation"].(string)
	if operation == "" {
		operation = "build"
	}
	result := envelope.Result
	if result == nil {
		log.Printf("module=static operation=%s", operation)
		return
	}
	log.Printf("module=static operation=%s summary pages_built=%d pages_failed=%d artifacts=%d dry_run=%t duration=%s",
		operation, result.PagesBuilt, result.PagesFailed, result.ArtifactsBuilt, result.DryRun, result.Duration)
	for _, page := range result.Rendered {
		log.Printf("module=static operation=%s page output=%s kind=%s", operation, page.Output, page.Kind)
	}
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			log.Printf("module=static operation=%s failed page=%s error=%v", operation, diag.Output, diag.Err)
		}
	}
}
