package main

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	goerrors "github.com/goliatone/go-errors"

	staticcmd "github.com/goliatone/go-sitegen/internal/commands/static"
	"github.com/goliatone/go-sitegen/internal/devserver"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/internal/pages"
)

type stubHandlers struct {
	build *stubBuildHandler
	diff  *stubDiffHandler
	clean *stubCleanHandler
	opts  moduleOptions
}

type stubBuildHandler struct {
	last staticcmd.BuildSiteCommand
}

func (s *stubBuildHandler) Execute(ctx context.Context, msg staticcmd.BuildSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		operation := "build"
		if msg.DryRun {
			operation = "build_dry_run"
		}
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result: &generator.BuildResult{
				PagesBuilt: 1,
				DryRun:     msg.DryRun,
				Rendered: []generator.RenderedPage{
					{Output: "index.html", Kind: pages.KindStatic},
				},
			},
			Metadata: map[string]any{"operation": operation},
		})
	}
	return nil
}

type stubDiffHandler struct {
	last staticcmd.DiffSiteCommand
}

func (s *stubDiffHandler) Execute(ctx context.Context, msg staticcmd.DiffSiteCommand) error {
	s.last = msg
	if msg.ResultCallback != nil {
		msg.ResultCallback(staticcmd.ResultEnvelope{
			Result:   &generator.BuildResult{DryRun: true},
			Metadata: map[string]any{"operation": "diff"},
		})
	}
	return nil
}

type stubCleanHandler struct {
	calls int
	err   error
}

func (s *stubCleanHandler) Execute(ctx context.Context, msg staticcmd.CleanSiteCommand) error {
	s.calls++
	return s.err
}

type stubBuilder struct{}

func (stubBuilder) Build(context.Context, generator.BuildOptions) (*generator.BuildResult, error) {
	return &generator.BuildResult{}, nil
}

var activeStubHandlers *stubHandlers

func withStubModule(t *testing.T) {
	t.Helper()
	original := moduleBuilder
	stubs := &stubHandlers{
		build: &stubBuildHandler{},
		diff:  &stubDiffHandler{},
		clean: &stubCleanHandler{},
	}
	activeStubHandlers = stubs

	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		stubs.opts = opts
		return &moduleResources{
			handlers: handlerSet{
				build: stubs.build,
				diff:  stubs.diff,
				clean: stubs.clean,
			},
			builder: stubBuilder{},
		}, nil
	}

	t.Cleanup(func() {
		moduleBuilder = original
		activeStubHandlers = nil
	})
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOutput := log.Writer()
	prevFlags := log.Flags()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(prevOutput)
		log.SetFlags(prevFlags)
	})
	return &buf
}

func TestRunBuild_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"build"}); err != nil {
		t.Fatalf("run build: %v", err)
	}
	if activeStubHandlers.build.last.DryRun {
		t.Fatal("expected dry run to be false")
	}
	logOutput := buf.String()
	if !strings.Contains(logOutput, "module=static operation=build summary pages_built=1") {
		t.Fatalf("expected build summary log, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "output=index.html kind=static") {
		t.Fatalf("expected rendered page log, got %q", logOutput)
	}
}

func TestRunBuild_DryRunFlag(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"build", "--dry-run"}); err != nil {
		t.Fatalf("run build dry-run: %v", err)
	}
	if !activeStubHandlers.build.last.DryRun {
		t.Fatal("expected DryRun flag to be set")
	}
	if !strings.Contains(buf.String(), "module=static operation=build_dry_run") {
		t.Fatalf("expected build_dry_run log, got %q", buf.String())
	}
}

func TestRunDiff_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"diff", "--only", "index.html,blog.html"}); err != nil {
		t.Fatalf("run diff: %v", err)
	}
	got := activeStubHandlers.diff.last.Outputs
	if len(got) != 2 || got[0] != "index.html" || got[1] != "blog.html" {
		t.Fatalf("expected outputs to propagate, got %#v", got)
	}
	if !strings.Contains(buf.String(), "module=static operation=diff summary") {
		t.Fatalf("expected diff summary log, got %q", buf.String())
	}
}

func TestRunClean_UsesCommandHandler(t *testing.T) {
	withStubModule(t)
	buf := captureLogs(t)

	if err := run([]string{"clean"}); err != nil {
		t.Fatalf("run clean: %v", err)
	}
	if activeStubHandlers.clean.calls != 1 {
		t.Fatalf("expected clean handler called once, got %d", activeStubHandlers.clean.calls)
	}
	if !strings.Contains(buf.String(), "module=static operation=clean") {
		t.Fatalf("expected clean log, got %q", buf.String())
	}
}

func TestRunClean_PropagatesErrors(t *testing.T) {
	withStubModule(t)
	captureLogs(t)
	activeStubHandlers.clean.err = errors.New("boom")

	err := run([]string{"clean"})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected propagated error, got %v", err)
	}
}

func TestRun_FlagsOverrideConfig(t *testing.T) {
	withStubModule(t)
	captureLogs(t)

	if err := run([]string{"build", "--output", "public", "--domain", "https://example.org", "--log-level", "debug"}); err != nil {
		t.Fatalf("run build: %v", err)
	}
	cfg := activeStubHandlers.opts.Config
	if cfg.Paths.OutputDir != "public" {
		t.Fatalf("expected output override, got %q", cfg.Paths.OutputDir)
	}
	if cfg.Site.Domain != "https://example.org" {
		t.Fatalf("expected domain override, got %q", cfg.Site.Domain)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected log level override, got %q", cfg.Logging.Level)
	}
}

func TestRun_LoadsConfigFileAndEnv(t *testing.T) {
	withStubModule(t)
	captureLogs(t)

	path := filepath.Join(t.TempDir(), "sitegen.yaml")
	data := []byte("site:\n  domain: https://yaml.example\n  base_title: From YAML\npagination:\n  posts_per_page: 6\nserver:\n  debounce: 250ms\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SITEGEN_SITE_BASE_TITLE", "From Env")

	if err := run([]string{"build", "--config", path}); err != nil {
		t.Fatalf("run build: %v", err)
	}
	cfg := activeStubHandlers.opts.Config
	if cfg.Site.Domain != "https://yaml.example" {
		t.Fatalf("expected yaml domain, got %q", cfg.Site.Domain)
	}
	if cfg.Site.BaseTitle != "From Env" {
		t.Fatalf("expected env to win over yaml, got %q", cfg.Site.BaseTitle)
	}
	if cfg.Pagination.PostsPerPage != 6 {
		t.Fatalf("expected posts per page 6, got %d", cfg.Pagination.PostsPerPage)
	}
	if cfg.Server.Debounce.Milliseconds() != 250 {
		t.Fatalf("expected debounce 250ms, got %s", cfg.Server.Debounce)
	}
	if cfg.Paths.TemplatesDir == "" {
		t.Fatal("expected defaults to survive for keys absent from the file")
	}
}

func TestRun_MissingConfigFile(t *testing.T) {
	withStubModule(t)

	err := run([]string{"build", "--config", filepath.Join(t.TempDir(), "missing.yaml")})
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestRunServe_UsesServeRunner(t *testing.T) {
	withStubModule(t)
	captureLogs(t)

	original := serveRunner
	var addr string
	serveRunner = func(ctx context.Context, srv *devserver.Server) error {
		addr = srv.Addr()
		return nil
	}
	t.Cleanup(func() { serveRunner = original })

	if err := run([]string{"serve", "--host", "127.0.0.1", "--port", "9001"}); err != nil {
		t.Fatalf("run serve: %v", err)
	}
	if addr != "127.0.0.1:9001" {
		t.Fatalf("expected overridden address, got %q", addr)
	}
}

func TestServeConfigWatchesSources(t *testing.T) {
	withStubModule(t)
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	cfg.Theme.Dir = "./themes/default"

	got := serveConfig(cfg)
	if got.Root != cfg.Paths.OutputDir {
		t.Fatalf("expected root %q, got %q", cfg.Paths.OutputDir, got.Root)
	}
	want := map[string]bool{
		cfg.Paths.BlogDir:      false,
		cfg.Paths.TemplatesDir: false,
		cfg.Paths.StaticDir:    false,
		cfg.Theme.Dir:          false,
	}
	for _, path := range got.Watch {
		if _, ok := want[path]; ok {
			want[path] = true
		}
	}
	for path, seen := range want {
		if !seen {
			t.Fatalf("expected %s to be watched, got %v", path, got.Watch)
		}
	}
}

func TestRun_ErrorsWhenHandlersMissing(t *testing.T) {
	original := moduleBuilder
	moduleBuilder = func(opts moduleOptions) (*moduleResources, error) {
		return &moduleResources{}, nil
	}
	t.Cleanup(func() { moduleBuilder = original })

	err := run([]string{"build"})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected handler error, got %v", err)
	}
}

func TestRun_Version(t *testing.T) {
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out.String(), "sitegen ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run([]string{"unknown"})
	if err == nil || !strings.Contains(err.Error(), "unknown command") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
}

func TestRun_NoArgs(t *testing.T) {
	withStubModule(t)
	err := run([]string{})
	if err == nil || !strings.Contains(err.Error(), "missing subcommand") {
		t.Fatalf("expected missing subcommand error, got %v", err)
	}
}
